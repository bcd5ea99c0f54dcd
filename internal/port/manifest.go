package port

import "templater/internal/domain"

type Manifest interface {
	Get(qualifiedName string) (domain.ManifestEntry, error)

	Put(entry domain.ManifestEntry) error

	Delete(qualifiedName string) error

	List() ([]domain.ManifestEntry, error)

	Close() error
}
