package port

import (
	"context"

	"templater/internal/domain"
)

// SourceLoader fills in Text and Path of a unit that carries only its
// qualified name.
type SourceLoader interface {
	Load(ctx context.Context, unit *domain.Unit) error
}

// SourceWriter stores a generated unit. It is called at most once per unit
// and never with partial text.
type SourceWriter interface {
	Write(ctx context.Context, unit *domain.Unit) error
}

// UnitResolver maps a slash-separated path below the source root back to
// a qualified unit name.
type UnitResolver interface {
	NameOf(relPath string) (string, bool)
}
