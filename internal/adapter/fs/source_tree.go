package fs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/docker/go-units"
	"templater/internal/domain"
	"templater/internal/port"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// MaxSourceSize is the default read limit: the longest string a Java
// program can hold, since the text ends up in Java string literals.
const MaxSourceSize int64 = math.MaxInt32

// SourceTree maps qualified unit names to files below a source root, e.g.
// "a.b.C" to "<root>/a/b/C.java".
type SourceTree struct {
	root    string
	ext     string
	maxSize int64
}

func NewSourceTree(root, ext string, maxSize int64) *SourceTree {
	if maxSize <= 0 {
		maxSize = MaxSourceSize
	}
	return &SourceTree{root: root, ext: ext, maxSize: maxSize}
}

var (
	_ port.SourceLoader = (*SourceTree)(nil)
	_ port.SourceWriter = (*SourceTree)(nil)
)

func (t *SourceTree) Root() string {
	return t.root
}

// Path returns the file a unit name maps to.
func (t *SourceTree) Path(qualifiedName string) string {
	rel := strings.ReplaceAll(qualifiedName, ".", string(filepath.Separator)) + t.ext
	return filepath.Join(t.root, rel)
}

// NameOf is the inverse of Path for a slash-separated path relative to the
// root. It reports false for files without the tree's extension.
func (t *SourceTree) NameOf(relPath string) (string, bool) {
	if !strings.HasSuffix(relPath, t.ext) {
		return "", false
	}
	name := strings.TrimSuffix(relPath, t.ext)
	if name == "" {
		return "", false
	}
	return strings.ReplaceAll(name, "/", "."), true
}

// Load reads the unit's file into unit.Text and records its path.
func (t *SourceTree) Load(ctx context.Context, unit *domain.Unit) error {
	path := t.Path(unit.QualifiedName)
	unit.Path = path

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %w: %s", domain.ErrRead, errdefs.ErrNotFound, path)
		}
		return fmt.Errorf("%w: %w", domain.ErrRead, err)
	}
	if info.Size() > t.maxSize {
		return fmt.Errorf("%w: %s is %s, the limit is %s", domain.ErrFileTooLarge, path,
			units.BytesSize(float64(info.Size())), units.BytesSize(float64(t.maxSize)))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRead, err)
	}

	log.G(ctx).WithFields(log.Fields{
		"path": path,
		"size": units.HumanSize(float64(len(data))),
	}).Debug("loaded source")

	unit.Text = string(data)
	return nil
}

// Write stores unit.Text atomically: a temporary file in the target
// directory is renamed over the destination.
func (t *SourceTree) Write(ctx context.Context, unit *domain.Unit) error {
	if unit.Path == "" {
		unit.Path = t.Path(unit.QualifiedName)
	}
	dir := filepath.Dir(unit.Path)

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("%w: creating %s: %w", domain.ErrWrite, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".templater-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWrite, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(unit.Text); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", domain.ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", domain.ErrWrite, err)
	}
	_ = os.Chmod(tmpPath, filePerm)

	if err := os.Rename(tmpPath, unit.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", domain.ErrWrite, err)
	}

	log.G(ctx).WithField("path", unit.Path).Debug("wrote unit")
	return nil
}

// Exists reports whether the file for a unit name is present.
func (t *SourceTree) Exists(qualifiedName string) bool {
	_, err := os.Stat(t.Path(qualifiedName))
	return err == nil
}
