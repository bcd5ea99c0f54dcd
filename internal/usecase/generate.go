package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/opencontainers/go-digest"
	"templater/internal/adapter/emitter"
	"templater/internal/adapter/extractor"
	"templater/internal/domain"
	"templater/internal/port"
)

// GenerateOptions configures a Generator.
type GenerateOptions struct {
	OutputSuffix string
	DefaultUnit  string
	// ConfigHash is stored with each manifest record; a record made under a
	// different hash never causes a skip.
	ConfigHash string
	Force      bool
}

// GenerateUseCase turns source units into accessor units.
type GenerateUseCase struct {
	loader    port.SourceLoader
	writer    port.SourceWriter
	manifest  port.Manifest
	extractor *extractor.Extractor
	emitter   *emitter.Emitter
	opts      GenerateOptions
}

// NewGenerateUseCase creates a new generate use case. manifest may be nil,
// which disables incremental skipping.
func NewGenerateUseCase(
	loader port.SourceLoader,
	writer port.SourceWriter,
	manifest port.Manifest,
	ext *extractor.Extractor,
	emit *emitter.Emitter,
	opts GenerateOptions,
) *GenerateUseCase {
	if opts.OutputSuffix == "" {
		opts.OutputSuffix = "Accessible"
	}
	return &GenerateUseCase{
		loader:    loader,
		writer:    writer,
		manifest:  manifest,
		extractor: ext,
		emitter:   emit,
		opts:      opts,
	}
}

// UnitResult describes one processed unit.
type UnitResult struct {
	Name       string
	OutputName string
	OutputPath string
	Templates  int
	Skipped    bool
}

// GenerateResult contains the results of a batch.
type GenerateResult struct {
	Units   []UnitResult
	Failed  []string
	Errors  []string
	Elapsed time.Duration
}

func (r *GenerateResult) Generated() int {
	n := 0
	for _, u := range r.Units {
		if !u.Skipped {
			n++
		}
	}
	return n
}

func (r *GenerateResult) Skipped() int {
	return len(r.Units) - r.Generated()
}

// Run processes names in order. A failing unit is logged and recorded and
// the batch moves on; only context cancellation stops it early. An empty
// list processes the default unit.
func (u *GenerateUseCase) Run(ctx context.Context, names []string, progress func(name string)) (*GenerateResult, error) {
	start := time.Now()
	result := &GenerateResult{}

	if len(names) == 0 {
		if u.opts.DefaultUnit == "" {
			return nil, fmt.Errorf("%w: no unit names given and no default unit configured", errdefs.ErrInvalidArgument)
		}
		log.G(ctx).WithField("unit", u.opts.DefaultUnit).Info("no unit names given, using default")
		names = []string{u.opts.DefaultUnit}
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			result.Elapsed = time.Since(start)
			return result, err
		}

		res, err := u.Generate(ctx, name)
		if progress != nil {
			progress(name)
		}
		if err != nil {
			log.G(ctx).WithError(err).WithFields(log.Fields{
				"unit": name,
				"kind": domain.Classify(err),
			}).Error("generation failed")
			result.Failed = append(result.Failed, name)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		result.Units = append(result.Units, *res)
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

// Generate runs the pipeline for one unit and writes the accessor unit.
func (u *GenerateUseCase) Generate(ctx context.Context, name string) (*UnitResult, error) {
	src := domain.NewUnit(name)
	if err := u.loader.Load(ctx, src); err != nil {
		return nil, err
	}
	dst := domain.NewUnit(name + u.opts.OutputSuffix)

	sourceDigest := digest.FromString(src.Text).String()
	if entry, ok := u.upToDate(name, dst.QualifiedName, sourceDigest); ok {
		log.G(ctx).WithField("unit", name).Debug("unchanged, skipping")
		return &UnitResult{
			Name:       name,
			OutputName: dst.QualifiedName,
			OutputPath: entry.OutputPath,
			Templates:  len(entry.Templates),
			Skipped:    true,
		}, nil
	}

	reg, err := u.Compile(ctx, src, dst)
	if err != nil {
		return nil, err
	}

	if err := u.writer.Write(ctx, dst); err != nil {
		return nil, err
	}

	if u.manifest != nil {
		entry := domain.ManifestEntry{
			QualifiedName: name,
			SourcePath:    src.Path,
			OutputPath:    dst.Path,
			SourceDigest:  sourceDigest,
			ConfigHash:    u.opts.ConfigHash,
			GeneratedAt:   time.Now().UTC(),
			Templates:     reg.Templates(),
		}
		if err := u.manifest.Put(entry); err != nil {
			// Output is already written; the unit is regenerated next run.
			log.G(ctx).WithError(err).WithField("unit", name).Warn("failed to record manifest entry")
		}
	}

	log.G(ctx).WithFields(log.Fields{
		"unit":      name,
		"output":    dst.QualifiedName,
		"templates": reg.Len(),
	}).Info("generated accessor unit")

	return &UnitResult{
		Name:       name,
		OutputName: dst.QualifiedName,
		OutputPath: dst.Path,
		Templates:  reg.Len(),
	}, nil
}

// Compile fills dst.Text from a loaded src without any I/O and returns the
// extracted templates. src gets its Preamble and Caption set.
func (u *GenerateUseCase) Compile(ctx context.Context, src, dst *domain.Unit) (*domain.Registry, error) {
	parts, err := extractor.Split(src.Text)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", src.QualifiedName, err)
	}
	src.Preamble = parts.Preamble
	src.Caption = parts.Caption

	dst.Preamble = src.Preamble
	dst.Imports = u.emitter.Imports()

	ctx = log.WithLogger(ctx, log.G(ctx).WithField("unit", src.QualifiedName))
	reg, err := u.extractor.ExtractAll(ctx, src.Text, parts.End)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", src.QualifiedName, err)
	}

	if err := u.emitter.Emit(src, dst, reg); err != nil {
		return nil, fmt.Errorf("unit %s: %w", src.QualifiedName, err)
	}
	return reg, nil
}

func (u *GenerateUseCase) upToDate(name, outputName, sourceDigest string) (domain.ManifestEntry, bool) {
	if u.opts.Force || u.manifest == nil {
		return domain.ManifestEntry{}, false
	}
	entry, err := u.manifest.Get(name)
	if err != nil {
		return domain.ManifestEntry{}, false
	}
	if entry.SourceDigest != sourceDigest || entry.ConfigHash != u.opts.ConfigHash {
		return domain.ManifestEntry{}, false
	}
	if ex, ok := u.writer.(interface{ Exists(string) bool }); ok && !ex.Exists(outputName) {
		return domain.ManifestEntry{}, false
	}
	return entry, true
}

// Discover returns the sorted names of all units below root whose text
// contains the marker.
func (u *GenerateUseCase) Discover(ctx context.Context, walker port.FileWalker, resolver port.UnitResolver, root string) ([]string, error) {
	files, err := walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	var names []string
	for _, f := range files {
		name, ok := resolver.NameOf(f.RelPath)
		if !ok {
			continue
		}
		unit := domain.NewUnit(name)
		if err := u.loader.Load(ctx, unit); err != nil {
			log.G(ctx).WithError(err).WithField("path", f.Path).Warn("skipping unreadable unit")
			continue
		}
		if strings.Contains(unit.Text, u.extractor.Marker()) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	log.G(ctx).WithFields(log.Fields{
		"scanned": len(files),
		"found":   len(names),
	}).Debug("discovered template units")
	return names, nil
}
