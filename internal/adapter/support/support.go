// Package support renders the Java runtime classes that generated accessor
// units depend on: MethodSourceTemplate and the marker annotation.
package support

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"
	"templater/internal/domain"
	"templater/internal/port"
)

//go:embed templates/*.tmpl
var javaTemplates embed.FS

type Options struct {
	RuntimePackage string
	Marker         string
	InlineSuffix   string
	OutputSuffix   string
}

type data struct {
	Package      string
	Annotation   string
	InlineSuffix string
	OutputSuffix string
}

// Units renders the runtime classes as units ready for a SourceWriter.
func Units(opts Options) ([]*domain.Unit, error) {
	if opts.RuntimePackage == "" {
		return nil, fmt.Errorf("%w: runtime package is empty", errdefs.ErrInvalidArgument)
	}
	annotation := strings.TrimPrefix(opts.Marker, "@")
	if annotation == "" || strings.ContainsAny(annotation, " \t\n().") {
		return nil, fmt.Errorf("%w: marker %q is not a simple annotation", errdefs.ErrInvalidArgument, opts.Marker)
	}

	d := data{
		Package:      opts.RuntimePackage,
		Annotation:   annotation,
		InlineSuffix: opts.InlineSuffix,
		OutputSuffix: opts.OutputSuffix,
	}

	files, err := javaTemplates.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	var units []*domain.Unit
	for _, f := range files {
		content, err := javaTemplates.ReadFile(path.Join("templates", f.Name()))
		if err != nil {
			return nil, err
		}
		tmpl, err := template.New(f.Name()).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, d); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", f.Name(), err)
		}

		simple := strings.TrimSuffix(f.Name(), ".java.tmpl")
		if simple == "TemplateMethod" {
			simple = annotation
		}
		unit := domain.NewUnit(opts.RuntimePackage + "." + simple)
		unit.Text = buf.String()
		units = append(units, unit)
	}
	return units, nil
}

// Install writes the runtime classes, returning the units written.
func Install(ctx context.Context, w port.SourceWriter, opts Options) ([]*domain.Unit, error) {
	units, err := Units(opts)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		if err := w.Write(ctx, u); err != nil {
			return nil, fmt.Errorf("unit %s: %w", u.QualifiedName, err)
		}
		log.G(ctx).WithField("unit", u.QualifiedName).Info("installed runtime class")
	}
	return units, nil
}
