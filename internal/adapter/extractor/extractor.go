// Package extractor locates marker-annotated methods in the raw text of a
// compilation unit and cuts them into preamble, caption and body.
//
// The extraction is textual: braces are counted without regard to comments
// or string and character literals, so a body containing a literal "}" is
// cut at the wrong place. Keep template sources well formatted.
package extractor

import (
	"context"
	"fmt"

	"github.com/containerd/log"
	"templater/internal/adapter/scanner"
	"templater/internal/domain"
)

// DefaultMarker is the annotation that flags a method for extraction.
const DefaultMarker = "@TemplateMethod"

// Options configures an Extractor. Zero values select the defaults.
type Options struct {
	Marker       string
	InlineSuffix string
}

type Extractor struct {
	marker       string
	inlineSuffix string
}

func New(opts Options) *Extractor {
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	if opts.InlineSuffix == "" {
		opts.InlineSuffix = DefaultInlineSuffix
	}
	return &Extractor{marker: opts.Marker, inlineSuffix: opts.InlineSuffix}
}

// Marker returns the annotation text the extractor searches for.
func (e *Extractor) Marker() string {
	return e.marker
}

// ExtractAll collects every marked method found at or after from.
// Extraction stops at the first error.
func (e *Extractor) ExtractAll(ctx context.Context, text string, from int) (*domain.Registry, error) {
	reg := domain.NewRegistry()

	cursor := from
	for {
		tmpl, next, ok, err := e.Next(text, cursor)
		if err != nil {
			return nil, err
		}
		if !ok {
			return reg, nil
		}

		if reg.Add(tmpl) {
			log.G(ctx).WithField("template", tmpl.Name).Warn("duplicate template name, the later definition wins")
		}
		log.G(ctx).WithFields(log.Fields{
			"template":    tmpl.Name,
			"must_inline": tmpl.MustInline,
			"params":      tmpl.Params.Outcome,
		}).Debug("extracted template")

		cursor = next
	}
}

// Next extracts the first marked method at or after cursor. It returns the
// template, the cursor to resume from, and false once no marker is left.
func (e *Extractor) Next(text string, cursor int) (*domain.Template, int, bool, error) {
	at, ok := scanner.FindNext(text, e.marker, cursor)
	if !ok {
		return nil, cursor, false, nil
	}

	preambleStart := scanner.BlankLineStart(text, at)
	if preambleStart < cursor {
		preambleStart = cursor
	}
	preambleEnd := scanner.LineStart(text, at)

	captionStart, ok := scanner.IndexByte(text, '\n', at)
	if !ok {
		return nil, cursor, false, fmt.Errorf("%w: marker at offset %d is on the last line", domain.ErrMalformedSignature, at)
	}
	captionStart++

	open, ok := scanner.IndexByte(text, '{', at)
	if !ok {
		return nil, cursor, false, fmt.Errorf("%w: no opening brace after marker at offset %d", domain.ErrMalformedSignature, at)
	}
	if open < captionStart {
		return nil, cursor, false, fmt.Errorf("%w: opening brace on the marker line at offset %d", domain.ErrMalformedSignature, open)
	}

	// The caption keeps the character after the brace, normally the newline.
	captionEnd := min(open+2, len(text))
	caption := text[captionStart:captionEnd]

	name, mustInline, err := DeriveName(caption, e.inlineSuffix)
	if err != nil {
		return nil, cursor, false, err
	}

	closing, err := MatchBrace(text, open)
	if err != nil {
		return nil, cursor, false, fmt.Errorf("method %s: %w", name, err)
	}

	bodyEnd := scanner.LineStart(text, closing)
	if bodyEnd < captionEnd {
		return nil, cursor, false, fmt.Errorf("%w: method %s closes on its caption line", domain.ErrMalformedSignature, name)
	}

	var params domain.ParamList
	if list, ok := ParamSource(caption); ok {
		params = ParseParams(list)
	}

	return &domain.Template{
		Name:       name,
		MustInline: mustInline,
		Preamble:   text[preambleStart:preambleEnd],
		Caption:    caption,
		Body:       text[captionEnd:bodyEnd],
		Footer:     domain.TemplateFooter,
		Params:     params,
	}, bodyEnd, true, nil
}

// MatchBrace returns the offset of the brace closing the one at open.
// Scanning starts at open itself, so text[open] is expected to be '{'.
func MatchBrace(text string, open int) (int, error) {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return 0, &domain.BraceError{Kind: domain.PrematureClose, Start: open, At: i}
			}
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, &domain.BraceError{Kind: domain.UnterminatedBody, Start: open, At: len(text)}
}
