package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"templater/internal/adapter/scanner"
	"templater/internal/domain"
)

// declarationStarts are tried in order. Each is anchored at a line start.
var declarationStarts = []string{"\npublic class ", "\nclass "}

var (
	importLine    = regexp.MustCompile(`(?m)^import .+?;.*?\n`)
	extraNewlines = regexp.MustCompile(`\n{3,}`)
)

// Parts is the result of splitting a unit at its type declaration.
type Parts struct {
	// Preamble is the file-level text before the declaration, imports removed.
	Preamble string
	// Caption runs from the declaration start through its opening brace.
	Caption string
	// End is the offset just after the caption in the original text.
	End int
}

// Split separates the unit text into preamble and type caption.
func Split(text string) (Parts, error) {
	start, ok := declarationStart(text)
	if !ok {
		return Parts{}, fmt.Errorf("%w: source contains neither %q nor %q",
			domain.ErrNoDeclaration, declarationStarts[0], declarationStarts[1])
	}

	brace, ok := scanner.IndexByte(text, '{', start)
	if !ok {
		return Parts{}, fmt.Errorf("%w: declaration at offset %d has no opening brace", domain.ErrNoDeclaration, start)
	}

	preamble := importLine.ReplaceAllString(text[:start], "")
	preamble = extraNewlines.ReplaceAllString(preamble, "\n\n")

	return Parts{
		Preamble: preamble,
		Caption:  text[start : brace+1],
		End:      brace + 1,
	}, nil
}

func declarationStart(text string) (int, bool) {
	for _, pattern := range declarationStarts {
		if strings.HasPrefix(text, pattern[1:]) {
			return 0, true
		}
		if i, ok := scanner.FindNext(text, pattern, 0); ok {
			return i + 1, true
		}
	}
	return 0, false
}
