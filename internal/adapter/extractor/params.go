package extractor

import (
	"strings"

	"templater/internal/domain"
)

// ParamSource returns the text between the first '(' of caption and its
// matching ')'.
func ParamSource(caption string) (string, bool) {
	open := strings.IndexByte(caption, '(')
	if open == -1 {
		return "", false
	}

	depth := 0
	for i := open; i < len(caption); i++ {
		switch caption[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return caption[open+1 : i], true
			}
		}
	}
	return "", false
}

// ParseParams splits a parameter list into (type, name) pairs.
//
// Lists containing '<' are not split at all: commas inside type arguments
// cannot be told apart from separators without tracking nesting, so the
// result is tagged domain.ParamsSkippedGenerics instead. A piece without a
// space yields a Param with the whole piece as its name and an empty type.
func ParseParams(list string) domain.ParamList {
	if strings.Contains(list, "<") {
		return domain.ParamList{Outcome: domain.ParamsSkippedGenerics}
	}

	var params []domain.Param
	for _, piece := range strings.Split(list, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		sp := strings.LastIndexByte(piece, ' ')
		params = append(params, domain.Param{
			Name: piece[sp+1:],
			Type: strings.TrimSpace(piece[:sp+1]),
		})
	}

	return domain.ParamList{Outcome: domain.ParamsParsed, Params: params}
}
