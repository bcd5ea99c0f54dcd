package emitter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"templater/internal/domain"
)

var ErrMalformedAccessor = errors.New("malformed accessor unit")

// literal matches an escaped string literal, including continuation breaks.
const literal = `"((?:[^"\\\n]|\\.)*(?:" \+ //\n\t{6}"(?:[^"\\\n]|\\.)*)*)"`

const putStart = "\t\tresult.put( //\n"

var (
	putBlock = regexp.MustCompile(`\t\tresult\.put\( //\n` +
		`\t{4}"([^"\n]*)", //\n` +
		`\t{4}new MethodSourceTemplate\( //\n` +
		`\t{6}"([^"\n]*)", //\n` +
		`\t{6}` + literal + `, //\n` +
		`\t{6}` + literal + `, //\n` +
		`\t{6}` + literal + `, //\n` +
		`\t{6}(true|false), //\n` +
		`\t{6}Arrays\.<Param>asList\( //\n` +
		`((?:\t{8}.*\n)*)` +
		`\t{6}\) //\n` +
		`\t{4}\) //\n` +
		`\t\t\);\n`)
	paramCall  = regexp.MustCompile(`new Param\("((?:[^"\\\n]|\\.)*)", "((?:[^"\\\n]|\\.)*)"\)`)
	resultDecl = regexp.MustCompile(`HashMap<String, MethodSourceTemplate> result = new HashMap<>\(\);`)
)

// Decode reads the templates back out of a unit produced by Emit.
func Decode(text string) (*domain.Registry, error) {
	if !resultDecl.MatchString(text) {
		return nil, fmt.Errorf("%w: no accessor method found", ErrMalformedAccessor)
	}

	matches := putBlock.FindAllStringSubmatch(text, -1)
	if n := strings.Count(text, putStart); n != len(matches) {
		return nil, fmt.Errorf("%w: %d of %d result.put blocks are malformed", ErrMalformedAccessor, n-len(matches), n)
	}

	reg := domain.NewRegistry()
	for _, m := range matches {
		key, name := m[1], m[2]
		if key != name {
			return nil, fmt.Errorf("%w: key %q does not match template name %q", ErrMalformedAccessor, key, name)
		}

		fields := make([]string, 3)
		for i, raw := range m[3:6] {
			s, err := Unescape(raw)
			if err != nil {
				return nil, fmt.Errorf("template %s: %w", name, err)
			}
			fields[i] = s
		}

		params, err := decodeParams(m[7])
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}

		reg.Add(&domain.Template{
			Name:       name,
			MustInline: m[6] == "true",
			Preamble:   fields[0],
			Caption:    fields[1],
			Body:       fields[2],
			Footer:     domain.TemplateFooter,
			Params:     params,
		})
	}

	return reg, nil
}

func decodeParams(block string) (domain.ParamList, error) {
	if strings.Contains(block, strings.TrimSpace(skippedParamsLine)) {
		return domain.ParamList{Outcome: domain.ParamsSkippedGenerics}, nil
	}

	calls := paramCall.FindAllStringSubmatch(block, -1)
	if n := strings.Count(block, "new Param("); n != len(calls) {
		return domain.ParamList{}, fmt.Errorf("%w: %d of %d parameters are malformed", ErrMalformedAccessor, n-len(calls), n)
	}

	var params []domain.Param
	for _, m := range calls {
		name, err := Unescape(m[1])
		if err != nil {
			return domain.ParamList{}, err
		}
		typ, err := Unescape(m[2])
		if err != nil {
			return domain.ParamList{}, err
		}
		params = append(params, domain.Param{Name: name, Type: typ})
	}
	return domain.ParamList{Outcome: domain.ParamsParsed, Params: params}, nil
}
