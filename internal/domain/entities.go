package domain

import (
	"strings"
	"time"
)

// TemplateFooter closes every extracted method.
const TemplateFooter = "\t}\n"

// Import is one import entry of a generated unit. BlankImport prints an
// empty line and only groups the entries around it.
type Import string

const BlankImport Import = ""

// Unit describes one compilation unit, either the source being scanned or
// the accessor unit being generated.
type Unit struct {
	QualifiedName string
	Namespace     string
	SimpleName    string
	Text          string
	Preamble      string
	Caption       string
	Imports       []Import
	Path          string
}

// NewUnit splits a dot-separated name into namespace and simple name.
func NewUnit(qualifiedName string) *Unit {
	u := &Unit{QualifiedName: qualifiedName, SimpleName: qualifiedName}
	if i := strings.LastIndexByte(qualifiedName, '.'); i != -1 {
		u.Namespace = qualifiedName[:i]
		u.SimpleName = qualifiedName[i+1:]
	}
	return u
}

type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type ParamOutcome int

const (
	ParamsParsed ParamOutcome = iota
	// ParamsSkippedGenerics marks a list that was not split because it
	// contains type parameters.
	ParamsSkippedGenerics
)

func (o ParamOutcome) String() string {
	switch o {
	case ParamsParsed:
		return "parsed"
	case ParamsSkippedGenerics:
		return "skipped-generics"
	default:
		return "unknown"
	}
}

type ParamList struct {
	Outcome ParamOutcome `json:"outcome"`
	Params  []Param      `json:"params,omitempty"`
}

// Skipped reports whether parsing was skipped, as opposed to the method
// having no parameters.
func (l ParamList) Skipped() bool {
	return l.Outcome == ParamsSkippedGenerics
}

// Template is the extracted source of one marked method.
type Template struct {
	Name       string    `json:"name"`
	MustInline bool      `json:"must_inline"`
	Preamble   string    `json:"preamble"`
	Caption    string    `json:"caption"`
	Body       string    `json:"body"`
	Footer     string    `json:"footer"`
	Params     ParamList `json:"params"`
}

// Source reassembles the method text.
func (t *Template) Source() string {
	var b strings.Builder
	b.Grow(len(t.Preamble) + len(t.Caption) + len(t.Body) + len(t.Footer))
	b.WriteString(t.Preamble)
	b.WriteString(t.Caption)
	b.WriteString(t.Body)
	b.WriteString(t.Footer)
	return b.String()
}

// Registry holds the templates of one source unit in extraction order.
type Registry struct {
	templates []*Template
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends t and reports whether a template with the same name was
// already present.
func (r *Registry) Add(t *Template) (duplicate bool) {
	_, duplicate = r.Lookup(t.Name)
	r.templates = append(r.templates, t)
	return duplicate
}

func (r *Registry) Templates() []*Template {
	return r.templates
}

func (r *Registry) Len() int {
	return len(r.templates)
}

// Lookup returns the last template added under name, which is the one the
// generated accessor map ends up holding.
func (r *Registry) Lookup(name string) (*Template, bool) {
	for i := len(r.templates) - 1; i >= 0; i-- {
		if r.templates[i].Name == name {
			return r.templates[i], true
		}
	}
	return nil, false
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for _, t := range r.templates {
		names = append(names, t.Name)
	}
	return names
}

// ManifestEntry records one generated unit.
type ManifestEntry struct {
	QualifiedName string      `json:"qualified_name"`
	SourcePath    string      `json:"source_path"`
	OutputPath    string      `json:"output_path"`
	SourceDigest  string      `json:"source_digest"`
	ConfigHash    string      `json:"config_hash"`
	GeneratedAt   time.Time   `json:"generated_at"`
	Templates     []*Template `json:"templates"`
}
