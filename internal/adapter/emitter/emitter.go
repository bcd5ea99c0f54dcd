// Package emitter serializes extracted templates into a Java accessor unit.
//
// The generated unit keeps the preamble of the source unit, imports the
// runtime classes and exposes one static method returning a map from method
// name to MethodSourceTemplate. Every text field is stored as an escaped
// string literal.
package emitter

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"templater/internal/domain"
)

const (
	DefaultRuntimePackage = "de.a0h.javatemplater"
	DefaultAccessorName   = "getMethods"
)

// skippedParamsLine marks a parameter list that was not parsed.
const skippedParamsLine = "\t\t\t\t\t\t\t\t// parameters not parsed: generic types\n"

var packageLine = regexp.MustCompile(`(?m)^package .*?;\n`)

const accessorSource = "" +
	"\n" +
	"\n" +
	"\t/**\n" +
	"\t * This method returns a map from method names to method sources.<br/>\n" +
	"\t * The map is generated automatically based on the source of the class<br/>\n" +
	"\t * {{.SourceName}}.\n" +
	"\t */\n" +
	"\tpublic static HashMap<String, MethodSourceTemplate> {{.AccessorName}}() {\n" +
	"\t\tHashMap<String, MethodSourceTemplate> result = new HashMap<>();\n" +
	"{{range .Templates}}" +
	"\t\tresult.put( //\n" +
	"\t\t\t\t\"{{.Name}}\", //\n" +
	"\t\t\t\tnew MethodSourceTemplate( //\n" +
	"\t\t\t\t\t\t\"{{.Name}}\", //\n" +
	"\t\t\t\t\t\t\"{{.Preamble}}\", //\n" +
	"\t\t\t\t\t\t\"{{.Caption}}\", //\n" +
	"\t\t\t\t\t\t\"{{.Body}}\", //\n" +
	"\t\t\t\t\t\t{{.MustInline}}, //\n" +
	"\t\t\t\t\t\tArrays.<Param>asList( //\n" +
	"{{.Params}}" +
	"\t\t\t\t\t\t) //\n" +
	"\t\t\t\t) //\n" +
	"\t\t);\n" +
	"{{end}}" +
	"\n" +
	"\t\treturn result;\n" +
	"\t}\n" +
	"}\n"

var accessorTemplate = template.Must(template.New("accessor").Parse(accessorSource))

type accessorData struct {
	SourceName   string
	AccessorName string
	Templates    []templateData
}

type templateData struct {
	Name       string
	Preamble   string
	Caption    string
	Body       string
	MustInline bool
	Params     string
}

// Options configures an Emitter. Zero values select the defaults.
type Options struct {
	// RuntimePackage holds MethodSourceTemplate and its Param class.
	RuntimePackage string
	// AccessorName is the name of the generated static method.
	AccessorName string
}

type Emitter struct {
	runtimePackage string
	accessorName   string
}

func New(opts Options) *Emitter {
	if opts.RuntimePackage == "" {
		opts.RuntimePackage = DefaultRuntimePackage
	}
	if opts.AccessorName == "" {
		opts.AccessorName = DefaultAccessorName
	}
	return &Emitter{runtimePackage: opts.RuntimePackage, accessorName: opts.AccessorName}
}

// Imports returns the import list every accessor unit needs.
func (e *Emitter) Imports() []domain.Import {
	return []domain.Import{
		"java.util.Arrays",
		"java.util.HashMap",
		domain.BlankImport,
		domain.Import(e.runtimePackage + ".MethodSourceTemplate"),
		domain.Import(e.runtimePackage + ".MethodSourceTemplate.Param"),
	}
}

// RewriteCaption replaces every occurrence of the source simple name so the
// declaration and any constructor references name the destination type.
func RewriteCaption(caption, from, to string) string {
	if from == "" {
		return caption
	}
	return strings.ReplaceAll(caption, from, to)
}

// Emit renders the accessor unit for reg. It derives dst.Caption from the
// source caption and stores the complete output in dst.Text.
func (e *Emitter) Emit(src, dst *domain.Unit, reg *domain.Registry) error {
	dst.Caption = RewriteCaption(src.Caption, src.SimpleName, dst.SimpleName)

	var b strings.Builder
	writeHeader(&b, dst)
	b.WriteString(dst.Caption)

	data := accessorData{
		SourceName:   src.SimpleName,
		AccessorName: e.accessorName,
	}
	for _, t := range reg.Templates() {
		data.Templates = append(data.Templates, templateData{
			Name:       t.Name,
			Preamble:   Escape(t.Preamble),
			Caption:    Escape(t.Caption),
			Body:       Escape(t.Body),
			MustInline: t.MustInline,
			Params:     renderParams(t.Params),
		})
	}

	if err := accessorTemplate.Execute(&b, data); err != nil {
		return fmt.Errorf("executing accessor template: %w", err)
	}

	dst.Text = b.String()
	return nil
}

// writeHeader writes the package declaration, the imports and the rest of
// the preamble. Imports go right after the package line when the preamble
// has one.
func writeHeader(b *strings.Builder, dst *domain.Unit) {
	if loc := packageLine.FindStringIndex(dst.Preamble); loc != nil {
		b.WriteString(dst.Preamble[:loc[1]])
		writeImports(b, dst.Imports)

		if rest := strings.TrimSpace(dst.Preamble[loc[1]:]); rest != "" {
			b.WriteString(rest)
			b.WriteByte('\n')
		}
		return
	}

	if dst.Namespace != "" {
		fmt.Fprintf(b, "package %s;\n", dst.Namespace)
	}
	writeImports(b, dst.Imports)
	b.WriteString(dst.Preamble)
}

func writeImports(b *strings.Builder, imports []domain.Import) {
	if len(imports) == 0 {
		return
	}

	newlineIfNotEmpty(b)
	for _, imp := range imports {
		if imp == domain.BlankImport {
			b.WriteByte('\n')
			continue
		}
		fmt.Fprintf(b, "import %s;\n", imp)
	}
	newlineIfNotEmpty(b)
}

func newlineIfNotEmpty(b *strings.Builder) {
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
}

func renderParams(l domain.ParamList) string {
	if l.Skipped() {
		return skippedParamsLine
	}

	var b strings.Builder
	for i, p := range l.Params {
		sep := ","
		if i == len(l.Params)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "\t\t\t\t\t\t\t\tnew Param(\"%s\", \"%s\")%s //\n", Escape(p.Name), Escape(p.Type), sep)
	}
	return b.String()
}
