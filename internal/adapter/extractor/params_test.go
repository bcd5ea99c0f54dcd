package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"templater/internal/domain"
)

func TestParseParams(t *testing.T) {
	got := ParseParams("float[] inp, float[] out, int len")

	assert.Equal(t, domain.ParamsParsed, got.Outcome)
	assert.Equal(t, []domain.Param{
		{Name: "inp", Type: "float[]"},
		{Name: "out", Type: "float[]"},
		{Name: "len", Type: "int"},
	}, got.Params)
}

func TestParseParamsGenericsSkipped(t *testing.T) {
	got := ParseParams("List<String> items")

	assert.True(t, got.Skipped())
	assert.Empty(t, got.Params)
}

func TestParseParamsEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		list string
		want []domain.Param
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"trailing comma", "int a, ", []domain.Param{{Name: "a", Type: "int"}}},
		{"modifiers kept in type", "final int a", []domain.Param{{Name: "a", Type: "final int"}}},
		{"no space", "x", []domain.Param{{Name: "x", Type: ""}}},
		{"multiline", "int a,\n\t\t\tdouble b", []domain.Param{{Name: "a", Type: "int"}, {Name: "b", Type: "double"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseParams(tt.list)
			assert.Equal(t, domain.ParamsParsed, got.Outcome)
			assert.Equal(t, tt.want, got.Params)
		})
	}
}

func TestParamSource(t *testing.T) {
	list, ok := ParamSource("\tvoid f(@Named(\"a\") int a, int b) {\n")
	require.True(t, ok)
	assert.Equal(t, "@Named(\"a\") int a, int b", list)

	list, ok = ParamSource("\tvoid f() {\n")
	require.True(t, ok)
	assert.Empty(t, list)

	_, ok = ParamSource("\tvoid f(int a {\n")
	assert.False(t, ok)

	_, ok = ParamSource("static {\n")
	assert.False(t, ok)
}

func TestDeriveName(t *testing.T) {
	tests := []struct {
		caption    string
		suffix     string
		name       string
		mustInline bool
	}{
		{"\tpublic static void sigmoid_mustInline(float[] a) {\n", DefaultInlineSuffix, "sigmoid", true},
		{"\tpublic static void sigmoid(float[] a) {\n", DefaultInlineSuffix, "sigmoid", false},
		{"\tvoid\tsigmoid(float[] a) {\n", DefaultInlineSuffix, "sigmoid", false},
		{"\tvoid f_inline() {\n", "_inline", "f", true},
		{"\tvoid a_mustInline() {\n", DefaultInlineSuffix, "a", true},
	}
	for _, tt := range tests {
		name, mustInline, err := DeriveName(tt.caption, tt.suffix)
		require.NoError(t, err)
		assert.Equal(t, tt.name, name, tt.caption)
		assert.Equal(t, tt.mustInline, mustInline, tt.caption)
	}
}

func TestDeriveNameErrors(t *testing.T) {
	_, _, err := DeriveName("static {\n", DefaultInlineSuffix)
	assert.ErrorIs(t, err, domain.ErrMalformedSignature)

	_, _, err = DeriveName("\tvoid (int a) {\n", DefaultInlineSuffix)
	assert.ErrorIs(t, err, domain.ErrMalformedSignature)

	_, _, err = DeriveName("\tvoid _mustInline() {\n", DefaultInlineSuffix)
	assert.ErrorIs(t, err, domain.ErrMalformedSignature)
}
