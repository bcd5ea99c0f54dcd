package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"templater/internal/adapter/emitter"
	"templater/internal/adapter/extractor"
	"templater/internal/adapter/fs"
	"templater/internal/adapter/store"
	"templater/internal/domain"
)

const exampleUnit = "de.a0h.javatemplater.TemplateExample"

type fixture struct {
	root  string
	tree  *fs.SourceTree
	store *store.BoltStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()

	data, err := os.ReadFile(filepath.Join("testdata", "TemplateExample.java"))
	require.NoError(t, err)

	f := &fixture{root: root, tree: fs.NewSourceTree(root, ".java", 0)}
	writeSource(t, f.tree, exampleUnit, string(data))

	st, err := store.NewBoltStore(filepath.Join(t.TempDir(), "manifest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	f.store = st

	return f
}

func writeSource(t *testing.T, tree *fs.SourceTree, name, text string) {
	t.Helper()
	p := tree.Path(name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(text), 0o644))
}

func (f *fixture) useCase(opts GenerateOptions) *GenerateUseCase {
	return NewGenerateUseCase(f.tree, f.tree, f.store,
		extractor.New(extractor.Options{}), emitter.New(emitter.Options{}), opts)
}

func TestGenerateExampleGolden(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(GenerateOptions{DefaultUnit: exampleUnit, ConfigHash: "h1"})

	result, err := uc.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Empty(t, result.Failed)
	require.Len(t, result.Units, 1)
	assert.Equal(t, 1, result.Units[0].Templates)
	assert.Equal(t, exampleUnit+"Accessible", result.Units[0].OutputName)

	got, err := os.ReadFile(f.tree.Path(exampleUnit + "Accessible"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("testdata", "TemplateExampleAccessible.java.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	entry, err := f.store.Get(exampleUnit)
	require.NoError(t, err)
	require.Len(t, entry.Templates, 1)
	sigmoid := entry.Templates[0]
	assert.Equal(t, "sigmoid", sigmoid.Name)
	assert.False(t, sigmoid.MustInline)
	assert.Equal(t, []domain.Param{
		{Name: "inp", Type: "float[]"},
		{Name: "out", Type: "float[]"},
		{Name: "len", Type: "int"},
	}, sigmoid.Params.Params)
}

func TestGeneratePartialFailure(t *testing.T) {
	f := newFixture(t)
	writeSource(t, f.tree, "p.NoClass", "interface NoClass {\n}\n")
	uc := f.useCase(GenerateOptions{})

	var seen []string
	result, err := uc.Run(context.Background(), []string{"p.NoClass", "p.Missing", exampleUnit}, func(name string) {
		seen = append(seen, name)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"p.NoClass", "p.Missing", exampleUnit}, seen)
	assert.Equal(t, []string{"p.NoClass", "p.Missing"}, result.Failed)
	assert.Len(t, result.Errors, 2)
	require.Len(t, result.Units, 1)
	assert.Equal(t, exampleUnit, result.Units[0].Name)

	assert.False(t, f.tree.Exists("p.NoClassAccessible"))
	assert.True(t, f.tree.Exists(exampleUnit+"Accessible"))
}

func TestGenerateErrorKinds(t *testing.T) {
	f := newFixture(t)
	writeSource(t, f.tree, "p.Open", "public class Open {\n\t@TemplateMethod\n\tvoid f() {\n\t\tif (x) {\n}\n")
	uc := f.useCase(GenerateOptions{})
	ctx := context.Background()

	_, err := uc.Generate(ctx, "p.Open")
	assert.ErrorIs(t, err, domain.ErrUnbalancedBraces)

	_, err = uc.Generate(ctx, "p.Missing")
	assert.True(t, errdefs.IsNotFound(err))
	assert.Equal(t, "io-read", domain.Classify(err))
}

func TestGenerateSkipsUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.useCase(GenerateOptions{ConfigHash: "h1"}).Generate(ctx, exampleUnit)
	require.NoError(t, err)
	assert.False(t, res.Skipped)

	res, err = f.useCase(GenerateOptions{ConfigHash: "h1"}).Generate(ctx, exampleUnit)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, 1, res.Templates)

	res, err = f.useCase(GenerateOptions{ConfigHash: "h2"}).Generate(ctx, exampleUnit)
	require.NoError(t, err)
	assert.False(t, res.Skipped, "a config change forces regeneration")

	res, err = f.useCase(GenerateOptions{ConfigHash: "h2", Force: true}).Generate(ctx, exampleUnit)
	require.NoError(t, err)
	assert.False(t, res.Skipped)

	require.NoError(t, os.Remove(f.tree.Path(exampleUnit+"Accessible")))
	res, err = f.useCase(GenerateOptions{ConfigHash: "h2"}).Generate(ctx, exampleUnit)
	require.NoError(t, err)
	assert.False(t, res.Skipped, "a missing output forces regeneration")
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.useCase(GenerateOptions{}).Run(ctx, []string{exampleUnit}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Units)
}

func TestRunWithoutDefault(t *testing.T) {
	f := newFixture(t)
	_, err := f.useCase(GenerateOptions{}).Run(context.Background(), nil, nil)
	assert.True(t, errdefs.IsInvalidArgument(err))
}

func TestDiscover(t *testing.T) {
	f := newFixture(t)
	writeSource(t, f.tree, "p.Plain", "public class Plain {\n}\n")
	writeSource(t, f.tree, "p.Marked", "public class Marked {\n\t@TemplateMethod\n\tvoid f() {\n\t}\n}\n")

	uc := f.useCase(GenerateOptions{})
	_, err := uc.Generate(context.Background(), exampleUnit)
	require.NoError(t, err)

	walker := fs.NewWalker([]string{"**/*.java"}, []string{"**/*Accessible.java"})
	names, err := uc.Discover(context.Background(), walker, f.tree, f.root)
	require.NoError(t, err)
	assert.Equal(t, []string{exampleUnit, "p.Marked"}, names)
}

func TestCompileWithoutIO(t *testing.T) {
	uc := NewGenerateUseCase(nil, nil, nil,
		extractor.New(extractor.Options{}), emitter.New(emitter.Options{}), GenerateOptions{})

	src := domain.NewUnit("p.Ops")
	src.Text = "package p;\n\nclass Ops {\n\t@TemplateMethod\n\tint twice_mustInline(int v) {\n\t\treturn 2 * v;\n\t}\n}\n"
	dst := domain.NewUnit("p.OpsAccessible")

	reg, err := uc.Compile(context.Background(), src, dst)
	require.NoError(t, err)
	require.Equal(t, []string{"twice"}, reg.Names())
	assert.True(t, reg.Templates()[0].MustInline)
	assert.Equal(t, "class Ops {", src.Caption)
	assert.Contains(t, dst.Text, "class OpsAccessible {")

	decoded, err := emitter.Decode(dst.Text)
	require.NoError(t, err)
	assert.Equal(t, reg.Names(), decoded.Names())
}
