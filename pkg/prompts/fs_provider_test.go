package prompts_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FileSystemProvider(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "translate"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "translate", "system.tmpl"),
		[]byte("You translate from {{.inputLang}} to {{.outputLang}}."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "translate", "examples.json"),
		[]byte(`[{"prompt":"hola","completion":"hello"},{"prompt":"adios","completion":"goodbye"}]`), 0o644))

	prov, err := prompts.NewFileSystemProvider(dir)
	require.NoError(t, err)

	ctx := context.Background()

	tpl, err := prov.Template(ctx, "translate/system.tmpl")
	require.NoError(t, err)
	assert.Equal(t, "You translate from {{.inputLang}} to {{.outputLang}}.", tpl)

	examples, err := prov.FewShotExamples(ctx, "translate/examples.json")
	require.NoError(t, err)
	require.Equal(t, 2, len(examples))
	assert.Equal(t, "hola", examples[0].Prompt)
	assert.Equal(t, "hello", examples[0].Completion)

	_, err = prov.Template(ctx, "translate/missing.tmpl")
	require.Error(t, err)
	assert.True(t, errors.Is(err, prompts.ErrPromptNotFound))

	_, err = prov.FewShotExamples(ctx, "translate/missing.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, prompts.ErrPromptNotFound))

	// traversal keys are anchored under the base directory
	_, err = prov.Template(ctx, "../../../etc/passwd")
	require.Error(t, err)
	assert.True(t, errors.Is(err, prompts.ErrPromptNotFound))
}

func Test_FileSystemProvider_InvalidDir(t *testing.T) {
	_, err := prompts.NewFileSystemProvider("testdata/does-not-exist")
	require.Error(t, err)

	f := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
	_, err = prompts.NewFileSystemProvider(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
