package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

var (
	blogCUEDir     = filepath.Join("testdata", "blog")
	blogSchemaYAML = filepath.Join("testdata", "blog.schema.yaml")
	firstAuthorQ   = filepath.Join("testdata", "queries", "first_author.yaml")
	totalQ         = filepath.Join("testdata", "queries", "total.json")
	invalidQ       = filepath.Join("testdata", "queries", "invalid.yaml")
	scenariosDir   = filepath.Join("..", "harness", "testdata", "scenarios")
)

const firstAuthorType = `{_id: string, _type: "author", name?: string, slug?: inline<slug>, bio?: string | null} | null`

// execute runs one subcommand built by newCmd and returns its stdout.
func execute(t *testing.T, newCmd func(*RootOptions) *cobra.Command, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newCmd(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
