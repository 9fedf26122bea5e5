package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akolanti/docqa/internal/api"
)

const debugConfig = `embedding: debug
vector_store: debug
llm: debug
chunk_size: 300
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "docqa", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["ask"])
	assert.True(t, names["mcp"])

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, "docqa.yaml", flag.DefValue)
}

func TestAskCmd_Arguments(t *testing.T) {
	t.Run("question is required", func(t *testing.T) {
		_, _, err := execute(t, "ask", "-f", "a.txt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "accepts 1 arg")
	})

	t.Run("file flag is required", func(t *testing.T) {
		_, _, err := execute(t, "ask", "what?")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"file" not set`)
	})

	t.Run("blank question", func(t *testing.T) {
		_, _, err := execute(t, "ask", "-f", "a.txt", "   ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "question is empty")
	})
}

func TestAskCmd_Text(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "docqa.yaml", debugConfig)
	doc := writeFile(t, dir, "hello.txt", "Hello World")
	bad := writeFile(t, dir, "image.bmp", "not supported")

	out, errOut, err := execute(t, "ask", "-c", cfg, "-f", doc, "-f", bad, "What is said?")
	require.NoError(t, err)

	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1-1] hello.txt")
	assert.Contains(t, out, "Hello World")
	assert.Contains(t, errOut, "skipped image.bmp")

	_, err = os.Stat(doc)
	assert.NoError(t, err, "local files must not be removed")
}

func TestAskCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "docqa.yaml", debugConfig)
	doc := writeFile(t, dir, "hello.txt", "Hello World")

	out, _, err := execute(t, "ask", "--config", cfg, "--file", doc, "--json", "What is said?")
	require.NoError(t, err)

	var res api.QAResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "What is said?", res.Question)
	assert.Equal(t, []string{"1-1"}, res.Citations)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, "hello.txt", res.Sources[0].FileName)
}

func TestAskCmd_NothingIndexed(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "docqa.yaml", debugConfig)
	bad := writeFile(t, dir, "image.bmp", "not supported")

	_, _, err := execute(t, "ask", "-c", cfg, "-f", bad, "anything?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "indexing failed")
}

func TestAskCmd_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "docqa.yaml", "chunk_size: [not a number]\n")
	doc := writeFile(t, dir, "hello.txt", "Hello World")

	_, _, err := execute(t, "ask", "-c", cfg, "-f", doc, "q?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", snippet("a\n b\t\tc", 10))
	assert.Equal(t, "abc...", snippet("abcdef", 3))
}
