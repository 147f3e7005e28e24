package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nissyi-gh/guide/internal/bot"
	"github.com/nissyi-gh/guide/internal/config"
	"github.com/nissyi-gh/guide/internal/store"
)

type env struct {
	dir  string
	data string
	args []string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("GUIDE_DATA", "")
	data := filepath.Join(dir, "data", "tasks.txt")
	return env{
		dir:  dir,
		data: data,
		args: []string{"--data", data, "--log-file", filepath.Join(dir, "guide.log")},
	}
}

func run(t *testing.T, e env, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(append(args, e.args...), strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestPlainSession(t *testing.T) {
	e := newEnv(t)

	code, out, _ := run(t, e, "todo read book\ndeadline return book /by 2/12/2019 1800\nbye\n", "--plain")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, bot.Welcome)
	assert.Contains(t, out, "Now you have 2 tasks in the list.")
	assert.Contains(t, out, bot.Farewell)

	b, err := os.ReadFile(e.data)
	require.NoError(t, err)
	assert.Equal(t, "T | 0 | read book\nD | 0 | return book | 2/12/2019 1800\n", string(b))
}

func TestPlainSessionEndsAtEOF(t *testing.T) {
	e := newEnv(t)

	code, out, _ := run(t, e, "todo read book\n", "--plain")
	require.Equal(t, ExitOK, code)
	assert.NotContains(t, out, bot.Farewell)
}

func TestPipedInputIsPlainByDefault(t *testing.T) {
	e := newEnv(t)

	code, out, _ := run(t, e, "list\nbye\n")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Here are the tasks in your list:")
}

func TestCorruptFileStillStarts(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(e.data), 0o755))
	require.NoError(t, os.WriteFile(e.data, []byte("X | 0 | what\n"), 0o644))

	code, out, _ := run(t, e, "list\nbye\n", "--plain")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, bot.LoadFailure)
}

func TestSQLiteBackend(t *testing.T) {
	e := newEnv(t)
	db := filepath.Join(e.dir, "tasks.db")

	code, _, _ := run(t, e, "todo read book\ntag 1 fun\nbye\n", "--plain", "--backend", "sqlite", "--db", db)
	require.Equal(t, ExitOK, code)

	code, out, _ := run(t, e, "list\nbye\n", "--plain", "--backend", "sqlite", "--db", db)
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "1. [T][ ] read book #fun")
}

func TestUnknownBackend(t *testing.T) {
	e := newEnv(t)

	code, _, stderr := run(t, e, "", "--plain", "--backend", "csv")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "unknown backend")
}

func TestUnknownFlag(t *testing.T) {
	e := newEnv(t)

	code, _, _ := run(t, e, "", "--nope")
	assert.Equal(t, ExitUsage, code)
}

func TestLockedStore(t *testing.T) {
	e := newEnv(t)
	held, err := store.OpenFile(e.data, nil)
	require.NoError(t, err)
	defer held.Close()

	code, _, _ := run(t, e, "bye\n", "--plain")
	assert.Equal(t, ExitLocked, code)
}

func TestImport(t *testing.T) {
	e := newEnv(t)
	file := filepath.Join(e.dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`tasks:
  - kind: todo
    description: read book
  - kind: event
    description: party
    from: 1/1/2024 1900
    to: 1/1/2024 2300
    done: true
`), 0o644))

	code, out, _ := run(t, e, "", "import", file)
	require.Equal(t, ExitOK, code)
	assert.Equal(t, "Imported 2 tasks.\n", out)

	b, err := os.ReadFile(e.data)
	require.NoError(t, err)
	assert.Equal(t, "T | 0 | read book\nE | 1 | party | 1/1/2024 1900 | 1/1/2024 2300\n", string(b))
}

func TestImportRejectsInvalidEntries(t *testing.T) {
	e := newEnv(t)
	file := filepath.Join(e.dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`tasks:
  - kind: deadline
    description: return book
    by: tomorrow
`), 0o644))

	code, _, stderr := run(t, e, "", "import", file)
	assert.Equal(t, ExitInternal, code)
	assert.Contains(t, stderr, "The date format is invalid.")

	assert.NoFileExists(t, e.data)
}

func TestImportMissingFile(t *testing.T) {
	e := newEnv(t)

	code, _, _ := run(t, e, "", "import", filepath.Join(e.dir, "missing.yaml"))
	assert.Equal(t, ExitInternal, code)
}

func TestUseChat(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, useChat(config.Config{UI: config.UIChat}, &buf, &buf))
	assert.False(t, useChat(config.Config{UI: config.UIPlain}, os.Stdin, os.Stdout))
	assert.False(t, useChat(config.Config{UI: config.UIAuto}, &buf, &buf))
}

func TestPromptFromList(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(e.data), 0o755))
	require.NoError(t, os.WriteFile(e.data, []byte("T | 1 | read book\n"), 0o644))

	code, out, _ := run(t, e, "", "prompt", "--from-list")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "- todo: read book (done)")

	code, out, _ = run(t, e, "", "prompt")
	require.Equal(t, ExitOK, code)
	assert.NotContains(t, out, "read book")
}
