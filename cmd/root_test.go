package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/splice/internal/buffer"
	"github.com/zjrosen/splice/internal/edit"
	"github.com/zjrosen/splice/internal/markup"
)

// execute runs splice with args in an empty working directory and home, so
// no config file on the machine is read.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	return executeHere(t, args...)
}

// executeHere runs splice in the current working directory.
func executeHere(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestWord_ExpandsSelection(t *testing.T) {
	out, _, err := execute(t, "word", "Welcome, fel«low travel»ler, to these barren lands!")
	require.NoError(t, err)
	assert.Equal(t, "Welcome, «fellow traveller», to these barren lands!\n", out)
}

func TestWord_CaretBetweenWhitespace(t *testing.T) {
	out, _, err := execute(t, "word", "left  ‸  right")
	require.NoError(t, err)
	assert.Equal(t, "left    «right»\n", out)
}

func TestLine_ExpandsToLine(t *testing.T) {
	out, _, err := execute(t, "line", "one\ntw‸o\nthree")
	require.NoError(t, err)
	assert.Equal(t, "one\n«two\n»three\n", out)
}

func TestWrap_BoldsWord(t *testing.T) {
	out, _, err := execute(t, "wrap", "Welcome, fel«low travel»ler, to these barren lands!")
	require.NoError(t, err)
	assert.Equal(t, "Welcome, **«fellow traveller»**, to these barren lands!\ndelta: +4\n", out)
}

func TestWrap_CustomPrefixAndSuffix(t *testing.T) {
	out, _, err := execute(t, "wrap", "say he‸llo", "--prefix", "(", "--suffix", ")")
	require.NoError(t, err)
	assert.Equal(t, "say («hello»)\ndelta: +2\n", out)
}

func TestInsert_AppliesSet(t *testing.T) {
	out, _, err := execute(t, "insert", "H‸ello", "--at", "5:!", "--at", "0:>")
	require.NoError(t, err)
	assert.Equal(t, ">H‸ello!\ndelta: +2\n", out)
}

func TestInsert_TextMayContainColons(t *testing.T) {
	out, _, err := execute(t, "insert", "‸", "--at", "0:a:b")
	require.NoError(t, err)
	assert.Equal(t, "a:b‸\ndelta: +3\n", out)
}

func TestInsert_BadSpec(t *testing.T) {
	_, _, err := execute(t, "insert", "abc‸", "--at", "x:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location must be a non-negative integer")

	_, _, err = execute(t, "insert", "abc‸", "--at", "nocolon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected LOCATION:VALUE")
}

func TestDelete_AppliesSetWithDiff(t *testing.T) {
	out, _, err := execute(t, "delete", "Hello, World!‸", "--range", "1:7", "--diff")
	require.NoError(t, err)
	assert.Equal(t, "Horld!‸\ndelta: -7\ndiff: H[-ello, W-]orld!‸\n", out)
}

func TestDelete_OverlappingRangesRejected(t *testing.T) {
	out, _, err := execute(t, "delete", "abcdef‸", "--range", "0:3", "--range", "2:2")
	require.ErrorIs(t, err, edit.ErrOverlappingDeletions)
	assert.Empty(t, out, "nothing runs when the set cannot be composed")
}

func TestDelete_BadLength(t *testing.T) {
	_, _, err := execute(t, "delete", "abc‸", "--range", "0:-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "length must be a non-negative integer")
}

func TestEdit_Within(t *testing.T) {
	out, _, err := execute(t, "delete", "Hello, World!‸", "--range", "1:2", "--within", "0:5")
	require.NoError(t, err)
	assert.Equal(t, "Hlo, World!‸\ndelta: -2\n", out)

	out, _, err = execute(t, "insert", "Hello‸", "--at", "0:>", "--within", "1:4")
	require.ErrorIs(t, err, buffer.ErrOutOfRange)
	assert.Equal(t, "Hello‸\n", out)

	_, _, err = execute(t, "insert", "Hello‸", "--at", "0:>", "--within", "2:9")
	require.ErrorIs(t, err, buffer.ErrOutOfRange, "the window must fit the fixture")

	_, _, err = execute(t, "insert", "Hello‸", "--at", "0:>", "--within", "oops")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--within")
}

func TestEdit_PartialFailureWithoutAtomic(t *testing.T) {
	out, _, err := execute(t, "insert", "e\u0301x‸", "--at", "3:Y", "--at", "1:X")
	var splits *buffer.SplitsCharacterError
	require.ErrorAs(t, err, &splits)
	assert.Equal(t, "e\u0301xY‸\n", out, "the higher insertion already landed")
}

func TestEdit_AtomicRevertsFailure(t *testing.T) {
	out, _, err := execute(t, "insert", "e\u0301x‸", "--at", "3:Y", "--at", "1:X", "--atomic")
	require.ErrorIs(t, err, buffer.ErrOutOfRange)
	assert.Equal(t, "e\u0301x‸\n", out)
}

func TestEdit_UndoRedo(t *testing.T) {
	out, _, err := execute(t, "wrap", "Welcome, fel«low travel»ler, to these barren lands!", "--undo")
	require.NoError(t, err)
	assert.Equal(t,
		"Welcome, **«fellow traveller»**, to these barren lands!\n"+
			"delta: +4\n"+
			"undo: Welcome, «fellow traveller», to these barren lands!\n"+
			"redo: Welcome, **«fellow traveller»**, to these barren lands!\n",
		out)
}

func TestEdit_RestoreSelectionFlag(t *testing.T) {
	out, _, err := execute(t, "delete", "a«bc»d", "--range", "1:2", "--undo")
	require.NoError(t, err)
	assert.Equal(t, "a‸d\ndelta: -2\nundo: abc‸d\nredo: a‸d\n", out)

	t.Setenv("SPLICE_FLAGS_RESTORE_SELECTION", "true")
	out, _, err = execute(t, "delete", "a«bc»d", "--range", "1:2", "--undo")
	require.NoError(t, err)
	assert.Equal(t, "a‸d\ndelta: -2\nundo: a«bc»d\nredo: a‸d\n", out)
}

func TestEdit_UndoWithNothingRecorded(t *testing.T) {
	out, _, err := execute(t, "word", "a‸b", "--undo")
	require.NoError(t, err)
	assert.Contains(t, out, "undo: nothing to undo")
}

func TestEdit_MalformedFixture(t *testing.T) {
	_, _, err := execute(t, "word", "a«b")
	require.ErrorIs(t, err, markup.ErrMalformed)
}

func TestDebugFlag_LogsToStderr(t *testing.T) {
	_, stderr, err := execute(t, "word", "a‸b", "--debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[cli] Running command")
}

func TestConfig_InvalidFileIsReported(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll(".splice", 0o750))
	require.NoError(t, os.WriteFile(localConfigPath, []byte("undo:\n  max_levels: -1\n"), 0o600))

	_, _, err := executeHere(t, "word", "a‸b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestConfig_ExplicitMissingFile(t *testing.T) {
	_, _, err := execute(t, "word", "a‸b", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestTracing_FileExporterFromEnvironment(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	t.Setenv("SPLICE_TRACING_ENABLED", "true")
	t.Setenv("SPLICE_TRACING_EXPORTER", "file")
	t.Setenv("SPLICE_TRACING_FILE_PATH", tracePath)

	_, _, err := execute(t, "wrap", "fel«low»")
	require.NoError(t, err)

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `"name":"command.wrap"`)
	assert.Contains(t, content, `"name":"undo.group"`)
	assert.NotContains(t, content, `"name":"modify.step"`, "step spans are off by default")
}

func TestTracing_StepSpansFlag(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	t.Setenv("SPLICE_TRACING_ENABLED", "true")
	t.Setenv("SPLICE_TRACING_FILE_PATH", tracePath)
	t.Setenv("SPLICE_FLAGS_STEP_SPANS", "true")

	_, _, err := execute(t, "wrap", "fel«low»")
	require.NoError(t, err)

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"modify.step"`)
}
