package sink

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lixenwraith/sinklog/core"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// lumberjack starts millRun on first rotation and never stops it
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
}

func testRecord(msg string) core.Record {
	return core.Record{
		Time:       time.Now(),
		LoggerName: "test",
		Level:      core.LevelInfo,
		Message:    msg,
	}
}

// countLines returns the number of newline terminated lines in path
func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Count(string(data), "\n")
}

func TestFileHelperOpenCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c.log")

	var opened, closed []string
	h := NewFileHelper(FileEvents{
		AfterOpen:  func(name string, _ *os.File) { opened = append(opened, name) },
		AfterClose: func(name string) { closed = append(closed, name) },
	})
	require.NoError(t, h.Open(path, false))
	require.NoError(t, h.Write([]byte("hello\n")))
	assert.Equal(t, int64(6), h.Size())
	assert.Equal(t, path, h.Filename())

	require.NoError(t, h.Flush())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	require.NoError(t, h.Sync())
	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	assert.False(t, h.IsOpen())
	assert.Equal(t, []string{path}, opened)
	assert.Equal(t, []string{path}, closed)
}

func TestFileHelperAppendAndTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "append.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0644))

	h := NewFileHelper(FileEvents{})
	require.NoError(t, h.Open(path, false))
	assert.Equal(t, int64(9), h.Size())
	require.NoError(t, h.Write([]byte("more\n")))
	require.NoError(t, h.Close())
	assert.Equal(t, 2, countLines(t, path))

	require.NoError(t, h.Reopen(true))
	assert.Zero(t, h.Size())
	require.NoError(t, h.Write([]byte("fresh\n")))
	require.NoError(t, h.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(data))
}

func TestFileHelperOpenFailure(t *testing.T) {
	dir := t.TempDir()
	h := NewFileHelper(FileEvents{})
	h.openInterval = time.Millisecond

	attempts := 0
	h.events.BeforeOpen = func(string) { attempts++ }

	// A directory cannot be opened for writing
	err := h.Open(dir, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrOpenFailed)
	assert.Equal(t, OpenTries, attempts)

	errno, ok := core.Errno(err)
	require.True(t, ok)
	assert.Equal(t, syscall.EISDIR, errno)
}

func TestFileHelperNotOpened(t *testing.T) {
	h := NewFileHelper(FileEvents{})
	assert.ErrorIs(t, h.Reopen(false), core.ErrOpenFailed)
	assert.ErrorIs(t, h.Write([]byte("x")), core.ErrWriteFailed)
	assert.NoError(t, h.Flush())
	assert.NoError(t, h.Close())
}

func TestSplitByExtension(t *testing.T) {
	tests := []struct {
		input, stem, ext string
	}{
		{"mylog.txt", "mylog", ".txt"},
		{"mylog", "mylog", ""},
		{"mylog.", "mylog.", ""},
		{".mylog", ".mylog", ""},
		{"/dir1/dir2/mylog.txt", "/dir1/dir2/mylog", ".txt"},
		{"/dir1/dir2/.mylog", "/dir1/dir2/.mylog", ""},
		{"/dir1/dir2/.mylog.txt", "/dir1/dir2/.mylog", ".txt"},
		{"my.folder/mylog", "my.folder/mylog", ""},
		{"../mylog.txt", "../mylog", ".txt"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stem, ext := SplitByExtension(tt.input)
			assert.Equal(t, tt.stem, stem)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestBasicFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basic.log")
	s, err := NewBasicFile(path, WithLevel(core.LevelInfo))
	require.NoError(t, err)

	assert.False(t, s.ShouldLog(core.LevelDebug))
	assert.True(t, s.ShouldLog(core.LevelError))

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Log(testRecord("line")))
	}
	require.NoError(t, s.Flush())
	assert.Equal(t, 5, countLines(t, path))

	require.NoError(t, s.Truncate())
	require.NoError(t, s.Log(testRecord("after truncate")))
	require.NoError(t, s.Close())
	assert.Equal(t, 1, countLines(t, path))
	assert.Equal(t, path, s.Filename())
}
