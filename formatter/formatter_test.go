package formatter

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/sanitizer"
)

func testRecord() core.Record {
	return core.Record{
		Time:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		LoggerName: "app",
		Level:      core.LevelWarn,
		Message:    "disk almost full",
	}
}

func TestFormatter(t *testing.T) {
	t.Run("fluent API", func(t *testing.T) {
		f := New(sanitizer.ForPolicy(sanitizer.PolicyRaw)).
			Type("json").
			TimestampFormat(time.RFC3339).
			ShowLevel(true).
			ShowTimestamp(true)

		data := string(f.Format(testRecord()))
		assert.Contains(t, data, `"level":"WARN"`)
		assert.Contains(t, data, `"time":"2024-01-01T12:00:00Z"`)
		assert.Equal(t, "json", f.Kind())
	})

	t.Run("txt format", func(t *testing.T) {
		f := New().TimestampFormat(time.RFC3339)
		str := string(f.Format(testRecord()))

		assert.Equal(t, "2024-01-01T12:00:00Z WARN [app] disk almost full\n", str)
	})

	t.Run("txt with source and trace", func(t *testing.T) {
		f := New().ShowTimestamp(false).ShowSource(true)
		rec := testRecord()
		rec.Source = core.SourceLoc{File: "/src/app/main.go", Line: 42, Function: "main.run"}
		rec.Trace = "main -> run"

		assert.Equal(t, "WARN [app] main.go:42 main -> run disk almost full\n", string(f.Format(rec)))
	})

	t.Run("txt hides disabled fields", func(t *testing.T) {
		f := New().ShowTimestamp(false).ShowLevel(false).ShowLogger(false)
		assert.Equal(t, "disk almost full\n", string(f.Format(testRecord())))
	})

	t.Run("json format", func(t *testing.T) {
		f := New().Type("json").ShowSource(true)
		rec := testRecord()
		rec.Message = "line1\nline2 \"quoted\""
		rec.Trace = "a -> b"
		rec.Source = core.SourceLoc{File: "x.go", Line: 7}

		data := f.Format(rec)
		require.True(t, strings.HasSuffix(string(data), "\n"))

		var result map[string]any
		require.NoError(t, json.Unmarshal(data[:len(data)-1], &result))
		assert.Equal(t, "WARN", result["level"])
		assert.Equal(t, "app", result["logger"])
		assert.Equal(t, "a -> b", result["trace"])
		assert.Equal(t, "x.go:7", result["source"])
		assert.Equal(t, "line1\nline2 \"quoted\"", result["msg"])
	})

	t.Run("raw format", func(t *testing.T) {
		f := New().Type("raw")
		str := string(f.Format(testRecord()))

		assert.Equal(t, "disk almost full", str)
		assert.False(t, strings.HasSuffix(str, "\n"))
	})

	t.Run("txt sanitizes control characters", func(t *testing.T) {
		f := New(sanitizer.ForPolicy(sanitizer.PolicyTxt)).ShowTimestamp(false)
		rec := testRecord()
		rec.Message = "bad\x00input"

		assert.Equal(t, "WARN [app] bad<00>input\n", string(f.Format(rec)))
	})

	t.Run("clone is independent", func(t *testing.T) {
		f := New().Type("json")
		c := f.Clone().Type("txt")
		assert.Equal(t, "json", f.Kind())
		assert.Equal(t, "txt", c.Kind())
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("txt"))
	assert.NoError(t, Validate("json"))
	assert.ErrorIs(t, Validate("xml"), core.ErrInvalidConfig)
}

type point struct {
	X, Y int
}

type named string

func (n named) String() string { return "named:" + string(n) }

func TestSprint(t *testing.T) {
	assert.Equal(t, "only", Sprint("only"))
	assert.Equal(t, "user 42 true 1.5", Sprint("user", 42, true, 1.5))
	assert.Equal(t, "err: boom", Sprint("err:", errors.New("boom")))
	assert.Equal(t, "named:x", Sprint(named("x")))
	assert.Equal(t, "<nil>", Sprint(nil))
	assert.Equal(t, "1.5s", Sprint(1500*time.Millisecond))

	composite := Sprint(point{X: 1, Y: 2})
	assert.Contains(t, composite, "X:1")
	assert.Contains(t, composite, "Y:2")

	m := Sprint(map[string]int{"b": 2, "a": 1})
	assert.Less(t, strings.Index(m, "a"), strings.Index(m, "b"))
}
