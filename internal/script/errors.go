package script

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// ErrClosed is returned when running a script on a closed Runner.
var ErrClosed = errors.New("script runner is closed")

// Error is a script failure with its position in the source.
type Error struct {
	Chunk   string
	Line    int // 0 when unknown
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Chunk, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Chunk, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	// Runtime errors read "chunk:line: message".
	runtimePos = regexp.MustCompile(`^(.*?):(\d+):\s*(.*)$`)
	// Syntax errors read "chunk line:N(column:M) near 'tok': message".
	syntaxPos = regexp.MustCompile(`line:(\d+)\(column:\d+\)`)
)

// newError converts a gopher-lua error into an Error.
func newError(chunk string, err error) *Error {
	msg := err.Error()
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		msg = apiErr.Object.String()
	}
	msg = strings.TrimSpace(msg)

	e := &Error{Chunk: chunk, Message: msg, Err: err}
	if m := syntaxPos.FindStringSubmatch(msg); m != nil {
		e.Line, _ = strconv.Atoi(m[1])
		return e
	}
	if m := runtimePos.FindStringSubmatch(msg); m != nil && m[1] == chunk {
		e.Line, _ = strconv.Atoi(m[2])
		e.Message = m[3]
	}
	return e
}
