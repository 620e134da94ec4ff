package synclite

import (
	"fmt"
	"syscall"

	"github.com/synclite/synclite/internal/engine"
)

// Kind classifies an Error. Every failure surfaced by this package carries
// exactly one kind; engine-reported failures additionally carry the full
// EngineCause payload.
type Kind int

const (
	// KindInvalidPath marks a malformed or disallowed location argument.
	KindInvalidPath Kind = iota + 1
	// KindInvalidArg marks a malformed non-path argument, such as an
	// unsupported bind value.
	KindInvalidArg
	// KindNotOpen marks an operation on a closed connection.
	KindNotOpen
	// KindCrossThread marks use of a connection or statement from a
	// goroutine other than its creator.
	KindCrossThread
	// KindFinalized marks an operation on a finalized statement.
	KindFinalized
	// KindPermission marks an extension-loading attempt on a connection
	// opened without AllowExtension.
	KindPermission
	// KindNotEnabled marks an extension-loading attempt before
	// EnableLoadExtension(true).
	KindNotEnabled
	// KindLoadFailure marks an extension the engine could not load.
	KindLoadFailure
	// KindConflictingNames marks an ambiguous bare named parameter.
	KindConflictingNames
	// KindEngine wraps any failure reported by the embedded engine.
	KindEngine
)

var kindNames = map[Kind]string{
	KindInvalidPath:      "invalid path",
	KindInvalidArg:       "invalid argument",
	KindNotOpen:          "not open",
	KindCrossThread:      "cross-thread use",
	KindFinalized:        "finalized",
	KindPermission:       "permission denied",
	KindNotEnabled:       "not enabled",
	KindLoadFailure:      "load failure",
	KindConflictingNames: "conflicting names",
	KindEngine:           "engine error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// EngineCause is the engine's structured failure report: primary and extended
// result codes, the symbolic code name, the engine's message verbatim, the OS
// errno for I/O-class failures (zero otherwise), and the SQL text active when
// the failure occurred, when applicable.
type EngineCause struct {
	Code         int
	ExtendedCode int
	CodeName     string
	Message      string
	Errno        syscall.Errno
	SQL          string
}

// Error is the structured error type for every failure this package reports.
type Error struct {
	Kind    Kind
	Message string
	Cause   *EngineCause // non-nil only for KindEngine and KindLoadFailure
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// wrapEngine converts an engine failure into a KindEngine Error, attaching
// the SQL text active at failure time when there was one.
func wrapEngine(err error, sql string) *Error {
	return wrapEngineKind(KindEngine, err, sql)
}

func wrapEngineKind(kind Kind, err error, sql string) *Error {
	ee, ok := err.(*engine.Error)
	if !ok {
		return &Error{Kind: kind, Message: err.Error(), Err: err}
	}
	return &Error{
		Kind:    kind,
		Message: ee.Message,
		Err:     err,
		Cause: &EngineCause{
			Code:         ee.Code,
			ExtendedCode: ee.ExtendedCode,
			CodeName:     ee.CodeName(),
			Message:      ee.Message,
			Errno:        ee.Errno,
			SQL:          sql,
		},
	}
}

// KindOf reports the Kind carried by err, or zero when err was not produced
// by this package.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return 0
}
