// Package synclite is a synchronous SQLite layer: one connection per
// goroutine, prepared statements with precise 64-bit integer handling, and
// an explicit two-step gate around extension loading.
package synclite

import (
	"github.com/synclite/synclite/pkg/synclite"
)

// Open opens or creates a database. See synclite.Open.
func Open(location any, opts *Options) (*Conn, error) {
	return synclite.Open(location, opts)
}

// InMemory opens a private in-memory database.
const InMemory = synclite.InMemory

// Re-export types for convenience.
type (
	Conn             = synclite.Conn
	Stmt             = synclite.Stmt
	Iterator         = synclite.Iterator
	Row              = synclite.Row
	Result           = synclite.Result
	Column           = synclite.Column
	Options          = synclite.Options
	BackupOptions    = synclite.BackupOptions
	FunctionOptions  = synclite.FunctionOptions
	AggregateOptions = synclite.AggregateOptions
	NamedArgs        = synclite.NamedArgs
	Error            = synclite.Error
	EngineCause      = synclite.EngineCause
	Kind             = synclite.Kind
)

// Error kinds.
const (
	KindInvalidPath      = synclite.KindInvalidPath
	KindInvalidArg       = synclite.KindInvalidArg
	KindNotOpen          = synclite.KindNotOpen
	KindCrossThread      = synclite.KindCrossThread
	KindFinalized        = synclite.KindFinalized
	KindPermission       = synclite.KindPermission
	KindNotEnabled       = synclite.KindNotEnabled
	KindLoadFailure      = synclite.KindLoadFailure
	KindConflictingNames = synclite.KindConflictingNames
	KindEngine           = synclite.KindEngine
)

// KindOf reports the Kind carried by err, or KindEngine for wrapped engine
// failures, or zero for foreign errors.
func KindOf(err error) Kind {
	return synclite.KindOf(err)
}
