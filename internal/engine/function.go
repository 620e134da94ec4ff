package engine

/*
#include <sqlite3.h>
#include <stdint.h>
#include <stdlib.h>

int synclite_create_function(sqlite3 *db, const char *name, int nargs,
                             int flags, uintptr_t h);
int synclite_create_aggregate(sqlite3 *db, const char *name, int nargs,
                              int flags, uintptr_t h);
*/
import "C"

import (
	"sync"
	"unsafe"
)

// The engine hands registered callbacks an opaque user-data pointer. Passing
// Go pointers through C is forbidden, so callbacks are stored in a registry
// keyed by an integer handle.
var (
	handleMu   sync.Mutex
	handleVals = make(map[uintptr]any)
	handleNext uintptr = 100
)

func newHandle(v any) uintptr {
	handleMu.Lock()
	defer handleMu.Unlock()
	h := handleNext
	handleNext++
	handleVals[h] = v
	return h
}

func lookupHandle(h uintptr) any {
	handleMu.Lock()
	defer handleMu.Unlock()
	return handleVals[h]
}

func deleteHandle(h uintptr) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(handleVals, h)
}

// ScalarFunc is a registered scalar callback. Arguments and results use the
// engine's raw value set: nil, int64, float64, string, []byte. A returned
// error aborts the invoking statement with the error's message.
type ScalarFunc func(args []any) (any, error)

type funcInfo struct {
	fn ScalarFunc
}

// AggregateDef describes an aggregate callback. Start produces a fresh
// accumulator per aggregation; Step folds one row into it; Final converts the
// accumulator into a raw result value. Final also runs over the Start value
// when the aggregate saw no rows.
type AggregateDef struct {
	Start func() any
	Step  func(acc any, args []any) (any, error)
	Final func(acc any) (any, error)
}

type aggInfo struct {
	def AggregateDef
}

type aggState struct {
	acc    any
	handle uintptr
}

// RegisterFunc registers a scalar SQL function. nArgs of -1 makes the
// function variadic. flags is an OR of FuncDeterministic and FuncDirectOnly.
func (c *Conn) RegisterFunc(name string, nArgs int, flags int, fn ScalarFunc) error {
	zname := C.CString(name)
	defer C.free(unsafe.Pointer(zname))

	h := newHandle(&funcInfo{fn: fn})
	rc := C.synclite_create_function(c.db, zname, C.int(nArgs),
		C.int(C.SQLITE_UTF8|flags), C.uintptr_t(h))
	if rc != C.SQLITE_OK {
		deleteHandle(h)
		return captureError(c.db)
	}
	return nil
}

// RegisterAggregate registers an aggregate SQL function.
func (c *Conn) RegisterAggregate(name string, nArgs int, flags int, def AggregateDef) error {
	zname := C.CString(name)
	defer C.free(unsafe.Pointer(zname))

	h := newHandle(&aggInfo{def: def})
	rc := C.synclite_create_aggregate(c.db, zname, C.int(nArgs),
		C.int(C.SQLITE_UTF8|flags), C.uintptr_t(h))
	if rc != C.SQLITE_OK {
		deleteHandle(h)
		return captureError(c.db)
	}
	return nil
}
