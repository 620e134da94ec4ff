// Package engine is the narrow C-level contract with the embedded SQLite
// library. It owns nothing but handle plumbing: open/close, prepare, step,
// bind, column access, extension loading, backup, function registration, and
// structured error capture. All policy (thread affinity, value marshalling,
// the extension permission gate, path handling) lives above it in
// pkg/synclite.
//
// The package links against the system libsqlite3. The build requires a
// library compiled with SQLITE_ENABLE_COLUMN_METADATA, which every major
// distribution ships.
package engine

/*
#cgo LDFLAGS: -lsqlite3
#cgo CFLAGS: -DSQLITE_ENABLE_COLUMN_METADATA=1

#include <sqlite3.h>
#include <stdint.h>
#include <stdlib.h>
#include <string.h>

extern void synclite_func_tramp(sqlite3_context*, int, sqlite3_value**);
extern void synclite_step_tramp(sqlite3_context*, int, sqlite3_value**);
extern void synclite_final_tramp(sqlite3_context*);
extern void synclite_destroy_tramp(void*);

// SQLITE_TRANSIENT is a pointer-valued macro cgo cannot express, and
// sqlite3_db_config is variadic, so both go through C shims.

int synclite_bind_text(sqlite3_stmt *s, int i, const char *p, int n) {
	if (n == 0) {
		return sqlite3_bind_text(s, i, "", 0, SQLITE_STATIC);
	}
	return sqlite3_bind_text(s, i, p, n, SQLITE_TRANSIENT);
}

int synclite_bind_blob(sqlite3_stmt *s, int i, const void *p, int n) {
	if (n == 0) {
		return sqlite3_bind_zeroblob(s, i, 0);
	}
	return sqlite3_bind_blob(s, i, p, n, SQLITE_TRANSIENT);
}

void synclite_result_text(sqlite3_context *ctx, const char *p, int n) {
	if (n == 0) {
		sqlite3_result_text(ctx, "", 0, SQLITE_STATIC);
		return;
	}
	sqlite3_result_text(ctx, p, n, SQLITE_TRANSIENT);
}

void synclite_result_blob(sqlite3_context *ctx, const void *p, int n) {
	if (n == 0) {
		sqlite3_result_zeroblob(ctx, 0);
		return;
	}
	sqlite3_result_blob(ctx, p, n, SQLITE_TRANSIENT);
}

int synclite_db_config_int(sqlite3 *db, int op, int v) {
	return sqlite3_db_config(db, op, v, (int*)0);
}

int synclite_create_function(sqlite3 *db, const char *name, int nargs,
                             int flags, uintptr_t h) {
	return sqlite3_create_function_v2(db, name, nargs, flags, (void*)h,
	                                  synclite_func_tramp, 0, 0,
	                                  synclite_destroy_tramp);
}

int synclite_create_aggregate(sqlite3 *db, const char *name, int nargs,
                              int flags, uintptr_t h) {
	return sqlite3_create_function_v2(db, name, nargs, flags, (void*)h, 0,
	                                  synclite_step_tramp,
	                                  synclite_final_tramp,
	                                  synclite_destroy_tramp);
}
*/
import "C"

import (
	"syscall"
	"unsafe"
)

// OpenFlags select the access mode passed to sqlite3_open_v2.
type OpenFlags int

const (
	OpenReadOnly  OpenFlags = C.SQLITE_OPEN_READONLY
	OpenReadWrite OpenFlags = C.SQLITE_OPEN_READWRITE
	OpenCreate    OpenFlags = C.SQLITE_OPEN_CREATE
)

// Storage classes reported by sqlite3_column_type and sqlite3_value_type.
const (
	TypeInteger = C.SQLITE_INTEGER
	TypeFloat   = C.SQLITE_FLOAT
	TypeText    = C.SQLITE_TEXT
	TypeBlob    = C.SQLITE_BLOB
	TypeNull    = C.SQLITE_NULL
)

// Function registration flags.
const (
	FuncDeterministic = C.SQLITE_DETERMINISTIC
	FuncDirectOnly    = C.SQLITE_DIRECTONLY
)

// Conn owns one sqlite3* handle. It is not safe for concurrent use; the
// caller enforces single-goroutine access.
type Conn struct {
	db *C.sqlite3
}

// Open opens or creates the database at path. The path is passed to the
// engine verbatim, so ":memory:" keeps its usual meaning. The engine
// validates the file format lazily; a corrupted file may open successfully
// and fail on first real operation.
func Open(path string, flags OpenFlags) (*Conn, error) {
	zpath := C.CString(path)
	defer C.free(unsafe.Pointer(zpath))

	var db *C.sqlite3
	rc := C.sqlite3_open_v2(zpath, &db, C.int(flags), nil)
	if rc != C.SQLITE_OK {
		var err error
		if db != nil {
			err = captureError(db)
			C.sqlite3_close_v2(db)
		} else {
			err = errFromCode(int(rc))
		}
		return nil, err
	}
	C.sqlite3_extended_result_codes(db, 1)
	return &Conn{db: db}, nil
}

// Close releases the handle. Statements still open on the connection keep it
// alive as a zombie until they are finalized (sqlite3_close_v2 semantics),
// but the caller finalizes them first.
func (c *Conn) Close() error {
	if c.db == nil {
		return nil
	}
	rc := C.sqlite3_close(c.db)
	if rc != C.SQLITE_OK {
		// Outstanding statements; detach instead of leaking.
		C.sqlite3_close_v2(c.db)
	}
	c.db = nil
	return nil
}

// Exec runs one or more semicolon-separated statements with no binding and
// no result retrieval, stopping at the first failure.
func (c *Conn) Exec(sql string) error {
	zsql := C.CString(sql)
	defer C.free(unsafe.Pointer(zsql))

	var zerr *C.char
	rc := C.sqlite3_exec(c.db, zsql, nil, nil, &zerr)
	if rc != C.SQLITE_OK {
		err := captureError(c.db)
		if zerr != nil {
			err.Message = C.GoString(zerr)
			C.sqlite3_free(unsafe.Pointer(zerr))
		}
		return err
	}
	return nil
}

// Prepare compiles the first statement in sql. Trailing SQL after the first
// statement is ignored. A sql string holding no statement at all (empty, or
// only whitespace and comments) yields an Error with code SQLITE_MISUSE.
func (c *Conn) Prepare(sql string) (*Stmt, error) {
	zsql := C.CString(sql)
	defer C.free(unsafe.Pointer(zsql))

	var stmt *C.sqlite3_stmt
	var tail *C.char
	rc := C.sqlite3_prepare_v2(c.db, zsql, C.int(-1), &stmt, &tail)
	if rc != C.SQLITE_OK {
		return nil, captureError(c.db)
	}
	if stmt == nil {
		return nil, &Error{
			Code:         int(C.SQLITE_MISUSE),
			ExtendedCode: int(C.SQLITE_MISUSE),
			Message:      "the supplied SQL string contains no statements",
		}
	}
	return &Stmt{conn: c.db, stmt: stmt}, nil
}

// BusyTimeout sets the busy handler to sleep up to ms milliseconds before a
// contended lock surfaces as SQLITE_BUSY.
func (c *Conn) BusyTimeout(ms int) {
	C.sqlite3_busy_timeout(c.db, C.int(ms))
}

// Filename reports the file backing the named database ("main", "temp", or
// an attached name; matching is case-insensitive inside the engine). The
// empty string means the database is in-memory, temporary, or unknown.
func (c *Conn) Filename(dbName string) string {
	zname := C.CString(dbName)
	defer C.free(unsafe.Pointer(zname))
	return C.GoString(C.sqlite3_db_filename(c.db, zname))
}

// LastInsertRowID reports the rowid of the most recent successful INSERT.
func (c *Conn) LastInsertRowID() int64 {
	return int64(C.sqlite3_last_insert_rowid(c.db))
}

// Changes reports the number of rows modified by the most recent statement.
func (c *Conn) Changes() int64 {
	return int64(C.sqlite3_changes(c.db))
}

// Autocommit reports whether the connection is outside an explicit
// transaction.
func (c *Conn) Autocommit() bool {
	return C.sqlite3_get_autocommit(c.db) != 0
}

// EnableLoadExtension toggles the C-API extension loading switch. The SQL
// load_extension() function stays disabled either way.
func (c *Conn) EnableLoadExtension(on bool) error {
	v := C.int(0)
	if on {
		v = 1
	}
	rc := C.synclite_db_config_int(c.db, C.SQLITE_DBCONFIG_ENABLE_LOAD_EXTENSION, v)
	if rc != C.SQLITE_OK {
		return captureError(c.db)
	}
	return nil
}

// SetDoubleQuotedStrings toggles acceptance of double-quoted string literals
// in both DML and DDL.
func (c *Conn) SetDoubleQuotedStrings(on bool) error {
	v := C.int(0)
	if on {
		v = 1
	}
	if rc := C.synclite_db_config_int(c.db, C.SQLITE_DBCONFIG_DQS_DML, v); rc != C.SQLITE_OK {
		return captureError(c.db)
	}
	if rc := C.synclite_db_config_int(c.db, C.SQLITE_DBCONFIG_DQS_DDL, v); rc != C.SQLITE_OK {
		return captureError(c.db)
	}
	return nil
}

// LoadExtension loads the shared library at path, calling entry (or the
// default sqlite3_extension_init when entry is empty).
func (c *Conn) LoadExtension(path, entry string) error {
	zpath := C.CString(path)
	defer C.free(unsafe.Pointer(zpath))

	var zentry *C.char
	if entry != "" {
		zentry = C.CString(entry)
		defer C.free(unsafe.Pointer(zentry))
	}

	var zerr *C.char
	rc := C.sqlite3_load_extension(c.db, zpath, zentry, &zerr)
	if rc != C.SQLITE_OK {
		err := captureError(c.db)
		if zerr != nil {
			err.Message = C.GoString(zerr)
			C.sqlite3_free(unsafe.Pointer(zerr))
		}
		return err
	}
	return nil
}

// captureError snapshots the handle's current error state. The engine's
// message text is preserved verbatim; the OS errno is recorded only when the
// engine reports one (I/O-class failures).
func captureError(db *C.sqlite3) *Error {
	e := &Error{
		Code:         int(C.sqlite3_errcode(db)) & 0xff,
		ExtendedCode: int(C.sqlite3_extended_errcode(db)),
		Message:      C.GoString(C.sqlite3_errmsg(db)),
	}
	if no := C.sqlite3_system_errno(db); no != 0 {
		e.Errno = syscall.Errno(no)
	}
	return e
}

// errFromCode builds an Error from a bare result code, for failures that
// happen before a usable handle exists.
func errFromCode(rc int) *Error {
	return &Error{
		Code:         rc & 0xff,
		ExtendedCode: rc,
		Message:      C.GoString(C.sqlite3_errstr(C.int(rc))),
	}
}
