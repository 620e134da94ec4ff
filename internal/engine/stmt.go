package engine

/*
#include <sqlite3.h>
#include <stdlib.h>

int synclite_bind_text(sqlite3_stmt *s, int i, const char *p, int n);
int synclite_bind_blob(sqlite3_stmt *s, int i, const void *p, int n);
*/
import "C"

import "unsafe"

// Stmt owns one sqlite3_stmt* handle. The owning Conn must outlive it. The
// raw connection handle is kept only for error capture.
type Stmt struct {
	conn *C.sqlite3
	stmt *C.sqlite3_stmt
}

// Step advances the statement one row. It reports (true, nil) when a row is
// available, (false, nil) at completion, and captures the connection's error
// state otherwise.
func (s *Stmt) Step() (bool, error) {
	rc := C.sqlite3_step(s.stmt)
	switch rc {
	case C.SQLITE_ROW:
		return true, nil
	case C.SQLITE_DONE:
		return false, nil
	default:
		return false, captureError(s.conn)
	}
}

// Reset rewinds the statement so it can be executed again. Bindings are
// retained; use ClearBindings to drop them.
func (s *Stmt) Reset() {
	C.sqlite3_reset(s.stmt)
}

// ClearBindings sets every parameter back to NULL.
func (s *Stmt) ClearBindings() {
	C.sqlite3_clear_bindings(s.stmt)
}

// Finalize destroys the statement handle. Safe to call after the connection
// closed; the engine handles that gracefully.
func (s *Stmt) Finalize() {
	if s.stmt != nil {
		C.sqlite3_finalize(s.stmt)
		s.stmt = nil
	}
}

// ExpandedSQL returns the statement's SQL with bound parameter values
// expanded in place.
func (s *Stmt) ExpandedSQL() string {
	p := C.sqlite3_expanded_sql(s.stmt)
	if p == nil {
		return ""
	}
	defer C.sqlite3_free(unsafe.Pointer(p))
	return C.GoString(p)
}

// ReadOnly reports whether the statement makes no direct changes to the
// database.
func (s *Stmt) ReadOnly() bool {
	return C.sqlite3_stmt_readonly(s.stmt) != 0
}

// Parameter introspection. Parameter indexes start at one; positional '?'
// markers have no name.

func (s *Stmt) BindParameterCount() int {
	return int(C.sqlite3_bind_parameter_count(s.stmt))
}

func (s *Stmt) BindParameterName(i int) string {
	return C.GoString(C.sqlite3_bind_parameter_name(s.stmt, C.int(i)))
}

func (s *Stmt) BindParameterIndex(name string) int {
	zname := C.CString(name)
	defer C.free(unsafe.Pointer(zname))
	return int(C.sqlite3_bind_parameter_index(s.stmt, zname))
}

// Bind family. Each returns the connection's error state on failure.

func (s *Stmt) BindNull(i int) error {
	return s.bindRC(C.sqlite3_bind_null(s.stmt, C.int(i)))
}

func (s *Stmt) BindInt64(i int, v int64) error {
	return s.bindRC(C.sqlite3_bind_int64(s.stmt, C.int(i), C.sqlite3_int64(v)))
}

func (s *Stmt) BindDouble(i int, v float64) error {
	return s.bindRC(C.sqlite3_bind_double(s.stmt, C.int(i), C.double(v)))
}

func (s *Stmt) BindText(i int, v string) error {
	if len(v) == 0 {
		return s.bindRC(C.synclite_bind_text(s.stmt, C.int(i), nil, 0))
	}
	b := []byte(v)
	return s.bindRC(C.synclite_bind_text(s.stmt, C.int(i),
		(*C.char)(unsafe.Pointer(&b[0])), C.int(len(b))))
}

func (s *Stmt) BindBlob(i int, v []byte) error {
	if len(v) == 0 {
		return s.bindRC(C.synclite_bind_blob(s.stmt, C.int(i), nil, 0))
	}
	return s.bindRC(C.synclite_bind_blob(s.stmt, C.int(i),
		unsafe.Pointer(&v[0]), C.int(len(v))))
}

func (s *Stmt) bindRC(rc C.int) error {
	if rc != C.SQLITE_OK {
		return captureError(s.conn)
	}
	return nil
}

// Column access. Valid only while Step has most recently reported a row,
// except for the metadata accessors, which are valid from prepare time.

func (s *Stmt) ColumnCount() int {
	return int(C.sqlite3_column_count(s.stmt))
}

func (s *Stmt) ColumnName(i int) string {
	return C.GoString(C.sqlite3_column_name(s.stmt, C.int(i)))
}

func (s *Stmt) ColumnType(i int) int {
	return int(C.sqlite3_column_type(s.stmt, C.int(i)))
}

// ColumnDeclType reports the declared type of a table column, or "" for
// computed expressions.
func (s *Stmt) ColumnDeclType(i int) string {
	return C.GoString(C.sqlite3_column_decltype(s.stmt, C.int(i)))
}

// ColumnOriginName reports the unaliased source column name, or "" for
// computed expressions.
func (s *Stmt) ColumnOriginName(i int) string {
	return C.GoString(C.sqlite3_column_origin_name(s.stmt, C.int(i)))
}

// ColumnTableName reports the source table, or "" for computed expressions.
func (s *Stmt) ColumnTableName(i int) string {
	return C.GoString(C.sqlite3_column_table_name(s.stmt, C.int(i)))
}

// ColumnDatabaseName reports the source database ("main", "temp", or an
// attached name), or "" for computed expressions.
func (s *Stmt) ColumnDatabaseName(i int) string {
	return C.GoString(C.sqlite3_column_database_name(s.stmt, C.int(i)))
}

func (s *Stmt) ColumnInt64(i int) int64 {
	return int64(C.sqlite3_column_int64(s.stmt, C.int(i)))
}

func (s *Stmt) ColumnDouble(i int) float64 {
	return float64(C.sqlite3_column_double(s.stmt, C.int(i)))
}

func (s *Stmt) ColumnText(i int) string {
	p := C.sqlite3_column_text(s.stmt, C.int(i))
	if p == nil {
		return ""
	}
	n := C.sqlite3_column_bytes(s.stmt, C.int(i))
	return C.GoStringN((*C.char)(unsafe.Pointer(p)), n)
}

func (s *Stmt) ColumnBlob(i int) []byte {
	p := C.sqlite3_column_blob(s.stmt, C.int(i))
	n := C.sqlite3_column_bytes(s.stmt, C.int(i))
	if p == nil || n == 0 {
		return []byte{}
	}
	return C.GoBytes(p, n)
}
