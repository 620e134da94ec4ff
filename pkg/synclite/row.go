package synclite

// Row is one materialized result row. In object shape it preserves column
// order alongside the name→value mapping; in array shape (SetReturnArrays)
// it carries values only.
type Row struct {
	cols []string // nil in array shape
	vals []any
}

// Len reports the number of columns.
func (r *Row) Len() int {
	return len(r.vals)
}

// Columns reports the column names in result order, or nil for an array
// shaped row.
func (r *Row) Columns() []string {
	return r.cols
}

// Values reports the row's values in column order.
func (r *Row) Values() []any {
	return r.vals
}

// Index returns the value of column i.
func (r *Row) Index(i int) any {
	return r.vals[i]
}

// Get returns the value of the named column. The second result reports
// whether the column exists; array-shaped rows have no names and always
// report false.
func (r *Row) Get(name string) (any, bool) {
	for i, c := range r.cols {
		if c == name {
			return r.vals[i], true
		}
	}
	return nil, false
}

// Result is the execution metadata reported by Stmt.Run.
type Result struct {
	// Changes is the number of rows inserted, updated, or deleted.
	Changes int64
	// LastInsertRowID is the rowid of the most recent INSERT: int64 inside
	// the exact-integer range, *big.Int beyond it regardless of the
	// statement's big-integer flag.
	LastInsertRowID any
}

// Column describes one output column of a prepared statement. The origin
// fields are empty for computed or expression columns.
type Column struct {
	// Name is the display name, honoring any AS alias.
	Name string
	// DeclType is the declared type of the underlying table column.
	DeclType string
	// OriginColumn is the unaliased source column name.
	OriginColumn string
	// TableName is the source table.
	TableName string
	// DatabaseName is the source database ("main" or an attached name).
	DatabaseName string
}
