package synclite

import (
	"fmt"
	"strings"

	"github.com/synclite/synclite/internal/engine"
)

// NamedArgs supplies values for named parameters. Keys may carry the SQL
// prefix character (":", "@", "$") or, once SetAllowBareNamedParameters is
// on, the bare name without it. Keys that match no parameter are ignored.
type NamedArgs map[string]any

// Stmt is a prepared statement. Like its connection it is bound to the
// goroutine that created it. The underlying cursor is shared by every
// reading method: Run, Get, All, and each Iterator all reset and reuse the
// same native statement, so starting one read abandons any other in flight.
type Stmt struct {
	guard     guard
	conn      *Conn
	eng       *engine.Stmt
	sql       string
	finalized bool

	readBigInts   bool
	returnArrays  bool
	allowBareName bool
	bareNames     map[string]string
}

func (s *Stmt) check() *Error {
	if err := s.guard.check("Statement"); err != nil {
		return err
	}
	if s.finalized {
		return newError(KindFinalized, "The statement has been finalized")
	}
	if s.conn.closed {
		return newError(KindNotOpen, "database is not open")
	}
	return nil
}

// SetReadBigInts controls how integer columns are read back: when on, every
// integer arrives as *big.Int; when off (the default), values inside
// ±(2^53 - 1) arrive as int64 and values beyond it as *big.Int so that no
// precision is ever silently lost.
func (s *Stmt) SetReadBigInts(on bool) error {
	if err := s.check(); err != nil {
		return err
	}
	s.readBigInts = on
	return nil
}

// SetReturnArrays controls the shape of returned rows: positional values
// only, instead of the default name-addressable form.
func (s *Stmt) SetReturnArrays(on bool) error {
	if err := s.check(); err != nil {
		return err
	}
	s.returnArrays = on
	return nil
}

// SetAllowBareNamedParameters permits NamedArgs keys without their prefix
// character. Turning it on fails later, at bind time, if two parameters
// share a bare name.
func (s *Stmt) SetAllowBareNamedParameters(on bool) error {
	if err := s.check(); err != nil {
		return err
	}
	s.allowBareName = on
	s.bareNames = nil
	return nil
}

// SourceSQL returns the statement's original SQL text verbatim.
func (s *Stmt) SourceSQL() (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	return s.sql, nil
}

// ExpandedSQL returns the SQL with the current parameter bindings
// substituted in, as the engine renders them.
func (s *Stmt) ExpandedSQL() (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	return s.eng.ExpandedSQL(), nil
}

// Columns describes the statement's result columns. Origin metadata is
// empty for computed columns; Name reflects any AS alias.
func (s *Stmt) Columns() ([]Column, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	n := s.eng.ColumnCount()
	cols := make([]Column, n)
	for i := 0; i < n; i++ {
		cols[i] = Column{
			Name:         s.eng.ColumnName(i),
			DeclType:     s.eng.ColumnDeclType(i),
			OriginColumn: s.eng.ColumnOriginName(i),
			TableName:    s.eng.ColumnTableName(i),
			DatabaseName: s.eng.ColumnDatabaseName(i),
		}
	}
	return cols, nil
}

// bareNameTable builds the bare-name lookup lazily, failing if two distinct
// parameters collapse to the same bare name.
func (s *Stmt) bareNameTable() (map[string]string, *Error) {
	if s.bareNames != nil {
		return s.bareNames, nil
	}
	table := make(map[string]string)
	n := s.eng.BindParameterCount()
	for i := 1; i <= n; i++ {
		full := s.eng.BindParameterName(i)
		if full == "" {
			continue
		}
		bare := full[1:]
		if prev, ok := table[bare]; ok && prev != full {
			return nil, newError(KindConflictingNames, fmt.Sprintf(
				"Cannot create bare named parameter '%s' because of conflicting names '%s' and '%s'.",
				bare, prev, full))
		}
		table[bare] = full
	}
	s.bareNames = table
	return table, nil
}

// bind clears previous bindings and applies args. A single NamedArgs
// argument binds by name; anything else binds positionally in order.
func (s *Stmt) bind(args []any) error {
	s.eng.Reset()
	s.eng.ClearBindings()

	if len(args) == 1 {
		if named, ok := args[0].(NamedArgs); ok {
			return s.bindNamed(named)
		}
	}
	for i, arg := range args {
		if err := bindValue(s.eng, i+1, arg); err != nil {
			return bindFailure(fmt.Sprintf("%d", i+1), err)
		}
	}
	return nil
}

// bindFailure prefixes a bind error with the offending parameter so the
// caller can tell which of several arguments was rejected.
func bindFailure(param string, err error) *Error {
	e, ok := err.(*Error)
	if !ok {
		e = wrapEngine(err, "")
	}
	e.Message = fmt.Sprintf("Error binding parameter %s: %s", param, e.Message)
	return e
}

func (s *Stmt) bindNamed(args NamedArgs) error {
	var bare map[string]string
	if s.allowBareName {
		table, err := s.bareNameTable()
		if err != nil {
			return err
		}
		bare = table
	}
	for key, val := range args {
		if key == "" {
			continue
		}
		name := key
		if !strings.ContainsAny(key[:1], ":@$") {
			if !s.allowBareName {
				continue
			}
			full, ok := bare[key]
			if !ok {
				continue
			}
			name = full
		}
		idx := s.eng.BindParameterIndex(name)
		if idx == 0 {
			continue
		}
		if err := bindValue(s.eng, idx, val); err != nil {
			return bindFailure(name, err)
		}
	}
	return nil
}

// Run executes the statement for its side effects, stepping once and
// discarding any rows it would produce.
func (s *Stmt) Run(args ...any) (*Result, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if err := s.bind(args); err != nil {
		return nil, err
	}
	if _, err := s.eng.Step(); err != nil {
		s.eng.Reset()
		return nil, wrapEngine(err, s.sql)
	}
	s.eng.Reset()
	return &Result{
		Changes:         s.conn.eng.Changes(),
		LastInsertRowID: integerValue(s.conn.eng.LastInsertRowID(), false),
	}, nil
}

// Get executes the statement and returns its first row, or nil when the
// query produces no rows. The cursor is reset before Get returns, so the
// connection holds no read lock afterwards.
func (s *Stmt) Get(args ...any) (*Row, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if err := s.bind(args); err != nil {
		return nil, err
	}
	ok, err := s.eng.Step()
	if err != nil {
		s.eng.Reset()
		return nil, wrapEngine(err, s.sql)
	}
	if !ok {
		s.eng.Reset()
		return nil, nil
	}
	row := s.currentRow()
	s.eng.Reset()
	return row, nil
}

// All executes the statement and materializes every row.
func (s *Stmt) All(args ...any) ([]*Row, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if err := s.bind(args); err != nil {
		return nil, err
	}
	var rows []*Row
	for {
		ok, err := s.eng.Step()
		if err != nil {
			s.eng.Reset()
			return nil, wrapEngine(err, s.sql)
		}
		if !ok {
			break
		}
		rows = append(rows, s.currentRow())
	}
	s.eng.Reset()
	return rows, nil
}

// Iterate executes the statement and returns an iterator over its rows.
// Because the cursor is shared, any other read on this statement (or a
// second Iterate) restarts the scan out from under an existing iterator.
func (s *Stmt) Iterate(args ...any) (*Iterator, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if err := s.bind(args); err != nil {
		return nil, err
	}
	return &Iterator{stmt: s}, nil
}

// currentRow snapshots the row under the cursor into Go values.
func (s *Stmt) currentRow() *Row {
	n := s.eng.ColumnCount()
	vals := make([]any, n)
	for i := 0; i < n; i++ {
		vals[i] = columnValue(s.eng, i, s.readBigInts)
	}
	var cols []string
	if !s.returnArrays {
		cols = make([]string, n)
		for i := 0; i < n; i++ {
			cols[i] = s.eng.ColumnName(i)
		}
	}
	return &Row{cols: cols, vals: vals}
}

// Finalize releases the native statement. Finalizing twice is a no-op;
// every other method fails after Finalize.
func (s *Stmt) Finalize() error {
	if err := s.guard.check("Statement"); err != nil {
		return err
	}
	if s.finalized {
		return nil
	}
	s.conn.forget(s)
	s.finalize()
	return nil
}

func (s *Stmt) finalize() {
	if !s.finalized {
		s.eng.Finalize()
		s.finalized = true
	}
}
