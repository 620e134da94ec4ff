package synclite

// Iterator walks a statement's rows one at a time, keeping the read open
// between calls. It shares the statement's cursor: if the owning statement
// performs any other read, this iterator's position is lost.
//
// An exhausted iterator is terminal; it keeps reporting completion even if
// the statement is re-run afterwards.
type Iterator struct {
	stmt *Stmt
	done bool
}

// Next returns the next row, or (nil, nil) once the rows are exhausted.
// Exhaustion resets the cursor so that the connection releases its read
// lock without waiting for the iterator to be garbage collected.
func (it *Iterator) Next() (*Row, error) {
	if err := it.stmt.check(); err != nil {
		return nil, err
	}
	if it.done {
		return nil, nil
	}
	ok, err := it.stmt.eng.Step()
	if err != nil {
		it.done = true
		it.stmt.eng.Reset()
		return nil, wrapEngine(err, it.stmt.sql)
	}
	if !ok {
		it.done = true
		it.stmt.eng.Reset()
		return nil, nil
	}
	return it.stmt.currentRow(), nil
}

// Return abandons the iteration early, resetting the cursor. It is safe to
// call at any point, including after exhaustion.
func (it *Iterator) Return() error {
	if err := it.stmt.check(); err != nil {
		return err
	}
	if !it.done {
		it.done = true
		it.stmt.eng.Reset()
	}
	return nil
}
