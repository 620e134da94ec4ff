// Package goid reports the identity of the calling goroutine.
//
// The runtime deliberately hides goroutine ids, but a database handle with no
// internal synchronization needs a stable owner identity to reject cross
// goroutine use. The id is parsed from the first line of the stack trace
// header ("goroutine N [running]:"), which has been stable across every Go
// release to date.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

var prefix = []byte("goroutine ")

// ID returns the runtime id of the calling goroutine.
func ID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], prefix)
	i := bytes.IndexByte(b, ' ')
	if i < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(b[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
