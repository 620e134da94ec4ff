// Package synclite implements the synchronous database layer: connections
// and prepared statements over a native SQLite handle, bound to the opening
// goroutine.
//
// Values cross the boundary as a closed set of Go types: nil, int64,
// *big.Int, float64, string, and []byte. Integers read back as int64 while
// they fit in ±(2^53 - 1) and as *big.Int beyond that, so round trips never
// lose digits; SetReadBigInts forces *big.Int for every integer.
//
// Loading extensions requires both the creation-time AllowExtension option
// and a runtime EnableLoadExtension(true) call.
package synclite
