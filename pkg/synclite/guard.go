package synclite

import "github.com/synclite/synclite/internal/goid"

// guard pins an object to the goroutine that created it. The native handles
// underneath have no internal synchronization, so cross-goroutine use is a
// correctness hazard and is rejected unconditionally rather than being a
// configuration option.
type guard struct {
	owner uint64
}

func newGuard() guard {
	return guard{owner: goid.ID()}
}

func (g guard) check(what string) *Error {
	if goid.ID() != g.owner {
		return newError(KindCrossThread, what+" cannot be used from different thread")
	}
	return nil
}
