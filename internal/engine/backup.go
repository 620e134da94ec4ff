package engine

/*
#include <sqlite3.h>
#include <stdlib.h>
*/
import "C"

import "unsafe"

// Backup copies the src database schema into dst using the engine's online
// backup protocol, pagesPerStep pages at a time (-1 copies everything in one
// step). BUSY and LOCKED between steps are retried after a short sleep, so
// the copy proceeds without serializing against concurrent readers of the
// source. progress, if non-nil, observes (remaining, total) after each step.
func Backup(dst *Conn, dstName string, src *Conn, srcName string, pagesPerStep int, progress func(remaining, total int)) error {
	zdst := C.CString(dstName)
	defer C.free(unsafe.Pointer(zdst))
	zsrc := C.CString(srcName)
	defer C.free(unsafe.Pointer(zsrc))

	b := C.sqlite3_backup_init(dst.db, zdst, src.db, zsrc)
	if b == nil {
		return captureError(dst.db)
	}

	for {
		rc := C.sqlite3_backup_step(b, C.int(pagesPerStep))
		if progress != nil {
			progress(int(C.sqlite3_backup_remaining(b)),
				int(C.sqlite3_backup_pagecount(b)))
		}
		switch rc {
		case C.SQLITE_DONE:
			if frc := C.sqlite3_backup_finish(b); frc != C.SQLITE_OK {
				return captureError(dst.db)
			}
			return nil
		case C.SQLITE_OK:
			// Progress made; keep stepping.
		case C.SQLITE_BUSY, C.SQLITE_LOCKED:
			// Source is contended; back off before the next attempt.
			C.sqlite3_sleep(250)
		default:
			C.sqlite3_backup_finish(b)
			return captureError(dst.db)
		}
	}
}
