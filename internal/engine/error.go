package engine

import "syscall"

// Error is the engine's structured failure report: the primary result code,
// the extended result code (always within the primary's category), the
// engine's message text verbatim, and the OS errno when the root cause was a
// filesystem error. Logical failures (syntax, constraint) carry no errno.
type Error struct {
	Code         int
	ExtendedCode int
	Message      string
	Errno        syscall.Errno
}

func (e *Error) Error() string {
	return e.Message
}

// CodeName returns the symbolic name of the extended code when one exists,
// falling back to the primary code's name.
func (e *Error) CodeName() string {
	if name, ok := extendedCodeNames[e.ExtendedCode]; ok {
		return name
	}
	if name, ok := primaryCodeNames[e.Code]; ok {
		return name
	}
	return "SQLITE_UNKNOWN"
}

// Primary result codes.
const (
	OK            = 0
	ErrError      = 1
	ErrPerm       = 3
	ErrAbort      = 4
	ErrBusy       = 5
	ErrLocked     = 6
	ErrNoMem      = 7
	ErrReadOnly   = 8
	ErrIoErr      = 10
	ErrCorrupt    = 11
	ErrFull       = 13
	ErrCantOpen   = 14
	ErrSchema     = 17
	ErrTooBig     = 18
	ErrConstraint = 19
	ErrMismatch   = 20
	ErrMisuse     = 21
	ErrAuth       = 23
	ErrRange      = 25
	ErrNotADB     = 26
)

var primaryCodeNames = map[int]string{
	0:  "SQLITE_OK",
	1:  "SQLITE_ERROR",
	2:  "SQLITE_INTERNAL",
	3:  "SQLITE_PERM",
	4:  "SQLITE_ABORT",
	5:  "SQLITE_BUSY",
	6:  "SQLITE_LOCKED",
	7:  "SQLITE_NOMEM",
	8:  "SQLITE_READONLY",
	9:  "SQLITE_INTERRUPT",
	10: "SQLITE_IOERR",
	11: "SQLITE_CORRUPT",
	12: "SQLITE_NOTFOUND",
	13: "SQLITE_FULL",
	14: "SQLITE_CANTOPEN",
	15: "SQLITE_PROTOCOL",
	16: "SQLITE_EMPTY",
	17: "SQLITE_SCHEMA",
	18: "SQLITE_TOOBIG",
	19: "SQLITE_CONSTRAINT",
	20: "SQLITE_MISMATCH",
	21: "SQLITE_MISUSE",
	22: "SQLITE_NOLFS",
	23: "SQLITE_AUTH",
	24: "SQLITE_FORMAT",
	25: "SQLITE_RANGE",
	26: "SQLITE_NOTADB",
	27: "SQLITE_NOTICE",
	28: "SQLITE_WARNING",
	100: "SQLITE_ROW",
	101: "SQLITE_DONE",
}

var extendedCodeNames = map[int]string{
	5 | 1<<8:   "SQLITE_BUSY_RECOVERY",
	5 | 2<<8:   "SQLITE_BUSY_SNAPSHOT",
	5 | 3<<8:   "SQLITE_BUSY_TIMEOUT",
	6 | 1<<8:   "SQLITE_LOCKED_SHAREDCACHE",
	6 | 2<<8:   "SQLITE_LOCKED_VTAB",
	8 | 1<<8:   "SQLITE_READONLY_RECOVERY",
	8 | 2<<8:   "SQLITE_READONLY_CANTLOCK",
	8 | 3<<8:   "SQLITE_READONLY_ROLLBACK",
	8 | 4<<8:   "SQLITE_READONLY_DBMOVED",
	8 | 5<<8:   "SQLITE_READONLY_CANTINIT",
	8 | 6<<8:   "SQLITE_READONLY_DIRECTORY",
	10 | 1<<8:  "SQLITE_IOERR_READ",
	10 | 2<<8:  "SQLITE_IOERR_SHORT_READ",
	10 | 3<<8:  "SQLITE_IOERR_WRITE",
	10 | 4<<8:  "SQLITE_IOERR_FSYNC",
	10 | 5<<8:  "SQLITE_IOERR_DIR_FSYNC",
	10 | 6<<8:  "SQLITE_IOERR_TRUNCATE",
	10 | 7<<8:  "SQLITE_IOERR_FSTAT",
	10 | 8<<8:  "SQLITE_IOERR_UNLOCK",
	10 | 9<<8:  "SQLITE_IOERR_RDLOCK",
	10 | 10<<8: "SQLITE_IOERR_DELETE",
	10 | 13<<8: "SQLITE_IOERR_NOMEM",
	10 | 14<<8: "SQLITE_IOERR_ACCESS",
	10 | 16<<8: "SQLITE_IOERR_LOCK",
	11 | 1<<8:  "SQLITE_CORRUPT_VTAB",
	11 | 2<<8:  "SQLITE_CORRUPT_SEQUENCE",
	11 | 3<<8:  "SQLITE_CORRUPT_INDEX",
	14 | 1<<8:  "SQLITE_CANTOPEN_NOTEMPDIR",
	14 | 2<<8:  "SQLITE_CANTOPEN_ISDIR",
	14 | 3<<8:  "SQLITE_CANTOPEN_FULLPATH",
	14 | 4<<8:  "SQLITE_CANTOPEN_CONVPATH",
	14 | 6<<8:  "SQLITE_CANTOPEN_SYMLINK",
	19 | 1<<8:  "SQLITE_CONSTRAINT_CHECK",
	19 | 2<<8:  "SQLITE_CONSTRAINT_COMMITHOOK",
	19 | 3<<8:  "SQLITE_CONSTRAINT_FOREIGNKEY",
	19 | 4<<8:  "SQLITE_CONSTRAINT_FUNCTION",
	19 | 5<<8:  "SQLITE_CONSTRAINT_NOTNULL",
	19 | 6<<8:  "SQLITE_CONSTRAINT_PRIMARYKEY",
	19 | 7<<8:  "SQLITE_CONSTRAINT_TRIGGER",
	19 | 8<<8:  "SQLITE_CONSTRAINT_UNIQUE",
	19 | 9<<8:  "SQLITE_CONSTRAINT_VTAB",
	19 | 10<<8: "SQLITE_CONSTRAINT_ROWID",
	19 | 11<<8: "SQLITE_CONSTRAINT_PINNED",
	19 | 12<<8: "SQLITE_CONSTRAINT_DATATYPE",
}
