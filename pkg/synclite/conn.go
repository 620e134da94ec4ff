package synclite

import (
	"sort"

	"go.uber.org/zap"

	"github.com/synclite/synclite/internal/engine"
	"github.com/synclite/synclite/pkg/location"
)

// InMemory opens a private in-memory database instead of a file.
const InMemory = location.InMemory

// Options configures Open. A nil *Options selects every default.
type Options struct {
	// ReadOnly opens the database without write access. Write statements
	// fail with an engine error ("attempt to write a readonly database")
	// rather than silently falling back.
	ReadOnly bool

	// AllowExtension permits extension loading on this connection. It is
	// fixed for the connection's lifetime; loading additionally requires a
	// runtime EnableLoadExtension(true) call. Neither alone suffices.
	AllowExtension bool

	// Timeout is the busy-wait budget in milliseconds before a contended
	// lock surfaces as a busy error. Zero means fail immediately.
	Timeout int

	// DisableForeignKeys skips the "PRAGMA foreign_keys = ON" applied by
	// default at open.
	DisableForeignKeys bool

	// EnableDoubleQuotedStringLiterals restores the engine's legacy
	// acceptance of double-quoted strings in DML and DDL.
	EnableDoubleQuotedStringLiterals bool

	// Pragmas are applied verbatim at open, after the built-in
	// configuration, in sorted key order.
	Pragmas map[string]string

	// Logger receives debug-level lifecycle events. Nil disables logging.
	Logger *zap.Logger
}

// Conn owns one native database handle. It may be used only by the goroutine
// that opened it; every method rejects callers from other goroutines. Close
// must eventually be called; an unclosed Conn is a resource leak.
type Conn struct {
	guard      guard
	eng        *engine.Conn
	log        *zap.Logger
	path       string // canonical path, or InMemory
	readOnly   bool
	allowExt   bool
	extEnabled bool
	stmts      map[*Stmt]struct{}
	closed     bool
}

// Open opens or creates the database at loc, which accepts a string path, a
// []byte path, a file-scheme *url.URL, or InMemory. A relative path resolves
// against the current working directory at call time.
//
// Open does not validate the file's content; the engine validates lazily, so
// a corrupted file may open successfully and fail on first real operation.
func Open(loc any, opts *Options) (*Conn, error) {
	path, err := location.Resolve(loc)
	if err != nil {
		return nil, &Error{Kind: KindInvalidPath, Message: err.Error(), Err: err}
	}

	var o Options
	if opts != nil {
		o = *opts
	}
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}

	flags := engine.OpenReadWrite | engine.OpenCreate
	if o.ReadOnly {
		flags = engine.OpenReadOnly
	}

	eng, err := engine.Open(path, flags)
	if err != nil {
		return nil, wrapEngine(err, "")
	}

	c := &Conn{
		guard:    newGuard(),
		eng:      eng,
		log:      log,
		path:     path,
		readOnly: o.ReadOnly,
		allowExt: o.AllowExtension,
		stmts:    make(map[*Stmt]struct{}),
	}

	if err := c.configure(&o); err != nil {
		eng.Close()
		return nil, err
	}

	log.Debug("database opened",
		zap.String("location", path),
		zap.Bool("read_only", o.ReadOnly),
		zap.Bool("allow_extension", o.AllowExtension))
	return c, nil
}

func (c *Conn) configure(o *Options) error {
	if !o.DisableForeignKeys {
		if err := c.eng.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return wrapEngine(err, "PRAGMA foreign_keys = ON")
		}
	}
	if o.Timeout > 0 {
		c.eng.BusyTimeout(o.Timeout)
	}
	if o.EnableDoubleQuotedStringLiterals {
		if err := c.eng.SetDoubleQuotedStrings(true); err != nil {
			return wrapEngine(err, "")
		}
	}
	if len(o.Pragmas) > 0 {
		keys := make([]string, 0, len(o.Pragmas))
		for k := range o.Pragmas {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sql := "PRAGMA " + k + " = " + o.Pragmas[k]
			if err := c.eng.Exec(sql); err != nil {
				return wrapEngine(err, sql)
			}
		}
	}
	return nil
}

// check is the common prologue for every public operation.
func (c *Conn) check() *Error {
	if err := c.guard.check("Database connection"); err != nil {
		return err
	}
	if c.closed {
		return newError(KindNotOpen, "database is not open")
	}
	return nil
}

// IsOpen reports whether the connection is open. Unlike every other method
// it never fails; it answers false after Close.
func (c *Conn) IsOpen() bool {
	return !c.closed
}

// Location reports the canonical path backing the named database: "main" by
// default, or any attached database (name matching is case-insensitive). The
// empty string means the database is in-memory or unknown.
func (c *Conn) Location(dbName ...string) (string, error) {
	if err := c.check(); err != nil {
		return "", err
	}
	name := "main"
	if len(dbName) > 0 {
		name = dbName[0]
	}
	return c.eng.Filename(name), nil
}

// Exec runs one or more semicolon-separated statements with no parameter
// binding and no result retrieval. Execution stops at the first failing
// statement; effects of prior statements remain exactly as the engine
// applied them, with no implicit wrapping transaction.
func (c *Conn) Exec(sql string) error {
	if err := c.check(); err != nil {
		return err
	}
	if err := c.eng.Exec(sql); err != nil {
		return wrapEngine(err, sql)
	}
	c.log.Debug("exec", zap.String("sql", sql))
	return nil
}

// Prepare compiles sql into a Statement owned by this connection. The
// statement must eventually be finalized, explicitly or via Close.
func (c *Conn) Prepare(sql string) (*Stmt, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	es, err := c.eng.Prepare(sql)
	if err != nil {
		return nil, wrapEngine(err, sql)
	}
	s := &Stmt{
		guard: newGuard(),
		conn:  c,
		eng:   es,
		sql:   sql,
	}
	c.stmts[s] = struct{}{}
	c.log.Debug("statement prepared", zap.String("sql", sql))
	return s, nil
}

// InTransaction reports whether an explicit transaction is open.
func (c *Conn) InTransaction() (bool, error) {
	if err := c.check(); err != nil {
		return false, err
	}
	return !c.eng.Autocommit(), nil
}

// EnableLoadExtension toggles the runtime half of the extension-loading
// gate. It fails unless the connection was opened with AllowExtension.
func (c *Conn) EnableLoadExtension(allow bool) error {
	if err := c.check(); err != nil {
		return err
	}
	if !c.allowExt {
		return newError(KindPermission,
			"Cannot enable extension loading because it was disabled at database creation.")
	}
	if err := c.eng.EnableLoadExtension(allow); err != nil {
		return wrapEngine(err, "")
	}
	c.extEnabled = allow
	return nil
}

// LoadExtension loads the shared library at path, calling entry or the
// engine's default entry point. The checks run in a fixed order: the
// creation-time permission, then the runtime enable flag, then the actual
// load. Both halves of the gate must be satisfied; neither alone suffices.
func (c *Conn) LoadExtension(path string, entry ...string) error {
	if err := c.check(); err != nil {
		return err
	}
	if !c.allowExt {
		return newError(KindPermission, "extension loading is not allowed")
	}
	if !c.extEnabled {
		return newError(KindNotEnabled, "extension loading is not enabled")
	}
	ep := ""
	if len(entry) > 0 {
		ep = entry[0]
	}
	if err := c.eng.LoadExtension(path, ep); err != nil {
		e := wrapEngineKind(KindLoadFailure, err, "")
		e.Message = "Failed to load extension '" + path + "': " + e.Message
		return e
	}
	c.log.Debug("extension loaded", zap.String("path", path))
	return nil
}

// Close releases the native handle, finalizing any statements still open on
// the connection. Closing an already-closed connection is a no-op.
func (c *Conn) Close() error {
	if err := c.guard.check("Database connection"); err != nil {
		return err
	}
	if c.closed {
		return nil
	}
	for s := range c.stmts {
		s.finalize()
	}
	c.stmts = nil
	c.eng.Close()
	c.closed = true
	c.extEnabled = false
	c.log.Debug("database closed", zap.String("location", c.path))
	return nil
}

func (c *Conn) forget(s *Stmt) {
	if c.stmts != nil {
		delete(c.stmts, s)
	}
}
