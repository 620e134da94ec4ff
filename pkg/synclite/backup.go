package synclite

import (
	"go.uber.org/zap"

	"github.com/synclite/synclite/internal/engine"
	"github.com/synclite/synclite/pkg/location"
)

// BackupOptions tunes Backup. The zero value copies the "main" database in
// chunks of 100 pages with no progress reporting.
type BackupOptions struct {
	// Rate is the number of pages copied per step. Values below 1 fall
	// back to the default of 100.
	Rate int

	// Source names the schema to copy from, default "main".
	Source string

	// Target names the schema to copy into, default "main".
	Target string

	// Progress, when set, is called after each step with the pages still
	// to copy and the total page count.
	Progress func(remaining, total int)
}

// Backup copies the named source database into a new or existing file at
// destination, which accepts the same shapes as Open. The copy runs
// synchronously in page chunks; a concurrent writer to the source restarts
// the affected pages rather than failing the backup.
func (c *Conn) Backup(destination any, opts ...*BackupOptions) error {
	if err := c.check(); err != nil {
		return err
	}
	path, err := location.Resolve(destination)
	if err != nil {
		return &Error{Kind: KindInvalidPath, Message: err.Error(), Err: err}
	}

	var o BackupOptions
	if len(opts) > 0 && opts[0] != nil {
		o = *opts[0]
	}
	if o.Rate < 1 {
		o.Rate = 100
	}
	if o.Source == "" {
		o.Source = "main"
	}
	if o.Target == "" {
		o.Target = "main"
	}

	dst, err := engine.Open(path, engine.OpenReadWrite|engine.OpenCreate)
	if err != nil {
		return wrapEngine(err, "")
	}
	defer dst.Close()

	progress := o.Progress
	if progress == nil && c.log.Core().Enabled(zap.DebugLevel) {
		progress = func(remaining, total int) {
			c.log.Debug("backup step",
				zap.Int("remaining", remaining),
				zap.Int("total", total))
		}
	}

	if err := engine.Backup(dst, o.Target, c.eng, o.Source, o.Rate, progress); err != nil {
		return wrapEngine(err, "")
	}
	c.log.Debug("backup complete",
		zap.String("source", c.path),
		zap.String("destination", path))
	return nil
}
