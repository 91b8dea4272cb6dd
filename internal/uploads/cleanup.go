package uploads

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/scribeapp/scribe/internal/metrics"
	"github.com/scribeapp/scribe/internal/repo"
)

// Cleaner removes stored files that no post references and that are older
// than MaxAge. The age guard keeps a freshly uploaded image alive between the
// upload call and the post create that references it.
type Cleaner struct {
	Store  *Store
	Posts  *repo.PostRepo
	MaxAge time.Duration
}

// Sweep deletes orphaned files once and returns how many were removed.
func (c *Cleaner) Sweep(ctx context.Context) (int, error) {
	refs, err := c.Posts.ListImageRefs(ctx)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]bool, len(refs))
	for _, name := range refs {
		referenced[name] = true
	}

	files, err := c.Store.List()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-c.MaxAge)
	removed := 0
	for name, mod := range files {
		if referenced[name] || mod.After(cutoff) {
			continue
		}
		if err := c.Store.Remove(name); err != nil {
			slog.Warn("upload cleanup: remove failed", "file", name, "err", err)
			continue
		}
		removed++
		metrics.UploadFilesCleaned.Inc()
	}
	return removed, nil
}

// Schedule runs Sweep on the given cron expression until the context is done.
// An empty expression disables the job. The returned cron is already started.
func (c *Cleaner) Schedule(ctx context.Context, expr string) (*cron.Cron, error) {
	if expr == "" {
		return nil, nil
	}
	cr := cron.New()
	_, err := cr.AddFunc(expr, func() {
		n, err := c.Sweep(ctx)
		if err != nil {
			slog.Error("upload cleanup failed", "err", err)
			return
		}
		if n > 0 {
			slog.Info("upload cleanup", "removed", n)
		}
	})
	if err != nil {
		return nil, err
	}
	cr.Start()
	go func() {
		<-ctx.Done()
		cr.Stop()
	}()
	return cr, nil
}
