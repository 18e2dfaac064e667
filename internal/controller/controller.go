// Package controller owns the client-side state of the upload page: the
// pending-file queue, the polled snapshot of server-reported statuses, and
// the in-flight lease set that suppresses duplicate transcription starts.
// It drives a View and talks to the backend through a Service; both are
// injected, so the whole package runs headless under test.
package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gobwas/glob"

	"scribe/internal/api"
	"scribe/internal/config"
	"scribe/pkg/types"
)

// Service is what the controller needs from the API client.
type Service interface {
	Upload(ctx context.Context, files []types.QueuedFile) (*api.UploadResult, error)
	ListFiles(ctx context.Context) ([]types.RemoteFile, error)
	StartTranscription(ctx context.Context, filename string) (*api.TranscribeResult, error)
	GetTranscription(ctx context.Context, filename string) (*api.Transcription, error)
	DeleteFile(ctx context.Context, filename string) error
	DownloadURL(filename string) string
}

// Options are the controller tunables, normally derived from config.
type Options struct {
	PollInterval time.Duration
	RefreshDelay time.Duration
	GuardTTL     time.Duration
	Cooldown     time.Duration
	CopyConfirm  time.Duration
	AudioGlobs   []glob.Glob
}

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	globs, err := cfg.AudioGlobs()
	if err != nil {
		return Options{}, err
	}
	return Options{
		PollInterval: cfg.PollInterval(),
		RefreshDelay: cfg.RefreshDelay(),
		GuardTTL:     cfg.GuardTTL(),
		Cooldown:     cfg.Cooldown(),
		CopyConfirm:  cfg.CopyConfirm(),
		AudioGlobs:   globs,
	}, nil
}

// Controller is the single owner of all client-side state. Methods block
// until their network call resolves and are safe for concurrent use; the
// TUI invokes them from bubbletea commands, the CLI directly.
type Controller struct {
	opts  Options
	svc   Service
	view  View
	sched Scheduler

	mu         sync.Mutex
	queue      []types.QueuedFile
	snapshot   []types.RemoteFile
	modalText  string
	submitting bool

	refreshing atomic.Bool
	inflight   *inflightSet
	stopPoll   CancelFunc
}

// New wires a controller. The view is rendered empty immediately so the
// front-end starts from a consistent state.
func New(svc Service, view View, sched Scheduler, opts Options) *Controller {
	c := &Controller{
		opts:     opts,
		svc:      svc,
		view:     view,
		sched:    sched,
		inflight: newInflightSet(opts.GuardTTL, opts.Cooldown),
	}
	view.RenderPendingList(nil, false)
	return c
}

// StartPolling begins the periodic status refresh. The first poll fires
// immediately rather than one interval in.
func (c *Controller) StartPolling() {
	c.mu.Lock()
	if c.stopPoll != nil {
		c.mu.Unlock()
		return
	}
	c.stopPoll = c.sched.Every(c.opts.PollInterval, c.Refresh)
	c.mu.Unlock()

	c.Refresh()
}

// StopPolling cancels future poll ticks. A refresh already in flight is
// allowed to finish and simply supersedes the snapshot one last time.
func (c *Controller) StopPolling() {
	c.mu.Lock()
	stop := c.stopPoll
	c.stopPoll = nil
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Snapshot returns a copy of the current status snapshot in render order.
func (c *Controller) Snapshot() []types.RemoteFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortedSnapshotLocked()
}

func (c *Controller) sortedSnapshotLocked() []types.RemoteFile {
	rows := make([]types.RemoteFile, len(c.snapshot))
	copy(rows, c.snapshot)
	types.SortByRank(rows)
	return rows
}

// Queue returns a copy of the pending queue.
func (c *Controller) Queue() []types.QueuedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.QueuedFile, len(c.queue))
	copy(out, c.queue)
	return out
}

func (c *Controller) renderPendingLocked() {
	files := make([]types.QueuedFile, len(c.queue))
	copy(files, c.queue)
	c.view.RenderPendingList(files, len(files) > 0 && !c.submitting)
}
