package watch

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"time"

	ttlcache "github.com/FloatTech/ttl"

	"scribe/internal/controller"
	"scribe/internal/log"
	"scribe/pkg/types"
)

// defaultSettle is how long a file must stop changing before it is
// considered fully written.
const defaultSettle = 2 * time.Second

// RunnerOptions control what happens after a file settles.
type RunnerOptions struct {
	AutoUpload     bool
	AutoTranscribe bool

	// Settle overrides the quiet period a file must hold before upload.
	// Zero means the default.
	Settle time.Duration
}

// Runner consumes watcher events, waits for each file to settle, and then
// uploads it. Re-delivered events for a file handled recently are ignored
// so one recording is never uploaded twice.
type Runner struct {
	svc     controller.Service
	watcher *Watcher
	opts    RunnerOptions

	mu       sync.Mutex
	timers   map[string]*time.Timer
	recent   *ttlcache.Cache[string, time.Time]
	uploaded int
}

// NewRunner wires a runner to a started-or-startable watcher.
func NewRunner(svc controller.Service, watcher *Watcher, opts RunnerOptions) *Runner {
	if opts.Settle <= 0 {
		opts.Settle = defaultSettle
	}
	return &Runner{
		svc:     svc,
		watcher: watcher,
		opts:    opts,
		timers:  make(map[string]*time.Timer),
		recent:  ttlcache.NewCache[string, time.Time](30 * time.Second),
	}
}

// Uploaded returns how many files this runner sent so far.
func (r *Runner) Uploaded() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uploaded
}

// Run blocks until ctx is cancelled or the watcher stops. The watcher must
// have been started by the caller.
func (r *Runner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.watcher.Stop()
			r.cancelTimers()
			return

		case ev, ok := <-r.watcher.Events():
			if !ok {
				r.cancelTimers()
				return
			}
			r.schedule(ctx, ev.Path)
		}
	}
}

// schedule arms or rearms the settle timer for one path. Every write event
// pushes the deadline back, so the file is handled once writing stops.
func (r *Runner) schedule(ctx context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[path]; ok {
		t.Reset(r.opts.Settle)
		return
	}
	r.timers[path] = time.AfterFunc(r.opts.Settle, func() {
		r.mu.Lock()
		delete(r.timers, path)
		r.mu.Unlock()
		r.handle(ctx, path)
	})
}

func (r *Runner) cancelTimers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for path, t := range r.timers {
		t.Stop()
		delete(r.timers, path)
	}
}

func (r *Runner) handle(ctx context.Context, path string) {
	if !r.recent.Get(path).IsZero() {
		log.Debugf("Ignorando %s, enviado há pouco", path)
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		log.Warnf("Arquivo %s sumiu antes do envio: %v", path, err)
		return
	}

	log.Infof("Novo arquivo de áudio detectado: %s (%d bytes)", path, info.Size())
	if !r.opts.AutoUpload {
		return
	}

	file := types.QueuedFile{
		Name:     filepath.Base(path),
		Path:     path,
		Size:     info.Size(),
		MimeType: mime.TypeByExtension(filepath.Ext(path)),
	}
	result, err := r.svc.Upload(ctx, []types.QueuedFile{file})
	if err != nil {
		log.Errorf("Falha ao enviar %s: %v", path, err)
		return
	}
	r.recent.Set(path, time.Now())

	r.mu.Lock()
	r.uploaded++
	r.mu.Unlock()
	log.Infof("Enviado %s", file.Name)

	if !r.opts.AutoTranscribe {
		return
	}
	for _, up := range result.Files {
		if _, err := r.svc.StartTranscription(ctx, up.Filename); err != nil {
			log.Errorf("Falha ao iniciar transcrição de %s: %v", up.Filename, err)
			continue
		}
		log.Infof("Transcrição iniciada para %s", up.Filename)
	}
}
