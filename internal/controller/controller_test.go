package controller_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"scribe/internal/api"
	"scribe/internal/config"
	"scribe/internal/controller"
	apperrors "scribe/internal/errors"
	"scribe/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService implements controller.Service with pluggable behavior.
type fakeService struct {
	mu               sync.Mutex
	uploadCalls      int
	listCalls        int
	transcribeCalls  []string
	deleteCalls      []string
	uploadFn         func([]types.QueuedFile) (*api.UploadResult, error)
	listFn           func() ([]types.RemoteFile, error)
	transcribeFn     func(string) (*api.TranscribeResult, error)
	transcriptionFn  func(string) (*api.Transcription, error)
	deleteFn         func(string) error
}

func (s *fakeService) Upload(_ context.Context, files []types.QueuedFile) (*api.UploadResult, error) {
	s.mu.Lock()
	s.uploadCalls++
	s.mu.Unlock()
	if s.uploadFn != nil {
		return s.uploadFn(files)
	}
	out := &api.UploadResult{}
	for _, f := range files {
		out.Files = append(out.Files, api.UploadedFile{Filename: f.Name, OriginalName: f.Name, Size: f.Size})
	}
	return out, nil
}

func (s *fakeService) ListFiles(_ context.Context) ([]types.RemoteFile, error) {
	s.mu.Lock()
	s.listCalls++
	s.mu.Unlock()
	if s.listFn != nil {
		return s.listFn()
	}
	return nil, nil
}

func (s *fakeService) StartTranscription(_ context.Context, filename string) (*api.TranscribeResult, error) {
	s.mu.Lock()
	s.transcribeCalls = append(s.transcribeCalls, filename)
	s.mu.Unlock()
	if s.transcribeFn != nil {
		return s.transcribeFn(filename)
	}
	return &api.TranscribeResult{Filename: filename, Status: types.StatusProcessing}, nil
}

func (s *fakeService) GetTranscription(_ context.Context, filename string) (*api.Transcription, error) {
	if s.transcriptionFn != nil {
		return s.transcriptionFn(filename)
	}
	return &api.Transcription{Filename: filename, Transcription: "texto transcrito"}, nil
}

func (s *fakeService) DeleteFile(_ context.Context, filename string) error {
	s.mu.Lock()
	s.deleteCalls = append(s.deleteCalls, filename)
	s.mu.Unlock()
	if s.deleteFn != nil {
		return s.deleteFn(filename)
	}
	return nil
}

func (s *fakeService) DownloadURL(filename string) string {
	return "http://test/api/transcription/" + types.TranscriptName(filename)
}

func (s *fakeService) transcribed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.transcribeCalls...)
}

// fakeView records every render call.
type fakeView struct {
	mu            sync.Mutex
	pending       [][]types.QueuedFile
	submitEnabled []bool
	tables        [][]types.RemoteFile
	modals        []controller.ModalState
	actions       []actionToggle
	labels        []string
	notes         []notification
}

type actionToggle struct {
	filename string
	enabled  bool
}

type notification struct {
	level controller.Level
	msg   string
}

func (v *fakeView) RenderPendingList(files []types.QueuedFile, submitEnabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = append(v.pending, files)
	v.submitEnabled = append(v.submitEnabled, submitEnabled)
}

func (v *fakeView) RenderStatusTable(rows []types.RemoteFile) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tables = append(v.tables, rows)
}

func (v *fakeView) ShowModal(state controller.ModalState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.modals = append(v.modals, state)
}

func (v *fakeView) SetActionEnabled(filename string, enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.actions = append(v.actions, actionToggle{filename, enabled})
}

func (v *fakeView) SetCopyLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.labels = append(v.labels, label)
}

func (v *fakeView) Notify(level controller.Level, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notes = append(v.notes, notification{level, message})
}

func (v *fakeView) lastPending() []types.QueuedFile {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.pending) == 0 {
		return nil
	}
	return v.pending[len(v.pending)-1]
}

func (v *fakeView) lastTable() []types.RemoteFile {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.tables) == 0 {
		return nil
	}
	return v.tables[len(v.tables)-1]
}

func (v *fakeView) notifications() []notification {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]notification(nil), v.notes...)
}

// fakeScheduler collects scheduled work so tests fire it by hand.
type fakeScheduler struct {
	mu     sync.Mutex
	afters []scheduledJob
	everys []scheduledJob
}

type scheduledJob struct {
	delay     time.Duration
	fn        func()
	cancelled *bool
}

func (s *fakeScheduler) After(d time.Duration, fn func()) controller.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancelled := false
	s.afters = append(s.afters, scheduledJob{d, fn, &cancelled})
	return func() { cancelled = true }
}

func (s *fakeScheduler) Every(d time.Duration, fn func()) controller.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancelled := false
	s.everys = append(s.everys, scheduledJob{d, fn, &cancelled})
	return func() { cancelled = true }
}

// fire runs and clears all pending one-shot jobs.
func (s *fakeScheduler) fire() {
	s.mu.Lock()
	jobs := s.afters
	s.afters = nil
	s.mu.Unlock()
	for _, j := range jobs {
		if !*j.cancelled {
			j.fn()
		}
	}
}

func (s *fakeScheduler) pendingAfters() []scheduledJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scheduledJob(nil), s.afters...)
}

func testOptions(t *testing.T) controller.Options {
	t.Helper()
	opts, err := controller.OptionsFromConfig(config.New())
	require.NoError(t, err)
	return opts
}

func newController(t *testing.T) (*controller.Controller, *fakeService, *fakeView, *fakeScheduler) {
	t.Helper()
	svc := &fakeService{}
	view := &fakeView{}
	sched := &fakeScheduler{}
	ctrl := controller.New(svc, view, sched, testOptions(t))
	return ctrl, svc, view, sched
}

func queued(name string, size int64) types.QueuedFile {
	return types.QueuedFile{Name: name, Size: size, Path: "/tmp/" + name}
}

func TestAddFiltersAndDeduplicates(t *testing.T) {
	ctrl, _, view, _ := newController(t)

	added := ctrl.Add([]types.QueuedFile{
		queued("a.mp3", 100),
		queued("a.mp3", 100), // duplicate within the batch
		queued("b.wav", 50),
		queued("notas.pdf", 10), // not audio
	})
	assert.Equal(t, 2, added)

	// Same (name, size) again, different path: still a duplicate.
	added = ctrl.Add([]types.QueuedFile{{Name: "a.mp3", Size: 100, Path: "/other/a.mp3"}})
	assert.Equal(t, 0, added)

	// Same name, different size: a different file.
	added = ctrl.Add([]types.QueuedFile{queued("a.mp3", 999)})
	assert.Equal(t, 1, added)

	queue := ctrl.Queue()
	require.Len(t, queue, 3)
	for i, f := range queue {
		for j, g := range queue {
			if i != j {
				assert.False(t, f.Same(g), "queue holds duplicates: %v and %v", f, g)
			}
		}
	}

	assert.Equal(t, []types.QueuedFile(nil), view.pending[0], "view starts empty")
	assert.True(t, view.submitEnabled[len(view.submitEnabled)-1])
}

func TestAddCaseInsensitiveExtension(t *testing.T) {
	ctrl, _, _, _ := newController(t)
	assert.Equal(t, 1, ctrl.Add([]types.QueuedFile{queued("GRAVACAO.MP3", 5)}))
}

func TestAddPaths(t *testing.T) {
	ctrl, _, _, _ := newController(t)

	dir := t.TempDir()
	audio := filepath.Join(dir, "fala.mp3")
	require.NoError(t, os.WriteFile(audio, []byte("abc"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("x"), 0644))

	added := ctrl.AddPaths([]string{audio, filepath.Join(dir, "doc.txt"), filepath.Join(dir, "missing.mp3"), dir})
	assert.Equal(t, 1, added)

	queue := ctrl.Queue()
	require.Len(t, queue, 1)
	assert.Equal(t, "fala.mp3", queue[0].Name)
	assert.Equal(t, int64(3), queue[0].Size)
}

func TestRemove(t *testing.T) {
	ctrl, _, _, _ := newController(t)
	ctrl.Add([]types.QueuedFile{queued("a.mp3", 1), queued("b.mp3", 2), queued("c.mp3", 3)})

	ctrl.Remove(1)
	queue := ctrl.Queue()
	require.Len(t, queue, 2)
	assert.Equal(t, "a.mp3", queue[0].Name)
	assert.Equal(t, "c.mp3", queue[1].Name)

	// Out of bounds: silent no-op.
	ctrl.Remove(-1)
	ctrl.Remove(5)
	assert.Len(t, ctrl.Queue(), 2)
}

func TestClear(t *testing.T) {
	ctrl, _, view, _ := newController(t)
	ctrl.Add([]types.QueuedFile{queued("a.mp3", 1)})
	ctrl.Clear()

	assert.Empty(t, ctrl.Queue())
	assert.False(t, view.submitEnabled[len(view.submitEnabled)-1])
}

func TestSubmitSuccess(t *testing.T) {
	ctrl, svc, view, sched := newController(t)
	ctrl.Add([]types.QueuedFile{queued("A.mp3", 2<<20)})

	ctrl.Submit()

	assert.Empty(t, ctrl.Queue(), "queue cleared after successful submit")
	assert.Equal(t, 1, svc.uploadCalls)

	notes := view.notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, controller.LevelSuccess, notes[0].level)
	assert.Contains(t, notes[0].msg, "1 arquivo(s)")

	// A refresh is scheduled within the configured delay window.
	afters := sched.pendingAfters()
	require.Len(t, afters, 1)
	assert.Equal(t, 1500*time.Millisecond, afters[0].delay)

	sched.fire()
	assert.Equal(t, 1, svc.listCalls)
}

func TestSubmitFailurePreservesQueue(t *testing.T) {
	ctrl, svc, view, sched := newController(t)
	svc.uploadFn = func([]types.QueuedFile) (*api.UploadResult, error) {
		return nil, apperrors.NewStatusError("/api/upload", 500, "disco cheio")
	}
	ctrl.Add([]types.QueuedFile{queued("a.mp3", 1)})

	ctrl.Submit()

	assert.Len(t, ctrl.Queue(), 1, "queue preserved so the user can retry")
	notes := view.notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, controller.LevelError, notes[0].level)
	assert.Empty(t, sched.pendingAfters(), "no refresh scheduled on failure")

	// Submit affordance was disabled during the call and restored after.
	flags := view.submitEnabled
	require.GreaterOrEqual(t, len(flags), 3)
	assert.False(t, flags[len(flags)-2], "disabled while submitting")
	assert.True(t, flags[len(flags)-1], "restored after failure")
}

func TestSubmitEmptyQueueIsNoop(t *testing.T) {
	ctrl, svc, _, _ := newController(t)
	ctrl.Submit()
	assert.Equal(t, 0, svc.uploadCalls)
}

func TestRefreshReplacesSnapshotSorted(t *testing.T) {
	ctrl, svc, view, _ := newController(t)
	svc.listFn = func() ([]types.RemoteFile, error) {
		return []types.RemoteFile{
			{Filename: "old.mp3", Status: types.StatusUploaded},
			{Filename: "done1", Status: types.StatusCompleted},
			{Filename: "busy", Status: types.StatusProcessing},
			{Filename: "done2", Status: types.StatusCompleted},
		}, nil
	}

	ctrl.Refresh()

	rows := view.lastTable()
	require.Len(t, rows, 4)
	assert.Equal(t, "busy", rows[0].Filename)
	assert.Equal(t, "done1", rows[1].Filename, "equal ranks keep input order")
	assert.Equal(t, "done2", rows[2].Filename)
	assert.Equal(t, "old.mp3", rows[3].Filename)
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	ctrl, svc, view, _ := newController(t)

	svc.listFn = func() ([]types.RemoteFile, error) {
		return []types.RemoteFile{{Filename: "a", Status: types.StatusCompleted}}, nil
	}
	ctrl.Refresh()
	require.Len(t, ctrl.Snapshot(), 1)

	svc.listFn = func() ([]types.RemoteFile, error) {
		return nil, apperrors.NewRequestError("boom", "/api/files", apperrors.Transport, nil)
	}
	ctrl.Refresh()

	assert.Len(t, ctrl.Snapshot(), 1, "previous snapshot retained")
	assert.Empty(t, view.notifications(), "poll failures are never surfaced")
}

func TestRefreshReentrancyGuard(t *testing.T) {
	ctrl, svc, _, _ := newController(t)

	release := make(chan struct{})
	started := make(chan struct{})
	svc.listFn = func() ([]types.RemoteFile, error) {
		close(started)
		<-release
		return nil, nil
	}

	go ctrl.Refresh()
	<-started

	// A tick landing while the first refresh is outstanding is a no-op.
	ctrl.Refresh()
	close(release)

	assert.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return svc.listCalls == 1
	}, time.Second, 10*time.Millisecond)
}

func TestStartTranscriptionDeduplicates(t *testing.T) {
	ctrl, svc, _, _ := newController(t)

	ctrl.StartTranscription("f.mp3")
	ctrl.StartTranscription("f.mp3")

	assert.Equal(t, []string{"f.mp3"}, svc.transcribed(), "second start within the grace period is a no-op")

	// Other filenames are unaffected.
	ctrl.StartTranscription("g.mp3")
	assert.Equal(t, []string{"f.mp3", "g.mp3"}, svc.transcribed())
}

func TestStartTranscriptionSchedulesRefresh(t *testing.T) {
	ctrl, svc, view, sched := newController(t)

	ctrl.StartTranscription("f.mp3")

	// Delayed refresh plus the cooldown re-enable.
	require.Len(t, sched.pendingAfters(), 2)
	sched.fire()
	assert.Equal(t, 1, svc.listCalls)

	// The action control was disabled when the request went out.
	require.NotEmpty(t, view.actions)
	assert.Equal(t, actionToggle{"f.mp3", false}, view.actions[0])
}

func TestStartTranscriptionReenablesControl(t *testing.T) {
	ctrl, _, view, sched := newController(t)

	ctrl.StartTranscription("f.mp3")

	afters := sched.pendingAfters()
	require.Len(t, afters, 2)
	// The re-enable waits out the cooldown window, not the refresh delay.
	assert.Equal(t, 10*time.Second, afters[1].delay)

	sched.fire()
	last := view.actions[len(view.actions)-1]
	assert.Equal(t, actionToggle{"f.mp3", true}, last,
		"control must come back after a successful start, or the file could never be retried")
}

func TestStartTranscriptionNotFound(t *testing.T) {
	ctrl, svc, view, sched := newController(t)
	svc.transcribeFn = func(string) (*api.TranscribeResult, error) {
		return nil, apperrors.NewStatusError("/api/transcribe/y.mp3", 404, "Arquivo não encontrado")
	}

	ctrl.StartTranscription("y.mp3")

	// 404 never produces a user-visible alert.
	assert.Empty(t, view.notifications())

	// The lease is released immediately: a retry issues a new request.
	ctrl.StartTranscription("y.mp3")
	assert.Equal(t, []string{"y.mp3", "y.mp3"}, svc.transcribed())

	// And a refresh was scheduled.
	assert.NotEmpty(t, sched.pendingAfters())
}

func TestStartTranscriptionFailure(t *testing.T) {
	ctrl, svc, view, _ := newController(t)
	svc.transcribeFn = func(string) (*api.TranscribeResult, error) {
		return nil, apperrors.NewStatusError("/api/transcribe/z.mp3", 503, "modelo ocupado")
	}

	ctrl.StartTranscription("z.mp3")

	notes := view.notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, controller.LevelError, notes[0].level)
	assert.Contains(t, notes[0].msg, "modelo ocupado")

	// Control restored.
	last := view.actions[len(view.actions)-1]
	assert.Equal(t, actionToggle{"z.mp3", true}, last)

	// The cooldown still absorbs an immediate retry.
	ctrl.StartTranscription("z.mp3")
	assert.Equal(t, []string{"z.mp3"}, svc.transcribed())
}

func TestViewTranscriptionTwoPhase(t *testing.T) {
	ctrl, _, view, _ := newController(t)

	ctrl.ViewTranscription("x", "x.mp3")

	require.Len(t, view.modals, 2)

	loading := view.modals[0]
	assert.True(t, loading.Open)
	assert.True(t, loading.Loading)
	assert.Equal(t, "x.mp3", loading.OriginalName)
	assert.Equal(t, "x.txt", loading.DownloadName)
	assert.Equal(t, "http://test/api/transcription/x.txt", loading.DownloadURL)
	assert.Empty(t, loading.Text)

	populated := view.modals[1]
	assert.False(t, populated.Loading)
	assert.False(t, populated.Failed)
	assert.Equal(t, "texto transcrito", populated.Text)
}

func TestViewTranscriptionFailure(t *testing.T) {
	ctrl, svc, view, _ := newController(t)
	svc.transcriptionFn = func(string) (*api.Transcription, error) {
		return nil, apperrors.NewStatusError("/api/transcription/x.txt", 404, "")
	}

	ctrl.ViewTranscription("x", "x.mp3")

	require.Len(t, view.modals, 2)
	failed := view.modals[1]
	assert.True(t, failed.Failed)
	assert.Equal(t, "Erro ao carregar a transcrição.", failed.Text)
}

func TestViewTranscriptionNotGatedByLease(t *testing.T) {
	ctrl, svc, view, _ := newController(t)

	// Hold a start-transcription lease for the same file.
	ctrl.StartTranscription("x")
	require.Len(t, svc.transcribed(), 1)

	ctrl.ViewTranscription("x", "x.mp3")
	assert.Len(t, view.modals, 2, "view action always allowed")
}

func TestDelete(t *testing.T) {
	ctrl, svc, view, sched := newController(t)

	ctrl.Delete("a.mp3")

	assert.Equal(t, []string{"a.mp3"}, svc.deleteCalls)
	notes := view.notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, controller.LevelSuccess, notes[0].level)
	assert.NotEmpty(t, sched.pendingAfters())
}

func TestDeleteFailure(t *testing.T) {
	ctrl, svc, view, sched := newController(t)
	svc.deleteFn = func(string) error {
		return apperrors.NewStatusError("/api/files/a.mp3", 500, "")
	}

	ctrl.Delete("a.mp3")

	notes := view.notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, controller.LevelError, notes[0].level)
	assert.Empty(t, sched.pendingAfters())
}

func TestCopyTranscriptionEmptyIsNoop(t *testing.T) {
	ctrl, _, view, sched := newController(t)

	ctrl.CopyTranscription()

	assert.Empty(t, view.labels)
	assert.Empty(t, sched.pendingAfters())
}

func TestPollingLifecycle(t *testing.T) {
	ctrl, svc, _, sched := newController(t)

	ctrl.StartPolling()
	assert.Equal(t, 1, svc.listCalls, "first poll fires immediately")

	sched.mu.Lock()
	require.Len(t, sched.everys, 1)
	every := sched.everys[0]
	sched.mu.Unlock()
	assert.Equal(t, 5*time.Second, every.delay)

	every.fn()
	assert.Equal(t, 2, svc.listCalls)

	// Starting again while running is a no-op.
	ctrl.StartPolling()
	sched.mu.Lock()
	assert.Len(t, sched.everys, 1)
	sched.mu.Unlock()

	ctrl.StopPolling()
	assert.True(t, *every.cancelled)

	// Stopping twice is harmless.
	ctrl.StopPolling()
}

func TestUploadScenario(t *testing.T) {
	// Queue = [A.mp3 (2MB)], submit succeeds with the server reporting one
	// file: queue empties, the message reports count 1, and a refresh
	// fires within the configured window.
	ctrl, svc, view, sched := newController(t)
	svc.uploadFn = func(files []types.QueuedFile) (*api.UploadResult, error) {
		require.Len(t, files, 1)
		return &api.UploadResult{
			Message: "1 arquivos enviados com sucesso",
			Files:   []api.UploadedFile{{Filename: "A.mp3", OriginalName: "A.mp3", Size: 2 << 20}},
		}, nil
	}

	ctrl.Add([]types.QueuedFile{queued("A.mp3", 2<<20)})
	ctrl.Submit()

	assert.Empty(t, ctrl.Queue())
	notes := view.notifications()
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].msg, "1 arquivo(s)")

	afters := sched.pendingAfters()
	require.Len(t, afters, 1)
	assert.GreaterOrEqual(t, afters[0].delay, time.Second)
	assert.LessOrEqual(t, afters[0].delay, 2*time.Second)
}

func TestCompletedRowScenario(t *testing.T) {
	// Poll returns a processed, completed entry: the rendered row carries
	// the "Completo" badge, is viewable, and links to the derived .txt.
	ctrl, svc, view, _ := newController(t)
	svc.listFn = func() ([]types.RemoteFile, error) {
		return []types.RemoteFile{{
			Type:           "processed",
			Filename:       "x",
			OriginalName:   "x.mp3",
			Status:         types.StatusCompleted,
			ProcessingTime: 12,
		}}, nil
	}

	ctrl.Refresh()

	rows := view.lastTable()
	require.Len(t, rows, 1)
	assert.Equal(t, "Completo", rows[0].Status.Badge())
	assert.True(t, rows[0].Viewable())
	assert.Equal(t, "http://test/api/transcription/x.txt", svc.DownloadURL(rows[0].Filename))
}
