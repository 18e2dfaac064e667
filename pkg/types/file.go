package types

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// QueuedFile is a user-selected audio file that has not been uploaded yet.
// Two queued files are the same file when name and size match.
type QueuedFile struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type,omitempty"`
}

// Same reports whether other refers to the same pending upload.
func (q QueuedFile) Same(other QueuedFile) bool {
	return q.Name == other.Name && q.Size == other.Size
}

// String returns a human-readable representation
func (q QueuedFile) String() string {
	return fmt.Sprintf("%s (%s)", q.Name, humanize.Bytes(uint64(q.Size)))
}

// Status is a server-reported transcription state.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
	StatusUploaded   Status = "uploaded"
	StatusUnknown    Status = "unknown"
)

// Rank orders statuses for display: work in progress first, stale
// uploads and unrecognized states last.
func (s Status) Rank() int {
	switch s {
	case StatusProcessing:
		return 1
	case StatusCompleted:
		return 2
	case StatusError:
		return 3
	case StatusUploaded:
		return 4
	default:
		return 5
	}
}

// Badge returns the user-facing label for the status. The backend speaks
// Portuguese to its users, so the client does too.
func (s Status) Badge() string {
	switch s {
	case StatusProcessing:
		return "Processando"
	case StatusCompleted:
		return "Completo"
	case StatusError:
		return "Erro"
	case StatusUploaded:
		return "Enviado"
	default:
		return "Desconhecido"
	}
}

// RemoteFile is one entry of the server's file listing. The server is the
// source of truth; the client never mutates these, it replaces the whole
// snapshot on every poll.
type RemoteFile struct {
	Type              string  `json:"type"` // "input" or "processed"
	Filename          string  `json:"filename"`
	OriginalName      string  `json:"original_name"`
	Size              int64   `json:"size,omitempty"`
	UploadTime        string  `json:"upload_time,omitempty"`
	Status            Status  `json:"status"`
	StartedAt         string  `json:"started_at,omitempty"`
	CompletedAt       string  `json:"completed_at,omitempty"`
	ProcessingTime    float64 `json:"processing_time,omitempty"`
	Language          string  `json:"language,omitempty"`
	Duration          float64 `json:"duration,omitempty"`
	Error             string  `json:"error,omitempty"`
	TranscriptionFile string  `json:"transcription_file,omitempty"`
}

// DisplayName prefers the original upload name over the server-side one.
func (r RemoteFile) DisplayName() string {
	if r.OriginalName != "" {
		return r.OriginalName
	}
	return r.Filename
}

// Transcribable reports whether a start-transcription action applies.
func (r RemoteFile) Transcribable() bool {
	return r.Type == "input"
}

// Viewable reports whether a completed transcription can be fetched.
func (r RemoteFile) Viewable() bool {
	return r.Type == "processed" && r.Status == StatusCompleted
}

// TranscriptName derives the download name for a transcription: same base
// name with a .txt extension.
func TranscriptName(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return base + ".txt"
}

// SortByRank stable-sorts files by status rank. Equal ranks keep their
// relative server order, so repeated polls render consistently.
func SortByRank(files []RemoteFile) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Status.Rank() < files[j].Status.Rank()
	})
}
