package api

import "scribe/pkg/types"

// UploadedFile is one accepted file in the upload response. The server may
// rename on collision, so Filename can differ from OriginalName.
type UploadedFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	UploadTime   string `json:"upload_time"`
}

// UploadResult is the body of POST /api/upload.
type UploadResult struct {
	Message string         `json:"message"`
	Files   []UploadedFile `json:"files"`
}

// TranscribeResult is the body of POST /api/transcribe/{filename}. Status
// is "processing" both for a fresh start and for an already-running job.
type TranscribeResult struct {
	Message  string       `json:"message"`
	Filename string       `json:"filename"`
	Status   types.Status `json:"status"`
}

// Transcription is the body of GET /api/transcription/{filename}.
type Transcription struct {
	Filename      string `json:"filename"`
	Transcription string `json:"transcription"`
}

// fileList is the envelope of GET /api/files.
type fileList struct {
	Files []types.RemoteFile `json:"files"`
}

// errorBody is FastAPI's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}
