// Package api is the HTTP client for the Whisper transcription backend.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	apperrors "scribe/internal/errors"
	"scribe/internal/log"
	"scribe/pkg/types"
)

// Client talks to the transcription API. All methods honor the caller's
// context for cancellation.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a client for the given base URL (e.g. http://localhost:8000).
func New(baseURL string, timeout time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DownloadURL returns the direct link for a transcription text file. The
// same endpoint serves the modal text and the download, so the filename is
// the derived .txt name.
func (c *Client) DownloadURL(filename string) string {
	return c.baseURL + "/api/transcription/" + url.PathEscape(types.TranscriptName(filename))
}

// Upload posts all queued files in a single multipart request.
func (c *Client) Upload(ctx context.Context, files []types.QueuedFile) (*UploadResult, error) {
	if len(files) == 0 {
		return nil, apperrors.New("no files to upload")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, qf := range files {
		if err := appendFilePart(writer, qf); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.Wrap(err, "failed to finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, apperrors.NewRequestError("failed to create upload request", "/api/upload", apperrors.Transport, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result UploadResult
	if err := c.do(req, "/api/upload", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func appendFilePart(writer *multipart.Writer, qf types.QueuedFile) error {
	file, err := os.Open(qf.Path)
	if err != nil {
		return apperrors.NewFileError("cannot open queued file", qf.Path, apperrors.FileNotFound, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			log.Errorf("Failed to close %s: %v", qf.Path, cerr)
		}
	}()

	part, err := writer.CreateFormFile("files", qf.Name)
	if err != nil {
		return apperrors.Wrap(err, "failed to create form file")
	}
	if _, err := io.Copy(part, file); err != nil {
		return apperrors.NewFileError("failed to read queued file", qf.Path, apperrors.FileNotFound, err)
	}
	return nil
}

// ListFiles fetches the full server-side status listing.
func (c *Client) ListFiles(ctx context.Context) ([]types.RemoteFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/files", nil)
	if err != nil {
		return nil, apperrors.NewRequestError("failed to create request", "/api/files", apperrors.Transport, err)
	}

	var list fileList
	if err := c.do(req, "/api/files", &list); err != nil {
		return nil, err
	}

	// Entries without a recognizable status sort last rather than breaking
	// the rank ordering.
	for i := range list.Files {
		if list.Files[i].Status == "" {
			list.Files[i].Status = types.StatusUnknown
		}
	}
	return list.Files, nil
}

// StartTranscription asks the server to transcribe an uploaded file in the
// background. A 404 comes back as a NotFound-kind error: the file was
// already consumed or claimed elsewhere, which callers treat as a normal
// outcome, not a failure.
func (c *Client) StartTranscription(ctx context.Context, filename string) (*TranscribeResult, error) {
	endpoint := "/api/transcribe/" + url.PathEscape(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, apperrors.NewRequestError("failed to create request", endpoint, apperrors.Transport, err)
	}

	var result TranscribeResult
	if err := c.do(req, endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTranscription fetches a finished transcription. filename is the .txt
// name as listed by the server.
func (c *Client) GetTranscription(ctx context.Context, filename string) (*Transcription, error) {
	endpoint := "/api/transcription/" + url.PathEscape(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, apperrors.NewRequestError("failed to create request", endpoint, apperrors.Transport, err)
	}

	var result Transcription
	if err := c.do(req, endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteFile removes an uploaded file and its transcription artifacts.
func (c *Client) DeleteFile(ctx context.Context, filename string) error {
	endpoint := "/api/files/" + url.PathEscape(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+endpoint, nil)
	if err != nil {
		return apperrors.NewRequestError("failed to create request", endpoint, apperrors.Transport, err)
	}
	return c.do(req, endpoint, nil)
}

// do executes the request and decodes a 2xx JSON body into out (when out
// is non-nil). Non-2xx responses become RequestErrors carrying the status
// and, when present, the server's detail message.
func (c *Client) do(req *http.Request, endpoint string, out interface{}) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return apperrors.NewRequestError("request cancelled", endpoint, apperrors.Transport, req.Context().Err())
		}
		return apperrors.NewRequestError("request failed", endpoint, apperrors.Transport, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Errorf("Failed to close response body: %v", cerr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewRequestError("failed to read response", endpoint, apperrors.Transport, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return apperrors.NewStatusError(endpoint, resp.StatusCode, decodeDetail(body))
	}

	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return apperrors.NewRequestError(
			fmt.Sprintf("unexpected response body (%d bytes)", len(body)),
			endpoint, apperrors.BadResponse, err)
	}
	return nil
}

func decodeDetail(body []byte) string {
	var eb errorBody
	if err := sonic.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return eb.Detail
}
