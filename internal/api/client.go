package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"auralynx/internal/pipeline"
)

const (
	defaultBaseURL = "https://api.assemblyai.com/v2"

	uploadTimeout  = 30 * time.Minute
	requestTimeout = 3 * time.Minute

	defaultPollInterval = 3 * time.Second
)

// ProgressFunc is called with (bytesRead, totalBytes) during upload.
type ProgressFunc func(bytesRead, totalBytes int64)

// progressReader wraps an io.Reader and reports progress.
type progressReader struct {
	reader   io.Reader
	total    int64
	read     int64
	callback ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.read += int64(n)
	if pr.callback != nil {
		pr.callback(pr.read, pr.total)
	}
	return n, err
}

// TranscribeOptions configures a transcription request.
type TranscribeOptions struct {
	// SpeechModel selects the provider model ("universal" or "slam-1").
	SpeechModel string
	// PollTimeout bounds the wait for completion. Zero means the client
	// default of 5 minutes.
	PollTimeout time.Duration
	// Progress receives upload progress callbacks. May be nil.
	Progress ProgressFunc
}

// Client talks to the AssemblyAI v2 REST API. The API key is injected at
// construction; the client never reads the environment.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPollInterval overrides the delay between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// NewClient creates an AssemblyAI client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{Timeout: requestTimeout},
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload streams an audio file to the upload endpoint and returns the
// temporary URL the provider assigns to it.
func (c *Client) Upload(ctx context.Context, path string, progress ProgressFunc) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat file: %w", err)
	}

	body := &progressReader{
		reader:   f,
		total:    stat.Size(),
		callback: progress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = stat.Size()
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	uploadClient := &http.Client{Timeout: uploadTimeout}
	resp, err := uploadClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if result.UploadURL == "" {
		return "", fmt.Errorf("no upload_url returned by API")
	}
	return result.UploadURL, nil
}

// Submit requests a transcription of an already-uploaded audio URL and
// returns the transcript id to poll.
func (c *Client) Submit(ctx context.Context, audioURL string, opts TranscribeOptions) (string, error) {
	payload := map[string]any{
		"audio_url":    audioURL,
		"speech_model": opts.SpeechModel,
		"punctuate":    true,
		"format_text":  true,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal transcript request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcript", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcript request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcript request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode transcript response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("no transcript id returned by API")
	}
	return result.ID, nil
}

// Poll fetches the transcript status until the provider reports completed or
// error. The wait is bounded by opts.PollTimeout and the context.
func (c *Client) Poll(ctx context.Context, id string, timeout time.Duration) (*pipeline.Transcript, error) {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeoutCause(ctx, timeout,
		fmt.Errorf("transcription timed out after %s", timeout))
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		transcript, err := c.fetch(ctx, id)
		if err != nil {
			// A deadline can fire mid-request; report the timeout cause
			// rather than the transport error it produced.
			if ctx.Err() != nil {
				return nil, context.Cause(ctx)
			}
			return nil, err
		}

		switch transcript.Status {
		case "completed":
			return transcript, nil
		case "error":
			return nil, fmt.Errorf("transcription error: %s", transcript.Error)
		}

		select {
		case <-ctx.Done():
			return nil, context.Cause(ctx)
		case <-ticker.C:
		}
	}
}

func (c *Client) fetch(ctx context.Context, id string) (*pipeline.Transcript, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polling request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("poll failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var transcript pipeline.Transcript
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}
	return &transcript, nil
}

// Transcribe runs the full upload, submit, poll sequence for one audio file.
func (c *Client) Transcribe(ctx context.Context, path string, opts TranscribeOptions) (*pipeline.Transcript, error) {
	audioURL, err := c.Upload(ctx, path, opts.Progress)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	id, err := c.Submit(ctx, audioURL, opts)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	transcript, err := c.Poll(ctx, id, opts.PollTimeout)
	if err != nil {
		return nil, fmt.Errorf("poll: %w", err)
	}
	return transcript, nil
}
