package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte("fake audio bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUpload(t *testing.T) {
	var gotAuth string
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/abc"})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	var lastRead, lastTotal int64
	progress := func(read, total int64) {
		lastRead, lastTotal = read, total
	}

	url, err := c.Upload(context.Background(), writeAudioFixture(t), progress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn.example/abc" {
		t.Errorf("upload URL = %q", url)
	}
	if gotAuth != "test-key" {
		t.Errorf("Authorization header = %q, want test-key", gotAuth)
	}
	if gotBody != "fake audio bytes" {
		t.Errorf("uploaded body = %q", gotBody)
	}
	if lastRead == 0 || lastTotal != int64(len("fake audio bytes")) {
		t.Errorf("progress not reported: read=%d total=%d", lastRead, lastTotal)
	}
}

func TestUpload_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := c.Upload(context.Background(), writeAudioFixture(t), nil)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestUpload_MissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.Upload(context.Background(), writeAudioFixture(t), nil)
	if err == nil || !strings.Contains(err.Error(), "upload_url") {
		t.Fatalf("expected missing upload_url error, got %v", err)
	}
}

func TestSubmit(t *testing.T) {
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcript" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]string{"id": "tr-1", "status": "queued"})
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	id, err := c.Submit(context.Background(), "https://cdn.example/abc",
		TranscribeOptions{SpeechModel: "universal"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "tr-1" {
		t.Errorf("id = %q, want tr-1", id)
	}
	if gotPayload["audio_url"] != "https://cdn.example/abc" {
		t.Errorf("audio_url = %v", gotPayload["audio_url"])
	}
	if gotPayload["speech_model"] != "universal" {
		t.Errorf("speech_model = %v", gotPayload["speech_model"])
	}
	if gotPayload["punctuate"] != true || gotPayload["format_text"] != true {
		t.Errorf("punctuate/format_text not set: %v", gotPayload)
	}
}

func TestPoll_CompletesAfterProcessing(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcript/tr-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		n := calls.Add(1)
		if n < 3 {
			json.NewEncoder(w).Encode(map[string]any{"id": "tr-1", "status": "processing"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "tr-1",
			"status": "completed",
			"text":   "hello there",
			"words": []map[string]any{
				{"text": "hello", "start": 100, "end": 400},
				{"text": "there", "start": 450, "end": 800},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithPollInterval(5*time.Millisecond))
	transcript, err := c.Poll(context.Background(), "tr-1", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transcript.Status != "completed" {
		t.Errorf("status = %q", transcript.Status)
	}
	if len(transcript.Words) != 2 || transcript.Words[0].Start != 100 {
		t.Errorf("words = %+v", transcript.Words)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 polls, got %d", calls.Load())
	}
}

func TestPoll_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": "tr-1", "status": "error", "error": "unsupported audio",
		})
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithPollInterval(5*time.Millisecond))
	_, err := c.Poll(context.Background(), "tr-1", time.Second)
	if err == nil || !strings.Contains(err.Error(), "unsupported audio") {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestPoll_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "tr-1", "status": "processing"})
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithPollInterval(5*time.Millisecond))
	_, err := c.Poll(context.Background(), "tr-1", 30*time.Millisecond)
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestTranscribe_FullSequence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/upload":
			json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/u1"})
		case r.URL.Path == "/transcript" && r.Method == http.MethodPost:
			json.NewEncoder(w).Encode(map[string]string{"id": "tr-9", "status": "queued"})
		case r.URL.Path == "/transcript/tr-9":
			json.NewEncoder(w).Encode(map[string]any{
				"id": "tr-9", "status": "completed", "text": "ok",
				"words": []map[string]any{{"text": "ok", "start": 0, "end": 200}},
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithPollInterval(5*time.Millisecond))
	transcript, err := c.Transcribe(context.Background(), writeAudioFixture(t),
		TranscribeOptions{SpeechModel: "universal", PollTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transcript.ID != "tr-9" || len(transcript.Words) != 1 {
		t.Errorf("transcript = %+v", transcript)
	}
}
