package speech

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New("sk-test", WithBaseURL(srv.URL+"/v1/"), WithMaxRetries(0))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, err := New("sk", WithVoice("robot")); err == nil {
		t.Fatal("expected error for unknown voice")
	}
}

func TestTranscribe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected auth %q", r.Header.Get("Authorization"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("model") != "whisper-1" {
			t.Errorf("expected whisper-1, got %q", r.FormValue("model"))
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file: %v", err)
		} else {
			defer f.Close()
			data, _ := io.ReadAll(f)
			if string(data) != "RIFF-audio" || hdr.Filename != "answer.wav" {
				t.Errorf("unexpected upload %q (%s)", data, hdr.Filename)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": " Tell me about yourself. "})
	})

	text, err := c.Transcribe(context.Background(), strings.NewReader("RIFF-audio"), "answer.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Tell me about yourself." {
		t.Fatalf("unexpected transcript %q", text)
	}
}

func TestTranscribeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid file format.","type":"invalid_request_error"}}`))
	})
	if _, err := c.Transcribe(context.Background(), strings.NewReader("x"), ""); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestSynthesize(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["input"] != "Hello" || body["voice"] != "nova" || body["model"] != "tts-1" {
			t.Errorf("unexpected body %v", body)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3-mp3-bytes"))
	})

	rc, ct, err := c.Synthesize(context.Background(), "Hello", "nova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "ID3-mp3-bytes" || ct != "audio/mpeg" {
		t.Fatalf("unexpected audio %q (%s)", data, ct)
	}
}

func TestSynthesizeValidation(t *testing.T) {
	c, err := New("sk-test", WithBaseURL("http://127.0.0.1:1/"), WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Synthesize(context.Background(), "  ", ""); err != ErrEmptyText {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if _, _, err := c.Synthesize(context.Background(), "hi", "robot"); err == nil {
		t.Fatal("expected error for unknown voice")
	}
}

func TestAudioContentType(t *testing.T) {
	tests := map[string]string{
		"a.mp3":  "audio/mpeg",
		"a.WAV":  "audio/wav",
		"a.m4a":  "audio/mp4",
		"a.ogg":  "audio/ogg",
		"a.webm": "audio/webm",
		"blob":   "audio/webm",
	}
	for name, want := range tests {
		if got := audioContentType(name); got != want {
			t.Errorf("audioContentType(%q) = %q, want %q", name, got, want)
		}
	}
}
