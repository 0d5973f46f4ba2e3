// Package speech provides speech-to-text and text-to-speech backed by the
// OpenAI audio API.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultVoice is used when Synthesize is called without a voice.
const DefaultVoice = "alloy"

// Voices lists the voices accepted by Synthesize.
var Voices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// ErrEmptyText is returned when there is nothing to synthesize.
var ErrEmptyText = errors.New("speech: text must not be empty")

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Synthesizer turns text into an audio stream. The caller closes the stream.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (io.ReadCloser, string, error)
}

// Client implements Transcriber and Synthesizer.
type Client struct {
	client oai.Client
	voice  string
}

var (
	_ Transcriber = (*Client)(nil)
	_ Synthesizer = (*Client)(nil)
)

type config struct {
	baseURL    string
	timeout    time.Duration
	voice      string
	maxRetries int
}

// Option is a functional option for Client.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithVoice sets the voice used when Synthesize gets none.
func WithVoice(v string) Option {
	return func(c *config) { c.voice = v }
}

// WithMaxRetries sets how often a failed request is retried.
func WithMaxRetries(n int) Option {
	return func(c *config) { c.maxRetries = n }
}

// New constructs a Client. apiKey must be non-empty.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("speech: apiKey must not be empty")
	}
	cfg := &config{voice: DefaultVoice, maxRetries: 2}
	for _, o := range opts {
		o(cfg)
	}
	if !ValidVoice(cfg.voice) {
		return nil, fmt.Errorf("speech: unknown voice %q", cfg.voice)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(cfg.maxRetries),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}
	return &Client{client: oai.NewClient(reqOpts...), voice: cfg.voice}, nil
}

// ValidVoice reports whether v is one of Voices.
func ValidVoice(v string) bool {
	for _, known := range Voices {
		if v == known {
			return true
		}
	}
	return false
}

// Transcribe implements Transcriber using whisper-1.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if filename == "" {
		filename = "audio.webm"
	}
	resp, err := c.client.Audio.Transcriptions.New(ctx, oai.AudioTranscriptionNewParams{
		File:  oai.File(audio, filename, audioContentType(filename)),
		Model: oai.AudioModelWhisper1,
	})
	if err != nil {
		return "", fmt.Errorf("speech: transcribe: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Synthesize implements Synthesizer using tts-1 with MP3 output.
func (c *Client) Synthesize(ctx context.Context, text, voice string) (io.ReadCloser, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", ErrEmptyText
	}
	if voice == "" {
		voice = c.voice
	}
	if !ValidVoice(voice) {
		return nil, "", fmt.Errorf("speech: unknown voice %q", voice)
	}
	resp, err := c.client.Audio.Speech.New(ctx, oai.AudioSpeechNewParams{
		Input:          text,
		Model:          oai.SpeechModelTTS1,
		Voice:          oai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: oai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, "", fmt.Errorf("speech: synthesize: %w", err)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "audio/mpeg"
	}
	return resp.Body, ct, nil
}

func audioContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".mp3", ".mpga", ".mpeg":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".ogg", ".oga":
		return "audio/ogg"
	default:
		return "audio/webm"
	}
}
