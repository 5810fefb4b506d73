// Package speech converts between text and audio for the voice channel.
package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Synthesizer turns agent text into audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (audio []byte, contentType string, err error)
}

// Transcriber turns candidate audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// StubSynthesizer returns placeholder audio. Used when no TTS server is configured.
type StubSynthesizer struct{}

func (StubSynthesizer) Synthesize(_ context.Context, text string) ([]byte, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", fmt.Errorf("empty text")
	}
	return []byte("Simulated audio data"), "application/octet-stream", nil
}

// StubTranscriber returns Text for any non-empty audio.
type StubTranscriber struct {
	Text string
}

func (s StubTranscriber) Transcribe(_ context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("empty audio")
	}
	if s.Text == "" {
		return "Simulated speech recognition output", nil
	}
	return s.Text, nil
}

// MozillaTTS talks to a Mozilla TTS server (GET /api/tts?text=...).
type MozillaTTS struct {
	BaseURL string
	HTTP    *http.Client
	logger  *zap.Logger
}

func NewMozillaTTS(baseURL string, logger *zap.Logger) *MozillaTTS {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MozillaTTS{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger.Named("tts"),
	}
}

func (m *MozillaTTS) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", fmt.Errorf("empty text")
	}

	u := m.BaseURL + "/api/tts?" + url.Values{"text": {text}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}

	start := time.Now()
	resp, err := m.HTTP.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", fmt.Errorf("tts server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read tts response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/wav"
	}
	m.logger.Debug("synthesized speech",
		zap.Int("chars", len(text)),
		zap.Int("bytes", len(audio)),
		zap.Duration("took", time.Since(start)))
	return audio, contentType, nil
}
