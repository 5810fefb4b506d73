package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMozillaTTS_Synthesize(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tts", r.URL.Path)
		assert.Equal(t, "Are you interested in this role?", r.URL.Query().Get("text"))
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write([]byte("RIFF"))
	}))
	defer srv.Close()

	audio, ct, err := NewMozillaTTS(srv.URL+"/", nil).Synthesize(context.Background(), "Are you interested in this role?")
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF"), audio)
	assert.Equal(t, "audio/wav", ct)
}

func TestMozillaTTS_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, _, err := NewMozillaTTS(srv.URL, nil).Synthesize(context.Background(), "hello")
	assert.ErrorContains(t, err, "503")
	assert.ErrorContains(t, err, "model not loaded")
}

func TestStubs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, _, err := StubSynthesizer{}.Synthesize(ctx, "  ")
	assert.Error(t, err)
	audio, _, err := StubSynthesizer{}.Synthesize(ctx, "hi")
	require.NoError(t, err)
	assert.NotEmpty(t, audio)

	text, err := StubTranscriber{Text: "yes"}.Transcribe(ctx, []byte{1})
	require.NoError(t, err)
	assert.Equal(t, "yes", text)

	_, err = StubTranscriber{}.Transcribe(ctx, nil)
	assert.Error(t, err)
}
