package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenmind/haven-server/internal/model"
)

func TestGenerate_ReturnsURL(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/images", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://img.example/a.png"})
	}))
	defer srv.Close()

	c := New(srv.URL, "symbolic", "1024x1024", 2*time.Second)
	url, err := c.Generate(context.Background(), &model.EmotionalData{GroundEmotion: "calm", SceneTitle: "harbor"})

	require.NoError(t, err)
	assert.Equal(t, "https://img.example/a.png", url)
	assert.Contains(t, gotReq.Prompt, "harbor")
	assert.Contains(t, gotReq.Prompt, "calm")
	assert.Equal(t, "symbolic", gotReq.Style)
}

func TestGenerate_AcceptsImageURLField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"image_url": "https://img.example/b.png"})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "", 2*time.Second)
	url, err := c.Generate(context.Background(), &model.EmotionalData{})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/b.png", url)
}

func TestGenerate_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "", "", 2*time.Second)
	_, err := c.Generate(context.Background(), &model.EmotionalData{})
	assert.Error(t, err)
}

func TestGenerate_EmptyReferenceIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "", 2*time.Second)
	_, err := c.Generate(context.Background(), &model.EmotionalData{})
	assert.Error(t, err)
}

func TestPrompt_SkipsEmptyFields(t *testing.T) {
	p := Prompt(&model.EmotionalData{GroundEmotion: "grief", ColorPalette: []string{"#222"}})
	assert.Contains(t, p, "emotion: grief")
	assert.Contains(t, p, "colors: #222")
	assert.NotContains(t, p, "scene:")
}

func TestPrompt_NilAndEmptyFallback(t *testing.T) {
	assert.NotEmpty(t, Prompt(nil))
	assert.NotEmpty(t, Prompt(&model.EmotionalData{}))
}
