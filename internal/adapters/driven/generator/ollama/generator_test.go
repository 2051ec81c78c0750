package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIncludesContextAndQuestion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[1].Content, "Inertia is the resistance of a body to changes in motion.")
		assert.Contains(t, req.Messages[1].Content, "Question: What is inertia?")

		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "  Inertia is resistance to change in motion.\n"},
			Done:    true,
		})
	}))
	defer srv.Close()

	gen := NewGenerator(Config{BaseURL: srv.URL})

	answer, err := gen.Generate(context.Background(),
		"What is inertia?",
		"Inertia is the resistance of a body to changes in motion.")
	require.NoError(t, err)
	assert.Equal(t, "Inertia is resistance to change in motion.", answer)
}

func TestGenerateEmptyContextStillAsks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Messages[1].Content, "(none found)")

		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "answer"},
		})
	}))
	defer srv.Close()

	gen := NewGenerator(Config{BaseURL: srv.URL})

	answer, err := gen.Generate(context.Background(), "What is inertia?", "   ")
	require.NoError(t, err)
	assert.Equal(t, "answer", answer)
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	gen := NewGenerator(Config{BaseURL: srv.URL})

	_, err := gen.Generate(context.Background(), "q", "ctx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGenerateContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Content: "x"}})
	}))
	defer srv.Close()

	gen := NewGenerator(Config{BaseURL: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, "q", "ctx")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "context canceled"))
}

func TestDefaults(t *testing.T) {
	gen := NewGenerator(Config{})
	assert.Equal(t, DefaultModel, gen.ModelName())
}
