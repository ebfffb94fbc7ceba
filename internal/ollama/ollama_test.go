package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviestream-ai/moviestream/internal/providers"
)

func TestExtractText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var body struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
			Format string `json:"format"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, DefaultModel, body.Model)
		assert.Equal(t, "cozy mysteries", body.Prompt)
		assert.False(t, body.Stream)
		assert.Equal(t, "json", body.Format)

		w.Write([]byte(`{"response":"[{\"title\":\"Knives Out\",\"year\":2019}]","done":true}`))
	}))
	defer server.Close()

	got, err := New(server.URL).ExtractText(context.Background(), providers.Config{Prompt: "cozy mysteries"})
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"Knives Out","year":2019}]`, got)
}

func TestExtractTextStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New(server.URL).ExtractText(context.Background(), providers.Config{Prompt: "x"})
	assert.ErrorContains(t, err, "404")
}
