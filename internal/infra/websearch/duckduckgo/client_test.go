package duckduckgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "openai.com", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("no_html"))
		w.Header().Set("Content-Type", "application/x-javascript")
		_, _ = w.Write([]byte(`{"Heading":"OpenAI","AbstractText":"AI research company","Image":"/i/openai.png"}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL+"/", time.Second).Lookup(context.Background(), "openai.com")
	require.NoError(t, err)
	assert.Equal(t, visibility.DomainInfo{
		Title:       "OpenAI",
		Description: "AI research company",
		Image:       "https://duckduckgo.com/i/openai.png",
		Source:      visibility.SourceDuckDuckGo,
	}, got)
}

func TestLookupEmptyAnswerUsesDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Heading":"","Abstract":"","Image":""}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL+"/", time.Second).Lookup(context.Background(), "tiny.dev")
	require.NoError(t, err)
	assert.Equal(t, "tiny.dev", got.Title)
	assert.Equal(t, "No description available.", got.Description)
	assert.Contains(t, got.Image, "No+Image")
}

func TestLookupFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "limited.com" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	_, err := c.Lookup(context.Background(), "limited.com")
	assert.Error(t, err)
	_, err = c.Lookup(context.Background(), "html.com")
	assert.Error(t, err)
}
