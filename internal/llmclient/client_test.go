package llmclient_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ascendhq/ascendcore/internal/llmclient"
	"github.com/ascendhq/ascendcore/internal/repository"
	"github.com/stretchr/testify/require"
)

func writeChunk(w http.ResponseWriter, text string) {
	fmt.Fprintf(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":%q}]}}]}\n\n", text)
	w.(http.Flusher).Flush()
}

func TestHTTPClient_StreamsDeltas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeChunk(w, "hello ")
		writeChunk(w, "world")
	}))
	defer server.Close()

	client := llmclient.NewHTTPClient(server.URL, "key", server.Client())
	deltas, errs, err := client.Stream(context.Background(), "prompt", llmclient.Options{MaxRetries: 0, Timeout: time.Second})
	require.NoError(t, err)

	var got string
	for d := range deltas {
		got += d.Text
	}
	require.Equal(t, "hello world", got)

	for e := range errs {
		require.NoError(t, e)
	}
}

func TestHTTPClient_RetriesTransientFailures(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		writeChunk(w, "ok")
	}))
	defer server.Close()

	client := llmclient.NewHTTPClient(server.URL, "key", server.Client())
	deltas, _, err := client.Stream(context.Background(), "prompt", llmclient.Options{MaxRetries: 3, Timeout: time.Second})
	require.NoError(t, err)

	var got string
	for d := range deltas {
		got += d.Text
	}
	require.Equal(t, "ok", got)
	require.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestHTTPClient_NonTransientFailureNotRetried(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := llmclient.NewHTTPClient(server.URL, "key", server.Client())
	_, _, err := client.Stream(context.Background(), "prompt", llmclient.Options{MaxRetries: 5, Timeout: time.Second})
	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&attempts))

	kind, ok := repository.KindOf(err)
	require.True(t, ok)
	require.Equal(t, repository.KindLLMUnavailable, kind)
}

func TestHTTPClient_ExhaustedRetriesSurfacesLLMUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := llmclient.NewHTTPClient(server.URL, "key", server.Client())
	_, _, err := client.Stream(context.Background(), "prompt", llmclient.Options{MaxRetries: 1, Timeout: time.Second})
	require.Error(t, err)

	kind, ok := repository.KindOf(err)
	require.True(t, ok)
	require.Equal(t, repository.KindLLMUnavailable, kind)
}
