package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bellybutton/internal/errors"
)

const document = `{
	"names": ["940"],
	"samples": [{"id": "940", "otu_ids": [1167], "otu_labels": ["Bacteria"], "sample_values": [163]}],
	"metadata": [{"id": 940, "ethnicity": "Caucasian", "wfreq": 2}]
}`

func TestSourceFetch(t *testing.T) {
	var accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(document))
	}))
	defer server.Close()

	source := NewSource(server.URL, time.Second, 1<<20)
	ds, err := source.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "application/json", accept)
	assert.Equal(t, []string{"940"}, ds.Names)
	require.Len(t, ds.Samples, 1)
	assert.Equal(t, []int{1167}, ds.Samples[0].OTUIDs)
	assert.Equal(t, server.URL, source.Describe())
}

func TestSourceFetchErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		maxBytes int64
		code     string
	}{
		{name: "not found", status: http.StatusNotFound, body: "missing", maxBytes: 1 << 20, code: errors.CodeExternalService},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", maxBytes: 1 << 20, code: errors.CodeExternalService},
		{name: "invalid json", status: http.StatusOK, body: "{not json", maxBytes: 1 << 20, code: errors.CodeInvalidInput},
		{name: "too large", status: http.StatusOK, body: document, maxBytes: 16, code: errors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewSource(server.URL, time.Second, tt.maxBytes).Fetch(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestSourceFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewSource(server.URL, 50*time.Millisecond, 1<<20).Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
}

func TestSourceFetchCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(document))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSource(server.URL, time.Second, 1<<20).Fetch(ctx)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "context canceled"))
}
