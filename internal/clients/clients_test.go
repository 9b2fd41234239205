package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasheetClientFetch(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Module,Power\nM1,750V\n"))
	}))
	defer srv.Close()

	client := NewDatasheetClient(DatasheetConfig{InsecureTLS: true, Timeout: 5 * time.Second})

	data, err := client.Fetch(context.Background(), srv.URL+"/data.csv")
	require.NoError(t, err)
	assert.Equal(t, "Module,Power\nM1,750V\n", string(data))

	_, err = client.Fetch(context.Background(), srv.URL+"/missing.csv")
	assert.Error(t, err)
}

func TestDatasheetClientVerifiesCertificatesWhenAsked(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	client := NewDatasheetClient(DatasheetConfig{InsecureTLS: false, Timeout: 5 * time.Second})
	_, err := client.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestDocumentClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/a.pdf" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte("%PDF-1.4"))
		}
	}))
	defer srv.Close()

	client := NewDocumentClient(false, 5*time.Second)
	ctx := context.Background()

	ok, err := client.Exists(ctx, srv.URL+"/a.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.Exists(ctx, srv.URL+"/b.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	data, err := client.Download(ctx, srv.URL+"/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	_, err = client.Download(ctx, srv.URL+"/b.pdf")
	assert.Error(t, err)
}
