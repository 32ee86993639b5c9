package httpclient

import (
	"context"
	"errors"
	"github.com/matryer/is"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestClient_DownloadRemoteFile(t *testing.T) {
	body := `{"response":{"entity":[]}}`
	tests := []struct {
		name        string
		status      int
		wantSuccess bool
	}{
		{name: "ok", status: http.StatusOK, wantSuccess: true},
		{name: "unauthorized", status: http.StatusUnauthorized},
		{name: "server error", status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			var gotKey string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			headers := make(http.Header)
			headers.Set("Ocp-Apim-Subscription-Key", "k")
			client := NewClient(0, headers)
			destination := filepath.Join(t.TempDir(), "out.json")

			result, err := client.DownloadRemoteFile(context.Background(), destination, server.URL)
			is.NoErr(err)
			is.Equal(gotKey, "k")
			is.Equal(result.StatusCode, tt.status)
			is.Equal(result.Success(), tt.wantSuccess)

			written, readErr := os.ReadFile(destination)
			if tt.wantSuccess {
				is.NoErr(readErr)
				is.Equal(string(written), body)
				is.Equal(result.Size, int64(len(body)))
			} else {
				is.True(os.IsNotExist(readErr)) // no file on non-200
			}
			_, tmpErr := os.Stat(destination + ".tmp")
			is.True(os.IsNotExist(tmpErr))
		})
	}
}

func TestClient_DownloadRemoteFile_transportError(t *testing.T) {
	is := is.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(0, nil)
	_, err := client.DownloadRemoteFile(context.Background(), filepath.Join(t.TempDir(), "out.json"), url)
	var transportErr *TransportError
	is.True(errors.As(err, &transportErr))
	is.Equal(transportErr.URL, url)
}
