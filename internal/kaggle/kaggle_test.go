package kaggle

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCredentials(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kaggle.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCredentials(t *testing.T) {
	path := writeCredentials(t, `{"username":"walmart","key":"key123"}`)

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "walmart", creds.Username)
	assert.Equal(t, "key123", creds.Key)
}

func TestLoadCredentialsMissingFile(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "kaggle.json"))
	assert.Error(t, err)
}

func TestLoadCredentialsIncomplete(t *testing.T) {
	path := writeCredentials(t, `{"username":"walmart"}`)

	_, err := LoadCredentials(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing username or key")
}

// datasetServer serves payload only to requests carrying the right basic
// auth credentials.
func datasetServer(t *testing.T, payload []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, key, ok := r.BasicAuth()
		if !ok || user != "walmart" || key != "key123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownload(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), minZipSize+500)
	srv := datasetServer(t, payload)
	destDir := filepath.Join(t.TempDir(), "raw")
	creds := &Credentials{Username: "walmart", Key: "key123"}

	zipPath, err := Download(context.Background(), srv.Client(), srv.URL, destDir, creds)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, ZipName), zipPath)

	info, err := os.Stat(zipPath)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), info.Size())

	// No temporary file may survive the download.
	leftovers, err := filepath.Glob(filepath.Join(destDir, "*.part"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestDownloadRejectsSmallPayload(t *testing.T) {
	srv := datasetServer(t, []byte("not a real archive"))
	destDir := t.TempDir()
	creds := &Credentials{Username: "walmart", Key: "key123"}

	_, err := Download(context.Background(), srv.Client(), srv.URL, destDir, creds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")

	_, statErr := os.Stat(filepath.Join(destDir, ZipName))
	assert.True(t, os.IsNotExist(statErr))

	leftovers, err := filepath.Glob(filepath.Join(destDir, "*.part"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestDownloadBadCredentials(t *testing.T) {
	srv := datasetServer(t, bytes.Repeat([]byte("x"), minZipSize+500))
	creds := &Credentials{Username: "walmart", Key: "wrong"}

	_, err := Download(context.Background(), srv.Client(), srv.URL, t.TempDir(), creds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
