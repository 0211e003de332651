package imagepkg

import (
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/bithunter/internal/util"
)

func TestSourceFilename(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://i.psnprofiles.com/games/3d2fd1/trophies/1Lf8a2c.png", "1Lf8a2c.png"},
		{"https://i.psnprofiles.com/x/abc.png?v=3", "abc.png"},
		{"consume/local/file.jpg", "file.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SourceFilename(tt.url))
	}
}

func TestFetchImage_NoCache(t *testing.T) {
	payload := solidPNG(t, 8, 8, color.White)
	var cacheControl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cacheControl = r.Header.Get("Cache-Control")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	client := util.NewHTTPClient(util.HTTPOptions{Timeout: 5 * time.Second})
	data, err := FetchImage(context.Background(), client, srv.URL+"/t.png")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "no-cache", cacheControl)
}

func TestStoreOriginal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "originals")

	dest, err := StoreOriginal(dir, "https://i.psnprofiles.com/games/x/trophies/9.png", []byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "9.png"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "raw", string(data))
}
