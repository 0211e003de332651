package imagepkg

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/go-resty/resty/v2"

	"github.com/youruser/bithunter/internal/util"
)

// FetchImage downloads the raw bytes of a remote image, bypassing caches.
func FetchImage(ctx context.Context, client *resty.Client, imageURL string) ([]byte, error) {
	return util.GetBytes(ctx, client, imageURL, map[string]string{"Cache-Control": "no-cache"})
}

// SourceFilename is the last path segment of imageURL, without query string.
func SourceFilename(imageURL string) string {
	if u, err := url.Parse(imageURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(imageURL)
}

// StoreOriginal writes the untouched image bytes into dir under the URL's
// file name and returns the written path.
func StoreOriginal(dir, imageURL string, data []byte) (string, error) {
	name := SourceFilename(imageURL)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("no file name in %s", imageURL)
	}
	if err := util.EnsureDir(dir); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("storing original %s: %w", dest, err)
	}
	return dest, nil
}
