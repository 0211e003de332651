package util

import (
	"context"
	"fmt"
	"net/http"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"

	"github.com/youruser/bithunter/internal/apperr"
)

type HTTPOptions struct {
	UserAgent        string
	Timeout          time.Duration
	CloudflareBypass bool
}

// NewHTTPClient returns a client that identifies as a desktop browser; the
// source site serves empty or blocked pages to anything else.
func NewHTTPClient(opts HTTPOptions) *resty.Client {
	client := resty.New()
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)
	return client
}

// GetBytes returns the body of a 200 response. Anything else is a transport error.
func GetBytes(ctx context.Context, client *resty.Client, url string, headers map[string]string) ([]byte, error) {
	res, err := client.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, apperr.Transport("HTTP request failed", url, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, apperr.Transport(fmt.Sprintf("unexpected status code: %d", res.StatusCode()), url, nil)
	}
	return res.Body(), nil
}
