package app

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/youruser/bithunter/internal/config"
	imagepkg "github.com/youruser/bithunter/internal/image"
	"github.com/youruser/bithunter/internal/pipeline"
	"github.com/youruser/bithunter/internal/scrape"
	"github.com/youruser/bithunter/internal/util"
)

// Container holds the assembled services shared by the CLI and the server.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	HTTP    *resty.Client
	Scraper *scrape.Scraper
	Frame   image.Image
	Runner  *pipeline.Runner
}

// Build wires the scraper, frame and runner from cfg. Progress output of the
// runner goes to out.
func Build(cfg *config.Config, logger *zap.Logger, out io.Writer) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	client := util.NewHTTPClient(util.HTTPOptions{
		UserAgent:        cfg.UserAgent,
		Timeout:          time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		CloudflareBypass: cfg.CloudflareBypass,
	})
	scraper := scrape.NewScraper(client, cfg.BaseURL, logger)
	frame := imagepkg.LoadFrame(cfg.FramePath, logger)

	runner := pipeline.NewRunner(pipeline.Options{
		Config:   cfg,
		Resolver: scraper,
		Fetch: func(ctx context.Context, imageURL string) ([]byte, error) {
			return imagepkg.FetchImage(ctx, client, imageURL)
		},
		Frame:  frame,
		Logger: logger,
		Out:    out,
	})

	return &Container{
		Config:  cfg,
		Logger:  logger,
		HTTP:    client,
		Scraper: scraper,
		Frame:   frame,
		Runner:  runner,
	}, nil
}
