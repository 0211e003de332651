package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/youruser/bithunter/internal/apperr"
	"github.com/youruser/bithunter/internal/config"
	imagepkg "github.com/youruser/bithunter/internal/image"
	"github.com/youruser/bithunter/internal/metrics"
	"github.com/youruser/bithunter/internal/trophies"
)

// Resolver is the crawl side of the pipeline: game page first, then one
// detail page per trophy.
type Resolver interface {
	ResolveGame(ctx context.Context, gameID string) (*trophies.Game, error)
	ResolveImage(ctx context.Context, detailURL string) (string, error)
}

// FetchFunc downloads the raw bytes of an image.
type FetchFunc func(ctx context.Context, imageURL string) ([]byte, error)

type Options struct {
	Config   *config.Config
	Resolver Resolver
	Fetch    FetchFunc
	Frame    image.Image
	Logger   *zap.Logger
	// Out receives the progress bar. Nil discards it.
	Out io.Writer
}

// Runner processes one game or the consume folder at a time, strictly in
// order. The frame is shared by every composite and never modified.
type Runner struct {
	cfg      *config.Config
	resolver Resolver
	fetch    FetchFunc
	frame    image.Image
	exporter *imagepkg.Exporter
	logger   *zap.Logger
	out      io.Writer
}

func NewRunner(opts Options) *Runner {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	frame := opts.Frame
	if frame == nil {
		frame = imagepkg.BlankFrame()
	}
	return &Runner{
		cfg:      opts.Config,
		resolver: opts.Resolver,
		fetch:    opts.Fetch,
		frame:    frame,
		exporter: imagepkg.NewExporter(opts.Config.ProcessedDir, opts.Logger),
		logger:   opts.Logger,
		out:      out,
	}
}

func (r *Runner) exportSpec() imagepkg.ExportSpec {
	return imagepkg.ExportSpec{
		Sizes:    r.cfg.ExportSizes,
		Types:    r.cfg.ExportTypes,
		NameRoot: r.cfg.ImageNameRoot,
		NameEnd:  r.cfg.ImageNameEnd,
	}
}

// ProcessGame resolves gameID and runs every trophy through fetch, archive,
// compose and export. Per-trophy failures are logged and recorded in the
// report; only resolving the game itself can fail the call.
func (r *Runner) ProcessGame(ctx context.Context, gameID string) (*Report, error) {
	start := time.Now()
	game, err := r.resolver.ResolveGame(ctx, gameID)
	metrics.ObserveFetch("game", start)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			metrics.GamesResolved.WithLabelValues("not_found").Inc()
		} else {
			metrics.GamesResolved.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	metrics.GamesResolved.WithLabelValues("ok").Inc()

	report := &Report{Title: fmt.Sprintf("%s (%s)", game.Name, game.ID), Game: game}
	fmt.Fprintf(r.out, "\nGame Title: %s\n\n", game.Name)

	if r.cfg.ExportTrophyInfo {
		if path, err := trophies.ExportCSV(r.cfg.CSVDir, *game); err != nil {
			r.logger.Warn("Could not export trophy info", zap.Error(err))
		} else {
			report.CSVPath = path
			r.logger.Info("Game trophies info exported", zap.String("file", path))
		}
	}

	bar := progressbar.NewOptions(len(game.Trophies),
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription("Processing"),
		progressbar.OptionShowCount(),
	)

	seen := make(map[string]struct{}, len(game.Trophies))
	for i := range game.Trophies {
		if err := ctx.Err(); err != nil {
			_ = bar.Finish()
			return report, err
		}
		t := &game.Trophies[i]
		bar.Describe(truncate(t.Name, 30))

		if _, dup := seen[t.DetailURL]; dup {
			report.add(Row{Name: t.Name, Type: t.Type, Status: StatusSkipped, Detail: "duplicate row"})
			metrics.TrophiesProcessed.WithLabelValues(string(StatusSkipped)).Inc()
			_ = bar.Add(1)
			continue
		}
		seen[t.DetailURL] = struct{}{}

		row := r.processTrophy(ctx, game, t)
		metrics.TrophiesProcessed.WithLabelValues(string(row.Status)).Inc()
		report.add(row)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	return report, nil
}

func (r *Runner) processTrophy(ctx context.Context, game *trophies.Game, t *trophies.Trophy) Row {
	row := Row{Name: t.Name, Type: t.Type}

	start := time.Now()
	imageURL, err := r.resolver.ResolveImage(ctx, t.DetailURL)
	metrics.ObserveFetch("detail", start)
	if err != nil {
		r.logger.Warn("Could not resolve trophy image",
			zap.String("trophy", t.Name),
			zap.String("url", t.DetailURL),
			zap.Error(err))
		return row.fail(err)
	}
	t.ImageURL = imageURL
	r.logger.Debug("Trophy",
		zap.String("name", t.Name),
		zap.String("type", t.Type),
		zap.String("description", t.Description),
		zap.String("image", imageURL))

	start = time.Now()
	data, err := r.fetch(ctx, imageURL)
	metrics.ObserveFetch("image", start)
	if err != nil {
		r.logger.Warn("Could not fetch trophy image", zap.String("url", imageURL), zap.Error(err))
		return row.fail(err)
	}

	if r.cfg.StoreOriginals {
		path, err := imagepkg.StoreOriginal(r.cfg.OriginalsDir, imageURL, data)
		if err != nil {
			r.logger.Warn("Could not store original", zap.String("url", imageURL), zap.Error(err))
		} else {
			row.Original = path
		}
	}

	if !r.cfg.ProcessOriginals {
		row.Status = StatusStored
		return row
	}

	return r.composeAndExport(row, data, imagepkg.ExportContext{
		Game:           game.Name,
		Trophy:         t.Name,
		SourceFilename: imagepkg.SourceFilename(imageURL),
	})
}

func (r *Runner) composeAndExport(row Row, data []byte, ectx imagepkg.ExportContext) Row {
	composited, err := imagepkg.Compose(r.frame, data, r.cfg.FrameThickness)
	if err != nil {
		r.logger.Warn("Could not compose image",
			zap.String("source", ectx.SourceFilename),
			zap.Error(err))
		return row.fail(err)
	}

	res := r.exporter.Export(composited, r.exportSpec(), ectx)
	row.Files = res.Written
	row.Status = StatusExported
	if len(res.Written) == 0 {
		row.Status = StatusFailed
	}
	if len(res.Failed) > 0 {
		row.Detail = fmt.Sprintf("%d export(s) failed", len(res.Failed))
	}
	return row
}

// ConsumeLocal frames every file under the consume folder whose extension is
// one of the accepted types. No network access is involved.
func (r *Runner) ConsumeLocal(ctx context.Context) (*Report, error) {
	report := &Report{Title: "Local images (" + r.cfg.ConsumeDir + ")"}

	var paths []string
	err := filepath.WalkDir(r.cfg.ConsumeDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && r.accepts(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", r.cfg.ConsumeDir, err)
	}

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription("Consuming"),
		progressbar.OptionShowCount(),
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			_ = bar.Finish()
			return report, err
		}
		name := filepath.Base(path)
		bar.Describe(truncate(name, 30))

		row := Row{Name: name}
		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("Could not read local image", zap.String("path", path), zap.Error(err))
			row = row.fail(err)
		} else {
			r.logger.Info("Processing", zap.String("path", path))
			row = r.composeAndExport(row, data, imagepkg.ExportContext{SourceFilename: name})
		}
		metrics.TrophiesProcessed.WithLabelValues(string(row.Status)).Inc()
		report.add(row)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	return report, nil
}

func (r *Runner) accepts(path string) bool {
	ext := strings.ToUpper(filepath.Ext(path))
	if ext == "" {
		return false
	}
	return slices.ContainsFunc(r.cfg.AcceptedTypes, func(t string) bool {
		return strings.ToUpper(t) == ext
	})
}

// truncate shortens s to n runes, keeping multi-byte names valid UTF-8.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
