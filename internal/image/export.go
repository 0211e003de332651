package imagepkg

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/youruser/bithunter/internal/apperr"
	"github.com/youruser/bithunter/internal/metrics"
	"github.com/youruser/bithunter/internal/slug"
	"github.com/youruser/bithunter/internal/util"
)

// ExportSpec is the cross product of output sizes and file types applied to
// every composited image, plus the filename templates. Templates understand
// @g (game slug), @t (trophy slug) and @s (size).
type ExportSpec struct {
	Sizes    []int
	Types    []string
	NameRoot string
	NameEnd  string
}

type ExportContext struct {
	Game           string
	Trophy         string
	SourceFilename string
}

type ExportResult struct {
	Written []string
	Failed  []error
}

type Exporter struct {
	dir    string
	logger *zap.Logger
}

func NewExporter(dir string, logger *zap.Logger) *Exporter {
	return &Exporter{dir: dir, logger: logger}
}

// Export writes one file per (size, type) pair, in configuration order.
// A type without an encoder is logged and skipped; the remaining pairs are
// still written.
func (e *Exporter) Export(img image.Image, spec ExportSpec, ctx ExportContext) ExportResult {
	var result ExportResult
	if err := util.EnsureDir(e.dir); err != nil {
		result.Failed = append(result.Failed, err)
		return result
	}

	stem := strings.TrimSuffix(ctx.SourceFilename, filepath.Ext(ctx.SourceFilename))
	base := slug.Make(stem)
	game := slug.Make(ctx.Game)
	trophy := slug.Make(ctx.Trophy)

	for _, size := range spec.Sizes {
		if size <= 0 {
			result.Failed = append(result.Failed, apperr.Validation(
				fmt.Sprintf("export size must be positive, got %d", size), "exportSizes", size))
			continue
		}
		resized := imaging.Resize(img, size, size, imaging.Lanczos)

		for _, exportType := range spec.Types {
			filename := Filename(spec, base, game, trophy, size, exportType)

			if isShadowedAlias(exportType, spec.Types) {
				e.logger.Debug("Skipping .JPG export, .JPEG is also requested",
					zap.String("file", filename))
				metrics.FilesExported.WithLabelValues(exportType, "alias_skipped").Inc()
				continue
			}

			format, err := EncoderFor(exportType)
			if err != nil {
				e.logger.Warn("File format not supported",
					zap.String("file", filename),
					zap.String("type", exportType))
				metrics.FilesExported.WithLabelValues(exportType, "unsupported").Inc()
				result.Failed = append(result.Failed, err)
				continue
			}

			dest := filepath.Join(e.dir, filename)
			if err := writeImage(dest, resized, format); err != nil {
				e.logger.Warn("Could not export file",
					zap.String("file", dest),
					zap.Error(err))
				metrics.FilesExported.WithLabelValues(exportType, "failed").Inc()
				result.Failed = append(result.Failed, err)
				continue
			}
			metrics.FilesExported.WithLabelValues(exportType, "written").Inc()
			result.Written = append(result.Written, dest)
		}
	}
	return result
}

// Filename assembles "[root-]base[-end].ext" with the template tokens
// substituted. Empty segments are dropped together with their hyphen.
func Filename(spec ExportSpec, base, game, trophy string, size int, exportType string) string {
	r := strings.NewReplacer("@g", game, "@t", trophy, "@s", strconv.Itoa(size))

	parts := make([]string, 0, 3)
	for _, p := range []string{r.Replace(spec.NameRoot), base, r.Replace(spec.NameEnd)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	name := strings.Join(parts, "-")
	if name == "" {
		name = "image"
	}
	return name + strings.ToLower(exportType)
}

// EncoderFor maps a dot-prefixed extension such as ".PNG" to an encoder.
func EncoderFor(exportType string) (imaging.Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(exportType), ".")
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return 0, apperr.Encoding(fmt.Sprintf("file format %s not supported", exportType), exportType, err)
	}
	return format, nil
}

// .JPG and .JPEG name the same encoder; when both are requested only .JPEG
// is written.
func isShadowedAlias(exportType string, types []string) bool {
	if !strings.EqualFold(exportType, ".JPG") {
		return false
	}
	for _, t := range types {
		if strings.EqualFold(t, ".JPEG") {
			return true
		}
	}
	return false
}

func writeImage(dest string, img image.Image, format imaging.Format) (err error) {
	fp, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := fp.Close(); err == nil {
			err = cErr
		}
	}()
	return imaging.Encode(fp, img, format)
}
