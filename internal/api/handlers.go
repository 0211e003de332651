package api

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/bithunter/internal/apperr"
	imagepkg "github.com/youruser/bithunter/internal/image"
	"github.com/youruser/bithunter/internal/trophies"
)

// maxUpload bounds the multipart image accepted by /api/compose.
const maxUpload = 10 << 20

type GameResolver interface {
	ResolveGame(ctx context.Context, gameID string) (*trophies.Game, error)
}

type Handler struct {
	games     GameResolver
	frame     image.Image
	thickness int
	logger    *zap.Logger
}

func NewHandler(games GameResolver, frame image.Image, thickness int, logger *zap.Logger) *Handler {
	if frame == nil {
		frame = imagepkg.BlankFrame()
	}
	return &Handler{games: games, frame: frame, thickness: thickness, logger: logger}
}

// health
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// game returns the trophy list of a game without downloading any image.
func (h *Handler) game(c *gin.Context) {
	id := c.Param("id")
	if n, err := strconv.Atoi(id); err != nil || n <= 0 {
		h.fail(c, apperr.Validation("game id must be a positive integer", "id", id))
		return
	}

	game, err := h.games.ResolveGame(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// compose frames the uploaded "image" part and returns a PNG. The optional
// size query parameter resizes the result to size x size.
func (h *Handler) compose(c *gin.Context) {
	size := 0
	if s := c.Query("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			h.fail(c, apperr.Validation("size must be a positive integer", "size", s))
			return
		}
		size = v
	}

	fh, err := c.FormFile("image")
	if err != nil {
		h.fail(c, apperr.Validation("multipart field \"image\" is required", "image", nil))
		return
	}
	if fh.Size > maxUpload {
		h.fail(c, apperr.Validation("image is too large", "image", fh.Size))
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		h.fail(c, err)
		return
	}

	out, err := imagepkg.Compose(h.frame, data, h.thickness)
	if err != nil {
		h.fail(c, err)
		return
	}
	var img image.Image = out
	if size > 0 {
		img = imaging.Resize(out, size, size, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		h.fail(c, apperr.Encoding("could not encode PNG", ".PNG", err))
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body["kind"] = appErr.Kind
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.JSON(status, body)
}

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindCompose:
		return http.StatusUnprocessableEntity
	case apperr.KindTransport, apperr.KindStructure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
