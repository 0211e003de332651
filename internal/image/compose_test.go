package imagepkg

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/youruser/bithunter/internal/apperr"
)

// solidPNG returns the PNG encoding of a w×h image filled with c.
func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(w, h, c)))
	return buf.Bytes()
}

var (
	red  = color.NRGBA{R: 0xff, A: 0xff}
	blue = color.NRGBA{B: 0xff, A: 0xff}
)

func TestComposeImage_OutputMatchesFrame(t *testing.T) {
	tests := []struct {
		name          string
		frameW        int
		frameH        int
		trophyW       int
		trophyH       int
		thickness     int
		wantW, wantH  int // inset size
	}{
		{"same size", 240, 240, 240, 240, 15, 210, 210},
		{"large trophy clamped to frame", 240, 240, 1024, 1024, 15, 210, 210},
		{"small trophy", 240, 240, 100, 80, 10, 80, 60},
		{"rectangular frame", 300, 200, 500, 500, 20, 260, 160},
		{"zero thickness", 64, 64, 32, 32, 0, 32, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := imaging.New(tt.frameW, tt.frameH, blue)
			trophy := imaging.New(tt.trophyW, tt.trophyH, red)

			out, err := ComposeImage(frame, trophy, tt.thickness)
			require.NoError(t, err)
			assert.Equal(t, tt.frameW, out.Bounds().Dx())
			assert.Equal(t, tt.frameH, out.Bounds().Dy())

			// inside the inset: trophy; right of the inset: frame
			inX := tt.thickness + tt.wantW/2
			inY := tt.thickness + tt.wantH/2
			assert.Equal(t, red, out.NRGBAAt(inX, inY))
			if tt.thickness > 0 {
				assert.Equal(t, blue, out.NRGBAAt(tt.thickness-1, tt.thickness-1))
			}
			if tt.thickness+tt.wantW < tt.frameW {
				assert.Equal(t, blue, out.NRGBAAt(tt.thickness+tt.wantW, inY))
			}
		})
	}
}

func TestComposeImage_TransparentFrameShowsWhite(t *testing.T) {
	frame := imaging.New(40, 40, color.NRGBA{})
	trophy := imaging.New(40, 40, red)

	out, err := ComposeImage(frame, trophy, 5)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, out.NRGBAAt(1, 1))
	assert.Equal(t, red, out.NRGBAAt(20, 20))
}

func TestComposeImage_GuardsDegenerateInset(t *testing.T) {
	tests := []struct {
		name      string
		trophy    image.Image
		thickness int
	}{
		{"thickness eats the trophy", imaging.New(20, 20, red), 10},
		{"thickness larger than trophy", imaging.New(20, 200, red), 15},
		{"negative thickness", imaging.New(20, 20, red), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComposeImage(BlankFrame(), tt.trophy, tt.thickness)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindCompose))
		})
	}
}

func TestCompose_DecodesBytes(t *testing.T) {
	out, err := Compose(BlankFrame(), solidPNG(t, 300, 300, red), 15)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 240, 240), out.Bounds())
	assert.Equal(t, red, out.NRGBAAt(120, 120))
}

func TestCompose_InvalidBytes(t *testing.T) {
	_, err := Compose(BlankFrame(), []byte("not an image"), 15)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindCompose))
}

func TestComposeImage_NilFrameUsesBlank(t *testing.T) {
	out, err := ComposeImage(nil, imaging.New(500, 500, red), 15)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 240, 240), out.Bounds())
}

func TestLoadFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, os.WriteFile(path, solidPNG(t, 120, 100, blue), 0o644))

	frame := LoadFrame(path, zap.NewNop())
	assert.Equal(t, image.Rect(0, 0, 120, 100), frame.Bounds())
}

func TestLoadFrame_FallsBackToBlank(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	frame := LoadFrame(filepath.Join(t.TempDir(), "missing.png"), zap.New(core))
	assert.Equal(t, image.Rect(0, 0, 240, 240), frame.Bounds())

	r, g, b, _ := frame.At(10, 10).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
	assert.Equal(t, 1, logs.Len())
}
