package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"github.com/youruser/bithunter/internal/apperr"
)

const blankFrameSize = 240

// BlankFrame is the white canvas used when no frame image is available.
func BlankFrame() *image.NRGBA {
	return imaging.New(blankFrameSize, blankFrameSize, color.White)
}

// LoadFrame opens the frame image at path, falling back to BlankFrame.
func LoadFrame(path string, logger *zap.Logger) image.Image {
	frame, err := imaging.Open(path)
	if err != nil {
		logger.Warn("Could not find frame image. Using default one.",
			zap.String("path", path),
			zap.Error(err))
		return BlankFrame()
	}
	return frame
}

// Decode reads PNG, JPEG, GIF, BMP, TIFF and WebP data.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Compose("could not decode trophy image", err)
	}
	return img, nil
}

// Compose decodes the trophy bytes and frames them, see ComposeImage.
func Compose(frame image.Image, trophy []byte, thickness int) (*image.NRGBA, error) {
	img, err := Decode(trophy)
	if err != nil {
		return nil, err
	}
	return ComposeImage(frame, img, thickness)
}

// ComposeImage draws frame on a white canvas of the frame's size and pastes
// the trophy, shrunk to the inner area, at (thickness, thickness). Each axis
// is clamped to the frame independently:
//
//	insetW = min(trophyW, frameW) - 2*thickness
//	insetH = min(trophyH, frameH) - 2*thickness
func ComposeImage(frame, trophy image.Image, thickness int) (*image.NRGBA, error) {
	if thickness < 0 {
		return nil, apperr.Compose(fmt.Sprintf("frame thickness must be >= 0, got %d", thickness), nil)
	}
	if frame == nil {
		frame = BlankFrame()
	}

	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
	tw, th := trophy.Bounds().Dx(), trophy.Bounds().Dy()
	insetW := min(tw, fw) - 2*thickness
	insetH := min(th, fh) - 2*thickness
	if insetW <= 0 || insetH <= 0 {
		return nil, apperr.Compose(fmt.Sprintf(
			"frame thickness %d leaves no room for a %dx%d trophy in a %dx%d frame (inset %dx%d)",
			thickness, tw, th, fw, fh, insetW, insetH), nil)
	}

	canvas := imaging.New(fw, fh, color.White)
	canvas = imaging.Overlay(canvas, frame, image.Pt(0, 0), 1.0)

	resized := imaging.Resize(trophy, insetW, insetH, imaging.Lanczos)
	canvas = imaging.Overlay(canvas, resized, image.Pt(thickness, thickness), 1.0)

	return canvas, nil
}
