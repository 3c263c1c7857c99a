package image

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"

	"github.com/juanpablosotoc/zartex/internal/types"
)

// Render produces the encoded bytes of one rendition: img scaled down to
// fit within maxWidth x maxHeight with its aspect ratio preserved. An image
// that already fits is re-encoded at its original dimensions, never
// upscaled. The output format follows the source format when we can encode
// it, falling back to JPEG otherwise.
func Render(d *Decoded, maxWidth, maxHeight int) ([]byte, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, types.ValidationError("invalid_bound", "Rendition dimensions must be positive")
	}

	resized := fit(d.Image, maxWidth, maxHeight)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, encodeFormat(d.Format)); err != nil {
		return nil, types.ValidationError("unreadable_image", "Invalid image file")
	}
	return buf.Bytes(), nil
}

func fit(img image.Image, maxWidth, maxHeight int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth && b.Dy() <= maxHeight {
		return img
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}

func encodeFormat(format string) imaging.Format {
	switch format {
	case "png":
		return imaging.PNG
	case "gif":
		return imaging.GIF
	case "bmp":
		return imaging.BMP
	case "tiff":
		return imaging.TIFF
	default:
		return imaging.JPEG
	}
}
