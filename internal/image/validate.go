package image

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"sort"
	"strings"

	// register decoders for the formats in the default allow-list
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/juanpablosotoc/zartex/internal/types"
)

// Decoded is the result of a successful validation: the raster image plus
// what we learned about its encoding on the way in.
type Decoded struct {
	Image  image.Image
	Format string // "jpeg", "png", "gif", ... as reported by the decoder
	Ext    string // lowercased extension taken from the original filename
}

// Validator rejects malformed or oversized uploads before any rendition
// work or network call happens. Validate is pure: no I/O of any kind.
type Validator struct {
	maxFileSize  int64
	maxDimension int
	allowedExts  map[string]bool
}

func NewValidator(maxFileSize int64, maxDimension int, allowedExts []string) *Validator {
	exts := make(map[string]bool, len(allowedExts))
	for _, e := range allowedExts {
		exts[strings.ToLower(e)] = true
	}
	return &Validator{
		maxFileSize:  maxFileSize,
		maxDimension: maxDimension,
		allowedExts:  exts,
	}
}

// Validate checks buf against the size, extension, media-type, decodability
// and dimension rules, in that order. The first failing rule wins.
func (v *Validator) Validate(buf []byte, contentType, filename string) (*Decoded, error) {
	if int64(len(buf)) > v.maxFileSize {
		return nil, types.ValidationError("size_exceeded",
			fmt.Sprintf("File size exceeds maximum allowed size of %dMB", v.maxFileSize/1024/1024))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !v.allowedExts[ext] {
		return nil, types.ValidationError("extension_not_allowed",
			fmt.Sprintf("File extension not allowed. Allowed extensions: %s", strings.Join(v.sortedExts(), ", ")))
	}

	if !strings.HasPrefix(contentType, "image/") {
		return nil, types.ValidationError("not_an_image", "File must be an image")
	}

	img, format, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, types.ValidationError("unreadable_image", "Invalid image file")
	}

	bounds := img.Bounds()
	if max(bounds.Dx(), bounds.Dy()) > v.maxDimension {
		return nil, types.ValidationError("dimension_exceeded",
			fmt.Sprintf("Image dimensions exceed maximum allowed size of %dx%d pixels", v.maxDimension, v.maxDimension))
	}

	return &Decoded{Image: img, Format: format, Ext: ext}, nil
}

// sortedExts keeps the error message text stable regardless of map order.
func (v *Validator) sortedExts() []string {
	exts := make([]string, 0, len(v.allowedExts))
	for e := range v.allowedExts {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}
