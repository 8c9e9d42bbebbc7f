package algorithms

import (
	"fmt"

	"github.com/nfnt/resize"

	"image-upscaler/internal/core"
)

// Thumbnail fits src inside maxWidth x maxHeight preserving aspect ratio.
// Images already within the bounds are copied unchanged; it never upscales.
func Thumbnail(src *core.Image, maxWidth, maxHeight int) (*core.Image, error) {
	if err := core.ValidateImage(src); err != nil {
		return nil, err
	}
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("thumbnail bounds %dx%d: %w", maxWidth, maxHeight, ErrInvalidSize)
	}

	if src.Width() <= maxWidth && src.Height() <= maxHeight {
		return src.Clone(), nil
	}

	out := resize.Thumbnail(uint(maxWidth), uint(maxHeight), src.ToRGBA(), resize.Lanczos3)
	return core.FromImage(out), nil
}
