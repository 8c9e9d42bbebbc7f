// Image loading and saving at the boundary of the upscaling core
package io

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"image-upscaler/internal/core"
)

// JPEGQuality is used when saving .jpg/.jpeg files.
const JPEGQuality = 95

var (
	readableFormats = []string{".jpg", ".jpeg", ".png", ".gif", ".tiff", ".tif", ".bmp", ".webp"}
	writableFormats = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}
)

// ImageLoader handles image file operations. Decoded images are converted
// to the core's BGR buffer and back on save.
type ImageLoader struct {
	logger *logrus.Logger
}

func NewImageLoader(logger *logrus.Logger) *ImageLoader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ImageLoader{
		logger: logger,
	}
}

func (il *ImageLoader) LoadImage(path string) (*core.Image, error) {
	il.logger.WithField("filepath", path).Debug("Loading image")

	if !IsReadable(path) {
		return nil, fmt.Errorf("unsupported image format: %s (supported: %s)",
			path, strings.Join(il.GetSupportedFormats(), ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	decoded, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	img := core.FromImage(decoded)
	if err := core.ValidateImage(img); err != nil {
		return nil, fmt.Errorf("invalid image %s: %w", path, err)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"format":   format,
		"width":    img.Width(),
		"height":   img.Height(),
	}).Info("Image loaded successfully")

	return img, nil
}

func (il *ImageLoader) SaveImage(img *core.Image, path string) error {
	il.logger.WithField("filepath", path).Debug("Saving image")

	if err := core.ValidateImage(img); err != nil {
		return fmt.Errorf("cannot save image: %w", err)
	}

	if !IsWritable(path) {
		return fmt.Errorf("unsupported image format: %s (writable: %s)",
			path, strings.Join(writableFormats, ", "))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := encode(f, img, extension(path)); err != nil {
		f.Close()
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    img.Width(),
		"height":   img.Height(),
	}).Info("Image saved successfully")

	return nil
}

func encode(f *os.File, img *core.Image, ext string) error {
	rgba := img.ToRGBA()
	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, rgba, &jpeg.Options{Quality: JPEGQuality})
	case ".png":
		return png.Encode(f, rgba)
	case ".tif", ".tiff":
		return tiff.Encode(f, rgba, &tiff.Options{Compression: tiff.Deflate})
	case ".bmp":
		return bmp.Encode(f, rgba)
	default:
		return fmt.Errorf("no encoder for %s", ext)
	}
}

// IsReadable reports whether path has a decodable image extension.
func IsReadable(path string) bool {
	return slices.Contains(readableFormats, extension(path))
}

// IsWritable reports whether path has an encodable image extension.
func IsWritable(path string) bool {
	return slices.Contains(writableFormats, extension(path))
}

// GetSupportedFormats names the formats LoadImage can decode.
func (il *ImageLoader) GetSupportedFormats() []string {
	return []string{"JPEG", "PNG", "GIF", "TIFF", "BMP", "WEBP"}
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
