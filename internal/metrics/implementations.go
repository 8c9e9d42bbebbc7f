package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"image-upscaler/internal/core"
)

// PSNR implements Peak Signal-to-Noise Ratio metric
type PSNR struct{}

// NewPSNR creates a new PSNR metric
func NewPSNR() *PSNR {
	return &PSNR{}
}

func (p *PSNR) Calculate(original, processed *core.Image) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	mse := meanSquaredError(grayscale(original), grayscale(processed))
	if mse == 0 {
		return 100.0, nil // identical images
	}

	return 10.0 * math.Log10(255.0*255.0/mse), nil
}

func (p *PSNR) GetName() string              { return "PSNR" }
func (p *PSNR) GetDescription() string       { return "Peak Signal-to-Noise Ratio" }
func (p *PSNR) GetRange() (float64, float64) { return 0, 100 }
func (p *PSNR) IsHigherBetter() bool         { return true }

// MSE implements Mean Squared Error metric
type MSE struct{}

// NewMSE creates a new MSE metric
func NewMSE() *MSE {
	return &MSE{}
}

func (m *MSE) Calculate(original, processed *core.Image) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}
	return meanSquaredError(grayscale(original), grayscale(processed)), nil
}

func (m *MSE) GetName() string              { return "MSE" }
func (m *MSE) GetDescription() string       { return "Mean Squared Error" }
func (m *MSE) GetRange() (float64, float64) { return 0, 65025 }
func (m *MSE) IsHigherBetter() bool         { return false }

// SSIM implements Structural Similarity Index metric, averaged over
// non-overlapping windows of the luma plane
type SSIM struct {
	window int
}

// NewSSIM creates a new SSIM metric with 8x8 windows
func NewSSIM() *SSIM {
	return &SSIM{window: 8}
}

func (s *SSIM) Calculate(original, processed *core.Image) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	const (
		c1 = 6.5025  // (0.01 * 255)^2
		c2 = 58.5225 // (0.03 * 255)^2
	)

	g1, g2 := grayscale(original), grayscale(processed)
	w, h := original.Width(), original.Height()

	var sum float64
	var windows int
	a := make([]float64, 0, s.window*s.window)
	b := make([]float64, 0, s.window*s.window)

	for y0 := 0; y0 < h; y0 += s.window {
		for x0 := 0; x0 < w; x0 += s.window {
			a, b = a[:0], b[:0]
			for y := y0; y < min(y0+s.window, h); y++ {
				for x := x0; x < min(x0+s.window, w); x++ {
					a = append(a, g1[y*w+x])
					b = append(b, g2[y*w+x])
				}
			}
			if len(a) < 2 {
				continue
			}

			mu1, mu2 := stat.Mean(a, nil), stat.Mean(b, nil)
			var1, var2 := stat.Variance(a, nil), stat.Variance(b, nil)
			cov := stat.Covariance(a, b, nil)

			sum += ((2*mu1*mu2 + c1) * (2*cov + c2)) /
				((mu1*mu1 + mu2*mu2 + c1) * (var1 + var2 + c2))
			windows++
		}
	}

	if windows == 0 {
		return 1.0, nil
	}
	return sum / float64(windows), nil
}

func (s *SSIM) GetName() string              { return "SSIM" }
func (s *SSIM) GetDescription() string       { return "Structural Similarity Index" }
func (s *SSIM) GetRange() (float64, float64) { return 0, 1 }
func (s *SSIM) IsHigherBetter() bool         { return true }

// Sharpness compares variance of the Laplacian between the two images
type Sharpness struct{}

// NewSharpness creates a new sharpness metric
func NewSharpness() *Sharpness {
	return &Sharpness{}
}

func (s *Sharpness) Calculate(original, processed *core.Image) (float64, error) {
	if err := core.ValidateImage(original); err != nil {
		return 0, err
	}
	if err := core.ValidateImage(processed); err != nil {
		return 0, err
	}

	origSharpness := LaplacianVariance(original)
	if origSharpness == 0 {
		return 1.0, nil
	}

	return LaplacianVariance(processed) / origSharpness, nil
}

func (s *Sharpness) GetName() string              { return "Sharpness" }
func (s *Sharpness) GetDescription() string       { return "Laplacian variance ratio (processed / original)" }
func (s *Sharpness) GetRange() (float64, float64) { return 0, 1 }
func (s *Sharpness) IsHigherBetter() bool         { return true }

// LaplacianVariance is the variance of the 4-neighbour Laplacian of the
// luma plane; higher means more edge energy.
func LaplacianVariance(img *core.Image) float64 {
	w, h := img.Width(), img.Height()
	if w < 3 || h < 3 {
		return 0
	}

	gray := grayscale(img)
	lap := make([]float64, 0, (w-2)*(h-2))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			lap = append(lap, gray[i-w]+gray[i+w]+gray[i-1]+gray[i+1]-4*gray[i])
		}
	}

	if len(lap) < 2 {
		return 0
	}
	return stat.Variance(lap, nil)
}

func checkPair(original, processed *core.Image) error {
	if err := core.ValidateImage(original); err != nil {
		return err
	}
	if err := core.ValidateImage(processed); err != nil {
		return err
	}
	if original.Width() != processed.Width() || original.Height() != processed.Height() {
		return fmt.Errorf("image dimensions mismatch: %dx%d vs %dx%d",
			original.Width(), original.Height(), processed.Width(), processed.Height())
	}
	return nil
}

// grayscale returns BT.601 luma for each pixel in row-major order.
func grayscale(img *core.Image) []float64 {
	w, h := img.Width(), img.Height()
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b, g, r := img.BGRAt(img.Rect.Min.X+x, img.Rect.Min.Y+y)
			out[y*w+x] = 0.114*float64(b) + 0.587*float64(g) + 0.299*float64(r)
		}
	}
	return out
}

func meanSquaredError(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum / float64(len(a))
}
