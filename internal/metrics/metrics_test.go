package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-upscaler/internal/core"
	"image-upscaler/internal/upscale"
)

func checkerboard(w, h, cell int) *core.Image {
	img := core.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if (x/cell+y/cell)%2 == 0 {
				v = 255
			}
			img.SetBGR(x, y, v, v, v)
		}
	}
	return img
}

func flat(w, h int, v uint8) *core.Image {
	img := core.NewImage(w, h)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestPSNR(t *testing.T) {
	p := NewPSNR()

	v, err := p.Calculate(flat(8, 8, 100), flat(8, 8, 100))
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	// MSE of 100 -> 10*log10(65025/100)
	v, err = p.Calculate(flat(8, 8, 100), flat(8, 8, 110))
	require.NoError(t, err)
	assert.InDelta(t, 28.13, v, 0.01)

	_, err = p.Calculate(flat(8, 8, 0), flat(4, 4, 0))
	assert.Error(t, err)
}

func TestMSE(t *testing.T) {
	v, err := NewMSE().Calculate(flat(4, 4, 10), flat(4, 4, 13))
	require.NoError(t, err)
	assert.InDelta(t, 9.0, v, 1e-9)
}

func TestSSIM(t *testing.T) {
	s := NewSSIM()
	board := checkerboard(32, 32, 4)

	v, err := s.Calculate(board, board.Clone())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-9)

	v, err = s.Calculate(board, flat(32, 32, 128))
	require.NoError(t, err)
	assert.Less(t, v, 0.5)
}

func TestSharpness(t *testing.T) {
	board := checkerboard(16, 16, 2)

	assert.Greater(t, LaplacianVariance(board), 0.0)
	assert.Equal(t, 0.0, LaplacianVariance(flat(16, 16, 50)))
	assert.Equal(t, 0.0, LaplacianVariance(flat(2, 2, 50)))

	v, err := NewSharpness().Calculate(board, flat(16, 16, 50))
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = NewSharpness().Calculate(flat(16, 16, 50), board)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v, "flat original has nothing to compare against")
}

func TestEvaluatorReport(t *testing.T) {
	e := NewEvaluator()
	assert.Equal(t, []string{"mse", "psnr", "sharpness", "ssim"}, e.Names())

	board := checkerboard(32, 32, 4)
	report := e.GenerateReport(board, board.Clone())
	assert.Equal(t, "excellent", report.Analysis.QualityLevel)
	assert.Empty(t, report.Analysis.Issues)
	assert.InDelta(t, 100.0, report.Metrics["psnr"], 1e-9)

	report = e.GenerateReport(board, flat(32, 32, 128))
	assert.Equal(t, "poor", report.Analysis.QualityLevel)
	assert.NotEmpty(t, report.Analysis.Issues)
	assert.Len(t, report.Analysis.Suggestions, len(report.Analysis.Issues))

	_, err := e.Calculate("f_measure", board, board)
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	r.Observe(upscale.Outcome{Method: upscale.MethodModel, Model: "EDSR", Duration: 20 * time.Millisecond})
	r.Observe(upscale.Outcome{Method: upscale.MethodModel, Model: "EDSR", Duration: 30 * time.Millisecond})
	r.Observe(upscale.Outcome{Method: upscale.MethodNoModel, Duration: time.Millisecond})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.resolutions.WithLabelValues("model", "EDSR")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.resolutions.WithLabelValues("no_model", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fallbacks.WithLabelValues("no_model")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.resolutions))

	path := filepath.Join(t.TempDir(), "upscaler.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "upscaler_resolutions_total")
	assert.Contains(t, string(data), `method="no_model"`)
}
