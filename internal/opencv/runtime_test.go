//go:build cgo && !noopencv

package opencv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"image-upscaler/internal/algorithms"
	"image-upscaler/internal/core"
	"image-upscaler/internal/models"
)

func testLogger() *logrus.Logger {
	logger, _ := logtest.NewNullLogger()
	return logger
}

func TestMatRoundTripKeepsBGR(t *testing.T) {
	img := core.NewImage(3, 2)
	img.SetBGR(0, 0, 255, 0, 0)
	img.SetBGR(2, 1, 1, 2, 3)

	mat, err := toMat(img)
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, 3, mat.Cols())
	assert.Equal(t, 2, mat.Rows())
	assert.Equal(t, 3, mat.Channels())

	// Vecb returns channels in Mat order, which is BGR.
	px := mat.GetVecbAt(0, 0)
	assert.Equal(t, uint8(255), px[0])

	back, err := fromMat(mat)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, back.Pix)
}

func TestResizer(t *testing.T) {
	img := core.NewImage(10, 5)
	out, err := Interpolator().Resize(img, 30, 15)
	require.NoError(t, err)
	assert.Equal(t, 30, out.Width())
	assert.Equal(t, 15, out.Height())

	_, err = Interpolator().Resize(img, 0, 15)
	assert.Error(t, err)
}

func TestInterpolatorsRegistered(t *testing.T) {
	for _, name := range []string{InterpolatorName, Lanczos4InterpolatorName} {
		interp, ok := algorithms.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, name, interp.Name())
	}
}

func TestLanczos4StepsDown(t *testing.T) {
	img := core.NewImage(400, 300)
	interp := Lanczos4Interpolator()
	assert.Equal(t, Lanczos4InterpolatorName, interp.Name())

	out, err := interp.Resize(img, 20, 15)
	require.NoError(t, err)
	assert.Equal(t, 20, out.Width())
	assert.Equal(t, 15, out.Height())

	out, err = interp.Resize(img, 800, 600)
	require.NoError(t, err)
	assert.Equal(t, 800, out.Width())
}

func TestMergePlanes(t *testing.T) {
	planes := []gocv.Mat{
		gocv.NewMatWithSize(4, 6, gocv.MatTypeCV8U),
		gocv.NewMatWithSize(4, 6, gocv.MatTypeCV8U),
		gocv.NewMatWithSize(4, 6, gocv.MatTypeCV8U),
	}
	defer closeAll(planes)

	merged, err := mergePlanes(planes)
	require.NoError(t, err)
	defer merged.Close()
	assert.Equal(t, gocv.MatTypeCV8UC3, merged.Type())

	mismatched := []gocv.Mat{
		gocv.NewMatWithSize(4, 6, gocv.MatTypeCV8U),
		gocv.NewMatWithSize(2, 3, gocv.MatTypeCV8U),
	}
	defer closeAll(mismatched)

	_, err = mergePlanes(mismatched)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merging 2 planes")
}

func TestRuntimeAvailable(t *testing.T) {
	rt := NewRuntime(testLogger())
	assert.NoError(t, rt.Available())
	assert.NotEmpty(t, rt.Version())
}

func TestLoadRejectsMissingAndEmptyWeights(t *testing.T) {
	rt := NewRuntime(testLogger())
	edsr, err := models.Default().Lookup("edsr")
	require.NoError(t, err)

	dir := t.TempDir()
	_, err = rt.Load(edsr, filepath.Join(dir, "EDSR_x4.pb"), 4)
	assert.Error(t, err)

	empty := filepath.Join(dir, "EDSR_x2.pb")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = rt.Load(edsr, empty, 2)
	assert.Error(t, err)
}
