//go:build cgo && !noopencv

package opencv

import (
	"fmt"
	"image"
	"os"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-upscaler/internal/core"
	"image-upscaler/internal/models"
	"image-upscaler/internal/upscale"
)

var _ upscale.Runtime = (*Runtime)(nil)

// Runtime loads TensorFlow .pb super-resolution graphs with gocv.ReadNet.
type Runtime struct {
	logger *logrus.Logger
}

// NewRuntime creates an OpenCV DNN runtime.
func NewRuntime(logger *logrus.Logger) *Runtime {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Runtime{logger: logger}
}

// Available reports the runtime is linked. OpenCV is present whenever this
// file is compiled.
func (rt *Runtime) Available() error {
	if gocv.OpenCVVersion() == "" {
		return fmt.Errorf("opencv version unknown: %w", upscale.ErrRuntimeUnavailable)
	}
	return nil
}

// Version returns the linked OpenCV version.
func (rt *Runtime) Version() string {
	return gocv.OpenCVVersion()
}

// Load reads the network at path and binds it to desc at scale.
func (rt *Runtime) Load(desc models.Descriptor, path string, scale int) (upscale.Model, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat weights: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("weights file %s is empty", path)
	}

	net := gocv.ReadNet(path, "")
	if net.Empty() {
		net.Close()
		return nil, fmt.Errorf("failed to read network: %s", path)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("setting backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("setting target: %w", err)
	}

	rt.logger.WithFields(logrus.Fields{
		"model": desc.DisplayName(),
		"scale": scale,
		"path":  path,
	}).Debug("Network loaded")

	return &Model{net: net, desc: desc, scale: scale}, nil
}

// Model is a loaded network. It is not safe for concurrent use; the
// resolver loads a fresh Model per call.
type Model struct {
	net   gocv.Net
	desc  models.Descriptor
	scale int
}

// Upsample runs the network with the pre- and post-processing OpenCV's
// dnn_superres module applies for the family.
func (m *Model) Upsample(img *core.Image) (*core.Image, error) {
	src, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var out gocv.Mat
	if runsOnLuma(m.desc) {
		out, err = m.upsampleLuma(src)
	} else {
		out, err = m.upsampleBGR(src)
	}
	if err != nil {
		return nil, err
	}
	defer out.Close()

	return fromMat(out)
}

func (m *Model) Close() error {
	return m.net.Close()
}

func (m *Model) forward(blob gocv.Mat, channels int) (gocv.Mat, error) {
	m.net.SetInput(blob, "")
	out := m.net.Forward("")
	if out.Empty() {
		out.Close()
		return gocv.NewMat(), fmt.Errorf("%s: forward pass produced no output", m.desc.DisplayName())
	}

	size := gocv.GetBlobSize(out)
	if int(size.Val2) < channels || size.Val3 <= 0 || size.Val4 <= 0 {
		out.Close()
		return gocv.NewMat(), fmt.Errorf("%s: unexpected output blob %vx%vx%vx%v",
			m.desc.DisplayName(), size.Val1, size.Val2, size.Val3, size.Val4)
	}
	return out, nil
}

// upsampleBGR feeds the mean-subtracted BGR image and adds the mean back.
func (m *Model) upsampleBGR(src gocv.Mat) (gocv.Mat, error) {
	f := gocv.NewMat()
	defer f.Close()
	if err := src.ConvertTo(&f, gocv.MatTypeCV32F); err != nil {
		return gocv.NewMat(), fmt.Errorf("converting input to float: %w", err)
	}

	mean := gocv.NewScalar(edsrMean[0], edsrMean[1], edsrMean[2], 0)
	blob := gocv.BlobFromImage(f, 1.0, image.Pt(f.Cols(), f.Rows()), mean, false, false)
	defer blob.Close()

	out, err := m.forward(blob, 3)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer out.Close()

	planes := []gocv.Mat{gocv.NewMat(), gocv.NewMat(), gocv.NewMat()}
	defer closeAll(planes)
	for c := range planes {
		ch := gocv.GetBlobChannel(out, 0, c)
		err := ch.ConvertToWithParams(&planes[c], gocv.MatTypeCV8U, 1, float32(edsrMean[c]))
		ch.Close()
		if err != nil {
			return gocv.NewMat(), fmt.Errorf("restoring channel %d: %w", c, err)
		}
	}

	return mergePlanes(planes)
}

// upsampleLuma runs the network on Y in [0,1] and resizes Cr/Cb cubically.
func (m *Model) upsampleLuma(src gocv.Mat) (gocv.Mat, error) {
	ycrcb := gocv.NewMat()
	defer ycrcb.Close()
	if err := gocv.CvtColor(src, &ycrcb, gocv.ColorBGRToYCrCb); err != nil {
		return gocv.NewMat(), err
	}

	planes := gocv.Split(ycrcb)
	defer closeAll(planes)

	luma := gocv.NewMat()
	defer luma.Close()
	if err := planes[0].ConvertToWithParams(&luma, gocv.MatTypeCV32F, 1.0/255.0, 0); err != nil {
		return gocv.NewMat(), fmt.Errorf("normalizing luma: %w", err)
	}

	blob := gocv.BlobFromImage(luma, 1.0, image.Pt(luma.Cols(), luma.Rows()), gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	out, err := m.forward(blob, 1)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer out.Close()

	yOut := gocv.GetBlobChannel(out, 0, 0)
	defer yOut.Close()

	upscaled := []gocv.Mat{gocv.NewMat(), gocv.NewMat(), gocv.NewMat()}
	defer closeAll(upscaled)
	if err := yOut.ConvertToWithParams(&upscaled[0], gocv.MatTypeCV8U, 255, 0); err != nil {
		return gocv.NewMat(), fmt.Errorf("restoring luma: %w", err)
	}

	size := image.Pt(upscaled[0].Cols(), upscaled[0].Rows())
	for i := 1; i < 3; i++ {
		if err := gocv.Resize(planes[i], &upscaled[i], size, 0, 0, gocv.InterpolationCubic); err != nil {
			return gocv.NewMat(), err
		}
	}

	merged, err := mergePlanes(upscaled)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer merged.Close()

	bgr := gocv.NewMat()
	if err := gocv.CvtColor(merged, &bgr, gocv.ColorYCrCbToBGR); err != nil {
		bgr.Close()
		return gocv.NewMat(), err
	}
	return bgr, nil
}

// mergePlanes interleaves single-channel planes into one Mat.
func mergePlanes(planes []gocv.Mat) (gocv.Mat, error) {
	merged := gocv.NewMat()
	if err := gocv.Merge(planes, &merged); err != nil {
		merged.Close()
		return gocv.NewMat(), fmt.Errorf("merging %d planes: %w", len(planes), err)
	}
	return merged, nil
}

func closeAll(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}
