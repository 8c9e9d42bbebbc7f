// Package opencv runs super-resolution networks through OpenCV's DNN module.
//
// The package compiles in two forms. With cgo (the default) it links OpenCV
// via gocv.io/x/gocv. Built with CGO_ENABLED=0 or the noopencv tag it
// compiles a stub whose Available reports upscale.ErrRuntimeUnavailable,
// which makes the resolver fall back to pure-Go interpolation.
package opencv

import (
	"image-upscaler/internal/algorithms"
	"image-upscaler/internal/models"
)

// Names of the OpenCV-backed interpolators.
const (
	InterpolatorName         = "opencv-cubic"
	Lanczos4InterpolatorName = "opencv-lanczos4"
)

// edsrMean is the per-channel (B, G, R) mean EDSR networks were trained with.
var edsrMean = [3]float64{103.1545782, 111.561547, 114.35629928}

// runsOnLuma reports whether the family upsamples only the Y plane of a
// YCrCb image; chroma is interpolated. EDSR runs on all three BGR channels.
func runsOnLuma(desc models.Descriptor) bool {
	return desc.Name != "edsr"
}

// The OpenCV resizers join the interpolator registry so they can be chosen
// by name like the pure-Go kernels.
func init() {
	algorithms.Register(InterpolatorName, Interpolator())
	algorithms.Register(Lanczos4InterpolatorName, Lanczos4Interpolator())
}
