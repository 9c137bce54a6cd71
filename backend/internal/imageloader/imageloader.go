package imageloader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pixiv/go-libjpeg/jpeg"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/webp"
	"vincit.fi/picture-triage/api"
	"vincit.fi/picture-triage/api/apitype"
	"vincit.fi/picture-triage/common/logger"
)

const (
	FilterLinear  = "linear"
	FilterNearest = "nearest"
	FilterLanczos = "lanczos"
	FilterNfnt    = "nfnt"
)

var (
	ErrUnknownFilter = errors.New("unknown resize filter")
	ErrEmptyImage    = errors.New("image has no pixels")
	ErrInvalidSize   = errors.New("thumbnail size must be positive")
)

type resizeFunc func(img image.Image, size apitype.Size) *image.NRGBA

func imagingResize(filter imaging.ResampleFilter) resizeFunc {
	return func(img image.Image, size apitype.Size) *image.NRGBA {
		return imaging.Resize(img, size.Width(), size.Height(), filter)
	}
}

func nfntResize(img image.Image, size apitype.Size) *image.NRGBA {
	return imaging.Clone(resize.Resize(uint(size.Width()), uint(size.Height()), img, resize.Bilinear))
}

var resizeFilters = map[string]resizeFunc{
	FilterLinear:  imagingResize(imaging.Linear),
	FilterNearest: imagingResize(imaging.NearestNeighbor),
	FilterLanczos: imagingResize(imaging.Lanczos),
	FilterNfnt:    nfntResize,
}

// Loader decodes pictures and scales them so that the longer edge matches the
// requested size. JPEGs are decoded with libjpeg which can scale during the
// DCT, SVGs are rasterised directly at the target size.
type Loader struct {
	filterName string
	resize     resizeFunc
}

var _ api.ImageLoader = (*Loader)(nil)

func NewImageLoader(filterName string) (*Loader, error) {
	logger.Debug.Printf("Initializing image loader...")
	name := strings.ToLower(filterName)
	if name == "" {
		name = FilterLinear
	}
	resizer, ok := resizeFilters[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownFilter, filterName)
	}
	logger.Debug.Printf("Image loader initialized with filter '%s'", name)
	return &Loader{
		filterName: name,
		resize:     resizer,
	}, nil
}

func (s *Loader) FilterName() string {
	return s.filterName
}

func (s *Loader) LoadThumbnail(imageFile *apitype.ImageFile, data []byte, maxEdge int) (*image.NRGBA, error) {
	if maxEdge <= 0 {
		return nil, ErrInvalidSize
	}
	startTime := time.Now()
	var result *image.NRGBA
	var err error

	switch strings.ToLower(imageFile.Extension()) {
	case ".svg":
		result, err = rasterizeSvg(data, maxEdge)
	case ".jpg", ".jpeg":
		result, err = s.loadJpeg(data, maxEdge)
	default:
		result, err = s.loadRaster(data, maxEdge)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", imageFile.Path(), err)
	}

	if logger.IsLogLevel(logger.TRACE) {
		logger.Trace.Printf("%s: thumbnail %dx%d loaded in %s", imageFile.FileName(),
			result.Rect.Dx(), result.Rect.Dy(), time.Since(startTime))
	}
	return result, nil
}

func (s *Loader) loadJpeg(data []byte, maxEdge int) (*image.NRGBA, error) {
	options := &jpeg.DecoderOptions{ScaleTarget: image.Rect(0, 0, maxEdge, maxEdge)}
	decoded, err := jpeg.Decode(bytes.NewReader(data), options)
	if err != nil {
		logger.Debug.Printf("libjpeg could not decode, trying the standard decoder: %s", err)
		return s.loadRaster(data, maxEdge)
	}
	return s.scale(applyOrientation(decoded, readOrientation(data)), maxEdge)
}

func (s *Loader) loadRaster(data []byte, maxEdge int) (*image.NRGBA, error) {
	decoded, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.scale(decoded, maxEdge)
}

func (s *Loader) scale(img image.Image, maxEdge int) (*image.NRGBA, error) {
	source := apitype.SizeOfRectangle(img.Bounds())
	if source.IsZero() {
		return nil, ErrEmptyImage
	}
	target := apitype.ScaleLongerEdgeTo(source, maxEdge)
	if target == source {
		return imaging.Clone(img), nil
	}
	return s.resize(img, target), nil
}

func rasterizeSvg(data []byte, maxEdge int) (*image.NRGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	source := apitype.SizeOf(int(icon.ViewBox.W), int(icon.ViewBox.H))
	if source.IsZero() {
		return nil, ErrEmptyImage
	}
	target := apitype.ScaleLongerEdgeTo(source, maxEdge)
	w, h := target.Width(), target.Height()

	icon.SetTarget(0, 0, float64(w), float64(h))
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, canvas, canvas.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	return imaging.Clone(canvas), nil
}
