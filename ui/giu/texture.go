package gui

import (
	"image"
	"sync"
	"time"

	"github.com/AllenDang/giu"
	"vincit.fi/picture-triage/api"
	"vincit.fi/picture-triage/api/apitype"
	"vincit.fi/picture-triage/common/logger"
)

// texturedImage is a picture whose GPU texture is uploaded asynchronously.
// Until the upload finishes Texture returns nil.
type texturedImage struct {
	name string
	size apitype.Size

	mux     sync.Mutex
	texture *giu.Texture
	err     error
}

func (s *texturedImage) Name() string {
	return s.name
}

func (s *texturedImage) Size() apitype.Size {
	return s.size
}

func (s *texturedImage) Texture() *giu.Texture {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.texture
}

// Err is set when the upload failed.
func (s *texturedImage) Err() error {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.err
}

func (s *texturedImage) IsLoading() bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.texture == nil && s.err == nil
}

func (s *texturedImage) setLoaded(texture *giu.Texture) {
	s.mux.Lock()
	s.texture = texture
	s.mux.Unlock()
}

func (s *texturedImage) setFailed(err error) {
	s.mux.Lock()
	s.err = err
	s.mux.Unlock()
}

// TextureLoader uploads prepared pictures to giu.
type TextureLoader struct{}

var _ api.TextureLoader = TextureLoader{}

func (s TextureLoader) LoadTexture(name string, img *image.NRGBA) (apitype.Texture, error) {
	textured := &texturedImage{
		name: name,
		size: apitype.SizeOfRectangle(img.Bounds()),
	}
	rgba := ConvertNrgbaToRgba(img)
	// Blocks until the render thread has uploaded the texture
	go func() {
		texture, err := giu.NewTextureFromRgba(rgba)
		if err != nil {
			logger.Error.Printf("Could not upload texture '%s': %s", name, err)
			textured.setFailed(err)
		} else {
			textured.setLoaded(texture)
		}
		giu.Update()
	}()
	return textured, nil
}

// ConvertNrgbaToRgba premultiplies the colour channels with alpha.
func ConvertNrgbaToRgba(n *image.NRGBA) *image.RGBA {
	start := time.Now()

	rgba := image.NewRGBA(image.Rect(0, 0, n.Rect.Dx(), n.Rect.Dy()))
	for y := 0; y < n.Rect.Dy(); y++ {
		nrgbaRow := n.Pix[y*n.Stride : y*n.Stride+n.Rect.Dx()*4]
		rgbaRow := rgba.Pix[y*rgba.Stride : y*rgba.Stride+rgba.Rect.Dx()*4]
		for x := 0; x < len(nrgbaRow); x += 4 {
			pixel := nrgbaRow[x : x+4 : x+4]
			target := rgbaRow[x : x+4 : x+4]
			alpha := uint32(pixel[3])
			if alpha == 0xFF {
				copy(target, pixel)
				continue
			}
			target[0] = uint8(uint32(pixel[0]) * alpha / 0xFF)
			target[1] = uint8(uint32(pixel[1]) * alpha / 0xFF)
			target[2] = uint8(uint32(pixel[2]) * alpha / 0xFF)
			target[3] = pixel[3]
		}
	}

	if logger.IsLogLevel(logger.TRACE) {
		logger.Trace.Printf("Converting from NRGBA to RGBA: %s", time.Since(start))
	}
	return rgba
}
