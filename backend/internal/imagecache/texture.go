package imagecache

import (
	"image"

	"vincit.fi/picture-triage/api"
	"vincit.fi/picture-triage/api/apitype"
)

// MemoryTexture keeps the prepared bitmap in memory. Used when there is no
// renderer, e.g. by the headless commands.
type MemoryTexture struct {
	name  string
	image *image.NRGBA
}

func (s *MemoryTexture) Name() string {
	return s.name
}

func (s *MemoryTexture) Size() apitype.Size {
	return apitype.SizeOfRectangle(s.image.Bounds())
}

func (s *MemoryTexture) Image() *image.NRGBA {
	return s.image
}

type MemoryTextureLoader struct{}

var _ api.TextureLoader = MemoryTextureLoader{}

func (s MemoryTextureLoader) LoadTexture(name string, img *image.NRGBA) (apitype.Texture, error) {
	return &MemoryTexture{name: name, image: img}, nil
}
