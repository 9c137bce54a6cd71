package api

import (
	"image"
	"vincit.fi/picture-triage/api/apitype"
)

// ImageLoader turns the raw bytes of a picture into a bitmap whose longer edge
// is maxEdge pixels. The result is always alpha-unmultiplied.
type ImageLoader interface {
	LoadThumbnail(imageFile *apitype.ImageFile, data []byte, maxEdge int) (*image.NRGBA, error)
}

// TextureLoader uploads a prepared bitmap to the renderer. It must only be
// called from the thread that owns the rendering context.
type TextureLoader interface {
	LoadTexture(name string, img *image.NRGBA) (apitype.Texture, error)
}
