package imageloader

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	"vincit.fi/picture-triage/common/logger"
)

const (
	noRotate  = 0
	left90    = 90
	rotate180 = 180
	right90   = 270

	noHorizontalFlip = false
	horizontalFlip   = true
)

// readOrientation returns the EXIF orientation tag or 1 when the data has
// none.
func readOrientation(data []byte) int {
	decodedExif, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Trace.Printf("No EXIF data: %s", err)
		return 1
	}
	tag, err := decodedExif.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		logger.Warn.Printf("Could not resolve orientation: %s", err)
		return 1
	}
	return orientation
}

// orientationToAngleAndFlip maps an EXIF orientation to a counter clockwise
// angle and a horizontal flip applied after the rotation.
func orientationToAngleAndFlip(orientation int) (float64, bool) {
	switch orientation {
	case 2:
		return noRotate, horizontalFlip
	case 3:
		return rotate180, noHorizontalFlip
	case 4:
		return rotate180, horizontalFlip
	case 5:
		return right90, horizontalFlip
	case 6:
		return right90, noHorizontalFlip
	case 7:
		return left90, horizontalFlip
	case 8:
		return left90, noHorizontalFlip
	default:
		return noRotate, noHorizontalFlip
	}
}

func applyOrientation(img image.Image, orientation int) image.Image {
	rotation, flipped := orientationToAngleAndFlip(orientation)
	if rotation == noRotate && !flipped {
		return img
	}
	var rotated *image.NRGBA
	if rotation != noRotate {
		rotated = imaging.Rotate(img, rotation, color.Black)
	} else {
		rotated = imaging.Clone(img)
	}
	if flipped {
		return imaging.FlipH(rotated)
	}
	return rotated
}
