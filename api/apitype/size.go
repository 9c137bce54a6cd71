package apitype

import (
	"fmt"
	"image"
)

type Size struct {
	width  int
	height int
}

func (s Size) Height() int {
	return s.height
}

func (s Size) Width() int {
	return s.width
}

func (s Size) IsZero() bool {
	return s.width <= 0 || s.height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.width, s.height)
}

func SizeOf(width int, height int) Size {
	return Size{width, height}
}

func SizeOfRectangle(rectangle image.Rectangle) Size {
	return Size{
		width:  rectangle.Dx(),
		height: rectangle.Dy(),
	}
}

// ScaleLongerEdgeTo keeps the aspect ratio of source and makes its longer edge maxEdge long.
func ScaleLongerEdgeTo(source Size, maxEdge int) Size {
	if source.IsZero() || maxEdge <= 0 {
		return Size{}
	}
	if source.width >= source.height {
		return SizeOf(maxEdge, scaleEdge(source.height, maxEdge, source.width))
	}
	return SizeOf(scaleEdge(source.width, maxEdge, source.height), maxEdge)
}

func scaleEdge(edge int, numerator int, denominator int) int {
	return max((edge*numerator+denominator/2)/denominator, 1)
}
