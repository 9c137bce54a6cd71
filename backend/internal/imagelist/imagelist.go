// Package imagelist holds one classification bucket: an ordered list of
// pictures that is only ever added to and taken from the front.
package imagelist

import (
	"errors"
	"iter"
	"vincit.fi/picture-triage/api/apitype"
)

var ErrEmptyCollection = errors.New("empty collection")

// ImageList keeps its front at the end of the slice so that both Add and Next
// are O(1).
type ImageList struct {
	images []*apitype.ImageFile
}

func New() *ImageList {
	return &ImageList{}
}

func FromImageFiles(imageFiles []*apitype.ImageFile) *ImageList {
	list := &ImageList{images: make([]*apitype.ImageFile, 0, len(imageFiles))}
	for _, imageFile := range imageFiles {
		list.Add(imageFile)
	}
	return list
}

func (s *ImageList) Size() int {
	return len(s.images)
}

func (s *ImageList) Add(imageFile *apitype.ImageFile) {
	s.images = append(s.images, imageFile)
}

func (s *ImageList) Next() (*apitype.ImageFile, error) {
	last := len(s.images) - 1
	if last < 0 {
		return nil, ErrEmptyCollection
	}
	imageFile := s.images[last]
	s.images[last] = nil
	s.images = s.images[:last]
	return imageFile, nil
}

func (s *ImageList) Peek() (*apitype.ImageFile, error) {
	if len(s.images) == 0 {
		return nil, ErrEmptyCollection
	}
	return s.images[len(s.images)-1], nil
}

// TransferFrom moves the front of other to the front of s. If other is empty
// neither list changes.
func (s *ImageList) TransferFrom(other *ImageList) error {
	imageFile, err := other.Next()
	if err != nil {
		return err
	}
	s.Add(imageFile)
	return nil
}

// All walks the list from front to back. The list must not be modified while
// iterating.
func (s *ImageList) All() iter.Seq[*apitype.ImageFile] {
	return func(yield func(*apitype.ImageFile) bool) {
		for i := len(s.images) - 1; i >= 0; i-- {
			if !yield(s.images[i]) {
				return
			}
		}
	}
}
