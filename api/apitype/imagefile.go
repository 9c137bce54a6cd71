package apitype

import (
	"path/filepath"
)

// ImageFile identifies one picture on disk. The joined path is the key used
// everywhere; two ImageFiles are the same picture iff their paths are equal.
type ImageFile struct {
	directory string
	filename  string
	path      string
}

var EmptyImageFile = ImageFile{}

func NewImageFile(fileDir string, fileName string) *ImageFile {
	return &ImageFile{
		directory: fileDir,
		filename:  fileName,
		path:      filepath.Join(fileDir, fileName),
	}
}

func NewImageFileFromPath(path string) *ImageFile {
	dir, file := filepath.Split(path)
	return &ImageFile{
		directory: filepath.Clean(dir),
		filename:  file,
		path:      path,
	}
}

func (s *ImageFile) IsValid() bool {
	return s != nil && s.path != ""
}

func (s *ImageFile) String() string {
	if s != nil {
		if s.IsValid() {
			return "ImageFile{" + s.path + "}"
		} else {
			return "ImageFile<invalid>"
		}
	} else {
		return "ImageFile<nil>"
	}
}

func (s *ImageFile) Path() string {
	if s != nil {
		return s.path
	} else {
		return ""
	}
}

func (s *ImageFile) Directory() string {
	if s != nil {
		return s.directory
	} else {
		return ""
	}
}

func (s *ImageFile) FileName() string {
	if s != nil {
		return s.filename
	} else {
		return ""
	}
}

// Extension returns the file extension including the dot, as found on disk.
func (s *ImageFile) Extension() string {
	return filepath.Ext(s.FileName())
}
