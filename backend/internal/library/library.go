package library

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"vincit.fi/picture-triage/api"
	"vincit.fi/picture-triage/api/apitype"
	"vincit.fi/picture-triage/common/logger"
)

const supportedImagePattern = "*.{jpg,jpeg,png,gif,bmp,webp,svg}"

var supportedImages = glob.MustCompile(supportedImagePattern)

// ImageLibrary finds the supported pictures under a directory tree.
type ImageLibrary struct {
	excludes []glob.Glob
}

// NewImageLibrary compiles the exclude patterns. They are matched against the
// slash separated path relative to the root, e.g. "save/**".
func NewImageLibrary(excludePatterns []string) (*ImageLibrary, error) {
	var excludes []glob.Glob
	for _, pattern := range excludePatterns {
		compiled, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		excludes = append(excludes, compiled)
	}
	return &ImageLibrary{excludes: excludes}, nil
}

var _ api.ImageLibrary = (*ImageLibrary)(nil)

func IsSupported(fileName string) bool {
	return supportedImages.Match(strings.ToLower(fileName))
}

// LoadImageFiles walks root recursively. Entries that cannot be read are
// logged and skipped. The result is sorted by path.
func (s *ImageLibrary) LoadImageFiles(root string) []*apitype.ImageFile {
	var imageFiles []*apitype.ImageFile

	logger.Debug.Printf("Scanning directory '%s'", root)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn.Printf("Could not read '%s': %s", path, walkErr)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if path != root && s.isExcluded(root, path) {
			logger.Trace.Printf("Excluded '%s'", path)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !IsSupported(d.Name()) {
			return nil
		}

		logger.Trace.Printf("Found: %s", path)
		imageFiles = append(imageFiles, apitype.NewImageFile(filepath.Dir(path), d.Name()))
		return nil
	})
	if err != nil {
		logger.Warn.Printf("Scanning '%s' stopped: %s", root, err)
	}

	sort.Slice(imageFiles, func(i, j int) bool {
		return imageFiles[i].Path() < imageFiles[j].Path()
	})
	logger.Debug.Printf("Found %d images", len(imageFiles))
	return imageFiles
}

func (s *ImageLibrary) isExcluded(root string, path string) bool {
	if len(s.excludes) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, exclude := range s.excludes {
		if exclude.Match(rel) {
			return true
		}
	}
	return false
}
