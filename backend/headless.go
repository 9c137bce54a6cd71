package backend

import (
	"context"
	"iter"
	"slices"

	"vincit.fi/picture-triage/api"
	"vincit.fi/picture-triage/api/apitype"
	"vincit.fi/picture-triage/backend/internal/imagecache"
	"vincit.fi/picture-triage/backend/internal/library"
	"vincit.fi/picture-triage/common"
	"vincit.fi/picture-triage/common/event"
	"vincit.fi/picture-triage/common/logger"
)

type PreparedImage struct {
	ImageFile *apitype.ImageFile
	Status    apitype.LoadStatus
	Size      apitype.Size
	Err       error
}

type imageFiles []*apitype.ImageFile

func (s imageFiles) All() iter.Seq[*apitype.ImageFile] {
	return slices.Values(s)
}

// ScanDirectory lists the pictures under root the same way a search does.
func ScanDirectory(params *common.Params, root string) ([]*apitype.ImageFile, error) {
	imageLibrary, err := library.NewImageLibrary(params.Excludes())
	if err != nil {
		return nil, err
	}
	return imageLibrary.LoadImageFiles(root), nil
}

// PrepareDirectory runs the image cache over every picture under root without
// a renderer and reports the outcome of each picture.
func PrepareDirectory(ctx context.Context, params *common.Params, root string, progressReporter api.ProgressReporter) ([]PreparedImage, error) {
	services, err := InitializeServices(params, &event.DevNullSender{}, imagecache.MemoryTextureLoader{})
	if err != nil {
		return nil, err
	}
	defer services.Close()
	if progressReporter != nil {
		services.ImageCache.SetProgressReporter(progressReporter)
	}

	files := services.ImageLibrary.LoadImageFiles(root)
	logger.Info.Printf("Preparing %d images in '%s'", len(files), root)
	services.ImageCache.Init(ctx, imageFiles(files))
	services.ImageCache.Wait()

	results := make([]PreparedImage, 0, len(files))
	for _, imageFile := range files {
		result := PreparedImage{
			ImageFile: imageFile,
			Status:    services.ImageCache.Status(imageFile),
			Err:       services.ImageCache.Err(imageFile),
		}
		if texture, ok := services.ImageCache.Get(imageFile); ok {
			result.Size = texture.Size()
		}
		results = append(results, result)
	}
	return results, ctx.Err()
}
