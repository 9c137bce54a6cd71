package api

import "vincit.fi/picture-triage/api/apitype"

// ImageLibrary discovers the pictures under a root directory.
type ImageLibrary interface {
	LoadImageFiles(root string) []*apitype.ImageFile
}
