package api

import (
	"context"

	"vincit.fi/picture-triage/api/apitype"
)

// TriageSession is the scene controller the GUI talks to. All methods must be
// called from the interactive thread.
type TriageSession interface {
	Search(ctx context.Context, root string) error
	Root() string

	Delete() error
	Save() error
	Revert() bool
	CanRevert() bool
	IsDone() bool
	IsCommitted() bool

	Current() (*apitype.ImageFile, bool)
	CurrentTexture() (apitype.Texture, bool)
	CurrentStatus() apitype.LoadStatus
	Progress() apitype.Progress

	Commit() (*apitype.CommitReport, error)
	Close()
}
