// Package session drives one triage run: it searches a directory, keeps the
// classification ledger of the found pictures and asks the image cache for
// the picture currently shown.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"vincit.fi/picture-triage/api"
	"vincit.fi/picture-triage/api/apitype"
	"vincit.fi/picture-triage/backend/internal/classification"
	"vincit.fi/picture-triage/backend/internal/imagecache"
	"vincit.fi/picture-triage/backend/internal/imagelist"
	"vincit.fi/picture-triage/common/logger"
)

var ErrNotDirectory = errors.New("not a directory")

// ImageCache is the part of imagecache.Pipeline the session needs.
type ImageCache interface {
	Init(ctx context.Context, images imagecache.ImageSource)
	Get(imageFile *apitype.ImageFile) (apitype.Texture, bool)
	Status(imageFile *apitype.ImageFile) apitype.LoadStatus
	LoadedImages() int
	FailedImages() int
	Close()
}

// Session is used from the interactive thread only.
type Session struct {
	library    api.ImageLibrary
	imageCache ImageCache
	committer  api.Committer
	sender     api.Sender

	root   string
	total  int
	ledger *classification.Ledger
}

var _ api.TriageSession = (*Session)(nil)

func NewSession(library api.ImageLibrary, imageCache ImageCache, committer api.Committer, sender api.Sender) *Session {
	return &Session{
		library:    library,
		imageCache: imageCache,
		committer:  committer,
		sender:     sender,
		ledger:     classification.NewLedger(nil),
	}
}

// Search replaces the current ledger with the pictures under root and starts
// preparing them. The first picture in path order is shown first.
func (s *Session) Search(ctx context.Context, root string) error {
	if info, err := os.Stat(root); err != nil {
		s.sender.SendError(fmt.Sprintf("Could not open directory '%s'", root), err)
		return err
	} else if !info.IsDir() {
		err := fmt.Errorf("%s: %w", root, ErrNotDirectory)
		s.sender.SendError(fmt.Sprintf("Could not open directory '%s'", root), err)
		return err
	}

	imageFiles := s.library.LoadImageFiles(root)
	logger.Info.Printf("Found %d images in '%s'", len(imageFiles), root)

	slices.Reverse(imageFiles)
	list := imagelist.FromImageFiles(imageFiles)

	s.root = root
	s.total = len(imageFiles)
	s.ledger = classification.NewLedger(list)
	s.imageCache.Init(ctx, list)

	s.sender.SendCommandToTopic(api.DirectoryChanged, &api.DirectoryChangedCommand{
		Directory: root,
		Images:    len(imageFiles),
	})
	return nil
}

func (s *Session) Root() string {
	return s.root
}

func (s *Session) Delete() error {
	if err := s.ledger.Delete(); err != nil {
		s.sender.SendError("Could not delete picture", err)
		return err
	}
	return nil
}

func (s *Session) Save() error {
	if err := s.ledger.Save(); err != nil {
		s.sender.SendError("Could not save picture", err)
		return err
	}
	return nil
}

func (s *Session) Revert() bool {
	return s.ledger.RevertLastAction()
}

func (s *Session) CanRevert() bool {
	return !s.ledger.IsFinalized() && s.ledger.HistorySize() > 0
}

func (s *Session) IsDone() bool {
	return s.ledger.IsDone()
}

func (s *Session) IsCommitted() bool {
	return s.ledger.IsFinalized()
}

func (s *Session) Current() (*apitype.ImageFile, bool) {
	imageFile, err := s.ledger.Next()
	return imageFile, err == nil
}

// CurrentTexture returns the texture of the picture to decide on, if ready.
func (s *Session) CurrentTexture() (apitype.Texture, bool) {
	if imageFile, ok := s.Current(); ok {
		return s.imageCache.Get(imageFile)
	}
	return nil, false
}

// CurrentStatus is LoadFailed when there is no picture left.
func (s *Session) CurrentStatus() apitype.LoadStatus {
	if imageFile, ok := s.Current(); ok {
		return s.imageCache.Status(imageFile)
	}
	return apitype.LoadFailed
}

func (s *Session) Progress() apitype.Progress {
	return apitype.Progress{
		Total:   s.total,
		Left:    s.ledger.ImagesLeft(),
		Saved:   s.ledger.SavedImages(),
		Deleted: s.ledger.DeletedImages(),
		Loaded:  s.imageCache.LoadedImages(),
		Failed:  s.imageCache.FailedImages(),
	}
}

// Commit moves the decided pictures into the save and delete directories.
// Undecided pictures stay where they are.
func (s *Session) Commit() (*apitype.CommitReport, error) {
	if s.root == "" {
		err := errors.New("no directory searched")
		s.sender.SendError("Could not commit", err)
		return nil, err
	}
	report, err := s.ledger.Commit(s.root, s.committer)
	if err != nil {
		s.sender.SendError("Could not commit", err)
		return nil, err
	}
	if len(report.Failed) > 0 {
		s.sender.SendError(fmt.Sprintf("%d pictures could not be moved", len(report.Failed)), report.Failed[0].Err)
	}
	s.sender.SendCommandToTopic(api.ImagesCommitted, &api.ImagesCommittedCommand{Report: report})
	return report, nil
}

func (s *Session) Close() {
	s.imageCache.Close()
}
