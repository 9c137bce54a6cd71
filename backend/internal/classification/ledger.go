// Package classification tracks which pictures are still to be decided and
// which have been saved or deleted, with undo.
package classification

import (
	"errors"
	"fmt"
	"iter"
	"vincit.fi/picture-triage/api"
	"vincit.fi/picture-triage/api/apitype"
	"vincit.fi/picture-triage/backend/internal/imagelist"
	"vincit.fi/picture-triage/common/logger"
)

var (
	ErrEmptyCollection = imagelist.ErrEmptyCollection
	ErrFinalized       = errors.New("classification already committed")
)

const (
	savedAction   = true
	deletedAction = false
)

// Ledger moves pictures between the unprocessed, saved and deleted buckets.
// Every picture is in exactly one bucket and history always holds one entry
// per saved or deleted picture. Not safe for concurrent use.
type Ledger struct {
	unprocessed *imagelist.ImageList
	saved       *imagelist.ImageList
	deleted     *imagelist.ImageList
	history     []bool
	finalized   bool
}

func NewLedger(unprocessed *imagelist.ImageList) *Ledger {
	if unprocessed == nil {
		unprocessed = imagelist.New()
	}
	return &Ledger{
		unprocessed: unprocessed,
		saved:       imagelist.New(),
		deleted:     imagelist.New(),
		history:     []bool{},
	}
}

func (s *Ledger) Delete() error {
	return s.classify(s.deleted, deletedAction)
}

func (s *Ledger) Save() error {
	return s.classify(s.saved, savedAction)
}

func (s *Ledger) classify(target *imagelist.ImageList, action bool) error {
	if s.finalized {
		return ErrFinalized
	}
	if err := target.TransferFrom(s.unprocessed); err != nil {
		return fmt.Errorf("no pictures left to classify: %w", err)
	}
	s.history = append(s.history, action)
	return nil
}

// RevertLastAction undoes the latest Save or Delete. It returns false when
// there was nothing to undo.
func (s *Ledger) RevertLastAction() bool {
	if s.finalized {
		logger.Warn.Print("Classification already committed, cannot revert")
		return false
	}
	last := len(s.history) - 1
	if last < 0 {
		logger.Info.Print("Empty history, cannot revert")
		return false
	}

	source := s.deleted
	if s.history[last] == savedAction {
		source = s.saved
	}
	if err := s.unprocessed.TransferFrom(source); err != nil {
		// history and buckets are kept in step, so this is a broken invariant
		logger.Error.Panicf("History out of sync with buckets: %s", err)
	}
	s.history = s.history[:last]
	return true
}

func (s *Ledger) Next() (*apitype.ImageFile, error) {
	return s.unprocessed.Peek()
}

func (s *Ledger) IsDone() bool {
	return s.unprocessed.Size() == 0
}

func (s *Ledger) IsFinalized() bool {
	return s.finalized
}

func (s *Ledger) ImagesLeft() int {
	return s.unprocessed.Size()
}

func (s *Ledger) SavedImages() int {
	return s.saved.Size()
}

func (s *Ledger) DeletedImages() int {
	return s.deleted.Size()
}

func (s *Ledger) HistorySize() int {
	return len(s.history)
}

func (s *Ledger) Unprocessed() iter.Seq[*apitype.ImageFile] {
	return s.unprocessed.All()
}

func (s *Ledger) Saved() iter.Seq[*apitype.ImageFile] {
	return s.saved.All()
}

func (s *Ledger) Deleted() iter.Seq[*apitype.ImageFile] {
	return s.deleted.All()
}

// Commit hands the saved and deleted pictures to committer. The ledger is
// finalized afterwards even if some of the moves failed.
func (s *Ledger) Commit(root string, committer api.Committer) (*apitype.CommitReport, error) {
	if s.finalized {
		return nil, ErrFinalized
	}
	logger.Info.Printf("Committing %d saved and %d deleted pictures to '%s'", s.saved.Size(), s.deleted.Size(), root)
	report, err := committer.Commit(root, s.saved.All(), s.deleted.All())
	if err != nil {
		return report, err
	}
	s.finalized = true
	return report, nil
}
