package apitype

import "fmt"

const (
	SaveDirName   = "save"
	DeleteDirName = "delete"
)

type CommitFailure struct {
	ImageFile *ImageFile
	Err       error
}

func (s CommitFailure) String() string {
	return fmt.Sprintf("%s: %s", s.ImageFile.Path(), s.Err)
}

type CommitReport struct {
	Root    string
	Saved   int
	Deleted int
	Failed  []CommitFailure
}

func (s *CommitReport) Moved() int {
	if s == nil {
		return 0
	}
	return s.Saved + s.Deleted
}
