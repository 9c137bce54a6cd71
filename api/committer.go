package api

import (
	"iter"
	"vincit.fi/picture-triage/api/apitype"
)

// Committer moves the classified pictures into the save and delete
// directories under root.
type Committer interface {
	Commit(root string, saved iter.Seq[*apitype.ImageFile], deleted iter.Seq[*apitype.ImageFile]) (*apitype.CommitReport, error)
}
