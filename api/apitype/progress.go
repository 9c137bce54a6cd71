package apitype

import "fmt"

// Progress of one triage run.
type Progress struct {
	Total   int
	Left    int
	Saved   int
	Deleted int
	Loaded  int
	Failed  int
}

func (s Progress) String() string {
	return fmt.Sprintf("%d left, %d saved, %d deleted, %d/%d loaded", s.Left, s.Saved, s.Deleted, s.Loaded, s.Total)
}
