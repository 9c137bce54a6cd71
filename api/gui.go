package api

import "vincit.fi/picture-triage/api/apitype"

type ErrorCommand struct {
	Message string
}

type UpdateProgressCommand struct {
	Name    string
	Current int
	Total   int
}

type DirectoryChangedCommand struct {
	Directory string
	Images    int
}

type ImagesCommittedCommand struct {
	Report *apitype.CommitReport
}

type Gui interface {
	ShowError(*ErrorCommand)
	UpdateProgress(*UpdateProgressCommand)
	Run()
}
