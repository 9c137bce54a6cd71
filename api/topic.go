package api

type Topic string

const (
	ProcessStatusUpdated Topic = "event-process-status-updated"
	ShowError            Topic = "event-show-error"
	DirectoryChanged     Topic = "event-directory-changed"
	ImagesCommitted      Topic = "event-images-committed"
)
