package common

const defaultEventBusQueueSize = 1000

type Params struct {
	rootPath          string
	logLevel          string
	workers           int
	chunks            int
	thumbnailSize     int
	filter            string
	excludes          []string
	eventBusQueueSize int
}

func NewEmptyParams() *Params {
	return NewParams(DefaultConfig(), "")
}

func NewParams(cfg *Config, rootPath string) *Params {
	return &Params{
		rootPath:          rootPath,
		logLevel:          cfg.LogLevel,
		workers:           cfg.Workers,
		chunks:            cfg.Chunks,
		thumbnailSize:     cfg.ThumbnailSize,
		filter:            cfg.Filter,
		excludes:          cfg.Exclude,
		eventBusQueueSize: defaultEventBusQueueSize,
	}
}

func (s *Params) RootPath() string {
	return s.rootPath
}

func (s *Params) LogLevel() string {
	return s.logLevel
}

func (s *Params) Workers() int {
	if s.workers <= 0 {
		return DefaultWorkers
	}
	return s.workers
}

// Chunks is the number of work items the discovered set is split into.
// Zero means four chunks per worker.
func (s *Params) Chunks() int {
	if s.chunks <= 0 {
		return s.Workers() * 4
	}
	return s.chunks
}

func (s *Params) ThumbnailSize() int {
	if s.thumbnailSize <= 0 {
		return DefaultThumbnailSize
	}
	return s.thumbnailSize
}

func (s *Params) Filter() string {
	return s.filter
}

func (s *Params) Excludes() []string {
	return s.excludes
}

func (s *Params) EventBusQueueSize() int {
	return s.eventBusQueueSize
}
