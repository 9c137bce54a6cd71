package backend

import (
	"vincit.fi/picture-triage/api"
	"vincit.fi/picture-triage/backend/internal/filter"
	"vincit.fi/picture-triage/backend/internal/imagecache"
	"vincit.fi/picture-triage/backend/internal/imageloader"
	"vincit.fi/picture-triage/backend/internal/library"
	"vincit.fi/picture-triage/backend/internal/session"
	"vincit.fi/picture-triage/common"
	"vincit.fi/picture-triage/common/event"
	"vincit.fi/picture-triage/common/logger"
)

type Services struct {
	ImageLibrary api.ImageLibrary
	ImageLoader  api.ImageLoader
	Committer    api.Committer
	ImageCache   *imagecache.Pipeline
	Session      api.TriageSession
}

func (s *Services) Close() {
	s.Session.Close()
}

type Brokers struct {
	Broker *event.Broker
}

func InitializeEventBrokers(eventBusQueueSize int) *Brokers {
	logger.Debug.Printf("Initialize event brokers...")
	brokers := &Brokers{
		Broker: event.InitBus(eventBusQueueSize),
	}
	logger.Debug.Printf("Event brokers initialized")
	return brokers
}

// InitializeServices wires the backend. Progress and errors are sent to
// sender; textures are created with textureLoader.
func InitializeServices(params *common.Params, sender api.Sender, textureLoader api.TextureLoader) (*Services, error) {
	logger.Debug.Printf("Initialize services...")
	imageLibrary, err := library.NewImageLibrary(params.Excludes())
	if err != nil {
		return nil, err
	}
	imageLoader, err := imageloader.NewImageLoader(params.Filter())
	if err != nil {
		return nil, err
	}

	progressReporter := api.NewSenderProgressReporter(sender)
	committer := filter.NewCommitService(progressReporter)
	imageCache := imagecache.NewPipeline(imageLoader, textureLoader, progressReporter, params)

	services := &Services{
		ImageLibrary: imageLibrary,
		ImageLoader:  imageLoader,
		Committer:    committer,
		ImageCache:   imageCache,
		Session:      session.NewSession(imageLibrary, imageCache, committer, sender),
	}
	logger.Debug.Printf("Services initialized")
	return services, nil
}
