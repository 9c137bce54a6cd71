// Package imagecache prepares pictures for display off the interactive thread.
//
// Workers decode and scale pictures and append them to a lock guarded pending
// queue. The interactive thread drains the queue whenever it asks for a
// texture and turns the drained bitmaps into textures with the TextureLoader.
// The texture cache and the status of each picture are only touched by the
// interactive thread.
package imagecache

import (
	"context"
	"errors"
	"iter"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"vincit.fi/picture-triage/api"
	"vincit.fi/picture-triage/api/apitype"
	"vincit.fi/picture-triage/common"
	"vincit.fi/picture-triage/common/logger"
)

const progressName = "Image cache"

var ErrMissingName = errors.New("picture has no file name")

// ImageSource is anything that can list the pictures to prepare, such as a
// classification list.
type ImageSource interface {
	All() iter.Seq[*apitype.ImageFile]
}

type Pipeline struct {
	imageLoader      api.ImageLoader
	textureLoader    api.TextureLoader
	progressReporter api.ProgressReporter
	workers          int
	chunks           int
	thumbnailSize    int
	readFile         func(string) ([]byte, error)

	// Guarded by mux
	mux        sync.Mutex
	generation string
	pending    []*pendingEntry
	processed  int
	total      int

	// Interactive thread only
	textures map[string]apitype.Texture
	failed   map[string]error
	current  map[string]bool
	loaded   int
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewPipeline(imageLoader api.ImageLoader, textureLoader api.TextureLoader, progressReporter api.ProgressReporter, params *common.Params) *Pipeline {
	if progressReporter == nil {
		progressReporter = api.NoopProgressReporter{}
	}
	done := make(chan struct{})
	close(done)
	return &Pipeline{
		imageLoader:      imageLoader,
		textureLoader:    textureLoader,
		progressReporter: progressReporter,
		workers:          params.Workers(),
		chunks:           params.Chunks(),
		thumbnailSize:    params.ThumbnailSize(),
		readFile:         os.ReadFile,
		textures:         map[string]apitype.Texture{},
		failed:           map[string]error{},
		current:          map[string]bool{},
		cancel:           func() {},
		done:             done,
	}
}

// SetProgressReporter must not be called while workers are running.
func (s *Pipeline) SetProgressReporter(progressReporter api.ProgressReporter) {
	s.progressReporter = progressReporter
}

// Init starts preparing every picture of images that is not in the cache yet.
// Work of the previous Init is cancelled and its late results are dropped.
// Init returns immediately.
func (s *Pipeline) Init(ctx context.Context, images ImageSource) {
	s.drain()
	s.cancel()

	s.current = map[string]bool{}
	s.failed = map[string]error{}
	s.loaded = 0
	var toLoad []*apitype.ImageFile
	for imageFile := range images.All() {
		path := imageFile.Path()
		if s.current[path] {
			continue
		}
		s.current[path] = true
		if _, ok := s.textures[path]; ok {
			s.loaded++
		} else {
			toLoad = append(toLoad, imageFile)
		}
	}

	generation := uuid.NewString()
	s.mux.Lock()
	s.generation = generation
	s.pending = make([]*pendingEntry, 0, len(toLoad))
	s.processed = 0
	s.total = len(toLoad)
	s.mux.Unlock()

	logger.Debug.Printf("Generation %s: %d images, %d already cached", generation, len(s.current), s.loaded)

	if len(toLoad) == 0 {
		s.cancel = func() {}
		s.done = make(chan struct{})
		close(s.done)
		return
	}

	workCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	chunks := partition(toLoad, s.chunks)
	s.progressReporter.Update(progressName, 0, len(toLoad))
	go func() {
		defer close(done)
		startTime := time.Now()
		logger.Debug.Printf("Start loading %d images in %d chunks with %d workers", len(toLoad), len(chunks), s.workers)

		g, gctx := errgroup.WithContext(workCtx)
		g.SetLimit(s.workers)
		for _, chunk := range chunks {
			g.Go(func() error {
				s.processChunk(gctx, generation, chunk)
				return nil
			})
		}
		_ = g.Wait()

		if workCtx.Err() != nil {
			logger.Debug.Printf("Generation %s cancelled after %s", generation, time.Since(startTime))
		} else {
			logger.Debug.Printf("All %d images loaded in %s", len(toLoad), time.Since(startTime))
		}
	}()
}

func (s *Pipeline) processChunk(ctx context.Context, generation string, chunk []*apitype.ImageFile) {
	for _, imageFile := range chunk {
		if ctx.Err() != nil {
			return
		}
		if !s.enqueue(s.prepare(imageFile, generation)) {
			return
		}
	}
}

func (s *Pipeline) prepare(imageFile *apitype.ImageFile, generation string) *pendingEntry {
	entry := &pendingEntry{imageFile: imageFile, generation: generation}

	data, err := s.readFile(imageFile.Path())
	if err != nil {
		logger.Warn.Printf("Could not read '%s': %s", imageFile.Path(), err)
		entry.err = err
		return entry
	}

	img, err := s.imageLoader.LoadThumbnail(imageFile, data, s.thumbnailSize)
	if err != nil {
		logger.Warn.Printf("Could not decode '%s': %s", imageFile.Path(), err)
		entry.err = err
		return entry
	}

	entry.name = imageFile.FileName()
	if entry.name == "" {
		logger.Warn.Printf("Could not resolve name for '%s'", imageFile.Path())
		entry.err = ErrMissingName
		return entry
	}
	entry.img = img
	return entry
}

// enqueue returns false when the entry belongs to a superseded generation.
func (s *Pipeline) enqueue(entry *pendingEntry) bool {
	s.mux.Lock()
	if entry.generation != s.generation {
		s.mux.Unlock()
		logger.Trace.Printf("Dropping stale entry for '%s'", entry.imageFile.Path())
		return false
	}
	s.pending = append(s.pending, entry)
	s.processed++
	processed, total := s.processed, s.total
	s.mux.Unlock()

	s.progressReporter.Update(progressName, processed, total)
	return true
}

func (s *Pipeline) drain() {
	s.mux.Lock()
	if len(s.pending) == 0 {
		s.mux.Unlock()
		return
	}
	entries := s.pending
	s.pending = make([]*pendingEntry, 0, s.total-s.processed)
	generation := s.generation
	s.mux.Unlock()

	for _, entry := range entries {
		path := entry.imageFile.Path()
		if entry.generation != generation {
			logger.Trace.Printf("Dropping stale entry for '%s'", path)
			continue
		}
		if !entry.succeeded() {
			s.failed[path] = entry.err
			continue
		}

		texture, err := s.textureLoader.LoadTexture(entry.name, entry.img)
		if err != nil {
			logger.Error.Printf("Could not create texture for '%s': %s", path, err)
			s.failed[path] = err
			continue
		}
		if _, exists := s.textures[path]; !exists && s.current[path] {
			s.loaded++
		}
		s.textures[path] = texture
		delete(s.failed, path)
	}
}

// Get returns the texture for imageFile if it has been prepared.
func (s *Pipeline) Get(imageFile *apitype.ImageFile) (apitype.Texture, bool) {
	s.drain()
	texture, ok := s.textures[imageFile.Path()]
	return texture, ok
}

// Status reports Pending also for pictures the pipeline was never asked to
// prepare.
func (s *Pipeline) Status(imageFile *apitype.ImageFile) apitype.LoadStatus {
	s.drain()
	path := imageFile.Path()
	if _, ok := s.textures[path]; ok {
		return apitype.LoadReady
	}
	if _, ok := s.failed[path]; ok {
		return apitype.LoadFailed
	}
	return apitype.LoadPending
}

// Err returns the reason a picture could not be prepared.
func (s *Pipeline) Err(imageFile *apitype.ImageFile) error {
	s.drain()
	return s.failed[imageFile.Path()]
}

// LoadedImages is the number of pictures of the latest Init that have a
// texture. It never decreases until the next Init.
func (s *Pipeline) LoadedImages() int {
	s.drain()
	return s.loaded
}

// FailedImages is the number of pictures of the latest Init that could not be
// prepared.
func (s *Pipeline) FailedImages() int {
	s.drain()
	return len(s.failed)
}

// TotalImages is the number of distinct pictures given to the latest Init.
func (s *Pipeline) TotalImages() int {
	return len(s.current)
}

// Wait blocks until the workers of the latest Init are finished.
func (s *Pipeline) Wait() {
	<-s.done
}

// Close cancels the workers and waits for them to stop.
func (s *Pipeline) Close() {
	s.cancel()
	s.Wait()
}
