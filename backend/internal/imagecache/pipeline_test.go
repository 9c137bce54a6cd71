package imagecache

import (
	"context"
	"errors"
	"fmt"
	"image"
	"iter"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
	"vincit.fi/picture-triage/api/apitype"
	"vincit.fi/picture-triage/common"
)

var errBroken = errors.New("broken picture")

type stubImageLoader struct {
	calls   atomic.Int32
	started chan string
	release chan struct{}
	block   func(imageFile *apitype.ImageFile) bool
}

func (s *stubImageLoader) LoadThumbnail(imageFile *apitype.ImageFile, data []byte, maxEdge int) (*image.NRGBA, error) {
	s.calls.Add(1)
	if s.block != nil && s.block(imageFile) {
		s.started <- imageFile.Path()
		<-s.release
	}
	if strings.Contains(imageFile.FileName(), "broken") {
		return nil, errBroken
	}
	return image.NewNRGBA(image.Rect(0, 0, maxEdge, maxEdge/2)), nil
}

type countingTextureLoader struct {
	MemoryTextureLoader
	calls map[string]int
	fail  bool
}

func (s *countingTextureLoader) LoadTexture(name string, img *image.NRGBA) (apitype.Texture, error) {
	s.calls[name]++
	if s.fail {
		return nil, errors.New("no renderer")
	}
	return s.MemoryTextureLoader.LoadTexture(name, img)
}

type recordingReporter struct {
	mux     sync.Mutex
	updates [][2]int
}

func (s *recordingReporter) Update(name string, current int, total int) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.updates = append(s.updates, [2]int{current, total})
}

func (s *recordingReporter) Error(string, error) {}

type imageSlice []*apitype.ImageFile

func (s imageSlice) All() iter.Seq[*apitype.ImageFile] {
	return slices.Values(s)
}

func images(fileNames ...string) imageSlice {
	var result imageSlice
	for _, fileName := range fileNames {
		result = append(result, apitype.NewImageFile("/pictures", fileName))
	}
	return result
}

func newPipeline(t *testing.T, workers int, chunks int) (*Pipeline, *stubImageLoader, *countingTextureLoader) {
	imageLoader := &stubImageLoader{}
	textureLoader := &countingTextureLoader{calls: map[string]int{}}
	params := common.NewParams(&common.Config{Workers: workers, Chunks: chunks, ThumbnailSize: 40}, "")
	sut := NewPipeline(imageLoader, textureLoader, nil, params)
	sut.readFile = func(path string) ([]byte, error) {
		if strings.Contains(path, "missing") {
			return nil, fmt.Errorf("open %s: no such file", path)
		}
		return []byte(path), nil
	}
	t.Cleanup(sut.Close)
	return sut, imageLoader, textureLoader
}

func TestPipeline_Empty(t *testing.T) {
	a := assert.New(t)
	sut, imageLoader, _ := newPipeline(t, 2, 0)

	sut.Init(context.Background(), images())
	sut.Wait()

	a.Equal(0, sut.LoadedImages())
	a.Equal(0, sut.TotalImages())
	a.Equal(int32(0), imageLoader.calls.Load())
}

func TestPipeline_LoadsAll(t *testing.T) {
	a := assert.New(t)
	sut, imageLoader, textureLoader := newPipeline(t, 3, 0)
	reporter := &recordingReporter{}
	sut.progressReporter = reporter
	list := images("a.jpg", "b.png", "c.gif", "d.bmp", "e.webp", "f.svg", "g.jpeg")

	sut.Init(context.Background(), list)
	sut.Wait()

	for _, imageFile := range list {
		texture, ok := sut.Get(imageFile)
		if a.True(ok, imageFile.Path()) {
			a.Equal(imageFile.FileName(), texture.Name())
			a.Equal(apitype.SizeOf(40, 20), texture.Size())
		}
		a.Equal(apitype.LoadReady, sut.Status(imageFile))
		a.Nil(sut.Err(imageFile))
		a.Equal(1, textureLoader.calls[imageFile.FileName()])
	}
	a.Equal(len(list), sut.LoadedImages())
	a.Equal(0, sut.FailedImages())
	a.Equal(int32(len(list)), imageLoader.calls.Load())
	a.Contains(reporter.updates, [2]int{0, len(list)})
	a.Contains(reporter.updates, [2]int{len(list), len(list)})
}

func TestPipeline_Failures(t *testing.T) {
	a := assert.New(t)
	sut, _, textureLoader := newPipeline(t, 2, 0)
	noName := apitype.NewImageFileFromPath("/pictures/")
	list := append(images("ok.jpg", "broken.png", "missing.gif"), noName)

	sut.Init(context.Background(), list)
	sut.Wait()

	a.Equal(apitype.LoadReady, sut.Status(list[0]))
	a.Equal(apitype.LoadFailed, sut.Status(list[1]))
	a.ErrorIs(sut.Err(list[1]), errBroken)
	a.Equal(apitype.LoadFailed, sut.Status(list[2]))
	a.Error(sut.Err(list[2]))
	a.Equal(apitype.LoadFailed, sut.Status(noName))
	a.ErrorIs(sut.Err(noName), ErrMissingName)

	_, ok := sut.Get(list[1])
	a.False(ok)
	a.Equal(1, sut.LoadedImages())
	a.Equal(3, sut.FailedImages())
	a.Equal(1, len(textureLoader.calls))
}

func TestPipeline_TextureLoaderFailure(t *testing.T) {
	a := assert.New(t)
	sut, _, textureLoader := newPipeline(t, 1, 0)
	textureLoader.fail = true
	list := images("a.jpg")

	sut.Init(context.Background(), list)
	sut.Wait()

	a.Equal(apitype.LoadFailed, sut.Status(list[0]))
	a.Equal(0, sut.LoadedImages())
}

func TestPipeline_CachePersistsAcrossInit(t *testing.T) {
	a := assert.New(t)
	sut, imageLoader, textureLoader := newPipeline(t, 2, 0)

	sut.Init(context.Background(), images("a.jpg", "b.jpg"))
	sut.Wait()
	a.Equal(2, sut.LoadedImages())

	sut.Init(context.Background(), images("b.jpg", "c.jpg"))
	a.Equal(1, sut.LoadedImages())
	sut.Wait()

	a.Equal(2, sut.LoadedImages())
	a.Equal(2, sut.TotalImages())
	a.Len(sut.textures, 3)
	a.Equal(int32(3), imageLoader.calls.Load())
	a.Equal(1, textureLoader.calls["b.jpg"])
}

func TestPipeline_LoadedImagesFollowsLatestInit(t *testing.T) {
	a := assert.New(t)
	sut, imageLoader, _ := newPipeline(t, 1, 1)
	imageLoader.started = make(chan string, 10)
	imageLoader.release = make(chan struct{})
	imageLoader.block = func(imageFile *apitype.ImageFile) bool {
		return strings.HasPrefix(imageFile.FileName(), "next")
	}

	sut.Init(context.Background(), images("a.jpg", "b.jpg"))
	sut.Wait()
	a.Equal(2, sut.LoadedImages())

	sut.Init(context.Background(), images("next1.jpg", "next2.jpg"))
	<-imageLoader.started

	// Textures of the previous set stay cached but are not counted
	a.Equal(0, sut.LoadedImages())
	a.Len(sut.textures, 2)

	close(imageLoader.release)
	sut.Wait()
	a.Equal(2, sut.LoadedImages())
	a.Equal(2, sut.TotalImages())
	a.Len(sut.textures, 4)
}

func TestPipeline_DuplicatePaths(t *testing.T) {
	a := assert.New(t)
	sut, imageLoader, _ := newPipeline(t, 2, 0)

	sut.Init(context.Background(), images("a.jpg", "a.jpg", "b.jpg"))
	sut.Wait()

	a.Equal(2, sut.TotalImages())
	a.Equal(2, sut.LoadedImages())
	a.Equal(int32(2), imageLoader.calls.Load())
}

func TestPipeline_InitDoesNotBlock(t *testing.T) {
	a := assert.New(t)
	sut, imageLoader, _ := newPipeline(t, 1, 1)
	imageLoader.started = make(chan string, 10)
	imageLoader.release = make(chan struct{})
	imageLoader.block = func(*apitype.ImageFile) bool { return true }
	list := images("a.jpg", "b.jpg")

	sut.Init(context.Background(), list)

	<-imageLoader.started
	a.Equal(apitype.LoadPending, sut.Status(list[0]))
	_, ok := sut.Get(list[0])
	a.False(ok)
	a.Equal(0, sut.LoadedImages())

	close(imageLoader.release)
	sut.Wait()
	a.Equal(2, sut.LoadedImages())
}

func TestPipeline_StaleGenerationIsDropped(t *testing.T) {
	a := assert.New(t)
	sut, imageLoader, textureLoader := newPipeline(t, 1, 1)
	imageLoader.started = make(chan string, 10)
	imageLoader.release = make(chan struct{})
	imageLoader.block = func(imageFile *apitype.ImageFile) bool {
		return strings.HasPrefix(imageFile.FileName(), "old")
	}
	oldList := images("old1.jpg", "old2.jpg")
	newList := images("new1.jpg")

	sut.Init(context.Background(), oldList)
	a.Equal(oldList[0].Path(), <-imageLoader.started)

	sut.Init(context.Background(), newList)
	sut.Wait()
	close(imageLoader.release)

	// The old worker finishes its current item, is refused and stops
	a.Eventually(func() bool {
		return imageLoader.calls.Load() == 2
	}, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	a.Equal(apitype.LoadReady, sut.Status(newList[0]))
	for _, imageFile := range oldList {
		_, ok := sut.Get(imageFile)
		a.False(ok)
	}
	a.Equal(0, textureLoader.calls["old1.jpg"])
	a.Equal(0, textureLoader.calls["old2.jpg"])
	a.Equal(1, sut.LoadedImages())
	a.Equal(int32(2), imageLoader.calls.Load())
}

func TestPipeline_Close(t *testing.T) {
	sut, imageLoader, _ := newPipeline(t, 1, 1)
	imageLoader.started = make(chan string, 10)
	imageLoader.release = make(chan struct{})
	imageLoader.block = func(*apitype.ImageFile) bool { return true }

	sut.Init(context.Background(), images("a.jpg", "b.jpg", "c.jpg"))
	<-imageLoader.started
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(imageLoader.release)
	}()
	sut.Close()

	assert.Equal(t, int32(1), imageLoader.calls.Load())
}

func TestPipeline_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(0, 40).Draw(t, "count")
		workers := rapid.IntRange(1, 5).Draw(t, "workers")
		chunks := rapid.IntRange(0, 12).Draw(t, "chunks")
		brokenEvery := rapid.IntRange(2, 7).Draw(t, "brokenEvery")

		var fileNames []string
		successes := 0
		for i := 0; i < count; i++ {
			if i%brokenEvery == 0 {
				fileNames = append(fileNames, fmt.Sprintf("broken%d.png", i))
			} else {
				fileNames = append(fileNames, fmt.Sprintf("image%d.jpg", i))
				successes++
			}
		}

		imageLoader := &stubImageLoader{}
		textureLoader := &countingTextureLoader{calls: map[string]int{}}
		params := common.NewParams(&common.Config{Workers: workers, Chunks: chunks, ThumbnailSize: 8}, "")
		sut := NewPipeline(imageLoader, textureLoader, nil, params)
		sut.readFile = func(path string) ([]byte, error) { return nil, nil }
		list := images(fileNames...)

		sut.Init(context.Background(), list)
		previous := 0
		for {
			loaded := sut.LoadedImages()
			if loaded < previous || loaded > count {
				t.Fatalf("loaded images went from %d to %d (K=%d)", previous, loaded, count)
			}
			previous = loaded
			if loaded+sut.FailedImages() == count {
				break
			}
			time.Sleep(time.Millisecond)
		}
		sut.Wait()

		if sut.LoadedImages() != successes {
			t.Fatalf("expected %d loaded, got %d", successes, sut.LoadedImages())
		}
		if int(imageLoader.calls.Load()) != count {
			t.Fatalf("expected %d decodes, got %d", count, imageLoader.calls.Load())
		}
		for _, imageFile := range list {
			status := sut.Status(imageFile)
			broken := strings.HasPrefix(imageFile.FileName(), "broken")
			if broken && status != apitype.LoadFailed || !broken && status != apitype.LoadReady {
				t.Fatalf("%s has status %s", imageFile.FileName(), status)
			}
			if !broken && textureLoader.calls[imageFile.FileName()] != 1 {
				t.Fatalf("%s materialised %d times", imageFile.FileName(), textureLoader.calls[imageFile.FileName()])
			}
		}
	})
}

func TestPartition(t *testing.T) {
	a := assert.New(t)

	a.Nil(partition([]int{}, 4))
	a.Equal([][]int{{1, 2, 3, 4, 5}}, partition([]int{1, 2, 3, 4, 5}, 1))
	a.Equal([][]int{{1, 2}, {3, 4, 5}}, partition([]int{1, 2, 3, 4, 5}, 2))
	a.Equal([][]int{{1}, {2}, {3}}, partition([]int{1, 2, 3}, 10))
	a.Equal([][]int{{1, 2, 3}}, partition([]int{1, 2, 3}, 0))
}

func TestPartition_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOf(rapid.Int()).Draw(t, "items")
		n := rapid.IntRange(-1, 50).Draw(t, "n")

		chunks := partition(items, n)

		var joined []int
		for _, chunk := range chunks {
			joined = append(joined, chunk...)
		}
		require.Equal(t, len(items), len(joined))
		if len(items) > 0 {
			require.Equal(t, items, joined)
			require.Equal(t, min(max(n, 1), len(items)), len(chunks))
			for _, chunk := range chunks[:len(chunks)-1] {
				require.Equal(t, len(chunks[0]), len(chunk))
			}
			require.GreaterOrEqual(t, len(chunks[len(chunks)-1]), len(chunks[0]))
		}
	})
}
