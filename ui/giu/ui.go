package gui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AllenDang/giu"
	"github.com/OpenDiablo2/dialog"
	"vincit.fi/picture-triage/api"
	"vincit.fi/picture-triage/api/apitype"
	"vincit.fi/picture-triage/common"
	"vincit.fi/picture-triage/common/logger"
)

const (
	defaultWindowWidth  = 900
	defaultWindowHeight = 700
	buttonWidth         = 120
	buttonHeight        = 30
	// Space reserved for the labels and buttons around the picture
	chromeHeight = 160
	chromeWidth  = 20
)

type scene int

const (
	pathScene scene = iota
	triageScene
)

type Ui struct {
	win     *giu.MasterWindow
	ctx     context.Context
	session api.TriageSession
	scene   scene

	pathInput string

	// Written by event bus callbacks
	mux      sync.Mutex
	progress *api.UpdateProgressCommand
	errors   []string
}

var _ api.Gui = (*Ui)(nil)

// NewUi creates the window. It must be called before any texture is
// requested from TextureLoader.
func NewUi(ctx context.Context, params *common.Params) *Ui {
	return &Ui{
		win:       giu.NewMasterWindow("Picture Triage", defaultWindowWidth, defaultWindowHeight, 0),
		ctx:       ctx,
		scene:     pathScene,
		pathInput: params.RootPath(),
	}
}

// SetSession must be called before Run.
func (s *Ui) SetSession(session api.TriageSession) {
	s.session = session
}

func (s *Ui) Run() {
	if s.pathInput != "" {
		s.search()
	}
	s.win.Run(s.loop)
}

func (s *Ui) loop() {
	var layout giu.Layout
	switch s.scene {
	case pathScene:
		layout = s.pathLayout()
	case triageScene:
		layout = s.triageLayout()
		s.handleKeyPress()
	}
	layout = append(layout, giu.PrepareMsgbox())
	giu.SingleWindow().Layout(layout...)

	s.showQueuedErrors()
}

func (s *Ui) pathLayout() giu.Layout {
	return giu.Layout{
		giu.Label("Select the directory with the pictures to sort"),
		giu.InputText(&s.pathInput).Size(-1),
		giu.Row(
			giu.Button("Browse...").Size(buttonWidth, buttonHeight).OnClick(s.browse),
			giu.Button("Search for Images").Size(buttonWidth*1.5, buttonHeight).OnClick(s.search),
		),
	}
}

func (s *Ui) triageLayout() giu.Layout {
	progress := s.session.Progress()
	current, hasCurrent := s.session.Current()

	loadedFraction := float32(1)
	if progress.Total > 0 {
		loadedFraction = float32(progress.Loaded+progress.Failed) / float32(progress.Total)
	}

	fileName := "All pictures classified. Press COMMIT to move them."
	if hasCurrent {
		fileName = current.FileName()
	}

	return giu.Layout{
		giu.Label(fmt.Sprintf("Directory: %s", s.session.Root())),
		giu.Label(fmt.Sprintf("Left: %d   Saved: %d   Deleted: %d   Loaded: %d/%d",
			progress.Left, progress.Saved, progress.Deleted, progress.Loaded, progress.Total)),
		giu.ProgressBar(loadedFraction).Size(-1, 0).Overlay(s.progressText()),
		giu.Separator(),
		giu.Label(fileName),
		s.currentPicture(hasCurrent),
		giu.Separator(),
		s.actionRow(),
	}
}

// actionRow only offers changing the directory once the pictures have been
// committed.
func (s *Ui) actionRow() giu.Widget {
	changeDirectory := giu.Button("Change directory").Size(buttonWidth*1.5, buttonHeight).OnClick(s.changeDirectory)
	if s.session.IsCommitted() {
		return giu.Row(giu.Label("Pictures committed"), changeDirectory)
	}
	return giu.Row(
		giu.Button("DELETE").Size(buttonWidth, buttonHeight).OnClick(s.deleteCurrent),
		giu.Button("SAVE").Size(buttonWidth, buttonHeight).OnClick(s.saveCurrent),
		giu.Button("REVERT").Size(buttonWidth, buttonHeight).OnClick(s.revert),
		giu.Button("COMMIT").Size(buttonWidth, buttonHeight).OnClick(s.commit),
		changeDirectory,
	)
}

func (s *Ui) currentPicture(hasCurrent bool) giu.Widget {
	if !hasCurrent {
		return giu.Dummy(0, 0)
	}
	texture, _ := s.session.CurrentTexture()
	message, textured := describePicture(s.session.CurrentStatus(), texture)
	if textured == nil {
		return giu.Label(message)
	}
	width, height := s.win.GetSize()
	w, h := fitToArea(textured.Size(), float32(width-chromeWidth), float32(height-chromeHeight))
	return giu.Image(textured.Texture()).Size(w, h)
}

// describePicture returns the uploaded texture to draw, or the message to
// show instead.
func describePicture(status apitype.LoadStatus, texture apitype.Texture) (string, *texturedImage) {
	const (
		loadingMessage = "Loading..."
		failedMessage  = "Could not load picture"
	)
	switch status {
	case apitype.LoadFailed:
		return failedMessage, nil
	case apitype.LoadReady:
		textured, ok := texture.(*texturedImage)
		if !ok {
			return loadingMessage, nil
		}
		if textured.Err() != nil {
			return failedMessage, nil
		}
		if !textured.IsLoading() {
			return "", textured
		}
	}
	return loadingMessage, nil
}

func (s *Ui) progressText() string {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.progress == nil {
		return ""
	}
	return fmt.Sprintf("%s %d/%d", s.progress.Name, s.progress.Current, s.progress.Total)
}

func (s *Ui) handleKeyPress() {
	if giu.IsKeyPressed(giu.KeyDelete) {
		s.deleteCurrent()
	}
	if giu.IsKeyPressed(giu.KeyS) {
		s.saveCurrent()
	}
	if giu.IsKeyPressed(giu.KeyBackspace) {
		s.revert()
	}
}

func (s *Ui) browse() {
	directory, err := dialog.Directory().Title("Select picture directory").Browse()
	if errors.Is(err, dialog.ErrCancelled) {
		return
	} else if err != nil {
		s.queueError(fmt.Sprintf("Could not open directory dialog\n%s", err))
		return
	}
	s.pathInput = directory
}

func (s *Ui) search() {
	if s.pathInput == "" {
		s.queueError("Select a directory first")
		return
	}
	if err := s.session.Search(s.ctx, s.pathInput); err != nil {
		logger.Warn.Printf("Search failed: %s", err)
		return
	}
	s.scene = triageScene
}

func (s *Ui) deleteCurrent() {
	if !s.session.IsDone() && !s.session.IsCommitted() {
		_ = s.session.Delete()
	}
}

func (s *Ui) saveCurrent() {
	if !s.session.IsDone() && !s.session.IsCommitted() {
		_ = s.session.Save()
	}
}

func (s *Ui) revert() {
	if s.session.CanRevert() {
		s.session.Revert()
	}
}

func (s *Ui) commit() {
	if s.session.IsCommitted() {
		return
	}
	report, err := s.session.Commit()
	if err != nil {
		return
	}
	giu.Msgbox("Committed", fmt.Sprintf("Saved %d and deleted %d pictures in\n%s\n%d could not be moved.",
		report.Saved, report.Deleted, report.Root, len(report.Failed)))
	s.scene = pathScene
}

func (s *Ui) changeDirectory() {
	s.scene = pathScene
}

func (s *Ui) queueError(message string) {
	s.mux.Lock()
	s.errors = append(s.errors, message)
	s.mux.Unlock()
	giu.Update()
}

func (s *Ui) showQueuedErrors() {
	s.mux.Lock()
	queued := s.errors
	s.errors = nil
	s.mux.Unlock()
	if len(queued) > 0 {
		giu.Msgbox("Error", queued[len(queued)-1])
	}
}

// ShowError is called from the event bus.
func (s *Ui) ShowError(command *api.ErrorCommand) {
	s.queueError(command.Message)
}

// UpdateProgress is called from the event bus.
func (s *Ui) UpdateProgress(command *api.UpdateProgressCommand) {
	s.mux.Lock()
	s.progress = command
	s.mux.Unlock()
	giu.Update()
}

// fitToArea scales size down to fit the area keeping its aspect ratio.
// Pictures are never scaled up.
func fitToArea(size apitype.Size, maxWidth float32, maxHeight float32) (float32, float32) {
	if maxWidth <= 0 || maxHeight <= 0 || size.IsZero() {
		return 0, 0
	}
	width := float32(size.Width())
	height := float32(size.Height())
	scale := min(maxWidth/width, maxHeight/height, 1)
	return width * scale, height * scale
}
