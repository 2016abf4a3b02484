package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"slidecast/internal/engine"
	"slidecast/internal/logger"
	"slidecast/internal/models"
)

var ErrUnsupportedFile = errors.New("unsupported file")

// CanvasSource provides the current canvas settings
type CanvasSource interface {
	Get() models.Settings
}

// TransitionScheduler queues a scene switch once a source has loaded
type TransitionScheduler interface {
	Await(sourceID string)
	Forget(sourceID string)
	Schedule(scene engine.Scene, sourceID string)
}

// Dispatcher turns files into engine sources, each in its own scene
type Dispatcher struct {
	engine      engine.Engine
	transitions TransitionScheduler
	canvas      CanvasSource
	options     AlignmentOptions

	mu     sync.Mutex
	scenes []engine.Scene
}

// NewDispatcher creates a dispatcher that aligns items with opts
func NewDispatcher(eng engine.Engine, transitions TransitionScheduler, canvas CanvasSource, opts AlignmentOptions) *Dispatcher {
	return &Dispatcher{
		engine:      eng,
		transitions: transitions,
		canvas:      canvas,
		options:     opts,
	}
}

// AddFile creates a source for path in a fresh scene and schedules a
// transition to it. Files without a supported extension yield
// ErrUnsupportedFile and touch nothing in the engine.
func (d *Dispatcher) AddFile(path string) (engine.Source, error) {
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}

	ext := filepath.Ext(realPath)
	if ext == "" {
		return nil, fmt.Errorf("%w: %s has no extension", ErrUnsupportedFile, realPath)
	}

	fileType, ok := LookupFileType(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}

	sourceID := string(fileType.Kind) + "-" + uuid.NewString()
	d.transitions.Await(sourceID)

	src, err := d.engine.CreateSource(fileType.Kind, sourceID, SourceSettings(fileType.Kind, realPath))
	if err != nil {
		d.transitions.Forget(sourceID)
		return nil, fmt.Errorf("failed to create %s source: %w", fileType.DisplayName, err)
	}

	scene, err := d.engine.CreateScene(uuid.NewString())
	if err != nil {
		d.transitions.Forget(sourceID)
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	item, err := scene.Add(src)
	if err != nil {
		d.transitions.Forget(sourceID)
		return nil, fmt.Errorf("failed to add source to scene: %w", err)
	}

	settings := d.canvas.Get()
	opts := d.options
	opts.Padding = settings.PaddingSize
	if err := Align(item, Canvas{Width: settings.Width, Height: settings.Height}, opts); err != nil {
		logger.Log.Warn().Err(err).Str("source", sourceID).Msg("item left unaligned")
	}

	d.mu.Lock()
	d.scenes = append(d.scenes, scene)
	d.mu.Unlock()

	d.transitions.Schedule(scene, sourceID)

	logger.Log.Info().
		Str("file", realPath).
		Str("kind", string(fileType.Kind)).
		Str("source", sourceID).
		Str("scene", scene.ID()).
		Msg("source added")
	return src, nil
}

// Scenes returns the scenes created so far, oldest first
func (d *Dispatcher) Scenes() []engine.Scene {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]engine.Scene, len(d.scenes))
	copy(out, d.scenes)
	return out
}
