package engine

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"slidecast/internal/logger"
)

const (
	defaultWebWidth  = 800
	defaultWebHeight = 600
)

// Headless is an in-process engine that tracks sources and scenes without
// rendering. It stands in for the native binding in tests and on systems
// without one.
type Headless struct {
	mu       sync.RWMutex
	signals  *Signals
	sources  map[string]*headlessSource
	scenes   map[string]*headlessScene
	current  *headlessScene
	settings map[string]interface{}
	width    int
	height   int
	fps      int
	closed   bool
	log      zerolog.Logger
}

// NewHeadless creates a headless engine publishing to signals
func NewHeadless(signals *Signals) *Headless {
	return &Headless{
		signals:  signals,
		sources:  make(map[string]*headlessSource),
		scenes:   make(map[string]*headlessScene),
		settings: make(map[string]interface{}),
		log:      logger.Component("engine"),
	}
}

func settingKey(category, subcategory, parameter string) string {
	return category + "/" + subcategory + "/" + parameter
}

// ResetVideo configures the output canvas and returns a result code
func (h *Headless) ResetVideo(width, height, fps int) int {
	if width <= 0 || height <= 0 || fps <= 0 {
		return CodeInvalidParam
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return CodeFail
	}

	h.width, h.height, h.fps = width, height, fps
	resolution := fmt.Sprintf("%dx%d", width, height)
	h.settings[settingKey("Video", "Untitled", "Base")] = resolution
	h.settings[settingKey("Video", "Untitled", "Output")] = resolution
	h.settings[settingKey("Video", "Untitled", "FPSCommon")] = strconv.Itoa(fps)
	return CodeSuccess
}

func (h *Headless) CreateSource(kind Kind, id string, settings Settings) (Source, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrShutdown
	}
	if _, exists := h.sources[id]; exists {
		h.mu.Unlock()
		return nil, fmt.Errorf("source %s already exists", id)
	}
	canvasW, canvasH := h.width, h.height
	h.mu.Unlock()

	src := &headlessSource{id: id, kind: kind, settings: settings}
	probeErr := src.probe(canvasW, canvasH)

	h.mu.Lock()
	h.sources[id] = src
	h.mu.Unlock()

	go func() {
		if probeErr != nil {
			h.log.Warn().Err(probeErr).Str("source", id).Msg("source failed to load")
			h.signals.Publish(Signal{Type: SignalSourceFailed, SourceID: id, Message: probeErr.Error()})
			return
		}
		h.signals.Publish(Signal{Type: SignalSourceLoaded, SourceID: id})
	}()

	return src, nil
}

func (h *Headless) CreateScene(id string) (Scene, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrShutdown
	}
	if _, exists := h.scenes[id]; exists {
		return nil, fmt.Errorf("scene %s already exists", id)
	}

	scene := &headlessScene{id: id}
	h.scenes[id] = scene
	return scene, nil
}

func (h *Headless) TransitionTo(scene Scene) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrShutdown
	}
	target, ok := h.scenes[scene.ID()]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("scene %s is not owned by this engine", scene.ID())
	}
	h.current = target
	h.mu.Unlock()

	h.signals.Publish(Signal{Type: SignalTransitionDone, SceneID: scene.ID()})
	return nil
}

func (h *Headless) CurrentScene() Scene {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return nil
	}
	return h.current
}

func (h *Headless) Setting(category, subcategory, parameter string) (interface{}, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	value, ok := h.settings[settingKey(category, subcategory, parameter)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSetting, "%s/%s/%s", category, subcategory, parameter)
	}
	return value, nil
}

func (h *Headless) SetSetting(category, subcategory, parameter string, value interface{}) error {
	if category == "Video" && parameter == "Base" {
		w, hgt, err := parseResolution(fmt.Sprint(value))
		if err != nil {
			return err
		}
		h.mu.RLock()
		fps := h.fps
		h.mu.RUnlock()
		if code := h.ResetVideo(w, hgt, fps); code != CodeSuccess {
			return &InitError{Code: code}
		}
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrShutdown
	}
	h.settings[settingKey(category, subcategory, parameter)] = value
	return nil
}

func (h *Headless) Statistics() Statistics {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Statistics{FrameRate: float64(h.fps)}
}

func (h *Headless) Shutdown() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.current = nil
	h.sources = make(map[string]*headlessSource)
	h.scenes = make(map[string]*headlessScene)
	return nil
}

func parseResolution(value string) (int, int, error) {
	parts := strings.Split(strings.ToLower(value), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid resolution %q", value)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil {
		return 0, 0, fmt.Errorf("invalid resolution %q", value)
	}
	return w, h, nil
}

type headlessSource struct {
	id       string
	kind     Kind
	settings Settings
	width    int
	height   int
}

// probe fills in the native size. Only images are decoded; other kinds get
// the size the native engine would report before first frame.
func (s *headlessSource) probe(canvasW, canvasH int) error {
	switch s.kind {
	case KindImage:
		path, _ := s.settings["file"].(string)
		img, err := imaging.Open(path)
		if err != nil {
			return fmt.Errorf("failed to decode image %s: %w", path, err)
		}
		bounds := img.Bounds()
		s.width, s.height = bounds.Dx(), bounds.Dy()
	case KindWeb:
		s.width, s.height = defaultWebWidth, defaultWebHeight
	default:
		s.width, s.height = canvasW, canvasH
	}
	return nil
}

func (s *headlessSource) ID() string         { return s.id }
func (s *headlessSource) Kind() Kind         { return s.kind }
func (s *headlessSource) Settings() Settings { return s.settings }
func (s *headlessSource) Width() int         { return s.width }
func (s *headlessSource) Height() int        { return s.height }

type headlessScene struct {
	mu    sync.RWMutex
	id    string
	items []SceneItem
}

func (s *headlessScene) ID() string { return s.id }

func (s *headlessScene) Add(src Source) (SceneItem, error) {
	if src == nil {
		return nil, ErrUnknownSource
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	item := &headlessItem{source: src, scale: Vec2{X: 1, Y: 1}}
	s.items = append(s.items, item)
	return item, nil
}

func (s *headlessScene) Items() []SceneItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]SceneItem, len(s.items))
	copy(items, s.items)
	return items
}

type headlessItem struct {
	mu       sync.RWMutex
	source   Source
	scale    Vec2
	position Vec2
}

func (i *headlessItem) Source() Source { return i.source }

func (i *headlessItem) Scale() Vec2 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.scale
}

func (i *headlessItem) SetScale(v Vec2) {
	i.mu.Lock()
	i.scale = v
	i.mu.Unlock()
}

func (i *headlessItem) Position() Vec2 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.position
}

func (i *headlessItem) SetPosition(v Vec2) {
	i.mu.Lock()
	i.position = v
	i.mu.Unlock()
}
