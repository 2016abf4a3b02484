package services

import (
	"errors"
	"sync"

	"slidecast/internal/engine"
	"slidecast/internal/models"
)

type fakeSource struct {
	id       string
	kind     engine.Kind
	settings engine.Settings
	width    int
	height   int
}

func (s *fakeSource) ID() string                { return s.id }
func (s *fakeSource) Kind() engine.Kind         { return s.kind }
func (s *fakeSource) Settings() engine.Settings { return s.settings }
func (s *fakeSource) Width() int                { return s.width }
func (s *fakeSource) Height() int               { return s.height }

type fakeItem struct {
	source   engine.Source
	scale    engine.Vec2
	position engine.Vec2
}

func (i *fakeItem) Source() engine.Source     { return i.source }
func (i *fakeItem) Scale() engine.Vec2        { return i.scale }
func (i *fakeItem) SetScale(v engine.Vec2)    { i.scale = v }
func (i *fakeItem) Position() engine.Vec2     { return i.position }
func (i *fakeItem) SetPosition(v engine.Vec2) { i.position = v }

type fakeScene struct {
	id    string
	items []engine.SceneItem
}

func (s *fakeScene) ID() string                { return s.id }
func (s *fakeScene) Items() []engine.SceneItem { return s.items }

func (s *fakeScene) Add(src engine.Source) (engine.SceneItem, error) {
	item := &fakeItem{source: src, scale: engine.Vec2{X: 1, Y: 1}}
	s.items = append(s.items, item)
	return item, nil
}

// fakeEngine records every call. When signals is set, created sources are
// announced as loaded unless holdLoads is true.
type fakeEngine struct {
	mu          sync.Mutex
	signals     *engine.Signals
	holdLoads   bool
	nativeW     int
	nativeH     int
	sources     []*fakeSource
	scenes      []*fakeScene
	transitions []string
	failSource  error
	failScene   error
}

func newFakeEngine(signals *engine.Signals) *fakeEngine {
	return &fakeEngine{signals: signals, nativeW: 500, nativeH: 500}
}

func (e *fakeEngine) CreateSource(kind engine.Kind, id string, settings engine.Settings) (engine.Source, error) {
	e.mu.Lock()
	if e.failSource != nil {
		e.mu.Unlock()
		return nil, e.failSource
	}
	src := &fakeSource{id: id, kind: kind, settings: settings, width: e.nativeW, height: e.nativeH}
	e.sources = append(e.sources, src)
	publish := e.signals != nil && !e.holdLoads
	e.mu.Unlock()

	if publish {
		go e.signals.Publish(engine.Signal{Type: engine.SignalSourceLoaded, SourceID: id})
	}
	return src, nil
}

func (e *fakeEngine) CreateScene(id string) (engine.Scene, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failScene != nil {
		return nil, e.failScene
	}
	scene := &fakeScene{id: id}
	e.scenes = append(e.scenes, scene)
	return scene, nil
}

func (e *fakeEngine) TransitionTo(scene engine.Scene) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transitions = append(e.transitions, scene.ID())
	return nil
}

func (e *fakeEngine) CurrentScene() engine.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.transitions) == 0 {
		return nil
	}
	last := e.transitions[len(e.transitions)-1]
	for _, scene := range e.scenes {
		if scene.id == last {
			return scene
		}
	}
	return nil
}

func (e *fakeEngine) Setting(category, subcategory, parameter string) (interface{}, error) {
	return nil, engine.ErrUnknownSetting
}

func (e *fakeEngine) SetSetting(category, subcategory, parameter string, value interface{}) error {
	return nil
}

func (e *fakeEngine) Statistics() engine.Statistics {
	return engine.Statistics{CPU: 1.5, FrameRate: 30}
}

func (e *fakeEngine) Shutdown() error { return nil }

func (e *fakeEngine) sourceCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sources)
}

func (e *fakeEngine) sceneCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.scenes)
}

func (e *fakeEngine) transitionLog() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.transitions...)
}

type staticCanvas struct {
	settings models.Settings
}

func (c staticCanvas) Get() models.Settings { return c.settings }

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, event := range p.events {
		out = append(out, event.Type)
	}
	return out
}

var errEngineDown = errors.New("engine down")
