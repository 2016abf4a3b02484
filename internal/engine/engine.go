// Package engine defines the boundary to the compositing engine: sources,
// scenes, transitions, output settings and performance statistics.
package engine

// Kind identifies an engine source type
type Kind string

const (
	KindImage Kind = "image_source"
	KindMedia Kind = "ffmpeg_source"
	KindText  Kind = "text_ft2_source"
	KindWeb   Kind = "browser_source"
)

// Settings is a kind-specific source settings record
type Settings map[string]interface{}

// Vec2 is a 2D value in canvas pixels (position) or a factor (scale)
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Statistics is a single performance sample
type Statistics struct {
	CPU                     float64 `json:"cpu"`
	NumberDroppedFrames     int     `json:"numberDroppedFrames"`
	PercentageDroppedFrames float64 `json:"percentageDroppedFrames"`
	Bandwidth               float64 `json:"bandwidth"`
	FrameRate               float64 `json:"frameRate"`
}

// Source is one media input
type Source interface {
	ID() string
	Kind() Kind
	Settings() Settings
	// Width and Height are the native dimensions, zero until known.
	Width() int
	Height() int
}

// SceneItem is a source placed in a scene
type SceneItem interface {
	Source() Source
	Scale() Vec2
	SetScale(Vec2)
	Position() Vec2
	SetPosition(Vec2)
}

// Scene groups sources with a per-item transform
type Scene interface {
	ID() string
	Add(src Source) (SceneItem, error)
	Items() []SceneItem
}

// Engine is the compositing engine as seen by this service
type Engine interface {
	CreateSource(kind Kind, id string, settings Settings) (Source, error)
	CreateScene(id string) (Scene, error)
	// TransitionTo switches the visible output to scene.
	TransitionTo(scene Scene) error
	CurrentScene() Scene

	Setting(category, subcategory, parameter string) (interface{}, error)
	SetSetting(category, subcategory, parameter string, value interface{}) error

	Statistics() Statistics
	Shutdown() error
}
