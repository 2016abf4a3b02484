package services

import (
	"errors"

	"slidecast/internal/engine"
)

// Alignment selects where a scaled item is placed on the canvas
type Alignment int

const (
	AlignCenter Alignment = iota
	AlignTopLeft
)

// ScaleMode selects how an item is scaled to the canvas
type ScaleMode int

const (
	ScaleFit ScaleMode = iota
	ScaleNone
)

// AlignmentOptions configures Align
type AlignmentOptions struct {
	Alignment Alignment
	Padding   int
	ScaleMode ScaleMode
}

// Canvas is the output size in pixels
type Canvas struct {
	Width  int
	Height int
}

var ErrEmptyItem = errors.New("scene item has no native size")

// FitScale returns the fit scale truncated to two decimals:
// floor(available / nativeWidth * 100) / 100, where available is the
// smaller canvas side minus padding on both ends.
func FitScale(canvas Canvas, nativeWidth, padding int) float64 {
	smallest := canvas.Width
	if canvas.Height < smallest {
		smallest = canvas.Height
	}
	if available := smallest - 2*padding; available > 0 {
		smallest = available
	}
	if nativeWidth <= 0 || smallest <= 0 {
		return 0
	}
	// Integer division truncates exactly; float floor can land one cent low.
	return float64(smallest*100/nativeWidth) / 100
}

// Align sets the item's scale and position for the canvas
func Align(item engine.SceneItem, canvas Canvas, opts AlignmentOptions) error {
	src := item.Source()
	nativeW, nativeH := src.Width(), src.Height()
	if nativeW <= 0 || nativeH <= 0 {
		return ErrEmptyItem
	}

	scale := 1.0
	if opts.ScaleMode == ScaleFit {
		scale = FitScale(canvas, nativeW, opts.Padding)
	}
	item.SetScale(engine.Vec2{X: scale, Y: scale})

	if opts.Alignment == AlignTopLeft {
		item.SetPosition(engine.Vec2{X: float64(opts.Padding), Y: float64(opts.Padding)})
		return nil
	}

	// Both axes are centered so square canvases are handled too.
	item.SetPosition(engine.Vec2{
		X: (float64(canvas.Width) - float64(nativeW)*scale) / 2,
		Y: (float64(canvas.Height) - float64(nativeH)*scale) / 2,
	})
	return nil
}
