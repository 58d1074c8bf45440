// Package slider computes the reveal position of a before/after image
// comparison. The page script runs the same formula in the browser.
package slider

import "math"

// DefaultPosition is the initial reveal percentage.
const DefaultPosition = 50.0

// Box is the horizontal extent of the slider element in client pixels.
type Box struct {
	Left  float64
	Width float64
}

// Slider tracks one comparison widget. The zero value is not ready; use New.
type Slider struct {
	position float64
	dragging bool
}

// New returns a slider at DefaultPosition.
func New() *Slider {
	return &Slider{position: DefaultPosition}
}

// Press starts a drag.
func (s *Slider) Press() {
	s.dragging = true
}

// Release ends a drag.
func (s *Slider) Release() {
	s.dragging = false
}

// Dragging reports whether a drag is in progress.
func (s *Slider) Dragging() bool {
	return s.dragging
}

// Move recalculates the position for a pointer at x while dragging.
// Boxes without width are ignored.
func (s *Slider) Move(x float64, box Box) {
	if !s.dragging || !(box.Width > 0) {
		return
	}
	s.position = PositionAt(x, box)
}

// Position is the reveal percentage in [0, 100].
func (s *Slider) Position() float64 {
	return s.position
}

// ClipRight is the right inset of the "after" image, in percent.
func (s *Slider) ClipRight() float64 {
	return 100 - s.position
}

// HandleLeft is the left offset of the drag handle, in percent.
func (s *Slider) HandleLeft() float64 {
	return s.position
}

// PositionAt maps a pointer x coordinate inside box to a percentage.
// Coordinates that are not numbers yield DefaultPosition.
func PositionAt(x float64, box Box) float64 {
	if !(box.Width > 0) || math.IsInf(box.Width, 0) {
		return DefaultPosition
	}
	offset := x - box.Left
	if math.IsNaN(offset) {
		return DefaultPosition
	}
	if offset < 0 {
		offset = 0
	}
	if offset > box.Width {
		offset = box.Width
	}
	return offset / box.Width * 100
}
