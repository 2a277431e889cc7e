package store

import (
	"drawboard-backend/internal/geometry"
	"drawboard-backend/internal/shape"
)

// Tool names the active drawing tool.
type Tool string

const (
	ToolSelect  Tool = "select"
	ToolRect    Tool = "rect"
	ToolCircle  Tool = "circle"
	ToolDiamond Tool = "diamond"
	ToolLine    Tool = "line"
	ToolArrow   Tool = "arrow"
	ToolPencil  Tool = "pencil"
	ToolText    Tool = "text"
	ToolEraser  Tool = "eraser"
)

// Camera is the view transform: pan offset plus zoom factor.
type Camera struct {
	OffsetX float64
	OffsetY float64
	Zoom    float64
}

// gestureState is the transient in-progress gesture: at most one freehand
// stroke, one resize, and one drag at a time.
type gestureState struct {
	stroke *geometry.StrokeBuilder

	resizeID string
	resize   *geometry.ResizeGesture

	dragID     string
	dragOrigin shape.Shape
}

func (g *gestureState) cancelFor(id string) {
	if g.resizeID == id {
		g.resizeID = ""
		g.resize = nil
	}
	if g.dragID == id {
		g.dragID = ""
		g.dragOrigin = nil
	}
}

// SetTool switches the active tool.
func (s *Store) SetTool(t Tool) {
	s.mu.Lock()
	s.tool = t
	s.mu.Unlock()
}

// ActiveTool returns the active tool.
func (s *Store) ActiveTool() Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tool
}

// Camera returns the current view transform.
func (s *Store) Camera() Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

// Pan shifts the view offset.
func (s *Store) Pan(dx, dy float64) {
	s.mu.Lock()
	s.camera.OffsetX += dx
	s.camera.OffsetY += dy
	s.mu.Unlock()
	s.notify()
}

// SetZoom sets the zoom factor, ignoring non-positive values.
func (s *Store) SetZoom(zoom float64) {
	if zoom <= 0 {
		return
	}
	s.mu.Lock()
	s.camera.Zoom = zoom
	s.mu.Unlock()
	s.notify()
}

// Selection returns the selected shape id, or "".
func (s *Store) Selection() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Select sets the selection without a hit-test (keyboard navigation, tests).
func (s *Store) Select(id string) {
	s.mu.Lock()
	s.selection = id
	s.mu.Unlock()
	s.notify()
}

func (s *Store) entriesLocked() []geometry.Entry {
	out := make([]geometry.Entry, len(s.shapes))
	for i := range s.shapes {
		out[i] = geometry.Entry{ID: s.shapes[i].ID, Shape: s.shapes[i].Shape}
	}
	return out
}

// PressAt runs the selection hit-test at p and starts the matching gesture:
// a handle hit begins a resize, an interior hit begins a drag, and a miss
// clears the selection. The classified hit is returned for the caller's
// cursor feedback.
func (s *Store) PressAt(p shape.Point) geometry.Hit {
	s.mu.Lock()
	hit := geometry.HitTest(s.entriesLocked(), p)

	switch hit.Kind {
	case geometry.HitHandle:
		s.selection = hit.ID
		for i := range s.shapes {
			if s.shapes[i].ID == hit.ID {
				s.gesture.resizeID = hit.ID
				s.gesture.resize = geometry.StartResize(s.shapes[i].Shape, hit.Handle)
				break
			}
		}
	case geometry.HitInside:
		s.selection = hit.ID
		for i := range s.shapes {
			if s.shapes[i].ID == hit.ID {
				s.gesture.dragID = hit.ID
				s.gesture.dragOrigin = s.shapes[i].Shape.Clone()
				break
			}
		}
	case geometry.HitNone:
		s.selection = ""
	}
	s.mu.Unlock()

	s.notify()
	return hit
}

// EraseAt returns the id of the topmost shape the eraser would remove at p.
// The store is not mutated; deletion happens when the relay's delete event
// comes back (or immediately via ApplyRemoteDelete for local-only use).
func (s *Store) EraseAt(p shape.Point) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return geometry.EraseTarget(s.entriesLocked(), p)
}

// BeginStroke starts a freehand stroke, replacing any unfinished one.
func (s *Store) BeginStroke() {
	s.mu.Lock()
	s.gesture.stroke = geometry.NewStrokeBuilder()
	s.mu.Unlock()
}

// AddStrokePoint offers a pointer sample to the active stroke.
func (s *Store) AddStrokePoint(p shape.Point) {
	s.mu.Lock()
	builder := s.gesture.stroke
	s.mu.Unlock()
	if builder == nil {
		return
	}
	if builder.Add(p) {
		s.notify()
	}
}

// StrokePreview returns the active stroke's simplified working path.
func (s *Store) StrokePreview() []shape.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.stroke == nil {
		return nil
	}
	return s.gesture.stroke.Points()
}

// EndStroke finishes the active stroke and stages it as a pending pencil
// shape. Returns the ephemeral id, or false when the stroke was empty.
func (s *Store) EndStroke(style shape.Style) (string, bool) {
	s.mu.Lock()
	builder := s.gesture.stroke
	s.gesture.stroke = nil
	s.mu.Unlock()

	if builder == nil {
		return "", false
	}
	pencil := builder.Finish(style)
	if pencil == nil {
		return "", false
	}
	return s.AddPending(pencil), true
}

// UpdateResize recomputes the resize preview for the cumulative pointer
// delta from gesture start and installs it as the entry's visible shape.
func (s *Store) UpdateResize(dx, dy float64) {
	s.mu.Lock()
	if s.gesture.resize == nil {
		s.mu.Unlock()
		return
	}
	preview := s.gesture.resize.Apply(dx, dy)
	for i := range s.shapes {
		if s.shapes[i].ID == s.gesture.resizeID {
			s.shapes[i].Shape = preview
			break
		}
	}
	s.mu.Unlock()

	s.notify()
}

// EndResize finalizes the resize and returns the id and final shape so the
// caller can send the update message. Returns false when no resize was in
// progress (it may have been cancelled by a remote delete).
func (s *Store) EndResize(dx, dy float64) (string, shape.Shape, bool) {
	s.mu.Lock()
	gesture := s.gesture.resize
	id := s.gesture.resizeID
	s.gesture.resize = nil
	s.gesture.resizeID = ""
	if gesture == nil {
		s.mu.Unlock()
		return "", nil, false
	}
	final := gesture.Apply(dx, dy)
	for i := range s.shapes {
		if s.shapes[i].ID == id {
			s.shapes[i].Shape = final
			break
		}
	}
	s.mu.Unlock()

	s.notify()
	return id, final, true
}

// UpdateDrag recomputes the drag preview from the gesture-start snapshot.
func (s *Store) UpdateDrag(dx, dy float64) {
	s.mu.Lock()
	if s.gesture.dragOrigin == nil {
		s.mu.Unlock()
		return
	}
	preview := geometry.Translate(s.gesture.dragOrigin, dx, dy)
	for i := range s.shapes {
		if s.shapes[i].ID == s.gesture.dragID {
			s.shapes[i].Shape = preview
			break
		}
	}
	s.mu.Unlock()

	s.notify()
}

// EndDrag finalizes the drag and returns the id and final shape for the
// update message. A zero-delta drag still reports its id so the caller can
// treat it as a plain selection click.
func (s *Store) EndDrag(dx, dy float64) (string, shape.Shape, bool) {
	s.mu.Lock()
	origin := s.gesture.dragOrigin
	id := s.gesture.dragID
	s.gesture.dragOrigin = nil
	s.gesture.dragID = ""
	if origin == nil {
		s.mu.Unlock()
		return "", nil, false
	}
	final := geometry.Translate(origin, dx, dy)
	for i := range s.shapes {
		if s.shapes[i].ID == id {
			s.shapes[i].Shape = final
			break
		}
	}
	s.mu.Unlock()

	s.notify()
	return id, final, true
}
