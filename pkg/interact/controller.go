// Package interact turns pointer events into node moves and selections.
package interact

import "github.com/sigco3111/relationship-visualizer/pkg/common"

// Repositioner is the part of the graph store the controller drives.
type Repositioner interface {
	Reposition(id string, p common.Point) bool
	HasNode(id string) bool
}

// Controller is the drag state machine of one diagram. It is either idle or
// dragging exactly one node; selection is tracked separately and does not
// depend on the drag state.
//
// Pointer coordinates arrive in the coordinate space of the viewer. The
// offset set with SetOrigin is subtracted before a node is moved.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	store    Repositioner
	origin   common.Point
	dragging string
	selected string
}

// NewController returns an idle controller with no selection.
func NewController(store Repositioner) *Controller {
	return &Controller{store: store}
}

// SetOrigin sets the position of the canvas inside the viewer.
func (c *Controller) SetOrigin(origin common.Point) {
	c.origin = origin
}

// Origin returns the current canvas offset.
func (c *Controller) Origin() common.Point {
	return c.origin
}

// PointerDown starts dragging the node with the given id. It is ignored
// while another drag is in progress or when the node does not exist, and
// reports whether a drag started.
func (c *Controller) PointerDown(id string) bool {
	if c.dragging != "" {
		return false
	}
	if !c.store.HasNode(id) {
		return false
	}
	c.dragging = id
	return true
}

// PointerMove moves the dragged node under the pointer. It does nothing
// while idle and reports whether a node was moved.
func (c *Controller) PointerMove(p common.Point) bool {
	if c.dragging == "" {
		return false
	}
	target := common.Point{X: p.X - c.origin.X, Y: p.Y - c.origin.Y}
	if !c.store.Reposition(c.dragging, target) {
		c.dragging = ""
		return false
	}
	return true
}

// PointerUp ends any drag. The node keeps its last position.
func (c *Controller) PointerUp() {
	c.dragging = ""
}

// Select marks the node with the given id as selected. An unknown id clears
// the selection.
func (c *Controller) Select(id string) bool {
	if !c.store.HasNode(id) {
		c.selected = ""
		return false
	}
	c.selected = id
	return true
}

// ClearSelection removes the selection.
func (c *Controller) ClearSelection() {
	c.selected = ""
}

// Prune drops a drag or selection whose node no longer exists. It is called
// after the graph was replaced.
func (c *Controller) Prune() {
	if c.dragging != "" && !c.store.HasNode(c.dragging) {
		c.dragging = ""
	}
	if c.selected != "" && !c.store.HasNode(c.selected) {
		c.selected = ""
	}
}

// Reset returns the controller to idle with no selection. The origin is kept.
func (c *Controller) Reset() {
	c.dragging = ""
	c.selected = ""
}

// Dragging returns the id of the node being dragged.
func (c *Controller) Dragging() (string, bool) {
	return c.dragging, c.dragging != ""
}

// Selected returns the id of the selected node.
func (c *Controller) Selected() (string, bool) {
	return c.selected, c.selected != ""
}
