// Package layout places characters on the logical canvas.
//
// The placement is static: Radial spreads nodes evenly on a circle in input
// order, and Reposition moves a single node without touching the others.
package layout

import (
	"math"

	"github.com/sigco3111/relationship-visualizer/pkg/catalog"
	"github.com/sigco3111/relationship-visualizer/pkg/common"
)

// Canvas is the logical coordinate space used for layout. Rendering layers
// scale it to their actual pixel size.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultCanvas is the 800x600 space every diagram is laid out in.
var DefaultCanvas = Canvas{Width: 800, Height: 600}

// radiusFactor is the share of the shorter canvas side used as circle radius.
const radiusFactor = 0.25

// Center returns the middle of the canvas.
func (c Canvas) Center() common.Point {
	return common.Point{X: c.Width / 2, Y: c.Height / 2}
}

// Radius returns the radius of the layout circle.
func (c Canvas) Radius() float64 {
	return math.Min(c.Width, c.Height) * radiusFactor
}

// Radial computes a position for every character. Character i of n is placed
// at angle 2πi/n around the canvas center. The result always has one node per
// character and is empty (not nil) for an empty input.
func Radial(canvas Canvas, characters []common.Character) []common.PositionedNode {
	nodes := make([]common.PositionedNode, 0, len(characters))
	n := len(characters)
	if n == 0 {
		return nodes
	}

	center := canvas.Center()
	radius := canvas.Radius()
	step := 2 * math.Pi / float64(n)

	for i, char := range characters {
		angle := float64(i) * step
		nodes = append(nodes, common.PositionedNode{
			ID:          char.Name,
			Name:        char.Name,
			Role:        char.Role,
			Description: char.Description,
			X:           center.X + radius*math.Cos(angle),
			Y:           center.Y + radius*math.Sin(angle),
			Color:       catalog.RoleStyle(char.Role).Color,
		})
	}

	return nodes
}

// Reposition returns a copy of nodes in which only the node with the given id
// is moved to p. Every other node keeps its exact coordinates. If no node
// matches, the copy is identical to the input.
func Reposition(nodes []common.PositionedNode, id string, p common.Point) []common.PositionedNode {
	out := make([]common.PositionedNode, len(nodes))
	copy(out, nodes)
	for i := range out {
		if out[i].ID == id {
			out[i].X = p.X
			out[i].Y = p.Y
		}
	}
	return out
}

// Find returns the node with the given id.
func Find(nodes []common.PositionedNode, id string) (common.PositionedNode, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
	}
	return common.PositionedNode{}, false
}
