// Package session owns the mutable state of one open diagram and serializes
// every change to it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sigco3111/relationship-visualizer/pkg/common"
	"github.com/sigco3111/relationship-visualizer/pkg/graph"
	"github.com/sigco3111/relationship-visualizer/pkg/interact"
	"github.com/sigco3111/relationship-visualizer/pkg/layout"
	"github.com/sigco3111/relationship-visualizer/pkg/logger"
	"github.com/sigco3111/relationship-visualizer/pkg/store"
)

var (
	ErrBusy         = errors.New("an analysis is already running")
	ErrSuperseded   = errors.New("analysis was cancelled or superseded by an edit")
	ErrUnknownNode  = errors.New("unknown node")
	ErrUnknownEvent = errors.New("unknown pointer event")
)

// Analyzer produces a graph for an analysis request.
type Analyzer interface {
	Analyze(ctx context.Context, req graph.Request) (graph.Result, error)
}

// PointerKind is the phase of a pointer gesture.
type PointerKind string

const (
	PointerDown PointerKind = "down"
	PointerMove PointerKind = "move"
	PointerUp   PointerKind = "up"
)

// PointerEvent is one pointer input. NodeID is used by PointerDown, Point by
// PointerMove. A non-nil Origin updates the canvas offset before the event is
// applied.
type PointerEvent struct {
	Kind   PointerKind
	NodeID string
	Point  common.Point
	Origin *common.Point
}

// View is a consistent snapshot of a session.
type View struct {
	ID            string                  `json:"id"`
	Characters    []common.Character      `json:"characters"`
	Relationships []common.Relationship   `json:"relationships"`
	Nodes         []common.PositionedNode `json:"nodes"`
	Links         []common.ResolvedLink   `json:"links"`
	Selected      string                  `json:"selected,omitempty"`
	Dragging      string                  `json:"dragging,omitempty"`
	Analyzing     bool                    `json:"analyzing"`
	Canvas        layout.Canvas           `json:"canvas"`
	Warnings      []graph.Warning         `json:"warnings"`
}

// Outcome is the result of an analysis that was applied to the session.
type Outcome struct {
	Result graph.Result `json:"result"`
	View   View         `json:"view"`
}

// Session is the state of one diagram: its graph store, the interaction
// controller and the analysis in flight, if any.
//
// All methods are safe for concurrent use. A single mutex orders every
// mutation; the inference call of Analyze runs without holding it, so
// pointer input and selection keep working while an analysis is pending.
//
// At most one analysis runs at a time. A manual structural edit cancels the
// pending analysis and its answer is discarded when it arrives.
type Session struct {
	id string

	mu         sync.Mutex
	store      *store.Store
	controller *interact.Controller
	analyzing  bool
	cancel     context.CancelFunc
	generation uint64
	warnings   []graph.Warning
	touched    time.Time
}

// New creates an empty session laid out on canvas.
func New(id string, canvas layout.Canvas) *Session {
	s := store.New(canvas)
	return &Session{
		id:         id,
		store:      s,
		controller: interact.NewController(s),
		warnings:   []graph.Warning{},
		touched:    time.Now(),
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	g := s.store.Graph()
	selected, _ := s.controller.Selected()
	dragging, _ := s.controller.Dragging()
	warnings := make([]graph.Warning, len(s.warnings))
	copy(warnings, s.warnings)

	return View{
		ID:            s.id,
		Characters:    g.Characters,
		Relationships: g.Relationships,
		Nodes:         s.store.Nodes(),
		Links:         s.store.Links(),
		Selected:      selected,
		Dragging:      dragging,
		Analyzing:     s.analyzing,
		Canvas:        s.store.Canvas(),
		Warnings:      warnings,
	}
}

func (s *Session) touch() {
	s.touched = time.Now()
}

// LastActive returns the time of the last change or read through View.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Analyze runs analyzer on req and replaces the graph with the result.
//
// It returns ErrBusy when another analysis is pending and ErrSuperseded when
// this analysis was cancelled or overtaken by a manual edit before its answer
// arrived. Inference failures are not errors; they yield a fallback graph
// and warnings in the Outcome.
func (s *Session) Analyze(ctx context.Context, analyzer Analyzer, req graph.Request) (Outcome, error) {
	s.mu.Lock()
	if s.analyzing {
		s.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	s.generation++
	gen := s.generation
	actx, cancel := context.WithCancel(ctx)
	s.analyzing = true
	s.cancel = cancel
	s.touch()
	s.mu.Unlock()

	logger.Debug("[Session] Analysis started", "session", s.id, "mode", req.Mode, "generation", gen)
	result, err := analyzer.Analyze(actx, req)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		logger.Info("[Session] Discarding superseded analysis", "session", s.id, "generation", gen)
		return Outcome{}, ErrSuperseded
	}
	s.analyzing = false
	s.cancel = nil
	s.touch()

	if err != nil {
		return Outcome{}, fmt.Errorf("analysis failed: %w", err)
	}

	s.store.Replace(result.Graph)
	s.controller.Prune()
	s.warnings = result.Warnings
	if s.warnings == nil {
		s.warnings = []graph.Warning{}
	}

	return Outcome{Result: result, View: s.viewLocked()}, nil
}

// CancelAnalysis cancels the pending analysis. It reports whether one was
// pending.
func (s *Session) CancelAnalysis() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.supersedeLocked("cancelled")
}

func (s *Session) supersedeLocked(reason string) bool {
	if !s.analyzing {
		return false
	}
	s.cancel()
	s.cancel = nil
	s.analyzing = false
	s.generation++
	logger.Info("[Session] Pending analysis stopped", "session", s.id, "reason", reason)
	return true
}

// AddCharacter adds c and lays out all nodes again. A pending analysis is
// superseded.
func (s *Session) AddCharacter(c common.Character) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.AddCharacter(c); err != nil {
		return View{}, err
	}
	s.supersedeLocked("character added")
	s.touch()
	return s.viewLocked(), nil
}

// AddRelationship adds r. Node positions are left untouched. A pending
// analysis is superseded.
func (s *Session) AddRelationship(r common.Relationship) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.AddRelationship(r); err != nil {
		return View{}, err
	}
	s.supersedeLocked("relationship added")
	s.touch()
	return s.viewLocked(), nil
}

// Pointer applies one pointer event. Events that do not apply in the current
// drag state are ignored.
func (s *Session) Pointer(ev PointerEvent) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Origin != nil {
		s.controller.SetOrigin(*ev.Origin)
	}

	switch ev.Kind {
	case PointerDown:
		s.controller.PointerDown(ev.NodeID)
	case PointerMove:
		s.controller.PointerMove(ev.Point)
	case PointerUp:
		s.controller.PointerUp()
	default:
		return View{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}

	s.touch()
	return s.viewLocked(), nil
}

// Select selects the node with the given id. An empty id clears the
// selection.
func (s *Session) Select(id string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		s.controller.ClearSelection()
	} else if !s.controller.Select(id) {
		return View{}, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}

	s.touch()
	return s.viewLocked(), nil
}

// Close cancels any pending analysis.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked("session closed")
}
