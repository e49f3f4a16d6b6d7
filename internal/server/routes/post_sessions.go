package routes

import (
	"net/http"

	"github.com/sigco3111/relationship-visualizer/internal/session"
	"github.com/sigco3111/relationship-visualizer/pkg/common"
	"github.com/sigco3111/relationship-visualizer/pkg/graph"
	"github.com/sigco3111/relationship-visualizer/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// CreateSessionHandler opens a new empty diagram
func CreateSessionHandler(c echo.Context) error {
	s, err := app(c).Sessions.Create()
	if err != nil {
		return errorResponse(c, err)
	}

	view := s.View()
	return c.JSON(http.StatusCreated, sessionResponse{
		Message: "Session created",
		Session: &view,
	})
}

// AnalyzeHandler asks the inference backend for the characters of a work and
// replaces the diagram with the answer
func AnalyzeHandler(c echo.Context) error {
	type analyzeBody struct {
		Mode  string `json:"mode" validate:"required,oneof=title content url"`
		Input string `json:"input" validate:"required,max=200000"`
	}

	type analyzeResult struct {
		Fallback       graph.FallbackKind `json:"fallback"`
		Warnings       []graph.Warning    `json:"warnings"`
		NeedsAttention bool               `json:"needs_attention"`
	}

	type analyzeResponse struct {
		Message string         `json:"message"`
		Result  *analyzeResult `json:"result,omitempty"`
		Session *session.View  `json:"session,omitempty"`
	}

	s, err := lookupSession(c)
	if s == nil {
		return err
	}

	data := new(analyzeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Invalid request body",
		})
	}

	req := graph.Request{Mode: graph.Mode(data.Mode), Input: data.Input}
	outcome, err := s.Analyze(c.Request().Context(), app(c).Analyzer, req)
	if err != nil {
		logger.Debug("Analysis not applied", "session", s.ID(), "err", err)
		return errorResponse(c, err)
	}

	message := "Analysis applied"
	if outcome.Result.NeedsAttention() {
		message = outcome.Result.Warnings[0].Message
	}

	return c.JSON(http.StatusOK, analyzeResponse{
		Message: message,
		Result: &analyzeResult{
			Fallback:       outcome.Result.Fallback,
			Warnings:       outcome.Result.Warnings,
			NeedsAttention: outcome.Result.NeedsAttention(),
		},
		Session: &outcome.View,
	})
}

// AddCharacterHandler adds a character to the diagram
func AddCharacterHandler(c echo.Context) error {
	type addCharacterBody struct {
		Name        string `json:"name" validate:"required,max=200"`
		Role        string `json:"role" validate:"omitempty,oneof=main support villain minor"`
		Description string `json:"description" validate:"max=2000"`
	}

	s, err := lookupSession(c)
	if s == nil {
		return err
	}

	data := new(addCharacterBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, sessionResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, sessionResponse{Message: "Invalid request body"})
	}

	role := common.Role(data.Role)
	if role == "" {
		role = common.RoleMain
	}

	view, err := s.AddCharacter(common.Character{
		Name:        data.Name,
		Role:        role,
		Description: data.Description,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Message: "Character added",
		Session: &view,
	})
}

// AddRelationshipHandler adds a relationship to the diagram
func AddRelationshipHandler(c echo.Context) error {
	type addRelationshipBody struct {
		From        string `json:"from" validate:"required"`
		To          string `json:"to" validate:"required"`
		Type        string `json:"type" validate:"omitempty,oneof=family lover friend enemy colleague mentor"`
		Description string `json:"description" validate:"max=2000"`
	}

	s, err := lookupSession(c)
	if s == nil {
		return err
	}

	data := new(addRelationshipBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, sessionResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, sessionResponse{Message: "Invalid request body"})
	}

	relType := common.RelationshipType(data.Type)
	if relType == "" {
		relType = common.RelationshipFriend
	}

	view, err := s.AddRelationship(common.Relationship{
		From:        data.From,
		To:          data.To,
		Type:        relType,
		Description: data.Description,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Message: "Relationship added",
		Session: &view,
	})
}

// PointerHandler applies a pointer event to the diagram
func PointerHandler(c echo.Context) error {
	type pointerBody struct {
		Event   string   `json:"event" validate:"required,oneof=down move up"`
		NodeID  string   `json:"node_id"`
		X       float64  `json:"x"`
		Y       float64  `json:"y"`
		OriginX *float64 `json:"origin_x"`
		OriginY *float64 `json:"origin_y"`
	}

	s, err := lookupSession(c)
	if s == nil {
		return err
	}

	data := new(pointerBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, sessionResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, sessionResponse{Message: "Invalid request body"})
	}
	if data.Event == string(session.PointerDown) && data.NodeID == "" {
		return c.JSON(http.StatusBadRequest, sessionResponse{Message: "node_id is required for down events"})
	}

	ev := session.PointerEvent{
		Kind:   session.PointerKind(data.Event),
		NodeID: data.NodeID,
		Point:  common.Point{X: data.X, Y: data.Y},
	}
	if data.OriginX != nil && data.OriginY != nil {
		ev.Origin = &common.Point{X: *data.OriginX, Y: *data.OriginY}
	}

	view, err := s.Pointer(ev)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Message: "OK",
		Session: &view,
	})
}
