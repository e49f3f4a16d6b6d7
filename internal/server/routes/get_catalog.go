package routes

import (
	"net/http"

	"github.com/sigco3111/relationship-visualizer/pkg/catalog"
	"github.com/sigco3111/relationship-visualizer/pkg/common"

	"github.com/labstack/echo/v4"
)

// GetCatalogHandler returns the roles and relationship types with their
// styles, in the order forms should offer them.
func GetCatalogHandler(c echo.Context) error {
	type roleEntry struct {
		Role  common.Role `json:"role"`
		Color string      `json:"color"`
	}

	type relationshipEntry struct {
		Type  common.RelationshipType `json:"type"`
		Color string                  `json:"color"`
		Label string                  `json:"label"`
	}

	type catalogResponse struct {
		Roles             []roleEntry         `json:"roles"`
		RelationshipTypes []relationshipEntry `json:"relationship_types"`
		DefaultLinkColor  string              `json:"default_link_color"`
	}

	res := catalogResponse{
		Roles:             make([]roleEntry, 0, len(catalog.Roles())),
		RelationshipTypes: make([]relationshipEntry, 0, len(catalog.RelationshipTypes())),
		DefaultLinkColor:  catalog.DefaultLinkColor,
	}
	for _, r := range catalog.Roles() {
		res.Roles = append(res.Roles, roleEntry{Role: r, Color: catalog.RoleStyle(r).Color})
	}
	for _, t := range catalog.RelationshipTypes() {
		style := catalog.RelationshipStyle(t)
		res.RelationshipTypes = append(res.RelationshipTypes, relationshipEntry{
			Type:  t,
			Color: style.Color,
			Label: style.Label,
		})
	}

	return c.JSON(http.StatusOK, res)
}
