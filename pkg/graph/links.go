package graph

import (
	"github.com/sigco3111/relationship-visualizer/pkg/catalog"
	"github.com/sigco3111/relationship-visualizer/pkg/common"
)

// ResolveLinks pairs every relationship with the nodes named by its
// endpoints. Relationships with a missing endpoint are skipped without error,
// so the result never holds more links than there are relationships. Order
// follows the relationship list.
func ResolveLinks(relationships []common.Relationship, nodes []common.PositionedNode) []common.ResolvedLink {
	byID := make(map[string]common.PositionedNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	links := make([]common.ResolvedLink, 0, len(relationships))
	for _, rel := range relationships {
		source, ok := byID[rel.From]
		if !ok {
			continue
		}
		target, ok := byID[rel.To]
		if !ok {
			continue
		}

		style := catalog.RelationshipStyle(rel.Type)
		links = append(links, common.ResolvedLink{
			Source:      source,
			Target:      target,
			Type:        rel.Type,
			Description: rel.Description,
			Color:       style.Color,
			Label:       style.Label,
		})
	}

	return links
}
