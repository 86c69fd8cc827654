package loam

import "github.com/aretw0/checkmark/pkg/schema"

// Document kinds.
const (
	KindCatalog  = "catalog"
	KindLocation = "location"
)

// DocumentMetadata is the frontmatter of a catalog document.
//
// A repository holds one document of kind "catalog" carrying the world wiring
// (items, modes, requirements, nodes, values, pools, bosses, placements) and one
// document per location. Documents without a kind are locations.
type DocumentMetadata struct {
	ID   string `json:"id" mapstructure:"id"`
	Kind string `json:"kind" mapstructure:"kind"`
	Name string `json:"name" mapstructure:"name"`

	Items        map[string]int           `json:"items" mapstructure:"items"`
	Modes        map[string]string        `json:"modes" mapstructure:"modes"`
	Requirements []schema.RequirementSpec `json:"requirements" mapstructure:"requirements"`
	Nodes        []schema.NodeSpec        `json:"nodes" mapstructure:"nodes"`
	Values       []schema.ValueSpec       `json:"values" mapstructure:"values"`
	Pools        []schema.PoolSpec        `json:"pools" mapstructure:"pools"`
	Bosses       map[string]string        `json:"bosses" mapstructure:"bosses"`
	Placements   []schema.PlacementSpec   `json:"placements" mapstructure:"placements"`

	// Order sorts locations; ties fall back to the ID.
	Order    int                  `json:"order" mapstructure:"order"`
	Sections []schema.SectionSpec `json:"sections" mapstructure:"sections"`
}
