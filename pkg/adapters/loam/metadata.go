package loam

// NodeMetadata is the frontmatter of a function node document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type NodeMetadata struct {
	ID       string `json:"id" mapstructure:"id"`
	Equation string `json:"equation" mapstructure:"equation"`
	Next     string `json:"next" mapstructure:"next"`
	// Entry marks the node traversal starts from.
	Entry bool `json:"entry" mapstructure:"entry"`
}
