package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/funchain/pkg/domain"
)

// endID is the synthetic node every terminal node points to.
const endID = "__end"

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	FailedNodes  []string
	// Outputs labels visited nodes with the value they produced.
	Outputs map[string]domain.Value
}

// OverlayFromResult builds an overlay from a run trace. A node visited twice keeps its
// last output.
func OverlayFromResult(res *domain.Result) *GraphOverlay {
	o := &GraphOverlay{Outputs: make(map[string]domain.Value)}
	for _, step := range res.Trace {
		o.VisitedNodes = append(o.VisitedNodes, step.NodeID)
		if v, ok := step.Outcome.Value(); ok {
			o.Outputs[step.NodeID] = v
			continue
		}
		o.FailedNodes = append(o.FailedNodes, step.NodeID)
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart from the chain nodes.
// It applies semantic styling:
// - Entry: ((Circle))
// - Missing successor: {{Hexagon}} reached by a dotted edge
// - Default: [Rectangle]
// Nodes without a successor point to a shared End node.
// It also applies overlay styles (visited/failed) if provided.
func GenerateMermaid(nodes []domain.FunctionNode, entry string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}

	hasEnd := false
	missing := make(map[string]bool)

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		if node.ID == entry {
			opener, closer = "((", "))"
		}

		text := fmt.Sprintf("%s: %s", node.ID, node.Equation)
		if overlay != nil {
			if v, ok := overlay.Outputs[node.ID]; ok {
				text = fmt.Sprintf("%s <br/> = %s", text, v)
			}
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(text), closer)

		switch {
		case node.Next == "":
			hasEnd = true
			fmt.Fprintf(&sb, "    %s --> %s\n", safeID, endID)
		case known[node.Next]:
			fmt.Fprintf(&sb, "    %s --> %s\n", safeID, sanitizeMermaidID(node.Next))
		default:
			missing[node.Next] = true
			fmt.Fprintf(&sb, "    %s -.-> %s\n", safeID, sanitizeMermaidID(node.Next))
		}
	}

	for _, id := range slices.Sorted(maps.Keys(missing)) {
		fmt.Fprintf(&sb, "    %s{{\"%s (missing)\"}}\n", sanitizeMermaidID(id), escapeLabel(id))
	}
	if hasEnd {
		fmt.Fprintf(&sb, "    %s([\"%s\"])\n", endID, domain.EndLabel)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:3px,color:#000;\n")

		styled := make(map[string]bool)
		for _, id := range overlay.FailedNodes {
			safeID := sanitizeMermaidID(id)
			if !styled[safeID] && safeID != "" {
				styled[safeID] = true
				fmt.Fprintf(&sb, "    class %s failed;\n", safeID)
			}
		}
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !styled[safeID] && safeID != "" {
				styled[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
