// Package graph renders the project reference graph as a Mermaid diagram.
package graph

import (
	"fmt"
	"strings"

	"typeref/internal/buildgraph"
	"typeref/pkg/domain"
)

// GenerateMermaid produces Mermaid flowchart syntax for the reference
// graph. Edges point from dependency to dependent. Staleness styling:
// fresh nodes green, stale yellow, unbuilt red.
func GenerateMermaid(g *buildgraph.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range g.Nodes() {
		safeID := sanitizeMermaidID(node.Project.ConfigPath)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, node.Project.Name()))
	}
	for _, edge := range g.Edges() {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n",
			sanitizeMermaidID(edge[0]), sanitizeMermaidID(edge[1])))
	}

	sb.WriteString("\n    %% Staleness Styles\n")
	sb.WriteString("    classDef fresh fill:#e8f5e9,stroke:#2e7d32,color:#000;\n")
	sb.WriteString("    classDef stale fill:#fff8e1,stroke:#fbc02d,color:#000;\n")
	sb.WriteString("    classDef unbuilt fill:#ffebee,stroke:#c62828,color:#000;\n")
	for _, node := range g.Nodes() {
		class := "fresh"
		switch node.State {
		case domain.StateStale:
			class = "stale"
		case domain.StateUnbuilt:
			class = "unbuilt"
		}
		sb.WriteString(fmt.Sprintf("    class %s %s;\n",
			sanitizeMermaidID(node.Project.ConfigPath), class))
	}
	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
