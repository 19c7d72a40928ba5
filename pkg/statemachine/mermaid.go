package statemachine

import (
	"fmt"
	"strings"
)

// Mermaid renders the registry's transition graph as a Mermaid flowchart,
// useful for documentation and diagnostics. The default state is drawn as a
// circle; edges bound to a custom handler carry the handler name as a label.
func Mermaid(r *Registry) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	def, hasDefault := r.Default()
	for _, state := range r.States() {
		id := mermaidID(state.Name)
		opener, closer := "[", "]"
		if hasDefault && state.Name == def.Name {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, r.State(state.Name).Title(), closer))
	}

	for _, edge := range r.Edges() {
		from := mermaidID(edge.From)
		to := mermaidID(edge.To)
		if edge.Handler != "" {
			sb.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", from, edge.Handler, to))
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
	}

	return sb.String()
}

func mermaidID(name string) string {
	replacer := strings.NewReplacer("/", "_", " ", "_", "-", "_", ".", "_")
	return replacer.Replace(name)
}
