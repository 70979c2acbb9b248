package texast

import "strings"

// Dump renders the tree one node per line as Kind(lexeme), with box-drawing
// guides in the style of the tree(1) command.
func Dump(t *Tree) string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	dumpNode(&sb, t, t.Root(), "", "")
	return sb.String()
}

func dumpNode(sb *strings.Builder, t *Tree, id NodeID, first, rest string) {
	node := t.Node(id)
	sb.WriteString(first)
	sb.WriteString(node.Kind.String())
	sb.WriteByte('(')
	sb.WriteString(node.Lexeme)
	sb.WriteByte(')')
	if node.Base != "" {
		sb.WriteString(" base=")
		sb.WriteString(node.Base)
	}
	sb.WriteByte('\n')

	children := node.Children
	for i, child := range children {
		if i == len(children)-1 {
			dumpNode(sb, t, child, rest+"└── ", rest+"    ")
		} else {
			dumpNode(sb, t, child, rest+"├── ", rest+"│   ")
		}
	}
}
