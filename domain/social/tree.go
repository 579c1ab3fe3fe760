package social

import (
	"strings"
)

// DefaultIndent is the number of spaces per tree level.
const DefaultIndent = 4

const (
	connectorBar   = "|"
	connectorArrow = "| >"
)

type TreeLine struct {
	Depth int
	Text  string
}

// PostTree is a flattened pre-order rendering of a post and its comments.
// Lines are kept structured and only formatted by String.
type PostTree struct {
	Indent int
	Lines  []TreeLine
}

func NewPostTree(indent int) *PostTree {
	if indent < 0 {
		indent = DefaultIndent
	}
	return &PostTree{Indent: indent}
}

// AddNode appends every line of a multi-line block at the given depth.
func (t *PostTree) AddNode(depth int, block string) {
	for _, line := range strings.Split(block, "\n") {
		t.Lines = append(t.Lines, TreeLine{Depth: depth, Text: line})
	}
}

// AddConnector marks the start of a child of a node rendered at depth.
func (t *PostTree) AddConnector(depth int) {
	t.Lines = append(t.Lines,
		TreeLine{Depth: depth, Text: connectorBar},
		TreeLine{Depth: depth, Text: connectorArrow},
	)
}

func (t PostTree) String() string {
	var sb strings.Builder
	for _, line := range t.Lines {
		sb.WriteString(strings.Repeat(" ", line.Depth*t.Indent))
		sb.WriteString(line.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}
