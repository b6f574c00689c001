package engine

import "fmt"

// Tool is the active input mode.
type Tool string

const (
	ToolSelect  Tool = "select"
	ToolRect    Tool = "rect"
	ToolCircle  Tool = "circle"
	ToolPencil  Tool = "pencil"
	ToolLine    Tool = "line"
	ToolArrow   Tool = "arrow"
	ToolRhombus Tool = "rhombus"
	ToolText    Tool = "text"
	ToolErase   Tool = "erase"
	ToolPan     Tool = "pan"
	ToolClear   Tool = "clear"
)

var toolAliases = map[string]Tool{
	"rectangle": ToolRect,
	"freehand":  ToolPencil,
	"eraser":    ToolErase,
	"hand":      ToolPan,
}

// ParseTool accepts the canonical tool names plus a few aliases used by
// older clients.
func ParseTool(name string) (Tool, error) {
	switch t := Tool(name); t {
	case ToolSelect, ToolRect, ToolCircle, ToolPencil, ToolLine, ToolArrow,
		ToolRhombus, ToolText, ToolErase, ToolPan, ToolClear:
		return t, nil
	}
	if t, ok := toolAliases[name]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown tool %q", name)
}

// draws reports whether the tool produces a box- or segment-shaped preview
// between press and release.
func (t Tool) draws() bool {
	switch t {
	case ToolRect, ToolCircle, ToolLine, ToolArrow, ToolRhombus:
		return true
	}
	return false
}
