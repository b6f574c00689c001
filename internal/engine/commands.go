package engine

import (
	"encoding/json"
	"math"

	"github.com/artdeck/artdeck-go/internal/document"
	"github.com/artdeck/artdeck-go/internal/geometry"
)

// PathCommand is one canvas path verb and its operands, e.g. ["M", x, y].
type PathCommand []interface{}

// DrawCommand is a single drawing operation for the renderer. Paths and text
// positions are in document space; Transform maps them to the screen.
type DrawCommand struct {
	Op        string        `json:"op"`                // "path" or "text"
	ShapeID   string        `json:"shapeId,omitempty"` // For hit correlation
	Kind      document.Kind `json:"kind,omitempty"`
	Transform []float64     `json:"transform"` // [a, b, c, d, e, f] affine matrix
	Path      []PathCommand `json:"path,omitempty"`
	Text      string        `json:"text,omitempty"`
	X         float64       `json:"x,omitempty"`
	Y         float64       `json:"y,omitempty"`
	Preview   bool          `json:"preview,omitempty"` // uncommitted gesture
}

const arrowHeadLength = 10.0

// CompileDrawCommands generates a draw command buffer for shapes in
// painter's order (back to front).
func CompileDrawCommands(shapes []document.Shape, view geometry.Matrix2D) []DrawCommand {
	commands := make([]DrawCommand, 0, len(shapes))
	for _, s := range shapes {
		if cmd, ok := compileShape(s, view); ok {
			commands = append(commands, cmd)
		}
	}
	return commands
}

func compileShape(s document.Shape, view geometry.Matrix2D) (DrawCommand, bool) {
	cmd := DrawCommand{
		Op:        "path",
		ShapeID:   s.ID,
		Kind:      s.Kind(),
		Transform: view[:],
	}

	switch g := s.Geometry.(type) {
	case document.Rectangle:
		cmd.Path = rectPath(g.X, g.Y, g.Width, g.Height)
	case document.Rhombus:
		cmd.Path = rhombusPath(g)
	case document.Circle:
		cmd.Path = circlePath(g)
	case document.Line:
		cmd.Path = []PathCommand{{"M", g.X1, g.Y1}, {"L", g.X2, g.Y2}}
	case document.Arrow:
		cmd.Path = arrowPath(g)
	case document.Freehand:
		cmd.Path = polylinePath(g.Points)
	case document.Text:
		cmd.Op = "text"
		cmd.Text = g.Content
		cmd.X, cmd.Y = g.X, g.Y
	default:
		return DrawCommand{}, false
	}
	return cmd, true
}

func rectPath(x, y, w, h float64) []PathCommand {
	return []PathCommand{
		{"M", x, y},
		{"L", x + w, y},
		{"L", x + w, y + h},
		{"L", x, y + h},
		{"Z"},
	}
}

func rhombusPath(g document.Rhombus) []PathCommand {
	cx, cy := g.X+g.Width/2, g.Y+g.Height/2
	return []PathCommand{
		{"M", cx, g.Y},
		{"L", g.X + g.Width, cy},
		{"L", cx, g.Y + g.Height},
		{"L", g.X, cy},
		{"Z"},
	}
}

// circlePath approximates a circle with four cubic beziers.
func circlePath(g document.Circle) []PathCommand {
	// k = 4 * (sqrt(2) - 1) / 3
	const k = 0.5522847498
	cx, cy, r := g.CenterX, g.CenterY, g.Radius
	kr := r * k

	return []PathCommand{
		{"M", cx + r, cy},
		{"C", cx + r, cy + kr, cx + kr, cy + r, cx, cy + r},
		{"C", cx - kr, cy + r, cx - r, cy + kr, cx - r, cy},
		{"C", cx - r, cy - kr, cx - kr, cy - r, cx, cy - r},
		{"C", cx + kr, cy - r, cx + r, cy - kr, cx + r, cy},
		{"Z"},
	}
}

// arrowPath is the shaft plus two head strokes at ±30° from it.
func arrowPath(g document.Arrow) []PathCommand {
	angle := math.Atan2(g.Y2-g.Y1, g.X2-g.X1)
	path := []PathCommand{{"M", g.X1, g.Y1}, {"L", g.X2, g.Y2}}
	for _, side := range []float64{-math.Pi / 6, math.Pi / 6} {
		a := angle + math.Pi + side
		path = append(path,
			PathCommand{"M", g.X2, g.Y2},
			PathCommand{"L", g.X2 + arrowHeadLength*math.Cos(a), g.Y2 + arrowHeadLength*math.Sin(a)},
		)
	}
	return path
}

func polylinePath(points []geometry.Point) []PathCommand {
	if len(points) == 0 {
		return nil
	}
	path := make([]PathCommand, 0, len(points))
	path = append(path, PathCommand{"M", points[0].X, points[0].Y})
	for _, p := range points[1:] {
		path = append(path, PathCommand{"L", p.X, p.Y})
	}
	return path
}

// DrawCommands compiles the document plus any gesture preview for the
// current viewport.
func (e *Engine) DrawCommands() []DrawCommand {
	view := e.view.Matrix()
	commands := CompileDrawCommands(e.doc.All(), view)

	if s, ok := e.Preview(); ok {
		if cmd, ok := compileShape(s, view); ok {
			cmd.Preview = true
			commands = append(commands, cmd)
		}
	}
	if stroke := e.EraseStroke(); len(stroke) > 0 {
		commands = append(commands, DrawCommand{
			Op:        "path",
			Transform: view[:],
			Path:      polylinePath(stroke),
			Preview:   true,
		})
	}
	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
