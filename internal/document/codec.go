package document

import (
	"encoding/json"
	"fmt"

	"github.com/artdeck/artdeck-go/internal/geometry"
)

// header carries the fields shared by every variant on the wire.
type header struct {
	Type  Kind   `json:"type"`
	ID    string `json:"id,omitempty"`
	LogID int64  `json:"messageId,omitempty"`
}

// MarshalJSON writes a flat object: the variant fields plus type, id and
// messageId. Keys come out sorted, so equal shapes encode identically.
func (s Shape) MarshalJSON() ([]byte, error) {
	if s.Geometry == nil {
		return nil, fmt.Errorf("marshal shape %q: missing geometry", s.ID)
	}

	fields, err := geometryFields(s.Geometry)
	if err != nil {
		return nil, err
	}

	fields["type"], _ = json.Marshal(s.Geometry.Kind())
	if s.ID != "" {
		fields["id"], _ = json.Marshal(s.ID)
	}
	if s.LogID != 0 {
		fields["messageId"], _ = json.Marshal(s.LogID)
	}

	return json.Marshal(fields)
}

// UnmarshalJSON reads the flat wire object. Unknown variant tags are an
// error; missing numeric fields default to zero.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return fmt.Errorf("decode shape header: %w", err)
	}

	g, err := decodeGeometry(h.Type, data)
	if err != nil {
		return err
	}

	s.ID = h.ID
	s.LogID = h.LogID
	s.Geometry = g
	return nil
}

func decodeGeometry(kind Kind, data []byte) (Geometry, error) {
	switch kind {
	case KindRectangle:
		return decodeAs[Rectangle](data)
	case KindCircle:
		return decodeAs[Circle](data)
	case KindFreehand:
		return decodeAs[Freehand](data)
	case KindText:
		return decodeAs[Text](data)
	case KindLine:
		return decodeAs[Line](data)
	case KindRhombus:
		return decodeAs[Rhombus](data)
	case KindArrow:
		return decodeAs[Arrow](data)
	case "":
		return nil, fmt.Errorf("decode shape: missing type")
	default:
		return nil, fmt.Errorf("decode shape: unknown type %q", kind)
	}
}

func decodeAs[G Geometry](data []byte) (Geometry, error) {
	var g G
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode %s: %w", g.Kind(), err)
	}
	return g, nil
}

func geometryFields(g Geometry) (map[string]json.RawMessage, error) {
	body, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", g.Kind(), err)
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("marshal %s: %w", g.Kind(), err)
	}
	return fields, nil
}

// ContentKey is a canonical encoding of the variant and its defining fields,
// with both ids stripped. Two shapes have the same key exactly when
// StructurallyEqual holds, which lets the event log match deletes by content.
func ContentKey(s Shape) (string, error) {
	if s.Geometry == nil {
		return "", fmt.Errorf("content key: missing geometry")
	}
	data, err := Shape{Geometry: canonical(s.Geometry)}.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("content key: %w", err)
	}
	return string(data), nil
}

// canonical folds -0 into 0. The two compare equal but encode differently.
func canonical(g Geometry) Geometry {
	switch g := g.(type) {
	case Rectangle:
		g.X, g.Y, g.Width, g.Height = zero(g.X), zero(g.Y), zero(g.Width), zero(g.Height)
		return g
	case Rhombus:
		g.X, g.Y, g.Width, g.Height = zero(g.X), zero(g.Y), zero(g.Width), zero(g.Height)
		return g
	case Circle:
		g.CenterX, g.CenterY, g.Radius = zero(g.CenterX), zero(g.CenterY), zero(g.Radius)
		return g
	case Text:
		g.X, g.Y = zero(g.X), zero(g.Y)
		return g
	case Line:
		g.X1, g.Y1, g.X2, g.Y2 = zero(g.X1), zero(g.Y1), zero(g.X2), zero(g.Y2)
		return g
	case Arrow:
		g.X1, g.Y1, g.X2, g.Y2 = zero(g.X1), zero(g.Y1), zero(g.X2), zero(g.Y2)
		return g
	case Freehand:
		points := make([]geometry.Point, len(g.Points))
		for i, p := range g.Points {
			points[i] = geometry.Point{X: zero(p.X), Y: zero(p.Y)}
		}
		return Freehand{Points: points}
	}
	return g
}

func zero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
