package shape

import (
	"encoding/json"
	"fmt"
)

// Union wraps a Shape so it can travel through JSON with a "type" tag. Wire
// messages and persisted records both embed it; decoding an unknown tag
// fails with ErrUnknownKind instead of guessing.
type Union struct {
	Shape Shape
}

// Wrap is a convenience constructor for message literals.
func Wrap(s Shape) *Union { return &Union{Shape: s} }

// MarshalJSON splices the kind tag into the variant's own fields.
func (u Union) MarshalJSON() ([]byte, error) {
	if u.Shape == nil {
		return []byte("null"), nil
	}
	body, err := json.Marshal(u.Shape)
	if err != nil {
		return nil, err
	}
	head := fmt.Sprintf(`{"type":%q`, u.Shape.Kind())
	if len(body) == 2 { // bare "{}"
		return []byte(head + "}"), nil
	}
	out := append([]byte(head+","), body[1:]...)
	return out, nil
}

// UnmarshalJSON dispatches on the "type" tag and decodes the matching
// variant struct.
func (u *Union) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		u.Shape = nil
		return nil
	}
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	s, err := newByKind(head.Type)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, s); err != nil {
		return err
	}
	u.Shape = s
	return nil
}

func newByKind(k Kind) (Shape, error) {
	switch k {
	case KindRect:
		return &Rect{}, nil
	case KindCircle:
		return &Circle{}, nil
	case KindDiamond:
		return &Diamond{}, nil
	case KindLine:
		return &Line{}, nil
	case KindArrow:
		return &Arrow{}, nil
	case KindPencil:
		return &Pencil{}, nil
	case KindText:
		return &Text{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
}

// Decode parses a raw JSON payload into a concrete shape variant.
func Decode(data []byte) (Shape, error) {
	var u Union
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return u.Shape, nil
}

// Encode serializes a shape with its kind tag.
func Encode(s Shape) ([]byte, error) {
	return json.Marshal(Union{Shape: s})
}
