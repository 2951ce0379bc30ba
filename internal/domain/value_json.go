package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type attributeWire struct {
	ID               string          `json:"id"`
	FieldType        string          `json:"fieldType"`
	Label            string          `json:"label"`
	Value            json.RawMessage `json:"value"`
	IsDifferentiator bool            `json:"isDifferentiator"`
}

// UnmarshalJSON reads fieldType first and decodes value into the matching
// shape.
func (a *AttributeInstance) UnmarshalJSON(b []byte) error {
	var w attributeWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	ft, err := ParseFieldType(w.FieldType)
	if err != nil {
		return err
	}
	v, err := DecodeValue(ft, w.Value)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", w.ID, err)
	}
	*a = AttributeInstance{
		ID:               w.ID,
		FieldType:        ft,
		Label:            w.Label,
		Value:            v,
		IsDifferentiator: w.IsDifferentiator,
	}
	return nil
}

// DecodeValue decodes raw JSON into the value shape of ft. Missing, null and,
// for numbers, empty-string payloads decode to a nil Value.
func DecodeValue(ft FieldType, raw json.RawMessage) (Value, error) {
	if !ft.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFieldType, ft)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	invalid := func(err error) error {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, ft, err)
	}
	switch DefaultValueFor(ft).(type) {
	case TextValue:
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return TextValue(s), nil
		}
		// numbers and booleans typed into a text field keep their literal form
		var lit interface{}
		if err := json.Unmarshal(raw, &lit); err != nil {
			return nil, invalid(err)
		}
		switch lit.(type) {
		case float64, bool:
			return TextValue(string(raw)), nil
		}
		return nil, invalid(fmt.Errorf("expected a string"))
	case NumberValue:
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return NumberValue(f), nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalid(err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, invalid(err)
		}
		return NumberValue(f), nil
	case BoolValue:
		var bv bool
		if err := json.Unmarshal(raw, &bv); err != nil {
			return nil, invalid(err)
		}
		return BoolValue(bv), nil
	case RangeValue:
		return decodeStrict[RangeValue](raw, invalid)
	case Dimension2DValue:
		return decodeStrict[Dimension2DValue](raw, invalid)
	case Dimension3DValue:
		return decodeStrict[Dimension3DValue](raw, invalid)
	case MeasureValue:
		return decodeStrict[MeasureValue](raw, invalid)
	case NumberWithUnitValue:
		return decodeStrict[NumberWithUnitValue](raw, invalid)
	case TextWithUnitValue:
		return decodeStrict[TextWithUnitValue](raw, invalid)
	}
	return nil, invalid(fmt.Errorf("no decoder"))
}

func decodeStrict[T Value](raw json.RawMessage, invalid func(error) error) (Value, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return nil, invalid(err)
	}
	return v, nil
}
