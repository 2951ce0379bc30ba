package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NotSet is what FormatForDisplay renders for a missing value.
const NotSet = "Not set"

// Value is the typed payload of an attribute. The set of implementations is
// closed; each field type maps to exactly one of them (see shapeOf).
// A nil Value means the attribute has no value at all.
type Value interface {
	attributeValue()
}

// TextValue backs text, textarea, date, email, url, phone, color and size.
type TextValue string

type NumberValue float64

type BoolValue bool

type RangeValue struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Dimension2DValue struct {
	Unit   string  `json:"unit"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

type Dimension3DValue struct {
	Unit   string  `json:"unit"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// MeasureValue backs weight, volume, area and duration.
type MeasureValue struct {
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

// NumberWithUnitValue picks its catalog through UnitType. Value is nil until
// the user enters a number.
type NumberWithUnitValue struct {
	UnitType UnitType `json:"unitType"`
	Unit     string   `json:"unit"`
	Value    *float64 `json:"value,omitempty"`
}

type TextWithUnitValue struct {
	UnitType UnitType `json:"unitType"`
	Unit     string   `json:"unit"`
	Value    *string  `json:"value,omitempty"`
}

func (TextValue) attributeValue()           {}
func (NumberValue) attributeValue()         {}
func (BoolValue) attributeValue()           {}
func (RangeValue) attributeValue()          {}
func (Dimension2DValue) attributeValue()    {}
func (Dimension3DValue) attributeValue()    {}
func (MeasureValue) attributeValue()        {}
func (NumberWithUnitValue) attributeValue() {}
func (TextWithUnitValue) attributeValue()   {}

// WithUnitType switches the catalog and resets Unit to its first entry.
func (v NumberWithUnitValue) WithUnitType(ut UnitType) (NumberWithUnitValue, error) {
	c, err := CatalogForUnitType(ut)
	if err != nil {
		return v, err
	}
	v.UnitType = ut
	v.Unit = c.First()
	return v, nil
}

func (v TextWithUnitValue) WithUnitType(ut UnitType) (TextWithUnitValue, error) {
	c, err := CatalogForUnitType(ut)
	if err != nil {
		return v, err
	}
	v.UnitType = ut
	v.Unit = c.First()
	return v, nil
}

// Float64 is a convenience for building NumberWithUnitValue literals.
func Float64(f float64) *float64 { return &f }

func String(s string) *string { return &s }

// DefaultValueFor returns the zero value of the field type's shape. It
// panics on an unknown type.
func DefaultValueFor(ft FieldType) Value {
	first := CatalogFor(ft).First()
	switch ft {
	case FieldNumber:
		return NumberValue(0)
	case FieldBoolean:
		return BoolValue(false)
	case FieldRange:
		return RangeValue{}
	case FieldDimension2D:
		return Dimension2DValue{Unit: first}
	case FieldDimension3D:
		return Dimension3DValue{Unit: first}
	case FieldWeight, FieldVolume, FieldArea, FieldDuration:
		return MeasureValue{Unit: first}
	case FieldNumberWithUnit:
		return NumberWithUnitValue{UnitType: DefaultUnitType, Unit: first}
	case FieldTextWithUnit:
		return TextWithUnitValue{UnitType: DefaultUnitType, Unit: first}
	default:
		return TextValue("")
	}
}

// FormatForDisplay renders a value as one human readable string. The result
// doubles as the equality key of two values: there is no unit conversion,
// so "1000 g" and "1 kg" are different.
func FormatForDisplay(v Value) string {
	switch t := v.(type) {
	case nil:
		return NotSet
	case TextValue:
		if t == "" {
			return NotSet
		}
		return string(t)
	case NumberValue:
		return formatNumber(float64(t))
	case BoolValue:
		return strconv.FormatBool(bool(t))
	case MeasureValue:
		return formatNumber(t.Value) + " " + t.Unit
	case NumberWithUnitValue:
		if t.Value == nil {
			return "0 " + t.Unit
		}
		return formatNumber(*t.Value) + " " + t.Unit
	case TextWithUnitValue:
		if t.Value == nil {
			return "0 " + t.Unit
		}
		return *t.Value + " " + t.Unit
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// IsSet reports whether a value counts as present: nil, "", 0, NaN and false
// do not. Composite values always count, even when every field is zero.
func IsSet(v Value) bool {
	switch t := v.(type) {
	case nil:
		return false
	case TextValue:
		return t != ""
	case NumberValue:
		return t != 0 && !math.IsNaN(float64(t))
	case BoolValue:
		return bool(t)
	default:
		return true
	}
}

// CloneValue copies the pointer fields of unit composites so the copy can be
// edited independently.
func CloneValue(v Value) Value {
	switch t := v.(type) {
	case NumberWithUnitValue:
		if t.Value != nil {
			t.Value = Float64(*t.Value)
		}
		return t
	case TextWithUnitValue:
		if t.Value != nil {
			t.Value = String(*t.Value)
		}
		return t
	default:
		return v
	}
}

// ValidateValue checks that v has the shape of ft and that its unit belongs
// to the right catalog. A nil value is valid for every type.
func ValidateValue(ft FieldType, v Value) error {
	if !ft.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFieldType, ft)
	}
	if v == nil {
		return nil
	}
	if got, want := shapeName(v), shapeName(DefaultValueFor(ft)); got != want {
		return fmt.Errorf("%w: %s expects %s, got %s", ErrInvalidValue, ft, want, got)
	}
	unitIn := func(c UnitCatalog, unit string) error {
		if !c.Has(unit) {
			return fmt.Errorf("%w: unit %q is not a %s unit", ErrInvalidValue, unit, c.Type())
		}
		return nil
	}
	switch t := v.(type) {
	case RangeValue:
		if t.Min > t.Max {
			return fmt.Errorf("%w: range min %s is above max %s", ErrInvalidValue, formatNumber(t.Min), formatNumber(t.Max))
		}
	case Dimension2DValue:
		return unitIn(CatalogFor(ft), t.Unit)
	case Dimension3DValue:
		return unitIn(CatalogFor(ft), t.Unit)
	case MeasureValue:
		return unitIn(CatalogFor(ft), t.Unit)
	case NumberWithUnitValue:
		c, err := CatalogForUnitType(t.UnitType)
		if err != nil {
			return err
		}
		return unitIn(c, t.Unit)
	case TextWithUnitValue:
		c, err := CatalogForUnitType(t.UnitType)
		if err != nil {
			return err
		}
		return unitIn(c, t.Unit)
	}
	return nil
}

func shapeName(v Value) string {
	switch v.(type) {
	case TextValue:
		return "text"
	case NumberValue:
		return "number"
	case BoolValue:
		return "boolean"
	case RangeValue:
		return "range"
	case Dimension2DValue:
		return "dimension2d"
	case Dimension3DValue:
		return "dimension3d"
	case MeasureValue:
		return "measure"
	case NumberWithUnitValue:
		return "number_with_unit"
	case TextWithUnitValue:
		return "text_with_unit"
	}
	return fmt.Sprintf("%T", v)
}

// formatNumber prints a float the way a browser does when it turns a number
// into a string: shortest round-trip digits, exponent form outside
// [1e-6, 1e21).
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	// Go pads the exponent to two digits ("1e-07")
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + exp
}
