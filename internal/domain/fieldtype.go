package domain

import (
	"fmt"
	"strings"
)

type FieldType string

const (
	FieldText           FieldType = "text"
	FieldTextarea       FieldType = "textarea"
	FieldNumber         FieldType = "number"
	FieldBoolean        FieldType = "boolean"
	FieldDate           FieldType = "date"
	FieldEmail          FieldType = "email"
	FieldURL            FieldType = "url"
	FieldPhone          FieldType = "phone"
	FieldColor          FieldType = "color"
	FieldSize           FieldType = "size"
	FieldRange          FieldType = "range"
	FieldDimension2D    FieldType = "dimension2d"
	FieldDimension3D    FieldType = "dimension3d"
	FieldWeight         FieldType = "weight"
	FieldVolume         FieldType = "volume"
	FieldArea           FieldType = "area"
	FieldDuration       FieldType = "duration"
	FieldNumberWithUnit FieldType = "number_with_unit"
	FieldTextWithUnit   FieldType = "text_with_unit"
)

type fieldTypeInfo struct {
	label    string
	unitType UnitType // catalog backing the type, "" when it has none
}

// display order
var fieldTypeOrder = []FieldType{
	FieldText, FieldTextarea, FieldNumber, FieldBoolean, FieldDate,
	FieldEmail, FieldURL, FieldPhone, FieldColor, FieldSize, FieldRange,
	FieldDimension2D, FieldDimension3D, FieldWeight, FieldVolume, FieldArea,
	FieldDuration, FieldNumberWithUnit, FieldTextWithUnit,
}

var fieldTypes = map[FieldType]fieldTypeInfo{
	FieldText:           {label: "Text"},
	FieldTextarea:       {label: "Text Area"},
	FieldNumber:         {label: "Number"},
	FieldBoolean:        {label: "Yes/No"},
	FieldDate:           {label: "Date"},
	FieldEmail:          {label: "Email"},
	FieldURL:            {label: "URL"},
	FieldPhone:          {label: "Phone"},
	FieldColor:          {label: "Color"},
	FieldSize:           {label: "Size"},
	FieldRange:          {label: "Range"},
	FieldDimension2D:    {label: "Dimensions (L × W)", unitType: UnitTypeLength},
	FieldDimension3D:    {label: "Dimensions (L × W × H × D)", unitType: UnitTypeLength},
	FieldWeight:         {label: "Weight", unitType: UnitTypeWeight},
	FieldVolume:         {label: "Volume", unitType: UnitTypeVolume},
	FieldArea:           {label: "Area", unitType: UnitTypeArea},
	FieldDuration:       {label: "Duration", unitType: UnitTypeDuration},
	FieldNumberWithUnit: {label: "Number with Unit", unitType: DefaultUnitType},
	FieldTextWithUnit:   {label: "Text with Unit", unitType: DefaultUnitType},
}

// FieldTypes returns every supported field type in display order.
func FieldTypes() []FieldType {
	out := make([]FieldType, len(fieldTypeOrder))
	copy(out, fieldTypeOrder)
	return out
}

// ParseFieldType validates a tag coming from outside the process.
func ParseFieldType(s string) (FieldType, error) {
	ft := FieldType(strings.TrimSpace(s))
	if _, ok := fieldTypes[ft]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, s)
	}
	return ft, nil
}

func (ft FieldType) Valid() bool {
	_, ok := fieldTypes[ft]
	return ok
}

func (ft FieldType) info() fieldTypeInfo {
	info, ok := fieldTypes[ft]
	if !ok {
		panic(&ReferenceError{Kind: "field type", Ref: string(ft)})
	}
	return info
}

// Label is the human display name of the type. It panics on an unknown type.
func (ft FieldType) Label() string { return ft.info().label }

// LabelOf is the function form of FieldType.Label.
func LabelOf(ft FieldType) string { return ft.Label() }

// HasUnitType reports whether values of the type pick their catalog through
// a unitType field.
func (ft FieldType) HasUnitType() bool {
	return ft == FieldNumberWithUnit || ft == FieldTextWithUnit
}

// CatalogFor returns the unit catalog that populates the unit choices of a
// field type, or an empty catalog when the type carries no unit. For
// number_with_unit and text_with_unit this is the catalog of the default
// unit type; the per-value catalog comes from CatalogForUnitType.
func CatalogFor(ft FieldType) UnitCatalog {
	info := ft.info()
	if info.unitType == "" {
		return UnitCatalog{}
	}
	return catalogs[info.unitType]
}
