package domain

import (
	"errors"
	"testing"
)

func TestFieldTypes_Registry(t *testing.T) {
	fts := FieldTypes()
	if len(fts) != 19 {
		t.Fatalf("expected 19 field types, got %d", len(fts))
	}
	seen := map[FieldType]bool{}
	for _, ft := range fts {
		if seen[ft] {
			t.Fatalf("duplicate field type %q", ft)
		}
		seen[ft] = true
		if !ft.Valid() || ft.Label() == "" {
			t.Fatalf("field type %q has no label", ft)
		}
		if DefaultValueFor(ft) == nil {
			t.Fatalf("field type %q has no default value", ft)
		}
	}
	fts[0] = "mutated"
	if FieldTypes()[0] != FieldText {
		t.Fatalf("FieldTypes must return a copy")
	}
}

func TestFieldType_Labels(t *testing.T) {
	if got := LabelOf(FieldColor); got != "Color" {
		t.Fatalf("expected Color, got %q", got)
	}
	if got := FieldBoolean.Label(); got != "Yes/No" {
		t.Fatalf("expected Yes/No, got %q", got)
	}
	defer func() {
		if _, ok := recover().(*ReferenceError); !ok {
			t.Fatalf("expected a ReferenceError panic for an unknown type")
		}
	}()
	FieldType("hologram").Label()
}

func TestParseFieldType(t *testing.T) {
	ft, err := ParseFieldType(" weight ")
	if err != nil || ft != FieldWeight {
		t.Fatalf("expected weight, got %q %v", ft, err)
	}
	if _, err := ParseFieldType("hologram"); !errors.Is(err, ErrUnknownFieldType) {
		t.Fatalf("expected ErrUnknownFieldType, got %v", err)
	}
}

func TestCatalogFor(t *testing.T) {
	cases := []struct {
		ft    FieldType
		kind  UnitType
		first string
	}{
		{FieldText, "", ""},
		{FieldBoolean, "", ""},
		{FieldDimension2D, UnitTypeLength, "cm"},
		{FieldDimension3D, UnitTypeLength, "cm"},
		{FieldWeight, UnitTypeWeight, "kg"},
		{FieldVolume, UnitTypeVolume, "ml"},
		{FieldArea, UnitTypeArea, "sqm"},
		{FieldDuration, UnitTypeDuration, "min"},
		{FieldNumberWithUnit, DefaultUnitType, "kg"},
	}
	for _, tc := range cases {
		c := CatalogFor(tc.ft)
		if c.Type() != tc.kind || c.First() != tc.first {
			t.Errorf("%s: expected %q/%q, got %q/%q", tc.ft, tc.kind, tc.first, c.Type(), c.First())
		}
		if (tc.kind == "") != c.Empty() {
			t.Errorf("%s: Empty() = %v", tc.ft, c.Empty())
		}
	}
	if !FieldNumberWithUnit.HasUnitType() || !FieldTextWithUnit.HasUnitType() || FieldWeight.HasUnitType() {
		t.Fatalf("HasUnitType is only for the unit composites")
	}
}

func TestUnitCatalogs(t *testing.T) {
	for _, ut := range UnitTypes() {
		c, err := CatalogForUnitType(ut)
		if err != nil {
			t.Fatalf("%s: %v", ut, err)
		}
		if c.Len() == 0 || c.Type() != ut {
			t.Fatalf("%s: empty or mistyped catalog", ut)
		}
		keys := map[string]bool{}
		for _, u := range c.Units() {
			if u.Key == "" || u.Label == "" || keys[u.Key] {
				t.Fatalf("%s: bad unit %+v", ut, u)
			}
			keys[u.Key] = true
		}
	}
	if _, err := CatalogForUnitType("speed"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	w, _ := CatalogForUnitType(UnitTypeWeight)
	if u, ok := w.Lookup("lb"); !ok || u.Plural != "lbs" {
		t.Fatalf("unexpected lb entry %+v", u)
	}
	if !w.Has("tola") || w.Has("cm") {
		t.Fatalf("weight catalog membership is wrong")
	}
	units := w.Units()
	units[0].Key = "changed"
	if w.First() != "kg" {
		t.Fatalf("Units must return a copy")
	}
}
