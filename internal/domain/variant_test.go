package domain

import (
	"errors"
	"reflect"
	"testing"
)

func sampleVariant() Variant {
	v := NewVariant()
	v.SKU = "sku-1"
	v.Name = "Mug"
	v.Price = 10
	v.Images = []string{"/uploads/a.png"}
	v.AttributeGroups = []AttributeGroup{{
		ID:   "g1",
		Name: "Physical",
		Attributes: []AttributeInstance{
			{ID: "c1", FieldType: FieldColor, Label: "Color", Value: TextValue("Red")},
			{ID: "w1", FieldType: FieldNumberWithUnit, Label: "Weight", Value: NumberWithUnitValue{UnitType: UnitTypeWeight, Unit: "kg", Value: Float64(1)}},
		},
	}}
	return v
}

func TestVariant_Clone(t *testing.T) {
	v := sampleVariant()
	c := v.Clone()
	if c.IsSaved() {
		t.Fatalf("clone must not carry the SKU")
	}
	if c.Name != "Mug (Copy)" {
		t.Fatalf("unexpected clone name %q", c.Name)
	}
	if c.AttributeGroups[0].ID != "g1" || c.AttributeGroups[0].Attributes[0].ID != "c1" {
		t.Fatalf("clone must keep group and attribute ids")
	}

	c.Images[0] = "/uploads/b.png"
	c.AttributeGroups[0].Name = "Other"
	*c.AttributeGroups[0].Attributes[1].Value.(NumberWithUnitValue).Value = 5
	if v.Images[0] != "/uploads/a.png" || v.AttributeGroups[0].Name != "Physical" {
		t.Fatalf("editing the clone changed the original")
	}
	if got := FormatForDisplay(v.AttributeGroups[0].Attributes[1].Value); got != "1 kg" {
		t.Fatalf("clone shares value pointers with the original: %q", got)
	}
}

func TestVariant_AddImagesCapacity(t *testing.T) {
	v := NewVariant()
	if err := v.AddImages("1", "2", "3", "4", "5"); err != nil {
		t.Fatalf("five images fit: %v", err)
	}
	err := v.AddImages("6")
	if !errors.Is(err, ErrTooManyImages) {
		t.Fatalf("expected ErrTooManyImages, got %v", err)
	}
	if len(v.Images) != MaxVariantImages {
		t.Fatalf("rejected add changed the list to %d entries", len(v.Images))
	}

	w := NewVariant()
	w.Images = []string{"1", "2", "3", "4"}
	if err := w.AddImages("5", "6"); !errors.Is(err, ErrTooManyImages) {
		t.Fatalf("batch past the limit must be refused, got %v", err)
	}
	if len(w.Images) != 4 {
		t.Fatalf("refused batch must add nothing, have %d", len(w.Images))
	}
}

func TestVariant_RemoveAndReorderImages(t *testing.T) {
	v := NewVariant()
	v.Images = []string{"a", "b", "c"}
	v.ReorderImages(2, 0)
	if want := []string{"c", "a", "b"}; !reflect.DeepEqual(v.Images, want) {
		t.Fatalf("expected %v, got %v", want, v.Images)
	}
	v.RemoveImage(1)
	if want := []string{"c", "b"}; !reflect.DeepEqual(v.Images, want) {
		t.Fatalf("expected %v, got %v", want, v.Images)
	}
	defer func() {
		if _, ok := recover().(*ReferenceError); !ok {
			t.Fatalf("expected ReferenceError for a bad image index")
		}
	}()
	v.RemoveImage(2)
}

func TestVariant_ApplyEdits(t *testing.T) {
	v := sampleVariant()
	name := "Mug XL"
	price := 12.5
	v.ApplyEdits(VariantPatch{Name: &name, Price: &price})
	if v.Name != "Mug XL" || v.Price != 12.5 || v.CostPrice != 0 || len(v.Images) != 1 {
		t.Fatalf("unexpected variant after edit %+v", v)
	}

	groups := []AttributeGroup{{ID: "g2", Name: "Other"}}
	v.ApplyEdits(VariantPatch{Images: []string{}, AttributeGroups: groups})
	if len(v.Images) != 0 || len(v.AttributeGroups) != 1 || v.AttributeGroups[0].ID != "g2" {
		t.Fatalf("slice edits not applied: %+v", v)
	}
	groups[0].Name = "changed"
	if v.AttributeGroups[0].Name != "Other" {
		t.Fatalf("ApplyEdits must copy the groups")
	}
}

func TestVariant_Lookups(t *testing.T) {
	v := sampleVariant()
	if v.GroupIndex("g1") != 0 || v.GroupIndex("nope") != -1 {
		t.Fatalf("GroupIndex is wrong")
	}
	if len(v.Attributes()) != 2 {
		t.Fatalf("expected 2 attributes")
	}
	if a, ok := v.FindAttribute("w1"); !ok || a.Label != "Weight" {
		t.Fatalf("FindAttribute(w1) = %+v, %v", a, ok)
	}
	if _, ok := v.FindAttribute("zz"); ok {
		t.Fatalf("unexpected attribute zz")
	}
}

func TestDifferentiators_Prune(t *testing.T) {
	d := Differentiators{
		Attributes: []string{"a", "b"},
		Values:     map[string][]string{"a": {"1", "2"}, "b": {"x", "y"}},
	}
	p := d.Prune(func(id string) bool { return id == "b" })
	if len(p.Attributes) != 1 || p.Attributes[0] != "b" || p.Has("a") || !p.Has("b") {
		t.Fatalf("unexpected pruned summary %+v", p)
	}
	p.Values["b"][0] = "z"
	if d.Values["b"][0] != "x" {
		t.Fatalf("Prune must copy value lists")
	}
	if e := EmptyDifferentiators(); e.Attributes == nil || e.Values == nil {
		t.Fatalf("empty summary must not have nil fields")
	}
}
