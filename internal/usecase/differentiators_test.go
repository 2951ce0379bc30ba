package usecase

import (
	"reflect"
	"testing"

	"github.com/phenrril/variantstudio/internal/domain"
)

func variantWith(name string, attrs ...domain.AttributeInstance) domain.Variant {
	v := domain.NewVariant()
	v.Name = name
	v.AttributeGroups = []domain.AttributeGroup{{ID: "g1", Name: "Main", Attributes: attrs}}
	return v
}

func color(id, value string) domain.AttributeInstance {
	return domain.AttributeInstance{ID: id, FieldType: domain.FieldColor, Label: "Color", Value: domain.TextValue(value)}
}

func TestComputeDifferentiators_SameValue(t *testing.T) {
	d := ComputeDifferentiators([]domain.Variant{
		variantWith("a", color("c1", "Red")),
		variantWith("b", color("c1", "Red")),
	})
	if len(d.Attributes) != 0 || len(d.Values) != 0 {
		t.Fatalf("expected no differentiators, got %+v", d)
	}
	if d.Attributes == nil || d.Values == nil {
		t.Fatalf("empty summary must not be nil")
	}
}

func TestComputeDifferentiators_DifferentValues(t *testing.T) {
	d := ComputeDifferentiators([]domain.Variant{
		variantWith("a", color("c1", "Red")),
		variantWith("b", color("c1", "Blue")),
	})
	want := domain.Differentiators{
		Attributes: []string{"c1"},
		Values:     map[string][]string{"c1": {"Red", "Blue"}},
	}
	if !reflect.DeepEqual(d, want) {
		t.Fatalf("expected %+v, got %+v", want, d)
	}
}

func TestComputeDifferentiators_EdgeCases(t *testing.T) {
	if d := ComputeDifferentiators(nil); len(d.Attributes) != 0 {
		t.Fatalf("no variants, no differentiators: %+v", d)
	}
	if d := ComputeDifferentiators([]domain.Variant{variantWith("a", color("c1", "Red"))}); len(d.Attributes) != 0 {
		t.Fatalf("a single variant cannot differentiate: %+v", d)
	}

	// unset values are ignored
	d := ComputeDifferentiators([]domain.Variant{
		variantWith("a", color("c1", "Red")),
		variantWith("b", color("c1", "")),
		variantWith("c", domain.AttributeInstance{ID: "c1", FieldType: domain.FieldColor}),
	})
	if len(d.Attributes) != 0 {
		t.Fatalf("empty values must not differentiate: %+v", d)
	}

	// equality goes through the display form
	num := domain.AttributeInstance{ID: "n1", FieldType: domain.FieldNumber, Value: domain.NumberValue(1)}
	txt := domain.AttributeInstance{ID: "n1", FieldType: domain.FieldText, Value: domain.TextValue("1")}
	if d := ComputeDifferentiators([]domain.Variant{variantWith("a", num), variantWith("b", txt)}); len(d.Attributes) != 0 {
		t.Fatalf("values with the same display form are equal: %+v", d)
	}

	// no unit conversion
	g := domain.AttributeInstance{ID: "w1", FieldType: domain.FieldWeight, Value: domain.MeasureValue{Unit: "g", Value: 1000}}
	kg := domain.AttributeInstance{ID: "w1", FieldType: domain.FieldWeight, Value: domain.MeasureValue{Unit: "kg", Value: 1}}
	if d := ComputeDifferentiators([]domain.Variant{variantWith("a", g), variantWith("b", kg)}); len(d.Attributes) != 1 {
		t.Fatalf("1000 g and 1 kg differ: %+v", d)
	}
}

func TestComputeDifferentiators_FirstSeenOrder(t *testing.T) {
	size := func(v string) domain.AttributeInstance {
		return domain.AttributeInstance{ID: "s1", FieldType: domain.FieldSize, Label: "Size", Value: domain.TextValue(v)}
	}
	d := ComputeDifferentiators([]domain.Variant{
		variantWith("a", size("M"), color("c1", "Red")),
		variantWith("b", color("c1", "Blue"), size("L")),
		variantWith("c", color("c1", "Red"), size("S")),
	})
	if want := []string{"s1", "c1"}; !reflect.DeepEqual(d.Attributes, want) {
		t.Fatalf("expected %v, got %v", want, d.Attributes)
	}
	if want := []string{"M", "L", "S"}; !reflect.DeepEqual(d.Values["s1"], want) {
		t.Fatalf("expected %v, got %v", want, d.Values["s1"])
	}
}

func TestDifferentiatorLabels(t *testing.T) {
	vs := []domain.Variant{
		variantWith("a", color("c1", "Red")),
		variantWith("b", color("c1", "Blue")),
	}
	vs[1].AttributeGroups[0].Attributes[0].Label = "Colour"
	labels := DifferentiatorLabels(vs, ComputeDifferentiators(vs))
	if len(labels) != 1 || labels["c1"] != "Color" {
		t.Fatalf("expected the first variant's label, got %v", labels)
	}
}
