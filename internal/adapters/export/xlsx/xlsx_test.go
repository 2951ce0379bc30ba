package xlsx

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/variantstudio/internal/domain"
)

func variant(sku, name, color string) domain.Variant {
	v := domain.NewVariant()
	v.SKU = sku
	v.Name = name
	v.Price = 10
	v.AttributeGroups = []domain.AttributeGroup{{
		ID:   "g1",
		Name: "Looks",
		Attributes: []domain.AttributeInstance{
			{ID: "c1", FieldType: domain.FieldColor, Label: "Color", Value: domain.TextValue(color)},
			{ID: "m1", FieldType: domain.FieldText, Label: "Material", Value: domain.TextValue("Steel")},
		},
	}}
	return v
}

func TestWriteVariants(t *testing.T) {
	var buf bytes.Buffer
	vs := []domain.Variant{variant("s1", "Red", "Red"), variant("s2", "Blue", "Blue")}
	if err := WriteVariants(&buf, vs); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(VariantsSheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	// only Color differs, so it is the single extra column
	if len(rows[0]) != 6 || rows[0][5] != "Color" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "s1" || rows[1][5] != "Red" || rows[2][5] != "Blue" {
		t.Fatalf("unexpected rows %v", rows[1:])
	}

	attrs, err := f.GetRows(AttributesSheet)
	if err != nil {
		t.Fatalf("attribute rows: %v", err)
	}
	if len(attrs) != 5 {
		t.Fatalf("expected header + 4 attribute rows, got %d", len(attrs))
	}
	if attrs[1][3] != "Color" || attrs[1][6] != "yes" || attrs[2][6] != "no" {
		t.Fatalf("unexpected attribute row %v / %v", attrs[1], attrs[2])
	}
}
