package xlsx

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/variantstudio/internal/domain"
	"github.com/phenrril/variantstudio/internal/usecase"
)

const (
	VariantsSheet   = "Variants"
	AttributesSheet = "Attributes"
)

// WriteVariants writes a workbook with one row per variant. The Variants
// sheet has a column per differentiator; the Attributes sheet lists every
// attribute of every variant.
func WriteVariants(w io.Writer, variants []domain.Variant) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", VariantsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(AttributesSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	diff := usecase.ComputeDifferentiators(variants)
	labels := usecase.DifferentiatorLabels(variants, diff)

	header := []interface{}{"SKU", "Name", "Price", "Cost price", "Images"}
	for _, id := range diff.Attributes {
		header = append(header, labels[id])
	}
	if err := f.SetSheetRow(VariantsSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(VariantsSheet, 1, 1, bold); err != nil {
		return err
	}
	for i, v := range variants {
		row := []interface{}{v.SKU, v.Name, v.Price, v.CostPrice, strings.Join(v.Images, "\n")}
		for _, id := range diff.Attributes {
			val := domain.NotSet
			if a, ok := v.FindAttribute(id); ok {
				val = domain.FormatForDisplay(a.Value)
			}
			row = append(row, val)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(VariantsSheet, cell, &row); err != nil {
			return err
		}
	}

	attrHeader := []interface{}{"SKU", "Variant", "Group", "Attribute", "Type", "Value", "Differentiator"}
	if err := f.SetSheetRow(AttributesSheet, "A1", &attrHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(AttributesSheet, 1, 1, bold); err != nil {
		return err
	}
	r := 2
	for _, v := range variants {
		for _, g := range v.AttributeGroups {
			for _, a := range g.Attributes {
				row := []interface{}{v.SKU, v.Name, g.Name, a.Label, a.FieldType.Label(), domain.FormatForDisplay(a.Value), yesNo(diff.Has(a.ID))}
				cell, err := excelize.CoordinatesToCellName(1, r)
				if err != nil {
					return err
				}
				if err := f.SetSheetRow(AttributesSheet, cell, &row); err != nil {
					return err
				}
				r++
			}
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
