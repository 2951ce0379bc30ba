package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/phenrril/variantstudio/internal/domain"
)

type VariantRecord struct {
	SKU             string                      `gorm:"size:64;primaryKey"`
	ProductID       string                      `gorm:"size:64;index"`
	Name            string                      `gorm:"size:180"`
	Description     string                      `gorm:"type:text"`
	Price           decimal.Decimal             `gorm:"type:decimal(12,2)"`
	CostPrice       decimal.Decimal             `gorm:"type:decimal(12,2)"`
	Images          datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	AttributeGroups []domain.AttributeGroup     `gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ProductRecord struct {
	ID              string                                     `gorm:"size:64;primaryKey"`
	Differentiators datatypes.JSONType[domain.Differentiators] `gorm:"type:jsonb"`
	UpdatedAt       time.Time
}

func toRecord(productID string, v domain.Variant) VariantRecord {
	images := v.Images
	if images == nil {
		images = []string{}
	}
	groups := v.AttributeGroups
	if groups == nil {
		groups = []domain.AttributeGroup{}
	}
	return VariantRecord{
		SKU:             v.SKU,
		ProductID:       productID,
		Name:            v.Name,
		Description:     v.Description,
		Price:           decimal.NewFromFloat(v.Price).Round(2),
		CostPrice:       decimal.NewFromFloat(v.CostPrice).Round(2),
		Images:          datatypes.NewJSONSlice(images),
		AttributeGroups: groups,
	}
}

func (r VariantRecord) toDomain() domain.Variant {
	images := []string(r.Images)
	if images == nil {
		images = []string{}
	}
	groups := r.AttributeGroups
	if groups == nil {
		groups = []domain.AttributeGroup{}
	}
	return domain.Variant{
		SKU:             r.SKU,
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price.InexactFloat64(),
		CostPrice:       r.CostPrice.InexactFloat64(),
		Images:          images,
		AttributeGroups: groups,
	}
}
