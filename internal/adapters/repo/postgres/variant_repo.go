package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phenrril/variantstudio/internal/domain"
)

type VariantRepo struct{ db *gorm.DB }

func NewVariantRepo(db *gorm.DB) *VariantRepo { return &VariantRepo{db: db} }

func (r *VariantRepo) Migrate() error {
	return r.db.AutoMigrate(&VariantRecord{}, &ProductRecord{})
}

func (r *VariantRepo) ListVariants(ctx context.Context, productID string) ([]domain.Variant, error) {
	var list []VariantRecord
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at asc").Find(&list).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Variant, 0, len(list))
	for _, rec := range list {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *VariantRepo) SaveVariant(ctx context.Context, productID string, v *domain.Variant) error {
	if v == nil {
		return errors.New("variant nil")
	}
	if strings.TrimSpace(productID) == "" {
		return errors.New("empty product id")
	}
	if v.SKU == "" {
		rec := toRecord(productID, *v)
		rec.SKU = uuid.NewString()
		if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
			return err
		}
		v.SKU = rec.SKU
		return nil
	}
	rec := toRecord(productID, *v)
	res := r.db.WithContext(ctx).Model(&VariantRecord{}).
		Where("sku = ? AND product_id = ?", v.SKU, productID).
		Select("name", "description", "price", "cost_price", "images", "attribute_groups", "updated_at").
		Updates(&rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *VariantRepo) DeleteVariant(ctx context.Context, productID, sku string) error {
	if sku == "" {
		return errors.New("empty sku")
	}
	res := r.db.WithContext(ctx).Where("sku = ? AND product_id = ?", sku, productID).Delete(&VariantRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *VariantRepo) FindDifferentiators(ctx context.Context, productID string) (domain.Differentiators, error) {
	var p ProductRecord
	if err := r.db.WithContext(ctx).First(&p, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Differentiators{}, domain.ErrNotFound
		}
		return domain.Differentiators{}, err
	}
	d := p.Differentiators.Data()
	if d.Attributes == nil {
		d.Attributes = []string{}
	}
	if d.Values == nil {
		d.Values = map[string][]string{}
	}
	return d, nil
}

func (r *VariantRepo) SaveDifferentiators(ctx context.Context, productID string, d domain.Differentiators) error {
	p := ProductRecord{ID: productID, Differentiators: datatypes.NewJSONType(d)}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"differentiators", "updated_at"}),
	}).Create(&p).Error
}
