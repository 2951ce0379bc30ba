package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/phenrril/variantstudio/internal/domain"
)

// VariantRepo keeps variants and summaries in process memory. SKUs are
// issued from a counter.
type VariantRepo struct {
	mu        sync.RWMutex
	nextSKU   int64
	variants  map[string][]domain.Variant
	summaries map[string]domain.Differentiators
}

var _ domain.VariantRepo = (*VariantRepo)(nil)

func NewVariantRepo() *VariantRepo {
	return &VariantRepo{
		nextSKU:   1,
		variants:  make(map[string][]domain.Variant),
		summaries: make(map[string]domain.Differentiators),
	}
}

func (r *VariantRepo) ListVariants(ctx context.Context, productID string) ([]domain.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.variants[productID]
	result := make([]domain.Variant, 0, len(list))
	for _, v := range list {
		result = append(result, v.DeepCopy())
	}
	return result, nil
}

func (r *VariantRepo) SaveVariant(ctx context.Context, productID string, v *domain.Variant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.SKU == "" {
		v.SKU = fmt.Sprintf("SKU-%06d", r.nextSKU)
		r.nextSKU++
		r.variants[productID] = append(r.variants[productID], v.DeepCopy())
		return nil
	}
	for i, cur := range r.variants[productID] {
		if cur.SKU == v.SKU {
			r.variants[productID][i] = v.DeepCopy()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *VariantRepo) DeleteVariant(ctx context.Context, productID, sku string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.variants[productID]
	for i, cur := range list {
		if cur.SKU == sku {
			r.variants[productID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *VariantRepo) FindDifferentiators(ctx context.Context, productID string) (domain.Differentiators, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.summaries[productID]
	if !ok {
		return domain.Differentiators{}, domain.ErrNotFound
	}
	return d.Prune(func(string) bool { return true }), nil
}

func (r *VariantRepo) SaveDifferentiators(ctx context.Context, productID string, d domain.Differentiators) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summaries[productID] = d.Prune(func(string) bool { return true })
	return nil
}
