package domain

import "context"

// VariantRepo is the persistence gateway for variants and the product
// differentiator summary.
type VariantRepo interface {
	ListVariants(ctx context.Context, productID string) ([]Variant, error)
	// SaveVariant inserts the variant when it has no SKU, filling v.SKU with
	// the identifier the store assigned, and updates it otherwise.
	SaveVariant(ctx context.Context, productID string, v *Variant) error
	DeleteVariant(ctx context.Context, productID, sku string) error
	FindDifferentiators(ctx context.Context, productID string) (Differentiators, error)
	SaveDifferentiators(ctx context.Context, productID string, d Differentiators) error
}

// FileStorage stores uploaded images and returns the URL they are served at.
type FileStorage interface {
	SaveImage(ctx context.Context, filename string, data []byte) (string, error)
	DeleteImage(ctx context.Context, url string) error
}
