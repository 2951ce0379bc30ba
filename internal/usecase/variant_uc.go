package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/phenrril/variantstudio/internal/domain"
)

// VariantUC hands out one Workspace per product so that concurrent callers
// editing the same product share processing flags.
type VariantUC struct {
	Variants domain.VariantRepo
	Storage  domain.FileStorage
	IDs      domain.IDGenerator

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// Open returns the product's workspace, loading saved variants and the
// persisted summary the first time.
func (uc *VariantUC) Open(ctx context.Context, productID string) (*Workspace, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, errors.New("empty product id")
	}
	uc.mu.Lock()
	if ws, ok := uc.workspaces[productID]; ok {
		uc.mu.Unlock()
		return ws, nil
	}
	uc.mu.Unlock()

	variants, err := uc.Variants.ListVariants(ctx, productID)
	if err != nil {
		return nil, err
	}
	summary, err := uc.Variants.FindDifferentiators(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		summary, err = domain.EmptyDifferentiators(), nil
	}
	if err != nil {
		return nil, err
	}
	ids := uc.IDs
	if ids == nil {
		ids = domain.UUIDGenerator{}
	}
	ws := NewWorkspace(productID, ids, uc.Variants, uc.Storage, variants, summary)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.workspaces == nil {
		uc.workspaces = map[string]*Workspace{}
	}
	// another request may have loaded it meanwhile
	if cur, ok := uc.workspaces[productID]; ok {
		return cur, nil
	}
	uc.workspaces[productID] = ws
	return ws, nil
}

// Close forgets the product's workspace; the next Open reloads it.
func (uc *VariantUC) Close(productID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.workspaces, productID)
}
