package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/phenrril/variantstudio/internal/adapters/repo/memory"
	"github.com/phenrril/variantstudio/internal/domain"
)

var errBoom = errors.New("boom")

// fakeRepo wraps the in-memory repository with failure and blocking hooks.
type fakeRepo struct {
	*memory.VariantRepo

	mu         sync.Mutex
	saveErr    error
	deleteErr  error
	summaryErr error
	saves      int
	entered    chan struct{}
	release    chan struct{}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{VariantRepo: memory.NewVariantRepo()}
}

func (f *fakeRepo) SaveVariant(ctx context.Context, productID string, v *domain.Variant) error {
	f.mu.Lock()
	f.saves++
	err, entered, release := f.saveErr, f.entered, f.release
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
		<-release
	}
	if err != nil {
		return err
	}
	return f.VariantRepo.SaveVariant(ctx, productID, v)
}

func (f *fakeRepo) DeleteVariant(ctx context.Context, productID, sku string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.VariantRepo.DeleteVariant(ctx, productID, sku)
}

func (f *fakeRepo) SaveDifferentiators(ctx context.Context, productID string, d domain.Differentiators) error {
	if f.summaryErr != nil {
		return f.summaryErr
	}
	return f.VariantRepo.SaveDifferentiators(ctx, productID, d)
}

// block makes the next SaveVariant calls wait until unblock is called.
func (f *fakeRepo) block() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entered = make(chan struct{})
	f.release = make(chan struct{})
}

func (f *fakeRepo) unblock() {
	f.mu.Lock()
	release := f.release
	f.entered, f.release = nil, nil
	f.mu.Unlock()
	close(release)
}

type fakeStorage struct {
	mu      sync.Mutex
	calls   int
	failOn  int // 1-based SaveImage call that fails, 0 for never
	stored  map[string]bool
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{stored: map[string]bool{}}
}

func (s *fakeStorage) SaveImage(ctx context.Context, filename string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls == s.failOn {
		return "", errBoom
	}
	url := fmt.Sprintf("/uploads/%d-%s", s.calls, filename)
	s.stored[url] = true
	return url, nil
}

func (s *fakeStorage) DeleteImage(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stored, url)
	s.deleted = append(s.deleted, url)
	return nil
}

// seqIDs returns the listed ids in order, then id-1, id-2, ...
type seqIDs struct {
	mu   sync.Mutex
	next []string
	n    int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.next) > 0 {
		id := g.next[0]
		g.next = g.next[1:]
		return id
	}
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}
