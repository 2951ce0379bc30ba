package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/variantstudio/internal/domain"
)

// Workspace holds the variants of one product while they are being edited.
//
// Group, attribute and image operations are synchronous and never fail on
// I/O; an unknown variant index, group id, attribute id or position is a
// caller bug and panics with *domain.ReferenceError. Save, Delete and
// UploadImages talk to the gateways outside the lock; while a save, delete
// or upload is in flight the variant is marked processing and another one is
// refused with domain.ErrBusy.
type Workspace struct {
	productID string
	ids       domain.IDGenerator
	repo      domain.VariantRepo
	storage   domain.FileStorage

	mu       sync.Mutex
	slots    []*slot
	summary  domain.Differentiators
	expanded map[string]bool
}

type slot struct {
	draft      domain.Variant
	committed  domain.Variant
	processing bool
}

// Upload is one image file handed to UploadImages.
type Upload struct {
	Filename string
	Data     []byte
}

func NewWorkspace(productID string, ids domain.IDGenerator, repo domain.VariantRepo, storage domain.FileStorage, variants []domain.Variant, summary domain.Differentiators) *Workspace {
	w := &Workspace{
		productID: productID,
		ids:       ids,
		repo:      repo,
		storage:   storage,
		summary:   summary.Prune(func(string) bool { return true }),
		expanded:  map[string]bool{},
	}
	for _, v := range variants {
		v = v.DeepCopy()
		w.slots = append(w.slots, &slot{draft: v, committed: v.DeepCopy()})
	}
	return w
}

func (w *Workspace) ProductID() string { return w.productID }

// --- lookups, callers hold mu ---

func (w *Workspace) slotAt(vi int) *slot {
	if vi < 0 || vi >= len(w.slots) {
		panic(&domain.ReferenceError{Kind: "variant index", Ref: strconv.Itoa(vi)})
	}
	return w.slots[vi]
}

func groupIn(v *domain.Variant, groupID string) *domain.AttributeGroup {
	i := v.GroupIndex(groupID)
	if i < 0 {
		panic(&domain.ReferenceError{Kind: "group", Ref: groupID})
	}
	return &v.AttributeGroups[i]
}

func attributeIn(g *domain.AttributeGroup, attrID string) *domain.AttributeInstance {
	i := g.AttributeIndex(attrID)
	if i < 0 {
		panic(&domain.ReferenceError{Kind: "attribute", Ref: attrID})
	}
	return &g.Attributes[i]
}

func (w *Workspace) attribute(vi int, groupID, attrID string) *domain.AttributeInstance {
	return attributeIn(groupIn(&w.slotAt(vi).draft, groupID), attrID)
}

// idInUse reports whether id names a group or attribute in any draft or in
// any state Cancel can restore.
func (w *Workspace) idInUse(id string) bool {
	for _, s := range w.slots {
		if groupsUse(s.draft.AttributeGroups, id) || groupsUse(s.committed.AttributeGroups, id) {
			return true
		}
	}
	return false
}

func groupsUse(groups []domain.AttributeGroup, id string) bool {
	for _, g := range groups {
		if g.ID == id || g.AttributeIndex(id) >= 0 {
			return true
		}
	}
	return false
}

func (w *Workspace) newID() string {
	for {
		if id := w.ids.NewID(); id != "" && !w.idInUse(id) {
			return id
		}
	}
}

func (w *Workspace) anyProcessing() bool {
	for _, s := range w.slots {
		if s.processing {
			return true
		}
	}
	return false
}

// pruneSummary drops summary entries for attribute ids that no variant
// carries any more.
func (w *Workspace) pruneSummary() {
	present := map[string]struct{}{}
	for _, s := range w.slots {
		for _, a := range s.draft.Attributes() {
			present[a.ID] = struct{}{}
		}
	}
	w.summary = w.summary.Prune(func(id string) bool {
		_, ok := present[id]
		return ok
	})
}

func (w *Workspace) indexOf(s *slot) int {
	for i, cur := range w.slots {
		if cur == s {
			return i
		}
	}
	return -1
}

// prepare fills missing group and attribute ids and validates every value.
func (w *Workspace) prepare(v *domain.Variant) error {
	if v.Images == nil {
		v.Images = []string{}
	}
	if len(v.Images) > domain.MaxVariantImages {
		return fmt.Errorf("%w: %d images, the limit is %d", domain.ErrTooManyImages, len(v.Images), domain.MaxVariantImages)
	}
	if v.AttributeGroups == nil {
		v.AttributeGroups = []domain.AttributeGroup{}
	}
	for gi := range v.AttributeGroups {
		g := &v.AttributeGroups[gi]
		if g.ID == "" {
			g.ID = w.newID()
		}
		if g.Attributes == nil {
			g.Attributes = []domain.AttributeInstance{}
		}
		for ai := range g.Attributes {
			a := &g.Attributes[ai]
			if err := domain.ValidateValue(a.FieldType, a.Value); err != nil {
				return fmt.Errorf("attribute %q: %w", a.Label, err)
			}
			if a.ID == "" {
				a.ID = w.newID()
			}
		}
	}
	return nil
}

// --- reads ---

func (w *Workspace) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.slots)
}

// Variant returns a copy of the draft at vi.
func (w *Workspace) Variant(vi int) domain.Variant {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slotAt(vi).draft.DeepCopy()
}

func (w *Workspace) Variants() []domain.Variant {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.drafts()
}

func (w *Workspace) drafts() []domain.Variant {
	out := make([]domain.Variant, len(w.slots))
	for i, s := range w.slots {
		out[i] = s.draft.DeepCopy()
	}
	return out
}

// IndexOfSKU returns the index of the saved variant with that SKU or -1.
func (w *Workspace) IndexOfSKU(sku string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, s := range w.slots {
		if sku != "" && s.draft.SKU == sku {
			return i
		}
	}
	return -1
}

func (w *Workspace) Processing(vi int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slotAt(vi).processing
}

// Differentiators computes the summary over the current drafts.
func (w *Workspace) Differentiators() domain.Differentiators {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ComputeDifferentiators(w.drafts())
}

// Summary is the last persisted summary, minus ids that have since been
// removed from every variant.
func (w *Workspace) Summary() domain.Differentiators {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.summary.Prune(func(string) bool { return true })
}

// Duplicate reports whether the draft at vi matches one of its siblings.
func (w *Workspace) Duplicate(vi int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return IsDuplicate(w.slotAt(vi).draft, vi, w.drafts())
}

// --- groups ---

// AddGroup appends an empty group to the variant and returns its id. The
// new group starts expanded.
func (w *Workspace) AddGroup(vi int, name string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.slotAt(vi)
	id := w.newID()
	s.draft.AttributeGroups = append(s.draft.AttributeGroups, domain.AttributeGroup{
		ID:         id,
		Name:       name,
		Attributes: []domain.AttributeInstance{},
	})
	w.expanded[id] = true
	return id
}

func (w *Workspace) RenameGroup(vi int, groupID, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	groupIn(&w.slotAt(vi).draft, groupID).Name = name
}

// RemoveGroup deletes the group with its attributes and drops summary
// entries that only those attributes referenced.
func (w *Workspace) RemoveGroup(vi int, groupID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := &w.slotAt(vi).draft
	i := v.GroupIndex(groupID)
	if i < 0 {
		panic(&domain.ReferenceError{Kind: "group", Ref: groupID})
	}
	v.AttributeGroups = append(v.AttributeGroups[:i], v.AttributeGroups[i+1:]...)
	delete(w.expanded, groupID)
	w.pruneSummary()
}

func (w *Workspace) MoveGroup(vi, from, to int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	domain.Move(w.slotAt(vi).draft.AttributeGroups, from, to)
}

func (w *Workspace) SetGroupExpanded(groupID string, expanded bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if expanded {
		w.expanded[groupID] = true
		return
	}
	delete(w.expanded, groupID)
}

func (w *Workspace) IsGroupExpanded(groupID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.expanded[groupID]
}

// --- attributes ---

// AddAttribute appends an attribute of the given type to a group and returns
// its id, which is unique across every group and attribute of the product.
func (w *Workspace) AddAttribute(vi int, groupID string, ft domain.FieldType) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	g := groupIn(&w.slotAt(vi).draft, groupID)
	label := ft.Label()
	id := w.newID()
	g.Attributes = append(g.Attributes, domain.AttributeInstance{
		ID:        id,
		FieldType: ft,
		Label:     label,
		Value:     domain.DefaultValueFor(ft),
	})
	return id
}

func (w *Workspace) RemoveAttribute(vi int, groupID, attrID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	g := groupIn(&w.slotAt(vi).draft, groupID)
	i := g.AttributeIndex(attrID)
	if i < 0 {
		panic(&domain.ReferenceError{Kind: "attribute", Ref: attrID})
	}
	g.Attributes = append(g.Attributes[:i], g.Attributes[i+1:]...)
	w.pruneSummary()
}

func (w *Workspace) MoveAttribute(vi int, groupID string, from, to int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	domain.Move(groupIn(&w.slotAt(vi).draft, groupID).Attributes, from, to)
}

func (w *Workspace) SetAttributeLabel(vi int, groupID, attrID, label string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.attribute(vi, groupID, attrID).Label = label
}

// SetAttributeValue replaces the value; it must have the shape of the
// attribute's field type.
func (w *Workspace) SetAttributeValue(vi int, groupID, attrID string, v domain.Value) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	a := w.attribute(vi, groupID, attrID)
	if err := domain.ValidateValue(a.FieldType, v); err != nil {
		return err
	}
	a.Value = domain.CloneValue(v)
	return nil
}

// SetAttributeUnitType switches the catalog of a number_with_unit or
// text_with_unit attribute; the unit resets to the first unit of the new
// catalog.
func (w *Workspace) SetAttributeUnitType(vi int, groupID, attrID string, ut domain.UnitType) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	a := w.attribute(vi, groupID, attrID)
	cur := a.Value
	if cur == nil && a.FieldType.HasUnitType() {
		cur = domain.DefaultValueFor(a.FieldType)
	}
	var (
		next domain.Value
		err  error
	)
	switch t := cur.(type) {
	case domain.NumberWithUnitValue:
		next, err = t.WithUnitType(ut)
	case domain.TextWithUnitValue:
		next, err = t.WithUnitType(ut)
	default:
		return fmt.Errorf("%w: %s has no unit type", domain.ErrInvalidValue, a.FieldType)
	}
	if err != nil {
		return err
	}
	a.Value = next
	return nil
}

func (w *Workspace) SetAttributeDifferentiatorFlag(vi int, groupID, attrID string, flag bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.attribute(vi, groupID, attrID).IsDifferentiator = flag
}

// --- variants ---

// NewVariant appends an empty, unsaved variant and returns its index.
func (w *Workspace) NewVariant() (int, error) {
	return w.Stage(domain.NewVariant())
}

// Stage appends an unsaved variant built elsewhere, e.g. submitted by a
// form. Missing group and attribute ids are generated.
func (w *Workspace) Stage(v domain.Variant) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.anyProcessing() {
		return -1, domain.ErrBusy
	}
	v = v.DeepCopy()
	v.SKU = ""
	if err := w.prepare(&v); err != nil {
		return -1, err
	}
	w.slots = append(w.slots, &slot{draft: v, committed: v.DeepCopy()})
	return len(w.slots) - 1, nil
}

// Replace swaps the draft at vi for v, keeping the slot's SKU.
func (w *Workspace) Replace(vi int, v domain.Variant) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.slotAt(vi)
	v = v.DeepCopy()
	v.SKU = s.draft.SKU
	if err := w.prepare(&v); err != nil {
		return err
	}
	s.draft = v
	w.pruneSummary()
	return nil
}

// CloneVariant appends an unsaved copy of the variant at vi.
func (w *Workspace) CloneVariant(vi int) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.slotAt(vi)
	if w.anyProcessing() {
		return -1, domain.ErrBusy
	}
	c := s.draft.Clone()
	w.slots = append(w.slots, &slot{draft: c, committed: c.DeepCopy()})
	return len(w.slots) - 1, nil
}

// RemoveVariant discards an unsaved variant. Saved variants go through
// Delete.
func (w *Workspace) RemoveVariant(vi int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.slotAt(vi)
	if s.processing {
		return domain.ErrBusy
	}
	if s.draft.IsSaved() {
		return domain.ErrSavedVariant
	}
	w.slots = append(w.slots[:vi], w.slots[vi+1:]...)
	w.pruneSummary()
	return nil
}

func (w *Workspace) ApplyEdits(vi int, p domain.VariantPatch) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.slotAt(vi)
	next := s.draft.DeepCopy()
	next.ApplyEdits(p)
	if p.Images != nil || p.AttributeGroups != nil {
		if err := w.prepare(&next); err != nil {
			return err
		}
	}
	s.draft = next
	if p.AttributeGroups != nil {
		w.pruneSummary()
	}
	return nil
}

func (w *Workspace) AddImages(vi int, urls ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slotAt(vi).draft.AddImages(urls...)
}

func (w *Workspace) RemoveImage(vi, i int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.slotAt(vi).draft.RemoveImage(i)
}

func (w *Workspace) ReorderImages(vi, from, to int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.slotAt(vi).draft.ReorderImages(from, to)
}

// Commit records the draft as the state Cancel returns to, without
// persisting it.
func (w *Workspace) Commit(vi int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.slotAt(vi)
	s.committed = s.draft.DeepCopy()
}

// Cancel throws away every edit made since the last save or Commit.
func (w *Workspace) Cancel(vi int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.slotAt(vi)
	sku := s.draft.SKU
	s.draft = s.committed.DeepCopy()
	s.draft.SKU = sku
	w.pruneSummary()
}

// --- persistence ---

func (w *Workspace) lookup(vi int) *slot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slotAt(vi)
}

func (w *Workspace) lookupSKU(sku string) (*slot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.slots {
		if sku != "" && s.draft.SKU == sku {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (w *Workspace) savedSnapshots() []domain.Variant {
	var out []domain.Variant
	for _, s := range w.slots {
		if s.committed.IsSaved() {
			out = append(out, s.committed.DeepCopy())
		}
	}
	return out
}

// Save persists the variant at vi. On success the draft learns its SKU, the
// saved state becomes what Cancel returns to, and the product summary is
// recomputed from every saved variant and persisted.
func (w *Workspace) Save(ctx context.Context, vi int) error {
	_, err := w.save(ctx, w.lookup(vi))
	return err
}

// Delete removes a saved variant through the gateway and drops it from the
// workspace.
func (w *Workspace) Delete(ctx context.Context, vi int) error {
	return w.delete(ctx, w.lookup(vi))
}

// UploadImages stores the files and appends their URLs to the variant. The
// whole batch is refused when it would push the variant past
// domain.MaxVariantImages; files already stored for a refused or failed
// batch are removed again.
func (w *Workspace) UploadImages(ctx context.Context, vi int, files []Upload) ([]string, error) {
	return w.upload(ctx, w.lookup(vi), files)
}

// Create stages v and saves it in one step. The returned flag is the
// duplicate warning computed against the other variants at staging time. A
// failed save leaves no trace in the workspace.
func (w *Workspace) Create(ctx context.Context, v domain.Variant) (domain.Variant, bool, error) {
	w.mu.Lock()
	if w.anyProcessing() {
		w.mu.Unlock()
		return domain.Variant{}, false, domain.ErrBusy
	}
	v = v.DeepCopy()
	v.SKU = ""
	if err := w.prepare(&v); err != nil {
		w.mu.Unlock()
		return domain.Variant{}, false, err
	}
	dup := IsDuplicate(v, -1, w.drafts())
	s := &slot{draft: v, committed: v.DeepCopy()}
	w.slots = append(w.slots, s)
	snap, _ := w.claim(s)
	w.mu.Unlock()

	saved, err := w.persist(ctx, s, snap)
	if err != nil && !errors.Is(err, ErrSummaryNotSaved) {
		w.drop(s)
	}
	return saved, dup, err
}

// Update replaces the saved variant with that SKU and persists it. When the
// save fails the draft goes back to its last saved state.
func (w *Workspace) Update(ctx context.Context, sku string, v domain.Variant) (domain.Variant, bool, error) {
	s, err := w.lookupSKU(sku)
	if err != nil {
		return domain.Variant{}, false, err
	}
	w.mu.Lock()
	if s.processing {
		w.mu.Unlock()
		return domain.Variant{}, false, domain.ErrBusy
	}
	v = v.DeepCopy()
	v.SKU = sku
	if err := w.prepare(&v); err != nil {
		w.mu.Unlock()
		return domain.Variant{}, false, err
	}
	s.draft = v
	w.pruneSummary()
	dup := IsDuplicate(v, w.indexOf(s), w.drafts())
	snap, _ := w.claim(s)
	w.mu.Unlock()

	saved, err := w.persist(ctx, s, snap)
	if err != nil && !errors.Is(err, ErrSummaryNotSaved) {
		w.mu.Lock()
		s.draft = s.committed.DeepCopy()
		w.pruneSummary()
		w.mu.Unlock()
	}
	return saved, dup, err
}

// CloneBySKU copies the saved variant with that SKU and saves the copy.
func (w *Workspace) CloneBySKU(ctx context.Context, sku string) (domain.Variant, error) {
	src, err := w.lookupSKU(sku)
	if err != nil {
		return domain.Variant{}, err
	}
	w.mu.Lock()
	if w.anyProcessing() {
		w.mu.Unlock()
		return domain.Variant{}, domain.ErrBusy
	}
	c := src.draft.Clone()
	s := &slot{draft: c, committed: c.DeepCopy()}
	w.slots = append(w.slots, s)
	snap, _ := w.claim(s)
	w.mu.Unlock()

	saved, err := w.persist(ctx, s, snap)
	if err != nil && !errors.Is(err, ErrSummaryNotSaved) {
		w.drop(s)
	}
	return saved, err
}

func (w *Workspace) DeleteBySKU(ctx context.Context, sku string) error {
	s, err := w.lookupSKU(sku)
	if err != nil {
		return err
	}
	return w.delete(ctx, s)
}

// UploadImagesBySKU stores the files, appends their URLs to the saved
// variant with that SKU and saves it, holding the variant busy throughout.
// When the save fails the URLs come off the draft and the files are
// removed again.
func (w *Workspace) UploadImagesBySKU(ctx context.Context, sku string, files []Upload) (domain.Variant, []string, error) {
	s, err := w.lookupSKU(sku)
	if err != nil {
		return domain.Variant{}, nil, err
	}
	urls, err := w.store(ctx, s, files)
	if err != nil {
		return domain.Variant{}, nil, err
	}

	w.mu.Lock()
	if err := s.draft.AddImages(urls...); err != nil {
		s.processing = false
		w.mu.Unlock()
		w.discard(ctx, urls)
		return domain.Variant{}, nil, err
	}
	snap := s.draft.DeepCopy()
	w.mu.Unlock()

	saved, err := w.persist(ctx, s, snap)
	if err != nil && !errors.Is(err, ErrSummaryNotSaved) {
		w.mu.Lock()
		s.draft.Images = withoutImages(s.draft.Images, urls)
		w.mu.Unlock()
		w.discard(ctx, urls)
		return domain.Variant{}, nil, err
	}
	return saved, urls, err
}

func withoutImages(images, drop []string) []string {
	gone := make(map[string]struct{}, len(drop))
	for _, u := range drop {
		gone[u] = struct{}{}
	}
	out := make([]string, 0, len(images))
	for _, u := range images {
		if _, ok := gone[u]; !ok {
			out = append(out, u)
		}
	}
	return out
}

func (w *Workspace) drop(s *slot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := w.indexOf(s); i >= 0 {
		w.slots = append(w.slots[:i], w.slots[i+1:]...)
	}
	w.pruneSummary()
}

// ErrSummaryNotSaved marks a failure to persist the product summary after
// the variant itself was stored or deleted.
var ErrSummaryNotSaved = errors.New("save differentiators")

// claim marks s busy and returns the draft to persist. Callers hold mu and
// must hand the snapshot to persist, which releases the claim.
func (w *Workspace) claim(s *slot) (domain.Variant, error) {
	if s.processing {
		return domain.Variant{}, domain.ErrBusy
	}
	s.processing = true
	return s.draft.DeepCopy(), nil
}

func (w *Workspace) save(ctx context.Context, s *slot) (domain.Variant, error) {
	w.mu.Lock()
	snap, err := w.claim(s)
	w.mu.Unlock()
	if err != nil {
		return domain.Variant{}, err
	}
	return w.persist(ctx, s, snap)
}

func (w *Workspace) persist(ctx context.Context, s *slot, snap domain.Variant) (domain.Variant, error) {
	err := w.repo.SaveVariant(ctx, w.productID, &snap)

	w.mu.Lock()
	s.processing = false
	if err != nil {
		w.mu.Unlock()
		log.Error().Err(err).Str("product", w.productID).Str("sku", snap.SKU).Msg("save variant")
		return domain.Variant{}, fmt.Errorf("save variant: %w", err)
	}
	s.draft.SKU = snap.SKU
	s.committed = snap
	saved := w.savedSnapshots()
	w.mu.Unlock()

	log.Info().Str("product", w.productID).Str("sku", snap.SKU).Msg("variant saved")
	return snap.DeepCopy(), w.persistSummary(ctx, saved)
}

func (w *Workspace) delete(ctx context.Context, s *slot) error {
	w.mu.Lock()
	if s.processing {
		w.mu.Unlock()
		return domain.ErrBusy
	}
	if !s.draft.IsSaved() {
		w.mu.Unlock()
		return domain.ErrUnsavedVariant
	}
	s.processing = true
	sku := s.draft.SKU
	w.mu.Unlock()

	err := w.repo.DeleteVariant(ctx, w.productID, sku)

	w.mu.Lock()
	s.processing = false
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		w.mu.Unlock()
		log.Error().Err(err).Str("product", w.productID).Str("sku", sku).Msg("delete variant")
		return fmt.Errorf("delete variant: %w", err)
	}
	if i := w.indexOf(s); i >= 0 {
		w.slots = append(w.slots[:i], w.slots[i+1:]...)
	}
	w.pruneSummary()
	saved := w.savedSnapshots()
	w.mu.Unlock()

	log.Info().Str("product", w.productID).Str("sku", sku).Msg("variant deleted")
	return w.persistSummary(ctx, saved)
}

func (w *Workspace) persistSummary(ctx context.Context, saved []domain.Variant) error {
	sum := ComputeDifferentiators(saved)
	if err := w.repo.SaveDifferentiators(ctx, w.productID, sum); err != nil {
		log.Error().Err(err).Str("product", w.productID).Msg("save differentiators")
		return fmt.Errorf("%w: %w", ErrSummaryNotSaved, err)
	}
	w.mu.Lock()
	w.summary = sum
	w.pruneSummary()
	w.mu.Unlock()
	return nil
}

func (w *Workspace) upload(ctx context.Context, s *slot, files []Upload) ([]string, error) {
	urls, err := w.store(ctx, s, files)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	s.processing = false
	err = domain.ErrNotFound
	if w.indexOf(s) >= 0 {
		err = s.draft.AddImages(urls...)
	}
	w.mu.Unlock()
	if err != nil {
		w.discard(ctx, urls)
		return nil, err
	}
	return urls, nil
}

// store claims s, checks capacity and writes the files to storage. On
// success the claim is still held and the caller releases it.
func (w *Workspace) store(ctx context.Context, s *slot, files []Upload) ([]string, error) {
	w.mu.Lock()
	if s.processing {
		w.mu.Unlock()
		return nil, domain.ErrBusy
	}
	have := len(s.draft.Images)
	if have+len(files) > domain.MaxVariantImages {
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: %d existing + %d new exceeds the limit of %d", domain.ErrTooManyImages, have, len(files), domain.MaxVariantImages)
	}
	s.processing = true
	w.mu.Unlock()

	urls := make([]string, 0, len(files))
	for _, f := range files {
		u, err := w.storage.SaveImage(ctx, f.Filename, f.Data)
		if err != nil {
			w.mu.Lock()
			s.processing = false
			w.mu.Unlock()
			w.discard(ctx, urls)
			return nil, fmt.Errorf("store image %q: %w", f.Filename, err)
		}
		urls = append(urls, u)
	}
	return urls, nil
}

func (w *Workspace) discard(ctx context.Context, urls []string) {
	for _, u := range urls {
		if err := w.storage.DeleteImage(ctx, u); err != nil {
			log.Warn().Err(err).Str("url", u).Msg("discard uploaded image")
		}
	}
}
