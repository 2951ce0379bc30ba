package domain

import (
	"fmt"
	"strconv"
)

const (
	MaxVariantImages = 5
	copySuffix       = " (Copy)"
)

// Variant is one purchasable configuration of a product. An empty SKU means
// the variant only exists locally and has never been persisted.
type Variant struct {
	SKU             string           `json:"sku,omitempty"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Price           float64          `json:"price"`
	CostPrice       float64          `json:"costPrice"`
	Images          []string         `json:"images"`
	AttributeGroups []AttributeGroup `json:"attributeGroups"`
}

// VariantPatch carries scalar edits. Nil fields are left alone; Images and
// AttributeGroups replace the variant's slices only when non-nil.
type VariantPatch struct {
	Name            *string
	Description     *string
	Price           *float64
	CostPrice       *float64
	Images          []string
	AttributeGroups []AttributeGroup
}

func NewVariant() Variant {
	return Variant{Images: []string{}, AttributeGroups: []AttributeGroup{}}
}

func (v Variant) IsSaved() bool { return v.SKU != "" }

// DeepCopy copies images and groups, keeping the SKU.
func (v Variant) DeepCopy() Variant {
	images := make([]string, len(v.Images))
	copy(images, v.Images)
	v.Images = images
	v.AttributeGroups = copyGroups(v.AttributeGroups)
	return v
}

// Clone returns an unsaved copy named "<name> (Copy)". Group and attribute
// ids are kept so the copy lines up with the original when differentiators
// are computed.
func (v Variant) Clone() Variant {
	c := v.DeepCopy()
	c.SKU = ""
	c.Name = v.Name + copySuffix
	return c
}

func (v *Variant) ApplyEdits(p VariantPatch) {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.Price != nil {
		v.Price = *p.Price
	}
	if p.CostPrice != nil {
		v.CostPrice = *p.CostPrice
	}
	if p.Images != nil {
		v.Images = append([]string{}, p.Images...)
	}
	if p.AttributeGroups != nil {
		v.AttributeGroups = copyGroups(p.AttributeGroups)
	}
}

// AddImages appends urls, or leaves the list untouched and returns
// ErrTooManyImages when the result would exceed MaxVariantImages.
func (v *Variant) AddImages(urls ...string) error {
	if n := len(v.Images) + len(urls); n > MaxVariantImages {
		return fmt.Errorf("%w: %d existing + %d new exceeds the limit of %d", ErrTooManyImages, len(v.Images), len(urls), MaxVariantImages)
	}
	v.Images = append(v.Images, urls...)
	return nil
}

func (v *Variant) RemoveImage(i int) {
	if i < 0 || i >= len(v.Images) {
		panic(&ReferenceError{Kind: "image index", Ref: strconv.Itoa(i)})
	}
	v.Images = append(v.Images[:i], v.Images[i+1:]...)
}

func (v *Variant) ReorderImages(from, to int) {
	Move(v.Images, from, to)
}

// GroupIndex returns the position of the group or -1.
func (v Variant) GroupIndex(id string) int {
	for i, g := range v.AttributeGroups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// Attributes flattens every group, in group order.
func (v Variant) Attributes() []AttributeInstance {
	var out []AttributeInstance
	for _, g := range v.AttributeGroups {
		out = append(out, g.Attributes...)
	}
	return out
}

func (v Variant) FindAttribute(id string) (AttributeInstance, bool) {
	for _, g := range v.AttributeGroups {
		if i := g.AttributeIndex(id); i >= 0 {
			return g.Attributes[i], true
		}
	}
	return AttributeInstance{}, false
}
