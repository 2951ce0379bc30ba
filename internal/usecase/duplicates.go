package usecase

import (
	"sort"

	"github.com/phenrril/variantstudio/internal/domain"
)

// Signature is the part of a variant compared by the duplicate check.
type Signature struct {
	Name        string
	Description string
	Price       float64
	CostPrice   float64
	Images      []string
	Attributes  []AttributeSignature
}

type AttributeSignature struct {
	ID    string
	Value string
}

// SignatureOf builds the comparison key of a variant. Attribute values go
// through FormatForDisplay and are sorted by id, so moving groups or
// attributes around does not make two variants different.
func SignatureOf(v domain.Variant) Signature {
	attrs := v.Attributes()
	sig := Signature{
		Name:        v.Name,
		Description: v.Description,
		Price:       v.Price,
		CostPrice:   v.CostPrice,
		Images:      v.Images,
		Attributes:  make([]AttributeSignature, 0, len(attrs)),
	}
	for _, a := range attrs {
		sig.Attributes = append(sig.Attributes, AttributeSignature{ID: a.ID, Value: domain.FormatForDisplay(a.Value)})
	}
	sort.SliceStable(sig.Attributes, func(i, j int) bool { return sig.Attributes[i].ID < sig.Attributes[j].ID })
	return sig
}

func (s Signature) Equal(o Signature) bool {
	if s.Name != o.Name || s.Description != o.Description || s.Price != o.Price || s.CostPrice != o.CostPrice {
		return false
	}
	if len(s.Images) != len(o.Images) || len(s.Attributes) != len(o.Attributes) {
		return false
	}
	for i := range s.Images {
		if s.Images[i] != o.Images[i] {
			return false
		}
	}
	for i := range s.Attributes {
		if s.Attributes[i] != o.Attributes[i] {
			return false
		}
	}
	return true
}

// IsDuplicate reports whether any sibling other than the one at
// candidateIndex has the same signature as candidate. Pass a negative index
// for a candidate that is not part of siblings. The result is a warning for
// the editor; it never blocks a save.
func IsDuplicate(candidate domain.Variant, candidateIndex int, siblings []domain.Variant) bool {
	return len(DuplicateIndexes(candidate, candidateIndex, siblings)) > 0
}

// DuplicateIndexes lists every sibling index whose signature matches.
func DuplicateIndexes(candidate domain.Variant, candidateIndex int, siblings []domain.Variant) []int {
	want := SignatureOf(candidate)
	var out []int
	for i, s := range siblings {
		if i == candidateIndex {
			continue
		}
		if SignatureOf(s).Equal(want) {
			out = append(out, i)
		}
	}
	return out
}
