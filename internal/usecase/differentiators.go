package usecase

import "github.com/phenrril/variantstudio/internal/domain"

// ComputeDifferentiators finds the attribute ids whose formatted values
// differ across variants. Unset values are skipped, so an attribute filled
// in on one variant and empty on the rest is not a differentiator. Ids and
// values are reported in first-seen order.
func ComputeDifferentiators(variants []domain.Variant) domain.Differentiators {
	type seen struct {
		values []string
		set    map[string]struct{}
	}
	var order []string
	byID := map[string]*seen{}
	for _, v := range variants {
		for _, g := range v.AttributeGroups {
			for _, a := range g.Attributes {
				s, ok := byID[a.ID]
				if !ok {
					s = &seen{set: map[string]struct{}{}}
					byID[a.ID] = s
					order = append(order, a.ID)
				}
				if !domain.IsSet(a.Value) {
					continue
				}
				f := domain.FormatForDisplay(a.Value)
				if _, dup := s.set[f]; dup {
					continue
				}
				s.set[f] = struct{}{}
				s.values = append(s.values, f)
			}
		}
	}
	out := domain.EmptyDifferentiators()
	for _, id := range order {
		if s := byID[id]; len(s.values) >= 2 {
			out.Attributes = append(out.Attributes, id)
			out.Values[id] = s.values
		}
	}
	return out
}

// DifferentiatorLabels maps each differentiator id to the label it carries
// on the first variant that has it.
func DifferentiatorLabels(variants []domain.Variant, d domain.Differentiators) map[string]string {
	labels := make(map[string]string, len(d.Attributes))
	for _, v := range variants {
		for _, a := range v.Attributes() {
			if _, done := labels[a.ID]; done || !d.Has(a.ID) {
				continue
			}
			labels[a.ID] = a.Label
		}
	}
	return labels
}
