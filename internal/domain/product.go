package domain

// Product groups the variants whose attributes are compared with each other.
type Product struct {
	ID              string          `json:"id"`
	Variants        []Variant       `json:"variants"`
	Differentiators Differentiators `json:"differentiators"`
}

// Differentiators is the product-level summary of attribute ids whose values
// differ between variants, with the distinct formatted values of each.
type Differentiators struct {
	Attributes []string            `json:"attributes"`
	Values     map[string][]string `json:"values"`
}

func EmptyDifferentiators() Differentiators {
	return Differentiators{Attributes: []string{}, Values: map[string][]string{}}
}

func (d Differentiators) Has(id string) bool {
	_, ok := d.Values[id]
	return ok
}

// Prune drops every id for which keep returns false.
func (d Differentiators) Prune(keep func(id string) bool) Differentiators {
	out := EmptyDifferentiators()
	for _, id := range d.Attributes {
		if !keep(id) {
			continue
		}
		out.Attributes = append(out.Attributes, id)
		out.Values[id] = append([]string{}, d.Values[id]...)
	}
	return out
}
