package domain

// AttributeInstance is one labelled, typed value on a variant. ID is shared
// by the copies of the attribute on sibling variants and is what
// differentiators are computed over.
type AttributeInstance struct {
	ID        string    `json:"id"`
	FieldType FieldType `json:"fieldType"`
	Label     string    `json:"label"`
	Value     Value     `json:"value"`
	// IsDifferentiator is a display hint; the product summary is computed.
	IsDifferentiator bool `json:"isDifferentiator"`
}

type AttributeGroup struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Attributes []AttributeInstance `json:"attributes"`
}

func (a AttributeInstance) DeepCopy() AttributeInstance {
	a.Value = CloneValue(a.Value)
	return a
}

func (g AttributeGroup) DeepCopy() AttributeGroup {
	attrs := make([]AttributeInstance, len(g.Attributes))
	for i, a := range g.Attributes {
		attrs[i] = a.DeepCopy()
	}
	g.Attributes = attrs
	return g
}

// AttributeIndex returns the position of the attribute in the group or -1.
func (g AttributeGroup) AttributeIndex(id string) int {
	for i, a := range g.Attributes {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func copyGroups(groups []AttributeGroup) []AttributeGroup {
	if groups == nil {
		return []AttributeGroup{}
	}
	out := make([]AttributeGroup, len(groups))
	for i, g := range groups {
		out[i] = g.DeepCopy()
	}
	return out
}
