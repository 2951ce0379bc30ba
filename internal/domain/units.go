package domain

import "fmt"

// UnitType selects one of the unit catalogs.
type UnitType string

const (
	UnitTypeWeight   UnitType = "weight"
	UnitTypeLength   UnitType = "length"
	UnitTypeVolume   UnitType = "volume"
	UnitTypeArea     UnitType = "area"
	UnitTypeDuration UnitType = "duration"

	DefaultUnitType = UnitTypeWeight
)

var unitTypeOrder = []UnitType{UnitTypeWeight, UnitTypeLength, UnitTypeVolume, UnitTypeArea, UnitTypeDuration}

// Unit is one entry of a catalog. Key is what attribute values store.
type Unit struct {
	Key    string `json:"key"`
	Unit   string `json:"unit"`
	Plural string `json:"plural"`
	Label  string `json:"label"`
}

// UnitCatalog is an ordered, read-only table of units for one measurement
// category. The zero value is the empty catalog.
type UnitCatalog struct {
	kind  UnitType
	units []Unit
}

func newCatalog(kind UnitType, units ...Unit) UnitCatalog {
	return UnitCatalog{kind: kind, units: units}
}

func (c UnitCatalog) Type() UnitType { return c.kind }
func (c UnitCatalog) Len() int       { return len(c.units) }
func (c UnitCatalog) Empty() bool    { return len(c.units) == 0 }

// Units returns a copy of the entries in catalog order.
func (c UnitCatalog) Units() []Unit {
	out := make([]Unit, len(c.units))
	copy(out, c.units)
	return out
}

// First is the key of the first entry, "" for the empty catalog.
func (c UnitCatalog) First() string {
	if len(c.units) == 0 {
		return ""
	}
	return c.units[0].Key
}

func (c UnitCatalog) Lookup(key string) (Unit, bool) {
	for _, u := range c.units {
		if u.Key == key {
			return u, true
		}
	}
	return Unit{}, false
}

func (c UnitCatalog) Has(key string) bool {
	_, ok := c.Lookup(key)
	return ok
}

// UnitTypes lists the catalogs a number_with_unit or text_with_unit value
// can select.
func UnitTypes() []UnitType {
	out := make([]UnitType, len(unitTypeOrder))
	copy(out, unitTypeOrder)
	return out
}

func CatalogForUnitType(ut UnitType) (UnitCatalog, error) {
	c, ok := catalogs[ut]
	if !ok {
		return UnitCatalog{}, fmt.Errorf("%w: unit type %q", ErrInvalidValue, ut)
	}
	return c, nil
}

var catalogs = map[UnitType]UnitCatalog{
	UnitTypeWeight: newCatalog(UnitTypeWeight,
		Unit{Key: "kg", Unit: "kg", Plural: "kg", Label: "Kilogram"},
		Unit{Key: "g", Unit: "g", Plural: "g", Label: "Gram"},
		Unit{Key: "mg", Unit: "mg", Plural: "mg", Label: "Milligram"},
		Unit{Key: "t", Unit: "t", Plural: "t", Label: "Tonne"},
		Unit{Key: "lb", Unit: "lb", Plural: "lbs", Label: "Pound"},
		Unit{Key: "oz", Unit: "oz", Plural: "oz", Label: "Ounce"},
		Unit{Key: "tola", Unit: "tola", Plural: "tolas", Label: "Tola"},
		Unit{Key: "seer", Unit: "seer", Plural: "seers", Label: "Seer"},
		Unit{Key: "maund", Unit: "maund", Plural: "maunds", Label: "Maund"},
	),
	UnitTypeLength: newCatalog(UnitTypeLength,
		Unit{Key: "cm", Unit: "cm", Plural: "cm", Label: "Centimeter"},
		Unit{Key: "mm", Unit: "mm", Plural: "mm", Label: "Millimeter"},
		Unit{Key: "m", Unit: "m", Plural: "m", Label: "Meter"},
		Unit{Key: "km", Unit: "km", Plural: "km", Label: "Kilometer"},
		Unit{Key: "in", Unit: "in", Plural: "in", Label: "Inch"},
		Unit{Key: "ft", Unit: "ft", Plural: "ft", Label: "Foot"},
		Unit{Key: "yd", Unit: "yd", Plural: "yds", Label: "Yard"},
		Unit{Key: "mi", Unit: "mi", Plural: "mi", Label: "Mile"},
		Unit{Key: "gaj", Unit: "gaj", Plural: "gaj", Label: "Gaj"},
		Unit{Key: "hath", Unit: "hath", Plural: "hath", Label: "Hath"},
	),
	UnitTypeVolume: newCatalog(UnitTypeVolume,
		Unit{Key: "ml", Unit: "ml", Plural: "ml", Label: "Milliliter"},
		Unit{Key: "l", Unit: "L", Plural: "L", Label: "Liter"},
		Unit{Key: "m3", Unit: "m³", Plural: "m³", Label: "Cubic Meter"},
		Unit{Key: "tsp", Unit: "tsp", Plural: "tsp", Label: "Teaspoon"},
		Unit{Key: "tbsp", Unit: "tbsp", Plural: "tbsp", Label: "Tablespoon"},
		Unit{Key: "cup", Unit: "cup", Plural: "cups", Label: "Cup"},
		Unit{Key: "floz", Unit: "fl oz", Plural: "fl oz", Label: "Fluid Ounce"},
		Unit{Key: "gal", Unit: "gal", Plural: "gal", Label: "Gallon"},
		Unit{Key: "cuft", Unit: "ft³", Plural: "ft³", Label: "Cubic Foot"},
		Unit{Key: "katori", Unit: "katori", Plural: "katoris", Label: "Katori"},
		Unit{Key: "glass", Unit: "glass", Plural: "glasses", Label: "Glass"},
	),
	UnitTypeArea: newCatalog(UnitTypeArea,
		Unit{Key: "sqm", Unit: "m²", Plural: "m²", Label: "Square Meter"},
		Unit{Key: "sqcm", Unit: "cm²", Plural: "cm²", Label: "Square Centimeter"},
		Unit{Key: "ha", Unit: "ha", Plural: "ha", Label: "Hectare"},
		Unit{Key: "sqft", Unit: "ft²", Plural: "ft²", Label: "Square Foot"},
		Unit{Key: "sqin", Unit: "in²", Plural: "in²", Label: "Square Inch"},
		Unit{Key: "sqyd", Unit: "yd²", Plural: "yd²", Label: "Square Yard"},
		Unit{Key: "acre", Unit: "acre", Plural: "acres", Label: "Acre"},
		Unit{Key: "bigha", Unit: "bigha", Plural: "bighas", Label: "Bigha"},
		Unit{Key: "katha", Unit: "katha", Plural: "kathas", Label: "Katha"},
		Unit{Key: "gunta", Unit: "gunta", Plural: "guntas", Label: "Gunta"},
		Unit{Key: "cent", Unit: "cent", Plural: "cents", Label: "Cent"},
		Unit{Key: "marla", Unit: "marla", Plural: "marlas", Label: "Marla"},
		Unit{Key: "kanal", Unit: "kanal", Plural: "kanals", Label: "Kanal"},
	),
	UnitTypeDuration: newCatalog(UnitTypeDuration,
		Unit{Key: "min", Unit: "min", Plural: "mins", Label: "Minute"},
		Unit{Key: "sec", Unit: "sec", Plural: "secs", Label: "Second"},
		Unit{Key: "hr", Unit: "hr", Plural: "hrs", Label: "Hour"},
		Unit{Key: "day", Unit: "day", Plural: "days", Label: "Day"},
		Unit{Key: "week", Unit: "week", Plural: "weeks", Label: "Week"},
		Unit{Key: "month", Unit: "month", Plural: "months", Label: "Month"},
		Unit{Key: "year", Unit: "year", Plural: "years", Label: "Year"},
		Unit{Key: "ghadi", Unit: "ghadi", Plural: "ghadis", Label: "Ghadi"},
		Unit{Key: "prahar", Unit: "prahar", Plural: "prahars", Label: "Prahar"},
	),
}
