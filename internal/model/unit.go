package model

// Unit is the measurement unit attached to list items, cart lines and
// inventory rows. Unknown units are rejected at the edge, not coerced.
type Unit string

const (
	UnitEach       Unit = "EACH"
	UnitPack       Unit = "PACK"
	UnitGram       Unit = "GRAM"
	UnitKilogram   Unit = "KILOGRAM"
	UnitMilliliter Unit = "MILLILITER"
	UnitLiter      Unit = "LITER"
)

var knownUnits = map[Unit]struct{}{
	UnitEach:       {},
	UnitPack:       {},
	UnitGram:       {},
	UnitKilogram:   {},
	UnitMilliliter: {},
	UnitLiter:      {},
}

func (u Unit) Valid() bool {
	_, ok := knownUnits[u]
	return ok
}

func Units() []Unit {
	return []Unit{UnitEach, UnitPack, UnitGram, UnitKilogram, UnitMilliliter, UnitLiter}
}
