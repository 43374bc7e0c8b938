package models

// UnitScale is the number of smallest indivisible base units in one currency
// unit. Prices and funds arrive at the API denominated in whole units and are
// scaled to base units before they are stored or compared.
const UnitScale = 100

// FromUnits converts whole currency units to base units.
func FromUnits(units int64) int64 {
	return units * UnitScale
}

// ToUnits converts base units back to whole currency units.
// Amounts produced by settlement are always whole multiples of UnitScale.
func ToUnits(base int64) int64 {
	return base / UnitScale
}
