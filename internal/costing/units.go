package costing

import (
	"fmt"
	"strings"
)

// Unit is a measurement tag from the closed set understood by the engine.
type Unit string

const (
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Millilitre Unit = "ml"
	Litre      Unit = "L"
	Count      Unit = "un"
)

// Family groups units that can be converted into each other.
type Family string

const (
	FamilyMass   Family = "mass"
	FamilyVolume Family = "volume"
	FamilyCount  Family = "count"
)

var unitFamilies = map[Unit]Family{
	Gram:       FamilyMass,
	Kilogram:   FamilyMass,
	Millilitre: FamilyVolume,
	Litre:      FamilyVolume,
	Count:      FamilyCount,
}

// conversionTable maps source -> target -> multiplier, so that
// quantity(source) * multiplier = quantity(target).
var conversionTable = map[Unit]map[Unit]float64{
	Kilogram:   {Gram: 1000, Kilogram: 1},
	Gram:       {Gram: 1, Kilogram: 0.001},
	Litre:      {Millilitre: 1000, Litre: 1},
	Millilitre: {Millilitre: 1, Litre: 0.001},
	Count:      {Count: 1},
}

// Units lists every supported unit in display order.
func Units() []Unit {
	return []Unit{Gram, Kilogram, Millilitre, Litre, Count}
}

// ParseUnit resolves a user supplied tag to its canonical Unit. Matching is
// case-insensitive so "l" and "L" both resolve to Litre.
func ParseUnit(value string) (Unit, error) {
	trimmed := strings.TrimSpace(value)
	for _, unit := range Units() {
		if strings.EqualFold(trimmed, string(unit)) {
			return unit, nil
		}
	}
	return "", fmt.Errorf("%w: unknown unit %q", ErrIncompatibleUnits, value)
}

// Valid reports whether u belongs to the supported set.
func (u Unit) Valid() bool {
	_, ok := unitFamilies[u]
	return ok
}

// Family returns the conversion family of u, or "" for unknown units.
func (u Unit) Family() Family {
	return unitFamilies[u]
}

func (u Unit) String() string {
	return string(u)
}

// Multiplier returns the factor converting one `from` into `to`. The second
// result is false when the pair crosses families or either unit is unknown.
func Multiplier(from, to Unit) (float64, bool) {
	targets, ok := conversionTable[from]
	if !ok {
		return 0, false
	}
	factor, ok := targets[to]
	return factor, ok
}
