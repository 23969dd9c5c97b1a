/*
Copyright © 2025 the habgas authors.
This file is part of habgas.

habgas is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

habgas is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with habgas.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package habgas models the shared atmosphere of a multi-room space
// habitat: a network of gas-holding compartments connected by valves,
// exchanging O2, CO2, N2 and H2O driven by density gradients.
package habgas

// Version gives the version number of this version of habgas.
const Version = "0.1.0"

// Indices of the tracked gas species in all species-ordered vectors.
// Every density, mass, pressure and flux slice in this package uses
// this ordering.
const (
	O2 = iota
	CO2
	N2
	H2O
)

// NumSpecies is the number of tracked gas species.
const NumSpecies = 4

// SpeciesNames are the names of the tracked gas species, in index order.
var SpeciesNames = []string{"O2", "CO2", "N2", "H2O"}

// Molar masses [grams per mole]
const (
	mwO2  = 31.9988
	mwCO2 = 44.0095
	mwN2  = 28.0134
	mwH2O = 18.01528
)

// universalGasConstant is the molar gas constant [J kmol-1 K-1].
const universalGasConstant = 8314.4598

// GasConstants are the specific gas constants R of the tracked species
// [J kg-1 K-1], in index order.
var GasConstants = []float64{
	O2:  universalGasConstant / mwO2,
	CO2: universalGasConstant / mwCO2,
	N2:  universalGasConstant / mwN2,
	H2O: universalGasConstant / mwH2O,
}

var speciesIndices = map[string]int{
	"O2":  O2,
	"CO2": CO2,
	"N2":  N2,
	"H2O": H2O,
}

// SpeciesIndex returns the vector index of the named species, or -1 if
// the name is not a tracked species.
func SpeciesIndex(name string) int {
	if i, ok := speciesIndices[name]; ok {
		return i
	}
	return -1
}

// heatCapacityTable holds constant-pressure specific heat capacities
// [J kg-1 K-1] at increasing temperatures [K].
type heatCapacityTable struct {
	temps, caps []float64
}

var heatCapacities = [NumSpecies]heatCapacityTable{
	O2: {
		temps: []float64{200, 300, 400, 500, 600},
		caps:  []float64{913, 918, 941, 972, 1003},
	},
	CO2: {
		temps: []float64{200, 300, 400, 500, 600},
		caps:  []float64{735, 846, 939, 1014, 1075},
	},
	N2: {
		temps: []float64{200, 300, 400, 500, 600},
		caps:  []float64{1039, 1040, 1044, 1056, 1075},
	},
	H2O: {
		temps: []float64{200, 300, 400, 500, 600},
		caps:  []float64{1851, 1864, 1901, 1954, 2015},
	},
}

// SpecificHeat returns the constant-pressure specific heat capacity of
// species i at the given temperature [J kg-1 K-1], interpolating
// linearly within the tabulated range and extrapolating linearly
// outside of it.
func SpecificHeat(i int, temperature float64) float64 {
	t := heatCapacities[i]
	j := 0
	for j < len(t.temps)-2 && t.temps[j+1] < temperature {
		j++
	}
	slope := (t.caps[j+1] - t.caps[j]) / (t.temps[j+1] - t.temps[j])
	return t.caps[j] + slope*(temperature-t.temps[j])
}

// DefaultTemperature is the habitat temperature set point [K] used for
// pressure queries on compartments that are not attached to a Graph.
const DefaultTemperature = 298.15

// Ambient (outside) atmosphere, approximately the Martian surface.
const (
	// AmbientPressure is the total outside pressure [Pa].
	AmbientPressure = 610.
	// AmbientDensity is the total outside gas density [kg m-3].
	AmbientDensity = 0.0162
)

// Outside composition [mole fractions].
const (
	ambientO2Mole  = 0.0013
	ambientCO2Mole = 0.9532
	ambientN2Mole  = 0.027
	ambientH2OMole = 0.0003
)

// ambientDensities are the per-species outside densities [kg m-3],
// mass-weighted from the mole fractions.
var ambientDensities []float64

func init() {
	masses := []float64{
		O2:  ambientO2Mole * mwO2,
		CO2: ambientCO2Mole * mwCO2,
		N2:  ambientN2Mole * mwN2,
		H2O: ambientH2OMole * mwH2O,
	}
	var total float64
	for _, m := range masses {
		total += m
	}
	ambientDensities = make([]float64, NumSpecies)
	for i, m := range masses {
		ambientDensities[i] = AmbientDensity * m / total
	}
}

// AmbientDensities returns a copy of the per-species outside densities
// [kg m-3].
func AmbientDensities() []float64 {
	out := make([]float64, NumSpecies)
	copy(out, ambientDensities)
	return out
}
