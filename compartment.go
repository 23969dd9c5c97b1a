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

package habgas

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Mode selects how the gas amounts passed to ApplyFlux and AddGas are
// interpreted.
type Mode int

const (
	// ModeDensity treats amounts as densities or density rates [kg m-3].
	ModeDensity Mode = iota
	// ModeMass treats amounts as absolute masses or mass rates [kg].
	ModeMass
)

// A Compartment is a volume of gas holding its own species-density
// state. It is mutated only by the valves it is connected to (during
// the apply phase of a tick) and by external subsystems between ticks,
// through ApplyFlux and AddGas.
//
// The same concrete type covers ordinary rooms, the infinite outside
// atmosphere (fixed composition, see NewAtmosphere) and bounded tanks
// (capacity limit and flux ledger, see NewTank).
type Compartment struct {
	name      string
	volume    float64 // m³; +Inf for a boundary compartment
	densities []float64
	filter    []bool // species blocked here cannot cross adjoining valves

	// fixed marks a boundary compartment whose state never changes.
	fixed  bool
	fixedT float64 // boundary temperature when not attached to a graph

	// Capacity-bounded (tank) state; maxPressure == 0 means unbounded.
	maxPressure float64
	ledger      []float64 // density rates accumulated since last read

	graph *Graph
}

// NewCompartment returns a compartment with the given volume [m³]
// containing no gas.
func NewCompartment(name string, volume float64) *Compartment {
	filter := make([]bool, NumSpecies)
	for i := range filter {
		filter[i] = true
	}
	return &Compartment{
		name:      name,
		volume:    volume,
		densities: make([]float64, NumSpecies),
		filter:    filter,
	}
}

// NewRoom returns a compartment whose volume is the product of the
// given dimensions [m].
func NewRoom(name string, width, depth, height float64) *Compartment {
	return NewCompartment(name, width*depth*height)
}

// NewAtmosphere returns the outside-atmosphere boundary compartment:
// infinite volume, densities fixed to the ambient composition, and a
// temperature of its own. ApplyFlux and AddGas on it are no-ops, so it
// acts as an ideal infinite reservoir.
func NewAtmosphere(temperature float64) *Compartment {
	c := NewCompartment("Atmosphere", math.Inf(1))
	copy(c.densities, ambientDensities)
	c.fixed = true
	c.fixedT = temperature
	return c
}

// NewTank returns a capacity-bounded compartment that accumulates a
// flux ledger and never fills beyond maxPressure [Pa].
func NewTank(name string, volume, maxPressure float64) *Compartment {
	c := NewCompartment(name, volume)
	c.maxPressure = maxPressure
	c.ledger = make([]float64, NumSpecies)
	return c
}

// Name returns the compartment name, unique within a graph.
func (c *Compartment) Name() string { return c.name }

// Volume returns the compartment volume [m³].
func (c *Compartment) Volume() float64 { return c.volume }

// Density returns the density of species i [kg m-3].
func (c *Compartment) Density(i int) float64 {
	return c.densities[i]
}

// TotalDensity returns the total gas density [kg m-3].
func (c *Compartment) TotalDensity() float64 {
	return floats.Sum(c.densities)
}

// Mass returns the mass of species i [kg]. Boundary compartments hold
// no accountable mass.
func (c *Compartment) Mass(i int) float64 {
	if c.fixed {
		return 0
	}
	return c.densities[i] * c.volume
}

// TotalMass returns the total gas mass [kg].
func (c *Compartment) TotalMass() float64 {
	if c.fixed {
		return 0
	}
	return floats.Sum(c.densities) * c.volume
}

// Masses returns the per-species masses [kg].
func (c *Compartment) Masses() []float64 {
	out := make([]float64, NumSpecies)
	if c.fixed {
		return out
	}
	copy(out, c.densities)
	floats.Scale(c.volume, out)
	return out
}

// Pressure returns the partial pressure of species i [Pa] from the
// ideal-gas relation P = T R ρ.
func (c *Compartment) Pressure(i int) float64 {
	return c.temperature() * GasConstants[i] * c.densities[i]
}

// TotalPressure returns the total pressure [Pa].
func (c *Compartment) TotalPressure() float64 {
	if c.fixed {
		return AmbientPressure
	}
	var s float64
	for i, ρ := range c.densities {
		s += GasConstants[i] * ρ
	}
	return c.temperature() * s
}

// SetFilter sets the species filter mask. Species with a false entry
// cannot cross any valve touching this compartment, modeling selective
// permeability such as a filter cartridge.
func (c *Compartment) SetFilter(mask []bool) {
	checkSpeciesLen(len(mask))
	copy(c.filter, mask)
}

// Filter returns a copy of the species filter mask.
func (c *Compartment) Filter() []bool {
	out := make([]bool, NumSpecies)
	copy(out, c.filter)
	return out
}

// ApplyFlux integrates the given per-species rates over Δt into the
// compartment state. In ModeDensity the rates are density rates
// [kg m-3 s-1]; in ModeMass they are mass rates [kg s-1], divided by
// the compartment volume. A resulting negative density is a fatal
// invariant breach and panics: it signals an oversized flux computed
// upstream, and clamping would corrupt mass conservation.
func (c *Compartment) ApplyFlux(flux []float64, Δt float64, mode Mode) {
	checkSpeciesLen(len(flux))
	if c.fixed {
		return
	}
	for i, f := range flux {
		δ := f
		if mode == ModeMass {
			δ /= c.volume
		}
		c.densities[i] += δ * Δt
		if c.ledger != nil {
			c.ledger[i] += δ
		}
		if c.densities[i] < 0 {
			panic(fmt.Sprintf("habgas: %s: flux drives %s density negative (%g kg/m³)",
				c.name, SpeciesNames[i], c.densities[i]))
		}
	}
}

// AddGas instantaneously injects the given amounts, with the same mode
// semantics and non-negativity postcondition as ApplyFlux. This is the
// entrypoint external subsystems use to mutate a compartment outside
// the valve-flux path.
func (c *Compartment) AddGas(amounts []float64, mode Mode) {
	checkSpeciesLen(len(amounts))
	if c.fixed {
		return
	}
	for i, a := range amounts {
		if mode == ModeMass {
			a /= c.volume
		}
		c.densities[i] += a
		if c.densities[i] < 0 {
			panic(fmt.Sprintf("habgas: %s: AddGas drives %s density negative (%g kg/m³)",
				c.name, SpeciesNames[i], c.densities[i]))
		}
	}
}

func (c *Compartment) temperature() float64 {
	if c.graph != nil {
		return c.graph.temperature
	}
	if c.fixedT != 0 {
		return c.fixedT
	}
	return DefaultTemperature
}

func checkSpeciesLen(n int) {
	if n != NumSpecies {
		panic(fmt.Sprintf("habgas: species vector has length %d, want %d", n, NumSpecies))
	}
}
