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
	"math"

	"gonum.org/v1/gonum/floats"
)

// Tank behavior of a capacity-bounded compartment (see NewTank).
// On unbounded compartments MaxPressure is 0, ReadFlux returns zeros,
// Full reports false and FillToCapacity adds nothing.

// MaxPressure returns the tank pressure limit [Pa], or 0 for an
// unbounded compartment.
func (c *Compartment) MaxPressure() float64 { return c.maxPressure }

// ReadFlux returns the per-species density rates [kg m-3 s-1]
// accumulated by ApplyFlux since the last read, and resets the ledger.
// Consumers use it to learn net throughput between reads.
func (c *Compartment) ReadFlux() []float64 {
	out := make([]float64, NumSpecies)
	if c.ledger == nil {
		return out
	}
	copy(out, c.ledger)
	for i := range c.ledger {
		c.ledger[i] = 0
	}
	return out
}

// Full reports whether the projected pressure Δt seconds ahead, using
// the current densities plus the accumulated ledger, meets or exceeds
// the tank's pressure limit.
func (c *Compartment) Full(Δt float64) bool {
	if c.maxPressure <= 0 {
		return false
	}
	return c.temperature()*c.pressureProxy(Δt) >= c.maxPressure
}

// pressureProxy is Σ R_i (ρ_i + ledger_i Δt), the projected pressure
// divided by temperature.
func (c *Compartment) pressureProxy(Δt float64) float64 {
	var s float64
	for i, ρ := range c.densities {
		if c.ledger != nil {
			ρ += c.ledger[i] * Δt
		}
		s += GasConstants[i] * ρ
	}
	return s
}

// FillToCapacity moves gas from source into the tank, preserving the
// species-mass ratios of source, until the projected pressure at the
// Δt lookahead reaches the tank's limit or source is exhausted. It
// returns the per-species mass added [kg] and subtracts the same
// amounts from the caller's source slice; the caller keeps ownership
// of whatever remains in it. The ledger is reset on a successful fill.
//
// A tank already at or above capacity, an empty source, and a source
// composition that cannot raise pressure all return the zero vector;
// none of these are errors.
func (c *Compartment) FillToCapacity(source []float64, Δt float64) []float64 {
	checkSpeciesLen(len(source))
	added := make([]float64, NumSpecies)
	if c.maxPressure <= 0 {
		return added
	}

	s := c.pressureProxy(Δt)
	sMax := c.maxPressure / c.temperature()
	if sMax-s <= 0 {
		return added // already at or above capacity
	}

	total := floats.Sum(source)
	if total <= 0 {
		return added // no gas available
	}

	// ΔS = Σ R_i Δm_i / V = (M/V) Σ R_i ratio_i, so the total mass
	// that closes the pressure gap is M = ΔS V / Σ R_i ratio_i.
	var denom float64
	for i := range GasConstants {
		denom += GasConstants[i] * source[i] / total
	}
	if denom <= 0 {
		return added // composition cannot raise pressure
	}
	required := (sMax - s) * c.volume / denom

	mAdd := math.Min(required, total)
	for i := range added {
		added[i] = source[i] / total * mAdd
		c.densities[i] += added[i] / c.volume
		source[i] -= added[i]
	}
	for i := range c.ledger {
		c.ledger[i] = 0
	}
	return added
}
