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

import "math"

// UnsealedPerimeterGap is the thickness of the gap between a
// non-airtight door and its frame [m].
const UnsealedPerimeterGap = 0.01

// A Valve connects exactly two compartments and moves gas between them
// along the species density gradients. Doors (NewDoor) are valves that
// can additionally be locked. The sign convention for flux is positive
// from compartment 1 toward compartment 2. Valves start closed.
type Valve struct {
	name       string
	openArea   float64 // m²
	closedArea float64 // m²
	open       bool

	lockable bool
	locked   bool
	airtight bool

	c1, c2 *Compartment

	flux    []float64 // last computed mass flux [kg/s], c1→c2 positive
	scratch []float64
}

// NewValve returns a closed valve with the given effective areas [m²]
// connecting c1 and c2.
func NewValve(name string, openArea, closedArea float64, c1, c2 *Compartment) *Valve {
	return &Valve{
		name:       name,
		openArea:   openArea,
		closedArea: closedArea,
		c1:         c1,
		c2:         c2,
		flux:       make([]float64, NumSpecies),
		scratch:    make([]float64, NumSpecies),
	}
}

// NewDoor returns a closed, lockable valve built from door dimensions
// [m]. An airtight door seals completely when closed. A non-airtight
// door leaks through its perimeter gap when closed: the closed area is
// the door area minus the inset rectangle left by the frame gap.
func NewDoor(name string, airtight bool, width, height float64, c1, c2 *Compartment) *Valve {
	area := width * height
	var closed float64
	if !airtight {
		closed = area - (width-UnsealedPerimeterGap)*(height-2*UnsealedPerimeterGap)
	}
	v := NewValve(name, area, closed, c1, c2)
	v.lockable = true
	v.airtight = airtight
	return v
}

// Name returns the valve name.
func (v *Valve) Name() string { return v.name }

// Compartments returns the two compartments the valve connects, in
// sign-convention order.
func (v *Valve) Compartments() (*Compartment, *Compartment) { return v.c1, v.c2 }

// IsOpen reports whether the valve is open.
func (v *Valve) IsOpen() bool { return v.open }

// Open opens the valve. Opening a locked door is a no-op.
func (v *Valve) Open() {
	if v.locked {
		return
	}
	v.open = true
}

// Close closes the valve. Closing a locked door is a no-op.
func (v *Valve) Close() {
	if v.locked {
		return
	}
	v.open = false
}

// SetState opens or closes the valve. Like Open and Close it is a
// no-op while the door is locked, since it drives the same actuator.
func (v *Valve) SetState(open bool) {
	if open {
		v.Open()
	} else {
		v.Close()
	}
}

// Lock locks a closed door so that Open and Close become no-ops. An
// open door cannot be locked: that would seal the latch with a real
// gap present. Lock does nothing on a plain valve.
func (v *Valve) Lock() {
	if v.lockable && !v.open {
		v.locked = true
	}
}

// Unlock unlocks the door. It always succeeds.
func (v *Valve) Unlock() { v.locked = false }

// Locked reports whether the door is locked.
func (v *Valve) Locked() bool { return v.locked }

// Airtight reports whether the door seals completely when closed.
func (v *Valve) Airtight() bool { return v.airtight }

// OpenArea returns the effective area when open [m²].
func (v *Valve) OpenArea() float64 { return v.openArea }

// ClosedArea returns the effective area when closed [m²].
func (v *Valve) ClosedArea() float64 { return v.closedArea }

// Area returns the current effective area [m²].
func (v *Valve) Area() float64 {
	if v.open {
		return v.openArea
	}
	return v.closedArea
}

// Flux returns a copy of the last computed per-species mass flux
// [kg/s], positive from compartment 1 to compartment 2.
func (v *Valve) Flux() []float64 {
	out := make([]float64, NumSpecies)
	copy(out, v.flux)
	return out
}

// ComputeFlux computes the per-species mass flux through the valve at
// the given temperature from the current compartment densities. For
// each species the magnitude is ρ_lo A √(2 R T ln(ρ_hi/ρ_lo)), a
// compressible-orifice relation driven by the log-density gradient,
// directed from the denser compartment toward the other. Species with
// no gradient, species blocked by either compartment's filter, and any
// numerically undefined result yield exactly zero.
//
// ComputeFlux only reads compartment state; pair it with ApplyFlux so
// that all valves in a graph see the same pre-tick snapshot.
func (v *Valve) ComputeFlux(temperature float64) {
	area := v.Area()
	for i := 0; i < NumSpecies; i++ {
		v.flux[i] = 0
		if area == 0 || !v.c1.filter[i] || !v.c2.filter[i] {
			continue
		}
		ρ1, ρ2 := v.c1.Density(i), v.c2.Density(i)
		if ρ1 == ρ2 {
			continue
		}
		hi, lo, sign := ρ1, ρ2, 1.
		if ρ2 > ρ1 {
			hi, lo, sign = ρ2, ρ1, -1.
		}
		mag := lo * area * math.Sqrt(2*GasConstants[i]*temperature*math.Log(hi/lo))
		if math.IsNaN(mag) {
			mag = 0
		}
		v.flux[i] = sign * mag
	}
}

// ApplyFlux moves the last computed flux, integrated over Δt, out of
// compartment 1 and into compartment 2 as an exact conservative
// exchange. A closed valve never moves mass, even if a nonzero flux
// was computed through its closed-state leak area for diagnostics.
func (v *Valve) ApplyFlux(Δt float64) {
	if !v.open {
		return
	}
	for i, f := range v.flux {
		v.scratch[i] = -f
	}
	v.c1.ApplyFlux(v.scratch, Δt, ModeMass)
	v.c2.ApplyFlux(v.flux, Δt, ModeMass)
}
