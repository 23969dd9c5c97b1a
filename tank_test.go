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
	"testing"
)

// newTestTank returns a tank attached to a single-compartment graph at
// the given temperature.
func newTestTank(volume, maxPressure, temperature float64) *Compartment {
	tank := NewTank("tank", volume, maxPressure)
	NewGraph("test", []*Compartment{tank}, nil, temperature)
	return tank
}

func TestTankLedger(t *testing.T) {
	const Δt = 1. / 30.
	tank := newTestTank(0.5, 1e6, 293.15)

	tank.ApplyFlux([]float64{0.06, 0, 0, 0}, Δt, ModeDensity)
	tank.ApplyFlux([]float64{0, 0.03, 0, 0}, Δt, ModeMass)

	flux := tank.ReadFlux()
	if different(flux[O2], 0.06, testTolerance) {
		t.Errorf("O2 ledger: got %g, want 0.06", flux[O2])
	}
	if different(flux[CO2], 0.03/0.5, testTolerance) {
		t.Errorf("CO2 ledger: got %g, want %g", flux[CO2], 0.03/0.5)
	}

	// The ledger resets on read; the densities do not.
	flux = tank.ReadFlux()
	for i, f := range flux {
		if f != 0 {
			t.Errorf("%s ledger after read: got %g, want 0", SpeciesNames[i], f)
		}
	}
	if different(tank.Density(O2), 0.06*Δt, testTolerance) {
		t.Errorf("O2 density: got %g, want %g", tank.Density(O2), 0.06*Δt)
	}
}

func TestTankFull(t *testing.T) {
	const Δt = 0.0333
	tank := newTestTank(0.01, 500000, 293.15)

	// Fill to 90% of capacity with N2.
	ρ := 0.9 * 500000 / (293.15 * GasConstants[N2])
	tank.AddGas([]float64{0, 0, ρ, 0}, ModeDensity)
	if tank.Full(Δt) {
		t.Error("tank at 90% should not be full")
	}

	// An inbound flux that projects past the limit makes it full.
	rate := 0.2 * 500000 / (293.15 * GasConstants[N2]) / Δt
	tank.ApplyFlux([]float64{0, 0, rate, 0}, 0, ModeDensity) // record rate only
	if !tank.Full(Δt) {
		t.Error("projected pressure exceeds the limit; tank should report full")
	}
}

// §8 concrete scenario: an N2 tank at ≈400 kPa offered 5 kg of O2 must
// fill to exactly 500 kPa, leave the remainder in the source, and
// refuse a second fill.
func TestFillToCapacityScenario(t *testing.T) {
	const (
		Δt   = 0.0333
		T    = 293.15
		V    = 0.01
		maxP = 500000.
	)
	tank := newTestTank(V, maxP, T)
	tank.AddGas([]float64{0, 0, 400000 / (T * GasConstants[N2]), 0}, ModeDensity)

	source := []float64{5, 0, 0, 0}
	added := tank.FillToCapacity(source, Δt)

	wantMass := (maxP - 400000) / T * V / GasConstants[O2]
	if different(added[O2], wantMass, testTolerance) {
		t.Errorf("added O2: got %g, want %g", added[O2], wantMass)
	}
	if different(source[O2], 5-wantMass, testTolerance) {
		t.Errorf("source remainder: got %g, want %g", source[O2], 5-wantMass)
	}
	if different(tank.TotalPressure(), maxP, 1.e-9) {
		t.Errorf("pressure after fill: got %g, want %g", tank.TotalPressure(), maxP)
	}
	if !tank.Full(Δt) {
		t.Error("tank should be full after filling to capacity")
	}

	// A second call with the same source is a zero-vector no-op.
	added = tank.FillToCapacity(source, Δt)
	for i, m := range added {
		if m != 0 {
			t.Errorf("%s: second fill added %g, want 0", SpeciesNames[i], m)
		}
	}
}

func TestFillToCapacityBounds(t *testing.T) {
	const Δt = 0.0333
	tank := newTestTank(0.05, 300000, 293.15)

	// Repeated small offers of a mixture must never push the projected
	// pressure past the limit, and never take more than offered.
	var taken float64
	const offered = 0.05
	for round := 0; round < 200; round++ {
		source := []float64{offered * 0.2, 0, offered * 0.7, offered * 0.1}
		before := source[O2] + source[N2] + source[H2O]
		added := tank.FillToCapacity(source, Δt)
		after := source[O2] + source[N2] + source[H2O]
		got := added[O2] + added[N2] + added[H2O]
		if got < 0 || got > before+testTolerance {
			t.Fatalf("round %d: took %g of %g offered", round, got, before)
		}
		if different(before-after, got, 1.e-9) && got != 0 {
			t.Fatalf("round %d: source decreased by %g but %g was added", round, before-after, got)
		}
		taken += got
		if p := tank.TotalPressure(); p > 300000*(1+1.e-9) {
			t.Fatalf("round %d: pressure %g exceeds the limit", round, p)
		}
	}
	if taken <= 0 {
		t.Error("nothing was ever taken")
	}
	// Mass balance: tank contents equal everything taken.
	if different(tank.TotalMass(), taken, 1.e-9) {
		t.Errorf("tank holds %g kg, took %g kg", tank.TotalMass(), taken)
	}

	// Ratio preservation: contents keep the source mixture ratios.
	if different(tank.Mass(N2)/tank.Mass(O2), 0.7/0.2, 1.e-9) {
		t.Errorf("mixture ratio not preserved: N2/O2 = %g", tank.Mass(N2)/tank.Mass(O2))
	}
}

func TestFillToCapacityEmptySource(t *testing.T) {
	tank := newTestTank(0.01, 500000, 293.15)
	source := []float64{0, 0, 0, 0}
	added := tank.FillToCapacity(source, 0.0333)
	for i, m := range added {
		if m != 0 {
			t.Errorf("%s: empty source added %g, want 0", SpeciesNames[i], m)
		}
	}
}

// FillToCapacity projects from the ledger, so gas routed into the tank
// during the current tick counts against capacity.
func TestFillToCapacityUsesLedger(t *testing.T) {
	const Δt = 0.0333
	tank := newTestTank(0.01, 500000, 293.15)
	tank.AddGas([]float64{0, 0, 400000 / (293.15 * GasConstants[N2]), 0}, ModeDensity)

	// Record an inbound rate worth 50 kPa at the lookahead.
	rate := 50000 / (293.15 * GasConstants[N2]) / Δt
	tank.ApplyFlux([]float64{0, 0, rate, 0}, 0, ModeDensity)

	source := []float64{5, 0, 0, 0}
	added := tank.FillToCapacity(source, Δt)
	wantMass := (500000 - 450000) / 293.15 * 0.01 / GasConstants[O2]
	if different(added[O2], wantMass, testTolerance) {
		t.Errorf("added O2: got %g, want %g", added[O2], wantMass)
	}

	// The fill resets the ledger.
	for i, f := range tank.ReadFlux() {
		if f != 0 {
			t.Errorf("%s ledger after fill: got %g, want 0", SpeciesNames[i], f)
		}
	}
}

func TestUnboundedCompartmentTankMethods(t *testing.T) {
	c := NewCompartment("room", 10)
	if c.MaxPressure() != 0 {
		t.Error("unbounded compartment should report no pressure limit")
	}
	if c.Full(1) {
		t.Error("unbounded compartment is never full")
	}
	source := []float64{1, 1, 1, 1}
	for i, m := range c.FillToCapacity(source, 1) {
		if m != 0 {
			t.Errorf("%s: fill on unbounded compartment added %g", SpeciesNames[i], m)
		}
	}
	for i, f := range c.ReadFlux() {
		if f != 0 {
			t.Errorf("%s: unbounded ledger %g, want 0", SpeciesNames[i], f)
		}
	}
	if math.IsNaN(c.TotalPressure()) {
		t.Error("pressure NaN")
	}
}
