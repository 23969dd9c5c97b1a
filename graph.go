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

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// HeatMode selects how heat input passed to AddHeat is interpreted.
type HeatMode int

const (
	// HeatPower treats the value as power [W], integrated over Δt at
	// the next step.
	HeatPower HeatMode = iota
	// HeatEnergy treats the value as already-integrated energy [J].
	HeatEnergy
)

// A Graph owns a set of compartments, the valves connecting them, and
// the shared air temperature. It drives the per-tick update: all valve
// fluxes are computed against the pre-tick state, then all are
// applied, then the temperature is updated from the accumulated heat
// input. The graph is a single-actor structure: it provides no locking
// and expects the driver to sequence external mutations between ticks.
type Graph struct {
	Name string

	compartments []*Compartment
	valves       []*Valve
	byName       map[string]*Compartment
	valveByName  map[string]*Valve

	temperature  float64 // K
	heatLossRate float64 // fraction of temperature retained per second

	heatJoules float64
	heatWatts  float64

	log *logrus.Logger
}

// NewGraph assembles a graph from its compartments and valves and
// takes ownership of them. Compartment and valve names must be unique;
// duplicates and valves referencing compartments outside the graph are
// reported through the logger.
func NewGraph(name string, compartments []*Compartment, valves []*Valve, temperature float64) *Graph {
	g := &Graph{
		Name:         name,
		compartments: compartments,
		valves:       valves,
		byName:       make(map[string]*Compartment),
		valveByName:  make(map[string]*Valve),
		temperature:  temperature,
		heatLossRate: 1,
		log:          logrus.StandardLogger(),
	}
	for _, c := range compartments {
		if _, ok := g.byName[c.name]; ok {
			g.log.WithFields(logrus.Fields{"graph": name, "compartment": c.name}).
				Warn("duplicate compartment name")
		}
		g.byName[c.name] = c
		c.graph = g
	}
	for _, v := range valves {
		if _, ok := g.valveByName[v.name]; ok {
			g.log.WithFields(logrus.Fields{"graph": name, "valve": v.name}).
				Warn("duplicate valve name")
		}
		g.valveByName[v.name] = v
		for _, c := range []*Compartment{v.c1, v.c2} {
			if g.byName[c.name] != c {
				g.log.WithFields(logrus.Fields{"graph": name, "valve": v.name, "compartment": c.name}).
					Warn("valve endpoint is not a member of the graph")
			}
		}
	}
	return g
}

// SetLogger replaces the logger used for assembly and step
// diagnostics.
func (g *Graph) SetLogger(log *logrus.Logger) { g.log = log }

// Compartment returns the named compartment, or nil.
func (g *Graph) Compartment(name string) *Compartment { return g.byName[name] }

// Valve returns the named valve, or nil.
func (g *Graph) Valve(name string) *Valve { return g.valveByName[name] }

// Compartments returns the compartments owned by the graph.
func (g *Graph) Compartments() []*Compartment { return g.compartments }

// Valves returns the valves owned by the graph.
func (g *Graph) Valves() []*Valve { return g.valves }

// Temperature returns the shared air temperature [K].
func (g *Graph) Temperature() float64 { return g.temperature }

// SetTemperature sets the shared air temperature [K]. It is the
// coupling point for external thermal sources that manage temperature
// themselves; sources that inject heat use AddHeat instead.
func (g *Graph) SetTemperature(temperature float64) { g.temperature = temperature }

// SetHeatLossRate sets the fraction of absolute temperature retained
// per second; 1 means no loss. The decay has no ambient reference
// term: with a rate below 1 and no heat input the temperature decays
// toward 0 K rather than toward an outside baseline.
func (g *Graph) SetHeatLossRate(rate float64) { g.heatLossRate = rate }

// AddHeat accumulates heat input for the next Step. Power values are
// integrated over the step Δt; energy values are added as-is.
func (g *Graph) AddHeat(value float64, mode HeatMode) {
	switch mode {
	case HeatPower:
		g.heatWatts += value
	case HeatEnergy:
		g.heatJoules += value
	}
}

// Masses returns the per-species gas masses [kg] summed over all
// compartments. Boundary compartments contribute nothing.
func (g *Graph) Masses() []float64 {
	out := make([]float64, NumSpecies)
	for _, c := range g.compartments {
		floats.Add(out, c.Masses())
	}
	return out
}

// Step advances the graph by Δt seconds. The update is strictly
// two-phase: every valve computes its flux from the pre-tick densities
// and temperature before any compartment is mutated, so the result
// does not depend on valve iteration order. The temperature update
// runs last, against the pre-update temperature.
func (g *Graph) Step(Δt float64) {
	for _, v := range g.valves {
		v.ComputeFlux(g.temperature)
	}
	for _, v := range g.valves {
		v.ApplyFlux(Δt)
	}
	g.updateTemperature(Δt)
}

func (g *Graph) updateTemperature(Δt float64) {
	q := g.heatJoules + g.heatWatts*Δt
	g.heatJoules, g.heatWatts = 0, 0
	if q == 0 && g.heatLossRate == 1 {
		return
	}

	// Aggregate heat capacity Σ m_i cp_i(T) over all finite
	// compartments, at the pre-update temperature.
	var capacity float64
	for _, c := range g.compartments {
		if math.IsInf(c.volume, 1) {
			continue
		}
		for i := 0; i < NumSpecies; i++ {
			capacity += c.Mass(i) * SpecificHeat(i, g.temperature)
		}
	}

	t := g.temperature * math.Pow(g.heatLossRate, Δt)
	if capacity > 0 {
		t += q / capacity
	} else if q != 0 {
		g.log.WithField("graph", g.Name).
			Warn("heat input into a graph with no gas mass; input discarded")
	}
	g.temperature = t
}
