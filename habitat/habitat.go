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

// Package habitat assembles gas-exchange graphs from static habitat
// layout descriptions. A layout is declarative data (typically decoded
// from a TOML file) naming the rooms, tanks, doors and valves of a
// habitat; Build validates it and wires it into a habgas.Graph once,
// at assembly time.
package habitat

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/habgas"
)

// Layout describes a habitat's gas network.
type Layout struct {
	// Name of the habitat.
	Name string

	// Temperature is the initial shared air temperature [K]. If zero,
	// habgas.DefaultTemperature is used.
	Temperature float64

	// HeatLossRate is the fraction of absolute temperature retained
	// per second. If zero, 1 (no loss) is used.
	HeatLossRate float64

	// Outside includes the ambient atmosphere as a boundary
	// compartment named "Atmosphere".
	Outside bool

	// OutsideTemperature is the boundary compartment temperature [K].
	OutsideTemperature float64

	Rooms        []Room
	Compartments []Volume
	Tanks        []Tank
	Doors        []Door
	Valves       []ValveSpec
}

// Room is a compartment sized from its dimensions.
type Room struct {
	Name                 string
	Width, Depth, Height float64 // m

	// Gas holds the initial gas load [kg] keyed by species name.
	Gas map[string]float64

	// Blocks lists species that cannot cross valves touching this
	// room (its filter mask).
	Blocks []string
}

// Volume is a compartment with an explicit volume.
type Volume struct {
	Name   string
	Volume float64 // m³
	Gas    map[string]float64
	Blocks []string
}

// Tank is a capacity-bounded compartment.
type Tank struct {
	Name        string
	Volume      float64 // m³
	MaxPressure float64 // Pa
	Gas         map[string]float64
}

// Door connects two compartments with a lockable, dimensioned valve.
type Door struct {
	Name          string
	Width, Height float64 // m
	Airtight      bool
	Open          bool
	Locked        bool
	Between       []string // the two compartment names
}

// ValveSpec connects two compartments with a plain valve.
type ValveSpec struct {
	Name       string
	OpenArea   float64 // m²
	ClosedArea float64 // m²
	Open       bool
	Between    []string
}

// Load reads a Layout from the TOML file at path.
func Load(path string) (*Layout, error) {
	l := new(Layout)
	if _, err := toml.DecodeFile(path, l); err != nil {
		return nil, fmt.Errorf("habitat: decoding layout %s: %v", path, err)
	}
	return l, nil
}

// Build validates the layout and assembles it into a graph. All
// entities are constructed here, once; the simulation neither creates
// nor destroys them afterwards.
func Build(l *Layout, log *logrus.Logger) (*habgas.Graph, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var compartments []*habgas.Compartment
	add := func(c *habgas.Compartment) {
		compartments = append(compartments, c)
	}

	for _, r := range l.Rooms {
		volume := unit.Mul(
			unit.New(r.Width, unit.Meter),
			unit.New(r.Depth, unit.Meter),
			unit.New(r.Height, unit.Meter))
		if err := checkQuantity("room "+r.Name+" volume", volume, unit.Meter3); err != nil {
			return nil, err
		}
		c := habgas.NewRoom(r.Name, r.Width, r.Depth, r.Height)
		if err := loadGas(c, r.Gas); err != nil {
			return nil, err
		}
		if err := setFilter(c, r.Blocks); err != nil {
			return nil, err
		}
		add(c)
	}

	for _, v := range l.Compartments {
		volume := unit.New(v.Volume, unit.Meter3)
		if err := checkQuantity("compartment "+v.Name+" volume", volume, unit.Meter3); err != nil {
			return nil, err
		}
		c := habgas.NewCompartment(v.Name, v.Volume)
		if err := loadGas(c, v.Gas); err != nil {
			return nil, err
		}
		if err := setFilter(c, v.Blocks); err != nil {
			return nil, err
		}
		add(c)
	}

	for _, t := range l.Tanks {
		volume := unit.New(t.Volume, unit.Meter3)
		if err := checkQuantity("tank "+t.Name+" volume", volume, unit.Meter3); err != nil {
			return nil, err
		}
		maxP := unit.New(t.MaxPressure, unit.Pascal)
		if err := checkQuantity("tank "+t.Name+" max pressure", maxP, unit.Pascal); err != nil {
			return nil, err
		}
		c := habgas.NewTank(t.Name, t.Volume, t.MaxPressure)
		if err := loadGas(c, t.Gas); err != nil {
			return nil, err
		}
		add(c)
	}

	if l.Outside {
		outsideT := l.OutsideTemperature
		if outsideT == 0 {
			outsideT = habgas.DefaultTemperature
		}
		add(habgas.NewAtmosphere(outsideT))
	}

	byName := make(map[string]*habgas.Compartment)
	for _, c := range compartments {
		if _, ok := byName[c.Name()]; ok {
			return nil, fmt.Errorf("habitat: duplicate compartment name %q", c.Name())
		}
		byName[c.Name()] = c
	}

	endpoints := func(kind, name string, between []string) (*habgas.Compartment, *habgas.Compartment, error) {
		if len(between) != 2 {
			return nil, nil, fmt.Errorf("habitat: %s %q must connect exactly two compartments, got %d",
				kind, name, len(between))
		}
		c1, c2 := byName[between[0]], byName[between[1]]
		if c1 == nil {
			return nil, nil, fmt.Errorf("habitat: %s %q references unknown compartment %q", kind, name, between[0])
		}
		if c2 == nil {
			return nil, nil, fmt.Errorf("habitat: %s %q references unknown compartment %q", kind, name, between[1])
		}
		return c1, c2, nil
	}

	var valves []*habgas.Valve
	for _, d := range l.Doors {
		area := unit.Mul(unit.New(d.Width, unit.Meter), unit.New(d.Height, unit.Meter))
		if err := checkQuantity("door "+d.Name+" area", area, unit.Meter2); err != nil {
			return nil, err
		}
		c1, c2, err := endpoints("door", d.Name, d.Between)
		if err != nil {
			return nil, err
		}
		v := habgas.NewDoor(d.Name, d.Airtight, d.Width, d.Height, c1, c2)
		v.SetState(d.Open)
		if d.Locked {
			v.Lock()
			if !v.Locked() {
				log.WithField("door", d.Name).Warn("cannot lock an open door; left unlocked")
			}
		}
		valves = append(valves, v)
	}
	for _, s := range l.Valves {
		area := unit.New(s.OpenArea, unit.Meter2)
		if err := checkQuantity("valve "+s.Name+" open area", area, unit.Meter2); err != nil {
			return nil, err
		}
		if s.ClosedArea < 0 {
			return nil, fmt.Errorf("habitat: valve %q closed area must not be negative", s.Name)
		}
		c1, c2, err := endpoints("valve", s.Name, s.Between)
		if err != nil {
			return nil, err
		}
		v := habgas.NewValve(s.Name, s.OpenArea, s.ClosedArea, c1, c2)
		v.SetState(s.Open)
		valves = append(valves, v)
	}

	temperature := l.Temperature
	if temperature == 0 {
		temperature = habgas.DefaultTemperature
	}
	g := habgas.NewGraph(l.Name, compartments, valves, temperature)
	g.SetLogger(log)
	if l.HeatLossRate != 0 {
		g.SetHeatLossRate(l.HeatLossRate)
	}

	log.WithFields(logrus.Fields{
		"habitat":      l.Name,
		"compartments": len(compartments),
		"valves":       len(valves),
	}).Info("habitat assembled")
	return g, nil
}

// checkQuantity verifies dimensions and positivity of a layout
// quantity.
func checkQuantity(name string, u *unit.Unit, dims unit.Dimensions) error {
	if err := u.Check(dims); err != nil {
		return fmt.Errorf("habitat: %s: %v", name, err)
	}
	if u.Value() <= 0 {
		return fmt.Errorf("habitat: %s must be positive, got %v", name, u.Value())
	}
	return nil
}

func loadGas(c *habgas.Compartment, gas map[string]float64) error {
	if len(gas) == 0 {
		return nil
	}
	amounts := make([]float64, habgas.NumSpecies)
	for name, kg := range gas {
		i := habgas.SpeciesIndex(name)
		if i < 0 {
			return fmt.Errorf("habitat: %s: unknown gas species %q", c.Name(), name)
		}
		if kg < 0 {
			return fmt.Errorf("habitat: %s: negative %s load", c.Name(), name)
		}
		amounts[i] = kg
	}
	c.AddGas(amounts, habgas.ModeMass)
	return nil
}

func setFilter(c *habgas.Compartment, blocks []string) error {
	if len(blocks) == 0 {
		return nil
	}
	mask := make([]bool, habgas.NumSpecies)
	for i := range mask {
		mask[i] = true
	}
	for _, name := range blocks {
		i := habgas.SpeciesIndex(name)
		if i < 0 {
			return fmt.Errorf("habitat: %s: unknown gas species %q in filter", c.Name(), name)
		}
		mask[i] = false
	}
	c.SetFilter(mask)
	return nil
}
