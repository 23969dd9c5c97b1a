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

package habgasutil

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/habgas"
	"github.com/spatialmodel/habgas/habitat"
	"gonum.org/v1/gonum/floats"
)

// Run loads the layout at layoutPath, assembles the habitat and steps
// it for duration simulated seconds at timestep Δt, applying
// heatWatts of heat input at every step and logging a summary every
// logEvery simulated seconds.
func Run(layoutPath string, Δt, duration, logEvery, heatWatts float64) error {
	if Δt <= 0 {
		return fmt.Errorf("habgas: timestep must be positive, got %g", Δt)
	}
	if duration < 0 {
		return fmt.Errorf("habgas: duration must not be negative, got %g", duration)
	}

	layout, err := habitat.Load(layoutPath)
	if err != nil {
		return err
	}
	g, err := habitat.Build(layout, logger)
	if err != nil {
		return err
	}

	sinceLog := logEvery // log the initial state
	for elapsed := 0.; elapsed < duration; elapsed += Δt {
		if logEvery > 0 && sinceLog >= logEvery {
			logState(g, elapsed)
			sinceLog = 0
		}
		if heatWatts != 0 {
			g.AddHeat(heatWatts, habgas.HeatPower)
		}
		g.Step(Δt)
		sinceLog += Δt
	}
	logState(g, duration)
	return nil
}

func logState(g *habgas.Graph, elapsed float64) {
	fields := logrus.Fields{
		"t":           fmt.Sprintf("%.2fs", elapsed),
		"temperature": fmt.Sprintf("%.2fK", g.Temperature()),
		"mass":        fmt.Sprintf("%.4gkg", floats.Sum(g.Masses())),
	}
	for _, c := range g.Compartments() {
		fields[c.Name()] = fmt.Sprintf("%.4gPa", c.TotalPressure())
	}
	logger.WithFields(fields).Info("habitat state")
}
