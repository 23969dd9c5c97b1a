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

// Package habgasutil holds the command-line interface for the habgas
// habitat atmosphere model.
package habgasutil

import (
	"fmt"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/habgas"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var logger *logrus.Logger

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})

	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "layout",
			usage: `
              layout specifies the habitat layout file (TOML) to simulate.`,
			shorthand:  "l",
			defaultVal: "habitat.toml",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "dt",
			usage: `
              dt specifies the simulation timestep in seconds.`,
			defaultVal: 1. / 30.,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "duration",
			usage: `
              duration specifies the total simulated time in seconds.`,
			shorthand:  "d",
			defaultVal: 60.,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "logevery",
			usage: `
              logevery specifies the interval in simulated seconds
              between status log lines.`,
			defaultVal: 1.,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "heatwatts",
			usage: `
              heatwatts specifies a constant heat input applied to the
              habitat at every step, in watts.`,
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
	}

	Cfg = viper.New()
	Cfg.SetEnvPrefix("HABGAS")
	Cfg.AutomaticEnv()
	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic(fmt.Sprintf("invalid argument type: %T", option.defaultVal))
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}

	Root.AddCommand(versionCmd, runCmd)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "habgas",
	Short: "A space-habitat atmosphere model.",
	Long: `habgas simulates the shared atmosphere of a multi-room space
habitat: how O2, CO2, N2 and H2O move between connected compartments,
how temperature evolves with heat input, and how bounded tanks fill.
Use the subcommands specified below to access the model functionality.

Configuration can be changed by using command-line arguments or by
setting environment variables in the format 'HABGAS_var' where 'var'
is the name of the variable to be set.`,
	DisableAutoGenTag: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of habgas.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("habgas v%s\n", habgas.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run simulates the habitat described by the layout file for the
configured duration, logging per-interval summaries of mass,
pressure and temperature.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := cast.ToStringE(Cfg.Get("layout"))
		if err != nil {
			return err
		}
		var vals [4]float64
		for i, name := range []string{"dt", "duration", "logevery", "heatwatts"} {
			if vals[i], err = cast.ToFloat64E(Cfg.Get(name)); err != nil {
				return fmt.Errorf("habgas: option %s: %v", name, err)
			}
		}
		return Run(layout, vals[0], vals[1], vals[2], vals[3])
	},
	DisableAutoGenTag: true,
}
