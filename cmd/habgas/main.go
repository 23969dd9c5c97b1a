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

// Command habgas runs the habitat atmosphere model from the command
// line.
package main

import (
	"os"

	"github.com/spatialmodel/habgas/habgasutil"
)

func main() {
	if err := habgasutil.Root.Execute(); err != nil {
		os.Exit(1)
	}
}
