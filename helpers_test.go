/*
Copyright © 2018 the ncobj authors.
This file is part of ncobj.

ncobj is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ncobj is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ncobj.  If not, see <http://www.gnu.org/licenses/>.
*/

package ncobj

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// mustAdd builds test fixtures, panicking on the name collisions that
// a well-formed fixture never has.
func mustAdd[T Element](c *Container[T], items ...T) {
	for _, item := range items {
		if err := c.Add(item); err != nil {
			panic(fmt.Sprintf("fixture: %v", err))
		}
	}
}

// groupCmpOpts lets go-cmp see Container internals and treats a
// drained container the same as a never-filled one.
var groupCmpOpts = []cmp.Option{
	cmp.AllowUnexported(
		Container[*Dimension]{},
		Container[*Variable]{},
		Container[*Group]{},
		Container[*Attribute]{},
	),
	cmpopts.EquateEmpty(),
}

// windExample builds the canonical nested-observation fixture: a wind
// vector group (with role attributes) inside an observation group
// inside the root, with a root-owned time dimension referenced at
// every level.
func windExample() *Group {
	root := NewGroup("")
	mustAdd(root.Dimensions, NewDimension("time", 5))
	mustAdd(root.Attrs, NewAttribute("title", "observation set"))

	obs1 := NewGroup("obs1")
	mustAdd(obs1.Dimensions, NewDimension("depth", 3))
	temp := NewVariable("temp", []string{"time", "depth"}, TypeDouble)
	mustAdd(temp.Attrs, NewAttribute("units", "K"))
	mustAdd(obs1.Variables, temp)

	wind := NewGroup("wind")
	mustAdd(wind.Attrs,
		NewAttribute("container_type", "wind_vector"),
		NewAttribute("grid_east", "u"),
		NewAttribute("grid_north", "v"))
	mustAdd(wind.Variables,
		NewVariable("u", []string{"time"}, TypeFloat),
		NewVariable("v", []string{"time"}, TypeFloat))
	mustAdd(obs1.Groups, wind)

	mustAdd(root.Groups, obs1)
	return root
}
