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
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlattenWindExample(t *testing.T) {
	flat, err := Flatten(windExample())
	if err != nil {
		t.Fatal(err)
	}
	if flat.Groups.Len() != 0 {
		t.Fatalf("flat group still has %d nested groups", flat.Groups.Len())
	}

	if want := []string{"time", "obs1___depth"}; !reflect.DeepEqual(flat.Dimensions.Names(), want) {
		t.Errorf("dimensions: want %v, got %v", want, flat.Dimensions.Names())
	}
	wantVars := []string{"obs1___temp", "obs1___wind___u", "obs1___wind___v", "obs1___wind", "obs1"}
	if !reflect.DeepEqual(flat.Variables.Names(), wantVars) {
		t.Fatalf("variables: want %v, got %v", wantVars, flat.Variables.Names())
	}

	temp, _ := flat.Variables.Get("obs1___temp")
	if want := []string{"time", "obs1___depth"}; !reflect.DeepEqual(temp.Dimensions, want) {
		t.Errorf("temp dimensions: want %v, got %v", want, temp.Dimensions)
	}
	u, _ := flat.Variables.Get("obs1___wind___u")
	if want := []string{"time"}; !reflect.DeepEqual(u.Dimensions, want) {
		t.Errorf("root dimension must stay unprefixed at depth: want %v, got %v", want, u.Dimensions)
	}

	obs1, _ := flat.Variables.Get("obs1")
	if len(obs1.Dimensions) != 0 {
		t.Error("stand-in must be scalar")
	}
	wantAttrs := map[string]string{
		"container_type":    "simple-group",
		"member_variables":  "temp wind",
		"member_dimensions": "depth",
		"member_groups":     "wind",
	}
	for name, want := range wantAttrs {
		if got, ok := obs1.Attr(name); !ok || got != want {
			t.Errorf("obs1 %s: want %q, got %v", name, want, got)
		}
	}

	wind, _ := flat.Variables.Get("obs1___wind")
	wantAttrs = map[string]string{
		"container_type":   "wind_vector",
		"grid_east":        "u",
		"grid_north":       "v",
		"member_variables": "u v",
		"member_groups":    "",
	}
	for name, want := range wantAttrs {
		if got, ok := wind.Attr(name); !ok || got != want {
			t.Errorf("obs1___wind %s: want %q, got %v", name, want, got)
		}
	}
	if wind.Attrs.Has("member_dimensions") {
		t.Error("obs1___wind records member dimensions it does not own")
	}
	if got, _ := flat.Attr("title"); got != "observation set" {
		t.Errorf("global attribute lost: got %v", got)
	}
}

func TestFlattenLeavesSourceUntouched(t *testing.T) {
	g := windExample()
	snapshot := g.Copy()
	if _, err := Flatten(g); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(snapshot, g, groupCmpOpts...); diff != "" {
		t.Errorf("flatten mutated its source (-before +after):\n%s", diff)
	}
}

func TestFlattenPassesBundlesThrough(t *testing.T) {
	// A bundle below the root is prefixed but its member and role
	// attribute values are local names that must not be rewritten.
	root := NewGroup("")
	obs := NewGroup("obs")
	mustAdd(obs.Variables,
		NewVariable("u", nil, TypeFloat),
		NewVariable("v", nil, TypeFloat))
	bundle := NewVariable("wind", nil, TypeInt)
	mustAdd(bundle.Attrs,
		NewAttribute("container_type", "wind_vector"),
		NewAttribute("member_variables", "u v"),
		NewAttribute("grid_east", "u"))
	mustAdd(obs.Variables, bundle)
	mustAdd(root.Groups, obs)

	flat, err := Flatten(root)
	if err != nil {
		t.Fatal(err)
	}
	w, err := flat.Variables.Get("obs___wind")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := w.Attr("member_variables"); got != "u v" {
		t.Errorf("bundle member list rewritten: got %v", got)
	}
	if got, _ := w.Attr("grid_east"); got != "u" {
		t.Errorf("bundle role rewritten: got %v", got)
	}
}

func TestFlattenReservedSeparator(t *testing.T) {
	g := NewGroup("")
	mustAdd(g.Variables, NewVariable("bad___name", nil, TypeFloat))
	_, err := Flatten(g)
	if _, ok := err.(*ReservedTokenError); !ok {
		t.Errorf("want *ReservedTokenError, got %v", err)
	}

	g = NewGroup("")
	sub := NewGroup("a___b")
	mustAdd(g.Groups, sub)
	_, err = Flatten(g)
	if _, ok := err.(*ReservedTokenError); !ok {
		t.Errorf("group name with separator: want *ReservedTokenError, got %v", err)
	}
}

func TestFlattenReservedMemberAttr(t *testing.T) {
	// A member list on a variable that is not a container is a misuse
	// of the reserved vocabulary.
	g := NewGroup("")
	v := NewVariable("temp", nil, TypeDouble)
	mustAdd(v.Attrs, NewAttribute("member_variables", "x"))
	mustAdd(g.Variables, v)
	_, err := Flatten(g)
	if _, ok := err.(*ReservedTokenError); !ok {
		t.Errorf("want *ReservedTokenError, got %v", err)
	}

	g = NewGroup("")
	sub := NewGroup("a")
	mustAdd(sub.Attrs, NewAttribute("member_groups", "b"))
	mustAdd(g.Groups, sub)
	_, err = Flatten(g)
	if _, ok := err.(*ReservedTokenError); !ok {
		t.Errorf("member list on a group: want *ReservedTokenError, got %v", err)
	}
}

func TestFlattenNameCollision(t *testing.T) {
	// A root variable named like a child group collides with the
	// group's stand-in.
	g := NewGroup("")
	mustAdd(g.Variables, NewVariable("a", nil, TypeFloat))
	mustAdd(g.Groups, NewGroup("a"))
	_, err := Flatten(g)
	if _, ok := err.(*NameCollisionError); !ok {
		t.Errorf("want *NameCollisionError, got %v", err)
	}
}

func TestAddFlatDimCollision(t *testing.T) {
	flat := NewGroup("")
	if err := addFlatDim(flat, NewDimension("x", 3)); err != nil {
		t.Fatal(err)
	}
	err := addFlatDim(flat, NewDimension("x", 4))
	if _, ok := err.(*NameCollisionError); !ok {
		t.Errorf("want *NameCollisionError, got %v", err)
	}
}

func TestFlattenDimensionVisibility(t *testing.T) {
	// A dimension owned by a sibling group is not visible.
	root := NewGroup("")
	a := NewGroup("a")
	mustAdd(a.Dimensions, NewDimension("d", 3))
	b := NewGroup("b")
	mustAdd(b.Variables, NewVariable("x", []string{"d"}, TypeFloat))
	mustAdd(root.Groups, a, b)

	_, err := Flatten(root)
	if _, ok := err.(*InvalidDimensionReferenceError); !ok {
		t.Errorf("want *InvalidDimensionReferenceError, got %v", err)
	}
}

func TestFlattenInnermostDimensionWins(t *testing.T) {
	// A group-local dimension shadows a root dimension of the same
	// name for variables at or below that group.
	root := NewGroup("")
	mustAdd(root.Dimensions, NewDimension("d", 10))
	sub := NewGroup("sub")
	mustAdd(sub.Dimensions, NewDimension("d", 3))
	mustAdd(sub.Variables, NewVariable("x", []string{"d"}, TypeFloat))
	mustAdd(root.Groups, sub)

	flat, err := Flatten(root)
	if err != nil {
		t.Fatal(err)
	}
	x, err := flat.Variables.Get("sub___x")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"sub___d"}; !reflect.DeepEqual(x.Dimensions, want) {
		t.Errorf("shadowed reference: want %v, got %v", want, x.Dimensions)
	}
}
