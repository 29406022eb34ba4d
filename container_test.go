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
)

func TestContainerAdd(t *testing.T) {
	c := newContainer[*Dimension]("dimension")
	if err := c.Add(NewDimension("x", 3)); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(NewDimension("y", 4)); err != nil {
		t.Fatal(err)
	}
	err := c.Add(NewDimension("x", 9))
	if _, ok := err.(*DuplicateNameError); !ok {
		t.Errorf("duplicate add: want *DuplicateNameError, got %v", err)
	}
	if err := c.Add(NewDimension("", 1)); err == nil {
		t.Error("empty name add: want error, got nil")
	}
	if want := []string{"x", "y"}; !reflect.DeepEqual(c.Names(), want) {
		t.Errorf("names: want %v, got %v", want, c.Names())
	}
	if c.Len() != 2 {
		t.Errorf("len: want 2, got %d", c.Len())
	}
}

func TestContainerGetRemove(t *testing.T) {
	c := newContainer[*Dimension]("dimension")
	mustAdd(c, NewDimension("x", 3), NewDimension("y", 4), NewDimension("z", 5))

	d, err := c.Get("y")
	if err != nil {
		t.Fatal(err)
	}
	if d.Length != 4 {
		t.Errorf("get: want length 4, got %d", d.Length)
	}
	if _, err := c.Get("w"); err != nil {
		if _, ok := err.(*NotFoundError); !ok {
			t.Errorf("missing get: want *NotFoundError, got %v", err)
		}
	} else {
		t.Error("missing get: want error, got nil")
	}

	if _, err := c.Remove("y"); err != nil {
		t.Fatal(err)
	}
	if c.Has("y") {
		t.Error("removed element still present")
	}
	if want := []string{"x", "z"}; !reflect.DeepEqual(c.Names(), want) {
		t.Errorf("order after remove: want %v, got %v", want, c.Names())
	}
	if _, err := c.Remove("y"); err == nil {
		t.Error("double remove: want error, got nil")
	}
}

func TestContainerRename(t *testing.T) {
	c := newContainer[*Dimension]("dimension")
	mustAdd(c, NewDimension("x", 3), NewDimension("y", 4), NewDimension("z", 5))

	if err := c.Rename("y", "yy"); err != nil {
		t.Fatal(err)
	}
	if want := []string{"x", "yy", "z"}; !reflect.DeepEqual(c.Names(), want) {
		t.Errorf("rename keeps position: want %v, got %v", want, c.Names())
	}
	d, err := c.Get("yy")
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "yy" {
		t.Errorf("rename must update the element's own name, got %q", d.Name)
	}

	err = c.Rename("x", "z")
	if _, ok := err.(*DuplicateNameError); !ok {
		t.Errorf("rename onto taken name: want *DuplicateNameError, got %v", err)
	}
	err = c.Rename("gone", "w")
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("rename of missing: want *NotFoundError, got %v", err)
	}
	if err := c.Rename("x", "x"); err != nil {
		t.Errorf("same-name rename: want nil, got %v", err)
	}
	if err := c.Rename("x", ""); err == nil {
		t.Error("rename to empty: want error, got nil")
	}
}

func TestContainerAll(t *testing.T) {
	c := newContainer[*Attribute]("attribute")
	mustAdd(c, NewAttribute("b", 1), NewAttribute("a", 2), NewAttribute("c", 3))
	var got []string
	for _, a := range c.All() {
		got = append(got, a.Name)
	}
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("iteration is insertion order: want %v, got %v", want, got)
	}
}
