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

import "fmt"

// An Element is an entity that can be held in a Container: a
// *Dimension, *Attribute, *Variable, or *Group.
type Element interface {
	elementName() string
	setElementName(string)
}

// A Container is an ordered-by-insertion, name-keyed collection of
// elements of one kind. Names are unique within one container, and
// iteration order is insertion order, which is semantically meaningful:
// it determines on-disk variable and dimension order.
//
// A Container never silently overwrites or drops anything; adds and
// renames fail loudly on collision. Renaming an element updates the
// container's key and the element's own Name and nothing else; it
// never rewrites attributes of any other entity. That rewriting (or
// rather, the careful avoidance of it) belongs to the Flattener and
// Unflattener.
type Container[T Element] struct {
	kind  string
	names []string
	items map[string]T
}

func newContainer[T Element](kind string) *Container[T] {
	return &Container[T]{kind: kind, items: make(map[string]T)}
}

// Add inserts item under its own name, keeping insertion order.
// It returns a *DuplicateNameError if the name is already present.
func (c *Container[T]) Add(item T) error {
	name := item.elementName()
	if name == "" {
		return fmt.Errorf("ncobj: cannot add a %s with an empty name", c.kind)
	}
	if _, ok := c.items[name]; ok {
		return &DuplicateNameError{Kind: c.kind, Name: name}
	}
	c.items[name] = item
	c.names = append(c.names, name)
	return nil
}

// Get returns the element stored under name, or a *NotFoundError.
func (c *Container[T]) Get(name string) (T, error) {
	item, ok := c.items[name]
	if !ok {
		var zero T
		return zero, &NotFoundError{Kind: c.kind, Name: name}
	}
	return item, nil
}

// Has reports whether an element named name is present.
func (c *Container[T]) Has(name string) bool {
	_, ok := c.items[name]
	return ok
}

// Remove detaches and returns the element stored under name, or
// returns a *NotFoundError.
func (c *Container[T]) Remove(name string) (T, error) {
	item, ok := c.items[name]
	if !ok {
		var zero T
		return zero, &NotFoundError{Kind: c.kind, Name: name}
	}
	delete(c.items, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
	return item, nil
}

// Rename changes the key of the element stored under old to new and
// updates the element's own Name to match, keeping its position in the
// iteration order. It returns a *NotFoundError if old is absent and a
// *DuplicateNameError if new is already taken.
func (c *Container[T]) Rename(old, new string) error {
	item, ok := c.items[old]
	if !ok {
		return &NotFoundError{Kind: c.kind, Name: old}
	}
	if new == old {
		return nil
	}
	if new == "" {
		return fmt.Errorf("ncobj: cannot rename %s %q to an empty name", c.kind, old)
	}
	if _, ok := c.items[new]; ok {
		return &DuplicateNameError{Kind: c.kind, Name: new}
	}
	delete(c.items, old)
	c.items[new] = item
	item.setElementName(new)
	for i, n := range c.names {
		if n == old {
			c.names[i] = new
			break
		}
	}
	return nil
}

// Names returns the element names in insertion order.
func (c *Container[T]) Names() []string {
	return append([]string(nil), c.names...)
}

// All returns the elements in insertion order.
func (c *Container[T]) All() []T {
	items := make([]T, 0, len(c.names))
	for _, n := range c.names {
		items = append(items, c.items[n])
	}
	return items
}

// Len returns the number of elements.
func (c *Container[T]) Len() int { return len(c.names) }
