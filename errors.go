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

// A DuplicateNameError reports an attempt to add or rename an element
// over an existing name in the same container.
type DuplicateNameError struct {
	Kind string // element kind: "dimension", "variable", "group", "attribute"
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("ncobj: a %s named %q already exists", e.Kind, e.Name)
}

// A NotFoundError reports a lookup of a missing element by name.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ncobj: no %s named %q", e.Kind, e.Name)
}

// A NameCollisionError reports that two distinct entities would
// receive the same name in the flat namespace.
type NameCollisionError struct {
	Kind string
	Name string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("ncobj: flattening would produce two %ss named %q", e.Kind, e.Name)
}

// A ReservedTokenError reports that an original name already contains
// the reserved separator token, or that a reserved attribute name is
// used for an unrelated purpose.
type ReservedTokenError struct {
	Name  string // the offending entity name
	Token string // the separator or reserved attribute name
}

func (e *ReservedTokenError) Error() string {
	return fmt.Sprintf("ncobj: name %q uses reserved token %q", e.Name, e.Token)
}

// A DanglingReferenceError reports a member or role attribute naming a
// local name with no matching entity at the expected location.
type DanglingReferenceError struct {
	Container string // flat name of the container whose attribute is broken
	Attr      string // the member or role attribute name
	Name      string // the unresolvable local name
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("ncobj: container %q: attribute %q refers to %q, which does not exist",
		e.Container, e.Attr, e.Name)
}

// An InvalidDimensionReferenceError reports a variable referencing a
// dimension that is not visible at the variable's nesting level.
type InvalidDimensionReferenceError struct {
	Variable  string
	Dimension string
}

func (e *InvalidDimensionReferenceError) Error() string {
	return fmt.Sprintf("ncobj: variable %q references dimension %q, which is not visible to it",
		e.Variable, e.Dimension)
}
