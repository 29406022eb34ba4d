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

// Package ncobj is an abstract representation of NetCDF data for
// manipulation purposes, decoupled from any file API. It models the
// NetCDF4 data model (dimensions, variables, attributes, and nested
// groups) as an in-memory object graph and provides a reversible
// transformation between that hierarchical form and the flat,
// single-namespace form required by group-less storage backends such
// as the NetCDF classic format.
//
// The flat form encodes the lost structure with name prefixes and
// "semantic container" attributes (container_type, member_variables,
// member_dimensions, member_groups, roles); see Convention, Flattener
// and Unflattener.
package ncobj

// A DataType is one of the NetCDF external data types, named as in CDL.
type DataType int

const (
	TypeNone DataType = iota
	TypeByte
	TypeChar
	TypeShort
	TypeInt
	TypeFloat
	TypeDouble
)

var dataTypeNames = [...]string{"", "byte", "char", "short", "int", "float", "double"}

func (t DataType) String() string {
	if t > TypeNone && int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return "unknown"
}

// A Dimension is a named axis with a fixed or unlimited extent. It is
// owned by exactly one Group and is visible, by name, to variables in
// that Group and all of its descendants.
type Dimension struct {
	Name      string
	Length    int
	Unlimited bool
}

// NewDimension creates a Dimension of fixed extent length.
func NewDimension(name string, length int) *Dimension {
	return &Dimension{Name: name, Length: length}
}

// NewUnlimitedDimension creates a growable Dimension. The length is the
// currently materialized extent, which may be zero.
func NewUnlimitedDimension(name string, length int) *Dimension {
	return &Dimension{Name: name, Length: length, Unlimited: true}
}

// Copy returns a detached copy of d.
func (d *Dimension) Copy() *Dimension {
	dd := *d
	return &dd
}

func (d *Dimension) elementName() string     { return d.Name }
func (d *Dimension) setElementName(n string) { d.Name = n }

// An Attribute is a named scalar or sequence-of-scalar value (numeric
// or text) attached to a Variable or a Group.
type Attribute struct {
	Name  string
	Value interface{}
}

// NewAttribute creates an Attribute. The value should be a string, a
// numeric scalar, or a slice of numeric scalars.
func NewAttribute(name string, value interface{}) *Attribute {
	return &Attribute{Name: name, Value: value}
}

// Copy returns a detached copy of a. Slice values are copied so the
// original and the copy cannot alias each other.
func (a *Attribute) Copy() *Attribute {
	return &Attribute{Name: a.Name, Value: copyValue(a.Value)}
}

// Text returns the attribute value as a string, reporting whether the
// value is in fact text.
func (a *Attribute) Text() (string, bool) {
	s, ok := a.Value.(string)
	return s, ok
}

func (a *Attribute) elementName() string     { return a.Name }
func (a *Attribute) setElementName(n string) { a.Name = n }

func copyValue(v interface{}) interface{} {
	switch v := v.(type) {
	case []uint8:
		return append([]uint8(nil), v...)
	case []int16:
		return append([]int16(nil), v...)
	case []int32:
		return append([]int32(nil), v...)
	case []int64:
		return append([]int64(nil), v...)
	case []int:
		return append([]int(nil), v...)
	case []float32:
		return append([]float32(nil), v...)
	case []float64:
		return append([]float64(nil), v...)
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}

// A Variable is a named, typed, multi-dimensional data slot plus
// attributes. Dimensions are referenced by name; each reference must
// resolve to a Dimension owned by the variable's Group or one of its
// ancestors. Data is an opaque handle to the variable's bulk data: the
// transformations in this package move the binding but never read,
// copy, or otherwise interpret it. A zero-dimension Variable may carry
// no data at all and exist purely to host container-describing
// attributes.
type Variable struct {
	Name       string
	Dimensions []string
	Type       DataType
	Attrs      *Container[*Attribute]
	Data       interface{}
}

// NewVariable creates a Variable with the given dimension references
// and element type, and no data.
func NewVariable(name string, dimensions []string, t DataType) *Variable {
	return &Variable{
		Name:       name,
		Dimensions: append([]string(nil), dimensions...),
		Type:       t,
		Attrs:      newContainer[*Attribute]("attribute"),
	}
}

// Copy returns a detached copy of v. The data handle is shared between
// the original and the copy, not duplicated.
func (v *Variable) Copy() *Variable {
	vv := NewVariable(v.Name, v.Dimensions, v.Type)
	vv.Data = v.Data
	for _, a := range v.Attrs.All() {
		vv.Attrs.Add(a.Copy())
	}
	return vv
}

// Attr returns the value of the named attribute, if present.
func (v *Variable) Attr(name string) (interface{}, bool) {
	a, err := v.Attrs.Get(name)
	if err != nil {
		return nil, false
	}
	return a.Value, true
}

func (v *Variable) elementName() string     { return v.Name }
func (v *Variable) setElementName(n string) { v.Name = n }

// A Group is a named, hierarchical collection of Dimensions, Variables,
// child Groups, and Attributes. The root Group of a dataset
// conventionally has an empty name. Names are unique within each of the
// three sibling containers independently: a Dimension and a Variable in
// the same Group may share a name, but two Variables may not.
//
// Groups hold no parent pointers; ancestry is supplied by the walk that
// visits them, so a Group and its contents always form an acyclic tree
// that can be compared and copied structurally.
type Group struct {
	Name       string
	Dimensions *Container[*Dimension]
	Variables  *Container[*Variable]
	Groups     *Container[*Group]
	Attrs      *Container[*Attribute]
}

// NewGroup creates an empty Group.
func NewGroup(name string) *Group {
	return &Group{
		Name:       name,
		Dimensions: newContainer[*Dimension]("dimension"),
		Variables:  newContainer[*Variable]("variable"),
		Groups:     newContainer[*Group]("group"),
		Attrs:      newContainer[*Attribute]("attribute"),
	}
}

// Copy returns a detached deep copy of g. Variable data handles are
// shared, all other contents are duplicated.
func (g *Group) Copy() *Group {
	gg := NewGroup(g.Name)
	for _, d := range g.Dimensions.All() {
		gg.Dimensions.Add(d.Copy())
	}
	for _, v := range g.Variables.All() {
		gg.Variables.Add(v.Copy())
	}
	for _, sub := range g.Groups.All() {
		gg.Groups.Add(sub.Copy())
	}
	for _, a := range g.Attrs.All() {
		gg.Attrs.Add(a.Copy())
	}
	return gg
}

// Attr returns the value of the named group attribute, if present.
func (g *Group) Attr(name string) (interface{}, bool) {
	a, err := g.Attrs.Get(name)
	if err != nil {
		return nil, false
	}
	return a.Value, true
}

func (g *Group) elementName() string     { return g.Name }
func (g *Group) setElementName(n string) { g.Name = n }

// AllGroups returns g and all groups nested below it, depth first.
func AllGroups(g *Group) []*Group {
	gs := []*Group{g}
	for _, sub := range g.Groups.All() {
		gs = append(gs, AllGroups(sub)...)
	}
	return gs
}

// AllVariables returns the variables of g and of all groups nested
// below it, depth first.
func AllVariables(g *Group) []*Variable {
	var vs []*Variable
	for _, gg := range AllGroups(g) {
		vs = append(vs, gg.Variables.All()...)
	}
	return vs
}

// AllDimensions returns the dimensions of g and of all groups nested
// below it, depth first.
func AllDimensions(g *Group) []*Dimension {
	var ds []*Dimension
	for _, gg := range AllGroups(g) {
		ds = append(ds, gg.Dimensions.All()...)
	}
	return ds
}
