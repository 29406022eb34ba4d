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

import "strings"

// A Flattener converts a hierarchical Group into a flat Group with a
// single level of dimensions and variables. All nesting is encoded with
// name prefixes and member-reference attributes, so the transformation
// is reversed without loss by an Unflattener using the same Convention.
//
// Flattening constructs a new graph; the source Group is never mutated,
// and a failed flatten leaves it untouched.
type Flattener struct {
	// Conv is the reserved vocabulary to encode with. If nil, the
	// default convention is used.
	Conv *Convention
}

// Flatten converts root into a flat Group using the default convention.
func Flatten(root *Group) (*Group, error) {
	return (&Flattener{}).Flatten(root)
}

// Flatten converts root into a flat Group.
//
// Top-level dimensions and variables keep their names; everything
// nested is promoted to the top level under its ancestor-qualified
// name. Each former Group becomes a scalar stand-in Variable named
// after the group, carrying the group's attributes plus the reserved
// member-reference attributes, whose values are local (unprefixed)
// names. Existing semantic containers below the root pass through
// unchanged except for the prefixing of their own names; their member
// and role attribute values are local names and therefore need no
// rewriting.
func (f *Flattener) Flatten(root *Group) (*Group, error) {
	conv := f.Conv
	if conv == nil {
		conv = DefaultConvention()
	}
	if err := conv.check(); err != nil {
		return nil, err
	}
	if err := checkReserved(conv, root); err != nil {
		return nil, err
	}

	flat := NewGroup(root.Name)
	for _, a := range root.Attrs.All() {
		flat.Attrs.Add(a.Copy())
	}
	scope := []scopeLevel{{group: root}}
	for _, d := range root.Dimensions.All() {
		if err := addFlatDim(flat, d.Copy()); err != nil {
			return nil, err
		}
	}
	for _, v := range root.Variables.All() {
		vv, err := flattenVariable(conv, scope, "", v)
		if err != nil {
			return nil, err
		}
		if err := addFlatVar(flat, vv); err != nil {
			return nil, err
		}
	}
	for _, g := range root.Groups.All() {
		if err := flattenGroup(conv, flat, g, scope); err != nil {
			return nil, err
		}
	}
	return flat, nil
}

// A scopeLevel pairs a group on the current nesting path with the flat
// name prefix of everything it owns. The root level has an empty
// prefix: root-level names are never prefixed.
type scopeLevel struct {
	group  *Group
	prefix string
}

func flattenGroup(conv *Convention, flat *Group, g *Group, parents []scopeLevel) error {
	prefix := conv.Join(parents[len(parents)-1].prefix, g.Name)
	scope := append(parents[:len(parents):len(parents)], scopeLevel{group: g, prefix: prefix})

	for _, d := range g.Dimensions.All() {
		dd := d.Copy()
		dd.Name = conv.Join(prefix, d.Name)
		if err := addFlatDim(flat, dd); err != nil {
			return err
		}
	}
	for _, v := range g.Variables.All() {
		vv, err := flattenVariable(conv, scope, prefix, v)
		if err != nil {
			return err
		}
		if err := addFlatVar(flat, vv); err != nil {
			return err
		}
	}
	for _, sub := range g.Groups.All() {
		if err := flattenGroup(conv, flat, sub, scope); err != nil {
			return err
		}
	}
	return addFlatVar(flat, groupStandIn(conv, g, prefix))
}

// groupStandIn builds the scalar stand-in variable recording g's
// attributes and direct members. Member lists name only what g itself
// owned; the contents of deeper groups are reachable transitively
// through the recorded member groups.
func groupStandIn(conv *Convention, g *Group, prefix string) *Variable {
	standin := NewVariable(prefix, nil, TypeInt)
	for _, a := range g.Attrs.All() {
		standin.Attrs.Add(a.Copy())
	}
	if !g.Attrs.Has(conv.ContainerTypeAttr) {
		standin.Attrs.Add(NewAttribute(conv.ContainerTypeAttr, conv.GroupType))
	}
	members := append(g.Variables.Names(), g.Groups.Names()...)
	if len(members) > 0 {
		standin.Attrs.Add(NewAttribute(conv.MemberVarsAttr, conv.JoinList(members)))
	}
	if g.Dimensions.Len() > 0 {
		standin.Attrs.Add(NewAttribute(conv.MemberDimsAttr, conv.JoinList(g.Dimensions.Names())))
	}
	// Always recorded, even when empty: this is what marks the
	// stand-in as a former group rather than a sibling bundle.
	standin.Attrs.Add(NewAttribute(conv.MemberGroupsAttr, conv.JoinList(g.Groups.Names())))
	return standin
}

// flattenVariable copies v under its flat name, rewriting its dimension
// references from local to flat names. References resolve against the
// innermost enclosing group owning a dimension of that name; root-owned
// dimensions keep their bare names at any depth.
func flattenVariable(conv *Convention, scope []scopeLevel, prefix string, v *Variable) (*Variable, error) {
	vv := v.Copy()
	vv.Name = conv.Join(prefix, v.Name)
	for i, ref := range vv.Dimensions {
		flatRef, ok := resolveDimension(conv, scope, ref)
		if !ok {
			return nil, &InvalidDimensionReferenceError{Variable: vv.Name, Dimension: ref}
		}
		vv.Dimensions[i] = flatRef
	}
	return vv, nil
}

func resolveDimension(conv *Convention, scope []scopeLevel, name string) (string, bool) {
	for i := len(scope) - 1; i >= 0; i-- {
		if scope[i].group.Dimensions.Has(name) {
			return conv.Join(scope[i].prefix, name), true
		}
	}
	return "", false
}

func addFlatDim(flat *Group, d *Dimension) error {
	if flat.Dimensions.Has(d.Name) {
		return &NameCollisionError{Kind: "dimension", Name: d.Name}
	}
	return flat.Dimensions.Add(d)
}

func addFlatVar(flat *Group, v *Variable) error {
	if flat.Variables.Has(v.Name) {
		return &NameCollisionError{Kind: "variable", Name: v.Name}
	}
	return flat.Variables.Add(v)
}

// checkReserved walks the hierarchy rejecting names that contain the
// separator token and reserved attributes attached to entities that
// cannot legitimately carry them.
func checkReserved(conv *Convention, g *Group) error {
	if strings.Contains(g.Name, conv.Separator) {
		return &ReservedTokenError{Name: g.Name, Token: conv.Separator}
	}
	for _, name := range g.Dimensions.Names() {
		if strings.Contains(name, conv.Separator) {
			return &ReservedTokenError{Name: name, Token: conv.Separator}
		}
	}
	// A group may declare a container type and roles of its own, but
	// the member lists are bookkeeping the Flattener generates.
	for _, a := range g.Attrs.All() {
		if conv.isMemberAttr(a.Name) {
			return &ReservedTokenError{Name: g.Name, Token: a.Name}
		}
	}
	if ct, ok := g.Attr(conv.ContainerTypeAttr); ok {
		if _, isText := ct.(string); !isText {
			return &ReservedTokenError{Name: g.Name, Token: conv.ContainerTypeAttr}
		}
	}
	for _, v := range g.Variables.All() {
		if strings.Contains(v.Name, conv.Separator) {
			return &ReservedTokenError{Name: v.Name, Token: conv.Separator}
		}
		if conv.IsContainer(v) {
			continue
		}
		for _, a := range v.Attrs.All() {
			if conv.isMemberAttr(a.Name) || a.Name == conv.RolesAttr {
				return &ReservedTokenError{Name: v.Name, Token: a.Name}
			}
		}
	}
	for _, sub := range g.Groups.All() {
		if err := checkReserved(conv, sub); err != nil {
			return err
		}
	}
	return nil
}
