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

// An Unflattener reconstructs a hierarchical Group from a flat Group
// produced by a Flattener with the same Convention, or authored
// directly in the flat format.
//
// The input Group is never mutated: members are moved out of a working
// copy, and a stand-in is deleted only once all of its members have
// been resolved. Any flat variable or dimension not reachable from a
// stand-in's member lists is assumed to be genuinely global and is left
// attached to the root, never silently dropped. That includes a
// prefixed group stand-in whose parent stand-in is absent: it stays a
// flat variable, with its member references validated under its own
// flat name, rather than becoming a group with nowhere to attach.
type Unflattener struct {
	// Conv is the reserved vocabulary to interpret. If nil, the
	// default convention is used.
	Conv *Convention
}

// Unflatten reconstructs the hierarchy of flat using the default
// convention.
func Unflatten(flat *Group) (*Group, error) {
	return (&Unflattener{}).Unflatten(flat)
}

// Unflatten reconstructs the hierarchical form of flat.
//
// Every unprefixed variable marking a former Group becomes a child
// Group of the root, and so on recursively down the prefix hierarchy:
// the members recorded on a stand-in are looked up under the stand-in's
// own flat name and moved into the reconstructed Group under their bare
// local names. Stand-ins that are not former Groups (semantic bundles)
// are retained as ordinary variables; their member and role attributes
// keep pointing at sibling local names, which resolve again now that
// the siblings share a Group.
func (u *Unflattener) Unflatten(flat *Group) (*Group, error) {
	conv := u.Conv
	if conv == nil {
		conv = DefaultConvention()
	}
	if err := conv.check(); err != nil {
		return nil, err
	}

	st := &unflattenState{
		conv:     conv,
		root:     flat.Copy(),
		dimHomes: make(map[string]dimHome),
	}
	for _, name := range st.root.Variables.Names() {
		if strings.Contains(name, conv.Separator) {
			// Prefixed stand-ins are reachable only through the
			// member lists of their parents.
			continue
		}
		v, err := st.root.Variables.Get(name)
		if err != nil {
			continue
		}
		if !conv.IsGroupStandIn(v) {
			continue
		}
		child, err := st.buildGroup(v, name, name)
		if err != nil {
			return nil, err
		}
		if _, err := st.root.Variables.Remove(name); err != nil {
			return nil, err
		}
		if err := st.root.Groups.Add(child); err != nil {
			return nil, err
		}
	}
	if err := st.rewriteDimensionRefs(st.root, []*Group{st.root}); err != nil {
		return nil, err
	}
	if err := st.checkBundles(st.root); err != nil {
		return nil, err
	}
	return st.root, nil
}

// A dimHome records where a flat dimension was moved to, so dimension
// references can be rewritten from flat back to local names.
type dimHome struct {
	group *Group
	local string
}

type unflattenState struct {
	conv     *Convention
	root     *Group
	dimHomes map[string]dimHome
}

// buildGroup materializes the Group represented by the stand-in with
// the given flat name, recursively expanding member groups. All member
// entities are resolved before anything is moved, so a dangling
// reference aborts with the flat workspace for this group untouched.
func (st *unflattenState) buildGroup(standin *Variable, flatName, localName string) (*Group, error) {
	conv := st.conv
	memberVars, err := conv.memberList(flatName, standin.Attrs, conv.MemberVarsAttr)
	if err != nil {
		return nil, err
	}
	memberDims, err := conv.memberList(flatName, standin.Attrs, conv.MemberDimsAttr)
	if err != nil {
		return nil, err
	}
	memberGroups, err := conv.memberList(flatName, standin.Attrs, conv.MemberGroupsAttr)
	if err != nil {
		return nil, err
	}
	groupSet := make(map[string]bool, len(memberGroups))
	for _, n := range memberGroups {
		groupSet[n] = true
	}

	// Resolve everything first.
	for _, n := range memberDims {
		if !st.root.Dimensions.Has(conv.Join(flatName, n)) {
			return nil, &DanglingReferenceError{Container: flatName, Attr: conv.MemberDimsAttr, Name: n}
		}
	}
	for _, n := range memberVars {
		if !st.root.Variables.Has(conv.Join(flatName, n)) {
			attr := conv.MemberVarsAttr
			if groupSet[n] {
				attr = conv.MemberGroupsAttr
			}
			return nil, &DanglingReferenceError{Container: flatName, Attr: attr, Name: n}
		}
	}
	for _, n := range memberGroups {
		if !st.root.Variables.Has(conv.Join(flatName, n)) {
			return nil, &DanglingReferenceError{Container: flatName, Attr: conv.MemberGroupsAttr, Name: n}
		}
	}

	g := NewGroup(localName)
	for _, a := range standin.Attrs.All() {
		if conv.isMemberAttr(a.Name) {
			continue // synthesized bookkeeping
		}
		if a.Name == conv.ContainerTypeAttr {
			if s, ok := a.Text(); ok && s == conv.GroupType {
				continue // the synthesized group marker
			}
		}
		if err := g.Attrs.Add(a.Copy()); err != nil {
			return nil, err
		}
	}

	for _, n := range memberDims {
		flatDim := conv.Join(flatName, n)
		d, err := st.root.Dimensions.Remove(flatDim)
		if err != nil {
			return nil, err
		}
		d.Name = n
		if err := g.Dimensions.Add(d); err != nil {
			return nil, err
		}
		st.dimHomes[flatDim] = dimHome{group: g, local: n}
	}

	// Member variables in recorded order; names also listed as member
	// groups expand into child Groups instead.
	done := make(map[string]bool, len(memberVars))
	for _, n := range memberVars {
		if done[n] {
			continue
		}
		done[n] = true
		if groupSet[n] {
			if err := st.expandChild(g, flatName, n); err != nil {
				return nil, err
			}
			continue
		}
		v, err := st.root.Variables.Remove(conv.Join(flatName, n))
		if err != nil {
			return nil, err
		}
		v.Name = n
		if err := g.Variables.Add(v); err != nil {
			return nil, err
		}
	}
	// Member groups a hand-authored file did not repeat in the
	// member-variables list.
	for _, n := range memberGroups {
		if done[n] {
			continue
		}
		done[n] = true
		if err := st.expandChild(g, flatName, n); err != nil {
			return nil, err
		}
	}

	if err := st.checkRoles(flatName, g.Attrs, done); err != nil {
		return nil, err
	}
	return g, nil
}

// expandChild recursively materializes the member group with local
// name n and attaches it to parent, consuming its stand-in.
func (st *unflattenState) expandChild(parent *Group, flatName, n string) error {
	childFlat := st.conv.Join(flatName, n)
	sv, err := st.root.Variables.Get(childFlat)
	if err != nil {
		return &DanglingReferenceError{Container: flatName, Attr: st.conv.MemberGroupsAttr, Name: n}
	}
	child, err := st.buildGroup(sv, childFlat, n)
	if err != nil {
		return err
	}
	if _, err := st.root.Variables.Remove(childFlat); err != nil {
		return err
	}
	return parent.Groups.Add(child)
}

// checkRoles verifies that every role attribute of a reconstructed
// group names one of its members.
func (st *unflattenState) checkRoles(flatName string, attrs *Container[*Attribute], members map[string]bool) error {
	roles, err := st.conv.RoleAttrs(flatName, attrs)
	if err != nil {
		return err
	}
	for _, role := range roles {
		a, err := attrs.Get(role)
		if err != nil {
			continue
		}
		target, ok := a.Text()
		if !ok {
			return &ReservedTokenError{Name: flatName, Token: role}
		}
		if !members[target] {
			return &DanglingReferenceError{Container: flatName, Attr: role, Name: target}
		}
	}
	return nil
}

// rewriteDimensionRefs walks the reconstructed tree converting each
// variable's dimension references from flat names back to the local
// names of the dimensions' new homes, verifying visibility: a
// dimension must be owned by the variable's group or an ancestor.
func (st *unflattenState) rewriteDimensionRefs(g *Group, chain []*Group) error {
	for _, v := range g.Variables.All() {
		for i, ref := range v.Dimensions {
			home, moved := st.dimHomes[ref]
			if !moved {
				// Still a root-level dimension with its original name.
				if !st.root.Dimensions.Has(ref) {
					return &InvalidDimensionReferenceError{Variable: v.Name, Dimension: ref}
				}
				continue
			}
			visible := false
			for _, anc := range chain {
				if anc == home.group {
					visible = true
					break
				}
			}
			if !visible {
				return &InvalidDimensionReferenceError{Variable: v.Name, Dimension: ref}
			}
			v.Dimensions[i] = home.local
		}
	}
	for _, sub := range g.Groups.All() {
		if err := st.rewriteDimensionRefs(sub, append(chain, sub)); err != nil {
			return err
		}
	}
	return nil
}

// checkBundles verifies the retained semantic containers: their member
// and role attributes must name entities resolvable from the container.
// A sibling bundle resolves members under its parent's prefix; a group
// stand-in left flat (its parent was never reconstructed) resolves
// members under its own flat name.
func (st *unflattenState) checkBundles(g *Group) error {
	conv := st.conv
	for _, v := range g.Variables.All() {
		if !conv.IsContainer(v) {
			continue
		}
		comps := conv.SplitName(v.Name)
		memberPrefix := conv.JoinPrefix(comps[:len(comps)-1])
		if conv.IsGroupStandIn(v) {
			memberPrefix = v.Name
		}
		siblings := make(map[string]bool)
		for _, n := range g.Variables.Names() {
			siblings[n] = true
		}
		for _, n := range g.Groups.Names() {
			siblings[n] = true
		}
		resolves := func(n string) bool { return siblings[conv.Join(memberPrefix, n)] }
		members, err := conv.memberList(v.Name, v.Attrs, conv.MemberVarsAttr)
		if err != nil {
			return err
		}
		for _, n := range members {
			if !resolves(n) {
				return &DanglingReferenceError{Container: v.Name, Attr: conv.MemberVarsAttr, Name: n}
			}
		}
		dims, err := conv.memberList(v.Name, v.Attrs, conv.MemberDimsAttr)
		if err != nil {
			return err
		}
		for _, n := range dims {
			if !g.Dimensions.Has(conv.Join(memberPrefix, n)) {
				return &DanglingReferenceError{Container: v.Name, Attr: conv.MemberDimsAttr, Name: n}
			}
		}
		roles, err := conv.RoleAttrs(v.Name, v.Attrs)
		if err != nil {
			return err
		}
		for _, role := range roles {
			a, err := v.Attrs.Get(role)
			if err != nil {
				continue
			}
			target, ok := a.Text()
			if !ok {
				return &ReservedTokenError{Name: v.Name, Token: role}
			}
			if !resolves(target) {
				return &DanglingReferenceError{Container: v.Name, Attr: role, Name: target}
			}
		}
	}
	for _, sub := range g.Groups.All() {
		if err := st.checkBundles(sub); err != nil {
			return err
		}
	}
	return nil
}
