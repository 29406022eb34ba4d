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
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// A Convention is the reserved vocabulary of the flat format: the name
// separator token and the attribute names that mark a flat variable as
// a semantic-container stand-in. It is an explicit value threaded into
// the Flattener and Unflattener rather than a package global, so that
// several flattening conventions can coexist in one process.
//
// The separator and the reserved attribute names are part of the flat
// wire format and must not be used by adapters for unrelated purposes.
type Convention struct {
	// Separator is the reserved token joining name components in the
	// flat namespace. No original name may contain it.
	Separator string `toml:"separator"`

	// ContainerTypeAttr tags a variable as a semantic-container
	// stand-in; its value classifies the container's semantics.
	ContainerTypeAttr string `toml:"container_type_attr"`

	// MemberVarsAttr, MemberDimsAttr and MemberGroupsAttr list, as
	// local names, the members of a container.
	MemberVarsAttr   string `toml:"member_variables_attr"`
	MemberDimsAttr   string `toml:"member_dimensions_attr"`
	MemberGroupsAttr string `toml:"member_groups_attr"`

	// RolesAttr optionally lists further attribute names whose values
	// are member references.
	RolesAttr string `toml:"roles_attr"`

	// GroupType is the container_type value marking a stand-in that
	// represents a former Group with no semantics of its own.
	GroupType string `toml:"group_type"`

	// WellKnownRoles are role attribute names recognized without being
	// declared in RolesAttr.
	WellKnownRoles []string `toml:"well_known_roles"`
}

// DefaultConvention returns the convention documented as the default
// flat-format contract.
func DefaultConvention() *Convention {
	return &Convention{
		Separator:         "___",
		ContainerTypeAttr: "container_type",
		MemberVarsAttr:    "member_variables",
		MemberDimsAttr:    "member_dimensions",
		MemberGroupsAttr:  "member_groups",
		RolesAttr:         "roles",
		GroupType:         "simple-group",
		WellKnownRoles:    []string{"measured", "quality", "grid_east", "grid_north"},
	}
}

// LoadConvention reads a TOML convention description from r. Fields
// not mentioned in the file keep their default values.
func LoadConvention(r io.Reader) (*Convention, error) {
	c := DefaultConvention()
	if _, err := toml.DecodeReader(r, c); err != nil {
		return nil, fmt.Errorf("ncobj: loading convention: %v", err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Convention) check() error {
	if c.Separator == "" {
		return fmt.Errorf("ncobj: convention separator must not be empty")
	}
	seen := make(map[string]bool)
	for _, a := range []string{c.ContainerTypeAttr, c.MemberVarsAttr,
		c.MemberDimsAttr, c.MemberGroupsAttr, c.RolesAttr} {
		if a == "" {
			return fmt.Errorf("ncobj: convention attribute names must not be empty")
		}
		if seen[a] {
			return fmt.Errorf("ncobj: convention attribute name %q repeated", a)
		}
		seen[a] = true
	}
	return nil
}

// Join concatenates a flat name prefix and a local name with the
// separator. An empty prefix (the root level) leaves the name as is.
func (c *Convention) Join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + c.Separator + name
}

// SplitName splits a flat name back into its components. This is
// unambiguous because the separator may not occur in any original name.
func (c *Convention) SplitName(flat string) []string {
	return strings.Split(flat, c.Separator)
}

// JoinPrefix joins flat-name components back together with the
// separator; it is the inverse of SplitName.
func (c *Convention) JoinPrefix(components []string) string {
	return strings.Join(components, c.Separator)
}

// SplitList parses a name-list attribute value, splitting on
// whitespace and discarding empty entries.
func (c *Convention) SplitList(s string) []string {
	return strings.Fields(s)
}

// JoinList formats a name list as an attribute value.
func (c *Convention) JoinList(names []string) string {
	return strings.Join(names, " ")
}

// ContainerType returns the container_type tag of v, if present and
// textual.
func (c *Convention) ContainerType(v *Variable) (string, bool) {
	val, ok := v.Attr(c.ContainerTypeAttr)
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// IsContainer reports whether v is a semantic-container stand-in, which
// is the case exactly when it carries the container-type attribute.
func (c *Convention) IsContainer(v *Variable) bool {
	_, ok := v.Attr(c.ContainerTypeAttr)
	return ok
}

// IsGroupStandIn reports whether v stands in for a former Group, as
// opposed to a semantically bundled set of sibling variables. Former
// groups are recognized by the member-groups attribute (which the
// Flattener always records on them, even when empty) or by the group
// marker container type.
func (c *Convention) IsGroupStandIn(v *Variable) bool {
	if !c.IsContainer(v) {
		return false
	}
	if v.Attrs.Has(c.MemberGroupsAttr) {
		return true
	}
	t, _ := c.ContainerType(v)
	return t == c.GroupType
}

// isMemberAttr reports whether name is one of the member-list
// attribute names.
func (c *Convention) isMemberAttr(name string) bool {
	return name == c.MemberVarsAttr || name == c.MemberDimsAttr || name == c.MemberGroupsAttr
}

// memberList parses the named member-list attribute of attrs into local
// names. A missing attribute yields nil; a non-text value is a misuse
// of the reserved vocabulary.
func (c *Convention) memberList(owner string, attrs *Container[*Attribute], name string) ([]string, error) {
	a, err := attrs.Get(name)
	if err != nil {
		return nil, nil
	}
	s, ok := a.Text()
	if !ok {
		return nil, &ReservedTokenError{Name: owner, Token: name}
	}
	return c.SplitList(s), nil
}

// RoleAttrs returns, in attribute order, the names of the attributes in
// attrs that are role attributes: those declared by the roles attribute
// plus the well-known role names.
func (c *Convention) RoleAttrs(owner string, attrs *Container[*Attribute]) ([]string, error) {
	declared := make(map[string]bool)
	if a, err := attrs.Get(c.RolesAttr); err == nil {
		s, ok := a.Text()
		if !ok {
			return nil, &ReservedTokenError{Name: owner, Token: c.RolesAttr}
		}
		for _, n := range c.SplitList(s) {
			declared[n] = true
		}
	}
	for _, n := range c.WellKnownRoles {
		declared[n] = true
	}
	var roles []string
	for _, n := range attrs.Names() {
		if declared[n] {
			roles = append(roles, n)
		}
	}
	return roles, nil
}
