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

// Package cdl renders ncobj elements as CDL text, in the style of
// "ncdump -h". Variable data is omitted. Elements are written in
// their container (insertion) order, which matches on-disk order.
package cdl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spatialmodel/ncobj"
)

const indentStep = 4

// Dump returns the CDL representation of el, which may be a *Group,
// *Variable, *Dimension, or *Attribute.
func Dump(el ncobj.Element) string {
	switch el := el.(type) {
	case *ncobj.Group:
		return strings.Join(groupLines(el, true, 0), "\n")
	case *ncobj.Variable:
		return strings.Join(varLines(el), "\n")
	case *ncobj.Dimension:
		return dimLine(el)
	case *ncobj.Attribute:
		return bareAttr(el)
	default:
		return fmt.Sprintf("// unrenderable element %v", el)
	}
}

// Comparable converts free-format CDL text into a canonical form for
// direct comparison: end-of-line comments removed, whitespace runs
// collapsed to single spaces, blank lines dropped.
func Comparable(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func indent(lines []string, n int) []string {
	pad := strings.Repeat(" ", n)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = pad + l
	}
	return out
}

func dimLine(d *ncobj.Dimension) string {
	if d.Unlimited {
		return fmt.Sprintf("%s = UNLIMITED ;", d.Name)
	}
	return fmt.Sprintf("%s = %d ;", d.Name, d.Length)
}

// bareAttr renders an attribute and its value without prefix or
// terminator. Numeric values carry the CDL type suffix.
func bareAttr(a *ncobj.Attribute) string {
	return fmt.Sprintf("%s = %s", a.Name, valueString(a.Value))
}

func valueString(v interface{}) string {
	switch v := v.(type) {
	case string:
		return `"` + v + `"`
	case []uint8:
		return joinVals(len(v), func(i int) string { return strconv.Itoa(int(v[i])) + "b" })
	case []int16:
		return joinVals(len(v), func(i int) string { return strconv.Itoa(int(v[i])) + "s" })
	case []int32:
		return joinVals(len(v), func(i int) string { return strconv.Itoa(int(v[i])) })
	case []int:
		return joinVals(len(v), func(i int) string { return strconv.Itoa(v[i]) })
	case []float32:
		return joinVals(len(v), func(i int) string { return formatFloat(float64(v[i]), 32) + "f" })
	case []float64:
		return joinVals(len(v), func(i int) string { return formatFloat(v[i], 64) })
	case uint8:
		return strconv.Itoa(int(v)) + "b"
	case int16:
		return strconv.Itoa(int(v)) + "s"
	case int32:
		return strconv.Itoa(int(v))
	case int:
		return strconv.Itoa(v)
	case float32:
		return formatFloat(float64(v), 32) + "f"
	case float64:
		return formatFloat(v, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func joinVals(n int, f func(int) string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = f(i)
	}
	return strings.Join(parts, ", ")
}

func formatFloat(f float64, bits int) string {
	return strconv.FormatFloat(f, 'g', -1, bits)
}

func varLines(v *ncobj.Variable) []string {
	dims := ""
	if len(v.Dimensions) > 0 {
		dims = "(" + strings.Join(v.Dimensions, ", ") + ")"
	}
	lines := []string{fmt.Sprintf("%s %s%s ;", v.Type, v.Name, dims)}
	for _, a := range v.Attrs.All() {
		lines = append(lines, indent([]string{fmt.Sprintf("%s:%s ;", v.Name, bareAttr(a))}, indentStep)...)
	}
	return lines
}

func groupLines(g *ncobj.Group, atRoot bool, ind int) []string {
	spaceID := "group:"
	if atRoot {
		spaceID = "netcdf"
	}
	pad := strings.Repeat(" ", ind)
	lines := []string{fmt.Sprintf("%s%s %s {", pad, spaceID, g.Name)}
	inner := ind + indentStep

	if g.Dimensions.Len() > 0 {
		lines = append(lines, "", pad+"dimensions:")
		for _, d := range g.Dimensions.All() {
			lines = append(lines, indent([]string{dimLine(d)}, inner)...)
		}
	}
	if g.Variables.Len() > 0 {
		lines = append(lines, "", pad+"variables:")
		for _, v := range g.Variables.All() {
			lines = append(lines, indent(varLines(v), inner)...)
		}
	}
	if g.Attrs.Len() > 0 {
		class := "group"
		if atRoot {
			class = "global"
		}
		lines = append(lines, "", pad+"// "+class+" attributes:")
		for _, a := range g.Attrs.All() {
			lines = append(lines, indent([]string{":" + bareAttr(a) + " ;"}, inner)...)
		}
	}
	for _, sub := range g.Groups.All() {
		lines = append(lines, "")
		lines = append(lines, groupLines(sub, false, inner)...)
	}
	end := pad + "}"
	if !atRoot {
		end += " // group " + g.Name
	}
	return append(lines, end)
}
