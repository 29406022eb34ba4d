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

// Package nccdf converts between ncobj Groups and NetCDF classic
// (V1/V2) files. The classic format has a single flat namespace with
// no groups, so a hierarchical Group must be flattened before it can
// be written here, and a file read here comes back as a flat Group
// ready for unflattening.
//
// Bulk variable data is not loaded on read; each variable gets a lazy
// Handle that reads from the underlying storage on demand, which must
// therefore stay open as long as the data may be needed. The record
// count of a file is recoverable only from *os.File storage, so
// reading a record variable through any other storage fails.
package nccdf

import (
	"os"

	"github.com/ctessum/cdf"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/spatialmodel/ncobj"
)

// A Handle lazily reads one variable's data from an open NetCDF file.
// It is attached to Variables produced by Read as their opaque data
// handle.
type Handle struct {
	f     *cdf.File
	name  string
	shape []int // record dimension already resolved, or 0 if unknown
	char  bool
}

// Read returns the variable's entire data as a slice of the
// variable's Go element type, or a string for char data. For a record
// variable this needs the file's record count, which is known only
// when the storage the file was read from is an *os.File; with other
// storage Read returns an error rather than a truncated slice.
func (h *Handle) Read() (interface{}, error) {
	n := 1
	for _, l := range h.shape {
		if l == 0 {
			return nil, errors.Errorf("nccdf: record count for variable %s is unknown; record variables can only be read from *os.File storage", h.name)
		}
		n *= l
	}
	r := h.f.Reader(h.name, nil, nil)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, errors.Wrapf(err, "nccdf: reading variable %s", h.name)
	}
	if h.char {
		if b, ok := buf.([]uint8); ok {
			return string(b), nil
		}
	}
	return buf, nil
}

// Read constructs a flat Group from the NetCDF classic storage rw.
// The returned Group references rw through per-variable Handles, so rw
// must remain open while any of the data may still be needed.
func Read(rw cdf.ReaderWriterAt) (*ncobj.Group, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, errors.Wrap(err, "nccdf: opening file")
	}
	h := f.Header

	numrecs := -1
	if ff, ok := rw.(*os.File); ok {
		if fi, err := ff.Stat(); err == nil {
			numrecs = int(h.NumRecs(fi.Size()))
		}
	}

	g := ncobj.NewGroup("")
	names := h.Dimensions("")
	lengths := h.Lengths("")
	for i, name := range names {
		var d *ncobj.Dimension
		if lengths[i] == 0 {
			l := 0
			if numrecs > 0 {
				l = numrecs
			}
			d = ncobj.NewUnlimitedDimension(name, l)
		} else {
			d = ncobj.NewDimension(name, lengths[i])
		}
		if err := g.Dimensions.Add(d); err != nil {
			return nil, err
		}
	}
	for _, name := range h.Attributes("") {
		if err := g.Attrs.Add(ncobj.NewAttribute(name, decodeValue(h.GetAttribute("", name)))); err != nil {
			return nil, err
		}
	}
	for _, name := range h.Variables() {
		t := dataTypeOf(h.ZeroValue(name, 0))
		if t == ncobj.TypeNone {
			return nil, errors.Errorf("nccdf: variable %s has an unsupported data type", name)
		}
		v := ncobj.NewVariable(name, h.Dimensions(name), t)
		for _, a := range h.Attributes(name) {
			if err := v.Attrs.Add(ncobj.NewAttribute(a, decodeValue(h.GetAttribute(name, a)))); err != nil {
				return nil, err
			}
		}
		shape := append([]int(nil), h.Lengths(name)...)
		if len(shape) > 0 && shape[0] == 0 && numrecs > 0 {
			shape[0] = numrecs
		}
		v.Data = &Handle{f: f, name: name, shape: shape, char: t == ncobj.TypeChar}
		if err := g.Variables.Add(v); err != nil {
			return nil, err
		}
		log.Debugf("nccdf: read variable %s (%s)", name, t)
	}
	return g, nil
}

// Write materializes the flat Group g in the NetCDF classic storage
// rw, including bulk data for every variable whose data handle is
// non-nil. If rw is an *os.File and record variables were written, the
// header's record count is updated afterwards.
func Write(rw cdf.ReaderWriterAt, g *ncobj.Group) error {
	if g.Groups.Len() > 0 {
		return errors.Errorf("nccdf: group %q has nested groups; flatten it before writing", g.Name)
	}
	dims := g.Dimensions.All()
	names := make([]string, len(dims))
	lengths := make([]int, len(dims))
	nUnlimited := 0
	for i, d := range dims {
		names[i] = d.Name
		if d.Unlimited {
			nUnlimited++
			lengths[i] = 0
			continue
		}
		if d.Length <= 0 {
			return errors.Errorf("nccdf: dimension %q has non-positive length %d", d.Name, d.Length)
		}
		lengths[i] = d.Length
	}
	if nUnlimited > 1 {
		return errors.Errorf("nccdf: the classic format allows one unlimited dimension; group %q has %d", g.Name, nUnlimited)
	}

	h := cdf.NewHeader(names, lengths)
	for _, a := range g.Attrs.All() {
		val, err := encodeValue(a.Value)
		if err != nil {
			return errors.Wrapf(err, "nccdf: global attribute %s", a.Name)
		}
		h.AddAttribute("", a.Name, val)
	}
	for _, v := range g.Variables.All() {
		for _, ref := range v.Dimensions {
			if !g.Dimensions.Has(ref) {
				return &ncobj.InvalidDimensionReferenceError{Variable: v.Name, Dimension: ref}
			}
		}
		sample, err := zeroSample(v.Type)
		if err != nil {
			return errors.Wrapf(err, "nccdf: variable %s", v.Name)
		}
		h.AddVariable(v.Name, v.Dimensions, sample)
		for _, a := range v.Attrs.All() {
			val, err := encodeValue(a.Value)
			if err != nil {
				return errors.Wrapf(err, "nccdf: attribute %s:%s", v.Name, a.Name)
			}
			h.AddAttribute(v.Name, a.Name, val)
		}
	}
	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		return errors.Wrap(errs[0], "nccdf: invalid header")
	}

	f, err := cdf.Create(rw, h)
	if err != nil {
		return errors.Wrap(err, "nccdf: writing header")
	}
	wroteRecords := false
	for _, v := range g.Variables.All() {
		if v.Data == nil {
			continue
		}
		vals, err := dataValues(v.Data)
		if err != nil {
			return errors.Wrapf(err, "nccdf: data for variable %s", v.Name)
		}
		w := f.Writer(v.Name, nil, nil)
		if _, err := w.Write(vals); err != nil {
			return errors.Wrapf(err, "nccdf: writing variable %s", v.Name)
		}
		if f.Header.IsRecordVariable(v.Name) {
			wroteRecords = true
		}
		log.Debugf("nccdf: wrote variable %s", v.Name)
	}
	if wroteRecords {
		if ff, ok := rw.(*os.File); ok {
			if err := cdf.UpdateNumRecs(ff); err != nil {
				return errors.Wrap(err, "nccdf: updating record count")
			}
		}
	}
	return nil
}

// WriteFile writes g to a new file at path.
func WriteFile(path string, g *ncobj.Group) error {
	ff, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "nccdf: creating file")
	}
	if err := Write(ff, g); err != nil {
		ff.Close()
		return err
	}
	return ff.Close()
}

// dataValues resolves a variable's opaque data handle into the value
// to store: lazy handles are read through, anything else is assumed to
// already be a slice (or string) of the variable's element type.
func dataValues(data interface{}) (interface{}, error) {
	if h, ok := data.(interface {
		Read() (interface{}, error)
	}); ok {
		return h.Read()
	}
	return data, nil
}

func zeroSample(t ncobj.DataType) (interface{}, error) {
	switch t {
	case ncobj.TypeByte:
		return []uint8{}, nil
	case ncobj.TypeChar:
		return "", nil
	case ncobj.TypeShort:
		return []int16{}, nil
	case ncobj.TypeInt:
		return []int32{}, nil
	case ncobj.TypeFloat:
		return []float32{}, nil
	case ncobj.TypeDouble:
		return []float64{}, nil
	default:
		return nil, errors.Errorf("unsupported data type %v", t)
	}
}

func dataTypeOf(zero interface{}) ncobj.DataType {
	switch zero.(type) {
	case []uint8:
		return ncobj.TypeByte
	case string:
		return ncobj.TypeChar
	case []int16:
		return ncobj.TypeShort
	case []int32:
		return ncobj.TypeInt
	case []float32:
		return ncobj.TypeFloat
	case []float64:
		return ncobj.TypeDouble
	default:
		return ncobj.TypeNone
	}
}

// encodeValue converts an attribute value to one of the types the
// classic format stores. Scalars become length-1 slices, since classic
// attributes are always vectors (or text).
func encodeValue(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case []uint8, []int16, []int32, []float32, []float64:
		return v, nil
	case uint8:
		return []uint8{v}, nil
	case int16:
		return []int16{v}, nil
	case int32:
		return []int32{v}, nil
	case int:
		return []int32{int32(v)}, nil
	case []int:
		out := make([]int32, len(v))
		for i, x := range v {
			out[i] = int32(x)
		}
		return out, nil
	case float32:
		return []float32{v}, nil
	case float64:
		return []float64{v}, nil
	default:
		return nil, errors.Errorf("unsupported attribute value type %T", v)
	}
}

// decodeValue is the inverse of encodeValue: length-1 numeric vectors
// come back as scalars.
func decodeValue(v interface{}) interface{} {
	switch v := v.(type) {
	case []uint8:
		if len(v) == 1 {
			return v[0]
		}
	case []int16:
		if len(v) == 1 {
			return v[0]
		}
	case []int32:
		if len(v) == 1 {
			return v[0]
		}
	case []float32:
		if len(v) == 1 {
			return v[0]
		}
	case []float64:
		if len(v) == 1 {
			return v[0]
		}
	}
	return v
}
