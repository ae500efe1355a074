// Copyright (C) 2024 The Vortex Authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package datetimeparts implements the DateTimeParts encoding: a
// logical timestamp (microseconds since the Unix epoch, wrapped in a
// "vortex.timestamp" Extension DType over an I64 Primitive storage
// type) is split into a days-since-epoch child and a
// microseconds-since-midnight child. Real timestamp columns cluster
// around a handful of distinct dates, so the days child compresses far
// better standing alone than it does buried in the low bits of a
// microsecond count; the time-of-day child is left for a downstream
// encoding (BitPacked, FoR) to shrink further. The day/time-of-day
// split itself is fastdate.Timestamp's own floor-division
// decomposition, exposed as the exported DaysAndTimeOfDay/
// FromDaysAndTimeOfDay pair rather than reimplemented here.
package datetimeparts

import (
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/boolarr"
	"github.com/vortex-data/vortex-go/encodings/extension"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/fastdate"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

// ExtensionID identifies the logical timestamp DType this encoding
// operates on. The storage type is always I64 microseconds.
const ExtensionID = "vortex.timestamp"

func decompose(ts int64) (days int32, timeOfDay uint64) {
	d, t := fastdate.Timestamp(ts).DaysAndTimeOfDay()
	return int32(d), t
}

func recompose(days int32, timeOfDay uint64) int64 {
	return int64(fastdate.FromDaysAndTimeOfDay(int64(days), timeOfDay))
}

func init() {
	vxarray.Register(encoding{})
}

// TimestampDType builds the logical DType that DateTimeParts encodes:
// microseconds since the Unix epoch, carried in an I64 Primitive.
func TimestampDType(n dtype.Nullability) dtype.DType {
	return dtype.Extension(ExtensionID, dtype.Primitive(dtype.I64, dtype.NonNullable), nil, n)
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.DateTimePartsID }
func (encoding) Name() string           { return "datetimeparts" }

func daysOf(a vxarray.Array) vxarray.Array          { return a.Child(0) }
func timeOfDayOf(a vxarray.Array) vxarray.Array     { return a.Child(1) }
func validityChildOf(a vxarray.Array) vxarray.Array { return a.Child(2) }

func (encoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindExtension || dt.ExtensionID() != ExtensionID {
		return vxerror.NewInvalidDType("datetimeparts: dtype must be the %q extension, got %s", ExtensionID, dt)
	}
	storage := dt.StorageDType()
	if storage.Kind() != dtype.KindPrimitive || storage.PType() != dtype.I64 {
		return vxerror.NewInvalidEncoding("datetimeparts: storage type must be I64")
	}
	wantChildren := 2
	if dt.Nullable() {
		wantChildren = 3
	}
	if a.NumChildren() != wantChildren {
		return vxerror.NewInvalidEncoding("datetimeparts: nullability %s requires %d children", dt.Nullability(), wantChildren)
	}
	days := daysOf(a)
	if days.DType().Kind() != dtype.KindPrimitive || days.DType().PType() != dtype.I32 || days.Len() != a.Len() {
		return vxerror.NewInvalidEncoding("datetimeparts: days child must be a non-nullable I32 of matching length")
	}
	tod := timeOfDayOf(a)
	if tod.DType().Kind() != dtype.KindPrimitive || tod.DType().PType() != dtype.U64 || tod.Len() != a.Len() {
		return vxerror.NewInvalidEncoding("datetimeparts: time-of-day child must be a non-nullable U64 of matching length")
	}
	if dt.Nullable() {
		v := validityChildOf(a)
		if v.DType().Kind() != dtype.KindBool || v.Len() != a.Len() {
			return vxerror.NewInvalidEncoding("datetimeparts: validity child must be a Bool of matching length")
		}
	}
	return nil
}

// New splits a slice of Unix microsecond timestamps into DateTimeParts.
// validity is nil for a non-nullable result; otherwise it must have
// len(values) entries and values[i] is ignored where validity[i] is false.
func New(values []int64, validity []bool) vxarray.Array {
	days := make([]int64, len(values))
	timeOfDay := make([]uint64, len(values))
	for i, ts := range values {
		d, t := decompose(ts)
		days[i] = int64(d)
		timeOfDay[i] = t
	}
	n := dtype.NonNullable
	var children []vxarray.Array
	daysArr := primitive.FromInt64(dtype.I32, days)
	todArr := primitive.FromUint64(dtype.U64, timeOfDay)
	children = append(children, daysArr, todArr)
	if validity != nil {
		n = dtype.Nullable
		children = append(children, boolarr.FromBools(validity))
	}
	return vxarray.MustNewParts(vxarray.DateTimePartsID, TimestampDType(n), len(values), nil, children, nil)
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	return vxarray.NewBitMask(validityChildOf(a)), nil
}

func timestampAt(a vxarray.Array, i int) int64 {
	days := int32(primitive.ValueAt(daysOf(a), i))
	tod := primitive.ValueAt(timeOfDayOf(a), i)
	return recompose(days, tod)
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.Len() {
		return scalar.Scalar{}, vxerror.NewOutOfBounds(i, 0, a.Len())
	}
	dt := a.DType()
	if dt.Nullable() {
		v, err := vxarray.ScalarAt(validityChildOf(a), i)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if !v.AsBool() {
			return scalar.Null(dt), nil
		}
	}
	return scalar.Int(dtype.I64, timestampAt(a, i), dt.Nullability()), nil
}

// Canonicalize recomposes the I64 microsecond storage array, tagged
// with the logical Extension DType.
func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	dt := a.DType()
	values := make([]int64, a.Len())
	for i := range values {
		values[i] = timestampAt(a, i)
	}
	storage := primitive.FromInt64(dtype.I64, values)
	if dt.Nullable() {
		return extension.NewNullable(dt, storage, validityChildOf(a)), nil
	}
	return extension.New(dt, storage), nil
}

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	switch kind {
	case vxarray.StatMin, vxarray.StatMax:
		canon, err := (encoding{}).Canonicalize(a)
		if err != nil {
			return nil, err
		}
		return canon.Statistics().ComputeMany(kind)
	default:
		return vxarray.DefaultComputeStatistics(a)
	}
}

// SliceArray implements vxarray.SliceFn: both component children slice
// in O(1), so the split survives a slice without recomposing anything.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	days, err := vxarray.Slice(daysOf(a), start, stop)
	if err != nil {
		return vxarray.Array{}, err
	}
	tod, err := vxarray.Slice(timeOfDayOf(a), start, stop)
	if err != nil {
		return vxarray.Array{}, err
	}
	children := []vxarray.Array{days, tod}
	if a.DType().Nullable() {
		v, err := vxarray.Slice(validityChildOf(a), start, stop)
		if err != nil {
			return vxarray.Array{}, err
		}
		children = append(children, v)
	}
	return vxarray.MustNewParts(vxarray.DateTimePartsID, a.DType(), stop-start, nil, children, nil), nil
}

// Take implements vxarray.TakeFn by gathering both component children
// independently through the registered dispatch.
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	days, err := vxarray.Take(daysOf(a), indices)
	if err != nil {
		return vxarray.Array{}, err
	}
	tod, err := vxarray.Take(timeOfDayOf(a), indices)
	if err != nil {
		return vxarray.Array{}, err
	}
	children := []vxarray.Array{days, tod}
	if a.DType().Nullable() {
		v, err := vxarray.Take(validityChildOf(a), indices)
		if err != nil {
			return vxarray.Array{}, err
		}
		children = append(children, v)
	}
	return vxarray.MustNewParts(vxarray.DateTimePartsID, a.DType(), indices.Len(), nil, children, nil), nil
}
