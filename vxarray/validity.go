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

package vxarray

// ValidityKind discriminates the four shapes a null mask can take (§3.3).
type ValidityKind byte

const (
	// NonNullableValidity means the DType itself forbids nulls; there
	// is no mask to consult.
	NonNullableValidity ValidityKind = iota
	// AllValidValidity means every position is valid, without a
	// materialized bitmap.
	AllValidValidity
	// AllInvalidValidity means every position is null, without a
	// materialized bitmap.
	AllInvalidValidity
	// BitMaskValidity means validity is backed by a Bool array.
	BitMaskValidity
)

// Validity is the null mask abstraction (§3.3). The BitMask variant
// wraps a Bool Array rather than a raw bitmap so that it benefits from
// the same O(1) slicing, compute dispatch, and statistics caching as
// any other Array.
type Validity struct {
	kind   ValidityKind
	length int
	bitmap Array // valid only when kind == BitMaskValidity
}

// NonNullable is the Validity for a DType that forbids nulls.
func NonNullable(length int) Validity {
	return Validity{kind: NonNullableValidity, length: length}
}

// AllValid is the Validity for an array none of whose positions are null.
func AllValid(length int) Validity {
	return Validity{kind: AllValidValidity, length: length}
}

// AllInvalid is the Validity for an array every position of which is null.
func AllInvalid(length int) Validity {
	return Validity{kind: AllInvalidValidity, length: length}
}

// NewBitMask builds a Validity backed by a Bool array; bitmap.Len()
// must equal the owning array's length.
func NewBitMask(bitmap Array) Validity {
	return Validity{kind: BitMaskValidity, length: bitmap.Len(), bitmap: bitmap}
}

// Kind returns the discriminant of this Validity.
func (v Validity) Kind() ValidityKind { return v.kind }

// Len returns the validity's element count.
func (v Validity) Len() int { return v.length }

// BitMask returns the backing Bool array; valid only when Kind() == BitMaskValidity.
func (v Validity) BitMask() Array { return v.bitmap }

// IsValid reports whether position i is non-null.
func (v Validity) IsValid(i int) bool {
	switch v.kind {
	case NonNullableValidity, AllValidValidity:
		return true
	case AllInvalidValidity:
		return false
	default:
		s, err := ScalarAt(v.bitmap, i)
		if err != nil {
			return true
		}
		return !s.IsNull() && s.AsBool()
	}
}

// Slice returns the Validity for the sub-range [start, stop).
func (v Validity) Slice(start, stop int) (Validity, error) {
	switch v.kind {
	case NonNullableValidity:
		return NonNullable(stop - start), nil
	case AllValidValidity:
		return AllValid(stop - start), nil
	case AllInvalidValidity:
		return AllInvalid(stop - start), nil
	default:
		sliced, err := Slice(v.bitmap, start, stop)
		if err != nil {
			return Validity{}, err
		}
		return NewBitMask(sliced), nil
	}
}

// Take returns the Validity selected by indices, an integer Array.
func (v Validity) Take(indices Array) (Validity, error) {
	switch v.kind {
	case NonNullableValidity:
		return NonNullable(indices.Len()), nil
	case AllValidValidity:
		return AllValid(indices.Len()), nil
	case AllInvalidValidity:
		return AllInvalid(indices.Len()), nil
	default:
		taken, err := Take(v.bitmap, indices)
		if err != nil {
			return Validity{}, err
		}
		return NewBitMask(taken), nil
	}
}

// LogicalValidity collapses a BitMask Validity to AllValid/AllInvalid
// when every bit agrees, the same simplification the RunCount/
// IsConstant statistics exploit; otherwise it returns v unchanged (§3.3).
func (v Validity) LogicalValidity() Validity {
	if v.kind != BitMaskValidity {
		return v
	}
	st := v.bitmap.Statistics()
	isConstant, err := st.Get(StatIsConstant)
	if err != nil || isConstant.IsNull() || !isConstant.AsBool() {
		return v
	}
	if v.length == 0 {
		return AllValid(0)
	}
	if v.IsValid(0) {
		return AllValid(v.length)
	}
	return AllInvalid(v.length)
}

// ToNullBuffer returns the BitMask array, or false if there is no
// materialized bitmap to return (NonNullable/AllValid/AllInvalid).
func (v Validity) ToNullBuffer() (Array, bool) {
	if v.kind != BitMaskValidity {
		return Array{}, false
	}
	return v.bitmap, true
}
