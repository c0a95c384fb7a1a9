/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

import "fmt"

// A Type represents the type of an Ion value.
type Type uint8

const (
	// NoType is returned by a Reader that is not currently positioned on a value.
	NoType Type = iota

	// NullType is the type of the unqualified Ion null value.
	NullType

	// BoolType is the type of an Ion boolean.
	BoolType

	// IntType is the type of a signed Ion integer of arbitrary size.
	IntType

	// FloatType is the type of a 64-bit binary floating-point Ion value.
	FloatType

	// DecimalType is the type of an arbitrary-precision Ion decimal value.
	DecimalType

	// TimestampType is the type of an Ion timestamp of arbitrary precision.
	TimestampType

	// SymbolType is the type of an Ion symbol: interned text addressed
	// by an integer symbol ID relative to a symbol table.
	SymbolType

	// StringType is the type of a non-interned Unicode string.
	StringType

	// ClobType is the type of a character large object; it holds an arbitrary
	// byte sequence like a blob, but renders in text form as an escaped-ASCII
	// string rather than base64.
	ClobType

	// BlobType is the type of a binary large object.
	BlobType

	// ListType is the type of an ordered sequence of Ion values.
	ListType

	// SexpType is the type of an s-expression: semantically a list, with a
	// lisp-like text syntax.
	SexpType

	// StructType is the type of a collection of symbol-named Ion values.
	// Field names may repeat; a struct is a multiset, not a map.
	StructType
)

// String implements fmt.Stringer for Type.
func (t Type) String() string {
	switch t {
	case NoType:
		return "<no type>"
	case NullType:
		return "null"
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case DecimalType:
		return "decimal"
	case TimestampType:
		return "timestamp"
	case SymbolType:
		return "symbol"
	case StringType:
		return "string"
	case ClobType:
		return "clob"
	case BlobType:
		return "blob"
	case ListType:
		return "list"
	case SexpType:
		return "sexp"
	case StructType:
		return "struct"
	default:
		return fmt.Sprintf("<unknown type %v>", uint8(t))
	}
}

// IsScalar reports whether t is a scalar (non-container) type.
func IsScalar(t Type) bool {
	return NullType <= t && t <= BlobType
}

// IsContainer reports whether t is a container type.
func IsContainer(t Type) bool {
	return ListType <= t && t <= StructType
}

// An IntSize tells you what Go type is needed to faithfully represent
// the Ion integer a Reader is positioned on.
type IntSize uint8

const (
	// NullInt is the size of null.int and things that aren't ints at all.
	NullInt IntSize = iota
	// Int32 fits in an int32.
	Int32
	// Int64 fits in an int64 but not an int32.
	Int64
	// BigInt requires a big.Int.
	BigInt
)

// String implements fmt.Stringer for IntSize.
func (i IntSize) String() string {
	switch i {
	case NullInt:
		return "null.int"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case BigInt:
		return "big.Int"
	default:
		return fmt.Sprintf("<unknown size %v>", uint8(i))
	}
}
