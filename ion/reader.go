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

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"math/big"
	"strings"
)

// A Reader reads a stream of Ion values as a cursor.
//
// The Reader has a logical position inside the stream of values, influencing
// the values returned from its methods. Initially, the Reader is positioned
// before the first value in the stream. A call to Next advances the Reader to
// the first value in the stream, with subsequent calls advancing to
// subsequent values. When a call to Next moves the Reader to the position
// after the final value in the stream, it returns false, making it easy to
// loop through the values in a stream.
//
//	var r Reader
//	for r.Next() {
//	  // ...
//	}
//
// Next also returns false in case of error. This can be distinguished from a
// legitimate end-of-stream by calling Err after exiting the loop.
//
// When positioned on an Ion value, the type of the value can be retrieved by
// calling Type. If it has an associated field name (inside a struct) or
// annotations, they can be read by calling FieldName and Annotations
// respectively.
//
// For atomic values, an appropriate XxxValue method can be called to read the
// value. For lists, sexps, and structs, you should instead call StepIn to
// move the Reader into the contained sequence of values. The Reader will
// initially be positioned before the first value in the container. You can
// read or skip values as usual with Next, then call StepOut to step back out
// of the container once done. Note that unread values, including the tail of
// a stepped-in container, are skipped over without being materialized.
//
// Symbol tables are processed transparently: a binary version marker resets
// the symbol table to the system table, and structs annotated with
// $ion_symbol_table become the new local table rather than user values.
//
// A Reader is not safe for use by multiple goroutines.
type Reader interface {
	// SymbolTable returns the symbol table currently in effect, or nil if
	// none has been installed yet.
	SymbolTable() SymbolTable

	// Next advances the Reader to the next position in the current value
	// stream. It returns true if this is the position of an Ion value, and
	// false if it is not. On error, it returns false and sets Err.
	Next() bool

	// Err returns an error if a previous call call to Next has failed.
	Err() error

	// Type returns the type of the Ion value the Reader is currently
	// positioned on. It returns NoType if the Reader is positioned before
	// or after a value.
	Type() Type

	// IsNull returns true if the current value is an explicit null. This
	// may be true even if the Type is not NullType (for example, null.int).
	IsNull() bool

	// Depth returns the number of containers the Reader has stepped into
	// and not yet stepped out of. At the top level the depth is zero.
	Depth() int

	// FieldName returns the field name associated with the current value.
	// It returns nil if there is no current value or the value has no field
	// name. It returns a SymbolNotFoundError if the field name is a symbol
	// ID with no entry in the current symbol table.
	FieldName() (*SymbolToken, error)

	// Annotations returns the annotations associated with the current
	// value. It returns a SymbolNotFoundError if any annotation is a symbol
	// ID with no entry in the current symbol table.
	Annotations() ([]SymbolToken, error)

	// StepIn steps in to the current value if it is a container. It returns
	// an error if there is no current value or if the value is not a
	// container. On success, the Reader is positioned before the first
	// value in the container.
	StepIn() error

	// StepOut steps out of the current container value being read. It
	// returns an error if this Reader is not currently stepped in to a
	// container. On success, the Reader is positioned after the end of the
	// container, but before any subsequent values in the stream.
	StepOut() error

	// BoolValue returns the current value as a boolean (if that makes
	// sense). It returns an error if the current value is not an Ion bool.
	BoolValue() (*bool, error)

	// IntSize returns the size of integer needed to losslessly represent
	// the current value (if that makes sense). It returns an error if the
	// current value is not an Ion int.
	IntSize() (IntSize, error)

	// IntValue returns the current value as an int (if that makes sense).
	// It returns an error if the current value is not an Ion integer or
	// requires more than 32 bits to represent losslessly.
	IntValue() (*int, error)

	// Int64Value returns the current value as an int64 (if that makes
	// sense). It returns an error if the current value is not an Ion
	// integer or requires more than 64 bits to represent losslessly.
	Int64Value() (*int64, error)

	// BigIntValue returns the current value as a big.Int (if that makes
	// sense). It returns an error if the current value is not an Ion
	// integer.
	BigIntValue() (*big.Int, error)

	// FloatValue returns the current value as a 64-bit floating point
	// number (if that makes sense). It returns an error if the current
	// value is not an Ion float.
	FloatValue() (*float64, error)

	// DecimalValue returns the current value as an arbitrary-precision
	// Decimal (if that makes sense). It returns an error if the current
	// value is not an Ion decimal.
	DecimalValue() (*Decimal, error)

	// TimestampValue returns the current value as a timestamp (if that
	// makes sense). It returns an error if the current value is not an Ion
	// timestamp.
	TimestampValue() (*Timestamp, error)

	// StringValue returns the current value as a string (if that makes
	// sense). It returns an error if the current value is not an Ion
	// string.
	StringValue() (*string, error)

	// SymbolValue returns the current value as a symbol token (if that
	// makes sense). It returns an error if the current value is not an Ion
	// symbol, or if it is a symbol ID with no entry in the current symbol
	// table.
	SymbolValue() (*SymbolToken, error)

	// ByteValue returns the current value as a byte slice (if that makes
	// sense). It returns an error if the current value is not an Ion clob
	// or blob.
	ByteValue() ([]byte, error)

	// IsInStruct reports whether the Reader is currently positioned inside
	// a struct.
	IsInStruct() bool
}

// NewReader creates a new Ion reader of the appropriate type by peeking at
// the first several bytes of input for a binary version marker.
func NewReader(in io.Reader) Reader {
	return NewReaderCat(in, nil)
}

// NewReaderStr creates a new Ion reader from a string.
func NewReaderStr(str string) Reader {
	return NewReader(strings.NewReader(str))
}

// NewReaderBytes creates a new Ion reader for the given bytes.
func NewReaderBytes(in []byte) Reader {
	return NewReader(bytes.NewReader(in))
}

// NewReaderCat creates a new reader with the given catalog for resolving
// shared symbol table imports.
func NewReaderCat(in io.Reader, cat Catalog) Reader {
	br := bufio.NewReader(in)

	bs, err := br.Peek(4)
	if err == nil && bs[0] == 0xE0 && bs[3] == 0xEA {
		return newBinaryReaderBuf(br, cat)
	}

	return newTextReaderBuf(br, cat)
}

// A reader holds the state shared between binary and text readers: the
// current value with its field name and annotations, plus the container
// nesting context.
type reader struct {
	ctx ctxstack
	eof bool
	err error

	fieldName      *SymbolToken
	fieldNameErr   error
	annotations    []SymbolToken
	annotationsErr error

	valueType Type
	value     interface{}
	valueErr  error
}

// Err returns the error from the previous call to Next, if any.
func (r *reader) Err() error {
	return r.err
}

// Type returns the type of the current value.
func (r *reader) Type() Type {
	return r.valueType
}

// IsNull returns true if the current value is a null.
func (r *reader) IsNull() bool {
	return r.valueType != NoType && r.value == nil
}

// Depth returns the number of containers the reader is stepped into.
func (r *reader) Depth() int {
	return r.ctx.depth()
}

// IsInStruct reports whether the reader is inside a struct.
func (r *reader) IsInStruct() bool {
	return r.ctx.peek() == ctxInStruct
}

// FieldName returns the field name of the current value.
func (r *reader) FieldName() (*SymbolToken, error) {
	if r.fieldNameErr != nil {
		return nil, r.fieldNameErr
	}
	return r.fieldName, nil
}

// Annotations returns the annotations of the current value.
func (r *reader) Annotations() ([]SymbolToken, error) {
	if r.annotationsErr != nil {
		return nil, r.annotationsErr
	}
	if r.annotations == nil {
		return nil, nil
	}
	as := make([]SymbolToken, len(r.annotations))
	copy(as, r.annotations)
	return as, nil
}

// BoolValue returns the current value as a bool.
func (r *reader) BoolValue() (*bool, error) {
	if r.valueType != BoolType {
		return nil, &UsageError{"Reader.BoolValue", "value is not a bool"}
	}
	if r.value == nil {
		return nil, nil
	}
	val := r.value.(bool)
	return &val, nil
}

// IntSize returns the size of the current int value.
func (r *reader) IntSize() (IntSize, error) {
	if r.valueType != IntType {
		return NullInt, &UsageError{"Reader.IntSize", "value is not an int"}
	}
	if r.value == nil {
		return NullInt, nil
	}

	if i, ok := r.value.(int64); ok {
		if i >= math.MinInt32 && i <= math.MaxInt32 {
			return Int32, nil
		}
		return Int64, nil
	}

	return BigInt, nil
}

// IntValue returns the current value as an int.
func (r *reader) IntValue() (*int, error) {
	if r.valueType != IntType {
		return nil, &UsageError{"Reader.IntValue", "value is not an int"}
	}
	if r.value == nil {
		return nil, nil
	}

	if i, ok := r.value.(int64); ok {
		if i >= math.MinInt32 && i <= math.MaxInt32 {
			val := int(i)
			return &val, nil
		}
	}

	return nil, &UsageError{"Reader.IntValue", "value does not fit in an int32"}
}

// Int64Value returns the current value as an int64.
func (r *reader) Int64Value() (*int64, error) {
	if r.valueType != IntType {
		return nil, &UsageError{"Reader.Int64Value", "value is not an int"}
	}
	if r.value == nil {
		return nil, nil
	}

	if i, ok := r.value.(int64); ok {
		return &i, nil
	}

	bi := r.value.(*big.Int)
	if bi.IsInt64() {
		val := bi.Int64()
		return &val, nil
	}

	return nil, &UsageError{"Reader.Int64Value", "value does not fit in an int64"}
}

// BigIntValue returns the current value as a big.Int.
func (r *reader) BigIntValue() (*big.Int, error) {
	if r.valueType != IntType {
		return nil, &UsageError{"Reader.BigIntValue", "value is not an int"}
	}
	if r.value == nil {
		return nil, nil
	}

	if i, ok := r.value.(int64); ok {
		return big.NewInt(i), nil
	}
	return r.value.(*big.Int), nil
}

// FloatValue returns the current value as a float64.
func (r *reader) FloatValue() (*float64, error) {
	if r.valueType != FloatType {
		return nil, &UsageError{"Reader.FloatValue", "value is not a float"}
	}
	if r.value == nil {
		return nil, nil
	}
	val := r.value.(float64)
	return &val, nil
}

// DecimalValue returns the current value as a Decimal.
func (r *reader) DecimalValue() (*Decimal, error) {
	if r.valueType != DecimalType {
		return nil, &UsageError{"Reader.DecimalValue", "value is not a decimal"}
	}
	if r.value == nil {
		return nil, nil
	}
	return r.value.(*Decimal), nil
}

// TimestampValue returns the current value as a Timestamp.
func (r *reader) TimestampValue() (*Timestamp, error) {
	if r.valueType != TimestampType {
		return nil, &UsageError{"Reader.TimestampValue", "value is not a timestamp"}
	}
	if r.value == nil {
		return nil, nil
	}
	val := r.value.(Timestamp)
	return &val, nil
}

// StringValue returns the current value as a string.
func (r *reader) StringValue() (*string, error) {
	if r.valueType != StringType {
		return nil, &UsageError{"Reader.StringValue", "value is not a string"}
	}
	if r.value == nil {
		return nil, nil
	}
	val := r.value.(string)
	return &val, nil
}

// SymbolValue returns the current value as a SymbolToken.
func (r *reader) SymbolValue() (*SymbolToken, error) {
	if r.valueType != SymbolType {
		return nil, &UsageError{"Reader.SymbolValue", "value is not a symbol"}
	}
	if r.valueErr != nil {
		return nil, r.valueErr
	}
	if r.value == nil {
		return nil, nil
	}
	val := r.value.(SymbolToken)
	return &val, nil
}

// ByteValue returns the current value as a byte slice.
func (r *reader) ByteValue() ([]byte, error) {
	if r.valueType != ClobType && r.valueType != BlobType {
		return nil, &UsageError{"Reader.ByteValue", "value is not a lob"}
	}
	if r.value == nil {
		return nil, nil
	}
	return r.value.([]byte), nil
}

// clear resets the current-value state ahead of the next value.
func (r *reader) clear() {
	r.fieldName = nil
	r.fieldNameErr = nil
	r.annotations = nil
	r.annotationsErr = nil
	r.valueType = NoType
	r.value = nil
	r.valueErr = nil
}
