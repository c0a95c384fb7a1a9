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
	"bytes"
	"math"
	"math/big"

	"github.com/pkg/errors"
)

// A Value is a fully-materialized Ion value: a type tag, optional
// annotations, and a payload. Container values hold their children, so a
// Value is the root of a tree. The zero Value is invalid; use the
// constructors.
//
// Values compare with Equal under the Ion data model rather than Go
// equality: decimals compare numerically, timestamps carry their
// precision, and structs are multisets of fields.
type Value struct {
	typ         Type
	annotations []SymbolToken
	value       interface{}
}

// A StructField is a field-name/value pair inside a struct. Field names
// may repeat; a struct is a multiset of these pairs.
type StructField struct {
	Name  SymbolToken
	Value Value
}

// Null returns a null value of the given type. Null(NullType) is the
// untyped null.
func Null(t Type) Value {
	return Value{typ: t}
}

// Bool returns a bool value.
func Bool(val bool) Value {
	return Value{typ: BoolType, value: val}
}

// Int returns an int value.
func Int(val int64) Value {
	return Value{typ: IntType, value: val}
}

// BigIntValue returns an int value of arbitrary size.
func BigIntValue(val *big.Int) Value {
	if val.IsInt64() {
		return Int(val.Int64())
	}
	return Value{typ: IntType, value: val}
}

// Float returns a float value.
func Float(val float64) Value {
	return Value{typ: FloatType, value: val}
}

// DecimalValue returns a decimal value.
func DecimalValue(val *Decimal) Value {
	return Value{typ: DecimalType, value: val}
}

// TimestampValue returns a timestamp value.
func TimestampValue(val Timestamp) Value {
	return Value{typ: TimestampType, value: val}
}

// String returns a string value.
func String(val string) Value {
	return Value{typ: StringType, value: val}
}

// Symbol returns a symbol value.
func Symbol(val SymbolToken) Value {
	return Value{typ: SymbolType, value: val}
}

// SymbolFromString returns a symbol value with the given text.
func SymbolFromString(val string) Value {
	return Symbol(NewSymbolTokenFromString(val))
}

// Blob returns a blob value.
func Blob(val []byte) Value {
	return Value{typ: BlobType, value: val}
}

// Clob returns a clob value.
func Clob(val []byte) Value {
	return Value{typ: ClobType, value: val}
}

// List returns a list containing the given values.
func List(vals ...Value) Value {
	if vals == nil {
		vals = []Value{}
	}
	return Value{typ: ListType, value: vals}
}

// Sexp returns an s-expression containing the given values.
func Sexp(vals ...Value) Value {
	if vals == nil {
		vals = []Value{}
	}
	return Value{typ: SexpType, value: vals}
}

// Struct returns a struct containing the given fields.
func Struct(fields ...StructField) Value {
	if fields == nil {
		fields = []StructField{}
	}
	return Value{typ: StructType, value: fields}
}

// WithAnnotations returns a copy of this value carrying the given
// annotations in place of any existing ones.
func (v Value) WithAnnotations(as ...SymbolToken) Value {
	v.annotations = as
	return v
}

// Type returns the type of this value.
func (v Value) Type() Type {
	return v.typ
}

// IsNull reports whether this value is a null of any type.
func (v Value) IsNull() bool {
	return v.typ != NoType && v.value == nil
}

// Annotations returns the annotations on this value.
func (v Value) Annotations() []SymbolToken {
	return v.annotations
}

// BoolValue returns this value as a bool.
func (v Value) BoolValue() (*bool, error) {
	if v.typ != BoolType {
		return nil, &UsageError{"Value.BoolValue", "value is not a bool"}
	}
	if v.value == nil {
		return nil, nil
	}
	val := v.value.(bool)
	return &val, nil
}

// Int64Value returns this value as an int64.
func (v Value) Int64Value() (*int64, error) {
	if v.typ != IntType {
		return nil, &UsageError{"Value.Int64Value", "value is not an int"}
	}
	if v.value == nil {
		return nil, nil
	}
	if i, ok := v.value.(int64); ok {
		return &i, nil
	}
	return nil, &UsageError{"Value.Int64Value", "value does not fit in an int64"}
}

// BigIntValue returns this value as a big.Int.
func (v Value) BigIntValue() (*big.Int, error) {
	if v.typ != IntType {
		return nil, &UsageError{"Value.BigIntValue", "value is not an int"}
	}
	if v.value == nil {
		return nil, nil
	}
	if i, ok := v.value.(int64); ok {
		return big.NewInt(i), nil
	}
	return v.value.(*big.Int), nil
}

// FloatValue returns this value as a float64.
func (v Value) FloatValue() (*float64, error) {
	if v.typ != FloatType {
		return nil, &UsageError{"Value.FloatValue", "value is not a float"}
	}
	if v.value == nil {
		return nil, nil
	}
	val := v.value.(float64)
	return &val, nil
}

// DecimalValue returns this value as a Decimal.
func (v Value) DecimalValue() (*Decimal, error) {
	if v.typ != DecimalType {
		return nil, &UsageError{"Value.DecimalValue", "value is not a decimal"}
	}
	if v.value == nil {
		return nil, nil
	}
	return v.value.(*Decimal), nil
}

// TimestampValue returns this value as a Timestamp.
func (v Value) TimestampValue() (*Timestamp, error) {
	if v.typ != TimestampType {
		return nil, &UsageError{"Value.TimestampValue", "value is not a timestamp"}
	}
	if v.value == nil {
		return nil, nil
	}
	val := v.value.(Timestamp)
	return &val, nil
}

// StringValue returns this value as a string.
func (v Value) StringValue() (*string, error) {
	if v.typ != StringType {
		return nil, &UsageError{"Value.StringValue", "value is not a string"}
	}
	if v.value == nil {
		return nil, nil
	}
	val := v.value.(string)
	return &val, nil
}

// SymbolValue returns this value as a SymbolToken.
func (v Value) SymbolValue() (*SymbolToken, error) {
	if v.typ != SymbolType {
		return nil, &UsageError{"Value.SymbolValue", "value is not a symbol"}
	}
	if v.value == nil {
		return nil, nil
	}
	val := v.value.(SymbolToken)
	return &val, nil
}

// ByteValue returns this value as a byte slice.
func (v Value) ByteValue() ([]byte, error) {
	if v.typ != ClobType && v.typ != BlobType {
		return nil, &UsageError{"Value.ByteValue", "value is not a lob"}
	}
	if v.value == nil {
		return nil, nil
	}
	return v.value.([]byte), nil
}

// Values returns the children of a list or sexp.
func (v Value) Values() ([]Value, error) {
	if v.typ != ListType && v.typ != SexpType {
		return nil, &UsageError{"Value.Values", "value is not a sequence"}
	}
	if v.value == nil {
		return nil, nil
	}
	return v.value.([]Value), nil
}

// Fields returns the fields of a struct.
func (v Value) Fields() ([]StructField, error) {
	if v.typ != StructType {
		return nil, &UsageError{"Value.Fields", "value is not a struct"}
	}
	if v.value == nil {
		return nil, nil
	}
	return v.value.([]StructField), nil
}

// Equal reports whether two values are equivalent under the Ion data
// model. Annotations must match in order; decimals compare numerically
// but keep the negative-zero distinction; timestamps must agree on
// instant, precision, and timezone kind; floats compare bit-for-bit so
// that NaN equals NaN and 0e0 differs from -0e0; structs compare as
// multisets of fields.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	if !annotationsEqual(v.annotations, o.annotations) {
		return false
	}
	if v.value == nil || o.value == nil {
		return v.value == nil && o.value == nil
	}

	switch v.typ {
	case NullType:
		return true

	case BoolType:
		return v.value.(bool) == o.value.(bool)

	case IntType:
		vi, vok := v.value.(int64)
		oi, ook := o.value.(int64)
		if vok && ook {
			return vi == oi
		}
		vb, _ := v.BigIntValue()
		ob, _ := o.BigIntValue()
		return vb.Cmp(ob) == 0

	case FloatType:
		vf := v.value.(float64)
		of := o.value.(float64)
		if math.IsNaN(vf) && math.IsNaN(of) {
			return true
		}
		return math.Float64bits(vf) == math.Float64bits(of)

	case DecimalType:
		vd := v.value.(*Decimal)
		od := o.value.(*Decimal)
		return vd.Equal(od) && vd.IsNegZero() == od.IsNegZero()

	case TimestampType:
		return v.value.(Timestamp).Equal(o.value.(Timestamp))

	case SymbolType:
		return v.value.(SymbolToken).Equal(o.value.(SymbolToken))

	case StringType:
		return v.value.(string) == o.value.(string)

	case BlobType, ClobType:
		return bytes.Equal(v.value.([]byte), o.value.([]byte))

	case ListType, SexpType:
		vs := v.value.([]Value)
		os := o.value.([]Value)
		if len(vs) != len(os) {
			return false
		}
		for i := range vs {
			if !vs[i].Equal(os[i]) {
				return false
			}
		}
		return true

	case StructType:
		return structFieldsEqual(v.value.([]StructField), o.value.([]StructField))

	default:
		return false
	}
}

func annotationsEqual(a, b []SymbolToken) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// structFieldsEqual compares two field lists as multisets: order does
// not matter, but repeated fields must repeat the same number of times.
func structFieldsEqual(a, b []StructField) bool {
	if len(a) != len(b) {
		return false
	}

	used := make([]bool, len(b))
	for _, fa := range a {
		found := false
		for j := range b {
			if used[j] {
				continue
			}
			if fa.Name.Equal(b[j].Name) && fa.Value.Equal(b[j].Value) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// String renders this value as Ion text.
func (v Value) String() string {
	buf := bytes.Buffer{}
	w := NewTextWriterOpts(&buf, TextWriterQuietFinish)
	if err := v.WriteTo(w); err != nil {
		return "<invalid: " + err.Error() + ">"
	}
	if err := w.Finish(); err != nil {
		return "<invalid: " + err.Error() + ">"
	}
	return buf.String()
}

// ReadValue materializes the value the reader is currently positioned
// on, stepping through containers recursively. On return the reader is
// positioned after the value.
func ReadValue(r Reader) (Value, error) {
	if r.Type() == NoType {
		return Value{}, &UsageError{"ReadValue", "reader is not positioned on a value"}
	}
	return readValue(r)
}

// ReadAllValues materializes every remaining value in the stream.
func ReadAllValues(r Reader) ([]Value, error) {
	var vals []Value

	for r.Next() {
		val, err := readValue(r)
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}
	if err := r.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to read value stream")
	}

	return vals, nil
}

func readValue(r Reader) (Value, error) {
	as, err := r.Annotations()
	if err != nil {
		return Value{}, err
	}

	t := r.Type()
	val := Value{typ: t, annotations: as}

	if r.IsNull() {
		return val, nil
	}

	switch t {
	case NullType:
		// Handled by IsNull above.

	case BoolType:
		b, err := r.BoolValue()
		if err != nil {
			return Value{}, err
		}
		val.value = *b

	case IntType:
		size, err := r.IntSize()
		if err != nil {
			return Value{}, err
		}
		if size == BigInt {
			i, err := r.BigIntValue()
			if err != nil {
				return Value{}, err
			}
			val.value = i
		} else {
			i, err := r.Int64Value()
			if err != nil {
				return Value{}, err
			}
			val.value = *i
		}

	case FloatType:
		f, err := r.FloatValue()
		if err != nil {
			return Value{}, err
		}
		val.value = *f

	case DecimalType:
		d, err := r.DecimalValue()
		if err != nil {
			return Value{}, err
		}
		val.value = d

	case TimestampType:
		ts, err := r.TimestampValue()
		if err != nil {
			return Value{}, err
		}
		val.value = *ts

	case StringType:
		s, err := r.StringValue()
		if err != nil {
			return Value{}, err
		}
		val.value = *s

	case SymbolType:
		st, err := r.SymbolValue()
		if err != nil {
			return Value{}, err
		}
		val.value = *st

	case BlobType, ClobType:
		b, err := r.ByteValue()
		if err != nil {
			return Value{}, err
		}
		val.value = b

	case ListType, SexpType:
		vals, err := readSequence(r)
		if err != nil {
			return Value{}, err
		}
		val.value = vals

	case StructType:
		fields, err := readStruct(r)
		if err != nil {
			return Value{}, err
		}
		val.value = fields
	}

	return val, nil
}

func readSequence(r Reader) ([]Value, error) {
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	vals := []Value{}
	for r.Next() {
		val, err := readValue(r)
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}
	if err := r.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to read sequence element")
	}

	if err := r.StepOut(); err != nil {
		return nil, err
	}
	return vals, nil
}

func readStruct(r Reader) ([]StructField, error) {
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	fields := []StructField{}
	for r.Next() {
		name, err := r.FieldName()
		if err != nil {
			return nil, err
		}
		if name == nil {
			return nil, &UsageError{"ReadValue", "struct field has no name"}
		}

		val, err := readValue(r)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read field %v", *name)
		}
		fields = append(fields, StructField{Name: *name, Value: val})
	}
	if err := r.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to read struct field")
	}

	if err := r.StepOut(); err != nil {
		return nil, err
	}
	return fields, nil
}

// WriteTo writes this value, and its children if it is a container, to
// the given writer.
func (v Value) WriteTo(w Writer) error {
	if v.typ == NoType {
		return &UsageError{"Value.WriteTo", "cannot write the zero Value"}
	}

	if len(v.annotations) > 0 {
		if err := w.Annotations(v.annotations...); err != nil {
			return err
		}
	}

	if v.value == nil {
		if v.typ == NullType {
			return w.WriteNull()
		}
		return w.WriteNullType(v.typ)
	}

	switch v.typ {
	case BoolType:
		return w.WriteBool(v.value.(bool))

	case IntType:
		if i, ok := v.value.(int64); ok {
			return w.WriteInt(i)
		}
		return w.WriteBigInt(v.value.(*big.Int))

	case FloatType:
		return w.WriteFloat(v.value.(float64))

	case DecimalType:
		return w.WriteDecimal(v.value.(*Decimal))

	case TimestampType:
		return w.WriteTimestamp(v.value.(Timestamp))

	case SymbolType:
		return w.WriteSymbol(v.value.(SymbolToken))

	case StringType:
		return w.WriteString(v.value.(string))

	case BlobType:
		return w.WriteBlob(v.value.([]byte))

	case ClobType:
		return w.WriteClob(v.value.([]byte))

	case ListType, SexpType:
		begin, end := w.BeginList, w.EndList
		if v.typ == SexpType {
			begin, end = w.BeginSexp, w.EndSexp
		}
		if err := begin(); err != nil {
			return err
		}
		for _, child := range v.value.([]Value) {
			if err := child.WriteTo(w); err != nil {
				return err
			}
		}
		return end()

	case StructType:
		if err := w.BeginStruct(); err != nil {
			return err
		}
		for _, f := range v.value.([]StructField) {
			if err := w.FieldName(f.Name); err != nil {
				return err
			}
			if err := f.Value.WriteTo(w); err != nil {
				return err
			}
		}
		return w.EndStruct()

	default:
		return &UsageError{"Value.WriteTo", "unknown value type"}
	}
}
