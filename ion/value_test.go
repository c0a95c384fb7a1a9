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
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueType(t *testing.T) {
	test := func(v Value, et Type, enull bool) {
		t.Run(et.String(), func(t *testing.T) {
			assert.Equal(t, et, v.Type())
			assert.Equal(t, enull, v.IsNull())
		})
	}

	test(Null(NullType), NullType, true)
	test(Null(StructType), StructType, true)
	test(Bool(false), BoolType, false)
	test(Int(0), IntType, false)
	test(Float(0), FloatType, false)
	test(DecimalValue(MustParseDecimal("0.")), DecimalType, false)
	test(TimestampValue(NewDateTimestamp(time.Time{}, Day)), TimestampType, false)
	test(String(""), StringType, false)
	test(SymbolFromString("foo"), SymbolType, false)
	test(Blob(nil), BlobType, false)
	test(Clob(nil), ClobType, false)
	test(List(), ListType, false)
	test(Sexp(), SexpType, false)
	test(Struct(), StructType, false)
}

func TestValueAccessors(t *testing.T) {
	t.Run("matching type", func(t *testing.T) {
		b, err := Bool(true).BoolValue()
		require.NoError(t, err)
		assert.True(t, *b)

		i, err := Int(42).Int64Value()
		require.NoError(t, err)
		assert.Equal(t, int64(42), *i)

		s, err := String("hello").StringValue()
		require.NoError(t, err)
		assert.Equal(t, "hello", *s)

		vals, err := List(Int(1), Int(2)).Values()
		require.NoError(t, err)
		assert.Len(t, vals, 2)

		fields, err := Struct(StructField{NewSymbolTokenFromString("a"), Int(1)}).Fields()
		require.NoError(t, err)
		assert.Len(t, fields, 1)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := Bool(true).Int64Value()
		assert.IsType(t, &UsageError{}, err)

		_, err = String("hello").Values()
		assert.IsType(t, &UsageError{}, err)

		_, err = List().Fields()
		assert.IsType(t, &UsageError{}, err)
	})

	t.Run("typed null", func(t *testing.T) {
		b, err := Null(BoolType).BoolValue()
		require.NoError(t, err)
		assert.Nil(t, b)

		vals, err := Null(ListType).Values()
		require.NoError(t, err)
		assert.Nil(t, vals)
	})
}

func TestValueBigInt(t *testing.T) {
	small := BigIntValue(big.NewInt(1234))
	i, err := small.Int64Value()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), *i)

	huge := new(big.Int).SetUint64(math.MaxUint64)
	large := BigIntValue(huge)
	_, err = large.Int64Value()
	assert.IsType(t, &UsageError{}, err)

	bi, err := large.BigIntValue()
	require.NoError(t, err)
	assert.Zero(t, huge.Cmp(bi))

	assert.True(t, Int(1234).Equal(small))
}

func TestValueEqual(t *testing.T) {
	equal := func(name string, a, b Value) {
		t.Run(name, func(t *testing.T) {
			assert.True(t, a.Equal(b))
			assert.True(t, b.Equal(a))
		})
	}
	unequal := func(name string, a, b Value) {
		t.Run(name, func(t *testing.T) {
			assert.False(t, a.Equal(b))
			assert.False(t, b.Equal(a))
		})
	}

	unequal("different types", Int(0), Float(0))
	unequal("null vs non-null", Null(BoolType), Bool(false))
	equal("typed nulls", Null(BoolType), Null(BoolType))

	equal("nan", Float(math.NaN()), Float(math.NaN()))
	unequal("negative zero float", Float(0), Float(math.Copysign(0, -1)))

	equal("decimals", DecimalValue(MustParseDecimal("1.23")), DecimalValue(MustParseDecimal("1.23")))
	equal("decimals compare numerically", DecimalValue(MustParseDecimal("1.0")), DecimalValue(MustParseDecimal("1.00")))
	unequal("decimal value", DecimalValue(MustParseDecimal("1.0")), DecimalValue(MustParseDecimal("1.01")))
	unequal("negative zero decimal", DecimalValue(MustParseDecimal("0.")), DecimalValue(MustParseDecimal("-0.")))

	nowish, _ := time.Parse(time.RFC3339, "2019-08-04T18:15:43Z")
	equal("timestamps",
		TimestampValue(NewTimestamp(nowish, Second, TimezoneUTC)),
		TimestampValue(NewTimestamp(nowish, Second, TimezoneUTC)))
	unequal("timestamp precision",
		TimestampValue(NewTimestamp(nowish, Second, TimezoneUTC)),
		TimestampValue(NewDateTimestamp(nowish, Day)))

	equal("symbols by text",
		Symbol(SymbolToken{Text: newString("foo"), LocalSID: 10}),
		Symbol(SymbolToken{Text: newString("foo"), LocalSID: 99}))
	unequal("symbol text", SymbolFromString("foo"), SymbolFromString("bar"))

	equal("blobs", Blob([]byte{1, 2, 3}), Blob([]byte{1, 2, 3}))
	unequal("blob vs clob", Blob([]byte{1, 2, 3}), Clob([]byte{1, 2, 3}))

	equal("lists", List(Int(1), String("two")), List(Int(1), String("two")))
	unequal("list order", List(Int(1), Int(2)), List(Int(2), Int(1)))
	unequal("list length", List(Int(1)), List(Int(1), Int(1)))

	equal("annotations",
		Int(5).WithAnnotations(NewSymbolTokenFromString("foo")),
		Int(5).WithAnnotations(NewSymbolTokenFromString("foo")))
	unequal("annotation presence", Int(5), Int(5).WithAnnotations(NewSymbolTokenFromString("foo")))
	unequal("annotation order",
		Int(5).WithAnnotations(NewSymbolTokenFromString("foo"), NewSymbolTokenFromString("bar")),
		Int(5).WithAnnotations(NewSymbolTokenFromString("bar"), NewSymbolTokenFromString("foo")))
}

func TestValueStructEqual(t *testing.T) {
	a := NewSymbolTokenFromString("a")
	b := NewSymbolTokenFromString("b")

	t.Run("field order does not matter", func(t *testing.T) {
		x := Struct(StructField{a, Int(1)}, StructField{b, Int(2)})
		y := Struct(StructField{b, Int(2)}, StructField{a, Int(1)})
		assert.True(t, x.Equal(y))
	})

	t.Run("repeated fields count", func(t *testing.T) {
		x := Struct(StructField{a, Int(1)}, StructField{a, Int(1)})
		y := Struct(StructField{a, Int(1)}, StructField{a, Int(2)})
		assert.False(t, x.Equal(y))

		z := Struct(StructField{a, Int(2)}, StructField{a, Int(1)})
		assert.True(t, y.Equal(z))
	})

	t.Run("empty vs null", func(t *testing.T) {
		assert.False(t, Struct().Equal(Null(StructType)))
	})
}

func TestValueString(t *testing.T) {
	test := func(v Value, expected string) {
		t.Run(expected, func(t *testing.T) {
			assert.Equal(t, expected, v.String())
		})
	}

	test(Null(NullType), "null")
	test(Null(SexpType), "null.sexp")
	test(Bool(true), "true")
	test(Int(42), "42")
	test(Float(2.5), "2.5e+0")
	test(DecimalValue(MustParseDecimal("1.23")), "1.23")
	test(String("hello"), "\"hello\"")
	test(SymbolFromString("foo"), "foo")
	test(List(Int(1), Int(2), Int(3)), "[1,2,3]")
	test(Sexp(SymbolFromString("+"), Int(1)), "('+' 1)")
	test(Struct(StructField{NewSymbolTokenFromString("a"), Int(1)}), "{a:1}")
	test(Int(5).WithAnnotations(NewSymbolTokenFromString("foo")), "foo::5")
	test(List(), "[]")
}

func TestReadValue(t *testing.T) {
	r := NewReaderStr("foo::{a:1,b:[true,null.symbol]} 2")

	require.True(t, r.Next())
	val, err := ReadValue(r)
	require.NoError(t, err)

	assert.Equal(t, StructType, val.Type())
	require.Len(t, val.Annotations(), 1)
	assert.Equal(t, "foo", *val.Annotations()[0].Text)

	fields, err := val.Fields()
	require.NoError(t, err)
	require.Len(t, fields, 2)

	assert.Equal(t, "a", *fields[0].Name.Text)
	assert.True(t, fields[0].Value.Equal(Int(1)))

	assert.Equal(t, "b", *fields[1].Name.Text)
	assert.True(t, fields[1].Value.Equal(List(Bool(true), Null(SymbolType))))

	// ReadValue leaves the reader on the next value.
	require.True(t, r.Next())
	i, err := r.Int64Value()
	require.NoError(t, err)
	assert.Equal(t, int64(2), *i)

	_eof(t, r)
}

func TestReadValueNotPositioned(t *testing.T) {
	r := NewReaderStr("1")
	_, err := ReadValue(r)
	assert.IsType(t, &UsageError{}, err)
}

func TestReadAllValues(t *testing.T) {
	vals, err := ReadAllValues(NewReaderStr("1 [2, 3] \"four\""))
	require.NoError(t, err)

	require.Len(t, vals, 3)
	assert.True(t, vals[0].Equal(Int(1)))
	assert.True(t, vals[1].Equal(List(Int(2), Int(3))))
	assert.True(t, vals[2].Equal(String("four")))
}

func TestReadAllValuesEmpty(t *testing.T) {
	vals, err := ReadAllValues(NewReaderStr(""))
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestWriteToZeroValue(t *testing.T) {
	buf := strings.Builder{}
	err := (Value{}).WriteTo(NewTextWriter(&buf))
	assert.IsType(t, &UsageError{}, err)
}
