package ion

import (
	"bytes"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoreValues(t *testing.T) {
	r := NewReaderStr("(skip ++ me / please) {skip: me, please: 0}\n[skip, me, please]\nfoo")

	_next(t, r, SexpType)
	_next(t, r, StructType)
	_next(t, r, ListType)

	_symbol(t, r, SymbolToken{Text: newString("foo"), LocalSID: SymbolIDUnknown})
	_eof(t, r)
}

func TestReadSexps(t *testing.T) {
	test := func(str string, f containerhandler) {
		t.Run(str, func(t *testing.T) {
			r := NewReaderStr(str)
			_sexp(t, r, f)
			_eof(t, r)
		})
	}

	test("(\t)", func(t *testing.T, r Reader) {
		if r.Next() {
			t.Errorf("next returned true")
		}
		if r.Err() != nil {
			t.Fatal(r.Err())
		}
	})

	test("(foo)", func(t *testing.T, r Reader) {
		_symbol(t, r, SymbolToken{Text: newString("foo"), LocalSID: SymbolIDUnknown})
	})

	test("(foo bar baz :: boop)", func(t *testing.T, r Reader) {
		_symbol(t, r, SymbolToken{Text: newString("foo"), LocalSID: SymbolIDUnknown})
		_symbol(t, r, SymbolToken{Text: newString("bar"), LocalSID: SymbolIDUnknown})
		_symbolAF(t, r, nil, []string{"baz"}, SymbolToken{Text: newString("boop"), LocalSID: SymbolIDUnknown})
	})
}

func TestStructs(t *testing.T) {
	test := func(str string, f containerhandler) {
		t.Run(str, func(t *testing.T) {
			r := NewReaderStr(str)
			_struct(t, r, f)
			_eof(t, r)
		})
	}

	test("{\r\n}", func(t *testing.T, r Reader) {
		_eof(t, r)
	})

	test("{foo : bar :: baz}", func(t *testing.T, r Reader) {
		_symbolAF(t, r, newString("foo"), []string{"bar"}, SymbolToken{Text: newString("baz"), LocalSID: SymbolIDUnknown})
	})

	test("{foo: a, bar: b, baz: c}", func(t *testing.T, r Reader) {
		_symbolAF(t, r, newString("foo"), nil, SymbolToken{Text: newString("a"), LocalSID: SymbolIDUnknown})
		_symbolAF(t, r, newString("bar"), nil, SymbolToken{Text: newString("b"), LocalSID: SymbolIDUnknown})
		_symbolAF(t, r, newString("baz"), nil, SymbolToken{Text: newString("c"), LocalSID: SymbolIDUnknown})
	})

	test("{\"foo\": bar}", func(t *testing.T, r Reader) {
		_symbolAF(t, r, newString("foo"), nil, SymbolToken{Text: newString("bar"), LocalSID: SymbolIDUnknown})
	})
}

func TestMultipleStructs(t *testing.T) {
	r := NewReaderStr("{} {} {}")

	for i := 0; i < 3; i++ {
		_struct(t, r, func(t *testing.T, r Reader) {
			_eof(t, r)
		})
	}

	_eof(t, r)
}

func TestNullStructs(t *testing.T) {
	r := NewReaderStr("null.struct 'null'::{foo:bar}")

	_null(t, r, StructType)
	_nextAF(t, r, StructType, nil, []string{"null"})
	_eof(t, r)
}

func TestLists(t *testing.T) {
	test := func(str string, f containerhandler) {
		t.Run(str, func(t *testing.T) {
			r := NewReaderStr(str)
			_list(t, r, f)
			_eof(t, r)
		})
	}

	test("[    ]", func(t *testing.T, r Reader) {
		_eof(t, r)
	})

	test("[foo]", func(t *testing.T, r Reader) {
		_symbol(t, r, SymbolToken{Text: newString("foo"), LocalSID: SymbolIDUnknown})
		_eof(t, r)
	})

	test("[foo, bar, baz::boop]", func(t *testing.T, r Reader) {
		_symbol(t, r, SymbolToken{Text: newString("foo"), LocalSID: SymbolIDUnknown})
		_symbol(t, r, SymbolToken{Text: newString("bar"), LocalSID: SymbolIDUnknown})
		_symbolAF(t, r, nil, []string{"baz"}, SymbolToken{Text: newString("boop"), LocalSID: SymbolIDUnknown})
		_eof(t, r)
	})
}

func TestReadNestedLists(t *testing.T) {
	empty := func(t *testing.T, r Reader) {
		_eof(t, r)
	}

	r := NewReaderStr("[[], [[]]]")

	_list(t, r, func(t *testing.T, r Reader) {
		_list(t, r, empty)

		_list(t, r, func(t *testing.T, r Reader) {
			_list(t, r, empty)
		})

		_eof(t, r)
	})

	_eof(t, r)
}

func TestClobs(t *testing.T) {
	test := func(str string, eval []byte) {
		t.Run(str, func(t *testing.T) {
			r := NewReaderStr(str)
			_next(t, r, ClobType)

			val, err := r.ByteValue()
			require.NoError(t, err)
			assert.True(t, bytes.Equal(val, eval), "expected %v, got %v", eval, val)

			_eof(t, r)
		})
	}

	test("{{\"\"}}", []byte{})
	test("{{ \"hello world\" }}", []byte("hello world"))
	test("{{'''hello world'''}}", []byte("hello world"))
	test("{{'''hello'''\n'''world'''}}", []byte("helloworld"))
}

func TestBlobs(t *testing.T) {
	test := func(str string, eval []byte) {
		t.Run(str, func(t *testing.T) {
			r := NewReaderStr(str)
			_next(t, r, BlobType)

			val, err := r.ByteValue()
			require.NoError(t, err)
			assert.True(t, bytes.Equal(val, eval), "expected %v, got %v", eval, val)

			_eof(t, r)
		})
	}

	test("{{}}", []byte{})
	test("{{AA==}}", []byte{0})
	test("{{  SGVsbG8g\r\nV29ybGQ=  }}", []byte("Hello World"))
}

func TestTimestamps(t *testing.T) {
	testA := func(str string, etas []string, eval Timestamp) {
		t.Run(str, func(t *testing.T) {
			r := NewReaderStr(str)
			_timestampAF(t, r, nil, etas, eval)
			_eof(t, r)
		})
	}

	test := func(str string, eval Timestamp) {
		testA(str, nil, eval)
	}

	et := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	test("2001T", NewDateTimestamp(et, Year))
	test("2001-01T", NewDateTimestamp(et, Month))
	test("2001-01-01", NewDateTimestamp(et, Day))
	test("2001-01-01T", NewDateTimestamp(et, Day))
	test("2001-01-01T00:00Z", NewTimestamp(et, Minute, TimezoneUTC))
	test("2001-01-01T00:00:00Z", NewTimestamp(et, Second, TimezoneUTC))
	test("2001-01-01T00:00:00-00:00", NewTimestamp(et, Second, TimezoneUnspecified))
	test("2001-01-01T00:00:00.000Z", NewTimestampWithFractionalSeconds(et, Nanosecond, TimezoneUTC, 3))
	test("2001-01-01T00:00:00.000+00:00", NewTimestampWithFractionalSeconds(et, Nanosecond, TimezoneUTC, 3))
	test("2001-01-01T00:00:00.000000Z", NewTimestampWithFractionalSeconds(et, Nanosecond, TimezoneUTC, 6))
	test("2001-01-01T00:00:00.000000000Z", NewTimestampWithFractionalSeconds(et, Nanosecond, TimezoneUTC, 9))

	et2 := time.Date(2001, time.January, 1, 8, 0, 0, 0, time.FixedZone("fixed", 8*3600))
	test("2001-01-01T08:00:00+08:00", NewTimestamp(et2, Second, TimezoneLocal))

	testA("foo::'bar'::2001-01-01T00:00:00.000Z", []string{"foo", "bar"},
		NewTimestampWithFractionalSeconds(et, Nanosecond, TimezoneUTC, 3))
}

func TestDecimals(t *testing.T) {
	testA := func(str string, etas []string, eval string) {
		t.Run(str, func(t *testing.T) {
			ee := MustParseDecimal(eval)

			r := NewReaderStr(str)
			_decimalAF(t, r, nil, etas, ee)
			_eof(t, r)
		})
	}

	test := func(str string, eval string) {
		testA(str, nil, eval)
	}

	test("123.", "123")
	test("123.0", "123")
	test("123.456", "123.456")
	test("123d2", "12300")
	test("123d+2", "12300")
	test("123d-2", "1.23")

	testA("  foo :: 'bar' :: 123.  ", []string{"foo", "bar"}, "123")
}

func TestFloats(t *testing.T) {
	testA := func(str string, etas []string, eval float64) {
		t.Run(str, func(t *testing.T) {
			r := NewReaderStr(str)
			_floatAF(t, r, nil, etas, eval)
			_eof(t, r)
		})
	}

	test := func(str string, eval float64) {
		testA(str, nil, eval)
	}

	test("1e100\n", 1e100)
	test("1.2e+0", 1.2)
	test("-123.456e-78", -123.456e-78)
	test("+inf", math.Inf(1))
	test("-inf", math.Inf(-1))

	testA("foo::'bar'::1e100", []string{"foo", "bar"}, 1e100)
}

func TestInts(t *testing.T) {
	test := func(str string, f func(*testing.T, Reader)) {
		t.Run(str, func(t *testing.T) {
			r := NewReaderStr(str)
			_next(t, r, IntType)

			f(t, r)

			_eof(t, r)
		})
	}

	test("null.int", func(t *testing.T, r Reader) {
		require.True(t, r.IsNull())
	})

	testInt := func(str string, eval int) {
		test(str, func(t *testing.T, r Reader) {
			val, err := r.IntValue()
			require.NoError(t, err)
			assert.Equal(t, eval, *val)
		})
	}

	testInt("0", 0)
	testInt("12_345", 12345)
	testInt("-1_2_3_4_5", -12345)
	testInt("0b00_0101", 5)
	testInt("-0b00_0101", -5)
	testInt("0x01_02_0e_0F", 0x01020e0f)
	testInt("-0x0102_0e0F", -0x01020e0f)

	testInt64 := func(str string, eval int64) {
		test(str, func(t *testing.T, r Reader) {
			val, err := r.Int64Value()
			require.NoError(t, err)
			assert.Equal(t, eval, *val)
		})
	}

	testInt64("0x123_FFFF_FFFF", 0x123FFFFFFFF)
	testInt64("-0x123_FFFF_FFFF", -0x123FFFFFFFF)

	testBigInt := func(str string, estr string) {
		test(str, func(t *testing.T, r Reader) {
			val, err := r.BigIntValue()
			require.NoError(t, err)

			eval, _ := (&big.Int{}).SetString(estr, 0)
			assert.Zero(t, eval.Cmp(val), "expected %v, got %v", eval, val)
		})
	}

	testBigInt("0xEFFF_FFFF_FFFF_FFFF", "0xEFFFFFFFFFFFFFFF")
	testBigInt("0xFFFF_FFFF_FFFF_FFFF", "0xFFFFFFFFFFFFFFFF")
	testBigInt("-0x1_FFFF_FFFF_FFFF_FFFF", "-0x1FFFFFFFFFFFFFFFF")
}

func TestBadLeadingZeroes(t *testing.T) {
	r := NewReaderStr("0123")
	require.False(t, r.Next())
	require.Error(t, r.Err())
	require.IsType(t, &SyntaxError{}, r.Err())
}

func TestStrings(t *testing.T) {
	r := NewReaderStr(`foo::"bar" "baz" 'a'::'b'::'''beep''' '''boop''' null.string`)

	_stringAF(t, r, nil, []string{"foo"}, "bar")
	_string(t, r, "baz")
	_stringAF(t, r, nil, []string{"a", "b"}, "beepboop")
	_null(t, r, StringType)

	_eof(t, r)
}

func TestSymbols(t *testing.T) {
	r := NewReaderStr("'null'::foo bar a::b::'baz' null.symbol")

	_symbolAF(t, r, nil, []string{"null"}, SymbolToken{Text: newString("foo"), LocalSID: SymbolIDUnknown})
	_symbol(t, r, SymbolToken{Text: newString("bar"), LocalSID: SymbolIDUnknown})
	_symbolAF(t, r, nil, []string{"a", "b"}, SymbolToken{Text: newString("baz"), LocalSID: SymbolIDUnknown})
	_null(t, r, SymbolType)

	_eof(t, r)
}

func TestSystemSymbols(t *testing.T) {
	r := NewReaderStr("name version $4")

	_symbol(t, r, SymbolToken{Text: newString("name"), LocalSID: 4})
	_symbol(t, r, SymbolToken{Text: newString("version"), LocalSID: 5})
	_symbol(t, r, SymbolToken{Text: newString("name"), LocalSID: 4})
	_eof(t, r)
}

func TestQuotedSymbolRef(t *testing.T) {
	// Quoting turns $4 into plain symbol text rather than a reference.
	r := NewReaderStr("'$4'")

	_symbol(t, r, SymbolToken{Text: newString("$4"), LocalSID: SymbolIDUnknown})
	_eof(t, r)
}

func TestLocalSymbolTableDirective(t *testing.T) {
	r := NewReaderStr(`$ion_symbol_table::{symbols:["foo", "bar"]} $10 $11 {$10: $11}`)

	_symbol(t, r, SymbolToken{Text: newString("foo"), LocalSID: 10})
	_symbol(t, r, SymbolToken{Text: newString("bar"), LocalSID: 11})
	_struct(t, r, func(t *testing.T, r Reader) {
		_symbolAF(t, r, newString("foo"), nil, SymbolToken{Text: newString("bar"), LocalSID: 11})
		_eof(t, r)
	})
	_eof(t, r)

	st := r.SymbolTable()
	require.NotNil(t, st)
	assert.Equal(t, uint64(11), st.MaxID())
}

func TestUnknownSymbolRef(t *testing.T) {
	r := NewReaderStr("$10")

	require.True(t, r.Next())
	require.Equal(t, SymbolType, r.Type())

	_, err := r.SymbolValue()
	require.Error(t, err)
	require.IsType(t, &SymbolNotFoundError{}, err)

	_eof(t, r)
}

func TestUnknownFieldNameRef(t *testing.T) {
	r := NewReaderStr("{$99: true}")

	_struct(t, r, func(t *testing.T, r Reader) {
		require.True(t, r.Next())
		require.Equal(t, BoolType, r.Type())

		_, err := r.FieldName()
		require.Error(t, err)
		require.IsType(t, &SymbolNotFoundError{}, err)

		val, err := r.BoolValue()
		require.NoError(t, err)
		assert.True(t, *val)

		_eof(t, r)
	})
	_eof(t, r)
}

func TestSpecialSymbols(t *testing.T) {
	r := NewReaderStr("null\nnull.struct\ntrue\nfalse\nnan")

	_null(t, r, NullType)
	_null(t, r, StructType)

	_bool(t, r, true)
	_bool(t, r, false)
	_float(t, r, math.NaN())
	_eof(t, r)
}

func TestOperators(t *testing.T) {
	r := NewReaderStr("(a*(b+c))")

	_sexp(t, r, func(t *testing.T, r Reader) {
		_symbol(t, r, SymbolToken{Text: newString("a"), LocalSID: SymbolIDUnknown})
		_symbol(t, r, SymbolToken{Text: newString("*"), LocalSID: SymbolIDUnknown})
		_sexp(t, r, func(t *testing.T, r Reader) {
			_symbol(t, r, SymbolToken{Text: newString("b"), LocalSID: SymbolIDUnknown})
			_symbol(t, r, SymbolToken{Text: newString("+"), LocalSID: SymbolIDUnknown})
			_symbol(t, r, SymbolToken{Text: newString("c"), LocalSID: SymbolIDUnknown})
			_eof(t, r)
		})
		_eof(t, r)
	})
}

func TestTopLevelOperators(t *testing.T) {
	r := NewReaderStr("a + b")

	_symbol(t, r, SymbolToken{Text: newString("a"), LocalSID: SymbolIDUnknown})

	if r.Next() {
		t.Errorf("next returned true")
	}
	if r.Err() == nil {
		t.Error("no error")
	}
}

func TestStepOutAtTopLevel(t *testing.T) {
	r := NewReaderStr("foo")

	_symbol(t, r, SymbolToken{Text: newString("foo"), LocalSID: SymbolIDUnknown})

	err := r.StepOut()
	require.Error(t, err)
	require.IsType(t, &UsageError{}, err)
}

func TestStepInNonContainer(t *testing.T) {
	r := NewReaderStr("42")

	_int(t, r, 42)

	err := r.StepIn()
	require.Error(t, err)
	require.IsType(t, &UsageError{}, err)
}

func TestTrsToString(t *testing.T) {
	for i := trsDone; i <= trsAfterValue+1; i++ {
		str := i.String()
		if str == "" {
			t.Errorf("expected a non-empty string for trs %v", uint8(i))
		}
	}
}

func TestInStruct(t *testing.T) {
	r := NewReaderStr("[ { a:() } ]")

	r.Next()
	r.StepIn() // In the list, before the struct
	if r.IsInStruct() {
		t.Fatal("IsInStruct returned true before we were in a struct")
	}

	r.Next()
	r.StepIn() // In the struct
	if !r.IsInStruct() {
		t.Fatal("We were in a struct, IsInStruct should have returned true")
	}

	r.Next()
	r.StepIn() // In the Sexp
	if r.IsInStruct() {
		t.Fatal("IsInStruct returned true before we were in a struct")
	}

	r.StepOut() // Out of the Sexp, back in the struct again
	if !r.IsInStruct() {
		t.Fatal("We were in a struct, IsInStruct should have returned true")
	}

	r.StepOut() // out of struct, back in the list again
	if r.IsInStruct() {
		t.Fatal("IsInStruct returned true before we were in a struct")
	}
}

type containerhandler func(t *testing.T, r Reader)

func _sexp(t *testing.T, r Reader, f containerhandler) {
	_sexpAF(t, r, nil, nil, f)
}

func _sexpAF(t *testing.T, r Reader, efn *string, etas []string, f containerhandler) {
	_containerAF(t, r, SexpType, efn, etas, f)
}

func _struct(t *testing.T, r Reader, f containerhandler) {
	_structAF(t, r, nil, nil, f)
}

func _structAF(t *testing.T, r Reader, efn *string, etas []string, f containerhandler) {
	_containerAF(t, r, StructType, efn, etas, f)
}

func _list(t *testing.T, r Reader, f containerhandler) {
	_listAF(t, r, nil, nil, f)
}

func _listAF(t *testing.T, r Reader, efn *string, etas []string, f containerhandler) {
	_containerAF(t, r, ListType, efn, etas, f)
}

func _containerAF(t *testing.T, r Reader, et Type, efn *string, etas []string, f containerhandler) {
	_nextAF(t, r, et, efn, etas)
	if r.IsNull() {
		t.Fatalf("expected %v, got null.%v", et, et)
	}

	require.NoError(t, r.StepIn())

	f(t, r)

	require.NoError(t, r.StepOut())
}

func _int(t *testing.T, r Reader, eval int) {
	_intAF(t, r, nil, nil, eval)
}

func _intAF(t *testing.T, r Reader, efn *string, etas []string, eval int) {
	_nextAF(t, r, IntType, efn, etas)
	if r.IsNull() {
		t.Fatalf("expected %v, got null.int", eval)
	}

	size, err := r.IntSize()
	require.NoError(t, err)
	assert.Equal(t, Int32, size)

	val, err := r.IntValue()
	require.NoError(t, err)
	assert.Equal(t, eval, *val)
}

func _int64(t *testing.T, r Reader, eval int64) {
	_int64AF(t, r, nil, nil, eval)
}

func _int64AF(t *testing.T, r Reader, efn *string, etas []string, eval int64) {
	_nextAF(t, r, IntType, efn, etas)
	if r.IsNull() {
		t.Fatalf("expected %v, got null.int", eval)
	}

	size, err := r.IntSize()
	require.NoError(t, err)
	assert.Equal(t, Int64, size)

	val, err := r.Int64Value()
	require.NoError(t, err)
	assert.Equal(t, eval, *val)
}

func _bigInt(t *testing.T, r Reader, eval *big.Int) {
	_bigIntAF(t, r, nil, nil, eval)
}

func _bigIntAF(t *testing.T, r Reader, efn *string, etas []string, eval *big.Int) {
	_nextAF(t, r, IntType, efn, etas)
	if r.IsNull() {
		t.Fatalf("expected %v, got null.int", eval)
	}

	size, err := r.IntSize()
	require.NoError(t, err)
	assert.Equal(t, BigInt, size)

	val, err := r.BigIntValue()
	require.NoError(t, err)
	assert.Zero(t, val.Cmp(eval), "expected %v, got %v", eval, val)
}

func _float(t *testing.T, r Reader, eval float64) {
	_floatAF(t, r, nil, nil, eval)
}

func _floatAF(t *testing.T, r Reader, efn *string, etas []string, eval float64) {
	_nextAF(t, r, FloatType, efn, etas)
	if r.IsNull() {
		t.Fatalf("expected %v, got null.float", eval)
	}

	val, err := r.FloatValue()
	require.NoError(t, err)

	if math.IsNaN(eval) {
		assert.True(t, math.IsNaN(*val), "expected NaN, got %v", *val)
	} else {
		assert.Equal(t, eval, *val)
	}
}

func _decimal(t *testing.T, r Reader, eval *Decimal) {
	_decimalAF(t, r, nil, nil, eval)
}

func _decimalAF(t *testing.T, r Reader, efn *string, etas []string, eval *Decimal) {
	_nextAF(t, r, DecimalType, efn, etas)
	if r.IsNull() {
		t.Fatalf("expected %v, got null.decimal", eval)
	}

	val, err := r.DecimalValue()
	require.NoError(t, err)
	assert.True(t, eval.Equal(val), "expected %v, got %v", eval, val)
}

func _timestamp(t *testing.T, r Reader, eval Timestamp) {
	_timestampAF(t, r, nil, nil, eval)
}

func _timestampAF(t *testing.T, r Reader, efn *string, etas []string, eval Timestamp) {
	_nextAF(t, r, TimestampType, efn, etas)
	if r.IsNull() {
		t.Fatalf("expected %v, got null.timestamp", eval)
	}

	val, err := r.TimestampValue()
	require.NoError(t, err)
	assert.True(t, val.Equal(eval), "expected %v, got %v", eval.Format(), val.Format())
}

func _string(t *testing.T, r Reader, eval string) {
	_stringAF(t, r, nil, nil, eval)
}

func _stringAF(t *testing.T, r Reader, efn *string, etas []string, eval string) {
	_nextAF(t, r, StringType, efn, etas)
	if r.IsNull() {
		t.Fatalf("expected %v, got null.string", eval)
	}

	val, err := r.StringValue()
	require.NoError(t, err)
	assert.Equal(t, eval, *val)
}

func _symbol(t *testing.T, r Reader, eval SymbolToken) {
	_symbolAF(t, r, nil, nil, eval)
}

func _symbolAF(t *testing.T, r Reader, efn *string, etas []string, eval SymbolToken) {
	_nextAF(t, r, SymbolType, efn, etas)
	if r.IsNull() {
		t.Fatalf("expected %v, got null.symbol", eval)
	}

	val, err := r.SymbolValue()
	require.NoError(t, err)
	require.NotNil(t, val)

	assert.True(t, val.Equal(eval), "expected %v, got %v", eval, *val)
	assert.Equal(t, eval.LocalSID, val.LocalSID)
}

func _bool(t *testing.T, r Reader, eval bool) {
	_boolAF(t, r, nil, nil, eval)
}

func _boolAF(t *testing.T, r Reader, efn *string, etas []string, eval bool) {
	_nextAF(t, r, BoolType, efn, etas)
	if r.IsNull() {
		t.Fatalf("expected %v, got null.bool", eval)
	}

	val, err := r.BoolValue()
	require.NoError(t, err)
	assert.Equal(t, eval, *val)
}

func _clob(t *testing.T, r Reader, eval []byte) {
	_clobAF(t, r, nil, nil, eval)
}

func _clobAF(t *testing.T, r Reader, efn *string, etas []string, eval []byte) {
	_nextAF(t, r, ClobType, efn, etas)
	if r.IsNull() {
		t.Fatalf("expected %v, got null.clob", eval)
	}

	val, err := r.ByteValue()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(val, eval), "expected %v, got %v", eval, val)
}

func _blob(t *testing.T, r Reader, eval []byte) {
	_blobAF(t, r, nil, nil, eval)
}

func _blobAF(t *testing.T, r Reader, efn *string, etas []string, eval []byte) {
	_nextAF(t, r, BlobType, efn, etas)
	if r.IsNull() {
		t.Fatalf("expected %v, got null.blob", eval)
	}

	val, err := r.ByteValue()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(val, eval), "expected %v, got %v", eval, val)
}

func _null(t *testing.T, r Reader, et Type) {
	_nullAF(t, r, et, nil, nil)
}

func _nullAF(t *testing.T, r Reader, et Type, efn *string, etas []string) {
	_nextAF(t, r, et, efn, etas)
	if !r.IsNull() {
		t.Error("isnull returned false")
	}
}

func _next(t *testing.T, r Reader, et Type) {
	_nextAF(t, r, et, nil, nil)
}

func _nextAF(t *testing.T, r Reader, et Type, efn *string, etas []string) {
	if !r.Next() {
		t.Fatal(r.Err())
	}
	if r.Type() != et {
		t.Fatalf("expected %v, got %v", et, r.Type())
	}

	fn, err := r.FieldName()
	require.NoError(t, err)
	if efn == nil {
		if fn != nil && fn.Text != nil {
			t.Errorf("expected no field name, got %v", *fn.Text)
		}
	} else {
		require.NotNil(t, fn)
		require.NotNil(t, fn.Text)
		assert.Equal(t, *efn, *fn.Text)
	}

	as, err := r.Annotations()
	require.NoError(t, err)
	if !_annotationsEqual(etas, as) {
		t.Errorf("expected annotations=%v, got %v", etas, as)
	}
}

func _annotationsEqual(texts []string, as []SymbolToken) bool {
	if len(texts) != len(as) {
		return false
	}

	for i := range texts {
		if as[i].Text == nil || *as[i].Text != texts[i] {
			return false
		}
	}

	return true
}

func _eof(t *testing.T, r Reader) {
	if r.Next() {
		t.Fatal("next returned true")
	}
	if r.Err() != nil {
		t.Fatal(r.Err())
	}
}
