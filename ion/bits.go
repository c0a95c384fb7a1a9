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

import "math/big"

// Encoders for the primitive binary subfields. Each appendX has a matching
// xLen so writers can size length prefixes before emitting anything.

// uintLen returns the encoded size of v as a fixed UInt subfield.
func uintLen(v uint64) uint64 {
	length := uint64(1)
	v >>= 8

	for v > 0 {
		length++
		v >>= 8
	}

	return length
}

// appendUint appends v as a big-endian UInt subfield. The decoder learns
// the byte count from the enclosing length prefix.
func appendUint(b []byte, v uint64) []byte {
	var buf [8]byte

	i := 7
	buf[i] = byte(v)
	v >>= 8

	for v > 0 {
		i--
		buf[i] = byte(v)
		v >>= 8
	}

	return append(b, buf[i:]...)
}

// intLen returns the encoded size of n as a sign-and-magnitude Int
// subfield. Zero encodes in zero bytes.
func intLen(n int64) uint64 {
	if n == 0 {
		return 0
	}

	mag := uint64(n)
	if n < 0 {
		mag = uint64(-n)
	}

	length := uintLen(mag)

	// An extra byte if the magnitude already uses the high bit.
	hb := mag >> ((length - 1) * 8)
	if hb&0x80 != 0 {
		length++
	}

	return length
}

// appendInt appends n as a sign-and-magnitude Int subfield. The sign
// lives in the high bit of the first byte.
func appendInt(b []byte, n int64) []byte {
	if n == 0 {
		return b
	}

	neg := false
	mag := uint64(n)

	if n < 0 {
		neg = true
		mag = uint64(-n)
	}

	var buf [8]byte
	bits := appendUint(buf[:0], mag)

	if bits[0]&0x80 == 0 {
		if neg {
			bits[0] |= 0x80
		}
	} else {
		// Magnitude fills the high bit; prepend a byte for the sign.
		sign := byte(0)
		if neg {
			sign = 0x80
		}
		b = append(b, sign)
	}

	return append(b, bits...)
}

// bigIntLen returns the encoded size of v as an Int subfield.
func bigIntLen(v *big.Int) uint64 {
	if v.Sign() == 0 {
		return 0
	}

	// Rounding up always leaves room for the sign bit; an exact multiple
	// of 8 bits needs a fresh byte for it.
	return uint64(v.BitLen()/8) + 1
}

// appendBigInt appends v as a sign-and-magnitude Int subfield.
func appendBigInt(b []byte, v *big.Int) []byte {
	sign := v.Sign()
	if sign == 0 {
		return b
	}

	bits := v.Bytes()

	if bits[0]&0x80 == 0 {
		if sign < 0 {
			bits[0] |= 0x80
		}
	} else {
		signByte := byte(0)
		if sign < 0 {
			signByte = 0x80
		}
		b = append(b, signByte)
	}

	return append(b, bits...)
}

// varUintLen returns the encoded size of v as a VarUInt subfield.
func varUintLen(v uint64) uint64 {
	length := uint64(1)
	v >>= 7

	for v > 0 {
		length++
		v >>= 7
	}

	return length
}

// appendVarUint appends v as a VarUInt: seven value bits per byte, high
// bit set on the final byte.
func appendVarUint(b []byte, v uint64) []byte {
	var buf [10]byte

	i := 9
	buf[i] = 0x80 | byte(v&0x7F)
	v >>= 7

	for v > 0 {
		i--
		buf[i] = byte(v & 0x7F)
		v >>= 7
	}

	return append(b, buf[i:]...)
}

// varIntLen returns the encoded size of v as a VarInt subfield.
func varIntLen(v int64) uint64 {
	mag := uint64(v)
	if v < 0 {
		mag = uint64(-v)
	}

	// The first byte holds six value bits; the seventh is the sign.
	length := uint64(1)
	mag >>= 6

	for mag > 0 {
		length++
		mag >>= 7
	}

	return length
}

// appendVarInt appends v as a VarInt: like VarUInt, but bit 0x40 of the
// first byte carries the sign.
func appendVarInt(b []byte, v int64) []byte {
	var buf [10]byte

	signbit := byte(0)
	mag := uint64(v)
	if v < 0 {
		signbit = 0x40
		mag = uint64(-v)
	}

	if mag>>6 == 0 {
		return append(b, 0x80|signbit|byte(mag))
	}

	i := 9
	buf[i] = 0x80 | byte(mag&0x7F)
	mag >>= 7

	for mag>>6 > 0 {
		i--
		buf[i] = byte(mag & 0x7F)
		mag >>= 7
	}

	i--
	buf[i] = signbit | byte(mag&0x3F)

	return append(b, buf[i:]...)
}

// tagLen returns the encoded size of a type descriptor for a value of
// the given length.
func tagLen(length uint64) uint64 {
	if length < 0x0E {
		return 1
	}
	return 1 + varUintLen(length)
}

// appendTag appends a type descriptor. Lengths below 14 pack into the
// low nibble; longer values get the 0x0E marker plus a VarUInt length.
func appendTag(b []byte, code byte, length uint64) []byte {
	if length < 0x0E {
		return append(b, code|byte(length))
	}

	b = append(b, code|0x0E)
	return appendVarUint(b, length)
}

// timestampLen returns the encoded size of the timestamp body. offset is
// the timezone offset in minutes.
func timestampLen(offset int, ts Timestamp) uint64 {
	var ret uint64

	if ts.kind == TimezoneUnspecified {
		// A single 0xC0 byte, VarInt negative zero.
		ret = 1
	} else {
		ret = varIntLen(int64(offset))
	}

	ret += varUintLen(uint64(ts.DateTime.Year()))

	// Month through second each encode as a single VarUInt byte.
	switch ts.precision {
	case Month:
		ret++
	case Day:
		ret += 2
	case Minute:
		ret += 4
	case Second, Nanosecond:
		ret += 5
	}

	if ts.precision == Nanosecond {
		if coef, digits := ts.fraction(); digits > 0 {
			ret += varIntLen(-int64(digits))
			ret += intLen(int64(coef))
		}
	}

	return ret
}

// appendTimestamp appends the body of a timestamp value, already
// converted to UTC, as a sequence of VarInt offset, VarUInt date and
// time components, and an optional fractional-second decimal.
func appendTimestamp(b []byte, offset int, ts Timestamp) []byte {
	if ts.kind == TimezoneUnspecified {
		// Negative zero marks an unknown offset.
		b = append(b, 0xC0)
	} else {
		b = appendVarInt(b, int64(offset))
	}

	b = appendVarUint(b, uint64(ts.DateTime.Year()))

	if ts.precision >= Month {
		b = appendVarUint(b, uint64(ts.DateTime.Month()))
	}
	if ts.precision >= Day {
		b = appendVarUint(b, uint64(ts.DateTime.Day()))
	}
	if ts.precision >= Minute {
		b = appendVarUint(b, uint64(ts.DateTime.Hour()))
		b = appendVarUint(b, uint64(ts.DateTime.Minute()))
	}
	if ts.precision >= Second {
		b = appendVarUint(b, uint64(ts.DateTime.Second()))
	}

	if ts.precision == Nanosecond {
		if coef, digits := ts.fraction(); digits > 0 {
			b = appendVarInt(b, -int64(digits))
			b = appendInt(b, int64(coef))
		}
	}

	return b
}
