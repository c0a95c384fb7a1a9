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
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// A ParseError is returned when ParseDecimal is handed input it cannot
// make sense of.
type ParseError struct {
	Num string
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ion: ParseDecimal(%v): %v", e.Num, e.Msg)
}

// Decimal is an arbitrary-precision decimal value: coef * 10^exp. The
// exponent is carried explicitly, so 1.0 and 1.00 are distinct (though
// numerically equal) values.
type Decimal struct {
	coef    *big.Int
	exp     int32
	negZero bool
}

// NewDecimal creates a decimal whose value is coef * 10^exp. Pass
// negZero to represent -0 variants, whose coefficient sign the big.Int
// cannot carry.
func NewDecimal(coef *big.Int, exp int32, negZero bool) *Decimal {
	return &Decimal{
		coef:    coef,
		exp:     exp,
		negZero: negZero,
	}
}

// NewDecimalInt creates a decimal with the given integer value.
func NewDecimalInt(n int64) *Decimal {
	return NewDecimal(big.NewInt(n), 0, false)
}

// MustParseDecimal parses in as a decimal, panicking on failure.
func MustParseDecimal(in string) *Decimal {
	d, err := ParseDecimal(in)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDecimal parses the Ion text form of a decimal. The exponent
// marker is 'd' or 'D'; a bare '.' is allowed and implies exponent zero.
func ParseDecimal(in string) (*Decimal, error) {
	if len(in) == 0 {
		return nil, &ParseError{in, "empty string"}
	}

	exp := int32(0)

	if i := strings.IndexAny(in, "dD"); i != -1 {
		estr := in[i+1:]
		if len(estr) == 0 {
			return nil, &ParseError{in, "exponent marker with no exponent"}
		}

		e, err := strconv.ParseInt(estr, 10, 32)
		if err != nil {
			return nil, &ParseError{in, err.Error()}
		}

		exp = int32(e)
		in = in[:i]
	}

	if i := strings.Index(in, "."); i != -1 {
		frac := in[i+1:]
		exp -= int32(len(frac))
		in = in[:i] + frac
	}

	coef, ok := new(big.Int).SetString(in, 10)
	if !ok {
		return nil, &ParseError{in, "invalid coefficient"}
	}

	negZero := coef.Sign() == 0 && in[0] == '-'

	return NewDecimal(coef, exp, negZero), nil
}

// CoEx returns this decimal's coefficient and exponent.
func (d *Decimal) CoEx() (*big.Int, int32) {
	return d.coef, d.exp
}

// Abs returns the absolute value of this decimal.
func (d *Decimal) Abs() *Decimal {
	return &Decimal{
		coef: new(big.Int).Abs(d.coef),
		exp:  d.exp,
	}
}

// Neg returns the negation of this decimal.
func (d *Decimal) Neg() *Decimal {
	if d.coef.Sign() == 0 {
		return &Decimal{
			coef:    d.coef,
			exp:     d.exp,
			negZero: !d.negZero,
		}
	}
	return &Decimal{
		coef: new(big.Int).Neg(d.coef),
		exp:  d.exp,
	}
}

// Add returns d + o.
func (d *Decimal) Add(o *Decimal) *Decimal {
	// a*10^x + b*10^x = (a+b)*10^x once the exponents agree.
	dd, oo := align(d, o)
	return &Decimal{
		coef: new(big.Int).Add(dd.coef, oo.coef),
		exp:  dd.exp,
	}
}

// Sub returns d - o.
func (d *Decimal) Sub(o *Decimal) *Decimal {
	dd, oo := align(d, o)
	return &Decimal{
		coef: new(big.Int).Sub(dd.coef, oo.coef),
		exp:  dd.exp,
	}
}

// Mul returns d * o.
func (d *Decimal) Mul(o *Decimal) *Decimal {
	exp := int64(d.exp) + int64(o.exp)
	if exp > math.MaxInt32 || exp < math.MinInt32 {
		panic("exponent out of bounds")
	}

	return &Decimal{
		coef: new(big.Int).Mul(d.coef, o.coef),
		exp:  int32(exp),
	}
}

// ShiftL returns d * 10^shift without touching the coefficient.
func (d *Decimal) ShiftL(shift int) *Decimal {
	exp := int64(d.exp) + int64(shift)
	if exp > math.MaxInt32 || exp < math.MinInt32 {
		panic("exponent out of bounds")
	}

	return &Decimal{
		coef: d.coef,
		exp:  int32(exp),
	}
}

// ShiftR returns d / 10^shift without touching the coefficient.
func (d *Decimal) ShiftR(shift int) *Decimal {
	exp := int64(d.exp) - int64(shift)
	if exp > math.MaxInt32 || exp < math.MinInt32 {
		panic("exponent out of bounds")
	}

	return &Decimal{
		coef: d.coef,
		exp:  int32(exp),
	}
}

// Sign returns -1, 0, or +1 depending on the sign of this decimal.
func (d *Decimal) Sign() int {
	return d.coef.Sign()
}

// IsNegZero reports whether this decimal is a negative zero. Negative
// zeros are numerically equal to zero but carry a distinct sign.
func (d *Decimal) IsNegZero() bool {
	return d.negZero
}

// Cmp compares the numeric values of two decimals, ignoring precision.
// 1.0 and 1.00 compare equal.
func (d *Decimal) Cmp(o *Decimal) int {
	dd, oo := align(d, o)
	return dd.coef.Cmp(oo.coef)
}

// Equal reports whether two decimals are numerically equal, ignoring
// precision.
func (d *Decimal) Equal(o *Decimal) bool {
	return d.Cmp(o) == 0
}

// align rewrites whichever operand has the larger exponent so both
// share the smaller one. 1d2 becomes 10d1 and so on; the value is
// unchanged, the coefficient just grows.
func align(a, b *Decimal) (*Decimal, *Decimal) {
	switch {
	case a.exp > b.exp:
		return a.downTo(b.exp), b
	case a.exp < b.exp:
		return a, b.downTo(a.exp)
	default:
		return a, b
	}
}

func (d *Decimal) downTo(exp int32) *Decimal {
	diff := int64(d.exp) - int64(exp)
	if diff < 0 {
		panic("cannot lower exponent by a negative amount")
	}

	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(diff), nil)

	return &Decimal{
		coef: new(big.Int).Mul(d.coef, pow),
		exp:  exp,
	}
}

// trunc converts this decimal to an int64, dropping any fraction.
func (d *Decimal) trunc() (int64, error) {
	if d.exp >= 0 {
		return strconv.ParseInt(d.downTo(0).coef.String(), 10, 64)
	}

	str := d.coef.String()
	keep := len(str) + int(d.exp)
	if keep <= 0 || str[:keep] == "-" {
		return 0, nil
	}

	return strconv.ParseInt(str[:keep], 10, 64)
}

// round converts this decimal to an int64, rounding half away from zero.
func (d *Decimal) round() (int64, error) {
	n, err := d.trunc()
	if err != nil {
		return 0, err
	}
	if d.exp >= 0 {
		return n, nil
	}

	// Look at the first fractional digit to decide the direction.
	digits := strings.TrimPrefix(d.coef.String(), "-")
	point := len(digits) + int(d.exp)
	if point >= len(digits) || point < 0 || digits[point] < '5' {
		return n, nil
	}

	if d.coef.Sign() < 0 {
		return n - 1, nil
	}
	return n + 1, nil
}

// Truncate returns this decimal cut down to the given number of decimal
// digits of precision. No rounding happens; Truncate(19., 1) is 1d1.
func (d *Decimal) Truncate(precision int) *Decimal {
	if precision <= 0 {
		panic("precision must be positive")
	}

	str := d.coef.String()
	if str[0] == '-' {
		precision++
	}

	drop := len(str) - precision
	if drop <= 0 {
		return d
	}

	coef, ok := new(big.Int).SetString(str[:precision], 10)
	if !ok {
		panic("failed to re-parse coefficient")
	}

	exp := int64(d.exp) + int64(drop)
	if exp > math.MaxInt32 {
		panic("exponent out of range")
	}

	return &Decimal{
		coef: coef,
		exp:  int32(exp),
	}
}

// String renders this decimal in Ion text form, preserving precision.
func (d *Decimal) String() string {
	coef := d.coef.String()
	if d.negZero {
		coef = "-0"
	}

	switch {
	case d.exp == 0:
		return coef + "."

	case d.exp > 0:
		return coef + "d" + strconv.FormatInt(int64(d.exp), 10)

	default:
		digits := len(coef)
		point := digits + int(d.exp)

		lead := 1
		if coef[0] == '-' {
			lead = 2
		}

		if point >= lead {
			return coef[:point] + "." + coef[point:]
		}

		// Too few digits to place the point inline; fall back to a
		// single leading digit with a negative exponent.
		b := strings.Builder{}
		b.WriteString(coef[:lead])
		if digits > lead {
			b.WriteByte('.')
			b.WriteString(coef[lead:])
		}
		b.WriteByte('d')
		b.WriteString(strconv.Itoa(point - lead))

		return b.String()
	}
}
