package ion

import (
	"io"
	"math/big"
	"strconv"
	"strings"
)

// symbolNeedsQuoting reports whether sym must be single-quoted in text
// form: keywords, the empty symbol, and anything that isn't a plain
// identifier.
func symbolNeedsQuoting(sym string) bool {
	switch sym {
	case "", "null", "true", "false", "nan":
		return true
	}

	if isSymbolRef(sym) {
		// Unquoted $n text would read back as a symbol ID.
		return true
	}

	if !isIdentifierStart(int(sym[0])) {
		return true
	}

	for i := 1; i < len(sym); i++ {
		if !isIdentifierPart(int(sym[i])) {
			return true
		}
	}

	return false
}

// isSymbolRef reports whether sym has the form of a symbol reference,
// $<integer>.
func isSymbolRef(sym string) bool {
	if len(sym) < 2 || sym[0] != '$' {
		return false
	}

	for i := 1; i < len(sym); i++ {
		if !isDigit(int(sym[i])) {
			return false
		}
	}

	return true
}

// symbolIdentifier parses a $<integer> symbol reference to its ID.
func symbolIdentifier(sym string) (int64, bool) {
	if !isSymbolRef(sym) {
		return 0, false
	}

	id, err := strconv.ParseInt(sym[1:], 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

func isIdentifierStart(c int) bool {
	if c >= 'a' && c <= 'z' {
		return true
	}
	if c >= 'A' && c <= 'Z' {
		return true
	}
	return c == '_' || c == '$'
}

func isIdentifierPart(c int) bool {
	return isIdentifierStart(c) || isDigit(c)
}

func isHexDigit(c int) bool {
	if isDigit(c) {
		return true
	}
	if c >= 'a' && c <= 'f' {
		return true
	}
	return c >= 'A' && c <= 'F'
}

func isDigit(c int) bool {
	return c >= '0' && c <= '9'
}

// isOperatorChar reports whether c may appear in an operator symbol
// inside an s-expression.
func isOperatorChar(c int) bool {
	switch c {
	case '!', '#', '%', '&', '*', '+', '-', '.', '/', ';', '<', '=',
		'>', '?', '@', '^', '`', '|', '~':
		return true
	default:
		return false
	}
}

// isStopChar reports whether c ends an unquoted value. It does not catch
// the start of a comment, which takes two characters of lookahead; use
// tokenizer.isStopChar for that.
func isStopChar(c int) bool {
	switch c {
	case -1, '{', '}', '[', ']', '(', ')', ',', '"', '\'',
		' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isWhitespace(c int) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// formatFloat renders a float64 in Ion text style: always with an
// exponent, special values in lower case.
func formatFloat(val float64) string {
	str := strconv.FormatFloat(val, 'e', -1, 64)

	switch str {
	case "NaN":
		return "nan"
	case "+Inf":
		return "+inf"
	case "-Inf":
		return "-inf"
	}

	idx := strings.Index(str, "e")
	if idx < 0 {
		// Without an exponent it would read back as a decimal.
		str += "e0"
	} else if idx+2 < len(str) && str[idx+2] == '0' {
		// Strip the leading zero FormatFloat puts in small exponents.
		str = str[:idx+2] + str[idx+3:]
	}

	return str
}

// writeSymbol writes sym, quoting and escaping if necessary.
func writeSymbol(sym string, out io.Writer) error {
	if symbolNeedsQuoting(sym) {
		if err := writeRawChar('\'', out); err != nil {
			return err
		}
		if err := writeEscapedSymbol(sym, out); err != nil {
			return err
		}
		return writeRawChar('\'', out)
	}
	return writeRawString(sym, out)
}

func writeEscapedSymbol(sym string, out io.Writer) error {
	for i := 0; i < len(sym); i++ {
		c := sym[i]
		if c < 32 || c == '\\' || c == '\'' {
			if err := writeEscapedChar(c, out); err != nil {
				return err
			}
		} else {
			if err := writeRawChar(c, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeEscapedString(str string, out io.Writer) error {
	for i := 0; i < len(str); i++ {
		c := str[i]
		if c < 32 || c == '\\' || c == '"' {
			if err := writeEscapedChar(c, out); err != nil {
				return err
			}
		} else {
			if err := writeRawChar(c, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeEscapedChar(c byte, out io.Writer) error {
	switch c {
	case 0:
		return writeRawString("\\0", out)
	case '\a':
		return writeRawString("\\a", out)
	case '\b':
		return writeRawString("\\b", out)
	case '\t':
		return writeRawString("\\t", out)
	case '\n':
		return writeRawString("\\n", out)
	case '\f':
		return writeRawString("\\f", out)
	case '\r':
		return writeRawString("\\r", out)
	case '\v':
		return writeRawString("\\v", out)
	case '\'':
		return writeRawString("\\'", out)
	case '"':
		return writeRawString("\\\"", out)
	case '\\':
		return writeRawString("\\\\", out)
	default:
		buf := []byte{'\\', 'x', hexChars[(c>>4)&0xF], hexChars[c&0xF]}
		return writeRawChars(buf, out)
	}
}

func writeRawString(s string, out io.Writer) error {
	_, err := out.Write([]byte(s))
	return err
}

func writeRawChars(cs []byte, out io.Writer) error {
	_, err := out.Write(cs)
	return err
}

func writeRawChar(c byte, out io.Writer) error {
	_, err := out.Write([]byte{c})
	return err
}

func parseFloat(str string) (float64, error) {
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			// Overflow to an infinity is a legal float.
			return val, nil
		}
	}
	return val, err
}

func parseInt(str string, radix int) (interface{}, error) {
	digits := str

	switch radix {
	case 10:

	case 2, 16:
		neg := false
		if digits[0] == '-' {
			neg = true
			digits = digits[1:]
		}

		// Drop the 0x or 0b prefix.
		digits = digits[2:]
		if neg {
			digits = "-" + digits
		}

	default:
		panic("unsupported radix")
	}

	i, err := strconv.ParseInt(digits, radix, 64)
	if err == nil {
		return i, nil
	}
	if err.(*strconv.NumError).Err != strconv.ErrRange {
		return nil, err
	}

	bi, ok := new(big.Int).SetString(digits, radix)
	if !ok {
		return nil, &strconv.NumError{
			Func: "ParseInt",
			Num:  str,
			Err:  strconv.ErrSyntax,
		}
	}

	return bi, nil
}

// parseTimestamp parses the text form of a timestamp, inferring its
// precision from which components are present and its timezone kind from
// the offset spelling.
func parseTimestamp(val string) (Timestamp, error) {
	if len(val) < 5 {
		return invalidTimestamp(val)
	}

	year, err := strconv.ParseInt(val[:4], 10, 32)
	if err != nil || year < 1 {
		return invalidTimestamp(val)
	}
	if len(val) == 5 && (val[4] == 't' || val[4] == 'T') {
		// yyyyT
		return newDateTimestamp(int(year), 1, 1, Year)
	}
	if val[4] != '-' || len(val) < 8 {
		return invalidTimestamp(val)
	}

	month, err := strconv.ParseInt(val[5:7], 10, 32)
	if err != nil {
		return invalidTimestamp(val)
	}

	if len(val) == 8 && (val[7] == 't' || val[7] == 'T') {
		// yyyy-mmT
		return newDateTimestamp(int(year), int(month), 1, Month)
	}
	if val[7] != '-' || len(val) < 10 {
		return invalidTimestamp(val)
	}

	day, err := strconv.ParseInt(val[8:10], 10, 32)
	if err != nil {
		return invalidTimestamp(val)
	}

	if len(val) == 10 || (len(val) == 11 && (val[10] == 't' || val[10] == 'T')) {
		// yyyy-mm-dd or yyyy-mm-ddT
		return newDateTimestamp(int(year), int(month), int(day), Day)
	}
	if val[10] != 't' && val[10] != 'T' {
		return invalidTimestamp(val)
	}

	// From here on an hh:mm and an offset are mandatory.
	if len(val) < 17 {
		return invalidTimestamp(val)
	}

	switch val[16] {
	case 'z', 'Z':
		return NewTimestampFromStr(val, Minute, TimezoneUTC)

	case '+', '-':
		if !isValidOffset(val, 16) {
			return invalidTimestamp(val)
		}
		return NewTimestampFromStr(val, Minute, offsetKind(val, 16))

	case ':':
		// yyyy-mm-ddThh:mm:ss with optional fraction and offset.
		if len(val) < 20 {
			return invalidTimestamp(val)
		}

		precision := Second
		idx := 19
		if val[idx] == '.' {
			idx++
			for idx < len(val) && isDigit(int(val[idx])) {
				idx++
			}
			if idx > 20 {
				precision = Nanosecond
			}
		}
		if idx >= len(val) {
			return invalidTimestamp(val)
		}

		var kind TimezoneKind
		switch val[idx] {
		case 'z', 'Z':
			kind = TimezoneUTC
		case '+', '-':
			if !isValidOffset(val, idx) {
				return invalidTimestamp(val)
			}
			kind = offsetKind(val, idx)
		default:
			return invalidTimestamp(val)
		}

		if idx >= 29 {
			// More fractional digits than a time.Time can hold; keep the
			// first nine and drop the rest.
			return NewTimestampFromStr(val[:29]+val[idx:], precision, kind)
		}
		return NewTimestampFromStr(val, precision, kind)
	}

	return invalidTimestamp(val)
}

// offsetKind classifies the offset starting at idx: -00:00 means the
// offset is unknown, anything else is a known local offset (with +00:00
// being UTC proper).
func offsetKind(val string, idx int) TimezoneKind {
	if val[idx:] == "-00:00" {
		return TimezoneUnspecified
	}
	if val[idx:] == "+00:00" {
		return TimezoneUTC
	}
	return TimezoneLocal
}

func isValidOffset(val string, idx int) bool {
	// ±hh:mm
	if idx+6 != len(val) || val[idx+3] != ':' {
		return false
	}

	hours, errH := strconv.ParseInt(val[idx+1:idx+3], 10, 32)
	minutes, errM := strconv.ParseInt(val[idx+4:], 10, 32)
	if errH != nil || errM != nil {
		return false
	}

	return hours < 24 && minutes < 60
}
