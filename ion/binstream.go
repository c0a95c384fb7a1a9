package ion

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/big"
)

// binstream state. The scanner either sits before a slot (value or
// field name) or on one it has tagged but not yet consumed.
type bsState uint8

const (
	bsBeforeValue bsState = iota
	bsOnValue
	bsBeforeFieldID
	bsOnFieldID
)

// A bincode describes what the scanner is currently looking at.
type bincode uint8

const (
	bcNone bincode = iota
	bcEOF
	bcBVM
	bcNull
	bcFalse
	bcTrue
	bcInt
	bcNegInt
	bcFloat
	bcDecimal
	bcTimestamp
	bcSymbol
	bcString
	bcClob
	bcBlob
	bcList
	bcSexp
	bcStruct
	bcFieldID
	bcAnnotation
)

func (b bincode) String() string {
	switch b {
	case bcNone:
		return "none"
	case bcEOF:
		return "eof"
	case bcBVM:
		return "bvm"
	case bcNull:
		return "null"
	case bcFalse:
		return "false"
	case bcTrue:
		return "true"
	case bcInt:
		return "int"
	case bcNegInt:
		return "negint"
	case bcFloat:
		return "float"
	case bcDecimal:
		return "decimal"
	case bcTimestamp:
		return "timestamp"
	case bcSymbol:
		return "symbol"
	case bcString:
		return "string"
	case bcClob:
		return "clob"
	case bcBlob:
		return "blob"
	case bcList:
		return "list"
	case bcSexp:
		return "sexp"
	case bcStruct:
		return "struct"
	case bcFieldID:
		return "fieldid"
	case bcAnnotation:
		return "annotation"
	default:
		return fmt.Sprintf("<invalid bincode 0x%2X>", uint8(b))
	}
}

// Type codes by high nibble of the descriptor octet.
var bincodes = []bincode{
	bcNull,       // 0x00
	bcFalse,      // 0x10
	bcInt,        // 0x20
	bcNegInt,     // 0x30
	bcFloat,      // 0x40
	bcDecimal,    // 0x50
	bcTimestamp,  // 0x60
	bcSymbol,     // 0x70
	bcString,     // 0x80
	bcClob,       // 0x90
	bcBlob,       // 0xA0
	bcList,       // 0xB0
	bcSexp,       // 0xC0
	bcStruct,     // 0xD0
	bcAnnotation, // 0xE0
}

// parseTag splits a descriptor octet into its typecode and low nibble.
func parseTag(c int) (bincode, uint64) {
	high := (c >> 4) & 0x0F
	low := c & 0x0F

	code := bcNone
	if high < len(bincodes) {
		code = bincodes[high]
	}

	return code, uint64(low)
}

// A binstream is a low-level scanner over binary Ion. It tags one slot
// at a time and leaves the body unread until asked, so skipping a value
// costs a single Discard of its declared length.
type binstream struct {
	in    *bufio.Reader
	pos   uint64
	state bsState
	stack binstack

	code bincode
	null bool
	len  uint64
}

// Init initializes this stream with the given bufio.Reader.
func (b *binstream) Init(in *bufio.Reader) {
	b.in = in
}

// InitBytes initializes this stream with the given bytes.
func (b *binstream) InitBytes(in []byte) {
	b.in = bufio.NewReader(bytes.NewReader(in))
}

// Code returns the typecode of the current slot.
func (b *binstream) Code() bincode {
	return b.code
}

// IsNull returns true if the current value is a null.
func (b *binstream) IsNull() bool {
	return b.null
}

// Pos returns the current byte offset.
func (b *binstream) Pos() uint64 {
	return b.pos
}

// Len returns the body length of the current value.
func (b *binstream) Len() uint64 {
	return b.len
}

// Next advances the stream to the next slot, skipping the current value
// if it was never consumed. NOP padding is swallowed here.
func (b *binstream) Next() error {
	switch b.state {
	case bsOnValue, bsOnFieldID:
		if err := b.SkipValue(); err != nil {
			return err
		}
	}

	for {
		// At the end of a container the caller has to step out.
		if !b.stack.empty() && b.pos == b.stack.peek().end {
			b.code = bcEOF
			return nil
		}

		if b.state == bsBeforeFieldID {
			b.code = bcFieldID
			b.state = bsOnFieldID
			return nil
		}

		c, err := b.read()
		if err != nil {
			return err
		}
		if c == -1 {
			b.code = bcEOF
			return nil
		}

		code, length, err := b.parseValueTag(c)
		if err != nil {
			return err
		}

		if code == bcNull && !b.null {
			// Non-null typecode zero is NOP padding; swallow it and
			// keep scanning.
			if err := b.skip(length); err != nil {
				return err
			}
			continue
		}

		b.code = code
		b.len = length
		b.state = bsOnValue
		return nil
	}
}

// parseValueTag decodes a descriptor octet, reading the extended length
// when the low nibble demands one, and validates it against the
// enclosing container.
func (b *binstream) parseValueTag(c int) (bincode, uint64, error) {
	code, length := parseTag(c)
	if code == bcNone {
		return 0, 0, &InvalidTagByteError{byte(c), b.pos - 1}
	}

	if code == bcAnnotation {
		switch length {
		case 0:
			// An E0 with zero length is the version marker, legal only
			// between top-level values.
			if !b.stack.empty() {
				return 0, 0, &SyntaxError{"invalid BVM in a container", b.pos - 1}
			}
			b.null = false
			return bcBVM, 3, nil

		case 0x0F:
			// There is no null annotation wrapper.
			return 0, 0, &InvalidTagByteError{byte(c), b.pos - 1}
		}
	}

	// Booleans pack their value into the length nibble.
	if code == bcFalse {
		switch length {
		case 0, 0x0F:
		case 1:
			code = bcTrue
			length = 0
		default:
			return 0, 0, &InvalidTagByteError{byte(c), b.pos - 1}
		}
	}

	if length == 0x0F {
		b.null = true
		return code, 0, nil
	}
	b.null = false

	pos := b.pos
	rem := b.remaining()

	if length == 0x0E {
		var lenlen uint64
		var err error
		length, lenlen, err = b.readVarUintLen(rem)
		if err != nil {
			return 0, 0, err
		}
		rem -= lenlen
	}

	if length > rem {
		msg := fmt.Sprintf("value overruns its container: %v vs %v", length, rem)
		return 0, 0, &SyntaxError{msg, pos - 1}
	}

	return code, length, nil
}

// SkipValue skips the current slot without decoding its body.
func (b *binstream) SkipValue() error {
	switch b.state {
	case bsBeforeFieldID, bsBeforeValue:
		return nil

	case bsOnFieldID:
		if err := b.skipVarUint(); err != nil {
			return err
		}
		b.state = bsBeforeValue

	case bsOnValue:
		if b.len > 0 {
			if err := b.skip(b.len); err != nil {
				return err
			}
		}
		b.state = b.stateAfterValue()

	default:
		panic(fmt.Sprintf("invalid state %v", b.state))
	}

	b.clear()
	return nil
}

// StepIn enters the current container value.
func (b *binstream) StepIn() {
	switch b.code {
	case bcStruct:
		b.state = bsBeforeFieldID

	case bcList, bcSexp:
		b.state = bsBeforeValue

	default:
		panic(fmt.Sprintf("StepIn called with b.code=%v", b.code))
	}

	b.stack.push(b.code, b.pos+b.len)
	b.clear()
}

// StepOut leaves the innermost container, discarding whatever remains
// unread inside it.
func (b *binstream) StepOut() error {
	if b.stack.empty() {
		panic("StepOut called at top level")
	}

	cur := b.stack.peek()
	b.stack.pop()

	if cur.end < b.pos {
		panic(fmt.Sprintf("end (%v) less than b.pos (%v)", cur.end, b.pos))
	}

	if diff := cur.end - b.pos; diff > 0 {
		if err := b.skip(diff); err != nil {
			return err
		}
	}

	b.state = b.stateAfterValue()
	b.clear()

	return nil
}

// ReadBVM consumes a version marker, returning its major and minor
// version.
func (b *binstream) ReadBVM() (byte, byte, error) {
	if b.code != bcBVM {
		panic("not a BVM")
	}

	major, err := b.read1()
	if err != nil {
		return 0, 0, err
	}

	minor, err := b.read1()
	if err != nil {
		return 0, 0, err
	}

	end, err := b.read1()
	if err != nil {
		return 0, 0, err
	}

	if end != 0xEA {
		msg := fmt.Sprintf("invalid BVM: 0xE0 0x%02X 0x%02X 0x%02X", major, minor, end)
		return 0, 0, &SyntaxError{msg, b.pos - 4}
	}

	b.state = bsBeforeValue
	b.clear()

	return byte(major), byte(minor), nil
}

// ReadFieldID consumes a field name symbol ID.
func (b *binstream) ReadFieldID() (uint64, error) {
	if b.code != bcFieldID {
		panic("not a field ID")
	}

	id, err := b.readVarUint()
	if err != nil {
		return 0, err
	}

	b.state = bsBeforeValue
	b.code = bcNone

	return id, nil
}

// ReadAnnotationIDs consumes an annotation wrapper's symbol IDs,
// leaving the stream on the wrapped value.
func (b *binstream) ReadAnnotationIDs() ([]uint64, error) {
	if b.code != bcAnnotation {
		panic("not an annotation")
	}

	alen, lenlen, err := b.readVarUintLen(b.len)
	if err != nil {
		return nil, err
	}

	if b.len-lenlen <= alen {
		// The wrapper must contain a value after its annotations.
		return nil, &SyntaxError{"malformed annotation", b.pos - lenlen}
	}

	var ids []uint64
	for alen > 0 {
		id, idlen, err := b.readVarUintLen(alen)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
		alen -= idlen
	}

	b.state = bsBeforeValue
	b.clear()

	return ids, nil
}

// ReadInt consumes an integer body, returning an int64 when it fits and
// a *big.Int otherwise.
func (b *binstream) ReadInt() (interface{}, error) {
	if b.code != bcInt && b.code != bcNegInt {
		panic("not an integer")
	}

	neg := b.code == bcNegInt
	bs, err := b.readN(b.len)
	if err != nil {
		return nil, err
	}

	var ret interface{}
	switch {
	case b.len == 0:
		if neg {
			return nil, &SyntaxError{"negative zero is not an int", b.pos - 1}
		}
		ret = int64(0)

	case b.len < 8, b.len == 8 && bs[0]&0x80 == 0:
		i := int64(0)
		for _, c := range bs {
			i = i<<8 | int64(c)
		}
		if neg {
			i = -i
		}
		ret = i

	default:
		i := new(big.Int).SetBytes(bs)
		if neg {
			i.Neg(i)
		}
		ret = i
	}

	b.state = b.stateAfterValue()
	b.clear()

	return ret, nil
}

// ReadFloat consumes a float body. Only 0, 4, and 8 byte encodings are
// legal.
func (b *binstream) ReadFloat() (float64, error) {
	if b.code != bcFloat {
		panic("not a float")
	}

	bs, err := b.readN(b.len)
	if err != nil {
		return 0, err
	}

	var ret float64
	switch len(bs) {
	case 0:
		ret = 0

	case 4:
		ret = float64(math.Float32frombits(binary.BigEndian.Uint32(bs)))

	case 8:
		ret = math.Float64frombits(binary.BigEndian.Uint64(bs))

	default:
		return 0, &SyntaxError{"invalid float size", b.pos - b.len}
	}

	b.state = b.stateAfterValue()
	b.clear()

	return ret, nil
}

// ReadDecimal consumes a decimal body.
func (b *binstream) ReadDecimal() (*Decimal, error) {
	if b.code != bcDecimal {
		panic("not a decimal")
	}

	d, err := b.readDecimal(b.len)
	if err != nil {
		return nil, err
	}

	b.state = b.stateAfterValue()
	b.clear()

	return d, nil
}

// readDecimal reads a decimal body of the given length: a VarInt
// exponent followed by an Int coefficient filling the remaining bytes.
func (b *binstream) readDecimal(length uint64) (*Decimal, error) {
	exp := int64(0)
	coef := new(big.Int)
	negZero := false

	if length > 0 {
		val, _, vlen, err := b.readVarIntLen(length)
		if err != nil {
			return nil, err
		}

		if val > math.MaxInt32 || val < math.MinInt32 {
			msg := fmt.Sprintf("decimal exponent out of range: %v", val)
			return nil, &SyntaxError{msg, b.pos - vlen}
		}

		exp = val
		length -= vlen
	}

	if length > 0 {
		neg, err := b.readBigInt(length, coef)
		if err != nil {
			return nil, err
		}
		negZero = neg && coef.Sign() == 0
	}

	return NewDecimal(coef, int32(exp), negZero), nil
}

// ReadTimestamp consumes a timestamp body, preserving its precision,
// timezone kind, and fractional-second digit count.
func (b *binstream) ReadTimestamp() (Timestamp, error) {
	if b.code != bcTimestamp {
		panic("not a timestamp")
	}

	length := b.len

	offset, osign, olen, err := b.readVarIntLen(length)
	if err != nil {
		return emptyTimestamp(), err
	}
	length -= olen

	parts := []int{1, 1, 1, 0, 0, 0}
	count := 0
	for ; length > 0 && count < 6; count++ {
		val, vlen, err := b.readVarUintLen(length)
		if err != nil {
			return emptyTimestamp(), err
		}
		length -= vlen
		parts[count] = int(val)

		// An hour component must be followed by minutes.
		if count == 3 && length == 0 {
			return emptyTimestamp(),
				&SyntaxError{"invalid timestamp: hour without minute", b.pos}
		}
	}

	var precision TimestampPrecision
	switch count {
	case 1:
		precision = Year
	case 2:
		precision = Month
	case 3:
		precision = Day
	case 5:
		precision = Minute
	case 6:
		precision = Second
	default:
		return emptyTimestamp(), &SyntaxError{"invalid timestamp", b.pos}
	}

	nsecs := 0
	fracDigits := uint8(0)
	if length > 0 && precision == Second {
		nsecs, fracDigits, err = b.readNsecs(length)
		if err != nil {
			return emptyTimestamp(), err
		}
		if fracDigits > 0 {
			precision = Nanosecond
		}
	}

	b.state = b.stateAfterValue()
	b.clear()

	return newTimestamp(parts, nsecs, false, offset, osign, precision, fracDigits)
}

// readNsecs reads the fractional-second decimal of a timestamp,
// returning nanoseconds and the count of declared digits.
func (b *binstream) readNsecs(length uint64) (int, uint8, error) {
	d, err := b.readDecimal(length)
	if err != nil {
		return 0, 0, err
	}

	nsec, err := d.ShiftL(9).trunc()
	if err != nil || nsec < 0 || nsec > 999999999 {
		msg := fmt.Sprintf("invalid timestamp fraction: %v", d)
		return 0, 0, &SyntaxError{msg, b.pos}
	}

	digits := uint8(0)
	if _, exp := d.CoEx(); exp < 0 {
		if exp < -9 {
			digits = 9
		} else {
			digits = uint8(-exp)
		}
	}

	return int(nsec), digits, nil
}

// ReadSymbolID consumes a symbol value's ID.
func (b *binstream) ReadSymbolID() (uint64, error) {
	if b.code != bcSymbol {
		panic("not a symbol")
	}

	if b.len > 8 {
		return 0, &SyntaxError{"symbol id too large", b.pos}
	}

	bs, err := b.readN(b.len)
	if err != nil {
		return 0, err
	}

	b.state = b.stateAfterValue()
	b.clear()

	ret := uint64(0)
	for _, c := range bs {
		ret = ret<<8 | uint64(c)
	}
	return ret, nil
}

// ReadString consumes a string body.
func (b *binstream) ReadString() (string, error) {
	if b.code != bcString {
		panic("not a string")
	}

	bs, err := b.readN(b.len)
	if err != nil {
		return "", err
	}

	b.state = b.stateAfterValue()
	b.clear()

	return string(bs), nil
}

// ReadBytes consumes a blob or clob body.
func (b *binstream) ReadBytes() ([]byte, error) {
	if b.code != bcClob && b.code != bcBlob {
		panic("not a lob")
	}

	bs, err := b.readN(b.len)
	if err != nil {
		return nil, err
	}

	b.state = b.stateAfterValue()
	b.clear()

	return bs, nil
}

func (b *binstream) clear() {
	b.code = bcNone
	b.null = false
	b.len = 0
}

// readBigInt reads a sign-and-magnitude Int of the given length into
// ret, reporting whether the sign bit was set.
func (b *binstream) readBigInt(length uint64, ret *big.Int) (bool, error) {
	bs, err := b.readN(length)
	if err != nil {
		return false, err
	}

	neg := bs[0]&0x80 != 0
	bs[0] &= 0x7F
	if bs[0] == 0 {
		bs = bs[1:]
	}

	ret.SetBytes(bs)
	if neg {
		ret.Neg(ret)
	}

	return neg, nil
}

func (b *binstream) readVarUint() (uint64, error) {
	val, _, err := b.readVarUintLen(b.remaining())
	return val, err
}

// readVarUintLen reads a VarUInt of at most max bytes, returning the
// value and its encoded length.
func (b *binstream) readVarUintLen(max uint64) (uint64, uint64, error) {
	if max > 10 {
		max = 10
	}

	val := uint64(0)
	length := uint64(0)

	for {
		if length >= max {
			return 0, 0, &SyntaxError{"varuint too large", b.pos}
		}

		c, err := b.read1()
		if err != nil {
			return 0, 0, err
		}

		val = val<<7 | uint64(c&0x7F)
		length++

		if c&0x80 != 0 {
			return val, length, nil
		}
	}
}

func (b *binstream) skipVarUint() error {
	_, err := b.skipVarUintLen(b.remaining())
	return err
}

func (b *binstream) skipVarUintLen(max uint64) (uint64, error) {
	if max > 10 {
		max = 10
	}

	length := uint64(0)
	for {
		if length >= max {
			return 0, &SyntaxError{"varuint too large", b.pos - length}
		}

		c, err := b.read1()
		if err != nil {
			return 0, err
		}

		length++

		if c&0x80 != 0 {
			return length, nil
		}
	}
}

// readVarIntLen reads a VarInt of at most max bytes. The sign is
// returned separately so negative zero survives the trip.
func (b *binstream) readVarIntLen(max uint64) (int64, int64, uint64, error) {
	if max == 0 {
		return 0, 0, 0, &SyntaxError{"varint too large", b.pos}
	}
	if max > 10 {
		max = 10
	}

	// The first byte carries the sign.
	c, err := b.read1()
	if err != nil {
		return 0, 0, 0, err
	}

	sign := int64(1)
	if c&0x40 != 0 {
		sign = -1
	}

	val := int64(c & 0x3F)
	length := uint64(1)

	if c&0x80 != 0 {
		return val * sign, sign, length, nil
	}

	for {
		if length >= max {
			return 0, 0, 0, &SyntaxError{"varint too large", b.pos - length}
		}

		c, err := b.read1()
		if err != nil {
			return 0, 0, 0, err
		}

		val = val<<7 | int64(c&0x7F)
		length++

		if c&0x80 != 0 {
			return val * sign, sign, length, nil
		}
	}
}

// remaining returns the bytes left in the enclosing container, or
// effectively-unbounded at the top level.
func (b *binstream) remaining() uint64 {
	if b.stack.empty() {
		return math.MaxUint64
	}

	end := b.stack.peek().end
	if b.pos > end {
		panic(fmt.Sprintf("pos (%v) > end (%v)", b.pos, end))
	}

	return end - b.pos
}

func (b *binstream) stateAfterValue() bsState {
	if b.stack.peek().code == bcStruct {
		return bsBeforeFieldID
	}
	return bsBeforeValue
}

// readN reads exactly n bytes of input.
func (b *binstream) readN(n uint64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	bs := make([]byte, n)
	actual, err := io.ReadFull(b.in, bs)
	b.pos += uint64(actual)

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, &UnexpectedEOFError{b.pos}
	}
	if err != nil {
		return nil, &IOError{err}
	}

	return bs, nil
}

// read1 reads a byte, treating EOF as an error.
func (b *binstream) read1() (int, error) {
	c, err := b.read()
	if err != nil {
		return 0, err
	}
	if c == -1 {
		return 0, &UnexpectedEOFError{b.pos}
	}
	return c, nil
}

// read reads a byte, returning -1 at a clean end of stream.
func (b *binstream) read() (int, error) {
	c, err := b.in.ReadByte()
	b.pos++

	if err == io.EOF {
		return -1, nil
	}
	if err != nil {
		return 0, &IOError{err}
	}

	return int(c), nil
}

// skip discards n bytes of input without buffering them.
func (b *binstream) skip(n uint64) error {
	actual, err := b.in.Discard(int(n))
	b.pos += uint64(actual)

	if uint64(actual) < n {
		if err == nil || err == io.EOF {
			return &UnexpectedEOFError{b.pos}
		}
		return &IOError{err}
	}

	return nil
}

// A binnode records a container the scanner has stepped into and the
// offset at which it ends.
type binnode struct {
	code bincode
	end  uint64
}

type binstack struct {
	arr []binnode
}

func (b *binstack) empty() bool {
	return len(b.arr) == 0
}

func (b *binstack) peek() binnode {
	if len(b.arr) == 0 {
		return binnode{}
	}
	return b.arr[len(b.arr)-1]
}

func (b *binstack) push(code bincode, end uint64) {
	b.arr = append(b.arr, binnode{code, end})
}

func (b *binstack) pop() {
	if len(b.arr) == 0 {
		panic("pop called on empty binstack")
	}
	b.arr = b.arr[:len(b.arr)-1]
}
