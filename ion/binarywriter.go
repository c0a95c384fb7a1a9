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
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/big"
	"time"
)

// A binaryWriter writes binary Ion.
type binaryWriter struct {
	writer
	bufs bufstack

	lst  SymbolTable
	lstb SymbolTableBuilder

	wroteLST bool
}

// NewBinaryWriter creates a binary writer that interns symbols as they are
// written, emitting the accumulated local symbol table ahead of the values
// when Finish is called.
func NewBinaryWriter(out io.Writer, sts ...SharedSymbolTable) Writer {
	w := &binaryWriter{
		writer: writer{
			out: out,
		},
		lstb: NewSymbolTableBuilder(sts...),
	}
	w.bufs.push(&datagram{})
	return w
}

// NewBinaryWriterLST creates a binary writer with a fixed, pre-built local
// symbol table. Values stream straight to out; symbols missing from the
// table are errors.
func NewBinaryWriterLST(out io.Writer, lst SymbolTable) Writer {
	return &binaryWriter{
		writer: writer{
			out: out,
		},
		lst: lst,
	}
}

// WriteNull writes an untyped null.
func (w *binaryWriter) WriteNull() error {
	return w.writeValue("Writer.WriteNull", []byte{0x0F})
}

// WriteNullType writes a typed null.
func (w *binaryWriter) WriteNullType(t Type) error {
	return w.writeValue("Writer.WriteNullType", []byte{binaryNulls[t]})
}

// WriteBool writes a bool.
func (w *binaryWriter) WriteBool(val bool) error {
	b := byte(0x10)
	if val {
		b = 0x11
	}
	return w.writeValue("Writer.WriteBool", []byte{b})
}

// WriteInt writes an integer.
func (w *binaryWriter) WriteInt(val int64) error {
	if val == 0 {
		return w.writeValue("Writer.WriteInt", []byte{0x20})
	}

	code := byte(0x20)
	mag := uint64(val)

	if val < 0 {
		code = 0x30
		mag = uint64(-val)
	}

	length := uintLen(mag)

	buf := make([]byte, 0, length+tagLen(length))
	buf = appendTag(buf, code, length)
	buf = appendUint(buf, mag)

	return w.writeValue("Writer.WriteInt", buf)
}

// WriteUint writes an unsigned integer.
func (w *binaryWriter) WriteUint(val uint64) error {
	if val == 0 {
		return w.writeValue("Writer.WriteUint", []byte{0x20})
	}

	length := uintLen(val)

	buf := make([]byte, 0, length+tagLen(length))
	buf = appendTag(buf, 0x20, length)
	buf = appendUint(buf, val)

	return w.writeValue("Writer.WriteUint", buf)
}

// WriteBigInt writes a big integer.
func (w *binaryWriter) WriteBigInt(val *big.Int) error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.beginValue("Writer.WriteBigInt"); w.err != nil {
		return w.err
	}

	if w.err = w.writeBigInt(val); w.err != nil {
		return w.err
	}

	w.err = w.endValue()
	return w.err
}

func (w *binaryWriter) writeBigInt(val *big.Int) error {
	sign := val.Sign()
	if sign == 0 {
		return w.write([]byte{0x20})
	}

	code := byte(0x20)
	if sign < 0 {
		code = 0x30
	}

	bs := val.Bytes()
	length := uint64(len(bs))

	if length < 64 {
		buf := make([]byte, 0, length+tagLen(length))
		buf = appendTag(buf, code, length)
		buf = append(buf, bs...)
		return w.write(buf)
	}

	// Large magnitude; emit the tag separately rather than copying.
	if err := w.writeTag(code, length); err != nil {
		return err
	}
	return w.write(bs)
}

// WriteFloat writes a float. Finite values that survive a round trip
// through float32 are shortened to the 4-byte encoding; infinities and
// NaNs keep their full 8-byte bit pattern.
func (w *binaryWriter) WriteFloat(val float64) error {
	if val == 0 && !math.Signbit(val) {
		return w.writeValue("Writer.WriteFloat", []byte{0x40})
	}

	var bs []byte
	if val == float64(float32(val)) && !math.IsInf(val, 0) {
		bs = make([]byte, 5)
		bs[0] = 0x44
		binary.BigEndian.PutUint32(bs[1:], math.Float32bits(float32(val)))
	} else {
		bs = make([]byte, 9)
		bs[0] = 0x48
		binary.BigEndian.PutUint64(bs[1:], math.Float64bits(val))
	}

	return w.writeValue("Writer.WriteFloat", bs)
}

// WriteDecimal writes a decimal.
func (w *binaryWriter) WriteDecimal(val *Decimal) error {
	coef, exp := val.CoEx()

	// Positive 0d0 is the bare tag byte.
	if coef.Sign() == 0 && exp == 0 && !val.negZero {
		return w.writeValue("Writer.WriteDecimal", []byte{0x50})
	}

	vlength := varIntLen(int64(exp))
	if val.negZero {
		// A zero coefficient with its sign bit set.
		vlength++
	} else {
		vlength += bigIntLen(coef)
	}

	buf := make([]byte, 0, vlength+tagLen(vlength))
	buf = appendTag(buf, 0x50, vlength)
	buf = appendVarInt(buf, int64(exp))

	if val.negZero {
		buf = append(buf, 0x80)
	} else {
		buf = appendBigInt(buf, coef)
	}

	return w.writeValue("Writer.WriteDecimal", buf)
}

// WriteTimestamp writes a timestamp. The components are stored in UTC with
// the original zone preserved as an offset.
func (w *binaryWriter) WriteTimestamp(val Timestamp) error {
	_, offset := val.DateTime.Zone()
	offset /= 60
	val.DateTime = val.DateTime.In(time.UTC)

	vlength := timestampLen(offset, val)

	buf := make([]byte, 0, vlength+tagLen(vlength))
	buf = appendTag(buf, 0x60, vlength)
	buf = appendTimestamp(buf, offset, val)

	return w.writeValue("Writer.WriteTimestamp", buf)
}

// WriteSymbol writes a symbol token, interning its text if necessary.
func (w *binaryWriter) WriteSymbol(val SymbolToken) error {
	var id uint64
	switch {
	case val.LocalSID != SymbolIDUnknown:
		id = uint64(val.LocalSID)
	case val.Text != nil:
		id, w.err = w.resolveFromSymbolTable("Writer.WriteSymbol", *val.Text)
		if w.err != nil {
			return w.err
		}
	default:
		return &UsageError{"Writer.WriteSymbol", "symbol token has neither text nor a symbol id"}
	}

	return w.writeSymbolID("Writer.WriteSymbol", id)
}

// WriteSymbolFromString writes a symbol value given its text.
func (w *binaryWriter) WriteSymbolFromString(val string) error {
	var id uint64
	id, w.err = w.resolve("Writer.WriteSymbolFromString", val)
	if w.err != nil {
		return w.err
	}

	return w.writeSymbolID("Writer.WriteSymbolFromString", id)
}

func (w *binaryWriter) writeSymbolID(api string, id uint64) error {
	vlength := uintLen(id)

	buf := make([]byte, 0, vlength+tagLen(vlength))
	buf = appendTag(buf, 0x70, vlength)
	buf = appendUint(buf, id)

	return w.writeValue(api, buf)
}

// WriteString writes a string.
func (w *binaryWriter) WriteString(val string) error {
	if len(val) == 0 {
		return w.writeValue("Writer.WriteString", []byte{0x80})
	}

	vlength := uint64(len(val))

	buf := make([]byte, 0, vlength+tagLen(vlength))
	buf = appendTag(buf, 0x80, vlength)
	buf = append(buf, val...)

	return w.writeValue("Writer.WriteString", buf)
}

// WriteClob writes a clob.
func (w *binaryWriter) WriteClob(val []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.beginValue("Writer.WriteClob"); w.err != nil {
		return w.err
	}

	if w.err = w.writeLob(0x90, val); w.err != nil {
		return w.err
	}

	w.err = w.endValue()
	return w.err
}

// WriteBlob writes a blob.
func (w *binaryWriter) WriteBlob(val []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.beginValue("Writer.WriteBlob"); w.err != nil {
		return w.err
	}

	if w.err = w.writeLob(0xA0, val); w.err != nil {
		return w.err
	}

	w.err = w.endValue()
	return w.err
}

func (w *binaryWriter) writeLob(code byte, val []byte) error {
	vlength := uint64(len(val))

	if vlength < 64 {
		buf := make([]byte, 0, vlength+tagLen(vlength))
		buf = appendTag(buf, code, vlength)
		buf = append(buf, val...)
		return w.write(buf)
	}

	if err := w.writeTag(code, vlength); err != nil {
		return err
	}
	return w.write(val)
}

// BeginList begins writing a list.
func (w *binaryWriter) BeginList() error {
	if w.err == nil {
		w.err = w.begin("Writer.BeginList", ctxInList, 0xB0)
	}
	return w.err
}

// EndList finishes writing a list.
func (w *binaryWriter) EndList() error {
	if w.err == nil {
		w.err = w.end("Writer.EndList", ctxInList)
	}
	return w.err
}

// BeginSexp begins writing an s-expression.
func (w *binaryWriter) BeginSexp() error {
	if w.err == nil {
		w.err = w.begin("Writer.BeginSexp", ctxInSexp, 0xC0)
	}
	return w.err
}

// EndSexp finishes writing an s-expression.
func (w *binaryWriter) EndSexp() error {
	if w.err == nil {
		w.err = w.end("Writer.EndSexp", ctxInSexp)
	}
	return w.err
}

// BeginStruct begins writing a struct.
func (w *binaryWriter) BeginStruct() error {
	if w.err == nil {
		w.err = w.begin("Writer.BeginStruct", ctxInStruct, 0xD0)
	}
	return w.err
}

// EndStruct finishes writing a struct.
func (w *binaryWriter) EndStruct() error {
	if w.err == nil {
		w.err = w.end("Writer.EndStruct", ctxInStruct)
	}
	return w.err
}

// Finish flushes the datagram: version marker first, then the symbol
// table built up along the way, then the buffered values.
func (w *binaryWriter) Finish() error {
	if w.err != nil {
		return w.err
	}
	if w.ctx.peek() != ctxAtTopLevel {
		return &UsageError{"Writer.Finish", "not at top level"}
	}

	w.clear()
	w.wroteLST = false

	seq := w.bufs.peek()
	if seq != nil {
		w.bufs.pop()
		if w.bufs.peek() != nil {
			panic("at top level but too many bufseqs")
		}

		lst := w.lstb.Build()
		if err := w.writeLST(lst); err != nil {
			return err
		}
		if w.err = w.emit(seq); w.err != nil {
			return w.err
		}

		w.bufs.push(&datagram{})
	}

	return nil
}

// emit sends the node to the current sequence, or straight to the output
// stream once there is no buffering sequence left.
func (w *binaryWriter) emit(node bufnode) error {
	s := w.bufs.peek()
	if s == nil {
		return node.EmitTo(w.out)
	}
	s.Append(node)
	return nil
}

// write emits the given bytes as an atom.
func (w *binaryWriter) write(bs []byte) error {
	return w.emit(atom(bs))
}

// writeValue writes a fully-serialized value.
func (w *binaryWriter) writeValue(api string, val []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.beginValue(api); w.err != nil {
		return w.err
	}

	if w.err = w.write(val); w.err != nil {
		return w.err
	}

	w.err = w.endValue()
	return w.err
}

// writeTag writes a bare code+length tag, for values emitted without
// copying.
func (w *binaryWriter) writeTag(code byte, length uint64) error {
	tag := make([]byte, 0, tagLen(length))
	tag = appendTag(tag, code, length)
	return w.write(tag)
}

// writeLST writes a version marker followed by the given symbol table.
func (w *binaryWriter) writeLST(lst SymbolTable) error {
	if err := w.write([]byte{0xE0, 0x01, 0x00, 0xEA}); err != nil {
		return err
	}
	return lst.WriteTo(w)
}

// beginValue writes the pending field name and opens the annotation
// wrapper, if any, ahead of a value.
func (w *binaryWriter) beginValue(api string) error {
	// Capture and reset these before touching the LST, whose serialization
	// goes through the same machinery.
	name := w.fieldName
	as := w.annotations
	w.clear()

	if w.lst != nil && !w.wroteLST {
		w.wroteLST = true
		if err := w.writeLST(w.lst); err != nil {
			return err
		}
	}

	if w.IsInStruct() {
		if name == nil {
			return &UsageError{api, "field name not set"}
		}

		var id uint64
		switch {
		case name.LocalSID != SymbolIDUnknown:
			id = uint64(name.LocalSID)
		case name.Text != nil:
			var err error
			id, err = w.resolve(api, *name.Text)
			if err != nil {
				return err
			}
		default:
			return &UsageError{api, "field name has neither text nor a symbol id"}
		}

		buf := make([]byte, 0, 10)
		buf = appendVarUint(buf, id)
		if err := w.write(buf); err != nil {
			return err
		}
	}

	if len(as) > 0 {
		ids := make([]uint64, len(as))
		idlen := uint64(0)

		for i, a := range as {
			var id uint64
			var err error
			switch {
			case a.Text != nil:
				id, err = w.resolve(api, *a.Text)
				if err != nil {
					return err
				}
			case a.LocalSID != SymbolIDUnknown:
				id = uint64(a.LocalSID)
			default:
				return &UsageError{api, "annotation has neither text nor a symbol id"}
			}

			ids[i] = id
			idlen += varUintLen(id)
		}

		buf := make([]byte, 0, idlen+varUintLen(idlen))
		buf = appendVarUint(buf, idlen)
		for _, id := range ids {
			buf = appendVarUint(buf, id)
		}

		// The wrapper's total length isn't known until the wrapped value
		// lands, so it buffers like a container.
		w.bufs.push(&container{code: 0xE0})
		if err := w.write(buf); err != nil {
			return err
		}
	}

	return nil
}

// endValue closes the annotation wrapper opened by beginValue, if any.
func (w *binaryWriter) endValue() error {
	seq := w.bufs.peek()
	if seq != nil {
		if c, ok := seq.(*container); ok && c.code == 0xE0 {
			w.bufs.pop()
			return w.emit(seq)
		}
	}
	return nil
}

// begin opens a container.
func (w *binaryWriter) begin(api string, t ctx, code byte) error {
	if err := w.beginValue(api); err != nil {
		return err
	}

	w.ctx.push(t)
	w.bufs.push(&container{code: code})

	return nil
}

// end closes a container, flushing its buffered contents one level down.
func (w *binaryWriter) end(api string, t ctx) error {
	if w.ctx.peek() != t {
		return &UsageError{api, "not in that kind of container"}
	}

	seq := w.bufs.peek()
	if seq != nil {
		w.bufs.pop()
		if err := w.emit(seq); err != nil {
			return err
		}
	}

	w.clear()
	w.ctx.pop()

	return w.endValue()
}

// resolve maps symbol text to an ID, treating $n forms as raw IDs.
func (w *binaryWriter) resolve(api, sym string) (uint64, error) {
	if id, ok := symbolIdentifier(sym); ok {
		return uint64(id), nil
	}

	return w.resolveFromSymbolTable(api, sym)
}

func (w *binaryWriter) resolveFromSymbolTable(api, sym string) (uint64, error) {
	if w.lst != nil {
		id, ok := w.lst.FindByName(sym)
		if !ok {
			return 0, &UsageError{api, fmt.Sprintf("symbol '%v' not defined", sym)}
		}
		return id, nil
	}

	id, _ := w.lstb.Add(sym)
	return id, nil
}
