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
	"fmt"
)

// A binaryReader reads binary Ion.
type binaryReader struct {
	reader

	bits binstream
	cat  Catalog
	lst  SymbolTable
}

func newBinaryReaderBuf(in *bufio.Reader, cat Catalog) Reader {
	r := &binaryReader{cat: cat}
	r.bits.Init(in)
	return r
}

// SymbolTable returns the symbol table currently in effect.
func (r *binaryReader) SymbolTable() SymbolTable {
	return r.lst
}

// Next advances to the next user-level value in the stream.
func (r *binaryReader) Next() bool {
	if r.eof || r.err != nil {
		return false
	}

	r.clear()

	done := false
	for !done {
		done, r.err = r.next()
		if r.err != nil {
			return false
		}
	}

	return !r.eof
}

// next consumes the next raw slot from the stream, returning true once it
// lands on a user-facing value. Version markers, field IDs, annotation
// wrappers, and symbol table structs all return false to keep scanning.
func (r *binaryReader) next() (bool, error) {
	if err := r.bits.Next(); err != nil {
		return false, err
	}

	code := r.bits.Code()
	switch code {
	case bcEOF:
		r.eof = true
		return true, nil

	case bcBVM:
		return false, r.readBVM()

	case bcFieldID:
		return false, r.readFieldName()

	case bcAnnotation:
		return false, r.readAnnotations()

	case bcNull:
		r.valueType = NullType
		return true, nil

	case bcFalse, bcTrue:
		r.valueType = BoolType
		if !r.bits.IsNull() {
			r.value = code == bcTrue
		}
		return true, nil

	case bcInt, bcNegInt:
		r.valueType = IntType
		if !r.bits.IsNull() {
			val, err := r.bits.ReadInt()
			if err != nil {
				return false, err
			}
			r.value = val
		}
		return true, nil

	case bcFloat:
		r.valueType = FloatType
		if !r.bits.IsNull() {
			val, err := r.bits.ReadFloat()
			if err != nil {
				return false, err
			}
			r.value = val
		}
		return true, nil

	case bcDecimal:
		r.valueType = DecimalType
		if !r.bits.IsNull() {
			val, err := r.bits.ReadDecimal()
			if err != nil {
				return false, err
			}
			r.value = val
		}
		return true, nil

	case bcTimestamp:
		r.valueType = TimestampType
		if !r.bits.IsNull() {
			val, err := r.bits.ReadTimestamp()
			if err != nil {
				return false, err
			}
			r.value = val
		}
		return true, nil

	case bcSymbol:
		r.valueType = SymbolType
		if !r.bits.IsNull() {
			id, err := r.bits.ReadSymbolID()
			if err != nil {
				return false, err
			}
			r.value, r.valueErr = r.resolve(id)
		}
		return true, nil

	case bcString:
		r.valueType = StringType
		if !r.bits.IsNull() {
			val, err := r.bits.ReadString()
			if err != nil {
				return false, err
			}
			r.value = val
		}
		return true, nil

	case bcClob, bcBlob:
		r.valueType = ClobType
		if code == bcBlob {
			r.valueType = BlobType
		}
		if !r.bits.IsNull() {
			val, err := r.bits.ReadBytes()
			if err != nil {
				return false, err
			}
			r.value = val
		}
		return true, nil

	case bcList:
		r.valueType = ListType
		if !r.bits.IsNull() {
			r.value = ListType
		}
		return true, nil

	case bcSexp:
		r.valueType = SexpType
		if !r.bits.IsNull() {
			r.value = SexpType
		}
		return true, nil

	case bcStruct:
		r.valueType = StructType
		if !r.bits.IsNull() {
			r.value = StructType
		}

		// A top-level struct annotated $ion_symbol_table is the next
		// symbol table, not a user value.
		if r.ctx.peek() == ctxAtTopLevel && isIonSymbolTable(r.annotations) {
			if r.bits.IsNull() {
				// A null symbol table resets to the system table.
				r.lst = V1SystemSymbolTable
				r.clear()
				return false, nil
			}
			st, err := readLocalSymbolTable(r, r.cat)
			if err != nil {
				return false, err
			}
			r.lst = st
			r.clear()
			return false, nil
		}

		return true, nil
	}

	panic(fmt.Sprintf("invalid bincode %v", code))
}

func isIonSymbolTable(as []SymbolToken) bool {
	return len(as) > 0 && as[0].Text != nil && *as[0].Text == "$ion_symbol_table"
}

// readBVM validates a version marker and resets the symbol table to the
// system table.
func (r *binaryReader) readBVM() error {
	major, minor, err := r.bits.ReadBVM()
	if err != nil {
		return err
	}

	if major == 1 && minor == 0 {
		r.lst = V1SystemSymbolTable
		return nil
	}

	return &UnsupportedVersionError{
		int(major),
		int(minor),
		r.bits.Pos() - 4,
	}
}

// readFieldName reads a field ID and resolves it against the current
// symbol table. Resolution failures surface from FieldName, not here.
func (r *binaryReader) readFieldName() error {
	id, err := r.bits.ReadFieldID()
	if err != nil {
		return err
	}

	tok, terr := r.resolve(id)
	r.fieldName = &tok
	r.fieldNameErr = terr

	return nil
}

// readAnnotations reads an annotation wrapper and resolves its IDs.
func (r *binaryReader) readAnnotations() error {
	ids, err := r.bits.ReadAnnotationIDs()
	if err != nil {
		return err
	}

	as := make([]SymbolToken, len(ids))
	for i, id := range ids {
		tok, terr := r.resolve(id)
		if terr != nil && r.annotationsErr == nil {
			r.annotationsErr = terr
		}
		as[i] = tok
	}

	r.annotations = as
	return nil
}

// resolve maps a symbol ID to a token. IDs at or below the table's max
// that lack text yield a token with unknown text; IDs beyond it yield a
// SymbolNotFoundError so the ID is not silently passed off as a symbol.
func (r *binaryReader) resolve(id uint64) (SymbolToken, error) {
	if r.lst != nil {
		if text, ok := r.lst.FindByID(id); ok {
			return SymbolToken{Text: &text, LocalSID: int64(id)}, nil
		}
		if id <= r.lst.MaxID() {
			return SymbolToken{LocalSID: int64(id)}, nil
		}
	}
	if id == 0 {
		return SymbolToken{LocalSID: 0}, nil
	}
	return SymbolToken{LocalSID: int64(id)}, &SymbolNotFoundError{id}
}

// StepIn steps in to the current container value.
func (r *binaryReader) StepIn() error {
	if r.err != nil {
		return r.err
	}

	if !IsContainer(r.valueType) {
		return &UsageError{"Reader.StepIn", fmt.Sprintf("cannot step in to a %v", r.valueType)}
	}
	if r.value == nil {
		return &UsageError{"Reader.StepIn", "cannot step in to a null container"}
	}

	r.ctx.push(containerTypeToCtx(r.valueType))
	r.clear()
	r.bits.StepIn()

	return nil
}

// StepOut steps out of the current container value.
func (r *binaryReader) StepOut() error {
	if r.err != nil {
		return r.err
	}
	if r.ctx.peek() == ctxAtTopLevel {
		return &UsageError{"Reader.StepOut", "cannot step out of top-level datagram"}
	}

	if err := r.bits.StepOut(); err != nil {
		r.err = err
		return err
	}

	r.clear()
	r.ctx.pop()
	r.eof = false

	return nil
}
