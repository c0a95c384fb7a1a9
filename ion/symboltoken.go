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

import "fmt"

// SymbolIDUnknown marks a SymbolToken that carries no symbol ID.
const SymbolIDUnknown = -1

// An ImportSource identifies the slot of a shared symbol table that a
// symbol token was imported from.
type ImportSource struct {
	// Table is the name of the shared symbol table.
	Table string
	// SID is the ID of the text within that shared table.
	SID int64
}

// Equal reports whether two import sources refer to the same slot.
func (is *ImportSource) Equal(o *ImportSource) bool {
	return is.Table == o.Table && is.SID == o.SID
}

// A SymbolToken is the value of an annotation, a struct field name, or a
// symbol value: interned text addressed by a symbol ID, where either half
// may be missing. A token with no text is legal (the table that defined it
// may not be available); a token with no ID simply hasn't been interned yet.
// The zero value is $0, the reserved unmapped symbol.
type SymbolToken struct {
	// Text of the token, or nil if unknown.
	Text *string
	// LocalSID is the symbol ID relative to the enclosing stream's symbol
	// table, or SymbolIDUnknown.
	LocalSID int64
	// Source is the shared-table slot this token was imported from, if any.
	Source *ImportSource
}

// symbolTokenUndefined is the sentinel for an invalid token; note that the
// zero SymbolToken is $0, which is valid.
var symbolTokenUndefined = SymbolToken{LocalSID: SymbolIDUnknown}

// NewSymbolTokenFromString creates a token with known text and no symbol ID.
func NewSymbolTokenFromString(text string) SymbolToken {
	return SymbolToken{Text: &text, LocalSID: SymbolIDUnknown}
}

// newSymbolToken builds a token for the given text, resolving its ID against
// st if the text is already interned there.
func newSymbolToken(st SymbolTable, text string) SymbolToken {
	if st != nil {
		if id, ok := st.FindByName(text); ok {
			return SymbolToken{Text: &text, LocalSID: int64(id)}
		}
	}
	return SymbolToken{Text: &text, LocalSID: SymbolIDUnknown}
}

func (st SymbolToken) String() string {
	text := "nil"
	if st.Text != nil {
		text = fmt.Sprintf("%q", *st.Text)
	}

	source := "nil"
	if st.Source != nil {
		source = fmt.Sprintf("{%q %d}", st.Source.Table, st.Source.SID)
	}

	return fmt.Sprintf("{%s %d %s}", text, st.LocalSID, source)
}

// Equal reports whether two tokens denote the same symbol: by text when
// both have it, by table position when neither does.
func (st SymbolToken) Equal(o SymbolToken) bool {
	if st.Text != nil && o.Text != nil {
		return *st.Text == *o.Text
	}
	if st.Text == nil && o.Text == nil {
		return st.LocalSID == o.LocalSID
	}
	return false
}
