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

import "strings"

// A SymbolTable maps symbol IDs to text and back. Tables are immutable once
// constructed; a stream that declares a new local table gets a new instance.
type SymbolTable interface {
	// Imports returns the shared symbol tables this table imports.
	Imports() []SharedSymbolTable
	// Symbols returns the symbol texts this table defines locally.
	Symbols() []string
	// MaxID returns the largest symbol ID this table defines.
	MaxID() uint64
	// FindByName returns the ID interned for the given text, if any.
	FindByName(text string) (uint64, bool)
	// FindByID returns the text interned under the given ID, if any.
	// A false return for an ID at or below MaxID means the ID is defined
	// but its text is unknowable (e.g. an unresolvable import).
	FindByID(id uint64) (string, bool)
	// Find returns a token for the given text, or nil if it is not interned.
	Find(text string) *SymbolToken
	// WriteTo serializes this symbol table to the given writer.
	WriteTo(w Writer) error
	// String returns this table in Ion text form.
	String() string
}

// A SharedSymbolTable is a named, versioned symbol table distributed
// out-of-band and referenced by local tables to save space.
type SharedSymbolTable interface {
	SymbolTable

	// Name returns the name of this shared table.
	Name() string
	// Version returns the version of this shared table.
	Version() int
	// Adjust returns a copy of this table truncated or padded to maxID.
	Adjust(maxID uint64) SharedSymbolTable
}

type sst struct {
	name    string
	version int
	symbols []string
	index   map[string]uint64
	maxID   uint64
}

// NewSharedSymbolTable creates a shared symbol table with the given name,
// version, and symbol texts.
func NewSharedSymbolTable(name string, version int, symbols []string) SharedSymbolTable {
	syms := make([]string, len(symbols))
	copy(syms, symbols)

	return &sst{
		name:    name,
		version: version,
		symbols: syms,
		index:   buildIndex(syms, 0),
		maxID:   uint64(len(syms)),
	}
}

func (s *sst) Name() string {
	return s.name
}

func (s *sst) Version() int {
	return s.version
}

func (s *sst) Imports() []SharedSymbolTable {
	return nil
}

func (s *sst) Symbols() []string {
	syms := make([]string, s.maxID)
	copy(syms, s.symbols)
	return syms
}

func (s *sst) MaxID() uint64 {
	return s.maxID
}

func (s *sst) Adjust(maxID uint64) SharedSymbolTable {
	if maxID == s.maxID {
		return s
	}

	if maxID > uint64(len(s.symbols)) {
		// Padding past the end; the index is still valid.
		return &sst{
			name:    s.name,
			version: s.version,
			symbols: s.symbols,
			index:   s.index,
			maxID:   maxID,
		}
	}

	symbols := s.symbols[:maxID]
	return &sst{
		name:    s.name,
		version: s.version,
		symbols: symbols,
		index:   buildIndex(symbols, 0),
		maxID:   maxID,
	}
}

func (s *sst) FindByName(text string) (uint64, bool) {
	id, ok := s.index[text]
	return id, ok
}

func (s *sst) FindByID(id uint64) (string, bool) {
	if id < 1 || id > uint64(len(s.symbols)) {
		return "", false
	}
	return s.symbols[id-1], true
}

func (s *sst) Find(text string) *SymbolToken {
	if _, ok := s.index[text]; !ok {
		return nil
	}
	return &SymbolToken{Text: &text, LocalSID: SymbolIDUnknown}
}

func (s *sst) WriteTo(w Writer) error {
	if err := w.Annotation(NewSymbolTokenFromString("$ion_shared_symbol_table")); err != nil {
		return err
	}
	if err := w.BeginStruct(); err != nil {
		return err
	}

	if err := w.FieldName(NewSymbolTokenFromString("name")); err != nil {
		return err
	}
	if err := w.WriteString(s.name); err != nil {
		return err
	}

	if err := w.FieldName(NewSymbolTokenFromString("version")); err != nil {
		return err
	}
	if err := w.WriteInt(int64(s.version)); err != nil {
		return err
	}

	if err := w.FieldName(NewSymbolTokenFromString("symbols")); err != nil {
		return err
	}
	if err := w.BeginList(); err != nil {
		return err
	}
	for _, sym := range s.symbols {
		if err := w.WriteString(sym); err != nil {
			return err
		}
	}
	if err := w.EndList(); err != nil {
		return err
	}

	return w.EndStruct()
}

func (s *sst) String() string {
	buf := strings.Builder{}
	w := NewTextWriterOpts(&buf, TextWriterQuietFinish)
	_ = s.WriteTo(w)
	_ = w.Finish()
	return buf.String()
}

// V1SystemSymbolTable is the system symbol table implied by Ion 1.0.
var V1SystemSymbolTable = NewSharedSymbolTable("$ion", 1, []string{
	"$ion",
	"$ion_1_0",
	"$ion_symbol_table",
	"name",
	"version",
	"imports",
	"symbols",
	"max_id",
	"$ion_shared_symbol_table",
})

// Reserved system symbol IDs.
const (
	sidIon               = 1
	sidIonSymbolTable    = 3
	sidName              = 4
	sidVersion           = 5
	sidImports           = 6
	sidSymbols           = 7
	sidMaxID             = 8
	sidSharedSymbolTable = 9
)

// IsSystemSID reports whether id is reserved by the Ion 1.0 system table.
func IsSystemSID(id uint64) bool {
	return id <= V1SystemSymbolTable.MaxID()
}

// A bogusSST stands in for a shared table imported by name that the catalog
// could not supply. It reserves the imported ID range so later imports and
// local symbols land on the right IDs; every lookup inside it misses.
type bogusSST struct {
	name    string
	version int
	maxID   uint64
}

var _ SharedSymbolTable = &bogusSST{}

func (s *bogusSST) Name() string {
	return s.name
}

func (s *bogusSST) Version() int {
	return s.version
}

func (s *bogusSST) Imports() []SharedSymbolTable {
	return nil
}

func (s *bogusSST) Symbols() []string {
	return nil
}

func (s *bogusSST) MaxID() uint64 {
	return s.maxID
}

func (s *bogusSST) Adjust(maxID uint64) SharedSymbolTable {
	return &bogusSST{
		name:    s.name,
		version: s.version,
		maxID:   maxID,
	}
}

func (s *bogusSST) FindByName(text string) (uint64, bool) {
	return 0, false
}

func (s *bogusSST) FindByID(id uint64) (string, bool) {
	return "", false
}

func (s *bogusSST) Find(text string) *SymbolToken {
	return nil
}

func (s *bogusSST) WriteTo(w Writer) error {
	return &UsageError{"SharedSymbolTable.WriteTo", "placeholder symbol table cannot be written"}
}

func (s *bogusSST) String() string {
	buf := strings.Builder{}
	w := NewTextWriter(&buf)
	_ = w.Annotations(
		NewSymbolTokenFromString("$ion_shared_symbol_table"),
		NewSymbolTokenFromString("bogus"))
	_ = w.BeginStruct()
	_ = w.FieldName(NewSymbolTokenFromString("name"))
	_ = w.WriteString(s.name)
	_ = w.FieldName(NewSymbolTokenFromString("version"))
	_ = w.WriteInt(int64(s.version))
	_ = w.FieldName(NewSymbolTokenFromString("max_id"))
	_ = w.WriteUint(s.maxID)
	_ = w.EndStruct()
	_ = w.Finish()
	return buf.String()
}

// An lst is a local symbol table: declared inline in a stream, valid from
// its declaration point until the next declaration or version marker.
type lst struct {
	imports     []SharedSymbolTable
	offsets     []uint64
	maxImportID uint64

	symbols []string
	index   map[string]uint64
}

// NewLocalSymbolTable creates a local symbol table from the given imports
// and local symbol texts. The system table is implicitly the first import.
func NewLocalSymbolTable(imports []SharedSymbolTable, symbols []string) SymbolTable {
	imps, offsets, maxID := processImports(imports)

	syms := make([]string, len(symbols))
	copy(syms, symbols)

	return &lst{
		imports:     imps,
		offsets:     offsets,
		maxImportID: maxID,
		symbols:     syms,
		index:       buildIndex(syms, maxID),
	}
}

func (t *lst) Imports() []SharedSymbolTable {
	imps := make([]SharedSymbolTable, len(t.imports))
	copy(imps, t.imports)
	return imps
}

func (t *lst) Symbols() []string {
	syms := make([]string, len(t.symbols))
	copy(syms, t.symbols)
	return syms
}

func (t *lst) MaxID() uint64 {
	return t.maxImportID + uint64(len(t.symbols))
}

func (t *lst) FindByName(text string) (uint64, bool) {
	for i, imp := range t.imports {
		if id, ok := imp.FindByName(text); ok {
			return t.offsets[i] + id, true
		}
	}

	if id, ok := t.index[text]; ok {
		return id, true
	}

	return 0, false
}

func (t *lst) FindByID(id uint64) (string, bool) {
	if id < 1 {
		return "", false
	}
	if id <= t.maxImportID {
		return t.findImportedID(id)
	}

	idx := id - t.maxImportID - 1
	if idx < uint64(len(t.symbols)) {
		return t.symbols[idx], true
	}

	return "", false
}

func (t *lst) findImportedID(id uint64) (string, bool) {
	i := 1
	for ; i < len(t.imports); i++ {
		if id <= t.offsets[i] {
			break
		}
	}
	return t.imports[i-1].FindByID(id - t.offsets[i-1])
}

func (t *lst) Find(text string) *SymbolToken {
	for _, imp := range t.imports {
		if tok := imp.Find(text); tok != nil {
			return tok
		}
	}

	if _, ok := t.index[text]; ok {
		return &SymbolToken{Text: &text, LocalSID: SymbolIDUnknown}
	}

	return nil
}

func (t *lst) WriteTo(w Writer) error {
	if len(t.imports) == 1 && len(t.symbols) == 0 {
		// Nothing beyond the system table; the BVM says it all.
		return nil
	}

	if err := w.Annotation(NewSymbolTokenFromString("$ion_symbol_table")); err != nil {
		return err
	}
	if err := w.BeginStruct(); err != nil {
		return err
	}

	if len(t.imports) > 1 {
		if err := w.FieldName(NewSymbolTokenFromString("imports")); err != nil {
			return err
		}
		if err := w.BeginList(); err != nil {
			return err
		}
		for _, imp := range t.imports[1:] {
			if err := writeImport(w, imp); err != nil {
				return err
			}
		}
		if err := w.EndList(); err != nil {
			return err
		}
	}

	if len(t.symbols) > 0 {
		if err := w.FieldName(NewSymbolTokenFromString("symbols")); err != nil {
			return err
		}
		if err := w.BeginList(); err != nil {
			return err
		}
		for _, sym := range t.symbols {
			if err := w.WriteString(sym); err != nil {
				return err
			}
		}
		if err := w.EndList(); err != nil {
			return err
		}
	}

	return w.EndStruct()
}

func writeImport(w Writer, imp SharedSymbolTable) error {
	if err := w.BeginStruct(); err != nil {
		return err
	}

	if err := w.FieldName(NewSymbolTokenFromString("name")); err != nil {
		return err
	}
	if err := w.WriteString(imp.Name()); err != nil {
		return err
	}

	if err := w.FieldName(NewSymbolTokenFromString("version")); err != nil {
		return err
	}
	if err := w.WriteInt(int64(imp.Version())); err != nil {
		return err
	}

	if err := w.FieldName(NewSymbolTokenFromString("max_id")); err != nil {
		return err
	}
	if err := w.WriteUint(imp.MaxID()); err != nil {
		return err
	}

	return w.EndStruct()
}

func (t *lst) String() string {
	buf := strings.Builder{}
	w := NewTextWriterOpts(&buf, TextWriterQuietFinish)
	_ = t.WriteTo(w)
	_ = w.Finish()
	return buf.String()
}

// A SymbolTableBuilder interns symbols incrementally on behalf of a writer.
type SymbolTableBuilder interface {
	SymbolTable

	// Add interns the given text, returning its ID and whether it was
	// newly added. IDs are allocated monotonically and never reused.
	Add(text string) (uint64, bool)
	// Build returns an immutable snapshot of the table built so far.
	Build() SymbolTable
}

type symbolTableBuilder struct {
	lst
}

// NewSymbolTableBuilder creates a builder over the given imports.
func NewSymbolTableBuilder(imports ...SharedSymbolTable) SymbolTableBuilder {
	imps, offsets, maxID := processImports(imports)
	return &symbolTableBuilder{
		lst{
			imports:     imps,
			offsets:     offsets,
			maxImportID: maxID,
			index:       make(map[string]uint64),
		},
	}
}

func (b *symbolTableBuilder) Add(text string) (uint64, bool) {
	if id, ok := b.FindByName(text); ok {
		return id, false
	}

	b.symbols = append(b.symbols, text)
	id := b.maxImportID + uint64(len(b.symbols))
	b.index[text] = id

	return id, true
}

func (b *symbolTableBuilder) Build() SymbolTable {
	symbols := append([]string{}, b.symbols...)
	index := make(map[string]uint64, len(b.index))
	for s, i := range b.index {
		index[s] = i
	}

	return &lst{
		imports:     b.imports,
		offsets:     b.offsets,
		maxImportID: b.maxImportID,
		symbols:     symbols,
		index:       index,
	}
}

// processImports prepends the system table if absent and computes the ID
// offset each import occupies.
func processImports(imports []SharedSymbolTable) ([]SharedSymbolTable, []uint64, uint64) {
	var imps []SharedSymbolTable
	if len(imports) > 0 && imports[0].Name() == "$ion" {
		imps = make([]SharedSymbolTable, len(imports))
		copy(imps, imports)
	} else {
		imps = make([]SharedSymbolTable, len(imports)+1)
		imps[0] = V1SystemSymbolTable
		copy(imps[1:], imports)
	}

	maxID := uint64(0)
	offsets := make([]uint64, len(imps))
	for i, imp := range imps {
		offsets[i] = maxID
		maxID += imp.MaxID()
	}

	return imps, offsets, maxID
}

// buildIndex maps symbol text to the IDs following the given offset. The
// first occurrence of a repeated text wins.
func buildIndex(symbols []string, offset uint64) map[string]uint64 {
	index := make(map[string]uint64, len(symbols))
	for i, sym := range symbols {
		if sym != "" {
			if _, ok := index[sym]; !ok {
				index[sym] = offset + uint64(i) + 1
			}
		}
	}
	return index
}
