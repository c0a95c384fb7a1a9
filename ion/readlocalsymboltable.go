package ion

import "github.com/pkg/errors"

// readLocalSymbolTable reads a $ion_symbol_table struct through the given
// reader and builds the table it declares, resolving imports against cat.
func readLocalSymbolTable(r Reader, cat Catalog) (SymbolTable, error) {
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	var imps []SharedSymbolTable
	var syms []string

	foundImports := false
	foundSymbols := false

	for r.Next() {
		fieldName, err := r.FieldName()
		if err != nil {
			return nil, err
		}
		if fieldName == nil || fieldName.Text == nil {
			return nil, errors.New("ion: symbol table field has no name")
		}

		switch *fieldName.Text {
		case "symbols":
			if foundSymbols {
				return nil, errors.New("ion: symbol table with multiple symbols fields")
			}
			foundSymbols = true
			syms, err = readSymbols(r)
		case "imports":
			if foundImports {
				return nil, errors.New("ion: symbol table with multiple imports fields")
			}
			foundImports = true
			imps, err = readImports(r, cat)
		}
		if err != nil {
			return nil, err
		}
	}
	if r.Err() != nil {
		return nil, r.Err()
	}

	if err := r.StepOut(); err != nil {
		return nil, err
	}

	return NewLocalSymbolTable(imps, syms), nil
}

// readImports reads the imports field of a symbol table declaration.
func readImports(r Reader, cat Catalog) ([]SharedSymbolTable, error) {
	if r.Type() == SymbolType {
		val, err := r.SymbolValue()
		if err != nil {
			return nil, err
		}

		// imports:$ion_symbol_table keeps the previous table's symbols.
		if val != nil && (val.LocalSID == sidIonSymbolTable ||
			(val.Text != nil && *val.Text == "$ion_symbol_table")) {
			prev := r.SymbolTable()
			if prev == nil || prev == V1SystemSymbolTable {
				return nil, nil
			}

			imps := prev.Imports()
			carried := NewSharedSymbolTable("", 0, prev.Symbols())
			return append(imps, carried), nil
		}
	}

	if r.Type() != ListType || r.IsNull() {
		return nil, nil
	}
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	var imps []SharedSymbolTable
	for r.Next() {
		imp, err := readImport(r, cat)
		if err != nil {
			return nil, err
		}
		if imp != nil {
			imps = append(imps, imp)
		}
	}
	if r.Err() != nil {
		return nil, r.Err()
	}

	return imps, r.StepOut()
}

// readImport reads a single import descriptor. A missing catalog entry
// with a declared max_id yields a placeholder table covering the ID range.
func readImport(r Reader, cat Catalog) (SharedSymbolTable, error) {
	if r.Type() != StructType || r.IsNull() {
		return nil, nil
	}
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	name := ""
	version := -1
	maxID := int64(-1)

	for r.Next() {
		fieldName, err := r.FieldName()
		if err != nil {
			return nil, err
		}
		if fieldName == nil || fieldName.Text == nil {
			return nil, errors.New("ion: import field has no name")
		}

		switch *fieldName.Text {
		case "name":
			if r.Type() == StringType {
				val, err := r.StringValue()
				if err != nil {
					return nil, err
				}
				if val != nil {
					name = *val
				}
			}
		case "version":
			if r.Type() == IntType {
				val, err := r.IntValue()
				if err != nil {
					return nil, err
				}
				if val != nil {
					version = *val
				}
			}
		case "max_id":
			if r.Type() == IntType {
				if r.IsNull() {
					return nil, errors.New("ion: import max_id is null")
				}
				val, err := r.Int64Value()
				if err != nil {
					return nil, err
				}
				maxID = *val
			}
		}
	}
	if r.Err() != nil {
		return nil, r.Err()
	}

	if err := r.StepOut(); err != nil {
		return nil, err
	}

	if name == "" || name == "$ion" {
		return nil, nil
	}
	if version < 1 {
		version = 1
	}

	var imp SharedSymbolTable
	if cat != nil {
		imp = cat.FindExact(name, version)
		if imp == nil {
			imp = cat.FindLatest(name)
		}
	}

	if maxID < 0 {
		if imp == nil || version != imp.Version() {
			return nil, errors.Errorf("ion: import of %v/%v has no max_id and no exact catalog match",
				name, version)
		}
		maxID = int64(imp.MaxID())
	}

	if imp == nil {
		imp = &bogusSST{
			name:    name,
			version: version,
			maxID:   uint64(maxID),
		}
	} else {
		imp = imp.Adjust(uint64(maxID))
	}

	return imp, nil
}

// readSymbols reads the symbols field of a symbol table declaration.
// Anything that is not a non-null string claims an ID with unknown text.
func readSymbols(r Reader) ([]string, error) {
	if r.Type() != ListType || r.IsNull() {
		return nil, nil
	}
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	var syms []string
	for r.Next() {
		sym := ""
		if r.Type() == StringType {
			val, err := r.StringValue()
			if err != nil {
				return nil, err
			}
			if val != nil {
				sym = *val
			}
		}
		syms = append(syms, sym)
	}
	if r.Err() != nil {
		return nil, r.Err()
	}

	return syms, r.StepOut()
}
