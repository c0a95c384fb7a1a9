package ion

import "testing"

func TestZeroSymbolToken(t *testing.T) {
	var st SymbolToken
	if st.Text != nil {
		t.Errorf("expected nil text, got %v", *st.Text)
	}
	if st.LocalSID != 0 {
		t.Errorf("expected sid 0, got %v", st.LocalSID)
	}
	if st.Source != nil {
		t.Errorf("expected nil source, got %v", st.Source)
	}
}

func TestNewSymbolTokenFromString(t *testing.T) {
	st := NewSymbolTokenFromString("foo")
	if st.Text == nil || *st.Text != "foo" {
		t.Errorf("expected text foo, got %v", st.Text)
	}
	if st.LocalSID != SymbolIDUnknown {
		t.Errorf("expected %v, got %v", SymbolIDUnknown, st.LocalSID)
	}
}

var symbolTokenEqualsTestData = []struct {
	st1 SymbolToken
	st2 SymbolToken
}{
	{SymbolToken{Text: newString("text1"), LocalSID: 123}, SymbolToken{Text: newString("text1"), LocalSID: 123}},
	{SymbolToken{Text: newString("text2"), LocalSID: 456}, SymbolToken{Text: newString("text2"), LocalSID: SymbolIDUnknown}},
	{SymbolToken{Text: nil, LocalSID: 10}, SymbolToken{Text: nil, LocalSID: 10}},
}

func TestSymbolTokenEquals(t *testing.T) {
	for _, tt := range symbolTokenEqualsTestData {
		if !tt.st1.Equal(tt.st2) {
			t.Errorf("expected %v to equal %v", tt.st1, tt.st2)
		}
		if !tt.st2.Equal(tt.st1) {
			t.Errorf("expected %v to equal %v", tt.st2, tt.st1)
		}
	}
}

var symbolTokenNotEqualsTestData = []struct {
	st1 SymbolToken
	st2 SymbolToken
}{
	{SymbolToken{Text: newString("text1"), LocalSID: 123}, SymbolToken{Text: newString("text2"), LocalSID: 123}},
	{SymbolToken{Text: newString("text1"), LocalSID: 123}, SymbolToken{Text: nil, LocalSID: 123}},
	{SymbolToken{Text: nil, LocalSID: 10}, SymbolToken{Text: nil, LocalSID: 11}},
}

func TestSymbolTokenNotEquals(t *testing.T) {
	for _, tt := range symbolTokenNotEqualsTestData {
		if tt.st1.Equal(tt.st2) {
			t.Errorf("expected %v to not equal %v", tt.st1, tt.st2)
		}
		if tt.st2.Equal(tt.st1) {
			t.Errorf("expected %v to not equal %v", tt.st2, tt.st1)
		}
	}
}

func TestSymbolTokenString(t *testing.T) {
	test := func(st SymbolToken, expected string) {
		t.Run(expected, func(t *testing.T) {
			if actual := st.String(); actual != expected {
				t.Errorf("expected %v, got %v", expected, actual)
			}
		})
	}

	test(SymbolToken{Text: newString("foo"), LocalSID: 10}, `{"foo" 10 nil}`)
	test(SymbolToken{Text: nil, LocalSID: 0}, `{nil 0 nil}`)
	test(
		SymbolToken{Text: newString("bar"), LocalSID: SymbolIDUnknown, Source: &ImportSource{"shared", 2}},
		`{"bar" -1 {"shared" 2}}`)
}

func TestImportSourceEqual(t *testing.T) {
	a := &ImportSource{"table", 1}
	b := &ImportSource{"table", 1}
	c := &ImportSource{"table", 2}

	if !a.Equal(b) {
		t.Errorf("expected %v to equal %v", a, b)
	}
	if a.Equal(c) {
		t.Errorf("expected %v to not equal %v", a, c)
	}
}
