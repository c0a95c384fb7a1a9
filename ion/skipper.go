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
	"io"
)

// SkipContainerContents skips the remaining contents of a container of
// the given type, stopping after its closing delimiter.
func (t *tokenizer) SkipContainerContents(typ Type) error {
	switch typ {
	case StructType:
		return t.skipContainerHelper('}')
	case ListType:
		return t.skipContainerHelper(']')
	case SexpType:
		return t.skipContainerHelper(')')
	default:
		panic(fmt.Sprintf("invalid container type: %v", typ))
	}
}

// SkipDoubleColon skips whitespace and then a '::' token if one is
// present, reporting whether it found one and whether any whitespace
// preceded it.
func (t *tokenizer) SkipDoubleColon() (bool, bool, error) {
	ws, err := t.skipWhitespaceHelper()
	if err != nil {
		return false, false, err
	}

	ok, err := t.skipDoubleColon()
	if err != nil {
		return false, false, err
	}

	return ok, ws, nil
}

// SkipDot consumes a '.' if it is the next character, leaving the input
// untouched otherwise.
func (t *tokenizer) SkipDot() (bool, error) {
	c, err := t.peek()
	if err != nil {
		return false, err
	}
	if c != '.' {
		return false, nil
	}

	_, err = t.read()
	if err != nil {
		return false, err
	}
	return true, nil
}

// SkipLobWhitespace skips whitespace inside a blob or clob, where
// comments are not allowed.
func (t *tokenizer) SkipLobWhitespace() (int, error) {
	c, _, err := t.skipLobWhitespace()
	return c, err
}

// skipValue skips to the end of the current value when the caller did
// not consume it before asking for the next token.
func (t *tokenizer) skipValue() (int, error) {
	var c int
	var err error

	switch t.token {
	case tokenNumber:
		c, err = t.skipNumber()
	case tokenBinary:
		c, err = t.skipRadix(func(c int) bool { return c == 'b' || c == 'B' },
			func(c int) bool { return c == '0' || c == '1' })
	case tokenHex:
		c, err = t.skipRadix(func(c int) bool { return c == 'x' || c == 'X' }, isHexDigit)
	case tokenTimestamp:
		c, err = t.skipTimestamp()
	case tokenSymbol:
		c, err = t.skipSymbol()
	case tokenSymbolQuoted:
		c, err = t.skipSymbolQuoted()
	case tokenSymbolOperator:
		c, err = t.skipSymbolOperator()
	case tokenString:
		c, err = t.skipString()
	case tokenLongString:
		c, err = t.skipLongString()
	case tokenOpenDoubleBrace:
		c, err = t.skipBlob()
	case tokenOpenBrace:
		c, err = t.skipContainer('}')
	case tokenOpenParen:
		c, err = t.skipContainer(')')
	case tokenOpenBracket:
		c, err = t.skipContainer(']')
	default:
		panic(fmt.Sprintf("skipValue called with token=%v", t.token))
	}

	if err != nil {
		return 0, err
	}

	if isWhitespace(c) {
		c, _, err = t.skipWhitespace()
		if err != nil {
			return 0, err
		}
	}

	t.unfinished = false
	return c, nil
}

func (t *tokenizer) skipNumber() (int, error) {
	c, err := t.read()
	if err != nil {
		return 0, err
	}

	if c == '-' {
		c, err = t.read()
		if err != nil {
			return 0, err
		}
	}

	c, err = t.skipDigits(c)
	if err != nil {
		return 0, err
	}

	if c == '.' {
		c, err = t.read()
		if err != nil {
			return 0, err
		}
		c, err = t.skipDigits(c)
		if err != nil {
			return 0, err
		}
	}

	if c == 'd' || c == 'D' || c == 'e' || c == 'E' {
		c, err = t.read()
		if err != nil {
			return 0, err
		}
		if c == '+' || c == '-' {
			c, err = t.read()
			if err != nil {
				return 0, err
			}
		}
		c, err = t.skipDigits(c)
		if err != nil {
			return 0, err
		}
	}

	ok, err := t.isStopChar(c)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, t.invalidChar(c)
	}
	return c, nil
}

func (t *tokenizer) skipRadix(isRadixMarker, isValidForRadix matcher) (int, error) {
	c, err := t.read()
	if err != nil {
		return 0, err
	}

	if c == '-' {
		c, err = t.read()
		if err != nil {
			return 0, err
		}
	}

	if c != '0' {
		return 0, t.invalidChar(c)
	}
	if err = t.expect(isRadixMarker); err != nil {
		return 0, err
	}

	for {
		c, err = t.read()
		if err != nil {
			return 0, err
		}
		if !isValidForRadix(c) {
			break
		}
	}

	ok, err := t.isStopChar(c)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, t.invalidChar(c)
	}

	return c, nil
}

func (t *tokenizer) skipTimestamp() (int, error) {
	// The year.
	c, err := t.skipTimestampDigits(4)
	if err != nil {
		return 0, err
	}
	if c == 'T' {
		// yyyyT
		return t.read()
	}
	if c != '-' {
		return 0, t.invalidChar(c)
	}

	// The month.
	c, err = t.skipTimestampDigits(2)
	if err != nil {
		return 0, err
	}
	if c == 'T' {
		// yyyy-mmT
		return t.read()
	}
	if c != '-' {
		return 0, t.invalidChar(c)
	}

	// The day.
	c, err = t.skipTimestampDigits(2)
	if err != nil {
		return 0, err
	}
	if c != 'T' {
		// yyyy-mm-dd
		return t.skipTimestampFinish(c)
	}

	c, err = t.read()
	if err != nil {
		return 0, err
	}
	if !isDigit(c) {
		// No time, possibly an offset.
		c, err = t.skipTimestampOffset(c)
		if err != nil {
			return 0, err
		}
		return t.skipTimestampFinish(c)
	}

	// The first hour digit was consumed above.
	c, err = t.skipTimestampDigits(1)
	if err != nil {
		return 0, err
	}
	if c != ':' {
		return 0, t.invalidChar(c)
	}

	c, err = t.skipTimestampDigits(2)
	if err != nil {
		return 0, err
	}
	if c != ':' {
		// yyyy-mm-ddThh:mmZ
		c, err = t.skipTimestampOffsetOrZ(c)
		if err != nil {
			return 0, err
		}
		return t.skipTimestampFinish(c)
	}

	c, err = t.skipTimestampDigits(2)
	if err != nil {
		return 0, err
	}
	if c != '.' {
		// yyyy-mm-ddThh:mm:ssZ
		c, err = t.skipTimestampOffsetOrZ(c)
		if err != nil {
			return 0, err
		}
		return t.skipTimestampFinish(c)
	}

	// yyyy-mm-ddThh:mm:ss.ssssZ
	c, err = t.read()
	if err != nil {
		return 0, err
	}
	if isDigit(c) {
		c, err = t.skipDigits(c)
		if err != nil {
			return 0, err
		}
	}

	c, err = t.skipTimestampOffsetOrZ(c)
	if err != nil {
		return 0, err
	}
	return t.skipTimestampFinish(c)
}

func (t *tokenizer) skipTimestampOffsetOrZ(c int) (int, error) {
	if c == '-' || c == '+' {
		return t.skipTimestampOffset(c)
	}
	if c == 'z' || c == 'Z' {
		return t.read()
	}
	return 0, t.invalidChar(c)
}

func (t *tokenizer) skipTimestampOffset(c int) (int, error) {
	if c != '-' && c != '+' {
		return c, nil
	}

	c, err := t.skipTimestampDigits(2)
	if err != nil {
		return 0, err
	}
	if c != ':' {
		return 0, t.invalidChar(c)
	}
	return t.skipTimestampDigits(2)
}

func (t *tokenizer) skipTimestampDigits(n int) (int, error) {
	for n > 0 {
		if err := t.expect(func(c int) bool {
			return isDigit(c)
		}); err != nil {
			return 0, err
		}
		n--
	}

	return t.read()
}

func (t *tokenizer) skipTimestampFinish(c int) (int, error) {
	ok, err := t.isStopChar(c)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, t.invalidChar(c)
	}
	return c, nil
}

func (t *tokenizer) skipSymbol() (int, error) {
	c, err := t.read()
	if err != nil {
		return 0, err
	}

	for isIdentifierPart(c) {
		c, err = t.read()
		if err != nil {
			return 0, err
		}
	}

	return c, nil
}

func (t *tokenizer) skipSymbolQuoted() (int, error) {
	if err := t.skipSymbolQuotedHelper(); err != nil {
		return 0, err
	}
	return t.read()
}

func (t *tokenizer) skipSymbolQuotedHelper() error {
	for {
		c, err := t.read()
		if err != nil {
			return err
		}

		switch c {
		case -1, '\n':
			return t.invalidChar(c)

		case '\'':
			return nil

		case '\\':
			if _, err := t.read(); err != nil {
				return err
			}
		}
	}
}

func (t *tokenizer) skipSymbolOperator() (int, error) {
	c, err := t.read()
	if err != nil {
		return 0, err
	}

	for isOperatorChar(c) {
		c, err = t.read()
		if err != nil {
			return 0, err
		}
	}

	return c, nil
}

func (t *tokenizer) skipString() (int, error) {
	if err := t.skipStringHelper(); err != nil {
		return 0, err
	}
	return t.read()
}

func (t *tokenizer) skipStringHelper() error {
	for {
		c, err := t.read()
		if err != nil {
			return err
		}

		switch c {
		case -1, '\n':
			return t.invalidChar(c)

		case '"':
			return nil

		case '\\':
			if _, err := t.read(); err != nil {
				return err
			}
		}
	}
}

func (t *tokenizer) skipLongString() (int, error) {
	if err := t.skipLongStringHelper(t.skipCommentsHandler); err != nil {
		return 0, err
	}
	return t.read()
}

func (t *tokenizer) skipLongStringHelper(handler commentHandler) error {
	for {
		c, err := t.read()
		if err != nil {
			return err
		}

		switch c {
		case -1:
			return t.invalidChar(c)

		case '\'':
			ok, _, err := t.skipEndOfLongString(handler)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}

		case '\\':
			if _, err = t.read(); err != nil {
				return err
			}
		}
	}
}

// skipEndOfLongString is called after a '\'' to determine whether the
// long string has ended. A closing triple-quote may be followed by
// whitespace and another triple-quote, in which case the string
// continues. The second return value reports whether any quotes were
// consumed.
func (t *tokenizer) skipEndOfLongString(handler commentHandler) (bool, bool, error) {
	consumed := false

	cs, err := t.peekN(2)
	if err != nil && err != io.EOF {
		return false, consumed, err
	}

	if len(cs) < 2 || cs[0] != '\'' || cs[1] != '\'' {
		return false, consumed, nil
	}

	err = t.skipN(2)
	consumed = true
	if err != nil {
		return false, consumed, err
	}

	// Track the whitespace skipped while looking for another segment so
	// it can be put back if the string turns out to be over. Skipped
	// comments cannot be replayed, but they read as whitespace anyway.
	var ws []int
	var c int
loop:
	for {
		c, err = t.read()
		if err != nil {
			return false, consumed, err
		}

		switch c {
		case ' ', '\t', '\n', '\r':
			ws = append(ws, c)
		case '/':
			comment, cerr := handler()
			if cerr != nil {
				return false, consumed, cerr
			}
			if !comment {
				break loop
			}
			ws = nil
		default:
			break loop
		}
	}

	if c == '\'' {
		ok, err := t.IsTripleQuote()
		if err != nil {
			return false, consumed, err
		}
		if ok {
			return false, consumed, nil
		}
	}

	t.unread(c)
	for i := len(ws) - 1; i >= 0; i-- {
		t.unread(ws[i])
	}
	return true, consumed, nil
}

func (t *tokenizer) skipBlob() (int, error) {
	if err := t.skipBlobHelper(); err != nil {
		return 0, err
	}
	return t.read()
}

func (t *tokenizer) skipBlobHelper() error {
	c, _, err := t.skipLobWhitespace()
	if err != nil {
		return err
	}

	for c != '}' {
		c, _, err = t.skipLobWhitespace()
		if err != nil {
			return err
		}
		if c == -1 {
			return t.invalidChar(c)
		}
	}

	return t.expect(func(c int) bool {
		return c == '}'
	})
}

func (t *tokenizer) skipContainer(term int) (int, error) {
	if err := t.skipContainerHelper(term); err != nil {
		return 0, err
	}
	return t.read()
}

// skipContainerHelper skips past a container terminated by the given
// character, tracking nested containers, strings, and lobs along the way.
func (t *tokenizer) skipContainerHelper(term int) error {
	if term != ']' && term != ')' && term != '}' {
		panic(fmt.Sprintf("unexpected character: %q. Expected one of the closing container characters: ] } )", term))
	}

	for {
		c, _, err := t.skipWhitespace()
		if err != nil {
			return err
		}

		switch c {
		case -1:
			return t.invalidChar(c)

		case term:
			return nil

		case '"':
			if err := t.skipStringHelper(); err != nil {
				return err
			}

		case '\'':
			ok, err := t.IsTripleQuote()
			if err != nil {
				return err
			}
			if ok {
				if err = t.skipLongStringHelper(t.skipCommentsHandler); err != nil {
					return err
				}
			} else {
				if err = t.skipSymbolQuotedHelper(); err != nil {
					return err
				}
			}

		case '(':
			if err := t.skipContainerHelper(')'); err != nil {
				return err
			}

		case '[':
			if err := t.skipContainerHelper(']'); err != nil {
				return err
			}

		case '{':
			c, err := t.peek()
			if err != nil {
				return err
			}

			if c == '{' {
				if _, err := t.read(); err != nil {
					return err
				}
				if err := t.skipBlobHelper(); err != nil {
					return err
				}
			} else if c == '}' {
				if _, err := t.read(); err != nil {
					return err
				}
			} else {
				if err := t.skipContainerHelper('}'); err != nil {
					return err
				}
			}
		}
	}
}

func (t *tokenizer) skipDigits(c int) (int, error) {
	var err error
	for err == nil && isDigit(c) {
		c, err = t.read()
	}
	return c, err
}

func (t *tokenizer) skipWhitespace() (int, bool, error) {
	return t.skipWhitespaceWith(t.skipCommentsHandler)
}

// skipWhitespaceHelper is a form of skipWhitespace that unreads the
// first non-whitespace character instead of returning it.
func (t *tokenizer) skipWhitespaceHelper() (bool, error) {
	c, ok, err := t.skipWhitespace()
	if err != nil {
		return false, err
	}
	t.unread(c)
	return ok, err
}

func (t *tokenizer) skipLobWhitespace() (int, bool, error) {
	// A '/' inside a lob is base64 text, never a comment.
	return t.skipWhitespaceWith(stopForCommentsHandler)
}

// A commentHandler decides what to do about a potential comment after a
// '/': skip it, stop, or reject it. It reports whether it found and
// handled a comment.
type commentHandler func() (bool, error)

// skipWhitespaceWith skips whitespace using the given comment strategy,
// returning the first non-whitespace character and whether anything was
// actually skipped.
func (t *tokenizer) skipWhitespaceWith(handler commentHandler) (int, bool, error) {
	skipped := false
	for {
		c, err := t.read()
		if err != nil {
			return 0, skipped, err
		}

		switch c {
		case ' ', '\t', '\n', '\r':

		case '/':
			comment, err := handler()
			if err != nil {
				return 0, skipped, err
			}
			if !comment {
				return '/', skipped, nil
			}

		default:
			return c, skipped, nil
		}
		skipped = true
	}
}

// stopForCommentsHandler treats a '/' as an ordinary character.
func stopForCommentsHandler() (bool, error) {
	return false, nil
}

// ensureNoCommentsHandler rejects comments outright; clobs may not
// contain them.
func (t *tokenizer) ensureNoCommentsHandler() (bool, error) {
	return false, &UnexpectedTokenError{"comments are not allowed within a clob", t.Pos() - 1}
}

// skipCommentsHandler peeks past a '/' and skips the comment if there
// is one.
func (t *tokenizer) skipCommentsHandler() (bool, error) {
	c, err := t.peek()
	if err != nil {
		return false, err
	}

	switch c {
	case '/':
		return true, t.skipSingleLineComment()
	case '*':
		return true, t.skipBlockComment()
	default:
		return false, nil
	}
}

func (t *tokenizer) skipSingleLineComment() error {
	for {
		c, err := t.read()
		if err != nil {
			return err
		}

		if c == -1 || c == '\n' {
			return nil
		}
	}
}

func (t *tokenizer) skipBlockComment() error {
	star := false
	for {
		c, err := t.read()
		if err != nil {
			return err
		}
		if c == -1 {
			return t.invalidChar(c)
		}

		if star && c == '/' {
			return nil
		}

		star = c == '*'
	}
}

func (t *tokenizer) skipDoubleColon() (bool, error) {
	cs, err := t.peekN(2)
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if cs[0] == ':' && cs[1] == ':' {
		err = t.skipN(2)
		if err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}
