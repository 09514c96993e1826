// Package css provides selector parsing and matching for delegation-style
// queries: selector lists with descendant and child combinators over type,
// id, class, and attribute simple selectors. Tokenization follows CSS Syntax
// Module Level 3 for the token types this grammar uses.
// Reference: https://www.w3.org/TR/css-syntax-3/
package css

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents the type of a selector token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenHash
	TokenString
	TokenDelim
	TokenWhitespace
	TokenComma
	TokenOpenSquare  // [
	TokenCloseSquare // ]
)

// HashType indicates whether a hash token is an ID or unrestricted.
type HashType int

const (
	HashUnrestricted HashType = iota
	HashID
)

// Token represents a selector token.
type Token struct {
	Type     TokenType
	Value    string   // The string value of the token
	HashType HashType // Type flag for hash tokens
	Delim    rune     // The delimiter character for delim tokens
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "<EOF>"
	case TokenIdent:
		return fmt.Sprintf("<IDENT %q>", t.Value)
	case TokenHash:
		if t.HashType == HashID {
			return fmt.Sprintf("<HASH id %q>", t.Value)
		}
		return fmt.Sprintf("<HASH %q>", t.Value)
	case TokenString:
		return fmt.Sprintf("<STRING %q>", t.Value)
	case TokenDelim:
		return fmt.Sprintf("<DELIM %q>", string(t.Delim))
	case TokenWhitespace:
		return "<WHITESPACE>"
	case TokenComma:
		return "<COMMA>"
	case TokenOpenSquare:
		return "<[>"
	case TokenCloseSquare:
		return "<]>"
	default:
		return fmt.Sprintf("<UNKNOWN %d>", t.Type)
	}
}

// Tokenizer tokenizes selector input.
type Tokenizer struct {
	input []rune
	pos   int
}

// NewTokenizer creates a new selector tokenizer.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: []rune(input)}
}

// peek returns the current code point without consuming it.
func (t *Tokenizer) peek() rune {
	if t.pos >= len(t.input) {
		return -1 // EOF
	}
	return t.input[t.pos]
}

// peekN returns the code point at offset n from current position.
func (t *Tokenizer) peekN(n int) rune {
	pos := t.pos + n
	if pos >= len(t.input) || pos < 0 {
		return -1
	}
	return t.input[pos]
}

// consume consumes and returns the current code point.
func (t *Tokenizer) consume() rune {
	if t.pos >= len(t.input) {
		return -1
	}
	r := t.input[t.pos]
	t.pos++
	return r
}

// reconsume backs up one code point.
func (t *Tokenizer) reconsume() {
	if t.pos > 0 {
		t.pos--
	}
}

// isWhitespace returns true if r is a CSS whitespace character.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

// isDigit returns true if r is a digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isHexDigit returns true if r is a hex digit.
func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// isLetter returns true if r is a letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isNameStartCodePoint returns true if r can start an identifier.
func isNameStartCodePoint(r rune) bool {
	return isLetter(r) || r >= 0x80 || r == '_'
}

// isNameCodePoint returns true if r can be part of an identifier.
func isNameCodePoint(r rune) bool {
	return isNameStartCodePoint(r) || isDigit(r) || r == '-'
}

// startsWithValidEscape checks if the next two code points are a valid escape.
func (t *Tokenizer) startsWithValidEscape() bool {
	return t.peek() == '\\' && t.peekN(1) != '\n'
}

// startsIdentifier checks if the next code points would start an identifier.
func (t *Tokenizer) startsIdentifier() bool {
	first := t.peek()
	if isNameStartCodePoint(first) {
		return true
	}
	if first == '-' {
		second := t.peekN(1)
		return isNameStartCodePoint(second) || second == '-' ||
			(second == '\\' && t.peekN(2) != '\n')
	}
	if first == '\\' {
		return t.startsWithValidEscape()
	}
	return false
}

// consumeEscape consumes an escape sequence and returns the code point.
// Assumes the backslash has already been consumed.
func (t *Tokenizer) consumeEscape() rune {
	r := t.consume()
	if r == -1 {
		return '�'
	}
	if isHexDigit(r) {
		hex := string(r)
		for i := 0; i < 5 && isHexDigit(t.peek()); i++ {
			hex += string(t.consume())
		}
		if isWhitespace(t.peek()) {
			t.consume()
		}
		val, _ := strconv.ParseInt(hex, 16, 32)
		if val == 0 || val > 0x10FFFF || (val >= 0xD800 && val <= 0xDFFF) {
			return '�'
		}
		return rune(val)
	}
	return r
}

// consumeName consumes an identifier and returns the string.
func (t *Tokenizer) consumeName() string {
	var result strings.Builder
	for {
		r := t.consume()
		if isNameCodePoint(r) {
			result.WriteRune(r)
		} else if r == '\\' && t.peek() != '\n' {
			result.WriteRune(t.consumeEscape())
		} else {
			if r != -1 {
				t.reconsume()
			}
			return result.String()
		}
	}
}

// consumeString consumes a string token.
func (t *Tokenizer) consumeString(endChar rune) Token {
	var result strings.Builder
	for {
		r := t.consume()
		switch {
		case r == endChar || r == -1:
			return Token{Type: TokenString, Value: result.String()}
		case r == '\n':
			t.reconsume()
			return Token{Type: TokenDelim, Delim: '\n'}
		case r == '\\':
			next := t.peek()
			if next == -1 {
				continue
			}
			if next == '\n' {
				t.consume()
			} else {
				result.WriteRune(t.consumeEscape())
			}
		default:
			result.WriteRune(r)
		}
	}
}

// consumeHashToken consumes a hash token.
func (t *Tokenizer) consumeHashToken() Token {
	t.consume() // #

	if isNameCodePoint(t.peek()) || t.startsWithValidEscape() {
		hashType := HashUnrestricted
		if t.startsIdentifier() {
			hashType = HashID
		}
		return Token{Type: TokenHash, Value: t.consumeName(), HashType: hashType}
	}
	return Token{Type: TokenDelim, Delim: '#'}
}

// NextToken returns the next token from the input.
func (t *Tokenizer) NextToken() Token {
	r := t.consume()

	switch {
	case r == -1:
		return Token{Type: TokenEOF}

	case isWhitespace(r):
		for isWhitespace(t.peek()) {
			t.consume()
		}
		return Token{Type: TokenWhitespace}

	case r == '"' || r == '\'':
		return t.consumeString(r)

	case r == '#':
		t.reconsume()
		return t.consumeHashToken()

	case r == ',':
		return Token{Type: TokenComma}

	case r == '[':
		return Token{Type: TokenOpenSquare}

	case r == ']':
		return Token{Type: TokenCloseSquare}

	case r == '\\':
		if t.peek() != '\n' {
			t.reconsume()
			return Token{Type: TokenIdent, Value: t.consumeName()}
		}
		return Token{Type: TokenDelim, Delim: r}

	case r == '-':
		if t.startsIdentifier() {
			t.reconsume()
			return Token{Type: TokenIdent, Value: t.consumeName()}
		}
		return Token{Type: TokenDelim, Delim: r}

	case isNameStartCodePoint(r):
		t.reconsume()
		return Token{Type: TokenIdent, Value: t.consumeName()}

	default:
		return Token{Type: TokenDelim, Delim: r}
	}
}

// TokenizeAll tokenizes the entire input and returns all tokens.
func (t *Tokenizer) TokenizeAll() []Token {
	var tokens []Token
	for {
		tok := t.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return tokens
}
