package css

import (
	"fmt"
	"strings"
)

// Selector represents a parsed selector: a list of complex selectors
// separated by commas.
type Selector struct {
	Complexes []*ComplexSelector
}

// ComplexSelector is a chain of compound selectors separated by combinators.
type ComplexSelector struct {
	Compounds []*CompoundSelector
}

// CompoundSelector is a sequence of simple selectors applying to one element.
// Combinator is the combinator between this compound and the next one in the
// chain, CombinatorNone for the last compound.
type CompoundSelector struct {
	Type       string // tag name, "*" for universal, "" when absent
	IDs        []string
	Classes    []string
	Attrs      []*AttrMatcher
	Combinator Combinator
}

// Combinator represents the type of combinator.
type Combinator int

const (
	CombinatorNone       Combinator = iota
	CombinatorDescendant            // (whitespace)
	CombinatorChild                 // >
)

// AttrMatcher represents an attribute selector.
type AttrMatcher struct {
	Name     string
	Operator AttrOperator
	Value    string
}

// AttrOperator represents the operator in an attribute selector.
type AttrOperator int

const (
	AttrExists    AttrOperator = iota // [attr]
	AttrEquals                        // [attr=value]
	AttrIncludes                      // [attr~=value]
	AttrPrefix                        // [attr^=value]
	AttrSuffix                        // [attr$=value]
	AttrSubstring                     // [attr*=value]
)

// SelectorParser parses selectors from a token stream.
type SelectorParser struct {
	tokens []Token
	pos    int
}

// ParseSelector parses a selector string. Selectors outside the supported
// grammar (pseudo-classes, sibling combinators, namespaces) return an error.
func ParseSelector(input string) (*Selector, error) {
	tokenizer := NewTokenizer(input)
	parser := &SelectorParser{tokens: tokenizer.TokenizeAll()}
	return parser.parseSelectorList()
}

func (p *SelectorParser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *SelectorParser) consume() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *SelectorParser) skipWhitespace() bool {
	skipped := false
	for p.current().Type == TokenWhitespace {
		p.consume()
		skipped = true
	}
	return skipped
}

// parseSelectorList parses a comma-separated selector list.
func (p *SelectorParser) parseSelectorList() (*Selector, error) {
	selector := &Selector{}

	p.skipWhitespace()

	for {
		complex, err := p.parseComplexSelector()
		if err != nil {
			return nil, err
		}
		if complex == nil {
			return nil, fmt.Errorf("css: empty selector")
		}
		selector.Complexes = append(selector.Complexes, complex)

		p.skipWhitespace()

		switch p.current().Type {
		case TokenComma:
			p.consume()
			p.skipWhitespace()
		case TokenEOF:
			return selector, nil
		default:
			return nil, fmt.Errorf("css: unexpected token %s", p.current())
		}
	}
}

// parseComplexSelector parses a chain of compounds joined by combinators.
func (p *SelectorParser) parseComplexSelector() (*ComplexSelector, error) {
	complex := &ComplexSelector{}

	for {
		compound, err := p.parseCompoundSelector()
		if err != nil {
			return nil, err
		}
		if compound == nil {
			if len(complex.Compounds) > 0 {
				// A combinator was consumed but no compound followed
				return nil, fmt.Errorf("css: dangling combinator")
			}
			return nil, nil
		}
		complex.Compounds = append(complex.Compounds, compound)

		hadWhitespace := p.skipWhitespace()

		tok := p.current()
		if tok.Type == TokenDelim && tok.Delim == '>' {
			p.consume()
			compound.Combinator = CombinatorChild
			p.skipWhitespace()
			continue
		}
		if tok.Type == TokenDelim && (tok.Delim == '+' || tok.Delim == '~') {
			return nil, fmt.Errorf("css: unsupported combinator %q", string(tok.Delim))
		}
		if tok.Type == TokenEOF || tok.Type == TokenComma {
			return complex, nil
		}
		if hadWhitespace {
			compound.Combinator = CombinatorDescendant
			continue
		}
		return nil, fmt.Errorf("css: unexpected token %s", tok)
	}
}

// parseCompoundSelector parses one compound selector, or returns nil when
// the current token cannot start one.
func (p *SelectorParser) parseCompoundSelector() (*CompoundSelector, error) {
	compound := &CompoundSelector{}
	hasContent := false

	// Type selector comes first if present
	tok := p.current()
	if tok.Type == TokenIdent {
		compound.Type = strings.ToLower(p.consume().Value)
		hasContent = true
	} else if tok.Type == TokenDelim && tok.Delim == '*' {
		p.consume()
		compound.Type = "*"
		hasContent = true
	}

	for {
		tok := p.current()
		switch {
		case tok.Type == TokenHash:
			if tok.HashType != HashID {
				return nil, fmt.Errorf("css: invalid id selector")
			}
			p.consume()
			compound.IDs = append(compound.IDs, tok.Value)
			hasContent = true

		case tok.Type == TokenDelim && tok.Delim == '.':
			p.consume()
			if p.current().Type != TokenIdent {
				return nil, fmt.Errorf("css: expected class name after '.'")
			}
			compound.Classes = append(compound.Classes, p.consume().Value)
			hasContent = true

		case tok.Type == TokenOpenSquare:
			attr, err := p.parseAttributeSelector()
			if err != nil {
				return nil, err
			}
			compound.Attrs = append(compound.Attrs, attr)
			hasContent = true

		case tok.Type == TokenDelim && tok.Delim == ':':
			return nil, fmt.Errorf("css: pseudo-classes are not supported")

		default:
			if !hasContent {
				return nil, nil
			}
			return compound, nil
		}
	}
}

// parseAttributeSelector parses one [attr], [attr=value] style matcher.
func (p *SelectorParser) parseAttributeSelector() (*AttrMatcher, error) {
	p.consume() // [
	p.skipWhitespace()

	if p.current().Type != TokenIdent {
		return nil, fmt.Errorf("css: expected attribute name")
	}
	attr := &AttrMatcher{Name: strings.ToLower(p.consume().Value)}

	p.skipWhitespace()

	tok := p.current()
	if tok.Type == TokenCloseSquare {
		p.consume()
		attr.Operator = AttrExists
		return attr, nil
	}

	if tok.Type != TokenDelim {
		return nil, fmt.Errorf("css: unexpected token %s in attribute selector", tok)
	}
	switch tok.Delim {
	case '=':
		p.consume()
		attr.Operator = AttrEquals
	case '~', '^', '$', '*':
		p.consume()
		eq := p.current()
		if eq.Type != TokenDelim || eq.Delim != '=' {
			return nil, fmt.Errorf("css: expected '=' after %q", string(tok.Delim))
		}
		p.consume()
		switch tok.Delim {
		case '~':
			attr.Operator = AttrIncludes
		case '^':
			attr.Operator = AttrPrefix
		case '$':
			attr.Operator = AttrSuffix
		case '*':
			attr.Operator = AttrSubstring
		}
	default:
		return nil, fmt.Errorf("css: unexpected %q in attribute selector", string(tok.Delim))
	}

	p.skipWhitespace()

	tok = p.current()
	if tok.Type != TokenString && tok.Type != TokenIdent {
		return nil, fmt.Errorf("css: expected attribute value")
	}
	attr.Value = p.consume().Value

	p.skipWhitespace()

	if p.current().Type != TokenCloseSquare {
		return nil, fmt.Errorf("css: unterminated attribute selector")
	}
	p.consume()

	return attr, nil
}
