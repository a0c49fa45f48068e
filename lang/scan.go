package lang

import (
	"log/slog"
	"math/big"
	"strings"
)

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenSymbol
	tokenOpen
	tokenClose
)

type token struct {
	kind tokenKind
	loc  Location
	lit  Value
	sym  string
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSymbolStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSymbolPart(c byte) bool { return isSymbolStart(c) || isDigit(c) }

func isRadixDigit(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	case 16:
		return isDigit(c) ||
			(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	default:
		return isDigit(c)
	}
}

// scan splits an expression source string into tokens. Literals are
// converted to values here; structure is left to the parser.
func scan(text string) ([]token, error) {
	var toks []token

	for off := 0; off < len(text); {
		c := text[off]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			off++

		case c == '(':
			toks = append(toks, token{
				kind: tokenOpen,
				loc:  Location{Source: text, Start: off, Len: 1},
			})
			off++

		case c == ')':
			toks = append(toks, token{
				kind: tokenClose,
				loc:  Location{Source: text, Start: off, Len: 1},
			})
			off++

		case isDigit(c),
			(c == '+' || c == '-') && off+1 < len(text) && isDigit(text[off+1]):
			tok, n, err := scanNumber(text, off)
			if err != nil {
				return nil, err
			}

			toks = append(toks, tok)
			off += n

		case isSymbolStart(c):
			end := off + 1
			for end < len(text) && isSymbolPart(text[end]) {
				end++
			}

			toks = append(toks, scanWord(text, off, end))
			off = end

		default:
			return nil, ErrSyntax.
				With(slog.String("character", string(rune(c)))).
				At(Location{Source: text, Start: off, Len: 1})
		}
	}

	return toks, nil
}

// scanWord classifies an identifier-shaped token: the keywords true and
// false are boolean literals, anything else is a symbol.
func scanWord(text string, start, end int) token {
	loc := Location{Source: text, Start: start, Len: end - start}

	switch word := text[start:end]; word {
	case "true", "false":
		return token{kind: tokenLiteral, loc: loc, lit: BoolValue(word == "true")}
	default:
		return token{kind: tokenSymbol, loc: loc, sym: word}
	}
}

// scanNumber scans an integer literal starting at off: an optional sign
// followed by decimal digits, or a 0b/0o/0x radix form. Underscore digit
// separators are permitted anywhere between digits.
func scanNumber(text string, off int) (token, int, error) {
	pos := off
	negative := false

	if text[pos] == '+' || text[pos] == '-' {
		negative = text[pos] == '-'
		pos++
	}

	base := 10

	if text[pos] == '0' && pos+1 < len(text) {
		switch text[pos+1] {
		case 'b', 'B':
			base, pos = 2, pos+2
		case 'o', 'O':
			base, pos = 8, pos+2
		case 'x', 'X':
			base, pos = 16, pos+2
		}
	}

	start := pos
	for pos < len(text) && (text[pos] == '_' || isRadixDigit(text[pos], base)) {
		pos++
	}

	loc := Location{Source: text, Start: off, Len: pos - off}

	digits := strings.ReplaceAll(text[start:pos], "_", "")
	if digits == "" {
		return token{}, 0, ErrSyntax.
			With(slog.String("literal", text[off:pos])).
			At(loc)
	}

	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return token{}, 0, ErrSyntax.
			With(slog.String("literal", text[off:pos])).
			At(loc)
	}

	if negative {
		n.Neg(n)
	}

	if n.Cmp(minInt128) < 0 || n.Cmp(maxInt128) > 0 {
		return token{}, 0, ErrOverflow.
			With(slog.String("literal", text[off:pos])).
			At(loc)
	}

	return token{kind: tokenLiteral, loc: loc, lit: IntValue(n)}, pos - off, nil
}
