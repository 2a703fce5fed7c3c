// Package pointer implements immutable JSON pointers (RFC 6901) made of typed
// reference tokens.
//
// A token is either an object key or an array index. Keeping the distinction
// around (instead of re-parsing strings) matters when renumbering array
// positions: the object key "3" must never be shifted.
package pointer

import (
	"fmt"
	"strconv"
	"strings"
)

// Token is a single reference token of a Pointer.
type Token struct {
	key     string
	index   int
	isIndex bool
}

// KeyToken returns a token that addresses an object field.
func KeyToken(key string) Token {
	return Token{key: key}
}

// IndexToken returns a token that addresses an array element.
func IndexToken(idx int) Token {
	return Token{index: idx, isIndex: true}
}

// IsIndex reports whether the token addresses an array element.
func (t Token) IsIndex() bool {
	return t.isIndex
}

// Index returns the array index. It is only meaningful when IsIndex is true.
func (t Token) Index() int {
	return t.index
}

// Key returns the object key. For index tokens this is the decimal index.
func (t Token) Key() string {
	if t.isIndex {
		return strconv.Itoa(t.index)
	}
	return t.key
}

func (t Token) String() string {
	return escaper.Replace(t.Key())
}

var escaper = strings.NewReplacer("~", "~0", "/", "~1")
var unescaper = strings.NewReplacer("~1", "/", "~0", "~")

// Pointer identifies a location inside a document. The zero value is the root.
// Pointers are never modified in place; every constructor returns a new value.
type Pointer struct {
	tokens []Token
}

// Root is the pointer to the whole document.
var Root = Pointer{}

// Parse parses the string form of a pointer. Tokens which are valid array
// indices are parsed as index tokens.
func Parse(s string) (Pointer, error) {
	if s == "" {
		return Root, nil
	}
	if s[0] != '/' {
		return Root, fmt.Errorf("invalid pointer %q: must start with /", s)
	}

	parts := strings.Split(s[1:], "/")
	tokens := make([]Token, 0, len(parts))
	for _, part := range parts {
		if !validEscapes(part) {
			return Root, fmt.Errorf("invalid pointer %q: bad escape in %q", s, part)
		}
		key := unescaper.Replace(part)
		if idx, ok := parseIndex(key); ok {
			tokens = append(tokens, IndexToken(idx))
		} else {
			tokens = append(tokens, KeyToken(key))
		}
	}
	return Pointer{tokens: tokens}, nil
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) Pointer {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Every ~ must be followed by 0 or 1.
func validEscapes(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '~' {
			continue
		}
		if i+1 >= len(s) || (s[i+1] != '0' && s[i+1] != '1') {
			return false
		}
		i++
	}
	return true
}

func parseIndex(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return idx, true
}

// Append returns a new pointer with the token added at the end.
func (p Pointer) Append(t Token) Pointer {
	tokens := make([]Token, len(p.tokens)+1)
	copy(tokens, p.tokens)
	tokens[len(p.tokens)] = t
	return Pointer{tokens: tokens}
}

// AppendKey returns a new pointer addressing the field key below p.
func (p Pointer) AppendKey(key string) Pointer {
	return p.Append(KeyToken(key))
}

// AppendIndex returns a new pointer addressing the element idx below p.
func (p Pointer) AppendIndex(idx int) Pointer {
	return p.Append(IndexToken(idx))
}

// Len returns the number of tokens.
func (p Pointer) Len() int {
	return len(p.tokens)
}

// IsRoot reports whether p points to the whole document.
func (p Pointer) IsRoot() bool {
	return len(p.tokens) == 0
}

// Get returns the token at position i.
func (p Pointer) Get(i int) Token {
	return p.tokens[i]
}

// Last returns the final token. It panics on the root pointer.
func (p Pointer) Last() Token {
	return p.tokens[len(p.tokens)-1]
}

// Tokens returns a copy of the tokens.
func (p Pointer) Tokens() []Token {
	tokens := make([]Token, len(p.tokens))
	copy(tokens, p.tokens)
	return tokens
}

// WithIndex returns a new pointer where the token at position i is replaced
// by the array index idx.
func (p Pointer) WithIndex(i int, idx int) Pointer {
	tokens := p.Tokens()
	tokens[i] = IndexToken(idx)
	return Pointer{tokens: tokens}
}

// Equal compares two pointers token by token.
func (p Pointer) Equal(other Pointer) bool {
	if len(p.tokens) != len(other.tokens) {
		return false
	}
	for i, t := range p.tokens {
		if t != other.tokens[i] {
			return false
		}
	}
	return true
}

// Shorter orders pointers by length only.
func (p Pointer) Shorter(other Pointer) bool {
	return len(p.tokens) < len(other.tokens)
}

func (p Pointer) String() string {
	var sb strings.Builder
	for _, t := range p.tokens {
		sb.WriteByte('/')
		sb.WriteString(t.String())
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p Pointer) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pointer) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
