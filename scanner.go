package asciidag

import (
	"bufio"
	"io"

	"github.com/dagview/asciidag/token"
)

// Scanner tokenizes an ASCII DAG drawing one glyph at a time. Unlike a language tokenizer it
// never accumulates runs of ordinary characters into a single token: the [Parser] is the one
// that decides where a label begins and ends. The Scanner's only job is to classify each rune
// and track its position.
type Scanner struct {
	r         *bufio.Reader
	cur       rune
	curLine   int
	curColumn int
	eof       bool
	err       error
}

// NewScanner creates a scanner reading glyphs from r.
func NewScanner(r io.Reader) (*Scanner, error) {
	sc := &Scanner{
		r:       bufio.NewReader(r),
		curLine: 1,
	}
	if err := sc.readRune(); err != nil {
		return nil, err
	}
	sc.curColumn = 1
	return sc, nil
}

func (sc *Scanner) readRune() error {
	r, _, err := sc.r.ReadRune()
	if err == io.EOF {
		sc.eof = true
		sc.cur = 0
		return nil
	} else if err != nil {
		sc.err = err
		return err
	}
	sc.cur = r
	return nil
}

// Next advances the scanner by one glyph and returns it. A token of kind [token.EOF] is returned
// once the underlying reader is exhausted; no token follows it.
func (sc *Scanner) Next() (token.Token, error) {
	if sc.err != nil {
		return token.Token{}, sc.err
	}
	pos := token.Position{Line: sc.curLine, Column: sc.curColumn}
	if sc.eof {
		return token.Token{Kind: token.EOF, Pos: pos}, nil
	}

	r := sc.cur
	var kind token.Kind
	switch r {
	case ' ':
		kind = token.Space
	case '\n':
		kind = token.NL
	case '|':
		kind = token.Pipe
	case '/':
		kind = token.Slash
	case '\\':
		kind = token.Backslash
	case 'X':
		kind = token.Cross
	default:
		kind = token.Label
	}
	tok := token.Token{Kind: kind, Literal: r, Pos: pos}

	if err := sc.readRune(); err != nil {
		return token.Token{}, err
	}
	if r == '\n' {
		sc.curLine++
		sc.curColumn = 1
	} else {
		sc.curColumn++
	}
	return tok, nil
}
