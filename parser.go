package asciidag

import (
	"strings"

	"github.com/dagview/asciidag/dag"
	"github.com/dagview/asciidag/internal/assert"
	"github.com/dagview/asciidag/token"
)

// edgesInFlight tracks, per column, which nodes own an edge crossing the boundary between two
// lines, separated by the angle the edge left the upper line at. The split matters because a
// glyph's column alone does not say where the edge continues: a '\' in column c is picked up one
// column further right than a '|' in column c. Keeping straight, left-leaning and right-leaning
// edges apart (and node labels apart from all three) lets each glyph look up exactly the cells
// that can feed it.
type edgesInFlight struct {
	straight map[int][]int // '|' in column c, continuing in column c
	left     map[int][]int // '/' in column c, continuing in column c-1
	right    map[int][]int // '\' in column c, continuing in column c+1
	nodes    map[int][]int // node label covering column c
}

func newEdgesInFlight() edgesInFlight {
	return edgesInFlight{
		straight: map[int][]int{},
		left:     map[int][]int{},
		right:    map[int][]int{},
		nodes:    map[int][]int{},
	}
}

// Parser reconstructs a [dag.DAG] from an ASCII drawing. It scans the input one glyph at a time,
// carrying the previous line's in-flight edges forward into the current line — a single pass
// with no lookahead and no backtracking.
type Parser struct {
	scanner *Scanner

	dag *dag.DAG

	prev edgesInFlight
	cur  edgesInFlight

	label    strings.Builder
	labelCol int // column where the pending label started, valid only while label is non-empty
}

// NewParser creates a parser reading the ASCII drawing text.
func NewParser(text string) (*Parser, error) {
	sc, err := NewScanner(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	return &Parser{
		scanner: sc,
		dag:     dag.New(),
		prev:    newEdgesInFlight(),
		cur:     newEdgesInFlight(),
	}, nil
}

// Parse consumes the entire input and returns the reconstructed DAG, or the first
// [ParseError] encountered.
func (p *Parser) Parse() (*dag.DAG, error) {
	for {
		tok, err := p.scanner.Next()
		if err != nil {
			return nil, &ParseError{Code: ParseErrorUnexpectedGlyph, Msg: err.Error(), Pos: tok.Pos}
		}

		switch tok.Kind {
		case token.EOF:
			if perr := p.finalizeLabel(); perr != nil {
				return nil, perr
			}
			return p.dag, nil
		case token.Label:
			if p.label.Len() == 0 {
				p.labelCol = tok.Pos.Column
			}
			p.label.WriteRune(tok.Literal)
		case token.Space:
			if perr := p.finalizeLabel(); perr != nil {
				return nil, perr
			}
		case token.NL:
			if perr := p.finalizeLabel(); perr != nil {
				return nil, perr
			}
			p.prev = p.cur
			p.cur = newEdgesInFlight()
		default:
			assert.That(tok.Kind.IsReserved(), "scanner produced unclassified token %s at %s", tok.Kind, tok.Pos)
			if p.label.Len() > 0 {
				return nil, &ParseError{
					Code: ParseErrorAmbiguousLabel,
					Msg:  "label \"" + p.label.String() + "\" runs into the edge glyph '" + string(tok.Literal) + "'",
					Pos:  tok.Pos,
				}
			}
			if perr := p.edgeGlyph(tok); perr != nil {
				return nil, perr
			}
		}
	}
}

// edgeGlyph continues in-flight edges through one of '|', '/', '\' or 'X'.
func (p *Parser) edgeGlyph(tok token.Token) *ParseError {
	c := tok.Pos.Column
	switch tok.Kind {
	case token.Pipe:
		if len(p.prev.right[c]) > 0 && len(p.prev.left[c]) > 0 {
			// Directly below an 'X' both crossing edges are in reach; a '|' cannot say which of
			// the two it continues.
			return &ParseError{
				Code: ParseErrorUnexpectedGlyph,
				Msg:  "'|' directly below a crossing could continue either edge",
				Pos:  tok.Pos,
			}
		}
		ids := firstOf(p.prev.right[c], p.prev.left[c], p.prev.straight[c], p.prev.nodes[c])
		if ids == nil {
			return p.dangling(tok)
		}
		p.cur.straight[c] = append(p.cur.straight[c], ids...)
	case token.Backslash:
		ids := firstOf(p.prev.right[c-1], p.prev.straight[c], p.prev.nodes[c-1])
		if ids == nil {
			return p.dangling(tok)
		}
		p.cur.right[c] = append(p.cur.right[c], ids...)
	case token.Slash:
		ids := firstOf(p.prev.left[c+1], p.prev.straight[c], p.prev.nodes[c+1])
		if ids == nil {
			if c-1 < 1 {
				return &ParseError{
					Code: ParseErrorUnexpectedGlyph,
					Msg:  "'/' would continue outside the canvas",
					Pos:  tok.Pos,
				}
			}
			return p.dangling(tok)
		}
		p.cur.left[c] = append(p.cur.left[c], ids...)
	case token.Cross:
		if c-1 < 1 {
			return &ParseError{
				Code: ParseErrorUnexpectedGlyph,
				Msg:  "'X' would continue outside the canvas",
				Pos:  tok.Pos,
			}
		}
		rightward := firstOf(p.prev.right[c-1], p.prev.nodes[c-1])
		leftward := firstOf(p.prev.left[c+1], p.prev.nodes[c+1])
		vertical := p.prev.straight[c]
		if rightward == nil && len(vertical) > 0 {
			rightward, vertical = vertical, nil
		}
		if leftward == nil && len(vertical) > 0 {
			leftward, vertical = vertical, nil
		}
		if len(vertical) > 0 {
			return &ParseError{
				Code: ParseErrorUnexpectedGlyph,
				Msg:  "'X' joins more than two edges",
				Pos:  tok.Pos,
			}
		}
		if rightward == nil || leftward == nil {
			return p.dangling(tok)
		}
		// The crossing swaps the edges in space while each keeps its trend: the one heading
		// right stays on course toward higher columns, the one heading left toward lower.
		p.cur.right[c] = append(p.cur.right[c], rightward...)
		p.cur.left[c] = append(p.cur.left[c], leftward...)
	}
	return nil
}

func (p *Parser) dangling(tok token.Token) *ParseError {
	return &ParseError{
		Code: ParseErrorDanglingEdge,
		Msg:  "glyph '" + string(tok.Literal) + "' has no predecessor on the line above",
		Pos:  tok.Pos,
	}
}

// firstOf returns the first non-empty candidate list. At most one is populated for glyphs drawn
// by the renderer; for hand-drawn input the order doubles as a priority, diagonal continuation
// winning over a straightened edge, which wins over a fresh exit from a node.
func firstOf(candidates ...[]int) []int {
	for _, c := range candidates {
		if len(c) > 0 {
			return c
		}
	}
	return nil
}

// finalizeLabel is a no-op if no label is pending. Otherwise it creates a node for the
// accumulated label, attaches one edge per distinct predecessor whose in-flight edge lands under
// the label — '\' from a column left of it, '/' from the right, '|' and stacked nodes from
// directly above — and records the label's columns so the lines beneath can pick the new node up
// as their predecessor.
func (p *Parser) finalizeLabel() *ParseError {
	if p.label.Len() == 0 {
		return nil
	}
	label := p.label.String()
	startCol := p.labelCol
	p.label.Reset()
	width := len([]rune(label))

	id := p.dag.AddNode(label)

	seen := map[int]bool{}
	var preds []int
	collect := func(ids []int) {
		for _, pred := range ids {
			if !seen[pred] {
				seen[pred] = true
				preds = append(preds, pred)
			}
		}
	}
	for col := startCol; col < startCol+width; col++ {
		collect(p.prev.straight[col])
		collect(p.prev.nodes[col])
		collect(p.prev.right[col-1])
		collect(p.prev.left[col+1])
	}
	for _, pred := range preds {
		p.dag.AddEdge(pred, id)
	}

	for col := startCol; col < startCol+width; col++ {
		p.cur.nodes[col] = []int{id}
	}
	return nil
}
