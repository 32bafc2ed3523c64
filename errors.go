package asciidag

import (
	"fmt"

	"github.com/dagview/asciidag/token"
)

// ParseErrorCode classifies why [Parse] rejected an ASCII drawing.
type ParseErrorCode int

const (
	// ParseErrorNone is the zero value and never appears on a returned error.
	ParseErrorNone ParseErrorCode = iota
	// ParseErrorUnexpectedGlyph marks a reserved glyph with no sensible predecessor to attach to,
	// e.g. a '/' in the first column with nothing feeding it.
	ParseErrorUnexpectedGlyph
	// ParseErrorDanglingEdge marks '|', '/', '\' or 'X' with no predecessor recorded for its
	// column.
	ParseErrorDanglingEdge
	// ParseErrorAmbiguousLabel marks a label that runs directly into an edge glyph on the same
	// line.
	ParseErrorAmbiguousLabel
)

func (c ParseErrorCode) String() string {
	switch c {
	case ParseErrorNone:
		return "None"
	case ParseErrorUnexpectedGlyph:
		return "UnexpectedGlyph"
	case ParseErrorDanglingEdge:
		return "DanglingEdge"
	case ParseErrorAmbiguousLabel:
		return "AmbiguousLabel"
	default:
		return fmt.Sprintf("ParseErrorCode(%d)", int(c))
	}
}

// ParseError reports why an ASCII drawing could not be parsed into a [dag.DAG]. Pos points at
// the offending glyph.
type ParseError struct {
	Code ParseErrorCode
	Msg  string
	Pos  token.Position
}

// Error formats the error as "line:column: code: message".
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Code, e.Msg)
}

// RenderErrorCode classifies why [Render] could not lay out and draw a DAG.
type RenderErrorCode int

const (
	// RenderErrorNone is the zero value and never appears on a returned error.
	RenderErrorNone RenderErrorCode = iota
	// RenderErrorEdgeRoutingFailed marks an edge the router could not draw without an obstacle
	// collision under its bounded search.
	RenderErrorEdgeRoutingFailed
	// RenderErrorLayoutTooNarrow marks a layer whose entities cannot all be given their required
	// column gap within the computed canvas width.
	RenderErrorLayoutTooNarrow
	// RenderErrorCycleDetected marks a DAG whose layering failed to converge, which should be
	// impossible for an acyclic input; its presence signals a violated precondition rather than
	// a recoverable rendering failure.
	RenderErrorCycleDetected
)

func (c RenderErrorCode) String() string {
	switch c {
	case RenderErrorNone:
		return "None"
	case RenderErrorEdgeRoutingFailed:
		return "EdgeRoutingFailed"
	case RenderErrorLayoutTooNarrow:
		return "LayoutTooNarrow"
	case RenderErrorCycleDetected:
		return "CycleDetected"
	default:
		return fmt.Sprintf("RenderErrorCode(%d)", int(c))
	}
}

// RenderError reports why [Render] could not produce a drawing for a DAG. NodeID names the node
// whose placement or outgoing edge triggered the failure, or -1 if the failure is not
// attributable to a single node.
type RenderError struct {
	Code   RenderErrorCode
	Msg    string
	NodeID int
}

// Error formats the error as "code: message (node <id>)".
func (e *RenderError) Error() string {
	if e.NodeID < 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("%s: %s (node %d)", e.Code, e.Msg, e.NodeID)
}
