// Package span carries source positions through the ingestion pipeline so
// diagnostics can name a file and line even though the downstream IR and
// module tree discard them.
package span

import "strconv"

// Location is a 1-based line/column pair.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (l Location) String() string {
	return strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}

// Span is a half-open source range within a single file.
type Span struct {
	Start Location `json:"start"`
	End   Location `json:"end"`
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

func New(start, end Location) Span {
	return Span{Start: start, End: end}
}

func Merge(a, b Span) Span {
	before := func(x, y Location) bool {
		return x.Line < y.Line || (x.Line == y.Line && x.Column < y.Column)
	}
	out := a
	if before(b.Start, a.Start) {
		out.Start = b.Start
	}
	if before(a.End, b.End) {
		out.End = b.End
	}
	return out
}
