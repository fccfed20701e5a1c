// Package classify implements the region classifier: a finite-state
// machine that tags each normalized line with the statement region it
// belongs to. Region boundaries come from the template's ordered marker
// list; a marker line transitions state and is consumed, never buffered.
package classify

import (
	"github.com/rumor-ml/commons.systems/ccparse/internal/normalize"
	"github.com/rumor-ml/commons.systems/ccparse/internal/template"
)

// Buffers holds the classified line buffers, one per region. The
// classifier is total: every buffer always exists, possibly empty.
// Missing mandatory regions are the assembler's problem, not ours.
type Buffers struct {
	regions map[template.Region][]normalize.Line
}

// Region returns the buffer for one region, in document order.
func (b *Buffers) Region(r template.Region) []normalize.Line {
	return append([]normalize.Line(nil), b.regions[r]...)
}

// Texts returns just the line texts of one region, in document order.
func (b *Buffers) Texts(r template.Region) []string {
	lines := b.regions[r]
	texts := make([]string, len(lines))
	for i, ln := range lines {
		texts[i] = ln.Text
	}
	return texts
}

// Empty reports whether a region received no lines.
func (b *Buffers) Empty(r template.Region) bool {
	return len(b.regions[r]) == 0
}

// Classify runs the state machine over the normalized lines.
//
// The machine starts in the header region. Each line is tested against the
// not-yet-consumed markers in template order; the first match switches
// state and consumes both the marker and the line. Every other line
// appends to the active region's buffer. Because each marker fires at most
// once there is no backtracking, and because the normalizer already
// stripped per-page boilerplate, a transaction table that continues on the
// next page resumes in the transactions buffer without a marker recurring.
func Classify(lines []normalize.Line, tmpl *template.Template) *Buffers {
	buffers := &Buffers{regions: map[template.Region][]normalize.Line{
		template.RegionHeader:         nil,
		template.RegionBalanceSummary: nil,
		template.RegionTransactions:   nil,
		template.RegionRewards:        nil,
		template.RegionTrailer:        nil,
		template.RegionUnknown:        nil,
	}}

	markers := tmpl.Markers()
	consumed := make([]bool, len(markers))
	state := template.RegionHeader

	for _, line := range lines {
		transitioned := false
		for i := range markers {
			if consumed[i] {
				continue
			}
			if markers[i].Matches(line.Text) {
				state = markers[i].Region
				consumed[i] = true
				transitioned = true
				break
			}
		}
		if transitioned {
			continue
		}
		buffers.regions[state] = append(buffers.regions[state], line)
	}

	return buffers
}
