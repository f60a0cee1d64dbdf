package export

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp classifies one line of a Diff.
type DiffOp int

const (
	DiffEqual DiffOp = iota
	DiffInsert
	DiffDelete
)

// DiffLine is one line of a line-oriented diff, without its newline.
type DiffLine struct {
	Op   DiffOp
	Text string
}

func (l DiffLine) String() string {
	switch l.Op {
	case DiffInsert:
		return "+" + l.Text
	case DiffDelete:
		return "-" + l.Text
	default:
		return " " + l.Text
	}
}

// Diff compares before and after line by line. It returns nil when they
// are identical.
func Diff(before, after string) []DiffLine {
	if before == after {
		return nil
	}
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var out []DiffLine
	for _, d := range diffs {
		op := DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		}
		text := strings.TrimSuffix(d.Text, "\n")
		for _, l := range strings.Split(text, "\n") {
			out = append(out, DiffLine{Op: op, Text: l})
		}
	}
	return out
}

// Changed reports whether any line was inserted or deleted.
func Changed(lines []DiffLine) bool {
	for _, l := range lines {
		if l.Op != DiffEqual {
			return true
		}
	}
	return false
}
