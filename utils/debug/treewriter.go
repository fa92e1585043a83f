// Package debug has helpers for producing human readable dumps of imported
// data.
package debug

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes quoted text value, empty values are omitted entirely.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	if value == "" {
		return
	}
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(strconv.Quote(value))
	tw.w.WriteByte('\n')
}

// List writes ids in the order given, "-" marks an empty list.
func (tw TreeWriter) List(depth int, label string, ids []string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	if len(ids) == 0 {
		tw.w.WriteString("-")
	} else {
		tw.w.WriteString(strings.Join(ids, ", "))
	}
	tw.w.WriteByte('\n')
}

// SortedList is List for unordered sets, ids are written in natural order so
// dumps could be compared.
func (tw TreeWriter) SortedList(depth int, label string, ids []string) {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, Compare)
	tw.List(depth, label, sorted)
}

// Compare orders strings naturally ("e2" before "e10").
func Compare(a, b string) int {
	switch {
	case a == b:
		return 0
	case natural.Less(a, b):
		return -1
	default:
		return 1
	}
}
