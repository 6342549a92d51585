package analysis

import (
	"encoding/json"
	"strings"
)

const labelEscapeSuffix = " (label)"

type Dimension int

const (
	DimensionExercise Dimension = iota
	DimensionPhase
	DimensionType
)

var noLabelText = map[Dimension]string{
	DimensionExercise: "Sin ejercicio",
	DimensionPhase:    "Sin fase",
	DimensionType:     "Sin tipo",
}

// Label is either a concrete value of a session dimension or the absence of one.
// The zero value of a dimension only turns into its "Sin ..." text when encoded.
type Label struct {
	dim   Dimension
	value string
	set   bool
}

func newLabel(dim Dimension, value *string) Label {
	if value == nil {
		return Label{dim: dim}
	}
	return Label{dim: dim, value: *value, set: true}
}

func ExerciseLabel(exerciseID *string) Label { return newLabel(DimensionExercise, exerciseID) }
func PhaseLabel(phase *string) Label         { return newLabel(DimensionPhase, phase) }
func TypeLabel(sessionType *string) Label    { return newLabel(DimensionType, sessionType) }

func (l Label) IsSet() bool {
	return l.set
}

func (l Label) Value() string {
	return l.value
}

// String returns the wire text of the label. A real value made of the dimension's
// "none" text followed by zero or more " (label)" suffixes gets one more suffix,
// so the encoding stays reversible (see ParseLabel).
func (l Label) String() string {
	none := noLabelText[l.dim]
	if !l.set {
		return none
	}
	if isNoneText(l.dim, l.value) {
		return l.value + labelEscapeSuffix
	}
	return l.value
}

func isNoneText(dim Dimension, text string) bool {
	for strings.HasSuffix(text, labelEscapeSuffix) {
		text = strings.TrimSuffix(text, labelEscapeSuffix)
	}
	return text == noLabelText[dim]
}

// ParseLabel is the inverse of Label.String for the given dimension.
func ParseLabel(dim Dimension, text string) Label {
	if text == noLabelText[dim] {
		return Label{dim: dim}
	}
	if isNoneText(dim, text) {
		text = strings.TrimSuffix(text, labelEscapeSuffix)
	}
	return Label{dim: dim, value: text, set: true}
}

// LabelCounts counts sessions per label of a single dimension.
type LabelCounts map[Label]int

func (c LabelCounts) Inc(l Label) {
	c[l]++
}

// Strings flattens the counts into their wire form.
func (c LabelCounts) Strings() map[string]int {
	out := make(map[string]int, len(c))
	for l, count := range c {
		out[l.String()] += count
	}
	return out
}

func (c LabelCounts) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Strings())
}

func labelCountsFromStrings(dim Dimension, flat map[string]int) LabelCounts {
	out := make(LabelCounts, len(flat))
	for text, count := range flat {
		out[ParseLabel(dim, text)] += count
	}
	return out
}

// NestedLabelCounts counts sessions per exercise, then per phase.
type NestedLabelCounts map[Label]LabelCounts

func (n NestedLabelCounts) Inc(outer, inner Label) {
	counts, ok := n[outer]
	if !ok {
		counts = make(LabelCounts)
		n[outer] = counts
	}
	counts.Inc(inner)
}

func (n NestedLabelCounts) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]int, len(n))
	for l, counts := range n {
		out[l.String()] = counts.Strings()
	}
	return json.Marshal(out)
}

func nestedLabelCountsFromStrings(outerDim, innerDim Dimension, flat map[string]map[string]int) NestedLabelCounts {
	out := make(NestedLabelCounts, len(flat))
	for text, counts := range flat {
		out[ParseLabel(outerDim, text)] = labelCountsFromStrings(innerDim, counts)
	}
	return out
}
