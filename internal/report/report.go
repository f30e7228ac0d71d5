// Package report renders calculator steps as JSON lines.
package report

import (
	"fmt"
	"io"

	"github.com/tidwall/sjson"

	"github.com/dshills/minicalc/internal/calc"
)

// Field names of a step line.
const (
	FieldStep         = "step"
	FieldInput        = "input"
	FieldDisplay      = "display"
	FieldFirstOperand = "first_operand"
	FieldOperator     = "operator"
	FieldWaiting      = "waiting"
	FieldPhase        = "phase"
)

// Step builds one JSON object describing the state after input was applied.
// first_operand and operator are null when unset.
func Step(index int, input string, st calc.State) (string, error) {
	var first, op any
	if st.HasFirstOperand {
		first = st.FirstOperand
	}
	if st.Operator.Valid() {
		op = st.Operator.String()
	}

	fields := []struct {
		path  string
		value any
	}{
		{FieldStep, index},
		{FieldInput, input},
		{FieldDisplay, st.Display},
		{FieldFirstOperand, first},
		{FieldOperator, op},
		{FieldWaiting, st.WaitingForSecondOperand},
		{FieldPhase, st.Phase().String()},
	}

	line := "{}"
	for _, f := range fields {
		var err error
		line, err = sjson.Set(line, f.path, f.value)
		if err != nil {
			return "", fmt.Errorf("report field %s: %w", f.path, err)
		}
	}
	return line, nil
}

// Writer writes numbered step lines to an underlying writer.
type Writer struct {
	w    io.Writer
	step int
}

// NewWriter creates a Writer. Steps are numbered from 1.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Record writes the line for the next step.
func (w *Writer) Record(input string, st calc.State) error {
	line, err := Step(w.step+1, input, st)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w.w, line+"\n"); err != nil {
		return err
	}
	w.step++
	return nil
}

// Steps returns how many lines were written.
func (w *Writer) Steps() int {
	return w.step
}
