// Package actions declares every operation once, as data, and runs it.
//
// An Operation lists its inputs and parameters (name, type, default, allowed
// values, validation rule). Front-ends build their forms, flags or tool
// schemas from that list and hand raw values to Registry.Run, which fills in
// defaults, rejects anything unknown or out of range before touching the
// filesystem, and dispatches to the files, imaging, metadata and video
// packages.
package actions

import (
	"context"
	"errors"
	"fmt"
	"image/color"
)

// ErrInvalidArguments is returned for unknown operations and parameters,
// values of the wrong type or outside their rule, and wrong input counts.
var ErrInvalidArguments = errors.New("invalid arguments")

// Group is the menu an operation is listed under.
type Group string

const (
	GroupFiles Group = "files"
	GroupImage Group = "image"
	GroupVideo Group = "video"
)

// InputKind describes how an operation consumes its paths.
type InputKind string

const (
	// InputEach runs the operation once per path.
	InputEach InputKind = "each"
	// InputSet passes all paths to a single run.
	InputSet InputKind = "set"
	// InputDirectory runs the operation once per path, each must be a directory.
	InputDirectory InputKind = "directory"
)

// ParamType is the value type of a parameter.
type ParamType string

const (
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeString  ParamType = "string"
	TypeColor   ParamType = "color"
	TypeEnum    ParamType = "enum"
)

// Param declares one operation parameter.
type Param struct {
	Name        string
	Type        ParamType
	Description string

	// Default is used when the caller omits the parameter. It holds an int,
	// float64, bool or string matching Type; colors are "#RRGGBB" strings.
	// A nil Default makes the parameter optional with a zero value.
	Default any

	// Choices lists the allowed values of a TypeEnum parameter.
	Choices []string

	// Rule is a go-playground/validator tag checked against the bound value,
	// e.g. "gte=1" or "min=0,max=255".
	Rule string
}

// Operation is one callable action.
type Operation struct {
	Name        string
	Group       Group
	Description string
	Input       InputKind
	MinInputs   int
	MaxInputs   int // 0 means unbounded
	Params      []Param

	run runFunc
}

type runFunc func(ctx context.Context, paths []string, args Args) (*outcome, error)

// outcome is what a single run produces.
type outcome struct {
	outputs []string
	data    any
}

// Param returns the parameter called name.
func (op *Operation) Param(name string) (Param, bool) {
	for _, p := range op.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Result is the outcome of Registry.Run.
type Result struct {
	Operation string   `json:"operation"`
	Outputs   []string `json:"outputs"`

	// Skipped is set when at least one input was left alone because a
	// precondition did not hold (e.g. an image smaller than the crop).
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`

	// Data carries non-file results, e.g. the tags read by read_tags,
	// keyed by input path.
	Data map[string]any `json:"data,omitempty"`
}

// Args holds bound parameter values. Every declared parameter is present
// with its Go type: int, float64, bool, string or color.NRGBA.
type Args map[string]any

// Int returns an integer parameter.
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// Float returns a number parameter.
func (a Args) Float(name string) float64 {
	v, _ := a[name].(float64)
	return v
}

// Bool returns a boolean parameter.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// String returns a string or enum parameter.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Color returns a color parameter.
func (a Args) Color(name string) color.NRGBA {
	v, _ := a[name].(color.NRGBA)
	return v
}

func (op *Operation) checkInputs(n int) error {
	if n < op.MinInputs {
		return fmt.Errorf("%w: %s needs at least %d path(s), got %d", ErrInvalidArguments, op.Name, op.MinInputs, n)
	}
	if op.MaxInputs > 0 && n > op.MaxInputs {
		return fmt.Errorf("%w: %s accepts at most %d path(s), got %d", ErrInvalidArguments, op.Name, op.MaxInputs, n)
	}
	return nil
}
