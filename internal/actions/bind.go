package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ironsheep/media-actions/internal/imaging"
)

// bind turns raw caller values into Args: unknown names are rejected,
// omitted parameters take their default, every value is converted to the
// declared type and checked against its choices and rule.
func (op *Operation) bind(raw map[string]any, v *validator.Validate) (Args, error) {
	var unknown []string
	for name := range raw {
		if _, ok := op.Param(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s has no parameter %s", ErrInvalidArguments, op.Name, strings.Join(unknown, ", "))
	}

	args := make(Args, len(op.Params))
	for _, p := range op.Params {
		value, given := raw[p.Name]
		if !given || value == nil {
			value = p.Default
		}

		bound, err := p.convert(value)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q: %v", ErrInvalidArguments, p.Name, err)
		}
		if err := p.check(v, bound); err != nil {
			return nil, fmt.Errorf("%w: parameter %q: %v", ErrInvalidArguments, p.Name, err)
		}
		args[p.Name] = bound
	}
	return args, nil
}

func (p Param) convert(value any) (any, error) {
	switch p.Type {
	case TypeInteger:
		if value == nil {
			return 0, nil
		}
		return toInt(value)
	case TypeNumber:
		if value == nil {
			return 0.0, nil
		}
		return toFloat(value)
	case TypeBoolean:
		if value == nil {
			return false, nil
		}
		return toBool(value)
	case TypeString, TypeEnum:
		if value == nil {
			return "", nil
		}
		return toString(value)
	case TypeColor:
		s, err := toString(value)
		if err != nil {
			return nil, err
		}
		return imaging.ParseColor(s)
	}
	return nil, fmt.Errorf("unknown parameter type %q", p.Type)
}

func (p Param) check(v *validator.Validate, bound any) error {
	if p.Type == TypeEnum {
		s, _ := bound.(string)
		if !contains(p.Choices, s) {
			return fmt.Errorf("%q is not one of %s", s, strings.Join(p.Choices, ", "))
		}
	}
	if p.Rule == "" {
		return nil
	}
	if err := v.Var(bound, p.Rule); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Param() != "" {
				return fmt.Errorf("%v fails %s=%s", bound, fe.Tag(), fe.Param())
			}
			return fmt.Errorf("%v fails %s", bound, fe.Tag())
		}
		return err
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func toInt(value any) (int, error) {
	switch x := value.(type) {
	case int:
		return x, nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("%v is not an integer", x)
		}
		return int(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", x.String())
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("expected an integer, got %T", value)
}

func toFloat(value any) (float64, error) {
	switch x := value.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", x.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", x)
		}
		return f, nil
	}
	return 0, fmt.Errorf("expected a number, got %T", value)
}

func toBool(value any) (bool, error) {
	switch x := value.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, fmt.Errorf("%q is not a boolean", x)
		}
		return b, nil
	}
	return false, fmt.Errorf("expected a boolean, got %T", value)
}

func toString(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expected a string, got %T", value)
}
