package skeleton

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"
)

// ErrInvalid is returned for definitions that cannot form a skeleton.
var ErrInvalid = errors.New("skeleton: invalid definition")

const (
	// maxLimitDegrees bounds every joint limit.
	maxLimitDegrees = 180
	// gimbalCeilingDegrees bounds the narrowest axis of a three-axis joint.
	gimbalCeilingDegrees = 80
)

// Validate checks the definition and reports every problem found.
func (def Definition) Validate() error {
	var errs error
	if len(def.Bones) == 0 {
		errs = multierr.Append(errs, errors.New("no bones"))
	}

	seen := make(map[string]bool, len(def.Bones))
	mirrored := make(map[string]bool)
	for i, b := range def.Bones {
		where := fmt.Sprintf("bone %d (%q)", i, b.Name)
		if b.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("bone %d: empty name", i))
		}
		if seen[b.Name] {
			errs = multierr.Append(errs, fmt.Errorf("%s: duplicate name", where))
		}

		switch {
		case i == 0 && b.Parent != "":
			errs = multierr.Append(errs, fmt.Errorf("%s: the first bone must be the root", where))
		case i > 0 && b.Parent == "":
			errs = multierr.Append(errs, fmt.Errorf("%s: only the first bone may have no parent", where))
		case i > 0 && !seen[b.Parent]:
			errs = multierr.Append(errs, fmt.Errorf("%s: parent %q must be defined before its children", where, b.Parent))
		}

		for axis := 0; axis < 3; axis++ {
			if b.Size[axis] <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s: size must be positive, got %v", where, b.Size))
				break
			}
		}
		for axis := 0; axis < 3; axis++ {
			if b.Low[axis] > b.High[axis] {
				errs = multierr.Append(errs, fmt.Errorf("%s: low limit %v exceeds high limit %v", where, b.Low, b.High))
				break
			}
		}
		for axis := 0; axis < 3; axis++ {
			if b.Low[axis] < -maxLimitDegrees || b.High[axis] > maxLimitDegrees {
				errs = multierr.Append(errs, fmt.Errorf("%s: limits must stay within ±%d degrees", where, maxLimitDegrees))
				break
			}
		}

		if i > 0 && freeAxes(b) > 1 && narrowestRange(b) > gimbalCeilingDegrees {
			errs = multierr.Append(errs, fmt.Errorf("%s: every axis allows more than %d degrees, the joint would gimbal lock", where, gimbalCeilingDegrees))
		}

		if !b.Mirror.IsZero() {
			if !isUnitAxis(b.Mirror) {
				errs = multierr.Append(errs, fmt.Errorf("%s: mirror direction %v is not a unit axis", where, b.Mirror))
			}
			if i == 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s: the root cannot be mirrored", where))
			}
			if mirrored[b.Parent] {
				errs = multierr.Append(errs, fmt.Errorf("%s: mirrored branches cannot nest", where))
			}
			mirrored[b.Name] = true
		} else if mirrored[b.Parent] {
			mirrored[b.Name] = true
		}
		seen[b.Name] = true
	}

	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, errs)
	}
	return nil
}

// Problems lists the individual problems behind a validation error, which
// may be wrapped.
func Problems(err error) []error {
	for err != nil {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			var out []error
			for _, e := range joined.Unwrap() {
				if e != ErrInvalid {
					out = append(out, multierr.Errors(e)...)
				}
			}
			return out
		}
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	if err == nil {
		return nil
	}
	return []error{err}
}

func isUnitAxis(v Vec) bool {
	ones := 0
	for _, c := range v {
		switch c {
		case 0:
		case 1, -1:
			ones++
		default:
			return false
		}
	}
	return ones == 1
}

func freeAxes(b BoneDef) int {
	n := 0
	for axis := 0; axis < 3; axis++ {
		if b.Low[axis] != 0 || b.High[axis] != 0 {
			n++
		}
	}
	return n
}

func narrowestRange(b BoneDef) float64 {
	narrowest := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		narrowest = math.Min(narrowest, math.Max(math.Abs(b.Low[axis]), math.Abs(b.High[axis])))
	}
	return narrowest
}
