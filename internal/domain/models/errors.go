package models

import "fmt"

// The analysis core fails in exactly three ways, all of them input-data
// problems: malformed records, too few points for a statistic or fit, or a
// model search that could not converge. Nothing here is transient, so no
// error in this file is retryable.

// ValidationError reports a malformed input record.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("invalid observation for %q: %s %s", e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid observation: %s %s", e.Field, e.Reason)
}

// InsufficientDataError reports a series too short for the requested fit or
// statistic. Got/Need carry the observed and required point counts.
type InsufficientDataError struct {
	Entity string
	Got    int
	Need   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %q: have %d observations, need %d", e.Entity, e.Got, e.Need)
}

// FitError reports that the model order search exhausted its space without
// converging on a usable fit.
type FitError struct {
	Entity string
	Reason string
	Err    error
}

func (e *FitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model fit failed for %q: %s: %v", e.Entity, e.Reason, e.Err)
	}
	return fmt.Sprintf("model fit failed for %q: %s", e.Entity, e.Reason)
}

func (e *FitError) Unwrap() error { return e.Err }
