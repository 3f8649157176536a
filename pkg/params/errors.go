package params

import "fmt"

// ConfigError reports a missing or invalid field in a parameter definition.
// It surfaces at construction time, before the simulation starts.
type ConfigError struct {
	Parameter string
	Field     string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("parameter [%s]: %s: %s", e.Parameter, e.Field, e.Reason)
}

// ResourceError reports a failure to acquire a resource a parameter cannot
// operate without, such as the planetary ephemeris dataset. It surfaces from
// Setup, before the timestep loop runs.
type ResourceError struct {
	Parameter string
	Resource  string
	Err       error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("parameter [%s]: %s unavailable: %v", e.Parameter, e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// RangeError reports a lookup outside a parameter's valid domain. It is a
// per-call fault propagated to the caller, never silently defaulted.
type RangeError struct {
	Parameter string
	Value     int
	Min, Max  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("parameter [%s]: value %d outside valid range [%d, %d]", e.Parameter, e.Value, e.Min, e.Max)
}
