package dual

import "fmt"

// Library-wide error taxonomy.
//
// Construction-time validation (network config, dataset wiring) fails fast
// with ConfigError or ShapeError; undefined math surfaces as DomainError.
// All three work with errors.As.

// ShapeError reports a dimension mismatch between layers, batches, or
// input/label pairs.
type ShapeError struct {
	Op       string // Operation that detected the mismatch
	Expected []int
	Found    []int
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: shape mismatch: expected %v, found %v", e.Op, e.Expected, e.Found)
}

// ConfigError reports an invalid hyperparameter or construction argument.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// DomainError reports a mathematically undefined operation, such as dividing
// by a dual whose value is zero, or a loss that became NaN during training.
type DomainError struct {
	Op     string
	Reason string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: domain error: %s", e.Op, e.Reason)
}
