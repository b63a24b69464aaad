package tables

import (
	"fmt"

	"github.com/rrolph575/costmodel-substation/pkg/spec"
)

// MissingFileError reports an input table that could not be read.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("table %s: %v", e.Path, e.Err)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// MissingColumnError reports a voltage that a unit-cost table has no column
// for. Spec tables report the same gap as a ShapeMismatchError.
type MissingColumnError struct {
	Table   string
	Voltage spec.Voltage
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %s: no column for %d kV", e.Table, e.Voltage)
}

// MissingKeyError reports a row key, land type or override name that a
// table does not define.
type MissingKeyError struct {
	Table string
	Key   string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s is not in %s", e.Key, e.Table)
}

// ShapeMismatchError reports a table whose layout does not match what the
// cost model expects, including blank cells for a requested combination.
type ShapeMismatchError struct {
	Table  string
	Detail string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("table %s: %s", e.Table, e.Detail)
}
