/*
File    : go-flow/objects/objects.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package objects defines the value types carried by GoFlow dialog variables.
// A variable set by a script (or by the intent classifier) holds one of three
// primitive kinds: string, integer, or float. All kinds implement the
// FlowObject interface, which provides type identification and the string
// form used by branch comparison and ${name} interpolation.
package objects

import (
	"fmt"
	"strconv"
)

// FlowType represents the type of a GoFlow value as a string constant.
// These constants are used to identify the kind of a stored variable,
// enabling type checks without reflection.
type FlowType string

const (
	// StringType represents string values
	StringType FlowType = "string"
	// IntegerType represents 64-bit integer values
	IntegerType FlowType = "int"
	// FloatType represents 64-bit floating-point values
	FloatType FlowType = "float"
)

// FlowObject is the core interface that all GoFlow values implement.
// It provides methods for type identification, the plain string form used
// by comparison and interpolation, and a detailed form for inspection.
type FlowObject interface {
	// GetType returns the FlowType of the value, used for type checking
	GetType() FlowType
	// ToString returns the plain string form of the value. Branch
	// comparison and ${name} substitution both operate on this form.
	ToString() string
	// ToObject returns a detailed string representation including type
	// information, useful for debugging and inspection
	ToObject() string
}

// String represents a string value in GoFlow.
type String struct {
	Value string // The underlying string value
}

// GetType returns the type of the String object
func (s *String) GetType() FlowType {
	return StringType
}

// ToString returns the string value itself
func (s *String) ToString() string {
	return s.Value
}

// ToObject returns a detailed representation of the string
func (s *String) ToObject() string {
	return fmt.Sprintf("String(%q)", s.Value)
}

// Integer represents a 64-bit signed integer value in GoFlow.
type Integer struct {
	Value int64 // The underlying integer value
}

// GetType returns the type of the Integer object
func (i *Integer) GetType() FlowType {
	return IntegerType
}

// ToString returns the decimal string form of the integer
func (i *Integer) ToString() string {
	return strconv.FormatInt(i.Value, 10)
}

// ToObject returns a detailed representation of the integer
func (i *Integer) ToObject() string {
	return fmt.Sprintf("Integer(%d)", i.Value)
}

// Float represents a 64-bit floating-point value in GoFlow.
type Float struct {
	Value float64 // The underlying float value
}

// GetType returns the type of the Float object
func (f *Float) GetType() FlowType {
	return FloatType
}

// ToString returns the shortest string form that round-trips the float
func (f *Float) ToString() string {
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}

// ToObject returns a detailed representation of the float
func (f *Float) ToObject() string {
	return fmt.Sprintf("Float(%s)", f.ToString())
}

// ExtractValue extracts the raw Go value from a FlowObject.
// It returns the underlying value (e.g., int64 for Integer) or an error
// for unsupported types.
func ExtractValue(obj FlowObject) (interface{}, error) {
	switch obj.GetType() {
	case StringType:
		return obj.(*String).Value, nil
	case IntegerType:
		return obj.(*Integer).Value, nil
	case FloatType:
		return obj.(*Float).Value, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", obj.GetType())
	}
}
