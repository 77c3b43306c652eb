package llm

import "fmt"

// #region errors
// GenerationError means the text-generation capability was unreachable or
// rejected the request. Callers treat it as a trigger for fallback, never
// as a fatal condition.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ParseError means the capability responded but the payload was not valid
// structured data of the expected shape.
type ParseError struct {
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse response: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("parse response: %s", e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

// #endregion errors
