package operator

import (
	"errors"
	"fmt"
)

var (
	// ErrSignatureInvalid indicates a named-operator token that does not match
	// its operator's signature.
	ErrSignatureInvalid = errors.New("operator signature invalid")

	// ErrDefinitionInvalid indicates a datetime format that cannot be used to
	// parse values.
	ErrDefinitionInvalid = errors.New("operator definition invalid")

	// ErrUnknownOperator indicates a token no registered operator or host
	// intrinsic recognises.
	ErrUnknownOperator = errors.New("unknown named operator")
)

// SignatureError reports a token rejected at construction time.
type SignatureError struct {
	Token   string
	Pattern string
	Err     error
}

func (e *SignatureError) Error() string {
	msg := fmt.Sprintf("%v: %q does not match %s", ErrSignatureInvalid, e.Token, e.Pattern)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SignatureError) Is(target error) bool {
	return target == ErrSignatureInvalid
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}

// DefinitionError reports a datetime format with a directive that cannot be
// parsed.
type DefinitionError struct {
	Format string
	Err    error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%v: bad time format %q: %v", ErrDefinitionInvalid, e.Format, e.Err)
}

func (e *DefinitionError) Is(target error) bool {
	return target == ErrDefinitionInvalid
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// CanonicalizationError reports a value that cannot be serialized for hashing.
// Evaluation degrades it to a null result.
type CanonicalizationError struct {
	Err error
}

func (e *CanonicalizationError) Error() string {
	return fmt.Sprintf("canonicalization failed: %v", e.Err)
}

func (e *CanonicalizationError) Unwrap() error {
	return e.Err
}
