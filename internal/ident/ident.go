// Package ident generates identifiers for extracted entities.
package ident

import "github.com/google/uuid"

var newFunc = uuid.NewString

// New returns a random (version 4) UUID in canonical text form.
func New() string {
	return newFunc()
}

// SetNewForTest overrides the generator and returns a restore function.
func SetNewForTest(fn func() string) func() {
	previous := newFunc
	newFunc = fn
	return func() {
		newFunc = previous
	}
}
