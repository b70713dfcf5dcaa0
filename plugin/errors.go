package plugin

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is wrapped by RegistrationError.
	ErrDuplicateName = errors.New("duplicate plugin name")

	// ErrMissingCapability is logged for candidates that cannot be invoked.
	ErrMissingCapability = errors.New("module lacks a required capability")
)

// RegistrationError reports two modules that resolve to the same plugin name.
type RegistrationError struct {
	Name         string
	Path         string // module that failed to register
	ExistingPath string // module registered first under Name
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("plugin %q from module %s is already registered by module %s", e.Name, e.Path, e.ExistingPath)
}

func (e *RegistrationError) Unwrap() error {
	return ErrDuplicateName
}
