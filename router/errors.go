package router

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRegistryRequired is returned when the router is created without a registry.
	ErrRegistryRequired = errors.New("plugin registry is required")

	// ErrUnknownCommand is returned for a top-level command other than "run".
	ErrUnknownCommand = errors.New("unknown command")
)

// UnknownPluginError is returned when "run" names a plugin that is not registered.
type UnknownPluginError struct {
	Name      string
	Available []string
}

func (e *UnknownPluginError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown plugin %q: no plugins are registered", e.Name)
	}
	return fmt.Sprintf("unknown plugin %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}
