package registry

import (
	"fmt"
	"strings"
)

// ValidateConfigured checks that every module name configured outside the
// binary (for example in the manifest) refers to a registered module.
func (r *Registry) ValidateConfigured(names []string) error {
	var errs []string
	for _, name := range names {
		if !r.Has(name) {
			errs = append(errs, fmt.Sprintf("module '%s' is configured but not compiled into this host", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
