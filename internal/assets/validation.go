package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName rejects names that are empty or contain a path
// separator or a dot, so "../x" or "x.css" can never reach the embedded FS.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
