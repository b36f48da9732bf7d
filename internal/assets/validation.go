package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that a part name can be joined into a file path.
// Dots are rejected along with separators, so callers control the extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
