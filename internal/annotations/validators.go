package annotations

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidatePath validates an endpoint base path
func ValidatePath(v interface{}) error {
	path := v.(string)
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must start with '/', got '%s'", path)
	}
	if strings.IndexFunc(path, unicode.IsSpace) >= 0 {
		return fmt.Errorf("path must not contain whitespace, got '%s'", path)
	}
	return nil
}

// ValidateKey validates a discriminator field name
func ValidateKey(v interface{}) error {
	key := v.(string)
	if key == "" {
		return fmt.Errorf("discriminator key cannot be empty")
	}
	if strings.IndexFunc(key, unicode.IsSpace) >= 0 {
		return fmt.Errorf("discriminator key must not contain whitespace, got '%s'", key)
	}
	return nil
}

// ValidateUnmatched validates the unmatched discriminator policy
func ValidateUnmatched(v interface{}) error {
	policy := v.(string)
	if policy != "ignore" && policy != "error" {
		return fmt.Errorf("must be 'ignore' or 'error', got '%s'", policy)
	}
	return nil
}

// ValidateValue validates a handler discriminator value
func ValidateValue(v interface{}) error {
	if v.(string) == "" {
		return fmt.Errorf("discriminator value cannot be empty")
	}
	return nil
}
