package messagequeue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validate checks whether data is valid JSON conforming to the schema
// associated with the given subject. Unknown subjects pass validation
// (future-proof for new message types).
func Validate(subject string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON on subject %s", subject)
	}

	// Map subject prefix to payload struct for structural validation.
	var target any
	switch {
	case strings.HasPrefix(subject, "registry.accounts."):
		target = &AccountEventPayload{}
	case strings.HasPrefix(subject, "registry.tenants."):
		target = &TenantEventPayload{}
	case strings.HasPrefix(subject, "registry.components."):
		target = &ComponentEventPayload{}
	default:
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", subject, err)
	}
	return nil
}
