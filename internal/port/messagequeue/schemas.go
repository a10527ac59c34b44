package messagequeue

// AccountEventPayload is the schema for registry.accounts.* messages.
type AccountEventPayload struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TenantEventPayload is the schema for registry.tenants.* messages.
type TenantEventPayload struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name,omitempty"`
	Owner    string `json:"owner,omitempty"`
}

// ComponentEventPayload is the schema for registry.components.* messages.
type ComponentEventPayload struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}
