package manifest

import "aapctl/internal/gateway"

// Entry is one desired resource in a manifest.
type Entry struct {
	// Kind names the resource kind, e.g. "user" or "organization".
	Kind string `yaml:"kind"`

	// State is the target state: present (default), absent, exists or
	// enforced.
	State string `yaml:"state,omitempty"`

	// Fields maps payload field names to desired values.
	Fields map[string]any `yaml:"fields"`

	// Relations maps auxiliary relation names to desired values:
	// a single reference for one-to-one relations, a list for
	// many-to-many associations. Omitted relations are left untouched.
	Relations map[string]any `yaml:"relations,omitempty"`
}

// Manifest is the desired-state document aapctl converges against.
type Manifest struct {
	// Gateway carries connection defaults; flags and environment
	// variables take precedence over it.
	Gateway gateway.Config `yaml:"gateway,omitempty"`

	// Resources lists the desired resources in apply order.
	Resources []Entry `yaml:"resources"`
}
