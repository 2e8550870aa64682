package reconciler

import "fmt"

// State is the target state driving a reconciliation.
type State string

const (
	// StatePresent ensures the resource exists with the desired fields.
	StatePresent State = "present"

	// StateAbsent ensures the resource does not exist.
	StateAbsent State = "absent"

	// StateExists asserts the resource exists without mutating anything.
	StateExists State = "exists"

	// StateEnforced is StatePresent plus reconciliation of auxiliary
	// relations (one-to-one references and many-to-many associations).
	StateEnforced State = "enforced"
)

// ParseState validates a state name.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StatePresent, StateAbsent, StateExists, StateEnforced:
		return State(s), nil
	case "":
		return StatePresent, nil
	default:
		return "", fmt.Errorf("unsupported state %q (valid: present, absent, exists, enforced)", s)
	}
}

// Reference describes a payload field whose desired value is a
// reference (name, id or path) that must resolve to an integer id
// before it is sent or compared.
type Reference struct {
	// Endpoint is the collection the reference resolves against.
	Endpoint string

	// NameField is the field used for name lookups on that collection.
	NameField string

	// Required makes an unresolvable reference fatal instead of a
	// warning.
	Required bool
}

// Relation describes an auxiliary one-to-one reference that lives on
// the item but is reconciled separately, only under StateEnforced.
type Relation struct {
	// Field is the item field holding the related id.
	Field string

	// Endpoint is the collection the desired value resolves against.
	Endpoint string

	// NameField is the lookup field on that collection.
	NameField string

	// ItemEndpoint overrides the collection whose item carries the
	// relation, for relations served by a different API than the
	// resource itself. Empty means the schema's own endpoint.
	ItemEndpoint string
}

// Association describes an auxiliary many-to-many relation reconciled
// as a set of member ids under a nested sub-collection, only under
// StateEnforced.
type Association struct {
	// Name is the sub-collection name, e.g. "galaxy_credentials".
	Name string

	// ResolveEndpoint is the collection desired members resolve against.
	ResolveEndpoint string

	// NameField is the lookup field on that collection.
	NameField string

	// ItemEndpoint overrides the collection owning the sub-collection.
	// Empty means the schema's own endpoint.
	ItemEndpoint string
}

// Schema parameterizes the generic reconciler for one resource kind.
// It replaces per-kind code paths: the reconciler itself knows nothing
// about users or organizations, only about schemas.
type Schema struct {
	// Kind names the resource category, e.g. "user".
	Kind string

	// Endpoint is the resource-collection path, e.g. "/api/gateway/v1/users/".
	Endpoint string

	// UniqueKey lists the field(s) whose values identify one item of
	// this kind. Usually a single name field; composite for
	// assignment kinds.
	UniqueKey []string

	// OptionalKeys names unique key fields that may be absent from the
	// desired fields. An absent optional key matches only items where
	// the field is null remotely (e.g. a system-wide role assignment).
	OptionalKeys []string

	// RenameFields maps alias field names to the field they rename,
	// e.g. "new_name" -> "name". When an alias is set, the item is
	// looked up under the old value and updated to the new one.
	RenameFields map[string]string

	// ReferenceFields maps payload field names to how their values
	// resolve to ids.
	ReferenceFields map[string]Reference

	// SecretFields lists write-only fields (e.g. password) that the
	// remote system never echoes back and that therefore cannot be
	// compared.
	SecretFields []string

	// Relations are auxiliary one-to-one references.
	Relations []Relation

	// Associations are auxiliary many-to-many relations.
	Associations []Association

	// Immutable marks kinds whose items cannot be updated remotely
	// (role assignments); reconciliation only creates and deletes.
	Immutable bool

	// DisplayFields lists the columns shown by listing commands.
	DisplayFields []string
}

// Descriptor is the desired state of one resource instance for a single
// reconciliation call. It is constructed per invocation and not reused.
type Descriptor struct {
	Schema Schema

	// State is the target state.
	State State

	// Fields maps payload field names to desired values. Reference
	// fields hold unresolved references.
	Fields map[string]any

	// LookupFields overrides unique key values for the existing-item
	// lookup. Used for renames: the item is found under its current
	// value in LookupFields while Fields carries the new one.
	LookupFields map[string]any

	// Relations maps auxiliary relation fields to desired references.
	// A missing key leaves that relation untouched.
	Relations map[string]any

	// Associations maps association names to the full desired member
	// set. A missing key leaves that association untouched.
	Associations map[string][]any

	// UpdateSecrets forces secret fields into the update payload even
	// when no other field changed.
	UpdateSecrets bool
}

// Result reports the outcome of one reconciliation.
type Result struct {
	// Changed reports whether any mutation was issued (or, in check
	// mode, would have been issued).
	Changed bool

	// Item is the final remote state, or nil after a delete.
	Item map[string]any

	// Warnings collects non-fatal problems, e.g. auxiliary references
	// that could not be resolved and were skipped.
	Warnings []string
}
