package reconciler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strconv"

	"aapctl/internal/gateway"
	"aapctl/internal/resolver"
	"aapctl/pkg/logging"
)

// API is the slice of the gateway client the reconciler depends on.
type API interface {
	Get(ctx context.Context, path string) (map[string]any, error)
	Post(ctx context.Context, path string, body any, expect ...int) (map[string]any, error)
	Patch(ctx context.Context, path string, body any, expect ...int) (map[string]any, error)
	Delete(ctx context.Context, path string, expect ...int) (map[string]any, error)
}

// Reconciler converges single resource instances against their desired
// state. One Reconciler may serve many sequential Reconcile calls; it
// holds no per-resource state.
type Reconciler struct {
	api       API
	checkMode bool
}

// NewReconciler creates a reconciler on top of a gateway API.
func NewReconciler(api API) *Reconciler {
	return &Reconciler{api: api}
}

// WithCheckMode makes the reconciler report what would change without
// issuing any mutation.
func (r *Reconciler) WithCheckMode(enabled bool) *Reconciler {
	r.checkMode = enabled
	return r
}

// Reconcile drives one resource to its target state and reports whether
// anything changed. Lookup misses are handled per state; any unexpected
// status on create, update or delete aborts with the failing method,
// path and status attached.
func (r *Reconciler) Reconcile(ctx context.Context, d Descriptor) (Result, error) {
	var result Result

	keys, err := r.uniqueKeyValues(ctx, d)
	if err != nil {
		return result, err
	}

	existing, err := r.find(ctx, d.Schema, keys)
	if err != nil {
		return result, err
	}

	switch d.State {
	case StateExists:
		if existing == nil {
			return result, NewNotFoundError(d.Schema.Kind, keyString(keys))
		}
		result.Item = existing
		return result, nil

	case StateAbsent:
		if existing == nil {
			return result, nil
		}
		path, err := itemPath(d.Schema.Endpoint, existing)
		if err != nil {
			return result, err
		}
		result.Changed = true
		if r.checkMode {
			return result, nil
		}
		if _, err := r.api.Delete(ctx, path); err != nil {
			return result, err
		}
		logging.Info("Reconciler", "Deleted %s %s", d.Schema.Kind, keyString(keys))
		return result, nil

	case StatePresent, StateEnforced:
		if err := r.ensure(ctx, d, existing, &result); err != nil {
			return result, err
		}
		return result, nil

	default:
		return result, fmt.Errorf("unsupported state %q", d.State)
	}
}

// uniqueKeyValues resolves the unique key fields of a descriptor.
// Reference-typed key fields must resolve; a composite key with an
// unresolvable member cannot identify anything. LookupFields values
// take precedence so renamed items are found under their current name.
func (r *Reconciler) uniqueKeyValues(ctx context.Context, d Descriptor) (map[string]any, error) {
	optional := make(map[string]bool, len(d.Schema.OptionalKeys))
	for _, field := range d.Schema.OptionalKeys {
		optional[field] = true
	}

	keys := make(map[string]any, len(d.Schema.UniqueKey))
	for _, field := range d.Schema.UniqueKey {
		value, ok := d.LookupFields[field]
		if !ok {
			value, ok = d.Fields[field]
		}
		if !ok || value == nil {
			if optional[field] {
				keys[field] = nil
				continue
			}
			return nil, fmt.Errorf("%s: unique key field %q is not set", d.Schema.Kind, field)
		}
		ref, isRef := d.Schema.ReferenceFields[field]
		if !isRef {
			keys[field] = value
			continue
		}
		id, ok, err := resolver.Resolve(ctx, r.api, value, ref.Endpoint, ref.NameField)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NewNotFoundError(field, fmt.Sprintf("%v", value))
		}
		keys[field] = id
	}
	return keys, nil
}

// find fetches the existing item matching the unique key, or nil when
// no item matches. More than one match is an error.
func (r *Reconciler) find(ctx context.Context, schema Schema, keys map[string]any) (map[string]any, error) {
	query := url.Values{}
	for field, value := range keys {
		if value == nil {
			continue
		}
		query.Set(field, fmt.Sprintf("%v", value))
	}

	body, err := r.api.Get(ctx, schema.Endpoint+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var matches []map[string]any
	for _, item := range gateway.Results(body) {
		if matchesKeys(schema, item, keys) {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%s %s matched %d items; unique key is not unique remotely",
			schema.Kind, keyString(keys), len(matches))
	}
}

// ensure converges a present/enforced resource: create when missing,
// patch changed fields when drifted, and under StateEnforced also
// reconcile auxiliary relations.
func (r *Reconciler) ensure(ctx context.Context, d Descriptor, existing map[string]any, result *Result) error {
	payload, secrets, err := r.desiredPayload(ctx, d, result)
	if err != nil {
		return err
	}

	if existing == nil {
		body := make(map[string]any, len(payload)+len(secrets))
		for k, v := range payload {
			body[k] = v
		}
		for k, v := range secrets {
			body[k] = v
		}
		result.Changed = true
		if r.checkMode {
			result.Item = payload
			// Auxiliary relations need the new item's id; nothing
			// more to predict in check mode.
			return nil
		}
		created, err := r.api.Post(ctx, d.Schema.Endpoint, body)
		if err != nil {
			return err
		}
		result.Item = created
		logging.Info("Reconciler", "Created %s %s", d.Schema.Kind, keyString(payloadKeys(d, payload)))
	} else {
		result.Item = existing
		if !d.Schema.Immutable {
			if err := r.update(ctx, d, existing, payload, secrets, result); err != nil {
				return err
			}
		}
	}

	if d.State == StateEnforced {
		id, ok := resolver.AsInt(result.Item["id"])
		if !ok {
			return nil
		}
		if err := r.ensureRelations(ctx, d, id, result); err != nil {
			return err
		}
		if err := r.ensureAssociations(ctx, d, id, result); err != nil {
			return err
		}
	}
	return nil
}

// update patches only the fields whose desired value differs from the
// existing item. Secret fields cannot be compared (the remote system
// never echoes them back); they ride along when anything else changed,
// or always when UpdateSecrets is set.
func (r *Reconciler) update(ctx context.Context, d Descriptor, existing, payload, secrets map[string]any, result *Result) error {
	patch := make(map[string]any)
	for field, desired := range payload {
		if !r.equalField(d.Schema, field, desired, existing[field]) {
			patch[field] = desired
		}
	}
	if len(secrets) > 0 && (d.UpdateSecrets || len(patch) > 0) {
		for field, value := range secrets {
			patch[field] = value
		}
	}
	if len(patch) == 0 {
		return nil
	}

	path, err := itemPath(d.Schema.Endpoint, existing)
	if err != nil {
		return err
	}
	result.Changed = true
	if r.checkMode {
		return nil
	}
	updated, err := r.api.Patch(ctx, path, patch)
	if err != nil {
		return err
	}
	result.Item = updated
	logging.Info("Reconciler", "Updated %s (%d fields)", d.Schema.Kind, len(patch))
	return nil
}

// ensureRelations reconciles auxiliary one-to-one references. An
// unresolvable desired value downgrades to a warning and leaves only
// that relation untouched.
func (r *Reconciler) ensureRelations(ctx context.Context, d Descriptor, itemID int, result *Result) error {
	for _, rel := range d.Schema.Relations {
		desired, ok := d.Relations[rel.Field]
		if !ok || desired == nil {
			continue
		}

		id, ok, err := resolver.Resolve(ctx, r.api, desired, rel.Endpoint, rel.NameField)
		if err != nil {
			return err
		}
		if !ok {
			warning := fmt.Sprintf("%s %s: %q could not be resolved to an id; skipping %s update",
				d.Schema.Kind, rel.Field, fmt.Sprintf("%v", desired), rel.Field)
			logging.Warn("Reconciler", "%s", warning)
			result.Warnings = append(result.Warnings, warning)
			continue
		}

		base := rel.ItemEndpoint
		if base == "" {
			base = d.Schema.Endpoint
		}
		path := base + strconv.Itoa(itemID) + "/"

		current, err := r.api.Get(ctx, path)
		if err != nil {
			return err
		}
		if currentID, ok := resolver.AsInt(current[rel.Field]); ok && currentID == id {
			continue
		}

		result.Changed = true
		if r.checkMode {
			continue
		}
		if _, err := r.api.Patch(ctx, path, map[string]any{rel.Field: id}); err != nil {
			return err
		}
	}
	return nil
}

// ensureAssociations reconciles many-to-many member sets by symmetric
// difference. Adds accept 201/204 and removes tolerate 404 so a rerun
// after a partially applied run converges instead of failing.
func (r *Reconciler) ensureAssociations(ctx context.Context, d Descriptor, itemID int, result *Result) error {
	for _, assoc := range d.Schema.Associations {
		desired, ok := d.Associations[assoc.Name]
		if !ok {
			continue
		}

		var desiredIDs []int
		for _, member := range desired {
			id, ok, err := resolver.Resolve(ctx, r.api, member, assoc.ResolveEndpoint, assoc.NameField)
			if err != nil {
				return err
			}
			if !ok {
				warning := fmt.Sprintf("%s %s: member %q could not be resolved; skipping",
					d.Schema.Kind, assoc.Name, fmt.Sprintf("%v", member))
				logging.Warn("Reconciler", "%s", warning)
				result.Warnings = append(result.Warnings, warning)
				continue
			}
			desiredIDs = append(desiredIDs, id)
		}

		base := assoc.ItemEndpoint
		if base == "" {
			base = d.Schema.Endpoint
		}
		path := base + strconv.Itoa(itemID) + "/" + assoc.Name + "/"

		body, err := r.api.Get(ctx, path)
		if err != nil {
			return err
		}
		var currentIDs []int
		for _, item := range gateway.Results(body) {
			if id, ok := resolver.AsInt(item["id"]); ok {
				currentIDs = append(currentIDs, id)
			}
		}

		toAdd, toRemove := diffIDs(desiredIDs, currentIDs)
		if len(toAdd) == 0 && len(toRemove) == 0 {
			continue
		}

		result.Changed = true
		if r.checkMode {
			continue
		}
		for _, id := range toAdd {
			if _, err := r.api.Post(ctx, path, map[string]any{"id": id},
				http.StatusCreated, http.StatusNoContent); err != nil {
				return err
			}
		}
		for _, id := range toRemove {
			if _, err := r.api.Delete(ctx, path+strconv.Itoa(id)+"/",
				http.StatusNoContent, http.StatusNotFound); err != nil {
				return err
			}
		}
		logging.Info("Reconciler", "Reconciled %s %s: %d added, %d removed",
			d.Schema.Kind, assoc.Name, len(toAdd), len(toRemove))
	}
	return nil
}

// desiredPayload resolves reference fields and splits off secret
// fields. An unresolvable optional reference warns and drops the field;
// a required one is fatal.
func (r *Reconciler) desiredPayload(ctx context.Context, d Descriptor, result *Result) (payload, secrets map[string]any, err error) {
	payload = make(map[string]any, len(d.Fields))
	secrets = make(map[string]any)

	secretNames := make(map[string]bool, len(d.Schema.SecretFields))
	for _, field := range d.Schema.SecretFields {
		secretNames[field] = true
	}

	for field, value := range d.Fields {
		if value == nil {
			continue
		}
		if ref, isRef := d.Schema.ReferenceFields[field]; isRef {
			id, ok, resolveErr := resolver.Resolve(ctx, r.api, value, ref.Endpoint, ref.NameField)
			if resolveErr != nil {
				return nil, nil, resolveErr
			}
			if !ok {
				if ref.Required {
					return nil, nil, NewNotFoundError(field, fmt.Sprintf("%v", value))
				}
				warning := fmt.Sprintf("%s %s: %q could not be resolved; skipping field",
					d.Schema.Kind, field, fmt.Sprintf("%v", value))
				logging.Warn("Reconciler", "%s", warning)
				result.Warnings = append(result.Warnings, warning)
				continue
			}
			payload[field] = id
			continue
		}
		if secretNames[field] {
			secrets[field] = value
			continue
		}
		payload[field] = value
	}
	return payload, secrets, nil
}

// equalField compares a desired value against the current one.
// Reference fields compare as integers after normalization; everything
// else compares structurally with numeric types normalized through a
// JSON round-trip, so a YAML int and a decoded JSON float agree.
func (r *Reconciler) equalField(schema Schema, field string, desired, current any) bool {
	if _, isRef := schema.ReferenceFields[field]; isRef {
		desiredID, ok1 := resolver.AsInt(desired)
		currentID, ok2 := resolver.AsInt(current)
		return ok1 && ok2 && desiredID == currentID
	}
	return reflect.DeepEqual(normalizeValue(desired), normalizeValue(current))
}

func normalizeValue(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func matchesKeys(schema Schema, item map[string]any, keys map[string]any) bool {
	for field, want := range keys {
		if want == nil {
			if item[field] != nil {
				return false
			}
			continue
		}
		if _, isRef := schema.ReferenceFields[field]; isRef {
			wantID, ok1 := resolver.AsInt(want)
			gotID, ok2 := resolver.AsInt(item[field])
			if !ok1 || !ok2 || wantID != gotID {
				return false
			}
			continue
		}
		if fmt.Sprintf("%v", item[field]) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

func itemPath(endpoint string, item map[string]any) (string, error) {
	id, ok := resolver.AsInt(item["id"])
	if !ok {
		return "", fmt.Errorf("existing item has no usable id field")
	}
	return endpoint + strconv.Itoa(id) + "/", nil
}

func keyString(keys map[string]any) string {
	parts := make([]string, 0, len(keys))
	for field, value := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", field, value))
	}
	sort.Strings(parts)
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// payloadKeys narrows a payload down to the unique key fields for log
// lines about a freshly created item.
func payloadKeys(d Descriptor, payload map[string]any) map[string]any {
	keys := make(map[string]any, len(d.Schema.UniqueKey))
	for _, field := range d.Schema.UniqueKey {
		if v, ok := payload[field]; ok {
			keys[field] = v
		}
	}
	return keys
}
