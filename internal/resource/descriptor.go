package resource

import (
	"fmt"

	"aapctl/internal/manifest"
	"aapctl/internal/reconciler"
)

// BuildDescriptor translates a manifest entry into the descriptor the
// generic reconciler consumes: it parses the target state, applies
// rename aliases, splits auxiliary relations from scalar fields, and
// expands assignment object references.
func BuildDescriptor(schema reconciler.Schema, entry manifest.Entry) (reconciler.Descriptor, error) {
	state, err := reconciler.ParseState(entry.State)
	if err != nil {
		return reconciler.Descriptor{}, fmt.Errorf("%s: %w", schema.Kind, err)
	}

	fields := make(map[string]any, len(entry.Fields))
	for k, v := range entry.Fields {
		fields[k] = v
	}

	// update_secrets steers secret-field updates; it is not a payload field.
	updateSecrets := true
	if raw, ok := fields["update_secrets"]; ok {
		b, isBool := raw.(bool)
		if !isBool {
			return reconciler.Descriptor{}, fmt.Errorf("%s: update_secrets must be a boolean", schema.Kind)
		}
		updateSecrets = b
		delete(fields, "update_secrets")
	}

	if raw, ok := fields["assignment_object"]; ok {
		schema, err = expandAssignmentObject(schema, fields, raw)
		if err != nil {
			return reconciler.Descriptor{}, err
		}
	}

	var lookup map[string]any
	for alias, target := range schema.RenameFields {
		value, ok := fields[alias]
		if !ok || value == nil {
			continue
		}
		if lookup == nil {
			lookup = make(map[string]any)
		}
		// The item is found under its current value; the desired
		// fields carry the new one.
		lookup[target] = fields[target]
		fields[target] = value
		delete(fields, alias)
	}

	relations := make(map[string]any)
	associations := make(map[string][]any)
	for name, value := range entry.Relations {
		switch {
		case hasAssociation(schema, name):
			members, ok := value.([]any)
			if !ok {
				return reconciler.Descriptor{}, fmt.Errorf("%s: relation %q must be a list", schema.Kind, name)
			}
			associations[name] = members
		case hasRelation(schema, name):
			relations[name] = value
		default:
			return reconciler.Descriptor{}, fmt.Errorf("%s: unknown relation %q", schema.Kind, name)
		}
	}

	return reconciler.Descriptor{
		Schema:        schema,
		State:         state,
		Fields:        fields,
		LookupFields:  lookup,
		Relations:     relations,
		Associations:  associations,
		UpdateSecrets: updateSecrets,
	}, nil
}

// expandAssignmentObject turns an {name, type} object reference into an
// object_id reference field resolving against the named collection.
func expandAssignmentObject(schema reconciler.Schema, fields map[string]any, raw any) (reconciler.Schema, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return schema, fmt.Errorf("%s: assignment_object must be a mapping with name and type", schema.Kind)
	}
	name, _ := obj["name"].(string)
	objType, _ := obj["type"].(string)
	if name == "" || objType == "" {
		return schema, fmt.Errorf("%s: assignment_object requires both name and type", schema.Kind)
	}
	if _, hasID := fields["object_id"]; hasID {
		return schema, fmt.Errorf("%s: assignment_object and object_id are mutually exclusive", schema.Kind)
	}

	refs := make(map[string]reconciler.Reference, len(schema.ReferenceFields)+1)
	for k, v := range schema.ReferenceFields {
		refs[k] = v
	}
	refs["object_id"] = reconciler.Reference{
		Endpoint:  endpoint(objType),
		NameField: "name",
		Required:  true,
	}
	schema.ReferenceFields = refs

	fields["object_id"] = name
	delete(fields, "assignment_object")
	return schema, nil
}

func hasRelation(schema reconciler.Schema, name string) bool {
	for _, rel := range schema.Relations {
		if rel.Field == name {
			return true
		}
	}
	return false
}

func hasAssociation(schema reconciler.Schema, name string) bool {
	for _, assoc := range schema.Associations {
		if assoc.Name == name {
			return true
		}
	}
	return false
}
