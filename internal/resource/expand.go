package resource

import (
	"aapctl/internal/manifest"
)

// platformAuditorRole is the built-in role definition backing the
// platform auditor flag.
const platformAuditorRole = "Platform Auditor"

// ExpandEntries rewrites sugar entries into their canonical form before
// reconciliation. Currently this covers the user is_platform_auditor
// flag, which expands into a role_user_assignment entry for the
// "Platform Auditor" role: true ensures the assignment, false removes
// it. The flag itself is not a user payload field.
func ExpandEntries(entries []manifest.Entry) []manifest.Entry {
	out := make([]manifest.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Kind != "user" {
			out = append(out, entry)
			continue
		}

		raw, ok := entry.Fields["is_platform_auditor"]
		if !ok {
			out = append(out, entry)
			continue
		}

		stripped := make(map[string]any, len(entry.Fields))
		for k, v := range entry.Fields {
			if k != "is_platform_auditor" {
				stripped[k] = v
			}
		}
		entry.Fields = stripped
		out = append(out, entry)

		// Auditor handling only applies to states that converge the
		// user. An absent user makes the assignment moot, and an
		// exists assertion must stay read-only.
		if entry.State != "" && entry.State != "present" && entry.State != "enforced" {
			continue
		}

		auditor, _ := raw.(bool)
		assignmentState := "present"
		if !auditor {
			assignmentState = "absent"
		}
		out = append(out, manifest.Entry{
			Kind:  "role_user_assignment",
			State: assignmentState,
			Fields: map[string]any{
				"role_definition": platformAuditorRole,
				"user":            entry.Fields["username"],
			},
		})
	}
	return out
}
