package resource

import (
	"fmt"
	"sort"

	"aapctl/internal/reconciler"
)

// GatewayAPIBase is the root of the gateway's v1 REST API.
const GatewayAPIBase = "/api/gateway/v1/"

// Relation and association names wired at apply time for kinds whose
// auxiliary relations live on the controller API.
const (
	RelationDefaultEnvironment   = "default_environment"
	AssociationGalaxyCredentials = "galaxy_credentials"
)

func endpoint(collection string) string {
	return GatewayAPIBase + collection + "/"
}

// catalog holds one schema per managed resource kind. The reconciler is
// generic; everything kind-specific lives here as data.
var catalog = map[string]reconciler.Schema{
	"user": {
		Kind:         "user",
		Endpoint:     endpoint("users"),
		UniqueKey:    []string{"username"},
		SecretFields: []string{"password"},
		RenameFields: map[string]string{"new_username": "username"},
		DisplayFields: []string{
			"id", "username", "email", "first_name", "last_name", "is_superuser",
		},
	},

	"organization": {
		Kind:      "organization",
		Endpoint:  endpoint("organizations"),
		UniqueKey: []string{"name"},
		RenameFields: map[string]string{
			"new_name": "name",
		},
		Relations: []reconciler.Relation{
			// Endpoints are wired per run once the controller API base
			// has been discovered; see WireController.
			{Field: RelationDefaultEnvironment, NameField: "name"},
		},
		Associations: []reconciler.Association{
			{Name: AssociationGalaxyCredentials, NameField: "name"},
		},
		DisplayFields: []string{"id", "name", "description"},
	},

	"ca_certificate": {
		Kind:          "ca_certificate",
		Endpoint:      endpoint("ca_certificates"),
		UniqueKey:     []string{"name"},
		DisplayFields: []string{"id", "name", "remote_id", "sha256"},
	},

	"authenticator_map": {
		Kind:      "authenticator_map",
		Endpoint:  endpoint("authenticator_maps"),
		UniqueKey: []string{"name"},
		RenameFields: map[string]string{
			"new_name":          "name",
			"new_authenticator": "authenticator",
		},
		ReferenceFields: map[string]reconciler.Reference{
			"authenticator": {
				Endpoint:  endpoint("authenticators"),
				NameField: "name",
				Required:  true,
			},
		},
		DisplayFields: []string{"id", "name", "authenticator", "map_type", "order", "revoke"},
	},

	"role_definition": {
		Kind:      "role_definition",
		Endpoint:  endpoint("role_definitions"),
		UniqueKey: []string{"name"},
		RenameFields: map[string]string{
			"new_name": "name",
		},
		DisplayFields: []string{"id", "name", "content_type", "description"},
	},

	"role_user_assignment": {
		Kind:         "role_user_assignment",
		Endpoint:     endpoint("role_user_assignments"),
		UniqueKey:    []string{"role_definition", "user", "object_id"},
		OptionalKeys: []string{"object_id"},
		ReferenceFields: map[string]reconciler.Reference{
			"role_definition": {
				Endpoint:  endpoint("role_definitions"),
				NameField: "name",
				Required:  true,
			},
			"user": {
				Endpoint:  endpoint("users"),
				NameField: "username",
				Required:  true,
			},
		},
		// Assignments cannot be edited remotely, only created and deleted.
		Immutable:     true,
		DisplayFields: []string{"id", "role_definition", "user", "object_id"},
	},

	"ui_plugin_route": {
		Kind:      "ui_plugin_route",
		Endpoint:  endpoint("ui_plugin_routes"),
		UniqueKey: []string{"name"},
		RenameFields: map[string]string{
			"new_name": "name",
		},
		ReferenceFields: map[string]reconciler.Reference{
			"http_port": {
				Endpoint:  endpoint("http_ports"),
				NameField: "name",
				Required:  true,
			},
			"service_cluster": {
				Endpoint:  endpoint("service_clusters"),
				NameField: "name",
				Required:  true,
			},
		},
		DisplayFields: []string{
			"id", "name", "ui_plugin_path", "service_cluster", "service_port", "order",
		},
	},

	"role_team_assignment": {
		Kind:         "role_team_assignment",
		Endpoint:     endpoint("role_team_assignments"),
		UniqueKey:    []string{"role_definition", "team", "object_id"},
		OptionalKeys: []string{"object_id"},
		ReferenceFields: map[string]reconciler.Reference{
			"role_definition": {
				Endpoint:  endpoint("role_definitions"),
				NameField: "name",
				Required:  true,
			},
			"team": {
				Endpoint:  endpoint("teams"),
				NameField: "name",
				Required:  true,
			},
		},
		Immutable:     true,
		DisplayFields: []string{"id", "role_definition", "team", "object_id"},
	},
}

// SchemaFor returns the schema for a kind.
func SchemaFor(kind string) (reconciler.Schema, error) {
	schema, ok := catalog[kind]
	if !ok {
		return reconciler.Schema{}, fmt.Errorf("unknown resource kind %q (known: %v)", kind, Kinds())
	}
	return schema, nil
}

// Kinds lists all managed resource kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(catalog))
	for kind := range catalog {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
