package resource

import (
	"context"
	"fmt"
	"strings"

	"aapctl/internal/manifest"
	"aapctl/internal/reconciler"
	"aapctl/pkg/logging"
)

// ControllerCandidates are the controller API bases probed in order.
// Gateway deployments proxy the controller under the gateway path;
// older setups expose it directly.
var ControllerCandidates = []string{
	"/api/gateway/v1/controller/api/v2",
	"/api/controller/v2",
}

// pinger is the slice of the gateway client controller discovery needs.
type pinger interface {
	Get(ctx context.Context, path string) (map[string]any, error)
}

// DetectControllerBase finds a working controller API base by probing
// each candidate's ping endpoint. The result is valid for the lifetime
// of the connection and should be cached by the caller.
func DetectControllerBase(ctx context.Context, api pinger) (string, error) {
	for _, base := range ControllerCandidates {
		if _, err := api.Get(ctx, base+"/ping/"); err != nil {
			logging.Debug("Resource", "Controller probe %s failed: %v", base, err)
			continue
		}
		logging.Debug("Resource", "Controller API found at %s", base)
		return base, nil
	}
	return "", fmt.Errorf("could not find controller API; tried: %s",
		strings.Join(ControllerCandidates, ", "))
}

// NeedsController reports whether an entry uses relations served by the
// controller API, so discovery only runs when something requires it.
func NeedsController(schema reconciler.Schema, entry manifest.Entry) bool {
	if schema.Kind != "organization" {
		return false
	}
	if _, ok := entry.Relations[RelationDefaultEnvironment]; ok {
		return true
	}
	_, ok := entry.Relations[AssociationGalaxyCredentials]
	return ok
}

// WireController fills in the controller-served relation endpoints of a
// schema copy. Organization ids are shared between the gateway and the
// controller, so the controller item path reuses the gateway id.
func WireController(schema reconciler.Schema, base string) reconciler.Schema {
	wired := schema

	wired.Relations = make([]reconciler.Relation, len(schema.Relations))
	for i, rel := range schema.Relations {
		if rel.Field == RelationDefaultEnvironment {
			rel.Endpoint = base + "/execution_environments/"
			rel.ItemEndpoint = base + "/organizations/"
		}
		wired.Relations[i] = rel
	}

	wired.Associations = make([]reconciler.Association, len(schema.Associations))
	for i, assoc := range schema.Associations {
		if assoc.Name == AssociationGalaxyCredentials {
			assoc.ResolveEndpoint = base + "/credentials/"
			assoc.ItemEndpoint = base + "/organizations/"
		}
		wired.Associations[i] = assoc
	}
	return wired
}
