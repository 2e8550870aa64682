package resolver

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"aapctl/internal/gateway"
)

// Getter is the read-only slice of the gateway client the resolver needs.
type Getter interface {
	Get(ctx context.Context, path string) (map[string]any, error)
}

// strategy tries one interpretation of a reference. It reports the id
// and whether the interpretation applied; strategies never touch the
// network.
type strategy func(ref string) (int, bool)

// localStrategies are tried in order before falling back to a name
// lookup. First match wins.
var localStrategies = []strategy{
	digitsStrategy,
	pathStrategy,
}

// Resolve maps a human-supplied reference (integer id, numeric string,
// URL-ish path, or name) to a canonical integer id on the given
// collection endpoint.
//
// Not-found and ambiguous lookups both report ok=false without an
// error; the caller decides whether that is fatal. Only transport
// failures during the lookup branch return an error. At most one
// network read is issued, and only when no local strategy applies.
func Resolve(ctx context.Context, client Getter, ref any, endpoint, nameField string) (int, bool, error) {
	switch v := ref.(type) {
	case nil:
		return 0, false, nil
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		// YAML and JSON decoding may hand ids over as floats.
		if v == float64(int(v)) {
			return int(v), true, nil
		}
		return 0, false, nil
	case string:
		for _, s := range localStrategies {
			if id, ok := s(v); ok {
				return id, true, nil
			}
		}
		return lookup(ctx, client, v, endpoint, nameField)
	default:
		return 0, false, fmt.Errorf("unsupported reference type %T", ref)
	}
}

// digitsStrategy interprets a string of only digits as an id.
func digitsStrategy(ref string) (int, bool) {
	if ref == "" {
		return 0, false
	}
	for _, r := range ref {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(ref)
	if err != nil {
		return 0, false
	}
	return id, true
}

// pathStrategy interprets a path-like reference by taking its last
// non-empty segment, when that segment is numeric.
func pathStrategy(ref string) (int, bool) {
	if !strings.Contains(ref, "/") {
		return 0, false
	}
	segments := strings.Split(strings.TrimRight(ref, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == "" {
			continue
		}
		return digitsStrategy(segments[i])
	}
	return 0, false
}

// lookup queries the endpoint filtered by nameField. A single exact
// name match wins; otherwise a lone result wins regardless of exact
// match; anything else is not found.
func lookup(ctx context.Context, client Getter, ref, endpoint, nameField string) (int, bool, error) {
	query := url.Values{nameField: []string{ref}}
	body, err := client.Get(ctx, endpoint+"?"+query.Encode())
	if err != nil {
		return 0, false, fmt.Errorf("looking up %q on %s: %w", ref, endpoint, err)
	}

	items := gateway.Results(body)

	exact := make([]map[string]any, 0, 1)
	for _, item := range items {
		if fmt.Sprintf("%v", item[nameField]) == ref {
			exact = append(exact, item)
		}
	}
	if len(exact) == 1 {
		return itemID(exact[0])
	}
	if len(exact) == 0 && len(items) == 1 {
		return itemID(items[0])
	}
	return 0, false, nil
}

// itemID extracts the integer id field of an item.
func itemID(item map[string]any) (int, bool, error) {
	id, ok := AsInt(item["id"])
	if !ok {
		return 0, false, nil
	}
	return id, true, nil
}

// AsInt normalizes the numeric shapes a decoded JSON or YAML document
// can carry an id in.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	case string:
		id, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}
