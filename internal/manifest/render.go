package manifest

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Render runs a manifest document through text/template with the sprig
// function map before it is parsed, so manifests can interpolate
// user-supplied values ({{ .Values.env }}) and use the usual template
// helpers. Referencing a value that was not supplied is an error.
func Render(name string, data []byte, values map[string]any) ([]byte, error) {
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing manifest template %s: %w", name, err)
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, map[string]any{"Values": values}); err != nil {
		return nil, fmt.Errorf("rendering manifest %s: %w", name, err)
	}
	return out.Bytes(), nil
}

// ParseValues parses repeated key=value CLI arguments into a values map.
func ParseValues(pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid value %q (expected key=value)", pair)
		}
		values[key] = value
	}
	return values, nil
}
