package inventory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads the fabric file at path. The format follows the extension:
// .json (the default), .yaml/.yml or .toml.
//
// JSON and YAML accept a list of hosts, a list of {host, label} objects, an
// object whose keys are hosts, or an object with a "fabrics" list of either
// kind. TOML uses [[fabrics]] tables or a fabrics array of strings. File
// order is preserved.
func Load(path string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	var items []any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		items, err = yamlItems(data)
	case ".toml":
		items, err = tomlItems(data)
	default:
		items, err = jsonItems(data)
	}
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	targets, err := buildTargets(items)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return targets, nil
}

func jsonItems(data []byte) ([]any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	switch data[0] {
	case '[':
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		keys, err := jsonObjectKeys(data)
		if err != nil {
			return nil, err
		}
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, err
		}
		if list, ok := obj["fabrics"].([]any); ok {
			return list, nil
		}
		items := make([]any, 0, len(keys))
		for _, k := range keys {
			items = append(items, hostEntry(k, obj[k]))
		}
		return items, nil
	default:
		return nil, errors.New("expected a JSON array or object")
	}
}

// jsonObjectKeys returns the top-level keys of a JSON object in file order.
func jsonObjectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func yamlItems(data []byte) ([]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty file")
	}
	root := doc.Content[0]

	switch root.Kind {
	case yaml.SequenceNode:
		var items []any
		if err := root.Decode(&items); err != nil {
			return nil, err
		}
		return items, nil
	case yaml.MappingNode:
		var items []any
		for i := 0; i+1 < len(root.Content); i += 2 {
			key, val := root.Content[i], root.Content[i+1]
			if key.Value == "fabrics" && val.Kind == yaml.SequenceNode {
				var list []any
				if err := val.Decode(&list); err != nil {
					return nil, err
				}
				return list, nil
			}
			var v any
			if err := val.Decode(&v); err != nil {
				return nil, err
			}
			items = append(items, hostEntry(key.Value, v))
		}
		return items, nil
	default:
		return nil, errors.New("expected a YAML sequence or mapping")
	}
}

func tomlItems(data []byte) ([]any, error) {
	var doc struct {
		Fabrics []any `toml:"fabrics"`
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, err
	}
	return doc.Fabrics, nil
}

// hostEntry turns an object member into an item. The value may be a label
// string, an object with a label, or anything else (ignored).
func hostEntry(host string, v any) any {
	entry := map[string]any{"host": host}
	switch val := v.(type) {
	case string:
		entry["label"] = val
	case map[string]any:
		if label, ok := val["label"]; ok {
			entry["label"] = label
		}
	}
	return entry
}

func buildTargets(items []any) ([]Target, error) {
	if len(items) == 0 {
		return nil, errors.New("no fabrics listed")
	}
	seen := make(map[string]bool, len(items))
	targets := make([]Target, 0, len(items))
	for i, item := range items {
		var t Target
		switch v := item.(type) {
		case string:
			t.Host = v
		case map[string]any:
			host, _ := v["host"].(string)
			label, _ := v["label"].(string)
			t = Target{Host: host, Label: label}
		default:
			return nil, fmt.Errorf("entry %d: expected a host name or object, got %T", i+1, item)
		}

		t.Host = strings.TrimSpace(t.Host)
		t.Label = strings.TrimSpace(t.Label)
		if t.Host == "" {
			return nil, fmt.Errorf("entry %d: empty host", i+1)
		}
		if strings.Contains(t.Host, "://") || strings.ContainsAny(t.Host, "/ ") {
			return nil, fmt.Errorf("entry %d: %q must be a bare host name or address", i+1, t.Host)
		}
		key := strings.ToLower(t.Host)
		if seen[key] {
			return nil, fmt.Errorf("entry %d: duplicate fabric %q", i+1, t.Host)
		}
		seen[key] = true
		targets = append(targets, t)
	}
	return targets, nil
}
