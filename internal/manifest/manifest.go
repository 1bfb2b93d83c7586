// Package manifest loads package metadata files and preserves the source
// order of their conditional exports maps.
//
// Order matters: condition lookup is first-match-wins, so the exports
// structure cannot pass through an ordinary Go map. Subpath and condition
// maps are kept in insertion-ordered maps instead.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"typeref/internal/fsx"
)

// ExportValue is one node of a parsed exports structure: either a direct
// target path, or an ordered condition map whose values are themselves
// ExportValues (conditions may nest).
type ExportValue struct {
	Target     string
	Conditions *orderedmap.OrderedMap[string, *ExportValue]
}

// IsTarget reports whether this value resolves directly to a path.
func (v *ExportValue) IsTarget() bool {
	return v != nil && v.Conditions == nil && v.Target != ""
}

// Manifest is a parsed package metadata file.
type Manifest struct {
	Name    string
	Version string

	// Dir is the package directory, i.e. the directory holding the
	// manifest file. Export targets are relative to it.
	Dir string

	// Exports maps subpath patterns ("." / "./common" / "./*") to export
	// values, in source order. Nil when the manifest declares no exports.
	Exports *orderedmap.OrderedMap[string, *ExportValue]
}

type rawManifest struct {
	Name    string          `json:"name"`
	Version string          `json:"version"`
	Exports json.RawMessage `json:"exports"`
}

// Load reads and parses the manifest at path.
func Load(fs *fsx.Snapshot, path string) (*Manifest, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, filepath.Dir(path))
}

// Parse decodes manifest bytes. dir becomes the package directory.
func Parse(data []byte, dir string) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse manifest in %s: %w", dir, err)
	}
	m := &Manifest{Name: raw.Name, Version: raw.Version, Dir: dir}
	if len(raw.Exports) > 0 {
		exports, err := parseExports(raw.Exports)
		if err != nil {
			return nil, fmt.Errorf("parse exports of %q: %w", raw.Name, err)
		}
		m.Exports = exports
	}
	return m, nil
}

// parseExports walks the raw exports JSON token by token, preserving key
// order. Three top-level shapes are normalized:
//
//	"./lib/index.js"           -> {".": target}
//	{"types": "...", ...}      -> {".": conditions}
//	{".": ..., "./common": ...} -> subpath map as written
func parseExports(raw json.RawMessage) (*orderedmap.OrderedMap[string, *ExportValue], error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	out := orderedmap.New[string, *ExportValue]()

	switch t := tok.(type) {
	case string:
		out.Set(".", &ExportValue{Target: t})
		return out, nil
	case json.Delim:
		if t != '{' {
			return nil, fmt.Errorf("unsupported exports shape %v", t)
		}
	default:
		return nil, fmt.Errorf("unsupported exports shape %T", tok)
	}

	// Peek the first key to decide between a subpath map and a bare
	// condition map for the "." subpath.
	conditions := orderedmap.New[string, *ExportValue]()
	isSubpathMap := false
	first := true

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected exports key %v", keyTok)
		}
		if first {
			isSubpathMap = key == "." || len(key) > 1 && key[0] == '.' && key[1] == '/'
			first = false
		}

		val, err := parseExportValue(dec)
		if err != nil {
			return nil, err
		}
		if isSubpathMap {
			out.Set(key, val)
		} else {
			conditions.Set(key, val)
		}
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}

	if !isSubpathMap {
		out.Set(".", &ExportValue{Conditions: conditions})
	}
	return out, nil
}

// parseExportValue decodes one export value: a target string, a nested
// condition object, an array of fallbacks (first usable entry wins), or
// null (an explicitly blocked subpath).
func parseExportValue(dec *json.Decoder) (*ExportValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case string:
		return &ExportValue{Target: t}, nil
	case nil:
		// null blocks the subpath: neither target nor conditions.
		return &ExportValue{}, nil
	case json.Delim:
		switch t {
		case '{':
			conditions := orderedmap.New[string, *ExportValue]()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected condition key %v", keyTok)
				}
				val, err := parseExportValue(dec)
				if err != nil {
					return nil, err
				}
				conditions.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return &ExportValue{Conditions: conditions}, nil
		case '[':
			var chosen *ExportValue
			for dec.More() {
				val, err := parseExportValue(dec)
				if err != nil {
					return nil, err
				}
				if chosen == nil && (val.IsTarget() || val.Conditions != nil) {
					chosen = val
				}
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			if chosen == nil {
				chosen = &ExportValue{}
			}
			return chosen, nil
		}
	}
	return nil, fmt.Errorf("unsupported export value %v", tok)
}
