package customize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errNotObject = errors.New("package.json must contain a JSON object")

// manifest is a package.json whose top-level key order survives a rewrite.
type manifest struct {
	keys   []string
	values map[string]json.RawMessage
}

func parseManifest(data []byte) (*manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotObject
	}

	m := &manifest{values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		if _, seen := m.values[key]; !seen {
			m.keys = append(m.keys, key)
		}
		m.values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *manifest) set(key string, raw json.RawMessage) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = raw
}

// mergeDependencies overlays deps onto the manifest's dependency map.
func (m *manifest) mergeDependencies(deps map[string]string) error {
	current := map[string]string{}
	if raw, ok := m.values["dependencies"]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("decode dependencies: %w", err)
		}
	}
	for name, version := range deps {
		current[name] = version
	}
	raw, err := marshalJSON(current)
	if err != nil {
		return err
	}
	m.set("dependencies", raw)
	return nil
}

// encode renders the manifest with 2-space indentation and a trailing newline.
func (m *manifest) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		name, err := marshalJSON(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteString(": ")
		if err := json.Indent(&buf, m.values[key], "  ", "  "); err != nil {
			return nil, fmt.Errorf("format %q: %w", key, err)
		}
	}
	if len(m.keys) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// marshalJSON encodes v compactly without HTML escaping, so version ranges
// such as ">=1 <2" stay readable.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
