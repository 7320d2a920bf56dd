package pkgjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chainkit-labs/hardhat-create-app/internal/platform"
)

// FileName is the package metadata file generated by npm and yarn.
const FileName = "package.json"

// Document is a JSON object whose member order is preserved.
type Document struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewDocument returns an empty object.
func NewDocument() *Document {
	return &Document{values: make(map[string]json.RawMessage)}
}

// Parse decodes a JSON object.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading object start: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	doc := NewDocument()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("reading value of %q: %w", key, err)
		}
		doc.setRaw(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading object end: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after object")
	}
	return doc, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Save writes the document to path with two-space indentation.
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	return platform.WriteFileAtomic(path, data, platform.ModeOf(path, platform.FilePerm))
}

// Keys returns the member names in order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Get decodes the value of key into v. It returns false when key is absent.
func (d *Document) Get(key string, v any) (bool, error) {
	raw, ok := d.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("decoding %q: %w", key, err)
	}
	return true, nil
}

// Object returns the value of key as a Document. Absent keys yield an empty
// document.
func (d *Document) Object(key string) (*Document, error) {
	raw, ok := d.values[key]
	if !ok || string(raw) == "null" {
		return NewDocument(), nil
	}
	obj, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", key, err)
	}
	return obj, nil
}

// Set encodes v and stores it under key. Existing keys keep their position.
func (d *Document) Set(key string, v any) error {
	raw, err := encode(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	d.setRaw(key, raw)
	return nil
}

// SetObject stores obj under key.
func (d *Document) SetObject(key string, obj *Document) error {
	raw, err := obj.Marshal()
	if err != nil {
		return err
	}
	d.setRaw(key, bytes.TrimSpace(raw))
	return nil
}

// Delete removes key.
func (d *Document) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Marshal renders the object with two-space indentation and a trailing newline.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if len(d.keys) == 0 {
		buf.WriteString("{}\n")
		return buf.Bytes(), nil
	}
	buf.WriteString("{\n")
	for i, key := range d.keys {
		name, err := encode(key)
		if err != nil {
			return nil, err
		}
		buf.WriteString("  ")
		buf.Write(name)
		buf.WriteString(": ")
		if err := json.Indent(&buf, d.values[key], "  ", "  "); err != nil {
			return nil, fmt.Errorf("formatting %q: %w", key, err)
		}
		if i < len(d.keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func (d *Document) setRaw(key string, raw json.RawMessage) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = raw
}

// encode marshals v without escaping &, < and >, which appear in scripts.
func encode(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}
