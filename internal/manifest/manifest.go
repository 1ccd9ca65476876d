package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultURL is the remote manifest endpoint. The sync run, the manifest
// loader, and the config defaults all share this single constant.
const DefaultURL = "https://docshell.github.io/manifest.json"

// Item is one navigable page: a display title and the location of its
// source document. URI may be absolute or relative to the manifest host.
type Item struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Manifest maps stable string keys to Items. The source JSON object's
// insertion order defines display order, which Go maps do not preserve,
// so the type carries its own key slice. Keys double as the generated
// filename stems (<key>.html) during sync.
type Manifest struct {
	keys  []string
	items map[string]Item
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{items: make(map[string]Item)}
}

// Set adds or replaces an entry. A key seen for the first time is appended
// to the display order; re-setting an existing key keeps its position.
func (m *Manifest) Set(key string, item Item) {
	if m.items == nil {
		m.items = make(map[string]Item)
	}
	if _, exists := m.items[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.items[key] = item
}

// Get returns the entry for key.
func (m *Manifest) Get(key string) (Item, bool) {
	item, ok := m.items[key]
	return item, ok
}

// Has reports whether key is present.
func (m *Manifest) Has(key string) bool {
	_, ok := m.items[key]
	return ok
}

// Keys returns the keys in display order.
func (m *Manifest) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.keys)
}

// First returns the first key in display order, the fallback target when a
// requested key is absent or unknown.
func (m *Manifest) First() (string, bool) {
	if len(m.keys) == 0 {
		return "", false
	}
	return m.keys[0], true
}

// UnmarshalJSON parses a JSON object while recording key order. The stream
// is walked token by token because encoding/json's map decoding would lose
// the order the object was written in.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("manifest must be a JSON object, got %v", tok)
	}

	m.keys = nil
	m.items = make(map[string]Item)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading manifest key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected manifest key token %v", keyTok)
		}

		var item Item
		if err := dec.Decode(&item); err != nil {
			return fmt.Errorf("manifest entry %q: %w", key, err)
		}
		m.Set(key, item)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	return nil
}

// MarshalJSON writes the entries back out in display order, so a synced
// local mirror round-trips byte-order-faithfully.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.items[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
