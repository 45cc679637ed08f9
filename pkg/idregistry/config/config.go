package config

import (
	"fmt"
	"math"
	"time"
)

// Config wraps a map[string]any for type-safe value extraction.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Int64 returns the integer value for key, or defaultVal if missing or
// not an integral number.
func (c Config) Int64(key string, defaultVal int64) int64 {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	if n, ok := toInt64(v); ok {
		return n
	}
	return defaultVal
}

// Duration returns the duration value for key, or defaultVal if missing or invalid.
//
// Accepts:
//   - string: parsed with time.ParseDuration
//   - int, int64, float64: interpreted as seconds
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	switch val := c.data[key].(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	case int:
		return time.Duration(val) * time.Second
	case int64:
		return time.Duration(val) * time.Second
	case float64:
		return time.Duration(val * float64(time.Second))
	}
	return defaultVal
}

// Section returns the nested mapping under key as a Config.
// A missing or non-mapping value yields an empty Config.
func (c Config) Section(key string) Config {
	if m, ok := asMap(c.data[key]); ok {
		return New(m)
	}
	return New(nil)
}

// SeedEntry is one id/label pair from the entries list.
type SeedEntry struct {
	ID    int64
	Label string
}

// Seed parses the list under key into seed entries, preserving file order.
// A missing key yields no entries and no error.
func (c Config) Seed(key string) ([]SeedEntry, error) {
	v, ok := c.data[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list, got %T", key, v)
	}

	entries := make([]SeedEntry, 0, len(list))
	for i, item := range list {
		m, ok := asMap(item)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected a mapping, got %T", key, i, item)
		}
		rawID, ok := m["id"]
		if !ok {
			return nil, fmt.Errorf("%s[%d]: missing id", key, i)
		}
		id, ok := toInt64(rawID)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: id %v is not an integer", key, i, rawID)
		}
		label, _ := m["label"].(string)
		if label == "" {
			return nil, fmt.Errorf("%s[%d]: missing label for id %d", key, i, id)
		}
		entries = append(entries, SeedEntry{ID: id, Label: label})
	}
	return entries, nil
}

// toInt64 converts decoded numbers to int64.
// Floats convert only when they have no fractional part and fit.
func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int64:
		return val, true
	case uint64:
		if val <= math.MaxInt64 {
			return int64(val), true
		}
	case float64:
		if val == math.Trunc(val) && val >= math.MinInt64 && val < math.MaxInt64 {
			return int64(val), true
		}
	}
	return 0, false
}

// asMap normalizes the mapping types produced by the YAML and JSON decoders.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
