package utils

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// DecodeTOMLFile decodes path into v. Keys missing from the file leave
// the matching fields of v untouched.
func DecodeTOMLFile(path string, v any) error {
	if _, err := toml.DecodeFile(path, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// DecodeTOMLTable decodes path without a target schema, so keys holding
// the wrong type can be skipped one by one instead of failing the file.
func DecodeTOMLTable(path string) (map[string]any, error) {
	table := make(map[string]any)
	if _, err := toml.DecodeFile(path, &table); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return table, nil
}

func lookup[T any](table map[string]any, key string) (T, bool) {
	v, ok := table[key].(T)
	return v, ok
}

// Table returns the sub-table name of a decoded TOML document.
func Table(table map[string]any, name string) (map[string]any, bool) {
	return lookup[map[string]any](table, name)
}

// Int returns key as an int. TOML integers decode as int64.
func Int(table map[string]any, key string) (int, bool) {
	v, ok := lookup[int64](table, key)
	return int(v), ok
}

func Bool(table map[string]any, key string) (bool, bool) {
	return lookup[bool](table, key)
}

func String(table map[string]any, key string) (string, bool) {
	return lookup[string](table, key)
}
