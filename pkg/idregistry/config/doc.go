/*
Package config loads registry settings and seed entries from YAML or JSON.

# Overview

Config wraps a map[string]any and provides typed accessors that return a
default when a key is missing or holds the wrong type. Nested sections are
reached with Section.

	cfg, err := config.FromFile("registry.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	st := cfg.Section("store")
	driver := st.String("driver", "memory")
	ttl := st.Duration("cache_ttl", 0)

# Seed Entries

The "entries" key holds a list of id/label pairs:

	entries:
	  - id: 1
	    label: temp-sensor
	  - id: 2
	    label: humidity-sensor

Seed reports an error for a non-integral id, a missing or empty label, or
an entry that is not a mapping. YAML integers and JSON numbers are both
accepted.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
