package uistate

import (
	"encoding/json"
	"log"

	"github.com/levalleyjack/slugtistics/pkg/types"
)

// Load reads a typed value from the store, falling back to def when
// the key is absent, the backend errors, or the stored JSON no longer
// parses. Corruption is never propagated to the caller.
func Load[T any](s types.KeyValueStore, key string, def T) T {
	data, ok, err := s.Get(key)
	if err != nil {
		log.Printf("uistate read %q failed: %v", key, err)
		return def
	}
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("uistate key %q corrupt, using default: %v", key, err)
		return def
	}
	return v
}

// Save writes a typed value through JSON serialization.
func Save[T any](s types.KeyValueStore, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, data)
}
