package services

import (
	"log"

	"blog/pkg/storage"
)

// AssetStore persists uploaded files under generated names.
type AssetStore interface {
	Save(upload storage.Upload) (string, error)
	Remove(name string) error
}

// discardAsset removes name and only logs a failure. Callers use it after
// the record write it depends on has already succeeded or been abandoned.
func discardAsset(assets AssetStore, name, reason string) {
	if name == "" {
		return
	}
	if err := assets.Remove(name); err != nil {
		log.Printf("Warning: failed to remove %s asset %s: %v", reason, name, err)
	}
}
