package enums

import "fmt"

// SyncChangeType is the change kind carried on the comanda intake stream.
type SyncChangeType string

const (
	SyncChangeAdded    SyncChangeType = "added"
	SyncChangeModified SyncChangeType = "modified"
	SyncChangeRemoved  SyncChangeType = "removed"
)

var validSyncChangeTypes = []SyncChangeType{
	SyncChangeAdded,
	SyncChangeModified,
	SyncChangeRemoved,
}

// IsValid reports whether the value matches the canonical change type enum.
func (s SyncChangeType) IsValid() bool {
	for _, candidate := range validSyncChangeTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSyncChangeType converts the raw string to SyncChangeType.
func ParseSyncChangeType(value string) (SyncChangeType, error) {
	for _, candidate := range validSyncChangeTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sync change type %q", value)
}
