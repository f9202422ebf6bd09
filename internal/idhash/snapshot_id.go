package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeSnapshotID computes a deterministic id for a metrics history row.
// Formula: SHA256(user_id|trigger|updated_at_unix_nano)
// Returns hex-encoded hash (64 characters).
func ComputeSnapshotID(userID string, trigger string, updatedAtNano int64) string {
	data := fmt.Sprintf("%s|%s|%d",
		userID,
		trigger,
		updatedAtNano,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
