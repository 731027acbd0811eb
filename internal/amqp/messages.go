package amqp

import (
	"encoding/json"
	"time"
)

// BundleSyncMessage signals that the local dataset changed and the bundle
// identified by SyncID should be pushed to the cloud. The worker reads the
// full dataset from the database, so the message stays small.
type BundleSyncMessage struct {
	SyncID    string    `json:"syncId"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBundleSyncMessage creates a sync message for the given sync ID.
func NewBundleSyncMessage(syncID, reason string) *BundleSyncMessage {
	return &BundleSyncMessage{
		SyncID:    syncID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BundleSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func BundleSyncMessageFromJSON(data []byte) (*BundleSyncMessage, error) {
	var msg BundleSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
