package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sync operations carried on the queue. The worker fetches the full
// transaction from the database, so messages stay lightweight.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// TransactionSyncMessage tells the worker that a transaction needs to be
// pushed to the export sheet. Only the ID and operation travel on the wire.
type TransactionSyncMessage struct {
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionSyncMessage creates an upsert sync message.
func NewTransactionSyncMessage(id string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Op:        OpUpsert,
		Timestamp: time.Now(),
	}
}

// NewTransactionDeleteMessage creates a delete sync message.
func NewTransactionDeleteMessage(id string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Op:        OpDelete,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionSyncMessageFromJSON creates a message from JSON bytes
func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Op != OpUpsert && msg.Op != OpDelete {
		return nil, fmt.Errorf("unknown sync op %q", msg.Op)
	}
	return &msg, nil
}
