package amqp

import (
	"encoding/json"
	"time"

	"expensedash/internal/core"
)

// DatasetRefreshedMessage announces that an ingestion cycle produced a new
// snapshot. It carries metadata only; consumers fetch data over HTTP.
type DatasetRefreshedMessage struct {
	SnapshotID  string    `json:"snapshotId"`
	Source      string    `json:"source"`
	UsingSample bool      `json:"usingSample"`
	Records     int       `json:"records"`
	FetchedAt   time.Time `json:"fetchedAt"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewDatasetRefreshedMessage builds the message for snap.
func NewDatasetRefreshedMessage(snap core.Snapshot) *DatasetRefreshedMessage {
	return &DatasetRefreshedMessage{
		SnapshotID:  snap.ID,
		Source:      string(snap.Source),
		UsingSample: snap.UsingSample,
		Records:     snap.Len(),
		FetchedAt:   snap.FetchedAt,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DatasetRefreshedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DatasetRefreshedMessageFromJSON creates a message from JSON bytes
func DatasetRefreshedMessageFromJSON(data []byte) (*DatasetRefreshedMessage, error) {
	var msg DatasetRefreshedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
