package mongodb

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mamadbah2/tally/internal/domain/models"
)

// snapshotDocument keeps the snapshot as one serialized JSON payload so the
// document matches what the other stores write.
type snapshotDocument struct {
	Key       string    `bson:"_id"`
	Version   int       `bson:"version"`
	Payload   []byte    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func newSnapshotDocument(key string, snap models.Snapshot, now time.Time) (snapshotDocument, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return snapshotDocument{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return snapshotDocument{Key: key, Version: snap.Version, Payload: payload, UpdatedAt: now}, nil
}

func (d snapshotDocument) decode() (models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(d.Payload, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", d.Key, err)
	}
	return snap, nil
}
