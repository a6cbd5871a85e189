package repository

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"go-tamper-inspector/pkg/models"
)

var recordsBucket = []byte("records")
var cameraIndexBucket = []byte("camera_index")

// boltScoreRepository archives score records in a bbolt file. Records are
// stored as JSON keyed by analysis ID; a per-camera index keyed by
// camera, timestamp and ID supports newest-first history queries.
type boltScoreRepository struct {
	db *bbolt.DB
}

// NewBoltScoreRepository opens (creating if needed) the archive at path
func NewBoltScoreRepository(path string) (ScoreRepository, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(recordsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(cameraIndexBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &boltScoreRepository{db: db}, nil
}

func (r *boltScoreRepository) SaveRecord(ctx context.Context, record *models.ScoreRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil || record.ID == "" {
		return fmt.Errorf("record must have an ID")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(recordsBucket).Put([]byte(record.ID), data); err != nil {
			return err
		}
		if record.CameraID == "" {
			return nil
		}
		return tx.Bucket(cameraIndexBucket).Put(indexKey(record), []byte(record.ID))
	})
}

func (r *boltScoreRepository) GetRecord(ctx context.Context, id string) (*models.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record *models.ScoreRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(recordsBucket).Get([]byte(id))
		if data == nil {
			return ErrRecordNotFound
		}
		record = &models.ScoreRecord{}
		return json.Unmarshal(data, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *boltScoreRepository) ListByCamera(ctx context.Context, cameraID string, limit int) ([]*models.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if cameraID == "" {
		return r.listAll(limit)
	}

	records := make([]*models.ScoreRecord, 0, limit)
	err := r.db.View(func(tx *bbolt.Tx) error {
		idx := tx.Bucket(cameraIndexBucket).Cursor()
		recs := tx.Bucket(recordsBucket)

		prefix := append([]byte(cameraID), 0x00)

		// Position just past the camera's key range, then walk backwards
		// so newest records come out first
		end := append([]byte(cameraID), 0x01)
		k, v := idx.Seek(end)
		if k == nil {
			k, v = idx.Last()
		} else {
			k, v = idx.Prev()
		}
		for ; k != nil && bytes.HasPrefix(k, prefix); k, v = idx.Prev() {
			data := recs.Get(v)
			if data == nil {
				continue
			}
			record := &models.ScoreRecord{}
			if err := json.Unmarshal(data, record); err != nil {
				return err
			}
			records = append(records, record)
			if len(records) >= limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// listAll scans every record and sorts in memory, newest first
func (r *boltScoreRepository) listAll(limit int) ([]*models.ScoreRecord, error) {
	var records []*models.ScoreRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(recordsBucket).ForEach(func(k, v []byte) error {
			record := &models.ScoreRecord{}
			if err := json.Unmarshal(v, record); err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (r *boltScoreRepository) Close() error {
	return r.db.Close()
}

// indexKey builds camera + 0x00 + big-endian unix nanos + ID so that a
// byte-ordered scan of one camera's range is a time-ordered scan
func indexKey(record *models.ScoreRecord) []byte {
	key := make([]byte, 0, len(record.CameraID)+1+8+len(record.ID))
	key = append(key, record.CameraID...)
	key = append(key, 0x00)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(record.Timestamp.UnixNano()))
	key = append(key, ts[:]...)
	key = append(key, record.ID...)
	return key
}
