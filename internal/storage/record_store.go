package storage

import (
	"encoding/json"
	"fmt"

	"github.com/AHUNAM/regtest-audit/internal/audit"
)

// RecordStore persists audit records so repeated runs against the same chain
// accumulate an inspectable history.
type RecordStore struct {
	db *DB
}

// NewRecordStore creates a new RecordStore
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

// recordKey creates the primary key for a record
func recordKey(txid string) []byte {
	return []byte(prefixRecords + txid)
}

// heightKey creates the height-index key; heights are zero-padded so byte
// order matches numeric order.
func heightKey(height int64, txid string) []byte {
	return []byte(fmt.Sprintf("%s%016x:%s", prefixByHeight, uint64(height), txid))
}

// Save stores a record under its txid and indexes it by confirming height.
func (s *RecordStore) Save(rec *audit.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := s.db.put(recordKey(rec.TxID), data); err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	if err := s.db.put(heightKey(rec.BlockHeight, rec.TxID), []byte(rec.TxID)); err != nil {
		return fmt.Errorf("failed to index record: %w", err)
	}
	return nil
}

// Get retrieves a record by its txid, returning nil when absent.
func (s *RecordStore) Get(txid string) (*audit.Record, error) {
	data, err := s.db.get(recordKey(txid))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var rec audit.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}

// ByHeight retrieves all records confirmed in the height range [from, to].
func (s *RecordStore) ByHeight(from, to int64) ([]*audit.Record, error) {
	if to < from {
		return nil, nil
	}

	lower := []byte(fmt.Sprintf("%s%016x:", prefixByHeight, uint64(from)))
	upper := []byte(fmt.Sprintf("%s%016x:", prefixByHeight, uint64(to)+1))

	var records []*audit.Record
	err := s.db.scan(lower, upper, func(_, value []byte) error {
		rec, err := s.Get(string(value))
		if err != nil {
			return err
		}
		if rec != nil {
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
