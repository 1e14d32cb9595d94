package boltstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"taskforce/internal/domain"
	"taskforce/internal/store"
	"taskforce/internal/workflow"
)

var (
	tasksBucket  = []byte("tasks")
	eventsBucket = []byte("events")
)

type taskRecord struct {
	ID          int64  `json:"id"`
	CustomerID  int64  `json:"customer_id"`
	PerformerID *int64 `json:"performer_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      int    `json:"status"`
	Version     int64  `json:"version"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type eventRecord struct {
	ID         string `json:"id"`
	TaskID     int64  `json:"task_id"`
	ActorID    int64  `json:"actor_id"`
	Action     string `json:"action"`
	FromStatus int    `json:"from_status"`
	ToStatus   int    `json:"to_status"`
	CreatedAt  int64  `json:"created_at"`
}

type Store struct {
	db *bolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open bolt database")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(tasksBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(eventsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create buckets")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Create(_ context.Context, t domain.Task) (domain.Task, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.UpdatedAt = t.CreatedAt
	t.Status = workflow.StatusNew
	t.Version = 1

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(tasksBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		t.ID = int64(seq)
		return putTask(b, t)
	})
	if err != nil {
		return domain.Task{}, errors.Wrap(err, "failed to create task")
	}
	return t, nil
}

func (s *Store) Get(_ context.Context, id int64) (domain.Task, error) {
	var t domain.Task
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		t, err = getTask(tx.Bucket(tasksBucket), id)
		return err
	})
	if err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func (s *Store) List(_ context.Context) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(tasksBucket).ForEach(func(_, v []byte) error {
			t, err := decodeTask(v)
			if err != nil {
				return err
			}
			tasks = append(tasks, t)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}
	return tasks, nil
}

func (s *Store) UpdateStatus(_ context.Context, id, expectedVersion int64, status workflow.Status, performerID *int64) (domain.Task, error) {
	var t domain.Task
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(tasksBucket)

		var err error
		t, err = getTask(b, id)
		if err != nil {
			return err
		}
		if t.Version != expectedVersion {
			return store.ErrConflict
		}

		t.Status = status
		t.PerformerID = performerID
		t.Version++
		t.UpdatedAt = time.Now().UTC()
		return putTask(b, t)
	})
	if err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// Events are keyed by task id, then creation time, then event id, so a
// prefix scan yields one task's history in order.
func (s *Store) AppendEvent(_ context.Context, e domain.TaskEvent) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(tasksBucket).Get(itob(e.TaskID)) == nil {
			return store.ErrNotFound
		}

		data, err := json.Marshal(eventRecord{
			ID:         e.ID,
			TaskID:     e.TaskID,
			ActorID:    e.ActorID,
			Action:     e.Action,
			FromStatus: int(e.FromStatus),
			ToStatus:   int(e.ToStatus),
			CreatedAt:  e.CreatedAt.UTC().UnixNano(),
		})
		if err != nil {
			return errors.Wrap(err, "failed to encode event")
		}

		key := append(itob(e.TaskID), itob(e.CreatedAt.UTC().UnixNano())...)
		key = append(key, e.ID...)
		return tx.Bucket(eventsBucket).Put(key, data)
	})
}

func (s *Store) ListEvents(_ context.Context, taskID int64) ([]domain.TaskEvent, error) {
	events := make([]domain.TaskEvent, 0)
	prefix := itob(taskID)

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(eventsBucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var rec eventRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return errors.Wrap(err, "failed to decode event")
			}
			events = append(events, domain.TaskEvent{
				ID:         rec.ID,
				TaskID:     rec.TaskID,
				ActorID:    rec.ActorID,
				Action:     rec.Action,
				FromStatus: workflow.Status(rec.FromStatus),
				ToStatus:   workflow.Status(rec.ToStatus),
				CreatedAt:  time.Unix(0, rec.CreatedAt).UTC(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func getTask(b *bolt.Bucket, id int64) (domain.Task, error) {
	v := b.Get(itob(id))
	if v == nil {
		return domain.Task{}, store.ErrNotFound
	}
	return decodeTask(v)
}

func putTask(b *bolt.Bucket, t domain.Task) error {
	data, err := json.Marshal(taskRecord{
		ID:          t.ID,
		CustomerID:  t.CustomerID,
		PerformerID: t.PerformerID,
		Title:       t.Title,
		Description: t.Description,
		Status:      int(t.Status),
		Version:     t.Version,
		CreatedAt:   t.CreatedAt.UnixNano(),
		UpdatedAt:   t.UpdatedAt.UnixNano(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode task")
	}
	return b.Put(itob(t.ID), data)
}

func decodeTask(v []byte) (domain.Task, error) {
	var rec taskRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return domain.Task{}, errors.Wrap(err, "failed to decode task")
	}
	return domain.Task{
		ID:          rec.ID,
		CustomerID:  rec.CustomerID,
		PerformerID: rec.PerformerID,
		Title:       rec.Title,
		Description: rec.Description,
		Status:      workflow.Status(rec.Status),
		Version:     rec.Version,
		CreatedAt:   time.Unix(0, rec.CreatedAt).UTC(),
		UpdatedAt:   time.Unix(0, rec.UpdatedAt).UTC(),
	}, nil
}

// big-endian keeps byte order equal to numeric order
func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
