package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"taskforce/internal/domain"
	"taskforce/internal/store"
	"taskforce/internal/workflow"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id  INTEGER NOT NULL,
	performer_id INTEGER,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	status       INTEGER NOT NULL,
	version      INTEGER NOT NULL,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS task_events (
	id          TEXT PRIMARY KEY,
	task_id     INTEGER NOT NULL REFERENCES tasks(id),
	actor_id    INTEGER NOT NULL,
	action      TEXT NOT NULL,
	from_status INTEGER NOT NULL,
	to_status   INTEGER NOT NULL,
	created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS task_events_task_id ON task_events(task_id, created_at);
`

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to apply schema")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = t.CreatedAt
	t.Status = workflow.StatusNew
	t.Version = 1

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks(customer_id, performer_id, title, description, status, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.CustomerID, nullableID(t.PerformerID), t.Title, t.Description, int(t.Status), t.Version,
		t.CreatedAt.UnixNano(), t.UpdatedAt.UnixNano())
	if err != nil {
		return domain.Task{}, errors.Wrap(err, "failed to insert task")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Task{}, errors.Wrap(err, "failed to read task id")
	}
	t.ID = id
	return t, nil
}

func (s *Store) Get(ctx context.Context, id int64) (domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, customer_id, performer_id, title, description, status, version, created_at, updated_at
		FROM tasks
		WHERE id = ?
	`, id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Task{}, errors.Wrapf(err, "failed to load task %d", id)
	}
	return t, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_id, performer_id, title, description, status, version, created_at, updated_at
		FROM tasks
		ORDER BY id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan task")
		}
		tasks = append(tasks, t)
	}
	return tasks, errors.Wrap(rows.Err(), "failed to iterate tasks")
}

func (s *Store) UpdateStatus(ctx context.Context, id, expectedVersion int64, status workflow.Status, performerID *int64) (domain.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET status = ?,
		    performer_id = ?,
		    version = version + 1,
		    updated_at = ?
		WHERE id = ?
		  AND version = ?
	`, int(status), nullableID(performerID), time.Now().UTC().UnixNano(), id, expectedVersion)
	if err != nil {
		return domain.Task{}, errors.Wrapf(err, "failed to update task %d", id)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Task{}, errors.Wrap(err, "failed to read affected rows")
	}

	if affected == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, store.ErrNotFound
		}
		if err != nil {
			return domain.Task{}, errors.Wrapf(err, "failed to check task %d", id)
		}
		return domain.Task{}, store.ErrConflict
	}

	t, err := scanTask(tx.QueryRowContext(ctx, `
		SELECT id, customer_id, performer_id, title, description, status, version, created_at, updated_at
		FROM tasks
		WHERE id = ?
	`, id))
	if err != nil {
		return domain.Task{}, errors.Wrapf(err, "failed to reload task %d", id)
	}

	if err := tx.Commit(); err != nil {
		return domain.Task{}, errors.Wrap(err, "failed to commit status update")
	}
	return t, nil
}

func (s *Store) AppendEvent(ctx context.Context, e domain.TaskEvent) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO task_events(id, task_id, actor_id, action, from_status, to_status, created_at)
		SELECT ?, id, ?, ?, ?, ?, ?
		FROM tasks
		WHERE id = ?
	`, e.ID, e.ActorID, e.Action, int(e.FromStatus), int(e.ToStatus), e.CreatedAt.UTC().UnixNano(), e.TaskID)
	if err != nil {
		return errors.Wrapf(err, "failed to append event for task %d", e.TaskID)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context, taskID int64) ([]domain.TaskEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, actor_id, action, from_status, to_status, created_at
		FROM task_events
		WHERE task_id = ?
		ORDER BY created_at, rowid
	`, taskID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list events for task %d", taskID)
	}
	defer rows.Close()

	events := make([]domain.TaskEvent, 0)
	for rows.Next() {
		var (
			e         domain.TaskEvent
			from, to  int
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.TaskID, &e.ActorID, &e.Action, &from, &to, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan event")
		}
		e.FromStatus = workflow.Status(from)
		e.ToStatus = workflow.Status(to)
		e.CreatedAt = time.Unix(0, createdAt).UTC()
		events = append(events, e)
	}
	return events, errors.Wrap(rows.Err(), "failed to iterate events")
}

type scanner interface {
	Scan(dest ...any) error
}

// scanTask keeps the raw status as stored; validation happens when the task
// enters the workflow.
func scanTask(row scanner) (domain.Task, error) {
	var (
		t                    domain.Task
		performer            sql.NullInt64
		status               int
		createdAt, updatedAt int64
	)
	err := row.Scan(&t.ID, &t.CustomerID, &performer, &t.Title, &t.Description,
		&status, &t.Version, &createdAt, &updatedAt)
	if err != nil {
		return domain.Task{}, err
	}

	if performer.Valid {
		id := performer.Int64
		t.PerformerID = &id
	}
	t.Status = workflow.Status(status)
	t.CreatedAt = time.Unix(0, createdAt).UTC()
	t.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return t, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
