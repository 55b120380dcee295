package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/lib/pq"
	"github.com/subtrackhq/go-subtrack-backend/internal/model"
)

type DBConfig struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepoFromConfig(cfg *DBConfig) (*PostgresRepo, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Pass, cfg.Name)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// ping
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &PostgresRepo{DB: db}, nil
}

func NewPostgresRepo() (*PostgresRepo, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=127.0.0.1 port=5432 user=postgres password=postgres dbname=subtrack_db sslmode=disable"
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresRepo{DB: db}, nil
}

func (r *PostgresRepo) RunMigrations(ctx context.Context) error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
		`CREATE TABLE IF NOT EXISTS admins (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            username VARCHAR(100) UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
        );`,
		`CREATE TABLE IF NOT EXISTS subtasks (
            id TEXT PRIMARY KEY,
            project_id TEXT NOT NULL,
            task_name TEXT NOT NULL,
            description TEXT,
            url TEXT,
            priority TEXT NOT NULL DEFAULT 'medium',
            status TEXT NOT NULL DEFAULT 'todo',
            assign_to TEXT,
            assign_date TIMESTAMP WITH TIME ZONE,
            due_date TIMESTAMP WITH TIME ZONE,
            current_stage_index INT,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
        );`,
		`CREATE TABLE IF NOT EXISTS stages (
            subtask_id TEXT NOT NULL REFERENCES subtasks(id) ON DELETE CASCADE,
            position INT NOT NULL,
            name TEXT NOT NULL,
            completed BOOLEAN NOT NULL DEFAULT FALSE,
            completed_by TEXT,
            completed_at TIMESTAMP WITH TIME ZONE,
            PRIMARY KEY (subtask_id, position)
        );`,
		`CREATE TABLE IF NOT EXISTS time_logs (
            id BIGSERIAL PRIMARY KEY,
            subtask_id TEXT NOT NULL REFERENCES subtasks(id) ON DELETE CASCADE,
            user_id TEXT NOT NULL,
            start_time TIMESTAMP WITH TIME ZONE NOT NULL,
            end_time TIMESTAMP WITH TIME ZONE
        );`,
		`CREATE INDEX IF NOT EXISTS idx_time_logs_subtask ON time_logs(subtask_id, id);`,
		`CREATE INDEX IF NOT EXISTS idx_subtasks_project ON subtasks(project_id);`,
	}
	for _, q := range queries {
		if _, err := r.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepo) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at
         FROM admins WHERE username = $1 LIMIT 1`, username)

	var a model.Admin
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepo) UpsertAdmin(ctx context.Context, username, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO admins (username, password_hash) VALUES ($1,$2)
		ON CONFLICT (username) DO UPDATE SET password_hash = $2
	`, username, passwordHash)
	return err
}

// CreateSubtask inserts the record with its stages and logs in one tx.
func (r *PostgresRepo) CreateSubtask(ctx context.Context, s *model.Subtask) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO subtasks (
            id, project_id, task_name, description, url,
            priority, status, assign_to, assign_date, due_date,
            current_stage_index, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    `,
		s.ID, s.ProjectID, s.TaskName, s.Description, s.URL,
		string(s.Priority), string(s.Status), nullString(s.AssignTo.String()),
		s.AssignDate, s.DueDate, nullInt(s.CurrentStageIndex),
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if err := insertStages(ctx, tx, s); err != nil {
		return err
	}
	if err := insertTimeLogs(ctx, tx, s); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveSubtask overwrites the record; stages and logs are replaced wholesale,
// which keeps position order authoritative.
func (r *PostgresRepo) SaveSubtask(ctx context.Context, s *model.Subtask) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        UPDATE subtasks SET
            project_id = $2, task_name = $3, description = $4, url = $5,
            priority = $6, status = $7, assign_to = $8, assign_date = $9,
            due_date = $10, current_stage_index = $11, updated_at = $12
        WHERE id = $1
    `,
		s.ID, s.ProjectID, s.TaskName, s.Description, s.URL,
		string(s.Priority), string(s.Status), nullString(s.AssignTo.String()),
		s.AssignDate, s.DueDate, nullInt(s.CurrentStageIndex), s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrSubtaskNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM stages WHERE subtask_id = $1`, s.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM time_logs WHERE subtask_id = $1`, s.ID); err != nil {
		return err
	}
	if err := insertStages(ctx, tx, s); err != nil {
		return err
	}
	if err := insertTimeLogs(ctx, tx, s); err != nil {
		return err
	}
	return tx.Commit()
}

func insertStages(ctx context.Context, tx *sql.Tx, s *model.Subtask) error {
	for i, st := range s.Stages {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO stages (subtask_id, position, name, completed, completed_by, completed_at)
            VALUES ($1,$2,$3,$4,$5,$6)
        `, s.ID, i, st.Name, st.Completed, nullString(st.CompletedBy), st.CompletedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func insertTimeLogs(ctx context.Context, tx *sql.Tx, s *model.Subtask) error {
	for _, e := range s.TimeLogs {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO time_logs (subtask_id, user_id, start_time, end_time)
            VALUES ($1,$2,$3,$4)
        `, s.ID, e.UserID, e.StartTime, e.EndTime)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepo) GetSubtask(ctx context.Context, id string) (*model.Subtask, error) {
	row := r.DB.QueryRowContext(ctx, `
        SELECT id, project_id, task_name, description, url,
               priority, status, assign_to, assign_date, due_date,
               current_stage_index, created_at, updated_at
        FROM subtasks WHERE id = $1
    `, id)

	s, err := scanSubtask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSubtaskNotFound
		}
		return nil, err
	}

	stagesByID, err := r.loadStages(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	logsByID, err := r.loadTimeLogs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	s.Stages = stagesByID[id]
	s.TimeLogs = logsByID[id]
	return s, nil
}

func (r *PostgresRepo) ListSubtasks(ctx context.Context) ([]*model.Subtask, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, project_id, task_name, description, url,
               priority, status, assign_to, assign_date, due_date,
               current_stage_index, created_at, updated_at
        FROM subtasks ORDER BY created_at, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Subtask
	var ids []string
	for rows.Next() {
		s, err := scanSubtask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	stagesByID, err := r.loadStages(ctx, ids)
	if err != nil {
		return nil, err
	}
	logsByID, err := r.loadTimeLogs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range out {
		s.Stages = stagesByID[s.ID]
		s.TimeLogs = logsByID[s.ID]
	}
	return out, nil
}

// BulkUpdate applies one patch to every id inside a tx. Any unknown id rolls
// the whole batch back.
func (r *PostgresRepo) BulkUpdate(ctx context.Context, ids []string, patch model.BulkPatch) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	missing, err := missingIDs(ctx, tx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &model.NotFoundError{IDs: missing}
	}

	set := "updated_at = now()"
	args := []interface{}{pq.Array(ids)}
	i := 2
	if patch.AssignTo != nil {
		set += fmt.Sprintf(", assign_to = $%d", i)
		args = append(args, *patch.AssignTo)
		i++
	}
	if patch.Priority != nil {
		set += fmt.Sprintf(", priority = $%d", i)
		args = append(args, string(*patch.Priority))
		i++
	}

	q := "UPDATE subtasks SET " + set + " WHERE id = ANY($1)"
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return err
	}
	return tx.Commit()
}

// BulkDelete removes every id inside a tx; stages and logs go via cascade.
func (r *PostgresRepo) BulkDelete(ctx context.Context, ids []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	missing, err := missingIDs(ctx, tx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &model.NotFoundError{IDs: missing}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM subtasks WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return err
	}
	return tx.Commit()
}

// missingIDs locks the target rows and reports ids with no matching record.
func missingIDs(ctx context.Context, tx *sql.Tx, ids []string) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM subtasks WHERE id = ANY($1) FOR UPDATE`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[string]bool, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubtask(row rowScanner) (*model.Subtask, error) {
	var s model.Subtask
	var (
		description, url, assignTo sql.NullString
		assignDate, dueDate        sql.NullTime
		currentIndex               sql.NullInt64
	)
	err := row.Scan(
		&s.ID, &s.ProjectID, &s.TaskName, &description, &url,
		&s.Priority, &s.Status, &assignTo, &assignDate, &dueDate,
		&currentIndex, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Description = description.String
	s.URL = url.String
	s.AssignTo = model.AssigneeRef(assignTo.String)
	if assignDate.Valid {
		s.AssignDate = assignDate.Time
	}
	if dueDate.Valid {
		s.DueDate = dueDate.Time
	}
	if currentIndex.Valid {
		v := int(currentIndex.Int64)
		s.CurrentStageIndex = &v
	}
	return &s, nil
}

func (r *PostgresRepo) loadStages(ctx context.Context, ids []string) (map[string][]model.Stage, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT subtask_id, name, completed, completed_by, completed_at
        FROM stages WHERE subtask_id = ANY($1)
        ORDER BY subtask_id, position
    `, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.Stage)
	for rows.Next() {
		var (
			subtaskID   string
			st          model.Stage
			completedBy sql.NullString
			completedAt sql.NullTime
		)
		if err := rows.Scan(&subtaskID, &st.Name, &st.Completed, &completedBy, &completedAt); err != nil {
			return nil, err
		}
		st.CompletedBy = completedBy.String
		if completedAt.Valid {
			t := completedAt.Time
			st.CompletedAt = &t
		}
		out[subtaskID] = append(out[subtaskID], st)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) loadTimeLogs(ctx context.Context, ids []string) (map[string][]model.TimeLogEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT subtask_id, user_id, start_time, end_time
        FROM time_logs WHERE subtask_id = ANY($1)
        ORDER BY subtask_id, id
    `, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.TimeLogEntry)
	for rows.Next() {
		var (
			subtaskID string
			e         model.TimeLogEntry
			endTime   sql.NullTime
		)
		if err := rows.Scan(&subtaskID, &e.UserID, &e.StartTime, &endTime); err != nil {
			return nil, err
		}
		if endTime.Valid {
			t := endTime.Time
			e.EndTime = &t
		}
		out[subtaskID] = append(out[subtaskID], e)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
