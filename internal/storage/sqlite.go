// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"calorie-tracker/internal/models"
	"calorie-tracker/internal/storage/migrations"
)

// SQLiteStore keeps the log in two tables: food_records in log order and
// food_micros with each record's micronutrients in their original order.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at dsn and applies pending migrations.
func NewSQLiteStore(ctx context.Context, dsn string, log logrus.FieldLogger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := RunMigrations(ctx, db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStoreFromDB wraps an already migrated database.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// RunMigrations brings the schema up to date using the embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB, log logrus.FieldLogger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(log)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, records []models.FoodRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearLog(ctx, tx); err != nil {
		return err
	}

	recordQuery := `
        INSERT INTO food_records (id, name, calories, carbs, protein, fat, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	microQuery := `
        INSERT INTO food_micros (record_id, position, key, amount)
        VALUES (?, ?, ?, ?)
    `
	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err = tx.ExecContext(ctx, recordQuery,
			id, rec.Name, rec.Calories, rec.Carbs, rec.Protein, rec.Fat,
			rec.CreatedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}

		for pos, key := range rec.Micros.Keys() {
			amount, _ := rec.Micros.Get(key)
			if _, err = tx.ExecContext(ctx, microQuery, id, pos, key, amount); err != nil {
				return fmt.Errorf("failed to insert micronutrient: %w", err)
			}
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearLog(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func clearLog(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM food_micros`); err != nil {
		return fmt.Errorf("failed to clear micronutrients: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM food_records`); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]models.FoodRecord, error) {
	query := `
        SELECT id, name, calories, carbs, protein, fat, created_at
        FROM food_records
        ORDER BY seq
    `
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []models.FoodRecord{}
	index := make(map[string]int)
	for rows.Next() {
		rec := models.FoodRecord{Micros: models.NewMicros()}
		var createdAtStr string

		err := rows.Scan(&rec.ID, &rec.Name, &rec.Calories, &rec.Carbs,
			&rec.Protein, &rec.Fat, &createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	rows.Close()

	if err := s.loadMicros(ctx, records, index); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *SQLiteStore) loadMicros(ctx context.Context, records []models.FoodRecord, index map[string]int) error {
	query := `
        SELECT m.record_id, m.key, m.amount
        FROM food_micros m
        JOIN food_records r ON r.id = m.record_id
        ORDER BY r.seq, m.position
    `
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query micronutrients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recordID, key string
		var amount float64
		if err := rows.Scan(&recordID, &key, &amount); err != nil {
			return fmt.Errorf("failed to scan micronutrient: %w", err)
		}
		if i, ok := index[recordID]; ok {
			records[i].Micros.Add(key, amount)
		}
	}
	return rows.Err()
}
