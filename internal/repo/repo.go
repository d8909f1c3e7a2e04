package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"Flexura/internal/engine"

	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a user lookup matches nothing.
var ErrNotFound = errors.New("not found")

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)
	SaveCheck(ctx context.Context, userID int, results []engine.CheckResult, summary engine.Summary) (int64, error)
	ListChecks(ctx context.Context, userID, limit int) ([]CheckRecord, error)
}

// CheckRecord is one stored batch check.
type CheckRecord struct {
	ID        int64                `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	Summary   engine.Summary       `json:"summary"`
	Results   []engine.CheckResult `json:"results"`
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to Postgres and verifies the connection. sslmode=require is
// appended when the URL does not choose one.
func Open(ctx context.Context, connStr string, maxOpen int, lifetime time.Duration) (*sql.DB, error) {
	if !strings.Contains(connStr, "sslmode=") {
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			sep := "?"
			if strings.Contains(connStr, "?") {
				sep = "&"
			}
			connStr += sep + "sslmode=require"
		} else {
			connStr += " sslmode=require"
		}
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(lifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrNotFound
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveCheck(ctx context.Context, userID int, results []engine.CheckResult, summary engine.Summary) (int64, error) {
	payload, err := json.Marshal(results)
	if err != nil {
		return 0, err
	}
	var id int64
	query := `INSERT INTO beam_checks (user_id, n, ok, ko, mean_delta_mm, results)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err = r.db.QueryRowContext(ctx, query,
		userID, summary.N, summary.OK, summary.KO, summary.MeanDeltaMM, payload,
	).Scan(&id)
	return id, err
}

func (r *PostgresRepository) ListChecks(ctx context.Context, userID, limit int) ([]CheckRecord, error) {
	query := `SELECT id, created_at, n, ok, ko, mean_delta_mm, results
FROM beam_checks WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CheckRecord
	for rows.Next() {
		var rec CheckRecord
		var payload []byte
		s := &rec.Summary
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &s.N, &s.OK, &s.KO, &s.MeanDeltaMM, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &rec.Results); err != nil {
			return nil, fmt.Errorf("decode check %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
