package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/markdave123-py/bharathi/internal/config"
	"github.com/markdave123-py/bharathi/internal/core"
	"github.com/markdave123-py/bharathi/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

var _ core.DbClient = (*DatabaseClient)(nil)

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	dsn, err := buildDSN(cfg.DatabaseURL, cfg.SslCertPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	// Ensure bootstrap once
	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// buildDSN appends SSL params to the provided DATABASE_URL when a root cert is configured.
func buildDSN(databaseURL, sslCertPath string) (string, error) {
	if databaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is empty")
	}
	if sslCertPath == "" {
		return databaseURL, nil
	}
	if _, err := os.Stat(sslCertPath); err != nil {
		return "", fmt.Errorf("ssl cert not accessible at %q: %w", sslCertPath, err)
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	q := u.Query()
	q.Set("sslmode", "verify-ca")
	q.Set("sslrootcert", sslCertPath)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// GetCompanyContext loads the single context record of a company.
func (c *DatabaseClient) GetCompanyContext(ctx context.Context, companyID string) (*models.CompanyRecord, error) {
	const q = `
		SELECT company_id, company_name, description, content
		FROM context
		WHERE company_id = $1
		LIMIT 2
	`
	rows, err := c.db.QueryContext(ctx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CompanyRecord
	for rows.Next() {
		var (
			rec     models.CompanyRecord
			content sql.NullString
		)
		if err := rows.Scan(&rec.CompanyID, &rec.CompanyName, &rec.Description, &content); err != nil {
			return nil, err
		}
		rec.ContentURL = content.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return &out[0], nil
	default:
		return nil, fmt.Errorf("multiple context records for company %s", companyID)
	}
}

// InsertCompanyEmbeddings inserts rows in a single transaction.
func (c *DatabaseClient) InsertCompanyEmbeddings(ctx context.Context, rows []models.CompanyEmbedding) error {
	if len(rows) == 0 {
		return nil
	}
	return c.writeEmbeddings(ctx, rows[0].CompanyID, rows, false)
}

// ReplaceCompanyEmbeddings swaps a company's rows for the given ones in a single transaction.
func (c *DatabaseClient) ReplaceCompanyEmbeddings(ctx context.Context, companyID string, rows []models.CompanyEmbedding) error {
	return c.writeEmbeddings(ctx, companyID, rows, true)
}

func (c *DatabaseClient) writeEmbeddings(ctx context.Context, companyID string, rows []models.CompanyEmbedding, replace bool) error {
	if companyID == "" {
		return errors.New("empty company id")
	}
	for i := range rows {
		if rows[i].CompanyID != companyID {
			return fmt.Errorf("row %d belongs to company %q, batch is for %q", i, rows[i].CompanyID, companyID)
		}
	}

	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	// Writers for the same company never interleave.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, companyID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("lock company %s: %w", companyID, err)
	}

	if replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM company_embeddings WHERE company_id = $1`, companyID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete previous embeddings: %w", err)
		}
	}

	const q = `
		INSERT INTO company_embeddings
			(id, company_id, content, embedding, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range rows {
		row := &rows[i]
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		meta, err := json.Marshal(row.Metadata)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode metadata: %w", err)
		}
		vec := pgvector.NewVector(row.Embedding)

		if _, err := stmt.ExecContext(ctx, row.ID, row.CompanyID, row.Content, vec, meta); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// CountCompanyEmbeddings reports how many rows are stored for a company.
func (c *DatabaseClient) CountCompanyEmbeddings(ctx context.Context, companyID string) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT count(*) FROM company_embeddings WHERE company_id = $1`, companyID).Scan(&n)
	return n, err
}
