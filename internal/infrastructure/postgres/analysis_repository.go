package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/port"
	pgutil "github.com/phonerisk/phonerisk/pkg/postgres"
)

var _ port.AnalysisRepository = (*AnalysisRepository)(nil)

// AnalysisRepository implements port.AnalysisRepository using PostgreSQL.
// The full analysis is stored as a JSONB document; the scalar columns exist
// for filtering and ordering.
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepository creates a new PostgreSQL-backed analysis repository.
func NewAnalysisRepository(pool *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

// Save persists an analysis and its risk factor rows.
func (r *AnalysisRepository) Save(ctx context.Context, analysis *model.PhoneAnalysis) error {
	snap := analysis.Snapshot()
	doc, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	return pgutil.WithTransaction(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO phone_analyses (
				id, phone_number, risk_score, risk_level, deep_scan,
				analyzed_at, document, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				risk_score = EXCLUDED.risk_score,
				risk_level = EXCLUDED.risk_level,
				document = EXCLUDED.document,
				updated_at = EXCLUDED.updated_at
		`,
			snap.ID,
			snap.Identity.Number.String(),
			snap.RiskScore,
			snap.RiskLevel.String(),
			snap.DeepScan,
			snap.AnalyzedAt,
			doc,
			snap.CreatedAt,
			snap.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM risk_factors WHERE analysis_id = $1`, snap.ID); err != nil {
			return fmt.Errorf("failed to delete old risk factors: %w", err)
		}

		batch := &pgx.Batch{}
		for i, f := range snap.RiskFactors {
			batch.Queue(`
				INSERT INTO risk_factors (
					analysis_id, position, factor_type, category, severity, contribution, detected_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, snap.ID, i, f.FactorType, f.Category.String(), f.Severity.String(), f.ScoreContribution, f.DetectedAt)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save risk factors: %w", err)
		}
		return nil
	})
}

// FindByID retrieves an analysis by its identifier.
func (r *AnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PhoneAnalysis, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT document FROM phone_analyses WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to query analysis: %w", err)
	}
	return decode(doc)
}

// FindLatestByPhone returns the newest analysis of phone at or after since.
func (r *AnalysisRepository) FindLatestByPhone(ctx context.Context, phone string, since time.Time) (*model.PhoneAnalysis, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `
		SELECT document FROM phone_analyses
		WHERE phone_number = $1 AND analyzed_at >= $2
		ORDER BY analyzed_at DESC
		LIMIT 1
	`, phone, since).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest analysis: %w", err)
	}
	return decode(doc)
}

// List returns one page of analyses plus the total count, read from a single
// snapshot.
func (r *AnalysisRepository) List(ctx context.Context, limit, offset int) ([]*model.PhoneAnalysis, int, error) {
	var (
		analyses []*model.PhoneAnalysis
		total    int
	)
	err := pgutil.WithTransaction(ctx, r.pool, pgutil.ReadOnlySnapshot, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM phone_analyses`).Scan(&total); err != nil {
			return fmt.Errorf("failed to count analyses: %w", err)
		}

		var err error
		analyses, err = queryDocuments(ctx, tx, `
			SELECT document FROM phone_analyses
			ORDER BY analyzed_at DESC, id
			LIMIT $1 OFFSET $2
		`, limit, offset)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return analyses, total, nil
}

// Search filters by phone substring and risk level, newest first.
func (r *AnalysisRepository) Search(ctx context.Context, criteria model.SearchCriteria) ([]*model.PhoneAnalysis, error) {
	var (
		where []string
		args  []any
	)
	if criteria.PhoneContains != "" {
		args = append(args, "%"+escapeLike(criteria.PhoneContains)+"%")
		where = append(where, fmt.Sprintf("phone_number LIKE $%d", len(args)))
	}
	if !criteria.RiskLevel.IsZero() {
		args = append(args, criteria.RiskLevel.String())
		where = append(where, fmt.Sprintf("risk_level = $%d", len(args)))
	}

	query := `SELECT document FROM phone_analyses`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY analyzed_at DESC, id"
	if criteria.Limit > 0 {
		args = append(args, criteria.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return queryDocuments(ctx, r.pool, query, args...)
}

// Delete removes one analysis; its risk factor rows cascade.
func (r *AnalysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM phone_analyses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAnalysisNotFound
	}
	return nil
}

// DeleteAll removes every analysis.
func (r *AnalysisRepository) DeleteAll(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM phone_analyses`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete analyses: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Statistics counts analyses per level and averages their scores.
func (r *AnalysisRepository) Statistics(ctx context.Context) (model.Statistics, error) {
	stats := model.Statistics{ByLevel: map[string]int{}}

	rows, err := r.pool.Query(ctx, `
		SELECT risk_level, COUNT(*), COALESCE(SUM(risk_score), 0)
		FROM phone_analyses
		GROUP BY risk_level
	`)
	if err != nil {
		return model.Statistics{}, fmt.Errorf("failed to query statistics: %w", err)
	}
	defer rows.Close()

	var sum float64
	for rows.Next() {
		var (
			level string
			count int
			total float64
		)
		if err := rows.Scan(&level, &count, &total); err != nil {
			return model.Statistics{}, fmt.Errorf("failed to scan statistics row: %w", err)
		}
		stats.ByLevel[level] = count
		stats.Total += count
		sum += total
	}
	if err := rows.Err(); err != nil {
		return model.Statistics{}, fmt.Errorf("failed to read statistics: %w", err)
	}

	stats.AverageScore = model.AverageScore(sum, stats.Total)
	return stats, nil
}

func queryDocuments(ctx context.Context, q pgutil.Querier, query string, args ...any) ([]*model.PhoneAnalysis, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	analyses := make([]*model.PhoneAnalysis, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		a, err := decode(doc)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read analyses: %w", err)
	}
	return analyses, nil
}

func decode(doc []byte) (*model.PhoneAnalysis, error) {
	var snap model.AnalysisSnapshot
	if err := json.Unmarshal(doc, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return model.ReconstructPhoneAnalysis(snap), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
