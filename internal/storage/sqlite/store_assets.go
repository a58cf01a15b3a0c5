package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

const (
	assetColumns = "id, name, category, amount_cents, currency, due_date, paid, notes, created_at, updated_at"
	dateLayout   = "2006-01-02"
)

// CreateAsset inserts a bill.
func (s *Store) CreateAsset(ctx context.Context, a storage.Asset) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("asset id is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "asset name is required")
	}
	if a.AmountCents < 0 {
		return apperrors.New(apperrors.CodeAssetAmountInvalid, "asset amount must not be negative")
	}
	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
	if len(a.Currency) != 3 {
		return apperrors.New(apperrors.CodeInvalidArgument, "currency must be a 3-letter code")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO assets (`+assetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, strings.TrimSpace(a.Name), strings.TrimSpace(a.Category), a.AmountCents, a.Currency,
		formatDate(a.DueDate), boolToInt(a.Paid), a.Notes, toMillis(a.CreatedAt), toMillis(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

// GetAsset returns one bill.
func (s *Store) GetAsset(ctx context.Context, assetID string) (storage.Asset, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Asset{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, assetID)
	a, err := scanAsset(row)
	if err != nil {
		return storage.Asset{}, notFound(err)
	}
	return a, nil
}

// ListAssets returns bills ordered by due date, undated bills last.
func (s *Store) ListAssets(ctx context.Context, filter storage.AssetFilter) ([]storage.Asset, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	query := `SELECT ` + assetColumns + ` FROM assets WHERE 1 = 1`
	var args []any
	if filter.UnpaidOnly {
		query += ` AND paid = 0`
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY due_date IS NULL, due_date, name`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []storage.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// SetAssetPaid marks a bill paid or unpaid.
func (s *Store) SetAssetPaid(ctx context.Context, assetID string, paid bool, updatedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}
	result, err := s.sqlDB.ExecContext(ctx, `UPDATE assets SET paid = ?, updated_at = ? WHERE id = ?`,
		boolToInt(paid), toMillis(updatedAt), assetID)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	return requireAffected(result)
}

// DeleteAsset removes a bill.
func (s *Store) DeleteAsset(ctx context.Context, assetID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, assetID)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return requireAffected(result)
}

// SummarizeAssets totals unpaid bills per currency and counts those overdue
// at now.
func (s *Store) SummarizeAssets(ctx context.Context, now time.Time) (storage.AssetSummary, error) {
	if err := s.ready(ctx); err != nil {
		return storage.AssetSummary{}, err
	}
	summary := storage.AssetSummary{UnpaidByCurrency: map[string]int64{}}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT currency, COUNT(*), COALESCE(SUM(amount_cents), 0) FROM assets WHERE paid = 0 GROUP BY currency`)
	if err != nil {
		return storage.AssetSummary{}, fmt.Errorf("summarize assets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			currency string
			count    int
			total    int64
		)
		if err := rows.Scan(&currency, &count, &total); err != nil {
			return storage.AssetSummary{}, fmt.Errorf("scan asset summary: %w", err)
		}
		summary.UnpaidCount += count
		summary.UnpaidByCurrency[currency] = total
	}
	if err := rows.Err(); err != nil {
		return storage.AssetSummary{}, err
	}

	today := now.UTC().Format(dateLayout)
	err = s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assets WHERE paid = 0 AND due_date IS NOT NULL AND due_date < ?`, today,
	).Scan(&summary.OverdueCount)
	if err != nil {
		return storage.AssetSummary{}, fmt.Errorf("count overdue assets: %w", err)
	}
	return summary, nil
}

func formatDate(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(dateLayout)
}

func scanAsset(row rowScanner) (storage.Asset, error) {
	var (
		a         storage.Asset
		dueDate   sql.NullString
		paid      int
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Category, &a.AmountCents, &a.Currency, &dueDate, &paid, &a.Notes, &createdAt, &updatedAt); err != nil {
		return storage.Asset{}, err
	}
	if dueDate.Valid && dueDate.String != "" {
		parsed, err := time.Parse(dateLayout, dueDate.String)
		if err != nil {
			return storage.Asset{}, fmt.Errorf("parse due date %q: %w", dueDate.String, err)
		}
		a.DueDate = parsed
	}
	a.Paid = paid != 0
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return a, nil
}
