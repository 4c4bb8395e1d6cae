package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtnitsch/stealth-fetch-mcp/models"
)

// SaveElements replaces the fingerprints stored for (domain, selector).
func (db *DB) SaveElements(ctx context.Context, domain, selector string, elements []models.ElementFingerprint) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if _, err := tx.ExecContext(ctx, `INSERT INTO sites (domain) VALUES (?) ON CONFLICT(domain) DO NOTHING`, domain); err != nil {
		return fmt.Errorf("failed to insert site: %w", err)
	}

	var siteID int64
	if err := tx.QueryRowContext(ctx, `SELECT site_id FROM sites WHERE domain = ?`, domain).Scan(&siteID); err != nil {
		return fmt.Errorf("failed to look up site: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM elements WHERE site_id = ? AND selector = ?`, siteID, selector); err != nil {
		return fmt.Errorf("failed to clear elements: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO elements (site_id, selector, position, tag, html_id, classes, path, text, text_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, el := range elements {
		if _, err := stmt.ExecContext(ctx, siteID, selector, i, el.Tag, el.ID,
			strings.Join(el.Classes, " "), el.Path, el.Text, el.TextHash); err != nil {
			return fmt.Errorf("failed to insert element %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit elements: %w", err)
	}
	return nil
}

// LoadElements returns the fingerprints saved for (domain, selector) in the
// order they were matched.
func (db *DB) LoadElements(ctx context.Context, domain, selector string) ([]models.ElementFingerprint, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT e.tag, COALESCE(e.html_id, ''), COALESCE(e.classes, ''), e.path,
		       COALESCE(e.text, ''), COALESCE(e.text_hash, '')
		FROM elements e
		JOIN sites s ON e.site_id = s.site_id
		WHERE s.domain = ? AND e.selector = ?
		ORDER BY e.position
	`, domain, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query elements: %w", err)
	}
	defer rows.Close()

	var out []models.ElementFingerprint
	for rows.Next() {
		var (
			el      models.ElementFingerprint
			classes string
		)
		if err := rows.Scan(&el.Tag, &el.ID, &classes, &el.Path, &el.Text, &el.TextHash); err != nil {
			return nil, fmt.Errorf("failed to scan element: %w", err)
		}
		if classes != "" {
			el.Classes = strings.Fields(classes)
		}
		out = append(out, el)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read elements: %w", err)
	}
	return out, nil
}
