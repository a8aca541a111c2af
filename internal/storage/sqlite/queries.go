// ABOUTME: Recency listing and filtered history queries with matching counts
// ABOUTME: History filters compose dynamically and share one WHERE builder
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aihub/aihub/internal/models"
	"github.com/aihub/aihub/internal/tokenize"
)

// HistoryFilter narrows a history page. Zero values mean "no constraint";
// CreatedFrom and CreatedTo are inclusive unix-second bounds.
type HistoryFilter struct {
	Keyword     string
	SiteName    string
	CreatedFrom int64
	CreatedTo   int64
	CodeOnly    bool
	Limit       int
	Offset      int
}

// clampLimit keeps page sizes within 1..50.
func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > searchResultCap {
		return searchResultCap
	}
	return limit
}

// ListRecent returns the newest conversations as previews, newest first with
// id as the tiebreaker. The limit is clamped to 1..50.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]models.Preview, error) {
	var (
		previews []models.Preview
		err      error
	)
	if serr := s.submit(ctx, func() { previews, err = s.listRecent(limit) }); serr != nil {
		return nil, serr
	}
	return previews, err
}

func (s *Store) listRecent(limit int) ([]models.Preview, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, site_name, url, content, created_at
		FROM conversations
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, readErr("list recent", err)
	}
	defer func() { _ = rows.Close() }()
	return scanPreviews(rows)
}

// ListHistory returns one page of previews matching the filter, newest first.
func (s *Store) ListHistory(ctx context.Context, filter HistoryFilter) ([]models.Preview, error) {
	var (
		previews []models.Preview
		err      error
	)
	if serr := s.submit(ctx, func() { previews, err = s.listHistory(filter) }); serr != nil {
		return nil, serr
	}
	return previews, err
}

// CountHistory returns how many conversations match the filter, ignoring
// Limit and Offset.
func (s *Store) CountHistory(ctx context.Context, filter HistoryFilter) (int64, error) {
	var (
		total int64
		err   error
	)
	if serr := s.submit(ctx, func() { total, err = s.countHistory(filter) }); serr != nil {
		return 0, serr
	}
	return total, err
}

func (s *Store) listHistory(filter HistoryFilter) ([]models.Preview, error) {
	where, args := buildHistoryWhere(filter)

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT c.id, c.site_name, c.url, c.content, c.created_at
		FROM conversations c` + where + `
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT ? OFFSET ?`
	args = append(args, clampLimit(filter.Limit), offset)

	rows, err := s.db.conn.Query(query, args...)
	if err != nil {
		return nil, readErr("list history", err)
	}
	defer func() { _ = rows.Close() }()
	return scanPreviews(rows)
}

func (s *Store) countHistory(filter HistoryFilter) (int64, error) {
	where, args := buildHistoryWhere(filter)

	var total int64
	err := s.db.conn.QueryRow(`SELECT COUNT(*) FROM conversations c`+where, args...).Scan(&total)
	if err != nil {
		return 0, readErr("count history", err)
	}
	return total, nil
}

// buildHistoryWhere renders the shared WHERE clause for history listing and
// counting so a page and its total always agree.
func buildHistoryWhere(filter HistoryFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if match := tokenize.MatchExpression(filter.Keyword); match != "" {
		conds = append(conds,
			`c.id IN (SELECT rowid FROM conversations_fts WHERE conversations_fts MATCH ?)`)
		args = append(args, match)
	}
	if filter.SiteName != "" {
		conds = append(conds, `c.site_name = ?`)
		args = append(args, filter.SiteName)
	}
	if filter.CreatedFrom > 0 {
		conds = append(conds, `c.created_at >= ?`)
		args = append(args, filter.CreatedFrom)
	}
	if filter.CreatedTo > 0 {
		conds = append(conds, `c.created_at <= ?`)
		args = append(args, filter.CreatedTo)
	}
	if filter.CodeOnly {
		conds = append(conds, `c.markdown LIKE ?`)
		args = append(args, "%"+codeFenceMarker+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// codeFenceMarker is the fenced-code delimiter searched for by CodeOnly.
const codeFenceMarker = "```"

func scanPreviews(rows *sql.Rows) ([]models.Preview, error) {
	var previews []models.Preview
	for rows.Next() {
		var (
			p       models.Preview
			content string
		)
		if err := rows.Scan(&p.ID, &p.SiteName, &p.URL, &content, &p.CreatedAt); err != nil {
			return nil, readErr("scan preview", err)
		}
		p.Snippet = models.Snippet(content)
		previews = append(previews, p)
	}
	if err := rows.Err(); err != nil {
		return nil, readErr("scan preview", err)
	}
	return previews, nil
}
