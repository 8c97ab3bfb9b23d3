package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukerupert/portfolio/internal/model"
)

type ContentStore struct {
	db *sql.DB
}

func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

func scanContent(scanner interface{ Scan(...any) error }) (*model.Content, error) {
	var c model.Content
	var slug sql.NullString
	var data string
	var updatedAt sql.NullTime

	err := scanner.Scan(&c.ID, &c.Section, &slug, &data, &c.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if slug.Valid {
		c.Slug = &slug.String
	}
	if updatedAt.Valid {
		c.UpdatedAt = &updatedAt.Time
	}
	c.Data = json.RawMessage(data)
	return &c, nil
}

const contentCols = `id, section, slug, data, created_at, updated_at`

func (s *ContentStore) ListBySection(section string) ([]model.Content, error) {
	rows, err := s.db.Query(
		`SELECT `+contentCols+` FROM content WHERE section = ? ORDER BY created_at, id`,
		section,
	)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var items []model.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Get returns nil, nil when the id does not exist in the section.
func (s *ContentStore) Get(section string, id int64) (*model.Content, error) {
	row := s.db.QueryRow(`SELECT `+contentCols+` FROM content WHERE id = ? AND section = ?`, id, section)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	return c, nil
}

func (s *ContentStore) Create(section string, slug *string, data json.RawMessage) (*model.Content, error) {
	var sl sql.NullString
	if slug != nil {
		sl = sql.NullString{String: *slug, Valid: true}
	}
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}

	result, err := s.db.Exec(
		`INSERT INTO content (section, slug, data, created_at) VALUES (?, ?, ?, ?)`,
		section, sl, string(data), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert content: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(section, id)
}

// Update replaces the item's data document. It reports false when no item
// with that id exists in the section.
func (s *ContentStore) Update(section string, id int64, data json.RawMessage) (bool, error) {
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	result, err := s.db.Exec(
		`UPDATE content SET data = ?, updated_at = ? WHERE id = ? AND section = ?`,
		string(data), time.Now().UTC(), id, section,
	)
	if err != nil {
		return false, fmt.Errorf("update content: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *ContentStore) Delete(section string, id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM content WHERE id = ? AND section = ?`, id, section)
	if err != nil {
		return false, fmt.Errorf("delete content: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
