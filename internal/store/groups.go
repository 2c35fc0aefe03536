package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/opshq/orgsync/pkg/errors"
)

// NewGroup is the shape of a group before it has been stored.
type NewGroup struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

// Group is a stored group row.
type Group struct {
	ID int64
	NewGroup
	AirtableRecordID string
}

// GetGroup fetches a group by name. Returns a NotFoundError when no row
// matches.
func (s *Store) GetGroup(ctx context.Context, name string) (*Group, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, members, airtable_record_id
		 FROM groups WHERE name = ?`, name)
	return scanGroup(row, name)
}

// UpsertGroup inserts the group if absent, otherwise updates its non-key
// fields in place, preserving the stored airtable_record_id.
func (s *Store) UpsertGroup(ctx context.Context, g *NewGroup) (*Group, error) {
	members, err := marshalNames(g.Members)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO groups (name, description, members, airtable_record_id)
		VALUES (?, ?, ?, '')
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			members = excluded.members`,
		g.Name, g.Description, members)
	if err != nil {
		return nil, errors.WrapIO("write", "groups", err)
	}

	return s.GetGroup(ctx, g.Name)
}

// UpdateGroup writes all fields of an existing row back to the store.
func (s *Store) UpdateGroup(ctx context.Context, g *Group) error {
	members, err := marshalNames(g.Members)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE groups SET name = ?, description = ?, members = ?,
			airtable_record_id = ?
		WHERE id = ?`,
		g.Name, g.Description, members, g.AirtableRecordID, g.ID)
	if err != nil {
		return errors.WrapIO("write", "groups", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.WrapIO("write", "groups", err)
	}
	if n == 0 {
		return errors.NewNotFoundError("group", g.Name)
	}
	return nil
}

// ListGroups returns all group rows ordered by name.
func (s *Store) ListGroups(ctx context.Context) ([]*Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, members, airtable_record_id
		 FROM groups ORDER BY name`)
	if err != nil {
		return nil, errors.WrapIO("read", "groups", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g, err := scanGroup(rows, "")
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func scanGroup(row scanner, name string) (*Group, error) {
	var g Group
	var members string
	err := row.Scan(&g.ID, &g.Name, &g.Description, &members, &g.AirtableRecordID)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("group", name)
	}
	if err != nil {
		return nil, errors.WrapIO("read", "groups", err)
	}

	if err := json.Unmarshal([]byte(members), &g.Members); err != nil {
		return nil, errors.WrapParse("json", "groups.members", err)
	}
	return &g, nil
}
