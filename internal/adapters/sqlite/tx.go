package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"botree/internal/domain"
)

// graphTx writes one graph snapshot
type graphTx struct {
	ctx context.Context
	tx  *sql.Tx
}

// Reset removes every stored row
func (t *graphTx) Reset() error {
	_, err := t.tx.ExecContext(t.ctx, `
		DELETE FROM links;
		DELETE FROM relationships;
		DELETE FROM objects;
	`)
	return err
}

// InsertObject stores an object. rootPos is nil for non-root objects.
func (t *graphTx) InsertObject(obj *domain.Object, rootPos *int) error {
	props, err := encodeProps(obj.Properties())
	if err != nil {
		return fmt.Errorf("encode properties of %s: %w", obj.ID, err)
	}
	var pos sql.NullInt64
	if rootPos != nil {
		pos = sql.NullInt64{Int64: int64(*rootPos), Valid: true}
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT OR REPLACE INTO objects (id, class, display_prop, props, root_position)
		VALUES (?, ?, ?, ?, ?)
	`, obj.ID, obj.Class, obj.DisplayProp, props, pos)
	return err
}

// InsertRelationship stores rel as the position-th relationship of owner,
// together with links to its members
func (t *graphTx) InsertRelationship(owner *domain.Object, rel domain.Relationship, position int) error {
	kind := kindMultiple
	if _, ok := rel.(*domain.SingleRelationship); ok {
		kind = kindSingle
	}
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT OR REPLACE INTO relationships (owner_id, name, kind, position)
		VALUES (?, ?, ?, ?)
	`, owner.ID, rel.Name(), kind, position)
	if err != nil {
		return err
	}

	for i, member := range rel.Collection().Objects() {
		child, ok := member.(*domain.Object)
		if !ok {
			continue
		}
		_, err := t.tx.ExecContext(t.ctx, `
			INSERT OR REPLACE INTO links (owner_id, rel, position, child_id)
			VALUES (?, ?, ?, ?)
		`, owner.ID, rel.Name(), i, child.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

// Commit commits the transaction
func (t *graphTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *graphTx) Rollback() error {
	return t.tx.Rollback()
}
