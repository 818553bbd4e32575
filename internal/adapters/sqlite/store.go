package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"botree/internal/domain"
	"botree/internal/logging"
	"botree/internal/ports"
)

const schemaVersion = "1"

const (
	kindMultiple = "multiple"
	kindSingle   = "single"
)

// Store implements ports.ObjectStore using SQLite
type Store struct {
	db     *sql.DB
	dbPath string
	log    *slog.Logger
}

// Ensure Store implements ObjectStore
var _ ports.ObjectStore = (*Store)(nil)

// NewStore creates a new SQLite object store
func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{log: log}
}

// Open creates or opens the database at path
func (s *Store) Open(path string) error {
	// Expand ~ in path
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	s.dbPath = path

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open(driverName, dsn(path))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Pragmas + schema in single batch
	_, err = db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS objects (
			id TEXT PRIMARY KEY,
			class TEXT NOT NULL,
			display_prop TEXT NOT NULL,
			props TEXT NOT NULL,
			root_position INTEGER
		);
		CREATE TABLE IF NOT EXISTS relationships (
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (owner_id, name)
		);
		CREATE TABLE IF NOT EXISTS links (
			owner_id TEXT NOT NULL,
			rel TEXT NOT NULL,
			position INTEGER NOT NULL,
			child_id TEXT NOT NULL,
			PRIMARY KEY (owner_id, rel, position)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_links_child ON links(child_id);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.dbPath
}

// SchemaVersion returns the schema version recorded in the database
func (s *Store) SchemaVersion(ctx context.Context) (string, error) {
	var version string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil {
		return "", fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

type propRecord struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func encodeProps(props []domain.Property) (string, error) {
	records := make([]propRecord, len(props))
	for i, p := range props {
		records[i] = propRecord{Name: p.Name, Value: p.Value}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeProps(data string) ([]propRecord, error) {
	var records []propRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Load reads the stored graph. Relationship and root order is preserved.
func (s *Store) Load(ctx context.Context) (*domain.Graph, error) {
	defer logging.Timing(s.log, "store.load", time.Now())

	objects := make(map[string]*domain.Object)
	var roots []*domain.Object

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, class, display_prop, props, root_position
		FROM objects
		ORDER BY root_position IS NULL, root_position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query objects: %w", err)
	}
	for rows.Next() {
		var id, class, displayProp, props string
		var rootPos sql.NullInt64
		if err := rows.Scan(&id, &class, &displayProp, &props, &rootPos); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}
		records, err := decodeProps(props)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to decode properties of %s: %w", id, err)
		}
		obj := &domain.Object{ID: id, Class: class, DisplayProp: displayProp}
		for _, p := range records {
			obj.Set(p.Name, p.Value)
		}
		objects[id] = obj
		if rootPos.Valid {
			roots = append(roots, obj)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := s.loadRelationships(ctx, objects); err != nil {
		return nil, err
	}
	if err := s.loadLinks(ctx, objects); err != nil {
		return nil, err
	}

	s.log.Debug("graph loaded", "objects", len(objects), "roots", len(roots))
	return domain.NewGraph(roots...), nil
}

func (s *Store) loadRelationships(ctx context.Context, objects map[string]*domain.Object) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT owner_id, name, kind FROM relationships ORDER BY owner_id, position
	`)
	if err != nil {
		return fmt.Errorf("failed to query relationships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ownerID, name, kind string
		if err := rows.Scan(&ownerID, &name, &kind); err != nil {
			return fmt.Errorf("failed to scan relationship: %w", err)
		}
		owner, ok := objects[ownerID]
		if !ok {
			return fmt.Errorf("relationship %s: unknown owner %s", name, ownerID)
		}
		switch kind {
		case kindSingle:
			owner.AddSingle(name)
		case kindMultiple:
			owner.AddMultiple(name)
		default:
			return fmt.Errorf("relationship %s: unknown kind %q", name, kind)
		}
	}
	return rows.Err()
}

func (s *Store) loadLinks(ctx context.Context, objects map[string]*domain.Object) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT owner_id, rel, child_id FROM links ORDER BY owner_id, rel, position
	`)
	if err != nil {
		return fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ownerID, rel, childID string
		if err := rows.Scan(&ownerID, &rel, &childID); err != nil {
			return fmt.Errorf("failed to scan link: %w", err)
		}
		owner, ok := objects[ownerID]
		if !ok {
			return fmt.Errorf("link %s: unknown owner %s", rel, ownerID)
		}
		child, ok := objects[childID]
		if !ok {
			return fmt.Errorf("link %s: unknown object %s", rel, childID)
		}
		coll := owner.Children(rel)
		if coll == nil {
			return fmt.Errorf("link %s: relationship not declared on %s", rel, ownerID)
		}
		coll.Add(child)
	}
	return rows.Err()
}

// Save replaces the stored graph with g in a single transaction
func (s *Store) Save(ctx context.Context, g *domain.Graph) error {
	defer logging.Timing(s.log, "store.save", time.Now())

	tx, err := s.beginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Reset(); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}

	rootPos := make(map[*domain.Object]int)
	for i, r := range g.Roots.Objects() {
		if o, ok := r.(*domain.Object); ok {
			rootPos[o] = i
		}
	}

	count := 0
	g.Walk(func(obj *domain.Object, _ int) bool {
		var pos *int
		if p, ok := rootPos[obj]; ok {
			pos = &p
		}
		if err = tx.InsertObject(obj, pos); err != nil {
			return false
		}
		for i, rel := range obj.Relationships() {
			if err = tx.InsertRelationship(obj, rel, i); err != nil {
				return false
			}
		}
		count++
		return true
	})
	if err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.log.Debug("graph saved", "objects", count)
	return nil
}

func (s *Store) beginTx(ctx context.Context) (*graphTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &graphTx{ctx: ctx, tx: tx}, nil
}
