package neural

import (
	"database/sql"
	"fmt"
	"sync"

	domainNeural "github.com/jocieb/carrot/internal/domain/neural"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements NodeStore on a SQLite database. An empty or
// ":memory:" path keeps records in memory instead.
type SQLiteStore struct {
	mu          sync.RWMutex
	dbPath      string
	db          *sql.DB
	fallback    *MemoryStore
	initialized bool
}

// NewSQLiteStore creates a SQLite-backed node store at the given path.
func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{dbPath: dbPath}
}

// Initialize opens the database and creates the schema.
func (ss *SQLiteStore) Initialize() error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.initialized {
		return nil
	}

	if ss.dbPath == "" || ss.dbPath == ":memory:" {
		ss.fallback = NewMemoryStore()
		ss.initialized = true
		return nil
	}

	db, err := sql.Open("sqlite", ss.dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			bias REAL NOT NULL,
			type TEXT NOT NULL,
			squash TEXT NOT NULL,
			mask REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(type);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	ss.db = db
	ss.initialized = true
	return nil
}

// Save stores or replaces a record by ID.
func (ss *SQLiteStore) Save(record domainNeural.NodeRecord) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.fallback != nil {
		return ss.fallback.Save(record)
	}
	if record.ID == "" {
		return fmt.Errorf("node record requires an id")
	}

	_, err := ss.db.Exec(`
		INSERT OR REPLACE INTO nodes (id, bias, type, squash, mask)
		VALUES (?, ?, ?, ?, ?)
	`, record.ID, record.Bias, string(record.Type), record.Squash, record.Mask)
	if err != nil {
		return fmt.Errorf("save node record: %w", err)
	}
	return nil
}

// Load retrieves a record by ID.
func (ss *SQLiteStore) Load(id string) (domainNeural.NodeRecord, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	if ss.fallback != nil {
		return ss.fallback.Load(id)
	}

	var record domainNeural.NodeRecord
	var nodeType string
	err := ss.db.QueryRow(`
		SELECT id, bias, type, squash, mask FROM nodes WHERE id = ?
	`, id).Scan(&record.ID, &record.Bias, &nodeType, &record.Squash, &record.Mask)
	if err == sql.ErrNoRows {
		return domainNeural.NodeRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return domainNeural.NodeRecord{}, fmt.Errorf("load node record: %w", err)
	}
	record.Type = domainNeural.NodeType(nodeType)
	return record, nil
}

// List returns all records ordered by ID.
func (ss *SQLiteStore) List() ([]domainNeural.NodeRecord, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	if ss.fallback != nil {
		return ss.fallback.List()
	}

	rows, err := ss.db.Query(`SELECT id, bias, type, squash, mask FROM nodes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list node records: %w", err)
	}
	defer rows.Close()

	var records []domainNeural.NodeRecord
	for rows.Next() {
		var record domainNeural.NodeRecord
		var nodeType string
		if err := rows.Scan(&record.ID, &record.Bias, &nodeType, &record.Squash, &record.Mask); err != nil {
			return nil, fmt.Errorf("scan node record: %w", err)
		}
		record.Type = domainNeural.NodeType(nodeType)
		records = append(records, record)
	}
	return records, rows.Err()
}

// Delete removes a record by ID. Missing records are a no-op.
func (ss *SQLiteStore) Delete(id string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.fallback != nil {
		return ss.fallback.Delete(id)
	}

	if _, err := ss.db.Exec(`DELETE FROM nodes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete node record: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (ss *SQLiteStore) Close() error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.initialized = false
	ss.fallback = nil
	if ss.db != nil {
		err := ss.db.Close()
		ss.db = nil
		return err
	}
	return nil
}
