package neural

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	domainNeural "github.com/jocieb/carrot/internal/domain/neural"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresConfig parameterizes the PostgreSQL node store. Unset fields fall
// back to the standard PG* environment variables.
type PostgresConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
	SSL      bool   `json:"ssl" yaml:"ssl"`
}

// PostgresStore implements NodeStore on a PostgreSQL database.
type PostgresStore struct {
	mu      sync.RWMutex
	db      *sql.DB
	connStr string
}

// NewPostgresStore creates a PostgreSQL-backed node store.
func NewPostgresStore(config PostgresConfig) *PostgresStore {
	if config.Host == "" {
		config.Host = getEnvOrDefault("PGHOST", "localhost")
	}
	if config.Port == 0 {
		config.Port = 5432
	}
	if config.User == "" {
		config.User = getEnvOrDefault("PGUSER", "postgres")
	}
	if config.Password == "" {
		config.Password = os.Getenv("PGPASSWORD")
	}
	if config.Database == "" {
		config.Database = os.Getenv("PGDATABASE")
	}

	return &PostgresStore{connStr: buildConnectionString(config)}
}

// NewPostgresStoreDSN creates a PostgreSQL-backed node store from a raw
// connection string.
func NewPostgresStoreDSN(dsn string) *PostgresStore {
	return &PostgresStore{connStr: dsn}
}

func buildConnectionString(config PostgresConfig) string {
	sslMode := "disable"
	if config.SSL {
		sslMode = "require"
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Database, sslMode,
	)
	if config.Password != "" {
		connStr += fmt.Sprintf(" password=%s", config.Password)
	}
	return connStr
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Initialize connects to PostgreSQL and creates the schema.
func (ps *PostgresStore) Initialize() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", ps.connStr)
	if err != nil {
		return fmt.Errorf("open postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			bias DOUBLE PRECISION NOT NULL,
			type TEXT NOT NULL,
			squash TEXT NOT NULL,
			mask DOUBLE PRECISION NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	ps.db = db
	return nil
}

// Save stores or replaces a record by ID.
func (ps *PostgresStore) Save(record domainNeural.NodeRecord) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if record.ID == "" {
		return fmt.Errorf("node record requires an id")
	}

	_, err := ps.db.Exec(`
		INSERT INTO nodes (id, bias, type, squash, mask)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			bias = EXCLUDED.bias,
			type = EXCLUDED.type,
			squash = EXCLUDED.squash,
			mask = EXCLUDED.mask
	`, record.ID, record.Bias, string(record.Type), record.Squash, record.Mask)
	if err != nil {
		return fmt.Errorf("save node record: %w", err)
	}
	return nil
}

// Load retrieves a record by ID.
func (ps *PostgresStore) Load(id string) (domainNeural.NodeRecord, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var record domainNeural.NodeRecord
	var nodeType string
	err := ps.db.QueryRow(`
		SELECT id, bias, type, squash, mask FROM nodes WHERE id = $1
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
func (ps *PostgresStore) List() ([]domainNeural.NodeRecord, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	rows, err := ps.db.Query(`SELECT id, bias, type, squash, mask FROM nodes ORDER BY id`)
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
func (ps *PostgresStore) Delete(id string) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, err := ps.db.Exec(`DELETE FROM nodes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete node record: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (ps *PostgresStore) Close() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.db != nil {
		err := ps.db.Close()
		ps.db = nil
		return err
	}
	return nil
}
