package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	characterStoreDir = "data/characters"
	characterDBPath   = "data/characters.db"
)

const (
	persistenceDB       = "db"
	persistenceHybrid   = "hybrid"
	persistenceJSON     = "json"
	persistencePostgres = "postgres"
)

var (
	characterDBOnce sync.Once
	characterDBConn *sql.DB
	characterDBErr  error

	postgresDBOnce sync.Once
	postgresDBConn *sql.DB
	postgresDBErr  error

	persistenceModeOnce sync.Once
	persistenceMode     string
)

func resetPersistenceRuntimeStateForTests() {
	if characterDBConn != nil {
		_ = characterDBConn.Close()
	}
	characterDBConn = nil
	characterDBErr = nil
	characterDBOnce = sync.Once{}
	if postgresDBConn != nil {
		_ = postgresDBConn.Close()
	}
	postgresDBConn = nil
	postgresDBErr = nil
	postgresDBOnce = sync.Once{}
	persistenceMode = ""
	persistenceModeOnce = sync.Once{}
}

// loadCharacter fetches a saved character by name. A missing save is not
// an error; characters are only ever created through CREATE_CHARACTER.
func loadCharacter(name string) (*Character, bool, error) {
	if strings.TrimSpace(name) == "" {
		return nil, false, nil
	}

	mode := activePersistenceMode()
	safeName := sanitizeCharacterName(name)
	switch mode {
	case persistenceJSON:
		return loadCharacterFromLegacy(name)

	case persistencePostgres:
		db, err := openPostgresDB()
		if err != nil {
			return nil, false, fmt.Errorf("postgres unavailable: %w", err)
		}
		return loadCharacterFromPostgres(db, safeName, name)

	case persistenceDB, persistenceHybrid:
		db, err := openCharacterDB()
		if err != nil {
			if mode == persistenceHybrid {
				log.Printf("Character DB unavailable, falling back to JSON: %v", err)
				return loadCharacterFromLegacy(name)
			}
			return nil, false, fmt.Errorf("character db unavailable in db mode: %w", err)
		}

		c, found, loadErr := loadCharacterFromDB(db, safeName, name)
		if loadErr != nil {
			if mode == persistenceHybrid {
				log.Printf("Character DB read failed for %q; trying JSON fallback: %v", name, loadErr)
				legacy, found, legacyErr := loadCharacterFromLegacy(name)
				if legacyErr != nil {
					return nil, false, legacyErr
				}
				if found {
					if persistErr := persistCharacterToDB(db, legacy); persistErr != nil {
						log.Printf("Character migration to DB failed for %q: %v", name, persistErr)
					}
					return legacy, true, nil
				}
				return nil, false, nil
			}
			return nil, false, loadErr
		}
		return c, found, nil
	}

	return nil, false, fmt.Errorf("unknown persistence mode %q", mode)
}

func persistCharacter(c *Character) error {
	if c == nil {
		return nil
	}
	ensureCharacterDefaults(c)

	mode := activePersistenceMode()
	switch mode {
	case persistenceJSON:
		return persistCharacterLegacy(c)
	case persistencePostgres:
		db, err := openPostgresDB()
		if err != nil {
			return fmt.Errorf("postgres unavailable: %w", err)
		}
		return persistCharacterToPostgres(db, c)
	case persistenceDB:
		db, err := openCharacterDB()
		if err != nil {
			return fmt.Errorf("character db unavailable in db mode: %w", err)
		}
		return persistCharacterToDB(db, c)
	case persistenceHybrid:
		db, err := openCharacterDB()
		if err == nil {
			if persistErr := persistCharacterToDB(db, c); persistErr == nil {
				return nil
			} else {
				log.Printf("Character DB write failed for %q, falling back to JSON: %v", c.Name, persistErr)
			}
		} else {
			log.Printf("Character DB unavailable, falling back to JSON: %v", err)
		}
		return persistCharacterLegacy(c)
	default:
		return fmt.Errorf("unknown persistence mode %q", mode)
	}
}

// deleteCharacter removes the save in whatever store the active mode uses.
// Death is permanent; the record does not come back.
func deleteCharacter(name string) error {
	safeName := sanitizeCharacterName(name)

	switch activePersistenceMode() {
	case persistenceJSON:
		return deleteCharacterLegacy(safeName)
	case persistencePostgres:
		db, err := openPostgresDB()
		if err != nil {
			return fmt.Errorf("postgres unavailable: %w", err)
		}
		_, err = db.Exec(`DELETE FROM characters WHERE name = $1`, safeName)
		return err
	case persistenceDB:
		db, err := openCharacterDB()
		if err != nil {
			return fmt.Errorf("character db unavailable in db mode: %w", err)
		}
		_, err = db.Exec(`DELETE FROM characters WHERE name = ?`, safeName)
		return err
	case persistenceHybrid:
		var dbErr error
		if db, err := openCharacterDB(); err == nil {
			_, dbErr = db.Exec(`DELETE FROM characters WHERE name = ?`, safeName)
		} else {
			dbErr = err
		}
		legacyErr := deleteCharacterLegacy(safeName)
		if dbErr != nil {
			return dbErr
		}
		return legacyErr
	}
	return nil
}

func deleteCharacterLegacy(safeName string) error {
	path := filepath.Join(characterStoreDir, safeName+".json")
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func openCharacterDB() (*sql.DB, error) {
	characterDBOnce.Do(func() {
		if err := os.MkdirAll(filepath.Dir(characterDBPath), 0o755); err != nil {
			characterDBErr = err
			return
		}

		db, err := sql.Open("sqlite", characterDBPath)
		if err != nil {
			characterDBErr = err
			return
		}
		db.SetMaxOpenConns(1)

		schema := `
CREATE TABLE IF NOT EXISTS characters (
  name TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
		if _, err := db.Exec(schema); err != nil {
			_ = db.Close()
			characterDBErr = err
			return
		}

		// One-time migration from legacy JSON files into SQLite.
		if err := migrateLegacyCharactersToDB(db); err != nil {
			_ = db.Close()
			characterDBErr = err
			return
		}

		characterDBConn = db
	})
	return characterDBConn, characterDBErr
}

func openPostgresDB() (*sql.DB, error) {
	postgresDBOnce.Do(func() {
		dsn := strings.TrimSpace(os.Getenv("DYNASTYFALL_POSTGRES_DSN"))
		if dsn == "" {
			postgresDBErr = errors.New("DYNASTYFALL_POSTGRES_DSN is not set")
			return
		}

		db, err := sql.Open("pgx", dsn)
		if err != nil {
			postgresDBErr = err
			return
		}

		schema := `
CREATE TABLE IF NOT EXISTS characters (
  name TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`
		if _, err := db.Exec(schema); err != nil {
			_ = db.Close()
			postgresDBErr = err
			return
		}

		postgresDBConn = db
	})
	return postgresDBConn, postgresDBErr
}

func migrateLegacyCharactersToDB(db *sql.DB) error {
	entries, err := os.ReadDir(characterStoreDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		rawName := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		path := filepath.Join(characterStoreDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var c Character
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}

		if strings.TrimSpace(c.Name) == "" {
			c.Name = rawName
		}
		ensureCharacterDefaults(&c)
		if err := persistCharacterToDB(db, &c); err != nil {
			return err
		}
	}
	return nil
}

func loadCharacterFromDB(db *sql.DB, safeName, inputName string) (*Character, bool, error) {
	var payload string
	err := db.QueryRow(`SELECT payload FROM characters WHERE name = ?`, safeName).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return decodeCharacterPayload(payload, inputName)
}

func loadCharacterFromPostgres(db *sql.DB, safeName, inputName string) (*Character, bool, error) {
	var payload string
	err := db.QueryRow(`SELECT payload FROM characters WHERE name = $1`, safeName).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return decodeCharacterPayload(payload, inputName)
}

func decodeCharacterPayload(payload, inputName string) (*Character, bool, error) {
	var c Character
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, false, err
	}
	c.Name = inputName
	ensureCharacterDefaults(&c)
	return &c, true, nil
}

func persistCharacterToDB(db *sql.DB, c *Character) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO characters(name, payload, updated_at)
		 VALUES(?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		   payload=excluded.payload,
		   updated_at=CURRENT_TIMESTAMP`,
		sanitizeCharacterName(c.Name),
		string(payload),
	)
	return err
}

func persistCharacterToPostgres(db *sql.DB, c *Character) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO characters(name, payload, updated_at)
		 VALUES($1, $2, now())
		 ON CONFLICT(name) DO UPDATE SET
		   payload=excluded.payload,
		   updated_at=now()`,
		sanitizeCharacterName(c.Name),
		string(payload),
	)
	return err
}

func loadCharacterFromLegacy(name string) (*Character, bool, error) {
	path := filepath.Join(characterStoreDir, sanitizeCharacterName(name)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var c Character
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, false, err
	}
	c.Name = name
	ensureCharacterDefaults(&c)
	return &c, true, nil
}

func persistCharacterLegacy(c *Character) error {
	if err := os.MkdirAll(characterStoreDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(characterStoreDir, sanitizeCharacterName(c.Name)+".json")
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func activePersistenceMode() string {
	persistenceModeOnce.Do(func() {
		raw := strings.ToLower(strings.TrimSpace(os.Getenv("DYNASTYFALL_PERSISTENCE_MODE")))
		switch raw {
		case "", "db", "sqlite":
			persistenceMode = persistenceDB
		case "hybrid":
			persistenceMode = persistenceHybrid
		case "json", "legacy":
			persistenceMode = persistenceJSON
		case "postgres", "pg":
			persistenceMode = persistencePostgres
		default:
			log.Printf("Unknown DYNASTYFALL_PERSISTENCE_MODE=%q, defaulting to db", raw)
			persistenceMode = persistenceDB
		}
		log.Printf("Persistence mode: %s", persistenceMode)
	})
	return persistenceMode
}

func sanitizeCharacterName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "nameless"
	}
	var b strings.Builder
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z':
			b.WriteRune(ch)
		case ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == '_' || ch == '-':
			b.WriteRune(ch)
		case ch == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "nameless"
	}
	return b.String()
}
