// Package imagestore keeps named bytecode images in a SQLite database.
package imagestore

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chazu/basic/bytecode"
	"github.com/tliron/commonlog"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

var log = commonlog.GetLogger("basic.imagestore")

// ErrImageNotFound indicates the requested image doesn't exist.
var ErrImageNotFound = errors.New("image not found")

// ErrChecksum indicates stored image data no longer matches its digest.
var ErrChecksum = errors.New("image checksum mismatch")

// Entry describes a stored image without decoding it.
type Entry struct {
	Name         string
	Instructions int
	Size         int
	Digest       string // hex BLAKE2b-256 of the encoded image
	SavedAt      time.Time
}

// Store handles SQLite storage for images.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens or creates the store at path. Missing parent directories are
// created.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS images (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		digest TEXT NOT NULL,
		instructions INTEGER NOT NULL,
		saved_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	log.Debugf("opened image store %s", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores img under name, replacing any image already there.
func (s *Store) Put(name string, img *bytecode.Image) error {
	if name == "" {
		return errors.New("image name must not be empty")
	}
	data, err := bytecode.EncodeImage(img)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO images (name, data, digest, instructions, saved_at) VALUES (?, ?, ?, ?, ?)",
		name, data, digest(data), img.Program.Len(), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving image: %w", err)
	}
	log.Infof("stored image %s (%d bytes)", name, len(data))
	return nil
}

// Get retrieves and decodes the image stored under name.
func (s *Store) Get(name string) (*bytecode.Image, error) {
	var data []byte
	var sum string
	err := s.db.QueryRow("SELECT data, digest FROM images WHERE name = ?", name).Scan(&data, &sum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", name, ErrImageNotFound)
		}
		return nil, fmt.Errorf("querying image: %w", err)
	}
	if digest(data) != sum {
		return nil, fmt.Errorf("%s: %w", name, ErrChecksum)
	}
	return bytecode.DecodeImage(data)
}

// List returns the stored images ordered by name.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query("SELECT name, instructions, length(data), digest, saved_at FROM images ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var savedAt string
		if err := rows.Scan(&e.Name, &e.Instructions, &e.Size, &e.Digest, &savedAt); err != nil {
			return nil, fmt.Errorf("listing images: %w", err)
		}
		e.SavedAt, err = time.Parse(time.RFC3339, savedAt)
		if err != nil {
			return nil, fmt.Errorf("image %s: bad timestamp %q: %w", e.Name, savedAt, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes the image stored under name.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM images WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", name, ErrImageNotFound)
	}
	return nil
}

func digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
