package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var ddl string

var ErrNoIdentity = errors.New("no identity stored")

// Identity is the locally stored, password-sealed signing key.
type Identity struct {
	Salt                []byte    `db:"salt"`
	EncryptedPrivateKey []byte    `db:"encrypted_private_key"`
	CreatedAt           time.Time `db:"created_at"`
}

type Database struct {
	db *sqlx.DB
}

func Open(databasePath string) (*Database, error) {
	ctx := context.Background()

	db, err := sqlx.Open("sqlite3", databasePath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db: db}, nil
}

func (database *Database) GetIdentity(ctx context.Context) (Identity, error) {
	var identity Identity
	err := database.db.GetContext(ctx, &identity, `SELECT salt, encrypted_private_key, created_at FROM identity WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, ErrNoIdentity
	}
	if err != nil {
		return Identity{}, fmt.Errorf("failed to get identity: %w", err)
	}
	return identity, nil
}

func (database *Database) CreateIdentity(ctx context.Context, salt []byte, encryptedPrivateKey []byte) error {
	_, err := database.db.ExecContext(ctx,
		`INSERT INTO identity (id, salt, encrypted_private_key, created_at) VALUES (1, ?, ?, ?)`,
		salt, encryptedPrivateKey, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}
	return nil
}

func (database *Database) Close() error {
	return database.db.Close()
}
