package tokenstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/tripjournal/internal/client/migrations"
	"github.com/dmitrijs2005/tripjournal/internal/client/models"
	"github.com/dmitrijs2005/tripjournal/internal/client/repositories/secrets"
	"github.com/dmitrijs2005/tripjournal/internal/common"
	"github.com/dmitrijs2005/tripjournal/internal/cryptox"
	"github.com/dmitrijs2005/tripjournal/internal/dbx"

	_ "modernc.org/sqlite"
)

const (
	keySalt  = "salt"
	keyToken = "token"
)

// storedToken is the at-rest shape; unlike the wire shape it keeps the
// client-assigned expiration.
type storedToken struct {
	AccessToken    string    `json:"access_token"`
	TokenType      string    `json:"token_type"`
	ExpirationDate time.Time `json:"expiration_date"`
}

type VaultStore struct {
	db   *sql.DB
	repo secrets.Repository
	key  []byte
}

// RunMigrations applies the embedded vault migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("vault migrations: %w", err)
	}
	return nil
}

// OpenVault opens (or creates) the SQLite vault at dsn, migrates it and
// returns a store sealing tokens under passphrase.
func OpenVault(ctx context.Context, dsn string, passphrase []byte) (*VaultStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	v, err := NewVaultStore(ctx, db, passphrase)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return v, nil
}

// NewVaultStore wraps an already migrated database. The salt is read or,
// on first use, generated and stored in one transaction.
func NewVaultStore(ctx context.Context, db *sql.DB, passphrase []byte) (*VaultStore, error) {
	var salt []byte
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := secrets.NewSQLiteRepository(tx)
		s, err := repo.Get(ctx, keySalt)
		if err != nil {
			return err
		}
		if s == nil {
			s = cryptox.NewSalt()
			if err := repo.Set(ctx, keySalt, s); err != nil {
				return err
			}
		}
		salt = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vault salt: %w", err)
	}

	key := cryptox.DeriveKey(passphrase, salt)
	return &VaultStore{db: db, repo: secrets.NewSQLiteRepository(db), key: key}, nil
}

func (v *VaultStore) Save(ctx context.Context, t models.Token) error {
	plain, err := json.Marshal(storedToken{
		AccessToken:    t.AccessToken,
		TokenType:      t.TokenType,
		ExpirationDate: t.ExpirationDate,
	})
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	defer common.WipeByteArray(plain)

	sealed, err := cryptox.Seal(v.key, plain)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}
	return v.repo.Set(ctx, keyToken, sealed)
}

func (v *VaultStore) Load(ctx context.Context) (*models.Token, error) {
	sealed, err := v.repo.Get(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	if sealed == nil {
		return nil, nil
	}

	plain, err := cryptox.Open(v.key, sealed)
	if err != nil {
		return nil, fmt.Errorf("unseal token: %w", err)
	}
	defer common.WipeByteArray(plain)

	var st storedToken
	if err := json.Unmarshal(plain, &st); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return &models.Token{
		AccessToken:    st.AccessToken,
		TokenType:      st.TokenType,
		ExpirationDate: st.ExpirationDate,
	}, nil
}

func (v *VaultStore) Delete(ctx context.Context) error {
	return v.repo.Delete(ctx, keyToken)
}

// Close closes the underlying database.
func (v *VaultStore) Close() error {
	return v.db.Close()
}
