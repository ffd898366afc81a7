package auth_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	auth "github.com/encantar/go-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	sqliteCreateAdministradores = `CREATE TABLE administradores (
    id TEXT NOT NULL PRIMARY KEY,
    nome TEXT NOT NULL,
    login TEXT NOT NULL UNIQUE,
    senha_hash TEXT NOT NULL,
    ativo BOOLEAN NOT NULL DEFAULT TRUE,
    criado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    atualizado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

	sqliteCreateConvites = `CREATE TABLE convites (
    id TEXT NOT NULL PRIMARY KEY,
    email TEXT,
    telefone TEXT,
    token TEXT NOT NULL UNIQUE,
    expira_em TIMESTAMP NOT NULL,
    usado BOOLEAN NOT NULL DEFAULT FALSE,
    usado_em TIMESTAMP,
    enviado_por_id TEXT NOT NULL,
    criado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (enviado_por_id) REFERENCES administradores (id) ON DELETE CASCADE
);`
)

func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	_, err = bunDB.Exec(sqliteCreateAdministradores)
	require.NoError(t, err)
	_, err = bunDB.Exec(sqliteCreateConvites)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	return bunDB
}

func setupRepo(t *testing.T) auth.RepositoryManager {
	t.Helper()
	repo := auth.NewRepositoryManager(setupDB(t))
	require.NoError(t, repo.Validate())
	return repo
}

func testTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
	}, nil)
	require.NoError(t, err)
	return tokens
}

func seedAdministrator(t *testing.T, repo auth.RepositoryManager, login, senha string) *auth.Administrator {
	t.Helper()

	hash, err := auth.HashPassword(senha)
	require.NoError(t, err)

	admin, err := repo.Administrators().Create(context.Background(), &auth.Administrator{
		Nome:      "Administrador " + login,
		Login:     login,
		SenhaHash: hash,
	})
	require.NoError(t, err)

	return admin
}

// seedInvite writes an invite row directly, bypassing the manager, so tests
// can produce expired or contactless records.
func seedInvite(t *testing.T, repo auth.RepositoryManager, invite *auth.Invite) *auth.Invite {
	t.Helper()

	if invite.Token == "" {
		invite.Token = uuid.NewString()
	}
	if invite.ExpiraEm.IsZero() {
		invite.ExpiraEm = time.Now().Add(10 * time.Minute)
	}

	created, err := repo.Invites().Create(context.Background(), invite)
	require.NoError(t, err)

	return created
}

// memoryLogger records log lines so tests can assert on fallback warnings.
type memoryLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *memoryLogger) record(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+" "+format+" "+fmt.Sprint(args...))
}

func (l *memoryLogger) Debug(format string, args ...any) { l.record("DBG", format, args...) }
func (l *memoryLogger) Info(format string, args ...any)  { l.record("INF", format, args...) }
func (l *memoryLogger) Error(format string, args ...any) { l.record("ERR", format, args...) }

func (l *memoryLogger) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}
