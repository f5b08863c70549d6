package accountfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRepositoryListJSONKeepsOrderAndFiltersDisabled(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "checkin-acc.json", `{
		"accounts": [
			{"name": "zeta", "session_token": "tok-z", "description": "last alphabetically"},
			{"name": "alpha", "session_token": "tok-a", "cookies": "lang=en", "enabled": true},
			{"name": "off", "session_token": "tok-o", "enabled": false},
			{"name": "mid", "session_token": "tok-m"}
		]
	}`)

	repo, err := NewRepository(path)
	require.NoError(t, err)

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.Account{
		{Name: "zeta", SessionToken: "tok-z", Description: "last alphabetically", Enabled: true},
		{Name: "alpha", SessionToken: "tok-a", Cookies: "lang=en", Enabled: true},
		{Name: "mid", SessionToken: "tok-m", Enabled: true},
	}, accounts)
}

func TestRepositoryListAllIncludesDisabled(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "checkin-acc.json", `{"accounts": [
		{"name": "on", "session_token": "tok-1"},
		{"name": "off", "session_token": "tok-2", "enabled": false}
	]}`)

	repo, err := NewRepository(path)
	require.NoError(t, err)

	accounts, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.True(t, accounts[0].Enabled)
	assert.False(t, accounts[1].Enabled)
	assert.Equal(t, "off", accounts[1].Name)
}

func TestRepositoryIgnoresIncompleteDisabledEntries(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "checkin-acc.json", `{"accounts": [
		{"name": "alice", "session_token": "tok"},
		{"name": "old", "enabled": false},
		{"enabled": false, "description": "leftover"},
		{"name": "alice", "session_token": "stale", "enabled": false}
	]}`)

	repo, err := NewRepository(path)
	require.NoError(t, err)

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Account{{Name: "alice", SessionToken: "tok", Enabled: true}}, accounts)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, domain.Account{Name: "old"}, all[1])
	assert.Equal(t, domain.Account{Name: "account #3", Description: "leftover"}, all[2])
	assert.False(t, all[3].Enabled)
}

func TestRepositoryListTOML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "accounts.toml", `version = 1

[[accounts]]
name = "primary"
session_token = "tok-1"
description = "main"

[[accounts]]
name = "backup"
session_token = "tok-2"
enabled = false
`)

	repo, err := NewRepository(path)
	require.NoError(t, err)

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "primary", accounts[0].Name)
	assert.Equal(t, "primary (main)", accounts[0].Label())
}

func TestRepositoryListEmptyAccounts(t *testing.T) {
	t.Parallel()

	repo, err := NewRepository(writeFile(t, "checkin-acc.json", `{"accounts": []}`))
	require.NoError(t, err)

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestRepositoryListErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "malformed", body: `{"accounts": [`, wantErr: "decode accounts file"},
		{name: "missing name", body: `{"accounts": [{"session_token": "x"}]}`, wantErr: "name is required"},
		{name: "missing token", body: `{"accounts": [{"name": "a"}]}`, wantErr: "session_token is required"},
		{name: "duplicate", body: `{"accounts": [{"name": "a", "session_token": "x"}, {"name": "a", "session_token": "y"}]}`, wantErr: "duplicate name"},
		{name: "future version", body: `{"version": 9, "accounts": []}`, wantErr: "unsupported accounts schema version"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo, err := NewRepository(writeFile(t, "checkin-acc.json", tc.body))
			require.NoError(t, err)

			_, err = repo.List(context.Background())
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestRepositoryListMissingFile(t *testing.T) {
	t.Parallel()

	repo, err := NewRepository(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	_, err = repo.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRepositoryListHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	repo, err := NewRepository(writeFile(t, "checkin-acc.json", `{"accounts": []}`))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.List(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewRepositoryRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := NewRepository("  ")
	assert.ErrorContains(t, err, "accounts path is empty")
}
