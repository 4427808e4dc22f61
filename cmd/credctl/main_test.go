package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/token-service/internal/auth"
	"github.com/spec-kit/token-service/internal/domain"
	"github.com/spec-kit/token-service/internal/repository"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-identifier", " alice ", "-email", "a@x.com", "-role", "admin"}, "from-env")
	require.NoError(t, err)
	assert.Equal(t, "alice", opts.identifier)
	assert.Equal(t, "from-env", opts.password)
	assert.Equal(t, "admin", opts.role)

	_, err = parseFlags([]string{"-email", "a@x.com", "-password", "pw"}, "")
	assert.EqualError(t, err, "-identifier is required")

	_, err = parseFlags([]string{"-identifier", "alice", "-email", "a@x.com"}, "")
	assert.Error(t, err)

	_, err = parseFlags([]string{"-identifier", "alice", "-email", "a@x.com", "-password", "pw", "-role", "root"}, "")
	assert.EqualError(t, err, `unknown role "root"`)
}

func TestRun_CreatesHashedCredential(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryCredentialRepository()
	var out bytes.Buffer

	opts := options{identifier: "alice", email: "a@x.com", role: "user", password: "pw"}
	require.NoError(t, run(ctx, repo, opts, bcrypt.MinCost, &out))
	assert.Contains(t, out.String(), "alice")

	rec, err := repo.FindByIdentifier(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", rec.PasswordHash)
	assert.True(t, auth.BcryptComparer{}.CompareSecret("pw", rec.PasswordHash))
	assert.Equal(t, domain.CredentialStatusActive, rec.Status)

	err = run(ctx, repo, opts, bcrypt.MinCost, &out)
	assert.EqualError(t, err, `credential "alice" already exists`)
}
