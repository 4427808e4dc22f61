package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/token-service/internal/domain"
)

// MemoryCredentialRepository keeps credentials in process memory. Used by tests and local runs.
type MemoryCredentialRepository struct {
	mu      sync.RWMutex
	records map[string]domain.CredentialRecord
}

// NewMemoryCredentialRepository returns an empty store.
func NewMemoryCredentialRepository() *MemoryCredentialRepository {
	return &MemoryCredentialRepository{records: make(map[string]domain.CredentialRecord)}
}

func (r *MemoryCredentialRepository) Create(_ context.Context, rec *domain.CredentialRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if identifierTaken(existing, rec.Username) || identifierTaken(existing, rec.Email) {
			return ErrDuplicate
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = domain.CredentialStatusActive
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now
	r.records[rec.ID] = *rec
	return nil
}

func (r *MemoryCredentialRepository) FindByIdentifier(_ context.Context, identifier string) (*domain.CredentialRecord, error) {
	identifier = strings.TrimSpace(identifier)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var byEmail *domain.CredentialRecord
	for _, rec := range r.records {
		if rec.Username == identifier {
			found := rec
			return &found, nil
		}
		if byEmail == nil && strings.EqualFold(rec.Email, identifier) {
			found := rec
			byEmail = &found
		}
	}
	if byEmail == nil {
		return nil, ErrNotFound
	}
	return byEmail, nil
}

func identifierTaken(rec domain.CredentialRecord, value string) bool {
	return value != "" && (strings.EqualFold(rec.Username, value) || strings.EqualFold(rec.Email, value))
}
