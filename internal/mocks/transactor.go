package mocks

import (
	"context"

	"moey-backend/internal/repository"
)

// Transactor runs fn directly against Repos, without a real transaction.
type Transactor struct {
	Repos *repository.Repositories
	Calls int
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	t.Calls++
	return fn(t.Repos)
}
