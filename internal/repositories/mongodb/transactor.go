package mongodb

import (
	"context"

	"github.com/Questify-PPL/backend-sub000/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor implements repositories.Transactor over a mongo session. Writes
// issued through the callback's context join the session's transaction, so the
// pity ledger's multi-document update and the settlement distribution block
// commit or abort as a unit.
type Transactor struct {
	client *mongo.Client
}

// NewTransactor creates a new Transactor
func NewTransactor(client *mongo.Client) repositories.Transactor {
	return &Transactor{client: client}
}

// WithTransaction runs fn inside a session transaction
func (t *Transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
