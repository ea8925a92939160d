package persistence

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/aarushkx/speak-free/internal/config"
)

// UsersCollection is the collection holding user documents and their embedded messages.
const UsersCollection = "users"

// Mongo lazily opens one client for the whole process and hands it out to every request.
type Mongo struct {
	cfg    config.MongoConfig
	logger *zap.Logger

	mu     sync.Mutex
	client *mongo.Client
}

// NewMongo prepares the gateway without connecting.
func NewMongo(cfg config.MongoConfig, logger *zap.Logger) *Mongo {
	return &Mongo{cfg: cfg, logger: logger}
}

// Client returns the memoized client, connecting on first use.
// A failed attempt is not memoized; the next caller tries again.
func (m *Mongo) Client(ctx context.Context) (*mongo.Client, error) {
	if m == nil {
		return nil, errors.New("mongo gateway not configured")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		m.logger.Debug("reusing mongo connection")
		return m.client, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(m.cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	m.logger.Info("connected to mongo", zap.String("database", m.cfg.Database))
	m.client = client
	return client, nil
}

// Database returns the configured database handle.
func (m *Mongo) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := m.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(m.cfg.Database), nil
}

// Users returns the users collection.
func (m *Mongo) Users(ctx context.Context) (*mongo.Collection, error) {
	db, err := m.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(UsersCollection), nil
}

// EnsureIndexes creates the uniqueness and sort indexes of the users collection.
// Username is unique among verified users only; e-mail is unique across all records.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	coll, err := m.Users(ctx)
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("verified_username_unique").
				SetPartialFilterExpression(bson.M{"isVerified": true}),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("username_created"),
		},
		{
			Keys:    bson.D{{Key: "isVerified", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("directory"),
		},
	})
	return err
}

// Disconnect closes the memoized client, if any.
func (m *Mongo) Disconnect(ctx context.Context) error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	return err
}
