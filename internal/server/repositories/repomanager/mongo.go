package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/stylish/internal/server/repositories/purchases"
	"github.com/dmitrijs2005/stylish/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// DefaultMongoDatabase is used when the URI names no database.
const DefaultMongoDatabase = "stylish"

// MongoRepositoryManager vends MongoDB-backed repositories over one client.
type MongoRepositoryManager struct {
	client    *mongo.Client
	users     *users.MongoRepository
	purchases *purchases.MongoRepository
}

// OpenMongo connects to the deployment in uri. The database is taken from
// the URI path.
func OpenMongo(ctx context.Context, uri string) (*MongoRepositoryManager, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("parse mongo uri: %w", err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	name := cs.Database
	if name == "" {
		name = DefaultMongoDatabase
	}
	return NewMongoRepositoryManager(client, client.Database(name)), nil
}

// NewMongoRepositoryManager wires repositories over db. client may be nil
// when the caller owns the connection.
func NewMongoRepositoryManager(client *mongo.Client, db *mongo.Database) *MongoRepositoryManager {
	return &MongoRepositoryManager{
		client:    client,
		users:     users.NewMongoRepository(db),
		purchases: purchases.NewMongoRepository(db),
	}
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) Purchases() purchases.Repository {
	return m.purchases
}

// RunMigrations creates the indexes both repositories depend on.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := m.users.EnsureIndexes(ctx); err != nil {
		return err
	}
	return m.purchases.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
