package catalog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/styloxis/honeycomb/pkg/errors"
)

// MongoConfig locates the projects collection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// Mongo reads project documents from a MongoDB collection. Documents use the
// same field names as the JSON files (id, ring, angle, titre, ...).
type Mongo struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.Database == "" {
		cfg.Database = "portfolio"
	}
	if cfg.Collection == "" {
		cfg.Collection = "projects"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongodb")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	return &Mongo{
		client:  client,
		coll:    client.Database(cfg.Database).Collection(cfg.Collection),
		timeout: cfg.Timeout,
	}, nil
}

func (m *Mongo) Name() string {
	return fmt.Sprintf("mongo:%s.%s", m.coll.Database().Name(), m.coll.Name())
}

// Load returns every document sorted by ring then angle.
func (m *Mongo) Load(ctx context.Context) ([]Project, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "ring", Value: 1}, {Key: "angle", Value: 1}})
	cur, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query projects")
	}
	defer cur.Close(ctx)

	var projects []Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode projects")
	}
	return projects, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
