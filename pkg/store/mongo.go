package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Defaults for MongoConfig fields left empty.
const (
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "shadergraph"
	DefaultMongoCollection = "graphs"
)

// MongoStore keeps documents in a MongoDB collection keyed by the string
// form of their id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// mongoDoc is the stored shape. The graph is kept as a JSON string so it
// stays readable in the shell.
type mongoDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Graph     string    `bson:"graph,omitempty"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects, pings the primary and ensures the updated_at index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = DefaultMongoURI
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "updated_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll, now: time.Now}, nil
}

func (s *MongoStore) Save(ctx context.Context, doc *Document) error {
	if err := validate(doc); err != nil {
		return err
	}
	doc.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)
	rec := mongoDoc{ID: doc.ID.String(), Name: doc.Name, Graph: string(doc.Graph), UpdatedAt: doc.UpdatedAt}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, id uuid.UUID) (*Document, error) {
	var rec mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", id, err)
	}
	return rec.document()
}

func (s *MongoStore) List(ctx context.Context) ([]Document, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"graph": 0})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var recs []mongoDoc
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]Document, 0, len(recs))
	for _, rec := range recs {
		d, err := rec.document()
		if err != nil {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (r mongoDoc) document() (*Document, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	d := &Document{ID: id, Name: r.Name, UpdatedAt: r.UpdatedAt}
	if r.Graph != "" {
		d.Graph = []byte(r.Graph)
	}
	return d, nil
}

var _ Store = (*MongoStore)(nil)
