// Package mongodb provides a MongoDB-backed guild document store. Documents
// are keyed by their GUILD_ID field, one collection per namespace.
package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
)

var (
	ErrEmptyConnectionURI = errors.New("mongodb: empty connection URI")
	ErrEmptyDatabaseName  = errors.New("mongodb: empty database name")
	ErrConnectionFailed   = errors.New("mongodb: failed to create client")
)

// Backend shares one client between all collections.
type Backend struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open creates a client for uri. The driver connects lazily, so an
// unreachable server surfaces on the first operation or Ping.
// timeout bounds every operation; zero leaves it to the caller's context.
func Open(uri, database string, timeout time.Duration) (*Backend, error) {
	if uri == "" {
		return nil, ErrEmptyConnectionURI
	}
	if database == "" {
		return nil, ErrEmptyDatabaseName
	}

	opts := options.Client().ApplyURI(uri)
	if timeout > 0 {
		opts.SetTimeout(timeout)
	}
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	return &Backend{client: client, db: client.Database(database)}, nil
}

// Collection returns the store for one namespace.
func (b *Backend) Collection(name string) guilddata.Store {
	return &Store{coll: b.db.Collection(name)}
}

// Ping checks that the primary is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (b *Backend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

// Store reads and writes one collection.
type Store struct {
	coll *mongo.Collection
}

func (s *Store) FindAll(ctx context.Context) (map[snowflake.ID]guilddata.Document, error) {
	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("query guild documents: %w", err)
	}
	defer cursor.Close(ctx)

	docs := make(map[snowflake.ID]guilddata.Document)
	for cursor.Next(ctx) {
		guildID, ok := cursor.Current.Lookup(guilddata.FieldGuildID).AsInt64OK()
		if !ok {
			continue
		}
		doc, err := toDocument(cursor.Current)
		if err != nil {
			return nil, err
		}
		docs[snowflake.ID(guildID)] = doc
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate guild documents: %w", err)
	}
	return docs, nil
}

func (s *Store) Find(ctx context.Context, guildID snowflake.ID) (guilddata.Document, bool, error) {
	raw, err := s.coll.FindOne(ctx, guildFilter(guildID)).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get guild document: %w", err)
	}

	doc, err := toDocument(raw)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (s *Store) FindField(
	ctx context.Context,
	guildID snowflake.ID,
	key string,
) (json.RawMessage, bool, error) {
	projection := bson.D{{Key: key, Value: 1}, {Key: guilddata.FieldObjectID, Value: 0}}
	raw, err := s.coll.FindOne(ctx,
		guildFilter(guildID),
		options.FindOne().SetProjection(projection),
	).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get guild document field: %w", err)
	}

	doc, err := toDocument(raw)
	if err != nil {
		return nil, false, err
	}
	value, ok := doc[key]
	return value, ok, nil
}

func (s *Store) SetField(
	ctx context.Context,
	guildID snowflake.ID,
	key string,
	value json.RawMessage,
) error {
	bsonValue, err := toBSONValue(value)
	if err != nil {
		return err
	}

	update := bson.D{{Key: "$set", Value: bson.D{{Key: key, Value: bsonValue}}}}
	_, err = s.coll.UpdateOne(ctx, guildFilter(guildID), update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set guild document field: %w", err)
	}
	return nil
}

func (s *Store) UnsetField(ctx context.Context, guildID snowflake.ID, key string) error {
	update := bson.D{{Key: "$unset", Value: bson.D{{Key: key, Value: ""}}}}
	if _, err := s.coll.UpdateOne(ctx, guildFilter(guildID), update); err != nil {
		return fmt.Errorf("unset guild document field: %w", err)
	}
	return nil
}

func guildFilter(guildID snowflake.ID) bson.D {
	return bson.D{{Key: guilddata.FieldGuildID, Value: int64(guildID)}}
}

var _ guilddata.Store = (*Store)(nil)
