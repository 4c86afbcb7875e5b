// Package repo implements the Resource Store Adapter. This file provides the
// MongoDB-backed Store.
//
// Documents keep the historical field names of the collection: the category
// is stored under "type" and identifiers are ObjectIDs. Malformed ids are
// rejected with ErrInvalidID before any round-trip. Numbers written by older
// clients may be doubles or numeric strings; they are read leniently, and a
// document that still cannot be decoded is skipped by List.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tbourn/go-pokemon-api/internal/config"
	"github.com/tbourn/go-pokemon-api/internal/domain"
)

// pokemonDoc is the stored shape of a pokemon document.
type pokemonDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Category    string             `bson:"type"`
	Number      docNumber          `bson:"number"`
	WorldNumber docNumber          `bson:"worldNumber"`
}

// docNumber is an int that also decodes from int64, double, numeric strings
// and null. New documents are always written as integers.
type docNumber int

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (n *docNumber) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Int32:
		*n = docNumber(rv.Int32())
	case bsontype.Int64:
		*n = docNumber(rv.Int64())
	case bsontype.Double:
		*n = docNumber(rv.Double())
	case bsontype.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(rv.StringValue()), 64)
		if err != nil {
			return fmt.Errorf("number %q: %w", rv.StringValue(), err)
		}
		*n = docNumber(v)
	case bsontype.Null, bsontype.Undefined:
		*n = 0
	default:
		return fmt.Errorf("cannot decode %s into a number", t)
	}
	return nil
}

func newPokemonDoc(f domain.PokemonFields) pokemonDoc {
	return pokemonDoc{
		Name:        f.Name,
		Category:    f.Category,
		Number:      docNumber(f.Number),
		WorldNumber: docNumber(f.WorldNumber),
	}
}

func (d pokemonDoc) toDomain() domain.Pokemon {
	return domain.Pokemon{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Category:    d.Category,
		Number:      int(d.Number),
		WorldNumber: int(d.WorldNumber),
		CreatedAt:   d.ID.Timestamp().UTC(),
	}
}

// MongoStore persists pokemon in a single MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore wraps an existing collection. client may be nil when the
// caller owns the connection; Close is then a no-op.
func NewMongoStore(client *mongo.Client, coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: client, coll: coll}
}

// OpenMongo connects to cfg.URI, verifies the deployment with a primary
// ping and returns a store bound to cfg.Name/cfg.Collection.
func OpenMongo(ctx context.Context, cfg config.DatabaseConfig) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	coll := client.Database(cfg.Name).Collection(cfg.Collection)
	return NewMongoStore(client, coll), nil
}

// List returns every document ordered by _id, which follows insertion order.
// Documents that fail to decode are logged and left out.
func (s *MongoStore) List(ctx context.Context) ([]domain.Pokemon, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]domain.Pokemon, 0)
	for cur.Next(ctx) {
		var d pokemonDoc
		if err := cur.Decode(&d); err != nil {
			log.Warn().Err(err).
				Str("collection", s.coll.Name()).
				Str("id", cur.Current.Lookup("_id").String()).
				Msg("skipping undecodable pokemon document")
			continue
		}
		out = append(out, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one document by its hex ObjectID.
func (s *MongoStore) Get(ctx context.Context, id string) (*domain.Pokemon, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var d pokemonDoc
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p := d.toDomain()
	return &p, nil
}

// Insert stores f under a new ObjectID.
func (s *MongoStore) Insert(ctx context.Context, f domain.PokemonFields) (*domain.Pokemon, error) {
	d := newPokemonDoc(f)
	d.ID = primitive.NewObjectID()
	if _, err := s.coll.InsertOne(ctx, d); err != nil {
		return nil, err
	}
	p := d.toDomain()
	return &p, nil
}

// Replace swaps the whole document body of id for f.
func (s *MongoStore) Replace(ctx context.Context, id string, f domain.PokemonFields) (ReplaceResult, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return ReplaceResult{}, err
	}
	res, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, newPokemonDoc(f))
	if err != nil {
		return ReplaceResult{}, err
	}
	return ReplaceResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

// Delete removes the document with id.
func (s *MongoStore) Delete(ctx context.Context, id string) (DeleteResult, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return DeleteResult{}, err
	}
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Deleted: res.DeletedCount}, nil
}

// Ping checks the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, readpref.Primary())
}

// Close disconnects the client opened by OpenMongo.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}
