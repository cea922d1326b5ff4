// Package db is the MongoDB session-state driver.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/session"
)

const sessionsCollection = "sessions"

// Connect dials MongoDB and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

type stateDoc struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ExpiresAt time.Time `bson:"expiresAt"`
	Version   int64     `bson:"version"`
}

// Store keeps session namespaces as documents keyed by session.Key.
type Store struct {
	Sessions *mongo.Collection
	TTL      time.Duration
}

var _ session.Store = (*Store)(nil)

// NewStore ensures the TTL index on expiresAt exists.
func NewStore(ctx context.Context, database *mongo.Database, ttl time.Duration) (*Store, error) {
	coll := database.Collection(sessionsCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, fmt.Errorf("create ttl index: %w", err)
	}
	return &Store{Sessions: coll, TTL: ttl}, nil
}

func (s *Store) Load(ctx context.Context, sid, ns string, dst any) (bool, error) {
	var doc stateDoc
	// The TTL monitor runs about once a minute, so expiry is also checked here.
	filter := bson.M{"_id": session.Key(sid, ns), "expiresAt": bson.M{"$gt": time.Now()}}
	err := s.Sessions.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(doc.Data, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", ns, err)
	}
	return true, nil
}

func (s *Store) Save(ctx context.Context, sid, ns string, v any) error {
	// Values are stored as JSON so every driver shares the same encoding.
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ns, err)
	}
	_, err = s.Sessions.UpdateOne(ctx,
		bson.M{"_id": session.Key(sid, ns)},
		bson.M{
			"$set": bson.M{"data": data, "expiresAt": time.Now().Add(s.TTL)},
			"$inc": bson.M{"version": 1},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

const maxModifyRetries = 50

// Modify is a compare-and-swap on the document version.
func (s *Store) Modify(ctx context.Context, sid, ns string, fn func([]byte) ([]byte, error)) error {
	key := session.Key(sid, ns)
	for i := 0; i < maxModifyRetries; i++ {
		var doc stateDoc
		exists := true
		err := s.Sessions.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			exists = false
		} else if err != nil {
			return err
		}

		var data []byte
		if exists && doc.ExpiresAt.After(time.Now()) {
			data = doc.Data
		}
		out, err := fn(data)
		if err != nil {
			return err
		}
		next := stateDoc{Key: key, Data: out, ExpiresAt: time.Now().Add(s.TTL), Version: doc.Version + 1}

		if !exists {
			_, err = s.Sessions.InsertOne(ctx, next)
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return err
		}
		res, err := s.Sessions.ReplaceOne(ctx, bson.M{"_id": key, "version": doc.Version}, next)
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			return nil
		}
	}
	return session.ErrConflict
}

func (s *Store) Delete(ctx context.Context, sid, ns string) error {
	_, err := s.Sessions.DeleteOne(ctx, bson.M{"_id": session.Key(sid, ns)})
	return err
}
