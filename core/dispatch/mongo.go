package dispatch

import (
	"context"
	"fmt"

	"tablediff/core/errs"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// inserter is the part of *mongo.Collection the sink uses.
type inserter interface {
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
}

// MongoSink inserts each difference as a document.
type MongoSink struct {
	client *mongo.Client
	coll   inserter
}

// NewMongoSink connects to cfg.URI and pings the deployment.
func NewMongoSink(ctx context.Context, cfg MongoConfig) (*MongoSink, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to MongoDB: %v", errs.ErrConnection, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: pinging MongoDB: %v", errs.ErrConnection, err)
	}
	return &MongoSink{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Send implements Sink.
func (s *MongoSink) Send(ctx context.Context, p Payload) error {
	if _, err := s.coll.InsertOne(ctx, p.Default()); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrDispatch, err)
	}
	return nil
}

// Close implements Sink.
func (s *MongoSink) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
