package config

// This file defines a MongoDB client constructor.  The document store holds
// the auth-event audit trail; it is optional in the same way Redis is.  If
// the server cannot be reached during startup the function returns nil and
// the audit recorder degrades to a no-op.

import (
    "context"
    "os"
    "time"

    "go.mongodb.org/mongo-driver/mongo"
    "go.mongodb.org/mongo-driver/mongo/options"
    "go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoClient connects to the MongoDB instance named by MONGODB_URL
// (default mongodb://localhost:27017).  The returned client may be nil if
// the server is unreachable.
func NewMongoClient() *mongo.Client {
    uri := os.Getenv("MONGODB_URL")
    if uri == "" {
        uri = "mongodb://localhost:27017"
    }

    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()

    client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
    if err != nil {
        return nil
    }
    if err := client.Ping(ctx, readpref.Primary()); err != nil {
        _ = client.Disconnect(context.Background())
        return nil
    }
    return client
}
