// Package audit writes auth events to the document store. The trail is a
// best-effort side channel: failures are logged and never propagate into
// the request that triggered them.
package audit

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	databaseName   = "auth"
	collectionName = "auth_events"
)

// Recorder appends auth events to the auth_events collection.
type Recorder struct {
	coll *mongo.Collection
}

// NewRecorder builds a Recorder on top of the given Mongo client. A nil
// client disables the trail; Record becomes a no-op.
func NewRecorder(client *mongo.Client) *Recorder {
	if client == nil {
		return &Recorder{}
	}
	return &Recorder{coll: client.Database(databaseName).Collection(collectionName)}
}

// Record inserts one event document. event is the operation name
// ("register", "login", "refresh").
func (r *Recorder) Record(ctx context.Context, event, userID, email string) {
	if r == nil || r.coll == nil {
		return
	}
	_, err := r.coll.InsertOne(ctx, bson.M{
		"event":   event,
		"user_id": userID,
		"email":   email,
		"at":      time.Now().UTC(),
	})
	if err != nil {
		log.Printf("audit: record %s for %s: %v", event, userID, err)
	}
}
