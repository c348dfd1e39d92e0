// Package mongodir resolves notification recipients from a MongoDB users
// collection.
package mongodir

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/notifykit/pkg/notifications"
)

// DefaultCollection is the collection read when none is configured.
const DefaultCollection = "users"

// Directory implements notifications.Directory.
type Directory struct {
	users *mongo.Collection
}

var _ notifications.Directory = (*Directory)(nil)

// Option configures a Directory.
type Option func(*options)

type options struct {
	collection string
}

// WithCollection reads users from name instead of DefaultCollection.
func WithCollection(name string) Option {
	return func(o *options) {
		if name != "" {
			o.collection = name
		}
	}
}

func New(db *mongo.Database, opts ...Option) *Directory {
	o := options{collection: DefaultCollection}
	for _, opt := range opts {
		opt(&o)
	}
	return &Directory{users: db.Collection(o.collection)}
}

// userDocument is the stored shape. _id may be a string or an ObjectID.
type userDocument struct {
	ID                any      `bson:"_id"`
	Email             string   `bson:"email"`
	FullName          string   `bson:"full_name"`
	FirstName         string   `bson:"first_name"`
	LastName          string   `bson:"last_name"`
	PreferredChannels []string `bson:"preferred_channels"`
}

// FindUser looks id up as a string key and, when it is valid hex, as an
// ObjectID.
func (d *Directory) FindUser(ctx context.Context, id string) (*notifications.User, error) {
	var doc userDocument
	err := d.users.FindOne(ctx, filterByID(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notifications.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	u := doc.toUser()
	return &u, nil
}

func filterByID(id string) bson.D {
	ids := bson.A{id}
	if oid, err := bson.ObjectIDFromHex(id); err == nil {
		ids = append(ids, oid)
	}
	return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
}

func (doc userDocument) toUser() notifications.User {
	u := notifications.User{
		Email:    doc.Email,
		FullName: doc.FullName,
	}
	switch id := doc.ID.(type) {
	case string:
		u.ID = id
	case bson.ObjectID:
		u.ID = id.Hex()
	case nil:
	default:
		u.ID = fmt.Sprint(id)
	}
	if u.FullName == "" {
		u.FullName = joinName(doc.FirstName, doc.LastName)
	}
	for _, ch := range doc.PreferredChannels {
		if c := notifications.Channel(ch); c.Valid() {
			u.PreferredChannels = append(u.PreferredChannels, c)
		}
	}
	return u
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
