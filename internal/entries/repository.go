package entries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("entry not found")

// Repository provides entry persistence operations.
type Repository interface {
	Insert(ctx context.Context, e *Entry) (string, error)
	// Delete removes an entry scoped by both id and author in a single
	// filter; ErrNotFound when no row matched (wrong id or wrong author).
	Delete(ctx context.Context, id, authorID string) error
	// List returns all entries joined with their author, createdAt descending.
	List(ctx context.Context) ([]*Entry, error)
}

// MongoRepository implements Repository against an entries collection, with
// the author join done via $lookup on the users collection.
type MongoRepository struct {
	col      *mongo.Collection
	usersCol string
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col, usersCol: "users"}
}

func (r *MongoRepository) Insert(ctx context.Context, e *Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, e); err != nil {
		return "", err
	}
	return e.ID, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id, authorID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "authorId": authorID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context) ([]*Entry, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: r.usersCol},
			{Key: "localField", Value: "authorId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$author"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Entry{}
	for cur.Next(ctx) {
		var e Entry
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, cur.Err()
}
