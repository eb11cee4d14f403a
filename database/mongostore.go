package database

import (
	"context"
	"time"

	"github.com/jalexanderII/zero-todo/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// toggleAttempts bounds the compare-and-set loop in ToggleItem.
const toggleAttempts = 3

// MongoStore keeps each list as one document with its items embedded, so the ownership
// check and the write are always a single filtered document update.
type MongoStore struct {
	client *mongo.Client
	Db     *mongo.Collection
}

func NewMongoStore(client *mongo.Client, coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: client, Db: coll}
}

func (s *MongoStore) ListsByOwner(ctx context.Context, ownerID string) ([]models.TodoList, error) {
	lists := make([]models.TodoList, 0)
	filter := bson.M{"created_by_id": ownerID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.Db.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find lists")
	}

	if err = cursor.All(ctx, &lists); err != nil {
		return nil, errors.Wrap(err, "decode lists")
	}
	for i := range lists {
		if lists[i].TodoItems == nil {
			lists[i].TodoItems = []models.TodoItem{}
		}
		sortItems(lists[i].TodoItems)
	}
	return lists, nil
}

func (s *MongoStore) InsertList(ctx context.Context, list *models.TodoList) error {
	if list.TodoItems == nil {
		list.TodoItems = []models.TodoItem{}
	}
	if _, err := s.Db.InsertOne(ctx, list); err != nil {
		return errors.Wrap(err, "insert list")
	}
	return nil
}

func (s *MongoStore) DeleteList(ctx context.Context, ownerID, listID string) error {
	res, err := s.Db.DeleteOne(ctx, bson.M{"_id": listID, "created_by_id": ownerID})
	if err != nil {
		return errors.Wrap(err, "delete list")
	}
	if res.DeletedCount == 0 {
		return models.ErrForbidden
	}
	return nil
}

func (s *MongoStore) InsertItem(ctx context.Context, ownerID string, item *models.TodoItem) error {
	filter := bson.M{"_id": item.TodoListID, "created_by_id": ownerID}
	update := bson.M{"$push": bson.M{"todo_items": item}}
	res, err := s.Db.UpdateOne(ctx, filter, update)
	if err != nil {
		return errors.Wrap(err, "insert item")
	}
	if res.MatchedCount == 0 {
		return models.ErrForbidden
	}
	return nil
}

func (s *MongoStore) findItem(ctx context.Context, ownerID, itemID string) (*models.TodoItem, error) {
	var list models.TodoList
	filter := bson.M{"todo_items._id": itemID, "created_by_id": ownerID}
	opts := options.FindOne().SetProjection(bson.M{"todo_items.$": 1})
	err := s.Db.FindOne(ctx, filter, opts).Decode(&list)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrForbidden
	}
	if err != nil {
		return nil, errors.Wrap(err, "find item")
	}
	if len(list.TodoItems) != 1 {
		return nil, models.ErrForbidden
	}
	return &list.TodoItems[0], nil
}

func (s *MongoStore) ToggleItem(ctx context.Context, ownerID, itemID string, now time.Time) (*models.TodoItem, error) {
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		item, err := s.findItem(ctx, ownerID, itemID)
		if err != nil {
			return nil, err
		}

		// only flip if nobody flipped it since we read it
		filter := bson.M{
			"created_by_id": ownerID,
			"todo_items":    bson.M{"$elemMatch": bson.M{"_id": itemID, "completed": item.Completed}},
		}
		update := bson.M{"$set": bson.M{
			"todo_items.$.completed":  !item.Completed,
			"todo_items.$.updated_at": now,
		}}
		res, err := s.Db.UpdateOne(ctx, filter, update)
		if err != nil {
			return nil, errors.Wrap(err, "toggle item")
		}
		if res.MatchedCount == 1 {
			item.Completed = !item.Completed
			item.UpdatedAt = now
			return item, nil
		}
	}
	return nil, errors.Errorf("toggle item %s: concurrent modification", itemID)
}

func (s *MongoStore) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	filter := bson.M{"todo_items._id": itemID, "created_by_id": ownerID}
	update := bson.M{"$pull": bson.M{"todo_items": bson.M{"_id": itemID}}}
	res, err := s.Db.UpdateOne(ctx, filter, update)
	if err != nil {
		return errors.Wrap(err, "delete item")
	}
	if res.MatchedCount == 0 {
		return models.ErrForbidden
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
