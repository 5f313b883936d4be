package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatterbox_service/internal/chat/domain"
)

// MessageRepository definition message document access
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.Message) error
	// FindByChat messages of a chat ordered oldest first,
	// before=0 means no upper bound, limit<=0 means no limit
	FindByChat(ctx context.Context, chatID string, before int64, limit int64) ([]domain.Message, error)
}

type messageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		coll: db.Collection("messages"),
	}
}

func (r *messageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *messageRepository) FindByChat(ctx context.Context, chatID string, before int64, limit int64) ([]domain.Message, error) {
	filter := bson.M{"chat_id": chatID}
	if before > 0 {
		filter["timestamp"] = bson.M{"$lt": before}
	}

	opts := options.Find().SetSort(bson.M{"timestamp": 1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var messages []domain.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
