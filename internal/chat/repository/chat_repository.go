package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatterbox_service/internal/chat/domain"
)

// ErrChatNotFound no chat matches the given id
var ErrChatNotFound = errors.New("chat not found")

// ChatRepository definition chat document access
type ChatRepository interface {
	Insert(ctx context.Context, chat *domain.Chat) error
	FindByID(ctx context.Context, chatID string) (*domain.Chat, error)
	// FindDirect a one-on-one chat holding exactly the two participants
	FindDirect(ctx context.Context, memberA, memberB string) (*domain.Chat, error)
	// FindByParticipant all chats of a member, most recently active first
	FindByParticipant(ctx context.Context, memberID string) ([]domain.Chat, error)
	FindGroupsByAdmin(ctx context.Context, memberID string) ([]domain.Chat, error)
	UpdateGroupName(ctx context.Context, chatID, name string, now int64) error
	UpdateGroupPicture(ctx context.Context, chatID, objectName string, now int64) error
	AddParticipant(ctx context.Context, chatID, memberID string, now int64) error
	RemoveParticipant(ctx context.Context, chatID, memberID string, now int64) error
	SetLastMessage(ctx context.Context, chatID string, last *domain.LastMessage, now int64) error
}

type chatRepository struct {
	coll *mongo.Collection
}

// NewMongoChatRepository create a ChatRepository
func NewMongoChatRepository(db *mongo.Database) ChatRepository {
	return &chatRepository{
		coll: db.Collection("chats"),
	}
}

func (r *chatRepository) Insert(ctx context.Context, chat *domain.Chat) error {
	_, err := r.coll.InsertOne(ctx, chat)
	return err
}

func (r *chatRepository) FindByID(ctx context.Context, chatID string) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.coll.FindOne(ctx, bson.M{"_id": chatID}).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) FindDirect(ctx context.Context, memberA, memberB string) (*domain.Chat, error) {
	filter := bson.M{
		"is_group":     false,
		"participants": bson.M{"$all": []string{memberA, memberB}, "$size": 2},
	}
	var chat domain.Chat
	err := r.coll.FindOne(ctx, filter).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) FindByParticipant(ctx context.Context, memberID string) ([]domain.Chat, error) {
	opts := options.Find().SetSort(bson.M{"updated_at": -1})
	cur, err := r.coll.Find(ctx, bson.M{"participants": memberID}, opts)
	if err != nil {
		return nil, err
	}
	var chats []domain.Chat
	if err := cur.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *chatRepository) FindGroupsByAdmin(ctx context.Context, memberID string) ([]domain.Chat, error) {
	opts := options.Find().SetSort(bson.M{"updated_at": -1})
	cur, err := r.coll.Find(ctx, bson.M{"is_group": true, "admin": memberID}, opts)
	if err != nil {
		return nil, err
	}
	var chats []domain.Chat
	if err := cur.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *chatRepository) UpdateGroupName(ctx context.Context, chatID, name string, now int64) error {
	update := bson.M{"$set": bson.M{"group_name": name, "updated_at": now}}
	return r.updateOne(ctx, chatID, update)
}

func (r *chatRepository) UpdateGroupPicture(ctx context.Context, chatID, objectName string, now int64) error {
	update := bson.M{"$set": bson.M{"group_picture": objectName, "updated_at": now}}
	return r.updateOne(ctx, chatID, update)
}

func (r *chatRepository) AddParticipant(ctx context.Context, chatID, memberID string, now int64) error {
	update := bson.M{
		"$addToSet": bson.M{"participants": memberID},
		"$set":      bson.M{"updated_at": now},
	}
	return r.updateOne(ctx, chatID, update)
}

func (r *chatRepository) RemoveParticipant(ctx context.Context, chatID, memberID string, now int64) error {
	update := bson.M{
		"$pull": bson.M{"participants": memberID},
		"$set":  bson.M{"updated_at": now},
	}
	return r.updateOne(ctx, chatID, update)
}

// SetLastMessage overwrite the denormalized preview, last write wins
func (r *chatRepository) SetLastMessage(ctx context.Context, chatID string, last *domain.LastMessage, now int64) error {
	update := bson.M{"$set": bson.M{"last_message": last, "updated_at": now}}
	return r.updateOne(ctx, chatID, update)
}

func (r *chatRepository) updateOne(ctx context.Context, chatID string, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": chatID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}
