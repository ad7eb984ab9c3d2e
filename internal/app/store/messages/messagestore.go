// internal/app/store/messages/messagestore.go
package messagestore

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrEmptyMessage is returned when there is neither text nor a file to send.
var ErrEmptyMessage = errors.New("message has no text and no file")

// Store provides access to chat_messages.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("chat_messages")}
}

// Collection exposes the collection for live watching.
func (s *Store) Collection() *mongo.Collection { return s.c }

// ListAll returns every message, oldest first. The live hub filters it per
// participant.
func (s *Store) ListAll(ctx context.Context) ([]models.Message, error) {
	return s.find(ctx, bson.M{})
}

// ListForParticipant returns every message userID sent or received,
// oldest first.
func (s *Store) ListForParticipant(ctx context.Context, userID string) ([]models.Message, error) {
	return s.find(ctx, bson.M{"$or": []bson.M{{"sender_id": userID}, {"receiver_id": userID}}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Message, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Message{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create stores a message. Trimmed-empty text with no file is rejected
// before anything is written.
func (s *Store) Create(ctx context.Context, m models.Message) (models.Message, error) {
	m.Message = strings.TrimSpace(m.Message)
	if m.Message == "" && m.FileURL == "" {
		return models.Message{}, ErrEmptyMessage
	}
	m.ID = primitive.NewObjectID()
	m.Timestamp = models.Now()
	m.Read = false
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// MarkConversationRead flags every unread message from other to me as read
// in one write and returns how many changed.
func (s *Store) MarkConversationRead(ctx context.Context, me, other string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"sender_id": other, "receiver_id": me, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// UnreadCounts returns, per sender, how many unread messages me has.
func (s *Store) UnreadCounts(ctx context.Context, me string) (map[string]int, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"receiver_id": me, "read": false}}},
		{{Key: "$group", Value: bson.M{"_id": "$sender_id", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]int{}
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
			N  int    `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.N
	}
	return out, cur.Err()
}

// Thread filters all down to the conversation between me and other and
// orders it by timestamp, oldest first.
func Thread(all []models.Message, me, other string) []models.Message {
	out := make([]models.Message, 0, len(all))
	for _, m := range all {
		if (m.SenderID == me && m.ReceiverID == other) || (m.SenderID == other && m.ReceiverID == me) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Time().Before(out[j].Timestamp.Time())
	})
	return out
}
