package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"activity-tracker/internal/domain"
)

type eventDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	EventType string             `bson:"eventType"`
	Metadata  map[string]any     `bson:"metadata,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d eventDocument) toDomain() domain.Event {
	return domain.Event{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		EventType: domain.EventType(d.EventType),
		Metadata:  domain.Metadata(d.Metadata),
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type typeCountRow struct {
	EventType string `bson:"_id"`
	Count     int64  `bson:"count"`
}

type activityRow struct {
	UserID      primitive.ObjectID `bson:"userId"`
	UserName    string             `bson:"userName"`
	TotalEvents int64              `bson:"totalEvents"`
	LastEventAt time.Time          `bson:"lastEventAt"`
}

type EventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{coll: db.Collection(eventsCollection)}
}

func (r *EventRepository) Init(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "eventType", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create events indexes: %w", err)
	}
	return nil
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	userID, err := primitive.ObjectIDFromHex(event.UserID)
	if err != nil {
		return domain.NewValidationError("userId", "Invalid User ID")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = domain.Now()
	}
	doc := eventDocument{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		EventType: string(event.EventType),
		Metadata:  event.Metadata,
		CreatedAt: event.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	event.ID = doc.ID.Hex()
	return nil
}

func (r *EventRepository) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	query, err := eventQuery(filter)
	if err != nil {
		return nil, err
	}

	cursor, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]domain.Event, len(docs))
	for i := range docs {
		events[i] = docs[i].toDomain()
	}
	return events, nil
}

func (r *EventRepository) CountByType(ctx context.Context) ([]domain.EventTypeCount, error) {
	cursor, err := r.coll.Aggregate(ctx, countByTypePipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregate events summary: %w", err)
	}

	var rows []typeCountRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode events summary: %w", err)
	}

	counts := make([]domain.EventTypeCount, len(rows))
	for i, row := range rows {
		counts[i] = domain.EventTypeCount{EventType: domain.EventType(row.EventType), Count: row.Count}
	}
	return counts, nil
}

func (r *EventRepository) UserActivity(ctx context.Context) ([]domain.UserActivity, error) {
	cursor, err := r.coll.Aggregate(ctx, userActivityPipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregate user activity: %w", err)
	}

	var rows []activityRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode user activity: %w", err)
	}

	activity := make([]domain.UserActivity, len(rows))
	for i, row := range rows {
		activity[i] = domain.UserActivity{
			UserID:      row.UserID.Hex(),
			UserName:    row.UserName,
			TotalEvents: row.TotalEvents,
			LastEventAt: row.LastEventAt.UTC(),
		}
	}
	return activity, nil
}
