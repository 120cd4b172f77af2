package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"activity-tracker/internal/domain"
)

// eventQuery translates a filter into a conjunctive find document.
func eventQuery(filter domain.EventFilter) (bson.D, error) {
	query := bson.D{}
	if filter.UserID != "" {
		userID, err := primitive.ObjectIDFromHex(filter.UserID)
		if err != nil {
			return nil, domain.NewValidationError("userId", "Invalid User ID")
		}
		query = append(query, bson.E{Key: "userId", Value: userID})
	}
	if filter.EventType != "" {
		query = append(query, bson.E{Key: "eventType", Value: string(filter.EventType)})
	}
	if filter.StartTime != nil || filter.EndTime != nil {
		createdAt := bson.D{}
		if filter.StartTime != nil {
			createdAt = append(createdAt, bson.E{Key: "$gte", Value: filter.StartTime.UTC()})
		}
		if filter.EndTime != nil {
			createdAt = append(createdAt, bson.E{Key: "$lte", Value: filter.EndTime.UTC()})
		}
		query = append(query, bson.E{Key: "createdAt", Value: createdAt})
	}
	return query, nil
}

func countByTypePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$eventType"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// userActivityPipeline groups events per user, joins the user document
// and reshapes the result. $unwind drops groups with no matching user.
func userActivityPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$userId"},
			{Key: "totalEvents", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "lastEventAt", Value: bson.D{{Key: "$max", Value: "$createdAt"}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user"},
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "userId", Value: "$_id"},
			{Key: "userName", Value: "$user.name"},
			{Key: "totalEvents", Value: 1},
			{Key: "lastEventAt", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "lastEventAt", Value: -1},
			{Key: "userId", Value: 1},
		}}},
	}
}
