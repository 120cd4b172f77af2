package mongodb

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"activity-tracker/internal/domain"
)

func TestEventQuery(t *testing.T) {
	userHex := "507f1f77bcf86cd799439011"
	userID, err := primitive.ObjectIDFromHex(userHex)
	require.NoError(t, err)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name   string
		filter domain.EventFilter
		want   bson.D
	}{
		{
			name:   "empty",
			filter: domain.EventFilter{},
			want:   bson.D{},
		},
		{
			name:   "user and type",
			filter: domain.EventFilter{UserID: userHex, EventType: domain.EventTypeLogin},
			want: bson.D{
				{Key: "userId", Value: userID},
				{Key: "eventType", Value: "login"},
			},
		},
		{
			name:   "start only",
			filter: domain.EventFilter{StartTime: &start},
			want: bson.D{
				{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: start}}},
			},
		},
		{
			name:   "end only",
			filter: domain.EventFilter{EndTime: &end},
			want: bson.D{
				{Key: "createdAt", Value: bson.D{{Key: "$lte", Value: end}}},
			},
		},
		{
			name:   "all",
			filter: domain.EventFilter{UserID: userHex, EventType: domain.EventTypeFileUpload, StartTime: &start, EndTime: &end},
			want: bson.D{
				{Key: "userId", Value: userID},
				{Key: "eventType", Value: "file_upload"},
				{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: start}, {Key: "$lte", Value: end}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eventQuery(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventQueryRejectsMalformedUserID(t *testing.T) {
	_, err := eventQuery(domain.EventFilter{UserID: "abc"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestCountByTypePipeline(t *testing.T) {
	pipeline := countByTypePipeline()
	require.Len(t, pipeline, 2)
	assert.Equal(t, "$group", pipeline[0][0].Key)

	group := pipeline[0][0].Value.(bson.D)
	assert.Equal(t, bson.E{Key: "_id", Value: "$eventType"}, group[0])
}

func TestUserActivityPipelineStages(t *testing.T) {
	pipeline := userActivityPipeline()

	stages := make([]string, len(pipeline))
	for i, stage := range pipeline {
		stages[i] = stage[0].Key
	}
	assert.Equal(t, []string{"$group", "$lookup", "$unwind", "$project", "$sort"}, stages)

	lookup := pipeline[1][0].Value.(bson.D)
	assert.Contains(t, lookup, bson.E{Key: "from", Value: usersCollection})
	assert.Contains(t, lookup, bson.E{Key: "foreignField", Value: "_id"})

	project := pipeline[3][0].Value.(bson.D)
	assert.Contains(t, project, bson.E{Key: "userName", Value: "$user.name"})
	assert.Contains(t, project, bson.E{Key: "_id", Value: 0})
}

func TestEventDocumentToDomain(t *testing.T) {
	id := primitive.NewObjectID()
	user := primitive.NewObjectID()
	at := time.Date(2024, 5, 6, 7, 8, 9, 123_000_000, time.UTC)

	event := eventDocument{
		ID:        id,
		UserID:    user,
		EventType: "logout",
		Metadata:  map[string]any{"device": "ios"},
		CreatedAt: at,
	}.toDomain()

	assert.Equal(t, id.Hex(), event.ID)
	assert.Equal(t, user.Hex(), event.UserID)
	assert.Equal(t, domain.EventTypeLogout, event.EventType)
	assert.Equal(t, domain.Metadata{"device": "ios"}, event.Metadata)
	assert.Equal(t, at, event.CreatedAt)
}
