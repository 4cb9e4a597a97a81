package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/timely-lab/timely-admin/internal/core/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestAdapter_Find(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("maps ids and nested documents", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		created := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "timely.users", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: oid},
				{Key: "firstName", Value: "Ada"},
				{Key: "createdAt", Value: primitive.NewDateTimeFromTime(created)},
				{Key: "settings", Value: bson.D{{Key: "theme", Value: "dark"}}},
				{Key: "tags", Value: bson.A{"a", "b"}},
			},
			bson.D{
				{Key: "_id", Value: "custom-id"},
				{Key: "firstName", Value: "Bob"},
			},
		))

		docs, err := NewAdapter(mt.DB).Find(context.Background(), "users", 10)

		require.NoError(mt, err)
		require.Len(mt, docs, 2)
		require.Equal(mt, oid.Hex(), docs[0].ID)
		require.NotContains(mt, docs[0].Fields, "_id")
		require.Equal(mt, "Ada", docs[0].Fields["firstName"])
		require.Equal(mt, primitive.NewDateTimeFromTime(created), docs[0].Fields["createdAt"])
		require.Equal(mt, map[string]interface{}{"theme": "dark"}, docs[0].Fields["settings"])
		require.Equal(mt, []interface{}{"a", "b"}, docs[0].Fields["tags"])
		require.Equal(mt, "custom-id", docs[1].ID)
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "timely.events", mtest.FirstBatch))

		docs, err := NewAdapter(mt.DB).Find(context.Background(), "events", 10)
		require.NoError(mt, err)
		require.Empty(mt, docs)
	})
}

func TestAdapter_Find_MapsServerErrors(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	tests := []struct {
		name string
		code int32
		want error
	}{
		{name: "unauthorized", code: 13, want: storage.ErrPermissionDenied},
		{name: "authentication failed", code: 18, want: storage.ErrUnauthenticated},
		{name: "max time expired", code: 50, want: storage.ErrTimeout},
	}

	for _, tc := range tests {
		mt.Run(tc.name, func(mt *mtest.T) {
			mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    tc.code,
				Message: tc.name,
			}))

			_, err := NewAdapter(mt.DB).Find(context.Background(), "reports", 5)
			require.ErrorIs(mt, err, tc.want)
		})
	}
}

func TestAdapter_Update(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := NewAdapter(mt.DB).Update(context.Background(), "reports", "report123", map[string]interface{}{"status": "resolved"})
		require.NoError(mt, err)
	})

	mt.Run("no match is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := NewAdapter(mt.DB).Update(context.Background(), "reports", "missing", map[string]interface{}{"status": "resolved"})
		require.ErrorIs(mt, err, storage.ErrNotFound)
	})

	mt.Run("permission denied", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Message: "not authorized"}))

		err := NewAdapter(mt.DB).Update(context.Background(), "reports", "r1", map[string]interface{}{"status": "resolved"})
		require.ErrorIs(mt, err, storage.ErrPermissionDenied)
	})
}

func TestIDFilter(t *testing.T) {
	oid := primitive.NewObjectID()
	require.Equal(t, bson.M{"_id": bson.M{"$in": bson.A{oid, oid.Hex()}}}, idFilter(oid.Hex()))
	require.Equal(t, bson.M{"_id": "report123"}, idFilter("report123"))
}
