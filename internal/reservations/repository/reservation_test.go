package repository

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"innkeep/pkg/model"
)

func TestRoomTypeFilter(t *testing.T) {
	roomTypeID := "507f1f77bcf86cd799439020"
	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		statuses []string
		from, to *time.Time
		want     bson.M
	}{
		{
			name: "room type only",
			want: bson.M{"room_type_id": roomTypeID},
		},
		{
			name:     "status filter",
			statuses: []string{model.ReservationActive, model.ReservationConfirmed},
			want: bson.M{
				"room_type_id": roomTypeID,
				"status":       bson.M{"$in": []string{model.ReservationActive, model.ReservationConfirmed}},
			},
		},
		{
			name: "open-ended from",
			from: &from,
			want: bson.M{
				"room_type_id": roomTypeID,
				"check_out":    bson.M{"$gte": from},
			},
		},
		{
			name: "open-ended to",
			to:   &to,
			want: bson.M{
				"room_type_id": roomTypeID,
				"check_in":     bson.M{"$lte": to},
			},
		},
		{
			name: "stay overlap window",
			from: &from,
			to:   &to,
			want: bson.M{
				"room_type_id": roomTypeID,
				"check_out":    bson.M{"$gte": from},
				"check_in":     bson.M{"$lte": to},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roomTypeFilter(roomTypeID, tt.statuses, tt.from, tt.to)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("roomTypeFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}
