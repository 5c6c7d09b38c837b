package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	roomserrors "innkeep/internal/rooms/errors"
	"innkeep/pkg/config"
	mongotx "innkeep/pkg/db/mongo"
	"innkeep/pkg/model"
)

const (
	CollectionName = "Room_types"
)

type RoomTypeRepository interface {
	Create(ctx context.Context, roomType *model.RoomType) error
	FindByID(ctx context.Context, id string) (*model.RoomType, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.RoomType, error)
	FindByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.RoomType, error)
	Update(ctx context.Context, id string, roomType *model.RoomType) error
	ReplaceUnits(ctx context.Context, id string, units []model.Unit) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoRoomTypeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoRoomTypeRepository(cfg *config.Config) RoomTypeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomTypeRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout bounds a single repository call. SessionContexts pass through
// untouched; wrapping them would break transaction semantics.
func (r *mongoRoomTypeRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRoomTypeRepository) Create(ctx context.Context, roomType *model.RoomType) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	roomType.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, roomType)
	if err != nil {
		return fmt.Errorf("failed to create room type: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		roomType.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRoomTypeRepository) FindByID(ctx context.Context, id string) (*model.RoomType, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	var roomType model.RoomType
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&roomType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find room type: %w", err)
	}

	return &roomType, nil
}

func (r *mongoRoomTypeRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.RoomType, error) {
	return r.find(ctx, bson.M{}, limit, offset)
}

func (r *mongoRoomTypeRepository) FindByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.RoomType, error) {
	return r.find(ctx, bson.M{"hotel_id": hotelID}, limit, offset)
}

func (r *mongoRoomTypeRepository) find(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.RoomType, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "title", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find room types: %w", err)
	}
	defer cursor.Close(ctx)

	var roomTypes []*model.RoomType
	if err = cursor.All(ctx, &roomTypes); err != nil {
		return nil, fmt.Errorf("failed to decode room types: %w", err)
	}

	return roomTypes, nil
}

func (r *mongoRoomTypeRepository) Update(ctx context.Context, id string, roomType *model.RoomType) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"hotel_id":      roomType.HotelID,
			"title":         roomType.Title,
			"description":   roomType.Description,
			"base_price":    roomType.BasePrice,
			"max_occupancy": roomType.MaxOccupancy,
			"units":         roomType.Units,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update room type: %w", err)
	}
	if result.MatchedCount == 0 {
		return roomserrors.ErrNotFound
	}
	return nil
}

// ReplaceUnits persists only the inventory, leaving the descriptive fields
// alone. The reservation flow uses this inside its transaction after
// confirming or cancelling a stay.
func (r *mongoRoomTypeRepository) ReplaceUnits(ctx context.Context, id string, units []model.Unit) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"units": units}},
	)
	if err != nil {
		return fmt.Errorf("failed to replace units: %w", err)
	}
	if result.MatchedCount == 0 {
		return roomserrors.ErrNotFound
	}
	return nil
}

func (r *mongoRoomTypeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete room type: %w", err)
	}
	if result.DeletedCount == 0 {
		return roomserrors.ErrNotFound
	}
	return nil
}

func (r *mongoRoomTypeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count room types: %w", err)
	}
	return count, nil
}

func (r *mongoRoomTypeRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
