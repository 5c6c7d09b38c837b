package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"innkeep/internal/availability"
	roomserrors "innkeep/internal/rooms/errors"
	"innkeep/internal/rooms/validator"
	"innkeep/pkg/config"
	mongotx "innkeep/pkg/db/mongo"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

type mockRoomTypeRepo struct {
	roomTypes map[string]*model.RoomType

	createErr error
	findErr   error

	created  []*model.RoomType
	updated  map[string]*model.RoomType
	deleted  []string
	replaced map[string][]model.Unit
}

func newMockRoomTypeRepo() *mockRoomTypeRepo {
	return &mockRoomTypeRepo{
		roomTypes: map[string]*model.RoomType{},
		updated:   map[string]*model.RoomType{},
		replaced:  map[string][]model.Unit{},
	}
}

func (m *mockRoomTypeRepo) Create(_ context.Context, rt *model.RoomType) error {
	if m.createErr != nil {
		return m.createErr
	}
	if rt.ID == "" {
		rt.ID = "507f1f77bcf86cd799439020"
	}
	m.created = append(m.created, rt)
	m.roomTypes[rt.ID] = rt
	return nil
}

func (m *mockRoomTypeRepo) FindByID(_ context.Context, id string) (*model.RoomType, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	rt, ok := m.roomTypes[id]
	if !ok {
		return nil, roomserrors.ErrNotFound
	}
	copied := *rt
	return &copied, nil
}

func (m *mockRoomTypeRepo) FindAll(_ context.Context, _ int, _ int64) ([]*model.RoomType, error) {
	var out []*model.RoomType
	for _, rt := range m.roomTypes {
		out = append(out, rt)
	}
	return out, nil
}

func (m *mockRoomTypeRepo) FindByHotel(_ context.Context, hotelID string, _ int, _ int64) ([]*model.RoomType, error) {
	var out []*model.RoomType
	for _, rt := range m.roomTypes {
		if rt.HotelID == hotelID {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (m *mockRoomTypeRepo) Update(_ context.Context, id string, rt *model.RoomType) error {
	if _, ok := m.roomTypes[id]; !ok {
		return roomserrors.ErrNotFound
	}
	m.updated[id] = rt
	m.roomTypes[id] = rt
	return nil
}

func (m *mockRoomTypeRepo) ReplaceUnits(_ context.Context, id string, units []model.Unit) error {
	rt, ok := m.roomTypes[id]
	if !ok {
		return roomserrors.ErrNotFound
	}
	m.replaced[id] = units
	rt.Units = units
	return nil
}

func (m *mockRoomTypeRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.roomTypes[id]; !ok {
		return roomserrors.ErrNotFound
	}
	m.deleted = append(m.deleted, id)
	delete(m.roomTypes, id)
	return nil
}

func (m *mockRoomTypeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.roomTypes)), nil
}

func (m *mockRoomTypeRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.SessionContext(nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Service: "test"})
	return &config.Config{
		Log:           log,
		MaxStayNights: 90,
	}
}

func newTestService(t *testing.T, repo *mockRoomTypeRepo) RoomTypeService {
	t.Helper()
	cfg := testConfig(t)
	return NewRoomTypeService(repo, validator.NewRoomTypeValidator(cfg.Log), cfg)
}

func sampleRoomType(id string) *model.RoomType {
	return &model.RoomType{
		ID:           id,
		HotelID:      "507f1f77bcf86cd799439011",
		Title:        "Deluxe King",
		BasePrice:    100,
		MaxOccupancy: 2,
		Units: []model.Unit{
			{Number: 101},
			{Number: 102},
		},
	}
}

func TestCreateSanitizesAndPersists(t *testing.T) {
	repo := newMockRoomTypeRepo()
	svc := newTestService(t, repo)

	rt := sampleRoomType("")
	rt.Title = "  Deluxe   King  "

	if err := svc.Create(context.Background(), rt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created room type, got %d", len(repo.created))
	}
	if got := repo.created[0].Title; got != "Deluxe King" {
		t.Errorf("expected sanitized title %q, got %q", "Deluxe King", got)
	}
}

func TestCreateRejectsInvalidRoomType(t *testing.T) {
	repo := newMockRoomTypeRepo()
	svc := newTestService(t, repo)

	rt := sampleRoomType("")
	rt.Units = nil

	err := svc.Create(context.Background(), rt)
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected %s, got %v", apperrors.CodeValidation, err)
	}
	if len(repo.created) != 0 {
		t.Error("invalid room type must not reach the repository")
	}
}

func TestGetByIDMapsRepositoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		findErr  error
		wantCode string
	}{
		{"empty id", "", nil, apperrors.CodeInvalidInput},
		{"unknown id", "507f1f77bcf86cd799439999", nil, apperrors.CodeNotFound},
		{"malformed id", "zzz", roomserrors.ErrInvalidID, apperrors.CodeInvalidInput},
		{"repository failure", "507f1f77bcf86cd799439020", errors.New("boom"), apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRoomTypeRepo()
			repo.findErr = tt.findErr
			svc := newTestService(t, repo)

			_, err := svc.GetByID(context.Background(), tt.id)
			appErr := apperrors.AsAppError(err)
			if appErr == nil {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, appErr.Code)
			}
		})
	}
}

func TestGetAllReturnsCountAndItems(t *testing.T) {
	repo := newMockRoomTypeRepo()
	repo.roomTypes["a1"] = sampleRoomType("a1")
	repo.roomTypes["a2"] = sampleRoomType("a2")
	svc := newTestService(t, repo)

	roomTypes, count, err := svc.GetAll(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 || len(roomTypes) != 2 {
		t.Errorf("expected 2 room types with count 2, got %d items, count %d", len(roomTypes), count)
	}
}

func TestUpdateMergesPartialPatch(t *testing.T) {
	repo := newMockRoomTypeRepo()
	existing := sampleRoomType("507f1f77bcf86cd799439020")
	repo.roomTypes[existing.ID] = existing
	svc := newTestService(t, repo)

	price := 150.0
	err := svc.Update(context.Background(), existing.ID, &model.RoomTypeUpdate{BasePrice: &price})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged := repo.updated[existing.ID]
	if merged == nil {
		t.Fatal("expected repository update")
	}
	if merged.BasePrice != 150 {
		t.Errorf("expected base price 150, got %v", merged.BasePrice)
	}
	if merged.Title != existing.Title {
		t.Errorf("untouched fields must survive the merge, got title %q", merged.Title)
	}
}

func TestDeleteUnknownRoomType(t *testing.T) {
	repo := newMockRoomTypeRepo()
	svc := newTestService(t, repo)

	err := svc.Delete(context.Background(), "507f1f77bcf86cd799439999")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
}

func TestQuoteHappyPath(t *testing.T) {
	repo := newMockRoomTypeRepo()
	rt := sampleRoomType("507f1f77bcf86cd799439020")
	repo.roomTypes[rt.ID] = rt
	svc := newTestService(t, repo)

	checkIn := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	quote, err := svc.Quote(context.Background(), rt.ID, checkIn, checkOut, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.UnitNumber != 101 {
		t.Errorf("expected lowest-index free unit 101, got %d", quote.UnitNumber)
	}
	if quote.Nights != 3 || quote.TotalPrice != 300 {
		t.Errorf("expected 3 nights at 300 total, got %d nights, %v total", quote.Nights, quote.TotalPrice)
	}
}

func TestQuotePassesThroughEngineSentinels(t *testing.T) {
	repo := newMockRoomTypeRepo()
	rt := sampleRoomType("507f1f77bcf86cd799439020")
	repo.roomTypes[rt.ID] = rt
	svc := newTestService(t, repo)

	checkIn := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in, out time.Time
		guests  int
		wantErr error
	}{
		{"reversed range", checkOut, checkIn, 2, availability.ErrInvalidRange},
		{"party too large", checkIn, checkOut, 5, availability.ErrUnbookable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Quote(context.Background(), rt.ID, tt.in, tt.out, tt.guests)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestQuoteEnforcesMaxStay(t *testing.T) {
	repo := newMockRoomTypeRepo()
	rt := sampleRoomType("507f1f77bcf86cd799439020")
	repo.roomTypes[rt.ID] = rt
	svc := newTestService(t, repo)

	checkIn := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 120)

	_, err := svc.Quote(context.Background(), rt.ID, checkIn, checkOut, 2)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected %s for over-long stay, got %v", apperrors.CodeValidation, err)
	}
}

func TestQuoteUnknownRoomType(t *testing.T) {
	repo := newMockRoomTypeRepo()
	svc := newTestService(t, repo)

	checkIn := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.Quote(context.Background(), "507f1f77bcf86cd799439999", checkIn, checkOut, 1)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
}
