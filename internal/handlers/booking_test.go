package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/hotel-booking-api/internal/auth"
	"github.com/gdg-garage/hotel-booking-api/internal/booking"
	"github.com/gdg-garage/hotel-booking-api/internal/config"
	"github.com/gdg-garage/hotel-booking-api/internal/models"
	"github.com/gdg-garage/hotel-booking-api/internal/storage"
	"github.com/gdg-garage/hotel-booking-api/internal/testutil"
	"gorm.io/gorm"
)

type fixture struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
	handler     *BookingHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	store := storage.New(db)
	log := slog.New(slog.DiscardHandler)

	authHandler := auth.NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, store, log)
	service := booking.New(log, store, store, nil, nil, booking.Options{})

	return &fixture{
		db:          db,
		authHandler: authHandler,
		handler:     NewBookingHandler(service, log),
	}
}

// as returns a context carrying the user id the auth middleware would set.
func as(user models.User) context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, user.ID)
}

func expectStatus(t *testing.T, err error, status int) {
	t.Helper()
	var se huma.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected status error %d, got %v", status, err)
	}
	if se.GetStatus() != status {
		t.Errorf("expected status %d, got %d", status, se.GetStatus())
	}
}

func TestHandleGet(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db)
	ctx := as(user)

	t.Run("Unauthenticated", func(t *testing.T) {
		_, err := f.handler.HandleGet(context.Background(), &GetBookingRequest{})
		expectStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("NoBooking", func(t *testing.T) {
		_, err := f.handler.HandleGet(ctx, &GetBookingRequest{})
		expectStatus(t, err, http.StatusNotFound)
	})

	t.Run("WithBooking", func(t *testing.T) {
		room := testutil.CreateRoom(t, f.db, testutil.CreateHotel(t, f.db).ID, 0)
		created := testutil.CreateBooking(t, f.db, user.ID, room.ID)

		resp, err := f.handler.HandleGet(ctx, &GetBookingRequest{})
		if err != nil {
			t.Fatalf("HandleGet returned error: %v", err)
		}
		if resp.Body.ID != created.ID {
			t.Errorf("expected booking %d, got %d", created.ID, resp.Body.ID)
		}
		if resp.Body.Room.ID != room.ID || resp.Body.Room.Name != room.Name {
			t.Errorf("unexpected room in view: %+v", resp.Body.Room)
		}
	})
}

func TestHandleCreate(t *testing.T) {
	f := newFixture(t)
	room := testutil.CreateRoom(t, f.db, testutil.CreateHotel(t, f.db).ID, 1)

	t.Run("Ineligible", func(t *testing.T) {
		user := testutil.CreateUser(t, f.db)
		req := &CreateBookingRequest{}
		req.Body.RoomID = int(room.ID)

		_, err := f.handler.HandleCreate(as(user), req)
		expectStatus(t, err, http.StatusForbidden)
	})

	t.Run("RoomNotFound", func(t *testing.T) {
		user, _ := testutil.CreateEligibleUser(t, f.db)
		req := &CreateBookingRequest{}
		req.Body.RoomID = int(room.ID) + 100

		_, err := f.handler.HandleCreate(as(user), req)
		expectStatus(t, err, http.StatusNotFound)
	})

	t.Run("NonPositiveRoomID", func(t *testing.T) {
		user, _ := testutil.CreateEligibleUser(t, f.db)
		for _, roomID := range []int{0, -5} {
			req := &CreateBookingRequest{}
			req.Body.RoomID = roomID

			_, err := f.handler.HandleCreate(as(user), req)
			expectStatus(t, err, http.StatusNotFound)
		}
	})

	t.Run("NonPositiveRoomIDIneligible", func(t *testing.T) {
		user := testutil.CreateUser(t, f.db)
		req := &CreateBookingRequest{}
		req.Body.RoomID = 0

		_, err := f.handler.HandleCreate(as(user), req)
		expectStatus(t, err, http.StatusForbidden)
	})

	t.Run("Created", func(t *testing.T) {
		user, _ := testutil.CreateEligibleUser(t, f.db)
		req := &CreateBookingRequest{}
		req.Body.RoomID = int(room.ID)

		resp, err := f.handler.HandleCreate(as(user), req)
		if err != nil {
			t.Fatalf("HandleCreate returned error: %v", err)
		}
		if resp.Body.BookingID == 0 {
			t.Error("expected a booking id")
		}
	})

	t.Run("RoomFull", func(t *testing.T) {
		user, _ := testutil.CreateEligibleUser(t, f.db)
		req := &CreateBookingRequest{}
		req.Body.RoomID = int(room.ID)

		_, err := f.handler.HandleCreate(as(user), req)
		expectStatus(t, err, http.StatusForbidden)
	})
}

func TestHandleUpdate(t *testing.T) {
	f := newFixture(t)
	hotel := testutil.CreateHotel(t, f.db)
	roomA := testutil.CreateRoom(t, f.db, hotel.ID, 1)
	roomB := testutil.CreateRoom(t, f.db, hotel.ID, 1)

	owner := testutil.CreateUser(t, f.db)
	created := testutil.CreateBooking(t, f.db, owner.ID, roomA.ID)

	t.Run("NotOwner", func(t *testing.T) {
		req := &UpdateBookingRequest{BookingID: created.ID}
		req.Body.RoomID = int(roomB.ID)

		_, err := f.handler.HandleUpdate(as(testutil.CreateUser(t, f.db)), req)
		expectStatus(t, err, http.StatusForbidden)
	})

	t.Run("NonPositiveRoomID", func(t *testing.T) {
		req := &UpdateBookingRequest{BookingID: created.ID}
		req.Body.RoomID = -1

		_, err := f.handler.HandleUpdate(as(owner), req)
		expectStatus(t, err, http.StatusNotFound)
	})

	t.Run("Moved", func(t *testing.T) {
		req := &UpdateBookingRequest{BookingID: created.ID}
		req.Body.RoomID = int(roomB.ID)

		resp, err := f.handler.HandleUpdate(as(owner), req)
		if err != nil {
			t.Fatalf("HandleUpdate returned error: %v", err)
		}
		if resp.Body.BookingID != created.ID {
			t.Errorf("expected booking %d, got %d", created.ID, resp.Body.BookingID)
		}

		var moved models.Booking
		f.db.First(&moved, created.ID)
		if moved.RoomID != roomB.ID {
			t.Errorf("expected room %d, got %d", roomB.ID, moved.RoomID)
		}
	})
}

type failingService struct{}

func (failingService) GetBooking(context.Context, uint) (booking.View, error) {
	return booking.View{}, errors.New("connection reset")
}

func (failingService) CreateBooking(context.Context, uint, uint) (uint, error) {
	return 0, errors.New("connection reset")
}

func (failingService) UpdateBooking(context.Context, uint, uint, uint) (uint, error) {
	return 0, errors.New("connection reset")
}

func TestHandle_UnexpectedError(t *testing.T) {
	f := newFixture(t)
	handler := NewBookingHandler(failingService{}, slog.New(slog.DiscardHandler))
	user := testutil.CreateUser(t, f.db)

	_, err := handler.HandleGet(as(user), &GetBookingRequest{})
	expectStatus(t, err, http.StatusInternalServerError)
}
