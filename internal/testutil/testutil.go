// Package testutil opens throwaway databases and creates fixture rows for tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gdg-garage/hotel-booking-api/internal/config"
	"github.com/gdg-garage/hotel-booking-api/internal/database"
	"github.com/gdg-garage/hotel-booking-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated in-memory sqlite database. The pool is pinned to
// one connection so every query sees the same memory database.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// OpenFileDB connects to a fresh sqlite file the way the server does, with a
// regular connection pool. Use it when a test needs concurrent writers.
func OpenFileDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "booking.db")
	db, err := database.Connect(&config.Config{DatabaseDriver: "sqlite", DatabasePath: path})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func create(t *testing.T, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("failed to create %T: %v", value, err)
	}
}

func CreateUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		DiscordID: gofakeit.Numerify("##################"),
		Username:  gofakeit.Username(),
		Email:     gofakeit.Email(),
	}
	create(t, db, &user)
	return user
}

func CreateEnrollment(t *testing.T, db *gorm.DB, user models.User) models.Enrollment {
	t.Helper()
	enrollment := models.Enrollment{
		UserID:   user.ID,
		Name:     gofakeit.Name(),
		Phone:    gofakeit.Phone(),
		Birthday: gofakeit.DateRange(time.Now().AddDate(-60, 0, 0), time.Now().AddDate(-18, 0, 0)),
	}
	if err := db.Omit("Address", "User").Create(&enrollment).Error; err != nil {
		t.Fatalf("failed to create enrollment: %v", err)
	}
	return enrollment
}

func CreateEnrollmentWithAddress(t *testing.T, db *gorm.DB, user models.User) models.Enrollment {
	t.Helper()
	enrollment := CreateEnrollment(t, db, user)
	address := gofakeit.Address()
	enrollment.Address = models.Address{
		EnrollmentID: enrollment.ID,
		PostalCode:   address.Zip,
		Street:       address.Street,
		City:         address.City,
		State:        address.State,
		Number:       gofakeit.Numerify("###"),
		Neighborhood: gofakeit.StreetName(),
	}
	create(t, db, &enrollment.Address)
	return enrollment
}

func CreateTicketType(t *testing.T, db *gorm.DB, isRemote, includesHotel bool) models.TicketType {
	t.Helper()
	ticketType := models.TicketType{
		Name:          gofakeit.Word(),
		Price:         gofakeit.Number(100, 900),
		IsRemote:      isRemote,
		IncludesHotel: includesHotel,
	}
	create(t, db, &ticketType)
	return ticketType
}

func CreateTicket(t *testing.T, db *gorm.DB, enrollmentID, ticketTypeID uint, status models.TicketStatus) models.Ticket {
	t.Helper()
	ticket := models.Ticket{EnrollmentID: enrollmentID, TicketTypeID: ticketTypeID, Status: status}
	if err := db.Omit("TicketType").Create(&ticket).Error; err != nil {
		t.Fatalf("failed to create ticket: %v", err)
	}
	return ticket
}

func CreatePayment(t *testing.T, db *gorm.DB, ticketID uint, value int) models.Payment {
	t.Helper()
	payment := models.Payment{
		TicketID:       ticketID,
		Value:          value,
		CardIssuer:     gofakeit.CreditCardType(),
		CardLastDigits: gofakeit.Numerify("####"),
	}
	create(t, db, &payment)
	return payment
}

func CreateHotel(t *testing.T, db *gorm.DB) models.Hotel {
	t.Helper()
	hotel := models.Hotel{Name: gofakeit.Company(), Image: gofakeit.URL()}
	create(t, db, &hotel)
	return hotel
}

// CreateRoom creates a room with the given capacity, or a random one from 1 to 6 when capacity is 0.
func CreateRoom(t *testing.T, db *gorm.DB, hotelID uint, capacity int) models.Room {
	t.Helper()
	if capacity == 0 {
		capacity = gofakeit.Number(1, 6)
	}
	room := models.Room{Name: gofakeit.Name(), Capacity: capacity, HotelID: hotelID}
	create(t, db, &room)
	return room
}

func CreateBooking(t *testing.T, db *gorm.DB, userID, roomID uint) models.Booking {
	t.Helper()
	booking := models.Booking{UserID: userID, RoomID: roomID}
	if err := db.Omit("User", "Room").Create(&booking).Error; err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	return booking
}

// CreateEligibleUser creates a user holding a paid in-person ticket that includes the hotel.
func CreateEligibleUser(t *testing.T, db *gorm.DB) (models.User, models.Ticket) {
	t.Helper()
	user := CreateUser(t, db)
	enrollment := CreateEnrollmentWithAddress(t, db, user)
	ticketType := CreateTicketType(t, db, false, true)
	ticket := CreateTicket(t, db, enrollment.ID, ticketType.ID, models.TicketPaid)
	return user, ticket
}
