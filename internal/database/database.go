package database

import (
	"fmt"
	"strings"

	"github.com/gdg-garage/hotel-booking-api/internal/config"
	"github.com/gdg-garage/hotel-booking-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector picks the gorm driver named by DATABASE_DRIVER. DATABASE_PATH is
// a file path for sqlite and a DSN for postgres and mysql.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite", "":
		return sqlite.Open(SQLiteDSN(dsn)), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// sqliteParams make every transaction take the write lock on BEGIN and make
// contended connections wait for it. Without them a transaction that reads
// and then writes fails with "database is locked" when another connection
// writes first.
var sqliteParams = []string{"_busy_timeout=5000", "_txlock=immediate"}

// SQLiteDSN adds sqliteParams to dsn, leaving any the caller already set.
func SQLiteDSN(dsn string) string {
	var missing []string
	for _, param := range sqliteParams {
		key, _, _ := strings.Cut(param, "=")
		if !strings.Contains(dsn, key+"=") {
			missing = append(missing, param)
		}
	}
	if len(missing) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(missing, "&")
}

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DatabaseDriver, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table the service reads or writes.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Enrollment{},
		&models.Address{},
		&models.TicketType{},
		&models.Ticket{},
		&models.Payment{},
		&models.Hotel{},
		&models.Room{},
		&models.Booking{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}
