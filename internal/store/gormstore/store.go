package gormstore

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
)

// Store implements store.Store on top of GORM. All chat and message rows are
// mutated exclusively through its command methods; multi-row mutations run in
// a single transaction and fail closed.
type Store struct {
	db *gorm.DB

	// HideTombstones drops messages deleted for everyone from chat listings.
	// Group listings always keep the redacted row.
	HideTombstones bool
}

func New(driverName, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driverName {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driverName)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, HideTombstones: true}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	err := s.db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.OTP{},
		&models.RefreshToken{},
		&models.Chat{},
		&models.Group{},
		&models.GroupMember{},
		&models.Message{},
		&models.MessageVisibility{},
		&models.Reaction{},
		&models.BlockedUser{},
		&models.ConnectionRequest{},
		&models.Connection{},
		&models.Post{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	slog.Debug("database migration complete")
	return nil
}

// orderPair returns the two ids in canonical (ascending) order.
func orderPair(a, b uint) (uint, uint) {
	if a < b {
		return a, b
	}
	return b, a
}
