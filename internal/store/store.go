// Package store persists player loadouts through gorm on sqlite or postgres.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/exotic24-7/zephyrax.io/internal/state"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

var (
	// ErrDisabled is returned by Open for the "none" driver.
	ErrDisabled = errors.New("store: persistence disabled")
	// ErrUnknownDriver reports an unsupported driver name.
	ErrUnknownDriver = errors.New("store: unknown driver")
)

// Store reads and writes loadout records.
type Store struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

// Open connects to the database selected by driver and migrates the schema.
func Open(driver, dsn string, log zerolog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverNone:
		return nil, ErrDisabled
	case "", DriverSQLite:
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.AutoMigrate(&LoadoutRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("driver", db.Dialector.Name()).Msg("loadout store ready")
	return &Store{DB: db, Logger: log}, nil
}

// Load returns the stored loadout for playerID and the wave it was saved on.
// ok is false when nothing was stored.
func (s *Store) Load(ctx context.Context, playerID string) (loadout state.Loadout, wave int, ok bool, err error) {
	var record LoadoutRecord
	result := s.DB.WithContext(ctx).Where("player_id = ?", playerID).Limit(1).Find(&record)
	if result.Error != nil {
		return state.Loadout{}, 0, false, fmt.Errorf("load %s: %w", playerID, result.Error)
	}
	if result.RowsAffected == 0 {
		return state.Loadout{}, 0, false, nil
	}
	if err := decode(record.Main, &loadout.Main); err != nil {
		return state.Loadout{}, 0, false, fmt.Errorf("decode main row: %w", err)
	}
	if err := decode(record.Swap, &loadout.Swap); err != nil {
		return state.Loadout{}, 0, false, fmt.Errorf("decode swap row: %w", err)
	}
	if err := decode(record.Inventory, &loadout.Inventory); err != nil {
		return state.Loadout{}, 0, false, fmt.Errorf("decode inventory: %w", err)
	}
	return loadout, record.Wave, true, nil
}

// Save upserts the loadout for playerID.
func (s *Store) Save(ctx context.Context, playerID string, loadout state.Loadout, wave int) error {
	record := LoadoutRecord{PlayerID: playerID, Wave: wave}
	var err error
	if record.Main, err = encode(loadout.Main); err != nil {
		return err
	}
	if record.Swap, err = encode(loadout.Swap); err != nil {
		return err
	}
	if record.Inventory, err = encode(loadout.Inventory); err != nil {
		return err
	}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"main", "swap", "inventory", "wave", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", playerID, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func encode(v any) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return datatypes.JSON(data), nil
}

func decode(data datatypes.JSON, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
