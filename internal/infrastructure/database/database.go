package database

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/kasir-api/internal/config"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database selected by cfg.Driver.
func Open(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, "":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true,
		})
	case DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// sqlite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Info().Str("driver", db.Dialector.Name()).Msg("connected to database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.PasswordResetToken{},
		&entity.Product{},
		&entity.Receipt{},
		&entity.ReceiptItem{},
		&entity.InvoiceSequence{},
		&entity.StockDrift{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info().Msg("database migrations completed")
	return nil
}

// SeedDefaultData creates the roles and, when configured, the first admin account.
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig) error {
	roles := make(map[string]entity.Role)
	for _, name := range []string{entity.RoleAdmin, entity.RoleCashier} {
		role := entity.Role{Name: name}
		if err := db.Where(entity.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
		roles[name] = role
	}

	if admin.SeedEmail == "" || admin.SeedPassword == "" {
		return nil
	}

	var existing entity.User
	err := db.Where("email = ?", admin.SeedEmail).First(&existing).Error
	if err == nil {
		log.Debug().Str("email", admin.SeedEmail).Msg("admin user already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin user: %w", err)
	}

	hashed, err := utils.HashPassword(admin.SeedPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	user := entity.User{
		Username: admin.SeedUsername,
		Email:    admin.SeedEmail,
		Password: hashed,
		Roles:    []entity.Role{roles[entity.RoleAdmin], roles[entity.RoleCashier]},
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Info().Str("email", admin.SeedEmail).Msg("admin user created")
	return nil
}
