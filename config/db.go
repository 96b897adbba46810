package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"rental-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(driver, dsn string) gorm.Dialector {
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn)
	case DriverSQLite:
		if !strings.Contains(dsn, "_foreign_keys") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_foreign_keys=1"
		}
		return sqlite.Open(dsn)
	default:
		return mysql.Open(dsn)
	}
}

// Open connects to the configured database and sizes the pool.
// It does not migrate; see AutoMigrate.
func Open(cfg *Config) (*gorm.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.GinMode == "debug" {
		level = logger.Info
	}
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  cfg.GinMode == "debug",
		},
	)

	db, err := gorm.Open(dialector(cfg.DBDriver, dsn), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if cfg.DBDriver == DriverSQLite {
		// sqlite serialises writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	}

	slog.Info("database connection established", "driver", cfg.DBDriver)
	return db, nil
}

// AutoMigrate creates or updates every table in parent->child order.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.House{},
		&models.Room{},
		&models.Asset{},
		&models.RentedRoom{},
		&models.Invoice{},
	)
}

// SeedDatabase ensures both roles exist and, when an admin password is
// configured, that an admin account exists.
func SeedDatabase(db *gorm.DB, cfg *Config) error {
	desiredRoles := []models.Role{
		{Authority: models.AuthorityOwner, Description: "House owner managing rooms, tenants and invoices"},
		{Authority: models.AuthorityAdmin, Description: "System administrator managing owners"},
	}

	rolesByAuthority := map[string]models.Role{}
	for _, role := range desiredRoles {
		var existing models.Role
		err := db.Where("authority = ?", role.Authority).First(&existing).Error
		if err == nil {
			rolesByAuthority[role.Authority] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up role %s: %w", role.Authority, err)
		}
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("failed to create role %s: %w", role.Authority, err)
		}
		rolesByAuthority[role.Authority] = role
	}
	slog.Info("roles ensured", "count", len(rolesByAuthority))

	if cfg.AdminPassword == "" {
		slog.Warn("ADMIN_PASSWORD not set; skipping admin account seed")
		return nil
	}

	adminRole := rolesByAuthority[models.AuthorityAdmin]
	var adminCount int64
	if err := db.Model(&models.User{}).Where("role_id = ?", adminRole.RoleID).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if adminCount > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}
	admin := models.User{
		Fullname: cfg.AdminName,
		Email:    strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		Password: string(hash),
		RoleID:   adminRole.RoleID,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}
	slog.Info("default admin seeded", "email", admin.Email)
	return nil
}
