package db

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"fieldbook/internal/models"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Open connects to the configured dialect and applies migrations.
func Open(driver, dsn string, verbose bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	level := gormLogger.Silent
	if verbose {
		level = gormLogger.Warn
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.SetupJoinTable(&models.Booking{}, "Players", &models.BookingPlayer{}); err != nil {
		return fmt.Errorf("setup join table: %w", err)
	}
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Venue{},
		&models.Field{},
		&models.Booking{},
		&models.BookingPlayer{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
