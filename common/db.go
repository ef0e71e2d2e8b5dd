package common

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

// Init opens the sqlite database and keeps the handle for GetDB
func Init(path string) (*gorm.DB, error) {
	var err error
	db, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// GetDB returns the shared database handle
func GetDB() *gorm.DB {
	return db
}
