package postgres

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/VitaminP8/blogery/internal/config"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/lib/pq"
)

var DB *gorm.DB

// GetDB returns the shared connection, mainly for tests.
func GetDB() *gorm.DB {
	return DB
}

// InitDB connects to PostgreSQL and sets the shared DB.
func InitDB(cfg config.DatabaseConfig) error {
	db, err := gorm.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}
	db.LogMode(cfg.LogMode)

	DB = db
	log.Println("Successfully connected to the database.")
	return nil
}

// CloseDB closes the shared connection if there is one.
func CloseDB() error {
	if DB == nil {
		return nil
	}

	err := DB.Close()
	if err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}

	log.Println("Database connection closed.")
	return nil
}

// InitDBWithConnection injects an already opened connection (tests use sqlite).
func InitDBWithConnection(db *gorm.DB) {
	DB = db
}

// Migrate creates the tables. On postgres it also adds the foreign keys;
// sqlite cannot add constraints to existing tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.Session{}).Error
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if !isPostgres(db) {
		return nil
	}

	foreignKeys := []struct {
		model  interface{}
		field  string
		target string
		onDel  string
	}{
		{&models.Post{}, "author_id", "users(id)", "RESTRICT"},
		{&models.Comment{}, "author_id", "users(id)", "RESTRICT"},
		{&models.Comment{}, "post_id", "blog_posts(id)", "RESTRICT"},
		{&models.Session{}, "user_id", "users(id)", "CASCADE"},
	}
	// AddForeignKey skips keys that already exist
	for _, fk := range foreignKeys {
		err = db.Model(fk.model).AddForeignKey(fk.field, fk.target, fk.onDel, "RESTRICT").Error
		if err != nil {
			return fmt.Errorf("failed to add foreign key %s -> %s: %w", fk.field, fk.target, err)
		}
	}

	return nil
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialect().GetName() == "postgres"
}

// withRowLock appends a row lock to the next query where the dialect supports it.
func withRowLock(db *gorm.DB, mode string) *gorm.DB {
	if !isPostgres(db) {
		return db
	}
	return db.Set("gorm:query_option", mode)
}

// isUniqueViolation reports whether err violates the unique index on column.
func isUniqueViolation(err error, column string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && strings.Contains(pqErr.Constraint+pqErr.Message, column)
	}
	// sqlite: "UNIQUE constraint failed: users.email"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") && strings.Contains(msg, "."+column)
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}

func dbError(message string, err error) error {
	return apperror.NewDatabaseError(message, err)
}
