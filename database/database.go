package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db          *gorm.DB
	userRepo    *UserRepo
	postRepo    *PostRepo
	tagRepo     *TagRepo
	postTagRepo *PostTagRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		userRepo:    NewUserRepo(db),
		postRepo:    NewPostRepo(db),
		tagRepo:     NewTagRepo(db),
		postTagRepo: NewPostTagRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) PostTagRepo() *PostTagRepo {
	return d.postTagRepo
}

// DB returns the underlying connection
func (d Database) DB() *gorm.DB {
	return d.db
}

// WithContext returns a copy whose repositories run every query with ctx.
func (d Database) WithContext(ctx context.Context) Database {
	return New(d.db.WithContext(ctx))
}

// Transaction runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (d Database) Transaction(fn func(tx Database) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks that the database answers queries.
func (d Database) Ping(ctx context.Context) error {
	var result int
	return d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error
}
