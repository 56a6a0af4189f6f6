package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rpupo63/blogly/database"
	"github.com/rpupo63/blogly/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// BlogService owns every read and write of users, posts and tags. Writes that
// touch more than one row run in a single transaction.
type BlogService struct {
	database database.Database
	clock    Clock
	logger   zerolog.Logger
}

type Option func(*BlogService)

// WithClock replaces the clock used to stamp new posts.
func WithClock(clock Clock) Option {
	return func(s *BlogService) {
		s.clock = clock
	}
}

func NewBlogService(db database.Database, opts ...Option) *BlogService {
	s := &BlogService{
		database: db,
		clock:    NewRealClock(),
		logger:   log.With().Str("service", "blogService").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BlogService) db(ctx context.Context) database.Database {
	return s.database.WithContext(ctx)
}

// inTx runs fn in one transaction and normalizes whatever error escapes it.
func (s *BlogService) inTx(ctx context.Context, operation, entity string, fn func(tx database.Database) error) error {
	if err := s.db(ctx).Transaction(fn); err != nil {
		return wrapError(operation, entity, err)
	}
	return nil
}

// wrapError maps a repository error onto the error kinds callers act on.
func wrapError(operation, entity string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewNotFound(entity)
	}
	return errs.NewDatabaseError(operation, entity, err)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewMissingRequiredFieldError(field)
	}
	return nil
}
