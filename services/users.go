package services

import (
	"context"
	"strings"

	"github.com/rpupo63/blogly/database"
	"github.com/rpupo63/blogly/errs"
	"github.com/rpupo63/blogly/models"
)

func imageOrDefault(imageURL string) string {
	if imageURL = strings.TrimSpace(imageURL); imageURL == "" {
		return models.DefaultImageURL
	}
	return imageURL
}

func validateUser(firstName, lastName string) error {
	if err := required("first_name", firstName); err != nil {
		return err
	}
	return required("last_name", lastName)
}

// CreateUser adds a user. An empty imageURL stores the placeholder image.
func (s *BlogService) CreateUser(ctx context.Context, firstName, lastName, imageURL string) (*models.User, error) {
	if err := validateUser(firstName, lastName); err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		ImageURL:  imageOrDefault(imageURL),
	}
	if err := s.db(ctx).UserRepo().Add(user); err != nil {
		return nil, wrapError("create", "user", err)
	}

	s.logger.Info().Uint("userID", user.ID).Msg("User created")
	return user, nil
}

// UpdateUser overwrites the names and image of an existing user.
func (s *BlogService) UpdateUser(ctx context.Context, id uint, firstName, lastName, imageURL string) (*models.User, error) {
	var updated *models.User
	err := s.inTx(ctx, "update", "user", func(tx database.Database) error {
		if _, err := tx.UserRepo().FindByID(id); err != nil {
			return err
		}
		if err := validateUser(firstName, lastName); err != nil {
			return err
		}

		user := &models.User{
			ID:        id,
			FirstName: strings.TrimSpace(firstName),
			LastName:  strings.TrimSpace(lastName),
			ImageURL:  imageOrDefault(imageURL),
		}
		if err := tx.UserRepo().Update(user); err != nil {
			return err
		}

		var err error
		updated, err = tx.UserRepo().FindByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("userID", id).Msg("User updated")
	return updated, nil
}

// DeleteUser removes a user together with every post they own and the tag
// associations of those posts.
func (s *BlogService) DeleteUser(ctx context.Context, id uint) error {
	var deletedPosts int
	err := s.inTx(ctx, "delete", "user", func(tx database.Database) error {
		exists, err := tx.UserRepo().Exists(id)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NewNotFound("user")
		}

		postIDs, err := tx.PostRepo().IDsByUser(id)
		if err != nil {
			return err
		}
		if err := tx.PostTagRepo().DeleteForPosts(postIDs); err != nil {
			return err
		}
		if err := tx.PostRepo().DeleteByUser(id); err != nil {
			return err
		}
		deletedPosts = len(postIDs)
		return tx.UserRepo().Delete(id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Uint("userID", id).Int("postsDeleted", deletedPosts).Msg("User deleted")
	return nil
}

// ListUsers returns every user ordered by last name, then first name.
func (s *BlogService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.db(ctx).UserRepo().FindAll()
	if err != nil {
		return nil, wrapError("find", "users", err)
	}
	return users, nil
}

// GetUser returns a user with their posts.
func (s *BlogService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.db(ctx).UserRepo().FindByID(id)
	if err != nil {
		return nil, wrapError("find", "user", err)
	}
	return user, nil
}
