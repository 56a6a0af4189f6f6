package services

import (
	"context"
	"strings"

	"github.com/rpupo63/blogly/database"
	"github.com/rpupo63/blogly/errs"
	"github.com/rpupo63/blogly/models"
)

// CreateTag adds a tag with a unique name, optionally attached to the existing
// posts among postIDs.
func (s *BlogService) CreateTag(ctx context.Context, name string, postIDs ...uint) (*models.Tag, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	var created *models.Tag
	err := s.inTx(ctx, "create", "tag", func(tx database.Database) error {
		taken, err := tx.TagRepo().NameTaken(name, 0)
		if err != nil {
			return err
		}
		if taken {
			return errs.NewAlreadyExists("tag")
		}

		tag := &models.Tag{Name: name}
		if err := tx.TagRepo().Add(tag); err != nil {
			return err
		}
		if err := replaceTagPosts(tx, tag.ID, postIDs); err != nil {
			return err
		}

		created, err = tx.TagRepo().FindByID(tag.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("tagID", created.ID).Str("name", created.Name).Msg("Tag created")
	return created, nil
}

// UpdateTag renames a tag and replaces its post set with the existing posts
// among postIDs.
func (s *BlogService) UpdateTag(ctx context.Context, id uint, name string, postIDs []uint) (*models.Tag, error) {
	var updated *models.Tag
	err := s.inTx(ctx, "update", "tag", func(tx database.Database) error {
		if _, err := tx.TagRepo().FindByID(id); err != nil {
			return err
		}
		if err := required("name", name); err != nil {
			return err
		}
		name = strings.TrimSpace(name)

		taken, err := tx.TagRepo().NameTaken(name, id)
		if err != nil {
			return err
		}
		if taken {
			return errs.NewAlreadyExists("tag")
		}

		if err := tx.TagRepo().Update(&models.Tag{ID: id, Name: name}); err != nil {
			return err
		}
		if err := replaceTagPosts(tx, id, postIDs); err != nil {
			return err
		}

		updated, err = tx.TagRepo().FindByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("tagID", id).Int("posts", len(updated.Posts)).Msg("Tag updated")
	return updated, nil
}

// DeleteTag removes a tag and its associations. Posts are left untouched.
func (s *BlogService) DeleteTag(ctx context.Context, id uint) error {
	err := s.inTx(ctx, "delete", "tag", func(tx database.Database) error {
		if _, err := tx.TagRepo().FindByID(id); err != nil {
			return err
		}
		if err := tx.PostTagRepo().DeleteForTag(id); err != nil {
			return err
		}
		return tx.TagRepo().Delete(id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Uint("tagID", id).Msg("Tag deleted")
	return nil
}

// replaceTagPosts is the tag-side mirror of replacePostTags.
func replaceTagPosts(tx database.Database, tagID uint, postIDs []uint) error {
	desired, err := tx.PostRepo().ExistingIDs(uniqueIDs(postIDs))
	if err != nil {
		return err
	}
	current, err := tx.PostTagRepo().PostIDsForTag(tagID)
	if err != nil {
		return err
	}

	toAdd, toRemove := diffIDs(current, desired)
	if err := tx.PostTagRepo().DeletePostsFromTag(tagID, toRemove); err != nil {
		return err
	}

	rows := make([]models.PostTag, 0, len(toAdd))
	for _, postID := range toAdd {
		rows = append(rows, models.PostTag{PostID: postID, TagID: tagID})
	}
	return tx.PostTagRepo().Add(rows)
}

// ListTags returns every tag.
func (s *BlogService) ListTags(ctx context.Context) ([]*models.Tag, error) {
	tags, err := s.db(ctx).TagRepo().FindAll()
	if err != nil {
		return nil, wrapError("find", "tags", err)
	}
	return tags, nil
}

// GetTag returns a tag with its posts.
func (s *BlogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.db(ctx).TagRepo().FindByID(id)
	if err != nil {
		return nil, wrapError("find", "tag", err)
	}
	return tag, nil
}
