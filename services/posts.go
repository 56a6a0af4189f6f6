package services

import (
	"context"
	"strings"

	"github.com/rpupo63/blogly/database"
	"github.com/rpupo63/blogly/errs"
	"github.com/rpupo63/blogly/models"
)

func validatePost(title, content string) error {
	if err := required("title", title); err != nil {
		return err
	}
	return required("content", content)
}

// CreatePost adds a post owned by userID and attaches the existing tags among
// tagIDs. Unknown tag ids are ignored.
func (s *BlogService) CreatePost(ctx context.Context, userID uint, title, content string, tagIDs []uint) (*models.Post, error) {
	var created *models.Post
	err := s.inTx(ctx, "create", "post", func(tx database.Database) error {
		exists, err := tx.UserRepo().Exists(userID)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NewNotFound("user")
		}
		if err := validatePost(title, content); err != nil {
			return err
		}

		post := &models.Post{
			Title:     strings.TrimSpace(title),
			Content:   content,
			CreatedAt: s.clock.NowUtc(),
			UserID:    userID,
		}
		if err := tx.PostRepo().Add(post); err != nil {
			return err
		}
		if err := replacePostTags(tx, post.ID, tagIDs); err != nil {
			return err
		}

		created, err = tx.PostRepo().FindByID(post.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("postID", created.ID).Uint("userID", userID).Int("tags", len(created.Tags)).Msg("Post created")
	return created, nil
}

// UpdatePost overwrites the title and content of a post and replaces its tag
// set with the existing tags among tagIDs.
func (s *BlogService) UpdatePost(ctx context.Context, id uint, title, content string, tagIDs []uint) (*models.Post, error) {
	var updated *models.Post
	err := s.inTx(ctx, "update", "post", func(tx database.Database) error {
		if _, err := tx.PostRepo().FindByID(id); err != nil {
			return err
		}
		if err := validatePost(title, content); err != nil {
			return err
		}

		post := &models.Post{ID: id, Title: strings.TrimSpace(title), Content: content}
		if err := tx.PostRepo().Update(post); err != nil {
			return err
		}
		if err := replacePostTags(tx, id, tagIDs); err != nil {
			return err
		}

		var err error
		updated, err = tx.PostRepo().FindByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("postID", id).Int("tags", len(updated.Tags)).Msg("Post updated")
	return updated, nil
}

// DeletePost removes a post and its tag associations and returns the id of
// the user who owned it.
func (s *BlogService) DeletePost(ctx context.Context, id uint) (uint, error) {
	var ownerID uint
	err := s.inTx(ctx, "delete", "post", func(tx database.Database) error {
		post, err := tx.PostRepo().FindByID(id)
		if err != nil {
			return err
		}
		ownerID = post.UserID

		if err := tx.PostTagRepo().DeleteForPosts([]uint{id}); err != nil {
			return err
		}
		return tx.PostRepo().Delete(id)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info().Uint("postID", id).Uint("userID", ownerID).Msg("Post deleted")
	return ownerID, nil
}

// replacePostTags makes the existing tags among tagIDs the exact tag set of
// postID, adding and removing only the rows that differ.
func replacePostTags(tx database.Database, postID uint, tagIDs []uint) error {
	desired, err := tx.TagRepo().ExistingIDs(uniqueIDs(tagIDs))
	if err != nil {
		return err
	}
	current, err := tx.PostTagRepo().TagIDsForPost(postID)
	if err != nil {
		return err
	}

	toAdd, toRemove := diffIDs(current, desired)
	if err := tx.PostTagRepo().DeleteTagsFromPost(postID, toRemove); err != nil {
		return err
	}

	rows := make([]models.PostTag, 0, len(toAdd))
	for _, tagID := range toAdd {
		rows = append(rows, models.PostTag{PostID: postID, TagID: tagID})
	}
	return tx.PostTagRepo().Add(rows)
}

// ListPosts returns every post with its tags.
func (s *BlogService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.db(ctx).PostRepo().FindAll()
	if err != nil {
		return nil, wrapError("find", "posts", err)
	}
	return posts, nil
}

// RecentPosts returns at most limit posts, most recently created first.
func (s *BlogService) RecentPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		return []*models.Post{}, nil
	}
	posts, err := s.db(ctx).PostRepo().FindRecent(limit)
	if err != nil {
		return nil, wrapError("find", "posts", err)
	}
	return posts, nil
}

// GetPost returns a post with its author and tags.
func (s *BlogService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.db(ctx).PostRepo().FindByID(id)
	if err != nil {
		return nil, wrapError("find", "post", err)
	}
	return post, nil
}
