package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/rpupo63/blogly/errs"
	"github.com/rpupo63/blogly/models"
	"github.com/rpupo63/blogly/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const recentPostsOnHome = 5

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	blog      *services.BlogService
}

func newPostHandler(blog *services.BlogService, pages *renderer) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger, pages),
		logger:    logger,
		blog:      blog,
	}
}

func postForm(post *models.Post) url.Values {
	return url.Values{
		"title":   {post.Title},
		"content": {post.Content},
	}
}

// showRecentPosts is the homepage
func (h postHandler) showRecentPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.blog.RecentPosts(r.Context(), recentPostsOnHome)
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		h.responder.RenderPage(w, http.StatusOK, "home.html", viewData{"Posts": posts})
	}
}

func (h postHandler) newPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := urlID(r, "userID")
		if !ok {
			h.responder.RenderNotFound(w)
			return
		}

		user, err := h.blog.GetUser(r.Context(), userID)
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}
		tags, err := h.blog.ListTags(r.Context())
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		h.responder.RenderPage(w, http.StatusOK, "post_new.html", viewData{
			"User":     user,
			"Tags":     tags,
			"Form":     url.Values{},
			"Selected": selectedIDs(nil),
		})
	}
}

// createPost processes the add post form and goes back to the author's page
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := urlID(r, "userID")
		if !ok {
			h.responder.RenderNotFound(w)
			return
		}

		form, err := parseForm(r)
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}
		tagIDs := formIDs(form, "tags")

		_, err = h.blog.CreatePost(r.Context(), userID, form.Get("title"), form.Get("content"), tagIDs)
		if errs.IsValidation(err) {
			h.logger.Debug().Err(err).Uint("userID", userID).Msg("New post form rejected")
			h.rerenderForm(w, r, err, "post_new.html", viewData{
				"Form":     form,
				"Selected": selectedIDs(tagIDs),
			}, userID)
			return
		}
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/users/%d", userID), http.StatusFound)
	}
}

// showPost shows a post with its author and tags
func (h postHandler) showPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := urlID(r, "postID")
		if !ok {
			h.responder.RenderNotFound(w)
			return
		}

		post, err := h.blog.GetPost(r.Context(), postID)
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		h.responder.RenderPage(w, http.StatusOK, "post_detail.html", viewData{"Post": post})
	}
}

func (h postHandler) editPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := urlID(r, "postID")
		if !ok {
			h.responder.RenderNotFound(w)
			return
		}

		post, err := h.blog.GetPost(r.Context(), postID)
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}
		tags, err := h.blog.ListTags(r.Context())
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		h.responder.RenderPage(w, http.StatusOK, "post_edit.html", viewData{
			"Post":     post,
			"Tags":     tags,
			"Form":     postForm(post),
			"Selected": selectedIDs(post.TagIDs()),
		})
	}
}

// updatePost processes the edit form and goes back to the post
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := urlID(r, "postID")
		if !ok {
			h.responder.RenderNotFound(w)
			return
		}

		form, err := parseForm(r)
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}
		tagIDs := formIDs(form, "tags")

		_, err = h.blog.UpdatePost(r.Context(), postID, form.Get("title"), form.Get("content"), tagIDs)
		if errs.IsValidation(err) {
			h.logger.Debug().Err(err).Uint("postID", postID).Msg("Edit post form rejected")
			h.rerenderForm(w, r, err, "post_edit.html", viewData{
				"Post":     &models.Post{ID: postID},
				"Form":     form,
				"Selected": selectedIDs(tagIDs),
			}, 0)
			return
		}
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/posts/%d", postID), http.StatusFound)
	}
}

// deletePost removes a post and goes back to the page of the user who wrote it
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := urlID(r, "postID")
		if !ok {
			h.responder.RenderNotFound(w)
			return
		}

		ownerID, err := h.blog.DeletePost(r.Context(), postID)
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/users/%d", ownerID), http.StatusFound)
	}
}

// rerenderForm shows a rejected post form again with the submitted values.
// A non-zero userID loads the author shown on the add form.
func (h postHandler) rerenderForm(w http.ResponseWriter, r *http.Request, cause error, page string, data viewData, userID uint) {
	tags, err := h.blog.ListTags(r.Context())
	if err != nil {
		h.responder.RenderError(w, err)
		return
	}
	if userID != 0 {
		user, err := h.blog.GetUser(r.Context(), userID)
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}
		data["User"] = user
	}

	data["Tags"] = tags
	data["Error"] = userMessage(cause)
	h.responder.RenderPage(w, errs.StatusCode(cause), page, data)
}
