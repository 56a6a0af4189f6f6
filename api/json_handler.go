package api

import (
	"net/http"
	"strconv"

	"github.com/rpupo63/blogly/errs"
	"github.com/rpupo63/blogly/services"
	"github.com/rs/zerolog/log"
)

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 100
)

// jsonHandler serves read-only JSON views of users, posts and tags
type jsonHandler struct {
	responder Responder
	blog      *services.BlogService
}

func newJSONHandler(blog *services.BlogService, pages *renderer) jsonHandler {
	logger := log.With().Str("handlerName", "jsonHandler").Logger()

	return jsonHandler{
		responder: NewResponder(logger, pages),
		blog:      blog,
	}
}

func (h jsonHandler) listUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.blog.ListUsers(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, UserCollection{Users: users, Total: len(users)})
	}
}

func (h jsonHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := urlID(r, "userID")
		if !ok {
			h.responder.WriteError(w, errs.NewNotFound("user"))
			return
		}

		user, err := h.blog.GetUser(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, user)
	}
}

func (h jsonHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.blog.ListPosts(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, PostCollection{Posts: posts, Total: len(posts)})
	}
}

// recentPosts returns the newest posts. The optional limit query parameter
// defaults to 5 and is capped at 100.
func (h jsonHandler) recentPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRecentLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("limit", "must be a non-negative integer"))
				return
			}
			limit = min(parsed, maxRecentLimit)
		}

		posts, err := h.blog.RecentPosts(r.Context(), limit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, PostCollection{Posts: posts, Total: len(posts)})
	}
}

func (h jsonHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := urlID(r, "postID")
		if !ok {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}

		post, err := h.blog.GetPost(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

func (h jsonHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.blog.ListTags(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, TagCollection{Tags: tags, Total: len(tags)})
	}
}

func (h jsonHandler) getTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, ok := urlID(r, "tagID")
		if !ok {
			h.responder.WriteError(w, errs.NewNotFound("tag"))
			return
		}

		tag, err := h.blog.GetTag(r.Context(), tagID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

func (h jsonHandler) notFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteError(w, errs.NewNotFoundError("route"))
	}
}
