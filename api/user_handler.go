package api

import (
	"net/http"
	"net/url"

	"github.com/rpupo63/blogly/errs"
	"github.com/rpupo63/blogly/models"
	"github.com/rpupo63/blogly/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	blog      *services.BlogService
}

func newUserHandler(blog *services.BlogService, pages *renderer) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger, pages),
		logger:    logger,
		blog:      blog,
	}
}

func userForm(user *models.User) url.Values {
	return url.Values{
		"first_name": {user.FirstName},
		"last_name":  {user.LastName},
		"image_url":  {user.ImageURL},
	}
}

// listUsers shows every user ordered by last name, then first name
func (h userHandler) listUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.blog.ListUsers(r.Context())
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		h.responder.RenderPage(w, http.StatusOK, "users.html", viewData{"Users": users})
	}
}

func (h userHandler) newUserForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.RenderPage(w, http.StatusOK, "user_new.html", viewData{"Form": url.Values{}})
	}
}

// createUser processes the add form and goes back to /users
func (h userHandler) createUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := parseForm(r)
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		_, err = h.blog.CreateUser(r.Context(), form.Get("first_name"), form.Get("last_name"), form.Get("image_url"))
		if errs.IsValidation(err) {
			h.logger.Debug().Err(err).Msg("New user form rejected")
			h.responder.RenderPage(w, errs.StatusCode(err), "user_new.html", viewData{
				"Form":  form,
				"Error": userMessage(err),
			})
			return
		}
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		http.Redirect(w, r, "/users", http.StatusFound)
	}
}

// showUser shows a user with their posts
func (h userHandler) showUser() http.HandlerFunc {
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

		h.responder.RenderPage(w, http.StatusOK, "user_detail.html", viewData{"User": user})
	}
}

func (h userHandler) editUserForm() http.HandlerFunc {
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

		h.responder.RenderPage(w, http.StatusOK, "user_edit.html", viewData{
			"User": user,
			"Form": userForm(user),
		})
	}
}

// updateUser processes the edit form and goes back to /users
func (h userHandler) updateUser() http.HandlerFunc {
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

		_, err = h.blog.UpdateUser(r.Context(), userID, form.Get("first_name"), form.Get("last_name"), form.Get("image_url"))
		if errs.IsValidation(err) {
			h.logger.Debug().Err(err).Uint("userID", userID).Msg("Edit user form rejected")
			h.responder.RenderPage(w, errs.StatusCode(err), "user_edit.html", viewData{
				"User":  &models.User{ID: userID},
				"Form":  form,
				"Error": userMessage(err),
			})
			return
		}
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		http.Redirect(w, r, "/users", http.StatusFound)
	}
}

// deleteUser removes a user and all of their posts
func (h userHandler) deleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := urlID(r, "userID")
		if !ok {
			h.responder.RenderNotFound(w)
			return
		}

		if err := h.blog.DeleteUser(r.Context(), userID); err != nil {
			h.responder.RenderError(w, err)
			return
		}

		http.Redirect(w, r, "/users", http.StatusFound)
	}
}
