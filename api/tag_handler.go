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

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	blog      *services.BlogService
}

func newTagHandler(blog *services.BlogService, pages *renderer) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger, pages),
		logger:    logger,
		blog:      blog,
	}
}

// formRejected reports whether err should send the user back to the tag form.
func formRejected(err error) bool {
	return errs.IsValidation(err) || errs.IsConflict(err)
}

func (h tagHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.blog.ListTags(r.Context())
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		h.responder.RenderPage(w, http.StatusOK, "tags.html", viewData{"Tags": tags})
	}
}

func (h tagHandler) newTagForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.blog.ListPosts(r.Context())
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		h.responder.RenderPage(w, http.StatusOK, "tag_new.html", viewData{
			"Posts":    posts,
			"Form":     url.Values{},
			"Selected": selectedIDs(nil),
		})
	}
}

// createTag processes the add tag form and goes back to /tags
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := parseForm(r)
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}
		postIDs := formIDs(form, "posts")

		_, err = h.blog.CreateTag(r.Context(), form.Get("name"), postIDs...)
		if formRejected(err) {
			h.logger.Debug().Err(err).Msg("New tag form rejected")
			h.rerenderForm(w, r, err, "tag_new.html", viewData{
				"Form":     form,
				"Selected": selectedIDs(postIDs),
			})
			return
		}
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		http.Redirect(w, r, "/tags", http.StatusFound)
	}
}

// showTag shows a tag with the posts carrying it
func (h tagHandler) showTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, ok := urlID(r, "tagID")
		if !ok {
			h.responder.RenderNotFound(w)
			return
		}

		tag, err := h.blog.GetTag(r.Context(), tagID)
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		h.responder.RenderPage(w, http.StatusOK, "tag_detail.html", viewData{"Tag": tag})
	}
}

func (h tagHandler) editTagForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, ok := urlID(r, "tagID")
		if !ok {
			h.responder.RenderNotFound(w)
			return
		}

		tag, err := h.blog.GetTag(r.Context(), tagID)
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}
		posts, err := h.blog.ListPosts(r.Context())
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		h.responder.RenderPage(w, http.StatusOK, "tag_edit.html", viewData{
			"Tag":      tag,
			"Posts":    posts,
			"Form":     url.Values{"name": {tag.Name}},
			"Selected": selectedIDs(tag.PostIDs()),
		})
	}
}

// updateTag processes the edit form and goes back to /tags
func (h tagHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, ok := urlID(r, "tagID")
		if !ok {
			h.responder.RenderNotFound(w)
			return
		}

		form, err := parseForm(r)
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}
		postIDs := formIDs(form, "posts")

		_, err = h.blog.UpdateTag(r.Context(), tagID, form.Get("name"), postIDs)
		if formRejected(err) {
			h.logger.Debug().Err(err).Uint("tagID", tagID).Msg("Edit tag form rejected")
			h.rerenderForm(w, r, err, "tag_edit.html", viewData{
				"Tag":      &models.Tag{ID: tagID},
				"Form":     form,
				"Selected": selectedIDs(postIDs),
			})
			return
		}
		if err != nil {
			h.responder.RenderError(w, err)
			return
		}

		http.Redirect(w, r, "/tags", http.StatusFound)
	}
}

// deleteTag removes a tag. Posts that carried it are kept.
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, ok := urlID(r, "tagID")
		if !ok {
			h.responder.RenderNotFound(w)
			return
		}

		if err := h.blog.DeleteTag(r.Context(), tagID); err != nil {
			h.responder.RenderError(w, err)
			return
		}

		http.Redirect(w, r, "/tags", http.StatusFound)
	}
}

func (h tagHandler) rerenderForm(w http.ResponseWriter, r *http.Request, cause error, page string, data viewData) {
	posts, err := h.blog.ListPosts(r.Context())
	if err != nil {
		h.responder.RenderError(w, err)
		return
	}

	data["Posts"] = posts
	data["Error"] = userMessage(cause)
	h.responder.RenderPage(w, errs.StatusCode(cause), page, data)
}
