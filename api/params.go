package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/blogly/errs"
)

// urlID parses a positive integer path parameter.
func urlID(r *http.Request, key string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, key), 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// formIDs parses the repeated id field of a form. Values that are not
// positive integers are dropped, the same way unknown ids are.
func formIDs(form url.Values, key string) []uint {
	var ids []uint
	for _, raw := range form[key] {
		id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// selectedIDs turns ids into the lookup set templates use to check boxes.
func selectedIDs(ids []uint) map[uint]bool {
	selected := make(map[uint]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	return selected
}

// parseForm parses the request body and returns its form values.
func parseForm(r *http.Request) (url.Values, error) {
	if err := r.ParseForm(); err != nil {
		return nil, errs.NewMalformedPayloadError("form", err)
	}
	return r.PostForm, nil
}
