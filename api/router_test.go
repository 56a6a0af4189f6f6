package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/blogly/api"
	"github.com/rpupo63/blogly/database"
	"github.com/rpupo63/blogly/models"
	"github.com/rpupo63/blogly/services"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	handler http.Handler
	blog    *services.BlogService
	clock   *services.StubClock
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := database.Open(map[string]string{
		"DB_TYPE":      database.TypeSQLite,
		"DB_PATH":      ":memory:",
		"DB_LOG_LEVEL": "silent",
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.Migrate(db))

	clock := services.NewStubClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	blog := services.NewBlogService(database.New(db), services.WithClock(clock))

	router, err := api.NewRouter(blog,
		api.WithConfig(map[string]string{"ACCEPTED_ORIGINS": "https://blogly.example"}),
		api.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)

	return &testApp{handler: router, blog: blog, clock: clock}
}

func (a *testApp) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func TestHomepageShowsRecentPosts(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	user, err := app.blog.CreateUser(ctx, "John", "Doe", "")
	require.NoError(t, err)
	for i := 1; i <= 6; i++ {
		app.clock.Advance(time.Minute)
		_, err := app.blog.CreatePost(ctx, user.ID, fmt.Sprintf("Post number %d", i), "body", nil)
		require.NoError(t, err)
	}

	rec := app.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Post number 6")
	assert.Contains(t, body, "Post number 2")
	assert.NotContains(t, body, "Post number 1<")
	assert.Less(t, strings.Index(body, "Post number 6"), strings.Index(body, "Post number 5"))
}

func TestUserLifecycle(t *testing.T) {
	app := newTestApp(t)

	rec := app.post(t, "/users/new", url.Values{"first_name": {"John"}, "last_name": {"Doe"}, "image_url": {""}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get("Location"))

	users, err := app.blog.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	userPath := fmt.Sprintf("/users/%d", users[0].ID)

	rec = app.get(t, "/users")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "John Doe")

	rec = app.get(t, userPath)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.DefaultImageURL)

	rec = app.post(t, userPath+"/edit", url.Values{"first_name": {"Jack"}, "last_name": {"Doe"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get("Location"))

	rec = app.get(t, userPath+"/edit")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Jack"`)

	rec = app.post(t, userPath+"/delete", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get("Location"))

	rec = app.get(t, userPath)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateUser_ValidationRerendersForm(t *testing.T) {
	app := newTestApp(t)

	rec := app.post(t, "/users/new", url.Values{"first_name": {"John"}, "last_name": {" "}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Missing required field: last_name")
	assert.Contains(t, body, `value="John"`)

	users, err := app.blog.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestPostLifecycle(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	user, err := app.blog.CreateUser(ctx, "John", "Doe", "")
	require.NoError(t, err)
	fun, err := app.blog.CreateTag(ctx, "fun")
	require.NoError(t, err)
	serious, err := app.blog.CreateTag(ctx, "serious")
	require.NoError(t, err)
	userPath := fmt.Sprintf("/users/%d", user.ID)

	rec := app.get(t, userPath+"/posts/new")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "serious")

	rec = app.post(t, userPath+"/posts/new", url.Values{
		"title":   {"Hello"},
		"content": {"World"},
		"tags":    {fmt.Sprint(fun.ID), "not-a-number"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, userPath, rec.Header().Get("Location"))

	posts, err := app.blog.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, []uint{fun.ID}, posts[0].TagIDs())
	postPath := fmt.Sprintf("/posts/%d", posts[0].ID)

	rec = app.get(t, postPath)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "By <a href=\"/users/")

	rec = app.post(t, postPath+"/edit", url.Values{
		"title":   {"Hello again"},
		"content": {"World"},
		"tags":    {fmt.Sprint(serious.ID)},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, postPath, rec.Header().Get("Location"))

	post, err := app.blog.GetPost(ctx, posts[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello again", post.Title)
	assert.Equal(t, []uint{serious.ID}, post.TagIDs())

	rec = app.get(t, postPath+"/edit")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), fmt.Sprintf(`value="%d" checked`, serious.ID))

	rec = app.post(t, postPath+"/delete", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, userPath, rec.Header().Get("Location"))

	rec = app.get(t, postPath)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePost_UnknownUser(t *testing.T) {
	app := newTestApp(t)

	rec := app.post(t, "/users/99/posts/new", url.Values{"title": {"t"}, "content": {"c"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.get(t, "/users/99/posts/new")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePost_ValidationKeepsSelection(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	user, err := app.blog.CreateUser(ctx, "John", "Doe", "")
	require.NoError(t, err)
	tag, err := app.blog.CreateTag(ctx, "fun")
	require.NoError(t, err)

	rec := app.post(t, fmt.Sprintf("/users/%d/posts/new", user.ID), url.Values{
		"title": {""},
		"tags":  {fmt.Sprint(tag.ID)},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Missing required field: title")
	assert.Contains(t, body, fmt.Sprintf(`value="%d" checked`, tag.ID))
	assert.Contains(t, body, "Add Post for John Doe")
}

func TestTagLifecycle(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	user, err := app.blog.CreateUser(ctx, "John", "Doe", "")
	require.NoError(t, err)
	post, err := app.blog.CreatePost(ctx, user.ID, "Tagged post", "body", nil)
	require.NoError(t, err)

	rec := app.get(t, "/tags/new")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tagged post")

	rec = app.post(t, "/tags/new", url.Values{"name": {"fun"}, "posts": {fmt.Sprint(post.ID)}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/tags", rec.Header().Get("Location"))

	tags, err := app.blog.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	tagPath := fmt.Sprintf("/tags/%d", tags[0].ID)

	rec = app.get(t, tagPath)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tagged post")

	rec = app.post(t, "/tags/new", url.Values{"name": {"fun"}})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")

	rec = app.post(t, tagPath+"/edit", url.Values{"name": {"funny"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/tags", rec.Header().Get("Location"))

	tag, err := app.blog.GetTag(ctx, tags[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "funny", tag.Name)
	assert.Empty(t, tag.Posts)

	rec = app.post(t, tagPath+"/delete", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/tags", rec.Header().Get("Location"))

	_, err = app.blog.GetPost(ctx, post.ID)
	assert.NoError(t, err)
	rec = app.get(t, tagPath)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownPageRendersNotFound(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/nowhere", "/users/0", "/posts/12", "/tags/abc"} {
		rec := app.get(t, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html", path)
	}
}

func TestRequestIDHeader(t *testing.T) {
	app := newTestApp(t)

	rec := app.get(t, "/users")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}

func TestJSONAPI(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	user, err := app.blog.CreateUser(ctx, "John", "Doe", "")
	require.NoError(t, err)
	tag, err := app.blog.CreateTag(ctx, "fun")
	require.NoError(t, err)
	for i := 1; i <= 7; i++ {
		app.clock.Advance(time.Minute)
		_, err := app.blog.CreatePost(ctx, user.ID, fmt.Sprintf("post %d", i), "body", []uint{tag.ID})
		require.NoError(t, err)
	}

	t.Run("users", func(t *testing.T) {
		rec := app.get(t, "/api/users")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

		var users api.UserCollection
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		assert.Equal(t, 1, users.Total)
		assert.Equal(t, "John", users.Users[0].FirstName)
	})

	t.Run("user with posts", func(t *testing.T) {
		rec := app.get(t, fmt.Sprintf("/api/users/%d", user.ID))
		require.Equal(t, http.StatusOK, rec.Code)

		var got models.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got.Posts, 7)
		assert.Equal(t, "post 7", got.Posts[0].Title)
	})

	t.Run("recent posts default limit", func(t *testing.T) {
		rec := app.get(t, "/api/posts/recent")
		require.Equal(t, http.StatusOK, rec.Code)

		var posts api.PostCollection
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
		assert.Equal(t, 5, posts.Total)
		assert.Equal(t, "post 7", posts.Posts[0].Title)
	})

	t.Run("recent posts with limit", func(t *testing.T) {
		rec := app.get(t, "/api/posts/recent?limit=2")
		require.Equal(t, http.StatusOK, rec.Code)

		var posts api.PostCollection
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
		assert.Equal(t, 2, posts.Total)
	})

	t.Run("recent posts bad limit", func(t *testing.T) {
		rec := app.get(t, "/api/posts/recent?limit=lots")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp api.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
	})

	t.Run("tag with posts", func(t *testing.T) {
		rec := app.get(t, fmt.Sprintf("/api/tags/%d", tag.ID))
		require.Equal(t, http.StatusOK, rec.Code)

		var got models.Tag
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "fun", got.Name)
		assert.Len(t, got.Posts, 7)
	})

	t.Run("missing post", func(t *testing.T) {
		rec := app.get(t, "/api/posts/999")
		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp api.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "not found")
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := app.get(t, "/api/comments")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	})

	t.Run("cors", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
		req.Header.Set("Origin", "https://blogly.example")
		rec := httptest.NewRecorder()
		app.handler.ServeHTTP(rec, req)
		assert.Equal(t, "https://blogly.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestNewServerUsesConfiguredPort(t *testing.T) {
	app := newTestApp(t)

	server, err := api.NewServer(map[string]string{"PORT": "9090", "READ_TIMEOUT_SECONDS": "5"}, app.blog)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", server.Addr)
	assert.Equal(t, 5*time.Second, server.ReadTimeout)
	assert.Equal(t, 30*time.Second, server.WriteTimeout)
	assert.Equal(t, 120*time.Second, server.IdleTimeout)
}
