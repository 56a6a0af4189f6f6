package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpupo63/blogly/database"
	"github.com/rpupo63/blogly/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) database.Database {
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
	return database.New(db)
}

func addUser(t *testing.T, d database.Database, first, last string) *models.User {
	t.Helper()
	user := &models.User{FirstName: first, LastName: last, ImageURL: models.DefaultImageURL}
	require.NoError(t, d.UserRepo().Add(user))
	return user
}

func addPost(t *testing.T, d database.Database, userID uint, title string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Content: "body", CreatedAt: createdAt, UserID: userID}
	require.NoError(t, d.PostRepo().Add(post))
	return post
}

func addTag(t *testing.T, d database.Database, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name}
	require.NoError(t, d.TagRepo().Add(tag))
	return tag
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := database.Open(map[string]string{"DB_TYPE": "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestOpen_ReplicasRequirePostgres(t *testing.T) {
	_, err := database.Open(map[string]string{
		"DB_TYPE":         database.TypeSQLite,
		"DB_PATH":         ":memory:",
		"DB_LOG_LEVEL":    "silent",
		"DB_REPLICA_URLS": "postgres://replica/blogly",
	})
	require.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]string
		want string
	}{
		{
			name: "database url wins",
			cfg:  map[string]string{"DATABASE_URL": "postgres://u:p@db:5432/blogly", "DB_HOST": "ignored"},
			want: "postgres://u:p@db:5432/blogly",
		},
		{
			name: "defaults",
			cfg:  map[string]string{},
			want: "host=localhost user=postgres password= dbname=blogly port=5432 sslmode=disable",
		},
		{
			name: "explicit settings",
			cfg: map[string]string{
				"DB_HOST":     "db",
				"DB_USER":     "blogly",
				"DB_PASSWORD": "secret",
				"DB_NAME":     "blog",
				"DB_PORT":     "6543",
				"DB_SSLMODE":  "require",
			},
			want: "host=db user=blogly password=secret dbname=blog port=6543 sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, database.PostgresDSN(tt.cfg))
		})
	}
}

func TestPing(t *testing.T) {
	d := newTestDB(t)
	assert.NoError(t, d.Ping(context.Background()))
}

func TestUserRepo_FindAllOrdersByLastThenFirstName(t *testing.T) {
	d := newTestDB(t)
	addUser(t, d, "Zed", "Adams")
	addUser(t, d, "Amy", "Brown")
	addUser(t, d, "Al", "Brown")

	users, err := d.UserRepo().FindAll()
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, "Zed Adams", users[0].FullName())
	assert.Equal(t, "Al Brown", users[1].FullName())
	assert.Equal(t, "Amy Brown", users[2].FullName())
}

func TestUserRepo_FindByIDPreloadsPostsNewestFirst(t *testing.T) {
	d := newTestDB(t)
	user := addUser(t, d, "Jane", "Doe")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	addPost(t, d, user.ID, "older", base)
	addPost(t, d, user.ID, "newer", base.Add(time.Hour))

	found, err := d.UserRepo().FindByID(user.ID)
	require.NoError(t, err)
	require.Len(t, found.Posts, 2)
	assert.Equal(t, "newer", found.Posts[0].Title)
	assert.Equal(t, "older", found.Posts[1].Title)
}

func TestUserRepo_FindByIDMissing(t *testing.T) {
	d := newTestDB(t)

	_, err := d.UserRepo().FindByID(42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepo_UpdateAndExists(t *testing.T) {
	d := newTestDB(t)
	user := addUser(t, d, "Jane", "Doe")

	require.NoError(t, d.UserRepo().Update(&models.User{ID: user.ID, FirstName: "Janet", LastName: "Roe", ImageURL: "me.png"}))

	found, err := d.UserRepo().FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Janet Roe", found.FullName())
	assert.Equal(t, "me.png", found.ImageURL)

	exists, err := d.UserRepo().Exists(user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = d.UserRepo().Exists(user.ID + 100)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPostRepo_FindRecent(t *testing.T) {
	d := newTestDB(t)
	user := addUser(t, d, "Jane", "Doe")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"a", "b", "c"} {
		addPost(t, d, user.ID, title, base.Add(time.Duration(i)*time.Minute))
	}

	posts, err := d.PostRepo().FindRecent(2)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "c", posts[0].Title)
	assert.Equal(t, "b", posts[1].Title)
	require.NotNil(t, posts[0].User)
	assert.Equal(t, "Jane Doe", posts[0].User.FullName())
}

func TestPostRepo_ExistingIDsAndIDsByUser(t *testing.T) {
	d := newTestDB(t)
	jane := addUser(t, d, "Jane", "Doe")
	john := addUser(t, d, "John", "Doe")
	now := time.Now().UTC()
	p1 := addPost(t, d, jane.ID, "one", now)
	p2 := addPost(t, d, john.ID, "two", now)

	existing, err := d.PostRepo().ExistingIDs([]uint{p2.ID, 999, p1.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{p1.ID, p2.ID}, existing)

	ids, err := d.PostRepo().IDsByUser(jane.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{p1.ID}, ids)

	none, err := d.PostRepo().ExistingIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPostTagRepo_AssociationsLoadOnBothSides(t *testing.T) {
	d := newTestDB(t)
	user := addUser(t, d, "Jane", "Doe")
	post := addPost(t, d, user.ID, "tagged", time.Now().UTC())
	fun := addTag(t, d, "fun")
	goTag := addTag(t, d, "go")

	require.NoError(t, d.PostTagRepo().Add([]models.PostTag{
		{PostID: post.ID, TagID: goTag.ID},
		{PostID: post.ID, TagID: fun.ID},
	}))

	found, err := d.PostRepo().FindByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{fun.ID, goTag.ID}, found.TagIDs())

	tag, err := d.TagRepo().FindByID(goTag.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{post.ID}, tag.PostIDs())

	require.NoError(t, d.PostTagRepo().DeleteTagsFromPost(post.ID, []uint{fun.ID}))
	tagIDs, err := d.PostTagRepo().TagIDsForPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{goTag.ID}, tagIDs)

	require.NoError(t, d.PostTagRepo().DeleteForTag(goTag.ID))
	rows, err := d.PostTagRepo().FindAll()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTagRepo_NameTaken(t *testing.T) {
	d := newTestDB(t)
	tag := addTag(t, d, "fun")

	taken, err := d.TagRepo().NameTaken("fun", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = d.TagRepo().NameTaken("fun", tag.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = d.TagRepo().NameTaken("serious", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestTagRepo_DuplicateNameIsTranslated(t *testing.T) {
	d := newTestDB(t)
	addTag(t, d, "fun")

	err := d.TagRepo().Add(&models.Tag{Name: "fun"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	d := newTestDB(t)

	err := d.Transaction(func(tx database.Database) error {
		addUser(t, tx, "Jane", "Doe")
		return gorm.ErrInvalidData
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	users, err := d.UserRepo().FindAll()
	require.NoError(t, err)
	assert.Empty(t, users)
}
