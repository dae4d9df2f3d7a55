package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	post := &models.Post{
		Title:      "Test Post",
		Content:    "Content",
		CategoryID: 1,
		AuthorID:   2,
		Category:   models.Category{ID: 1, Name: "ignored"},
	}

	// Associations are omitted: only the posts insert runs.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), post))
	assert.Equal(t, uint(1), post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts" WHERE "posts"."id" = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 3)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type postFixture struct {
	alice, bob *models.User
	news, tech *models.Category
	posts      map[string]*models.Post
	postRepo   PostRepository
	ctx        context.Context
}

func newPostFixture(t *testing.T) *postFixture {
	db := setupSQLiteDB(t)
	f := &postFixture{
		alice:    seedUser(t, db, "alice"),
		bob:      seedUser(t, db, "bob"),
		news:     seedCategory(t, db, "News"),
		tech:     seedCategory(t, db, "Tech"),
		posts:    map[string]*models.Post{},
		postRepo: NewPostRepository(db),
		ctx:      context.Background(),
	}
	f.posts["news-pub"] = seedPost(t, db, "news-pub", f.news, f.alice, true, 0)
	f.posts["news-draft"] = seedPost(t, db, "news-draft", f.news, f.bob, false, time.Minute)
	f.posts["tech-pub"] = seedPost(t, db, "tech-pub", f.tech, f.alice, true, 2*time.Minute)
	f.posts["tech-draft"] = seedPost(t, db, "tech-draft", f.tech, f.alice, false, 3*time.Minute)
	return f
}

func titles(posts []*models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

func TestPostRepository_SQLite_ListNewestFirstWithRelations(t *testing.T) {
	f := newPostFixture(t)

	posts, err := f.postRepo.List(f.ctx, PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"tech-draft", "tech-pub", "news-draft", "news-pub"}, titles(posts))

	first := posts[0]
	assert.Equal(t, "Tech", first.Category.Name)
	assert.Equal(t, int64(2), first.Category.PostsCount)
	assert.Equal(t, "alice", first.Author.Username)
}

func TestPostRepository_SQLite_Filters(t *testing.T) {
	f := newPostFixture(t)
	yes, no := true, false

	tests := []struct {
		name   string
		filter PostFilter
		want   []string
	}{
		{"published", PostFilter{Published: &yes}, []string{"tech-pub", "news-pub"}},
		{"unpublished", PostFilter{Published: &no}, []string{"tech-draft", "news-draft"}},
		{"category", PostFilter{CategoryID: &f.news.ID}, []string{"news-draft", "news-pub"}},
		{"category and published", PostFilter{CategoryID: &f.tech.ID, Published: &yes}, []string{"tech-pub"}},
		{"author", PostFilter{AuthorID: &f.bob.ID}, []string{"news-draft"}},
		{"query", PostFilter{Query: "TECH-P"}, []string{"tech-pub"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := f.postRepo.List(f.ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(posts))
		})
	}
}

func TestPostRepository_SQLite_UpdateKeepsAuthorAndCreatedAt(t *testing.T) {
	f := newPostFixture(t)
	original := f.posts["news-pub"]

	edited := *original
	edited.Title = "renamed"
	edited.AuthorID = f.bob.ID
	edited.CreatedAt = baseTime.Add(48 * time.Hour)
	edited.CategoryID = f.tech.ID
	edited.Published = false

	require.NoError(t, f.postRepo.Update(f.ctx, &edited))

	got, err := f.postRepo.GetByID(f.ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, f.alice.ID, got.AuthorID)
	assert.True(t, got.CreatedAt.Equal(original.CreatedAt))
	assert.Equal(t, f.tech.ID, got.CategoryID)
	assert.False(t, got.Published)
}

func TestPostRepository_SQLite_SetPublishedAndDelete(t *testing.T) {
	f := newPostFixture(t)
	draft := f.posts["news-draft"]

	require.NoError(t, f.postRepo.SetPublished(f.ctx, draft.ID, true))
	got, err := f.postRepo.GetByID(f.ctx, draft.ID)
	require.NoError(t, err)
	assert.True(t, got.Published)

	require.Error(t, f.postRepo.SetPublished(f.ctx, 9999, true))

	require.NoError(t, f.postRepo.Delete(f.ctx, draft.ID))
	_, err = f.postRepo.GetByID(f.ctx, draft.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestPostRepository_SQLite_ByCategoryAndAuthor(t *testing.T) {
	f := newPostFixture(t)

	byCategory, err := f.postRepo.GetByCategoryID(f.ctx, f.tech.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tech-draft", "tech-pub"}, titles(byCategory))

	byAuthor, err := f.postRepo.GetByAuthorID(f.ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tech-draft", "tech-pub", "news-pub"}, titles(byAuthor))
}
