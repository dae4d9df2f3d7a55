package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func uintPtr(v uint) *uint    { return &v }

func TestPostRequest_DropsReadOnlyFields(t *testing.T) {
	body := `{"title":"T","content":"C","category_id":3,"author":99,"id":7,"created_at":"2020-01-01T00:00:00Z"}`

	var req PostRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	require.NoError(t, req.Validate(false))
	post := Post{AuthorID: 1}
	req.Apply(&post)

	assert.Equal(t, uint(0), post.ID)
	assert.Equal(t, uint(1), post.AuthorID)
	assert.Equal(t, uint(3), post.CategoryID)
	assert.True(t, post.CreatedAt.IsZero())
}

func TestPostRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     PostRequest
		partial bool
		fields  []string
	}{
		{"full valid", PostRequest{Title: strPtr("a"), Content: strPtr("b"), CategoryID: uintPtr(1)}, false, nil},
		{"full missing all", PostRequest{}, false, []string{"title", "content", "category_id"}},
		{"partial empty", PostRequest{}, true, nil},
		{"blank title", PostRequest{Title: strPtr("  ")}, true, []string{"title"}},
		{"title too long", PostRequest{Title: strPtr(strings.Repeat("x", 201))}, true, []string{"title"}},
		{"blank content", PostRequest{Content: strPtr("")}, true, []string{"content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(tt.partial)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var appErr *AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, CodeValidation, appErr.Code)
			assert.Len(t, appErr.Fields, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, appErr.Fields, f)
			}
		})
	}
}

func TestCategoryRequest_Validate(t *testing.T) {
	assert.NoError(t, (&CategoryRequest{Name: strPtr("Go")}).Validate(false))
	assert.NoError(t, (&CategoryRequest{}).Validate(true))

	err := (&CategoryRequest{}).Validate(false)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, msgRequired, appErr.Fields["name"])

	err = (&CategoryRequest{Name: strPtr(strings.Repeat("n", 101))}).Validate(true)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, msgMaxLen(100), appErr.Fields["name"])
}

func TestCategoryRequest_ApplyKeepsAbsentFields(t *testing.T) {
	c := Category{Name: "Old", Description: "keep"}
	(&CategoryRequest{Name: strPtr(" New ")}).Apply(&c)

	assert.Equal(t, "New", c.Name)
	assert.Equal(t, "keep", c.Description)
}

func TestPostRequest_ApplyCategoryChangeDropsLoadedCategory(t *testing.T) {
	p := Post{CategoryID: 1, Category: Category{ID: 1, Name: "Old"}}

	(&PostRequest{CategoryID: uintPtr(1)}).Apply(&p)
	assert.Equal(t, "Old", p.Category.Name)

	(&PostRequest{CategoryID: uintPtr(2)}).Apply(&p)
	assert.Equal(t, uint(2), p.CategoryID)
	assert.Zero(t, p.Category.ID)
}

func TestPostResponse_NestsCategoryAndAuthor(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	post := &Post{
		ID:         10,
		Title:      "Hello",
		Content:    "World",
		CategoryID: 2,
		Category:   Category{ID: 2, Name: "News", PostsCount: 4},
		AuthorID:   5,
		Author:     User{ID: 5, Username: "alice", Email: "a@example.com", Password: "hash"},
		Published:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	raw, err := json.Marshal(NewPostResponse(post))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.NotContains(t, out, "category_id")
	assert.NotContains(t, out, "author_id")

	category := out["category"].(map[string]any)
	assert.Equal(t, "News", category["name"])
	assert.EqualValues(t, 4, category["posts_count"])

	author := out["author"].(map[string]any)
	assert.Equal(t, "alice", author["username"])
	assert.NotContains(t, author, "password")
}

func TestResponseSlicesAreNeverNil(t *testing.T) {
	raw, err := json.Marshal(NewPostResponses(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	raw, err = json.Marshal(NewCategoryResponses(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	raw, err = json.Marshal(NewUserResponses(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}
