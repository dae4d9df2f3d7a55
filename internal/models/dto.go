package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
)

func msgMaxLen(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewUserResponse converts a user record to its response form.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// NewUserResponses converts a slice of users, never returning nil.
func NewUserResponses(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// CategoryRequest is the writable subset of a category.
// Pointer fields distinguish "absent" from "empty" for partial updates.
type CategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Validate checks the request. When partial is false every required field must be present.
func (r *CategoryRequest) Validate(partial bool) error {
	fields := map[string]string{}

	switch {
	case r.Name == nil:
		if !partial {
			fields["name"] = msgRequired
		}
	case strings.TrimSpace(*r.Name) == "":
		fields["name"] = msgBlank
	case len([]rune(*r.Name)) > maxCategoryNameLen:
		fields["name"] = msgMaxLen(maxCategoryNameLen)
	}

	if len(fields) > 0 {
		return NewFieldValidationError(fields)
	}
	return nil
}

// Apply copies the present fields onto the category.
func (r *CategoryRequest) Apply(c *Category) {
	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
}

// CategoryResponse is the public representation of a category.
type CategoryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PostsCount  int64     `json:"posts_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategoryResponse converts a category record to its response form.
func NewCategoryResponse(c *Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		PostsCount:  c.PostsCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// NewCategoryResponses converts a slice of categories, never returning nil.
func NewCategoryResponses(categories []*Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, NewCategoryResponse(c))
	}
	return out
}

// PostRequest is the writable subset of a post. It has no author, id or timestamp
// fields, so client-supplied values for those are dropped while decoding.
type PostRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	CategoryID *uint   `json:"category_id"`
	Published  *bool   `json:"published"`
}

// Validate checks the request. When partial is false every required field must be present.
func (r *PostRequest) Validate(partial bool) error {
	fields := map[string]string{}

	switch {
	case r.Title == nil:
		if !partial {
			fields["title"] = msgRequired
		}
	case strings.TrimSpace(*r.Title) == "":
		fields["title"] = msgBlank
	case len([]rune(*r.Title)) > maxPostTitleLen:
		fields["title"] = msgMaxLen(maxPostTitleLen)
	}

	switch {
	case r.Content == nil:
		if !partial {
			fields["content"] = msgRequired
		}
	case strings.TrimSpace(*r.Content) == "":
		fields["content"] = msgBlank
	}

	if r.CategoryID == nil && !partial {
		fields["category_id"] = msgRequired
	}

	if len(fields) > 0 {
		return NewFieldValidationError(fields)
	}
	return nil
}

// Apply copies the present fields onto the post. Category resolution and the
// author are handled by the caller.
func (r *PostRequest) Apply(p *Post) {
	if r.Title != nil {
		p.Title = strings.TrimSpace(*r.Title)
	}
	if r.Content != nil {
		p.Content = *r.Content
	}
	if r.CategoryID != nil {
		if p.CategoryID != *r.CategoryID {
			// drop the stale preloaded category
			p.Category = Category{}
		}
		p.CategoryID = *r.CategoryID
	}
	if r.Published != nil {
		p.Published = *r.Published
	}
}

// PostResponse is the public representation of a post with its category and author nested.
type PostResponse struct {
	ID        uint             `json:"id"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Category  CategoryResponse `json:"category"`
	Author    UserResponse     `json:"author"`
	Published bool             `json:"published"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewPostResponse converts a post record (with Category and Author loaded) to its response form.
func NewPostResponse(p *Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  NewCategoryResponse(&p.Category),
		Author:    NewUserResponse(&p.Author),
		Published: p.Published,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// NewPostResponses converts a slice of posts, never returning nil.
func NewPostResponses(posts []*Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostResponse(p))
	}
	return out
}
