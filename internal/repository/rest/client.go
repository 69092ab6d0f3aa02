// Package rest implements the post repository contract against the
// backend's JSON API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/feedapp/feedsync-client/internal/model"
)

// Client talks to the backend post API. The session token is sent
// verbatim in the Authorization header on every request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type userDTO struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio,omitempty"`
}

type commentDTO struct {
	User      userDTO   `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type postDTO struct {
	ID        string       `json:"_id"`
	User      userDTO      `json:"user"`
	Content   string       `json:"content"`
	Image     string       `json:"image,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	Likes     []string     `json:"likes"`
	Comments  []commentDTO `json:"comments"`
}

type errorDTO struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (u userDTO) toDomain() model.User {
	return model.User{ID: u.ID, Name: u.Name, Email: u.Email, Bio: u.Bio}
}

func (p postDTO) toDomain() model.Post {
	post := model.Post{
		ID:        p.ID,
		Author:    p.User.toDomain(),
		Content:   p.Content,
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
		Likes:     p.Likes,
	}
	if post.Likes == nil {
		post.Likes = []string{}
	}
	post.Comments = make([]model.Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		post.Comments = append(post.Comments, model.Comment{
			Author:    c.User.toDomain(),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return post
}

// do performs one API request and decodes the response into out when out
// is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// statusError maps API response codes onto the client error taxonomy.
func (c *Client) statusError(resp *http.Response) error {
	var apiErr errorDTO
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
	msg := apiErr.Message
	if msg == "" {
		msg = apiErr.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", model.ErrValidation, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", model.ErrForbidden, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", model.ErrNotFound, msg)
	default:
		return fmt.Errorf("repository error: status %d: %s", resp.StatusCode, msg)
	}
}

// List fetches the feed in server order.
func (c *Client) List(ctx context.Context) ([]model.Post, error) {
	var dtos []postDTO
	if err := c.do(ctx, http.MethodGet, "/posts", nil, &dtos); err != nil {
		return nil, err
	}

	posts := make([]model.Post, 0, len(dtos))
	for _, dto := range dtos {
		posts = append(posts, dto.toDomain())
	}
	return posts, nil
}

// Create submits a new post and returns its canonical representation.
func (c *Client) Create(ctx context.Context, params model.CreatePostParams) (model.Post, error) {
	body := map[string]string{"content": params.Content, "image": params.Image}
	var dto postDTO
	if err := c.do(ctx, http.MethodPost, "/posts", body, &dto); err != nil {
		return model.Post{}, err
	}
	return dto.toDomain(), nil
}

// Update submits new content for a post and returns the canonical merged
// post.
func (c *Client) Update(ctx context.Context, params model.UpdatePostParams) (model.Post, error) {
	body := map[string]string{"content": params.Content, "image": params.Image}
	var dto postDTO
	if err := c.do(ctx, http.MethodPut, "/posts/"+params.PostID, body, &dto); err != nil {
		return model.Post{}, err
	}
	return dto.toDomain(), nil
}

// Delete destroys a post.
func (c *Client) Delete(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+postID, nil, nil)
}

// ToggleLike flips the user's membership in the post's like set. The
// backend decides the direction from current membership.
func (c *Client) ToggleLike(ctx context.Context, postID string, userID string) (model.Post, error) {
	body := map[string]string{"userId": userID}
	var dto postDTO
	if err := c.do(ctx, http.MethodPost, "/posts/"+postID+"/like", body, &dto); err != nil {
		return model.Post{}, err
	}
	return dto.toDomain(), nil
}

// AddComment appends a comment and returns the canonical post.
func (c *Client) AddComment(ctx context.Context, postID string, text string) (model.Post, error) {
	body := map[string]string{"text": text}
	var dto postDTO
	if err := c.do(ctx, http.MethodPost, "/posts/"+postID+"/comment", body, &dto); err != nil {
		return model.Post{}, err
	}
	return dto.toDomain(), nil
}
