package post

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"photoshare/pkg/api"
	"photoshare/pkg/user"
)

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Comment struct {
	ID        int        `json:"id"`
	Content   string     `json:"content"`
	PostID    int        `json:"post_id"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
	User      *user.User `json:"user,omitempty"`
}

type Post struct {
	ID                 int        `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	CreatedAt          string     `json:"created_at"`
	Image              string     `json:"image"`
	User               *user.User `json:"user,omitempty"`
	Tags               []Tag      `json:"tags"`
	Comments           []Comment  `json:"comments"`
	TransformedImage   string     `json:"transformed_image,omitempty"`
	TransformedImageQR string     `json:"transformed_image_qr,omitempty"`
}

// NewPost is the payload of the create form. Tags is a comma separated list.
type NewPost struct {
	Title       string
	Description string
	Tags        string
	Image       api.File
}

type TransformOptions struct {
	Gravity string
	Height  int
	Width   int
	Radius  string
}

// DefaultTransform crops a square around the face and rounds it fully.
func DefaultTransform() TransformOptions {
	return TransformOptions{
		Gravity: "face",
		Height:  200,
		Width:   200,
		Radius:  "max",
	}
}

func (o TransformOptions) Query() url.Values {
	q := url.Values{}
	if o.Gravity != "" {
		q.Set("gravity", o.Gravity)
	}
	if o.Height > 0 {
		q.Set("height", strconv.Itoa(o.Height))
	}
	if o.Width > 0 {
		q.Set("width", strconv.Itoa(o.Width))
	}
	if o.Radius != "" {
		q.Set("radius", o.Radius)
	}
	return q
}

// ParseTags splits a comma separated tag list, dropping blanks.
func ParseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

type ServicePost interface {
	GetAll(ctx context.Context, own bool) ([]*Post, error)
	GetByID(ctx context.Context, id int) (*Post, error)
	Create(ctx context.Context, p NewPost) error
	Delete(ctx context.Context, id int) (string, error)
	Transform(ctx context.Context, id int, opts TransformOptions) (string, error)
	QR(ctx context.Context, id int) (string, error)
	AddComment(ctx context.Context, postID int, text string) error
}
