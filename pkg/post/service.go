package post

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"photoshare/pkg/api"
)

const msgDeleted = "Success"

var ErrNoImage = errors.New("backend returned no image")

type PostService struct {
	API api.Backend
}

func NewService(backend api.Backend) *PostService {
	return &PostService{API: backend}
}

type imageResponse struct {
	Image string `json:"image"`
}

type commentRequest struct {
	Comment string `json:"comment"`
	ImageID int    `json:"image_id"`
}

func (s *PostService) GetAll(ctx context.Context, own bool) ([]*Post, error) {
	var posts []*Post
	query := url.Values{"is_own": {strconv.FormatBool(own)}}
	if err := s.API.Get(ctx, "posts", query, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostService) GetByID(ctx context.Context, id int) (*Post, error) {
	var p Post
	if err := s.API.Get(ctx, postPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostService) Create(ctx context.Context, p NewPost) error {
	query := url.Values{}
	query.Set("title", p.Title)
	query.Set("description", p.Description)

	image := p.Image
	image.Field = "image"

	fields := map[string]string{"tags": strings.Join(ParseTags(p.Tags), ",")}
	return s.API.Multipart(ctx, http.MethodPost, "posts/", query, fields, []api.File{image}, nil)
}

func (s *PostService) Delete(ctx context.Context, id int) (string, error) {
	var resp struct {
		Detail string `json:"detail"`
	}
	if err := s.API.Delete(ctx, postPath(id), &resp); err != nil {
		return "", err
	}
	if resp.Detail == "" {
		return msgDeleted, nil
	}
	return resp.Detail, nil
}

func (s *PostService) Transform(ctx context.Context, id int, opts TransformOptions) (string, error) {
	var resp imageResponse
	if err := s.API.PostJSON(ctx, postPath(id)+"/transform", opts.Query(), struct{}{}, &resp); err != nil {
		return "", err
	}
	if resp.Image == "" {
		return "", ErrNoImage
	}
	return resp.Image, nil
}

func (s *PostService) QR(ctx context.Context, id int) (string, error) {
	var resp imageResponse
	if err := s.API.PostJSON(ctx, postPath(id)+"/qr", nil, struct{}{}, &resp); err != nil {
		return "", err
	}
	if resp.Image == "" {
		return "", ErrNoImage
	}
	return resp.Image, nil
}

func (s *PostService) AddComment(ctx context.Context, postID int, text string) error {
	return s.API.PostJSON(ctx, "comments/", nil, commentRequest{Comment: text, ImageID: postID}, nil)
}

func postPath(id int) string {
	return fmt.Sprintf("posts/%d", id)
}
