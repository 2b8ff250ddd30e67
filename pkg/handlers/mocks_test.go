package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"photoshare/pkg/api"
	"photoshare/pkg/handlers"
	"photoshare/pkg/notify"
	"photoshare/pkg/post"
	"photoshare/pkg/user"
	"photoshare/web"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Login(ctx context.Context, username, password string) (*user.TokenPair, error) {
	args := m.Called(username, password)
	tokens, _ := args.Get(0).(*user.TokenPair)
	return tokens, args.Error(1)
}

func (m *mockUserService) Signup(ctx context.Context, username, email, password string) (string, error) {
	args := m.Called(username, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) ConfirmEmail(ctx context.Context, token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) RequestEmail(ctx context.Context, email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) Me(ctx context.Context) (*user.User, error) {
	args := m.Called()
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserService) UpdateAvatar(ctx context.Context, avatar api.File) (*user.User, error) {
	args := m.Called(avatar.Field, avatar.Name)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

type mockPostService struct {
	mock.Mock
}

func (m *mockPostService) GetAll(ctx context.Context, own bool) ([]*post.Post, error) {
	args := m.Called(own)
	posts, _ := args.Get(0).([]*post.Post)
	return posts, args.Error(1)
}

func (m *mockPostService) GetByID(ctx context.Context, id int) (*post.Post, error) {
	args := m.Called(id)
	p, _ := args.Get(0).(*post.Post)
	return p, args.Error(1)
}

func (m *mockPostService) Create(ctx context.Context, p post.NewPost) error {
	return m.Called(p.Title, p.Description, p.Tags, p.Image.Name).Error(0)
}

func (m *mockPostService) Delete(ctx context.Context, id int) (string, error) {
	args := m.Called(id)
	return args.String(0), args.Error(1)
}

func (m *mockPostService) Transform(ctx context.Context, id int, opts post.TransformOptions) (string, error) {
	args := m.Called(id, opts)
	return args.String(0), args.Error(1)
}

func (m *mockPostService) QR(ctx context.Context, id int) (string, error) {
	args := m.Called(id)
	return args.String(0), args.Error(1)
}

func (m *mockPostService) AddComment(ctx context.Context, postID int, text string) error {
	return m.Called(postID, text).Error(0)
}

var (
	flashKey = []byte("0123456789abcdef0123456789abcdef")
	logger   = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
)

func newRenderer(t *testing.T) (*handlers.Renderer, *notify.Flasher) {
	t.Helper()
	flasher := notify.NewCookieFlasher(flashKey, false)
	rd, err := handlers.NewRenderer(web.FS, flasher, logger)
	require.NoError(t, err)
	return rd, flasher
}

// do runs a handler the way the router would: with a notification queue on the context.
func do(flasher *notify.Flasher, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	flasher.Middleware(h).ServeHTTP(rr, req)
	return rr
}

func accessToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "alice@example.com",
		"scope": "access_token",
		"exp":   exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func cookieNamed(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
