package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"photoshare/pkg/api"
	"photoshare/pkg/handlers"
	"photoshare/pkg/notify"
	"photoshare/pkg/post"
	"photoshare/pkg/session"
	"photoshare/pkg/user"
)

func multipartRequest(t *testing.T, target string, fields map[string]string, fileField, fileName string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("\x89PNG fake image"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// nextPage renders whatever notifications the previous response left behind.
func nextPage(t *testing.T, rd *handlers.Renderer, flasher *notify.Flasher, prev *httptest.ResponseRecorder) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range prev.Result().Cookies() {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	flasher.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rd.Error(w, r, http.StatusOK, "next")
	})).ServeHTTP(rr, req)
	return rr.Body.String()
}

func withPostID(req *http.Request, id string) *http.Request {
	return mux.SetURLVars(req, map[string]string{"post_id": id})
}

func TestHome(t *testing.T) {
	rd, flasher := newRenderer(t)

	me := &user.User{ID: 1, Username: "alice", Role: "admin", Avatar: "https://cdn/a.png"}
	posts := []*post.Post{
		{ID: 7, Title: "Sunset", Description: "At the sea", Image: "https://cdn/7.png", Tags: []post.Tag{{ID: 1, Name: "sea"}}},
	}

	t.Run("all posts", func(t *testing.T) {
		users, ps := new(mockUserService), new(mockPostService)
		users.On("Me").Return(me, nil)
		ps.On("GetAll", false).Return(posts, nil)
		handler := handlers.NewFeedHandler(ps, users, session.NewCookieStore(false), rd, logger)

		rr := do(flasher, handler.Home, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "Welcome back <b>alice</b>")
		assert.Contains(t, body, `href="/posts/7"`)
		assert.Contains(t, body, `<span class="tag">sea</span>`)
		users.AssertExpectations(t)
		ps.AssertExpectations(t)
	})

	t.Run("own posts empty", func(t *testing.T) {
		users, ps := new(mockUserService), new(mockPostService)
		users.On("Me").Return(me, nil)
		ps.On("GetAll", true).Return([]*post.Post{}, nil)
		handler := handlers.NewFeedHandler(ps, users, session.NewCookieStore(false), rd, logger)

		rr := do(flasher, handler.Home, httptest.NewRequest(http.MethodGet, "/?view=own", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "No data")
		ps.AssertExpectations(t)
	})

	t.Run("feed failure still renders", func(t *testing.T) {
		users, ps := new(mockUserService), new(mockPostService)
		users.On("Me").Return(me, nil)
		ps.On("GetAll", false).Return(nil, &api.APIError{StatusCode: http.StatusInternalServerError, Detail: api.FallbackMessage})
		handler := handlers.NewFeedHandler(ps, users, session.NewCookieStore(false), rd, logger)

		rr := do(flasher, handler.Home, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "No data")
	})

	t.Run("expired session", func(t *testing.T) {
		users, ps := new(mockUserService), new(mockPostService)
		users.On("Me").Return(nil, &api.APIError{StatusCode: http.StatusUnauthorized, Detail: "Could not validate credentials"})
		handler := handlers.NewFeedHandler(ps, users, session.NewCookieStore(false), rd, logger)

		rr := do(flasher, handler.Home, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/login", rr.Header().Get("Location"))
		c := cookieNamed(rr, session.AccessCookie)
		require.NotNil(t, c)
		assert.Empty(t, c.Value)
		ps.AssertNotCalled(t, "GetAll", mock.Anything)
	})
}

func TestCreatePost(t *testing.T) {
	rd, flasher := newRenderer(t)

	tests := []struct {
		name         string
		fields       map[string]string
		fileName     string
		mockSetup    func(m *mockPostService)
		expectedNext string
	}{
		{
			name:     "Successful creation",
			fields:   map[string]string{"title": "Sunset", "description": "At the sea", "tags": "sea, sky"},
			fileName: "sunset.png",
			mockSetup: func(m *mockPostService) {
				m.On("Create", "Sunset", "At the sea", "sea, sky", "sunset.png").Return(nil)
			},
			expectedNext: "Post created successfully",
		},
		{
			name:         "Missing title",
			fields:       map[string]string{"description": "At the sea"},
			fileName:     "sunset.png",
			mockSetup:    func(m *mockPostService) {},
			expectedNext: "Please input title!",
		},
		{
			name:         "Missing image",
			fields:       map[string]string{"title": "Sunset", "description": "At the sea"},
			mockSetup:    func(m *mockPostService) {},
			expectedNext: "Please attach an image!",
		},
		{
			name:     "Backend failure",
			fields:   map[string]string{"title": "Sunset", "description": "At the sea"},
			fileName: "sunset.png",
			mockSetup: func(m *mockPostService) {
				m.On("Create", "Sunset", "At the sea", "", "sunset.png").
					Return(&api.APIError{StatusCode: http.StatusBadRequest, Detail: "Bad image"})
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ps := new(mockPostService)
			test.mockSetup(ps)
			handler := handlers.NewFeedHandler(ps, new(mockUserService), session.NewCookieStore(false), rd, logger)

			fileField := ""
			if test.fileName != "" {
				fileField = "image"
			}
			rr := do(flasher, handler.CreatePost, multipartRequest(t, "/posts", test.fields, fileField, test.fileName))

			assert.Equal(t, http.StatusSeeOther, rr.Code)
			assert.Equal(t, "/", rr.Header().Get("Location"))
			next := nextPage(t, rd, flasher, rr)
			if test.expectedNext != "" {
				assert.Contains(t, next, test.expectedNext)
			} else {
				assert.NotContains(t, next, "Post created successfully")
			}
			ps.AssertExpectations(t)
		})
	}
}

func TestDeletePost(t *testing.T) {
	rd, flasher := newRenderer(t)

	ps := new(mockPostService)
	ps.On("Delete", 7).Return("Success", nil)
	handler := handlers.NewFeedHandler(ps, new(mockUserService), session.NewCookieStore(false), rd, logger)

	rr := do(flasher, handler.DeletePost, withPostID(httptest.NewRequest(http.MethodPost, "/posts/7/delete", nil), "7"))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, nextPage(t, rd, flasher, rr), "Success")

	rr = do(flasher, handler.DeletePost, withPostID(httptest.NewRequest(http.MethodPost, "/posts/abc/delete", nil), "abc"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid post id")

	ps.AssertExpectations(t)
}

func TestUpdateAvatar(t *testing.T) {
	rd, flasher := newRenderer(t)

	users := new(mockUserService)
	users.On("UpdateAvatar", "file", "me.png").Return(&user.User{ID: 1, Username: "alice"}, nil)
	handler := handlers.NewFeedHandler(new(mockPostService), users, session.NewCookieStore(false), rd, logger)

	rr := do(flasher, handler.UpdateAvatar, multipartRequest(t, "/avatar", nil, "file", "me.png"))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, nextPage(t, rd, flasher, rr), "Avatar updated successfully")

	rr = do(flasher, handler.UpdateAvatar, multipartRequest(t, "/avatar", nil, "", ""))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, nextPage(t, rd, flasher, rr), "Please attach an image!")

	users.AssertExpectations(t)
}

func TestViewPost(t *testing.T) {
	rd, flasher := newRenderer(t)

	p := &post.Post{
		ID:          7,
		Title:       "Sunset",
		Description: "At the sea",
		Image:       "https://cdn/7.png",
		Comments: []post.Comment{
			{ID: 1, Content: "Lovely", PostID: 7, User: &user.User{Username: "bob"}},
		},
	}

	ps := new(mockPostService)
	ps.On("GetByID", 7).Return(p, nil)
	ps.On("GetByID", 8).Return(nil, &api.APIError{StatusCode: http.StatusNotFound, Detail: "Not found"})
	ps.On("GetByID", 9).Return(nil, &api.APIError{StatusCode: http.StatusServiceUnavailable, Detail: api.FallbackMessage})
	handler := handlers.NewPostHandler(ps, session.NewCookieStore(false), rd, logger)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
		expectedBody   []string
	}{
		{name: "found", id: "7", expectedStatus: http.StatusOK,
			expectedBody: []string{"<h1>Sunset</h1>", "Lovely", "bob", `action="/posts/7/comments"`}},
		{name: "not found", id: "8", expectedStatus: http.StatusNotFound, expectedBody: []string{"Post not found"}},
		{name: "backend down", id: "9", expectedStatus: http.StatusBadGateway, expectedBody: []string{"Post is unavailable"}},
		{name: "bad id", id: "-1", expectedStatus: http.StatusBadRequest, expectedBody: []string{"Invalid post id"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := withPostID(httptest.NewRequest(http.MethodGet, "/posts/"+test.id, nil), test.id)
			rr := do(flasher, handler.View, req)

			assert.Equal(t, test.expectedStatus, rr.Code)
			for _, s := range test.expectedBody {
				assert.Contains(t, rr.Body.String(), s)
			}
		})
	}
}

func TestTransformAndQR(t *testing.T) {
	rd, flasher := newRenderer(t)

	ps := new(mockPostService)
	ps.On("GetByID", 7).Return(&post.Post{ID: 7, Title: "Sunset"}, nil)
	ps.On("Transform", 7, post.DefaultTransform()).Return("https://cdn/7-face.png", nil)
	ps.On("QR", 7).Return("https://cdn/7-qr.png", nil)
	handler := handlers.NewPostHandler(ps, session.NewCookieStore(false), rd, logger)

	rr := do(flasher, handler.Transform, withPostID(httptest.NewRequest(http.MethodPost, "/posts/7/transform", nil), "7"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `src="https://cdn/7-face.png"`)
	assert.Contains(t, rr.Body.String(), `action="/posts/7/qr"`)

	rr = do(flasher, handler.QR, withPostID(httptest.NewRequest(http.MethodPost, "/posts/7/qr", nil), "7"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `src="https://cdn/7-qr.png"`)

	ps.AssertExpectations(t)
}

func TestAddComment(t *testing.T) {
	rd, flasher := newRenderer(t)

	ps := new(mockPostService)
	ps.On("AddComment", 7, "Nice shot").Return(nil)
	handler := handlers.NewPostHandler(ps, session.NewCookieStore(false), rd, logger)

	req := withPostID(formRequest("/posts/7/comments", url.Values{"comment": {"  Nice shot "}}), "7")
	rr := do(flasher, handler.AddComment, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/posts/7", rr.Header().Get("Location"))
	assert.Contains(t, nextPage(t, rd, flasher, rr), "Comment added")

	req = withPostID(formRequest("/posts/7/comments", url.Values{"comment": {""}}), "7")
	rr = do(flasher, handler.AddComment, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, nextPage(t, rd, flasher, rr), "Please input comment!")

	ps.AssertExpectations(t)
}
