package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"photoshare/pkg/api"
	"photoshare/pkg/middleware"
	"photoshare/pkg/notify"
	"photoshare/pkg/post"
	"photoshare/pkg/session"
	"photoshare/pkg/user"
)

const (
	msgPostCreated   = "Post created successfully"
	msgAvatarUpdated = "Avatar updated successfully"
)

type FeedHandler struct {
	Posts    post.ServicePost
	Users    user.ServiceInterface
	Sessions session.Store
	Render   *Renderer
	Logger   *slog.Logger
}

func NewFeedHandler(posts post.ServicePost, users user.ServiceInterface, sessions session.Store, render *Renderer, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{
		Posts:    posts,
		Users:    users,
		Sessions: sessions,
		Render:   render,
		Logger:   logger,
	}
}

type homePage struct {
	User  *user.User
	Posts []*post.Post
	Own   bool
}

func (h *FeedHandler) Home(w http.ResponseWriter, r *http.Request) {
	own := r.URL.Query().Get("view") == "own"

	me, err := h.Users.Me(r.Context())
	if err != nil {
		if expireSession(w, r, h.Sessions, h.Render, err) {
			return
		}
		h.Logger.Error("profile", "error", err)
	}

	posts, err := h.Posts.GetAll(r.Context(), own)
	if err != nil {
		if expireSession(w, r, h.Sessions, h.Render, err) {
			return
		}
		h.Logger.Error("feed", "error", err)
	}

	h.Render.HTML(w, r, http.StatusOK, "home", "Home", homePage{User: me, Posts: posts, Own: own})
}

func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		notify.Error(r.Context(), "Please attach an image!")
		h.Render.Redirect(w, r, middleware.HomePath)
		return
	}

	form := PostForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Tags:        r.FormValue("tags"),
	}
	if msg := checkForm(form); msg != "" {
		notify.Error(r.Context(), msg)
		h.Render.Redirect(w, r, middleware.HomePath)
		return
	}

	image, file, err := formFile(r, "image")
	if err != nil {
		notify.Error(r.Context(), "Please attach an image!")
		h.Render.Redirect(w, r, middleware.HomePath)
		return
	}
	defer file.Close()

	err = h.Posts.Create(r.Context(), post.NewPost{
		Title:       form.Title,
		Description: form.Description,
		Tags:        form.Tags,
		Image:       image,
	})
	if err != nil {
		h.Logger.Error("create post", "error", err)
	} else {
		h.Logger.Info("new post created", "title", form.Title)
		notify.Success(r.Context(), msgPostCreated)
	}
	h.Render.Redirect(w, r, middleware.HomePath)
}

func (h *FeedHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.Render.Error(w, r, http.StatusBadRequest, "Invalid post id")
		return
	}

	msg, err := h.Posts.Delete(r.Context(), id)
	if err != nil {
		h.Logger.Error("delete post", "error", err, muxVarPostID, id)
	} else {
		h.Logger.Info("post delete", muxVarPostID, id)
		notify.Success(r.Context(), msg)
	}
	h.Render.Redirect(w, r, middleware.HomePath)
}

func (h *FeedHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		notify.Error(r.Context(), "Please attach an image!")
		h.Render.Redirect(w, r, middleware.HomePath)
		return
	}

	avatar, file, err := formFile(r, "file")
	if err != nil {
		notify.Error(r.Context(), "Please attach an image!")
		h.Render.Redirect(w, r, middleware.HomePath)
		return
	}
	defer file.Close()

	if _, err := h.Users.UpdateAvatar(r.Context(), avatar); err != nil {
		h.Logger.Error("update avatar", "error", err)
	} else {
		notify.Success(r.Context(), msgAvatarUpdated)
	}
	h.Render.Redirect(w, r, middleware.HomePath)
}

// expireSession drops a session the backend no longer accepts and sends the
// user to the login page.
func expireSession(w http.ResponseWriter, r *http.Request, sessions session.Store, render *Renderer, err error) bool {
	if api.StatusCode(err) != http.StatusUnauthorized {
		return false
	}
	sessions.Clear(w)
	render.Redirect(w, r, middleware.LoginPath)
	return true
}
