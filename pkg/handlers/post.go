package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"photoshare/pkg/api"
	"photoshare/pkg/notify"
	"photoshare/pkg/post"
	"photoshare/pkg/session"
)

const msgCommentAdded = "Comment added"

type PostHandler struct {
	Service  post.ServicePost
	Sessions session.Store
	Render   *Renderer
	Logger   *slog.Logger
}

func NewPostHandler(service post.ServicePost, sessions session.Store, render *Renderer, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		Service:  service,
		Sessions: sessions,
		Render:   render,
		Logger:   logger,
	}
}

type postPage struct {
	Post *post.Post
}

func (h *PostHandler) View(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	h.Render.HTML(w, r, http.StatusOK, "post", p.Title, postPage{Post: p})
}

// Transform crops the post image and shows the result next to the post.
func (h *PostHandler) Transform(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}

	img, err := h.Service.Transform(r.Context(), p.ID, post.DefaultTransform())
	if err != nil {
		h.Logger.Error("transform", "error", err, muxVarPostID, p.ID)
	} else {
		p.TransformedImage = img
	}
	h.Render.HTML(w, r, http.StatusOK, "post", p.Title, postPage{Post: p})
}

func (h *PostHandler) QR(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}

	img, err := h.Service.QR(r.Context(), p.ID)
	if err != nil {
		h.Logger.Error("qr", "error", err, muxVarPostID, p.ID)
	} else {
		p.TransformedImageQR = img
	}
	h.Render.HTML(w, r, http.StatusOK, "post", p.Title, postPage{Post: p})
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.Render.Error(w, r, http.StatusBadRequest, "Invalid post id")
		return
	}
	back := fmt.Sprintf("/posts/%d", id)

	form := CommentForm{Comment: strings.TrimSpace(r.PostFormValue("comment"))}
	if msg := checkForm(form); msg != "" {
		notify.Error(r.Context(), msg)
		h.Render.Redirect(w, r, back)
		return
	}

	if err := h.Service.AddComment(r.Context(), id, form.Comment); err != nil {
		h.Logger.Error("AddComment", "error", err, muxVarPostID, id)
	} else {
		h.Logger.Info("new comm created", muxVarPostID, id)
		notify.Success(r.Context(), msgCommentAdded)
	}
	h.Render.Redirect(w, r, back)
}

func (h *PostHandler) load(w http.ResponseWriter, r *http.Request) (*post.Post, bool) {
	id, ok := postID(r)
	if !ok {
		h.Render.Error(w, r, http.StatusBadRequest, "Invalid post id")
		return nil, false
	}

	p, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		if expireSession(w, r, h.Sessions, h.Render, err) {
			return nil, false
		}
		h.Logger.Error("get post", "error", err, muxVarPostID, id)
		if api.StatusCode(err) == http.StatusNotFound {
			h.Render.Error(w, r, http.StatusNotFound, "Post not found")
		} else {
			h.Render.Error(w, r, statusFor(err), "Post is unavailable")
		}
		return nil, false
	}
	return p, true
}
