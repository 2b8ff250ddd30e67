package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"photoshare/pkg/api"
	"photoshare/pkg/middleware"
	"photoshare/pkg/notify"
	"photoshare/pkg/session"
	"photoshare/pkg/user"
)

type AuthHandler struct {
	Service  user.ServiceInterface
	Sessions session.Store
	Render   *Renderer
	Logger   *slog.Logger
}

func NewAuthHandler(service user.ServiceInterface, sessions session.Store, render *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		Service:  service,
		Sessions: sessions,
		Render:   render,
		Logger:   logger,
	}
}

type confirmPage struct {
	Confirmed bool
	Resent    bool
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Render.HTML(w, r, http.StatusOK, "login", "Login", LoginForm{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := LoginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	if msg := checkForm(form); msg != "" {
		notify.Error(r.Context(), msg)
		h.Render.HTML(w, r, http.StatusBadRequest, "login", "Login", LoginForm{Username: form.Username})
		return
	}

	tokens, err := h.Service.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		h.Logger.Error("login", "error", err, "user", form.Username)
		if errors.Is(err, user.ErrNoToken) {
			notify.Error(r.Context(), api.FallbackMessage)
		}
		h.Render.HTML(w, r, statusFor(err), "login", "Login", LoginForm{Username: form.Username})
		return
	}

	if _, err := h.Sessions.Set(w, tokens.AccessToken, tokens.RefreshToken); err != nil {
		h.Logger.Warn("login", "error", err, "user", form.Username)
		notify.Error(r.Context(), api.FallbackMessage)
		h.Render.Redirect(w, r, middleware.LoginPath)
		return
	}

	h.Logger.Info("login", "user", form.Username)
	h.Render.Redirect(w, r, middleware.HomePath)
}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.Render.HTML(w, r, http.StatusOK, "signup", "Sign up", SignupForm{})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	form := SignupForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	keep := SignupForm{Username: form.Username, Email: form.Email}

	if msg := checkForm(form); msg != "" {
		notify.Error(r.Context(), msg)
		h.Render.HTML(w, r, http.StatusBadRequest, "signup", "Sign up", keep)
		return
	}

	detail, err := h.Service.Signup(r.Context(), form.Username, form.Email, form.Password)
	if err != nil {
		h.Logger.Error("signup", "error", err, "user", form.Username)
		h.Render.HTML(w, r, statusFor(err), "signup", "Sign up", keep)
		return
	}

	h.Logger.Info("signup", "user", form.Username)
	notify.Success(r.Context(), detail)
	h.Render.HTML(w, r, http.StatusOK, "signup", "Sign up", SignupForm{})
}

// ConfirmEmail confirms the address behind the token of the mail link.
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.Render.HTML(w, r, http.StatusBadRequest, "confirm_email", "Email Confirmation", confirmPage{})
		return
	}

	if _, err := h.Service.ConfirmEmail(r.Context(), token); err != nil {
		h.Logger.Error("confirm email", "error", err)
		h.Render.HTML(w, r, statusFor(err), "confirm_email", "Email Confirmation", confirmPage{})
		return
	}

	h.Render.HTML(w, r, http.StatusOK, "confirm_email", "Email Confirmation", confirmPage{Confirmed: true})
}

// ResendConfirmation asks the backend to mail a new confirmation link.
func (h *AuthHandler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
	form := EmailForm{Email: strings.TrimSpace(r.PostFormValue("email"))}
	if msg := checkForm(form); msg != "" {
		notify.Error(r.Context(), msg)
		h.Render.HTML(w, r, http.StatusBadRequest, "confirm_email", "Email Confirmation", confirmPage{})
		return
	}

	msg, err := h.Service.RequestEmail(r.Context(), form.Email)
	if err != nil {
		h.Logger.Error("request email", "error", err)
		h.Render.HTML(w, r, statusFor(err), "confirm_email", "Email Confirmation", confirmPage{})
		return
	}

	notify.Success(r.Context(), msg)
	h.Render.HTML(w, r, http.StatusOK, "confirm_email", "Email Confirmation", confirmPage{Resent: true})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	h.Render.Redirect(w, r, middleware.LoginPath)
}
