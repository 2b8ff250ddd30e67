package routing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"photoshare/pkg/api"
	"photoshare/pkg/handlers"
	"photoshare/pkg/middleware"
	"photoshare/pkg/notify"
	"photoshare/pkg/post"
	"photoshare/pkg/session"
	"photoshare/pkg/user"
	"photoshare/web"
)

const (
	postID          = "/{post_id:[0-9]+}"
	shutdownTimeout = 10 * time.Second
)

// InitRoutes registers the pages on r. Every page, and the fallback pages,
// runs behind the route guard.
func InitRoutes(r *mux.Router, backend api.Backend, sessions session.Store, flasher *notify.Flasher, logger *slog.Logger) error {
	render, err := handlers.NewRenderer(web.FS, flasher, logger)
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	userService := user.NewService(backend)
	postService := post.NewService(backend)

	authHandler := handlers.NewAuthHandler(userService, sessions, render, logger)
	feedHandler := handlers.NewFeedHandler(postService, userService, sessions, render, logger)
	postHandler := handlers.NewPostHandler(postService, sessions, render, logger)

	chain := []mux.MiddlewareFunc{
		middleware.Panic(logger),
		middleware.AccessLog(logger),
		flasher.Middleware,
		middleware.Session(sessions),
		middleware.Guard(sessions),
	}

	/* -+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+ */

	pages := r.NewRoute().Subrouter()
	pages.Use(chain...)

	/* auth pages */
	pages.HandleFunc("/login", authHandler.LoginPage).Methods("GET").Name("login")
	pages.HandleFunc("/login", authHandler.Login).Methods("POST")
	pages.HandleFunc("/signup", authHandler.SignupPage).Methods("GET").Name("signup")
	pages.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	pages.HandleFunc("/confirm-email", authHandler.ConfirmEmail).Methods("GET").Name("confirm-email")
	pages.HandleFunc("/confirm-email", authHandler.ResendConfirmation).Methods("POST")
	pages.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	/* feed */
	pages.HandleFunc("/", feedHandler.Home).Methods("GET").Name("home")
	pages.HandleFunc("/posts", feedHandler.CreatePost).Methods("POST")
	pages.HandleFunc("/avatar", feedHandler.UpdateAvatar).Methods("POST")
	pages.HandleFunc("/posts"+postID+"/delete", feedHandler.DeletePost).Methods("POST")

	/* post page */
	pages.HandleFunc("/posts"+postID, postHandler.View).Methods("GET").Name("post")
	pages.HandleFunc("/posts"+postID+"/transform", postHandler.Transform).Methods("POST")
	pages.HandleFunc("/posts"+postID+"/qr", postHandler.QR).Methods("POST")
	pages.HandleFunc("/posts"+postID+"/comments", postHandler.AddComment).Methods("POST")

	ServeFallback(r, render, chain)
	return nil
}

func ServeStaticFiles(r *mux.Router) error {
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	return nil
}

// ServeFallback answers unmatched paths and known paths requested with the
// wrong method. mux runs middlewares only for matched routes, so the chain is
// applied by hand.
func ServeFallback(r *mux.Router, render *handlers.Renderer, chain []mux.MiddlewareFunc) {
	r.NotFoundHandler = wrap(http.HandlerFunc(render.NotFound), chain)
	r.MethodNotAllowedHandler = wrap(http.HandlerFunc(render.MethodNotAllowed), chain)
}

func wrap(h http.Handler, chain []mux.MiddlewareFunc) http.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

// StartServer serves h on addr until ctx is cancelled, then shuts down gracefully.
func StartServer(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("the server is running", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
