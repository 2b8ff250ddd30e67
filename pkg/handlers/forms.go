package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"photoshare/pkg/api"
)

const (
	maxUploadSize = 32 << 20
	muxVarPostID  = "post_id"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type SignupForm struct {
	Username string `validate:"required,min=5,max=16"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=10"`
}

type EmailForm struct {
	Email string `validate:"required,email"`
}

type PostForm struct {
	Title       string `validate:"required,max=255"`
	Description string `validate:"required,max=255"`
	Tags        string
}

type CommentForm struct {
	Comment string `validate:"required,max=255"`
}

var formMessages = map[string]string{
	"Username.required":    "Please input your username!",
	"Username.min":         "Username must be at least 5 characters!",
	"Username.max":         "Username must be at most 16 characters!",
	"Email.required":       "Please input your email!",
	"Email.email":          "Please input a valid email!",
	"Password.required":    "Please input your password!",
	"Password.min":         "Password must be at least 6 characters!",
	"Password.max":         "Password must be at most 10 characters!",
	"Title.required":       "Please input title!",
	"Description.required": "Please input description!",
	"Comment.required":     "Please input comment!",
}

// checkForm returns the message for the first failed rule, or "" when the
// form is valid.
func checkForm(form any) string {
	err := validate.Struct(form)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return api.FallbackMessage
	}
	fe := verrs[0]
	if msg, ok := formMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// formFile returns the uploaded file of a multipart field. The caller closes it.
func formFile(r *http.Request, field string) (api.File, multipart.File, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return api.File{}, nil, err
	}
	return api.File{
		Field:       field,
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}, file, nil
}

func postID(r *http.Request) (int, bool) {
	raw, ok := mux.Vars(r)[muxVarPostID]
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// statusFor maps a failed backend call onto the status of the rendered page.
func statusFor(err error) int {
	code := api.StatusCode(err)
	switch {
	case code >= http.StatusInternalServerError, code == 0:
		return http.StatusBadGateway
	default:
		return code
	}
}
