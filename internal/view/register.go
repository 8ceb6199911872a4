package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/form"
	"github.com/bricksvaluation/web/internal/httpclient"
	"github.com/bricksvaluation/web/internal/store"
)

// ErrInvalidForm is returned by Submit when client-side validation fails.
var ErrInvalidForm = errors.New("register form is invalid")

var serverFields = map[string]string{
	"username": form.FieldUsername,
	"email":    form.FieldEmail,
	"password": form.FieldPassword,
}

// RegisterView binds the register form to the auth and notification stores.
type RegisterView struct {
	Form *form.RegisterForm

	auth          *store.AuthStore
	notifications *store.NotificationStore
}

// NewRegisterView creates a view with an empty form.
func NewRegisterView(auth *store.AuthStore, notifications *store.NotificationStore) *RegisterView {
	return &RegisterView{Form: &form.RegisterForm{}, auth: auth, notifications: notifications}
}

// Submit validates the form and registers the account. Validation (400) and
// conflict (409) responses are copied onto the form's field errors.
func (v *RegisterView) Submit(ctx context.Context) (*dto.RegisterResponse, error) {
	if !v.Form.Validate() {
		return nil, ErrInvalidForm
	}

	resp, err := v.auth.Register(ctx, v.Form.Request())
	if err != nil {
		v.applyServerErrors(err)
		return nil, err
	}

	if v.notifications != nil {
		v.notifications.Success(T("register.success"))
	}
	return resp, nil
}

func (v *RegisterView) applyServerErrors(err error) {
	var respErr *httpclient.ResponseError
	if !errors.As(err, &respErr) {
		return
	}

	switch respErr.Status() {
	case http.StatusBadRequest:
		var body dto.ValidationErrorBody
		if respErr.Decode(&body) != nil {
			return
		}
		for name, msgs := range body.Errors {
			field, ok := serverFields[name]
			if !ok || len(msgs) == 0 {
				continue
			}
			v.Form.SetFieldError(field, msgs[0])
		}
	case http.StatusConflict:
		var body dto.ConflictErrorBody
		if respErr.Decode(&body) != nil {
			return
		}
		field := serverFields[body.Field]
		if field == "" {
			switch body.Code {
			case dto.CodeUsernameTaken:
				field = form.FieldUsername
			case dto.CodeEmailTaken:
				field = form.FieldEmail
			}
		}
		if field != "" {
			v.Form.SetFieldError(field, body.Detail)
		}
	}
}

// Render writes the field errors, or an ErrorState for errors that do not
// belong to a field.
func (v *RegisterView) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n", T("register.title")); err != nil {
		return err
	}

	if v.Form.HasErrors() {
		return RenderFieldErrors(w, v.Form.FieldErrors())
	}

	if st := v.auth.State(); st.Error != "" {
		return NewErrorState(st.Error).Render(w)
	}
	return nil
}

// RenderFieldErrors writes one "field: message" line per error, sorted by
// field name.
func RenderFieldErrors(w io.Writer, errs map[string]string) error {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", field, T(errs[field])); err != nil {
			return err
		}
	}
	return nil
}
