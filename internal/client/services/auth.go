package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/slidesmith/slidesmith/internal/client/client"
	"github.com/slidesmith/slidesmith/internal/client/models"
	"github.com/slidesmith/slidesmith/internal/common"
	"github.com/slidesmith/slidesmith/internal/logging"
)

// Messages shown by the auth form.
const (
	MsgInvalidEmail     = "Please enter a valid email address."
	MsgShortPassword    = "Password must be at least 6 characters"
	MsgNameRequired     = "Name is required"
	MsgGenericFailure   = "Something went wrong. Please try again."
	MsgRegisterComplete = "Account created. Please log in."
)

// SessionWriter is the part of the session store the auth flow writes to.
type SessionWriter interface {
	Save(ctx context.Context, token string, user models.User) error
	Clear(ctx context.Context) error
	Token() string
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create an account; the session is not touched.
//   - Login: exchange credentials for a token, fetch the profile with it and
//     persist both in one transaction. Nothing is stored if any step fails.
//   - Logout: clear the stored session.
//   - Whoami: fetch the profile of the stored session. A 401 clears the
//     session and yields common.ErrSessionExpired.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, error)
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) (models.User, error)
}

type authService struct {
	client  client.Client
	session SessionWriter
	log     logging.Logger
}

func NewAuthService(c client.Client, s SessionWriter, log logging.Logger) AuthService {
	return &authService{client: c, session: s, log: log.With("component", "auth")}
}

func (a *authService) Register(ctx context.Context, email, password, name string) (models.User, error) {
	u, err := a.client.Register(ctx, models.RegisterRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
		Name:     strings.TrimSpace(name),
	})
	if err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}
	a.log.Info(ctx, "account registered", "user_id", u.ID.String())
	return u, nil
}

func (a *authService) Login(ctx context.Context, email, password string) (models.User, error) {
	tok, err := a.client.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return models.User{}, fmt.Errorf("login: %w", err)
	}

	u, err := a.client.CurrentUser(ctx, tok.AccessToken)
	if err != nil {
		return models.User{}, fmt.Errorf("fetch profile: %w", err)
	}

	if err := a.session.Save(ctx, tok.AccessToken, u); err != nil {
		return models.User{}, err
	}
	a.log.Info(ctx, "logged in", "user_id", u.ID.String())
	return u, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.session.Clear(ctx); err != nil {
		return err
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) Whoami(ctx context.Context) (models.User, error) {
	token := a.session.Token()
	if token == "" {
		return models.User{}, common.ErrNoSession
	}
	u, err := a.client.CurrentUser(ctx, token)
	if errors.Is(err, client.ErrUnauthorized) {
		if cerr := a.session.Clear(ctx); cerr != nil {
			a.log.Warn(ctx, "clear expired session failed", "error", cerr)
		}
		return models.User{}, common.ErrSessionExpired
	}
	if err != nil {
		return models.User{}, fmt.Errorf("fetch profile: %w", err)
	}
	return u, nil
}

// ErrorMessage turns an auth flow error into the text shown to the user:
// the validation message, the backend detail, or a generic fallback.
func ErrorMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	if d := client.DetailOf(err); d != "" {
		return d
	}
	return MsgGenericFailure
}

// Mode selects what the auth form submits.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

type loginInput struct {
	Email    string `json:"email" validate:"required,contains=@"`
	Password string `json:"password" validate:"min=6"`
}

type registerInput struct {
	Email    string `json:"email" validate:"required,contains=@"`
	Password string `json:"password" validate:"min=6"`
	Name     string `json:"name" validate:"required"`
}

var formMessages = map[string]string{
	"email":    MsgInvalidEmail,
	"password": MsgShortPassword,
	"name":     MsgNameRequired,
}

// AuthForm is the state of the login/register screen.
type AuthForm struct {
	Mode     Mode
	Email    string
	Password string
	Name     string
	// Message is the last error or notice to show under the form.
	Message string

	svc     AuthService
	onLogin func(models.User)
}

// NewAuthForm returns a form in login mode. onLogin, when set, runs after a
// successful login once the session has been stored.
func NewAuthForm(svc AuthService, onLogin func(models.User)) *AuthForm {
	return &AuthForm{svc: svc, onLogin: onLogin}
}

// Toggle switches between login and register. Field values are kept.
func (f *AuthForm) Toggle() {
	if f.Mode == ModeLogin {
		f.Mode = ModeRegister
	} else {
		f.Mode = ModeLogin
	}
	f.Message = ""
}

// Validate checks the fields for the current mode.
func (f *AuthForm) Validate() error {
	var in any = loginInput{Email: strings.TrimSpace(f.Email), Password: f.Password}
	if f.Mode == ModeRegister {
		in = registerInput{Email: strings.TrimSpace(f.Email), Password: f.Password, Name: strings.TrimSpace(f.Name)}
	}

	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		field := errs[0].Field()
		return &ValidationError{Field: field, Message: formMessages[field]}
	}
	return err
}

// Submit validates and runs the flow for the current mode. After a
// successful registration the form switches to login, clears the password
// and keeps the email. After a successful login it returns the user.
func (f *AuthForm) Submit(ctx context.Context) (*models.User, error) {
	f.Message = ""
	if err := f.Validate(); err != nil {
		f.Message = ErrorMessage(err)
		return nil, err
	}

	if f.Mode == ModeRegister {
		if _, err := f.svc.Register(ctx, f.Email, f.Password, f.Name); err != nil {
			f.Message = ErrorMessage(err)
			return nil, err
		}
		f.Mode = ModeLogin
		f.Password = ""
		f.Message = MsgRegisterComplete
		return nil, nil
	}

	u, err := f.svc.Login(ctx, f.Email, f.Password)
	if err != nil {
		f.Message = ErrorMessage(err)
		return nil, err
	}
	f.Password = ""
	if f.onLogin != nil {
		f.onLogin(u)
	}
	return &u, nil
}
