package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/auth"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/repository"
	"github.com/junaidrashid-git/storefront/validation"
	"go.uber.org/zap"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgEmailTaken         = "User with this email already exists"
	msgUsernameTaken      = "Username already taken"
	msgUserNotFound       = "User not found"

	providerCredentials = "credentials"
	providerGoogle      = "google"
)

type RegisterInput struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3,max=30,username"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var registerMessages = validation.Messages{
	"firstName":                "First name is required",
	"lastName":                 "Last name is required",
	"email":                    "Invalid email address",
	"username.required":        "Username is required",
	"username.min":             "Username must be at least 3 characters",
	"username.max":             "Username must be at most 30 characters",
	"username.username":        "Username can only contain letters, numbers, and underscores",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 8 characters",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword.eqfield":  "Passwords don't match",
}

var loginMessages = validation.Messages{
	"email":    "Invalid email address",
	"password": "Password is required",
}

// Session is a signed token together with the user it was issued for.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	usernameStrip   = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
)

type AccountService struct {
	users    *repository.Users
	issuer   *auth.Issuer
	google   auth.GoogleVerifier
	validate *validator.Validate
	log      *zap.Logger
}

// NewAccountService wires credential and Google sign-in. google may be nil,
// in which case Google sign-in reports itself disabled.
func NewAccountService(users *repository.Users, issuer *auth.Issuer, google auth.GoogleVerifier, log *zap.Logger) *AccountService {
	v := validation.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return &AccountService{users: users, issuer: issuer, google: google, validate: v, log: log}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.Check(s.validate, in, validation.InvalidInput, registerMessages); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmailOrUsername(ctx, in.Email, in.Username)
	switch {
	case err == nil && existing.Email == in.Email:
		return nil, apperr.Conflict(msgEmailTaken)
	case err == nil:
		return nil, apperr.Conflict(msgUsernameTaken)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     in.Email,
		Username:  in.Username,
		Password:  hash,
		Role:      models.RoleUser,
		Provider:  providerCredentials,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict(msgEmailTaken)
		}
		return nil, err
	}
	return u, nil
}

func (s *AccountService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Check(s.validate, in, validation.InvalidInput, loginMessages); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &apperr.Error{Kind: apperr.KindUnauthorized, Message: msgInvalidCredentials}
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.Password, in.Password) {
		return nil, &apperr.Error{Kind: apperr.KindUnauthorized, Message: msgInvalidCredentials}
	}
	return s.session(u)
}

// GoogleSignIn verifies a Firebase ID token and signs the user in, creating
// the account on first use.
func (s *AccountService) GoogleSignIn(ctx context.Context, idToken string) (*Session, error) {
	if s.google == nil {
		return nil, apperr.Disabled("Google sign-in is not configured")
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, validation.Field(validation.InvalidInput, "idToken", "ID token is required")
	}

	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		s.log.Warn("google token rejected", zap.Error(err))
		return nil, apperr.Unauthorized()
	}
	email := strings.ToLower(identity.Email)

	u, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		updates := map[string]any{}
		if identity.Picture != "" && identity.Picture != u.Image {
			updates["image"] = identity.Picture
			u.Image = identity.Picture
		}
		if len(updates) > 0 {
			if err := s.users.UpdateProfile(ctx, u.ID, updates); err != nil {
				return nil, err
			}
		}
	case errors.Is(err, repository.ErrNotFound):
		u, err = s.createGoogleUser(ctx, email, identity)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return s.session(u)
}

func (s *AccountService) createGoogleUser(ctx context.Context, email string, identity *auth.GoogleIdentity) (*models.User, error) {
	first, last, _ := strings.Cut(strings.TrimSpace(identity.Name), " ")
	u := &models.User{
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		Email:     email,
		Username:  s.freeUsername(ctx, email),
		Role:      models.RoleUser,
		Image:     identity.Picture,
		Provider:  providerGoogle,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// freeUsername derives a username from the mailbox name, suffixing it when taken.
func (s *AccountService) freeUsername(ctx context.Context, email string) string {
	local, _, _ := strings.Cut(email, "@")
	base := usernameStrip.ReplaceAllString(local, "_")
	if len(base) < 3 {
		base = "user_" + base
	}
	if len(base) > 22 {
		base = base[:22]
	}
	if _, err := s.users.FindByEmailOrUsername(ctx, "", base); errors.Is(err, repository.ErrNotFound) {
		return base
	}
	return base + "_" + uuid.NewString()[:6]
}

func (s *AccountService) session(u *models.User) (*Session, error) {
	token, err := s.issuer.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: u}, nil
}

func (s *AccountService) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound(msgUserNotFound)
	}
	return u, err
}

func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// UpdateRole changes a user's role. Admins cannot demote themselves.
func (s *AccountService) UpdateRole(ctx context.Context, actor Actor, userID, role string) (*models.User, error) {
	r, ok := models.ParseRole(role)
	if !ok {
		return nil, validation.Field(validation.InvalidInput, "role", "Role must be one of user, moderator, admin")
	}
	if actor.UserID == userID && r != models.RoleAdmin {
		return nil, &apperr.Error{Kind: apperr.KindForbidden, Message: "You cannot change your own role"}
	}

	if err := s.users.UpdateRole(ctx, userID, r); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(msgUserNotFound)
		}
		return nil, err
	}
	return s.Me(ctx, userID)
}
