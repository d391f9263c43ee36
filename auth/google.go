package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/junaidrashid-git/storefront/config"
	"google.golang.org/api/option"
)

// GoogleIdentity is what a verified Google sign-in tells us about the user.
type GoogleIdentity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// FirebaseVerifier checks Firebase ID tokens, including revocation.
type FirebaseVerifier struct {
	client    *fbauth.Client
	projectID string
}

func NewFirebaseVerifier(ctx context.Context, cfg config.Firebase) (*FirebaseVerifier, error) {
	opt := option.WithCredentialsJSON([]byte(cfg.CredentialsJSON))
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client, projectID: cfg.ProjectID}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	if token.Audience != v.projectID {
		return nil, errors.New("invalid token audience")
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("token carries no email")
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	return &GoogleIdentity{UID: token.UID, Email: email, Name: name, Picture: picture}, nil
}
