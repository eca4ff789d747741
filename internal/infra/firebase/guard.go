// internal/infra/firebase/guard.go
package firebase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var (
	ErrNotAdmin     = errors.New("firebase: token does not carry the admin claim")
	ErrEmptyIDToken = errors.New("firebase: id token is empty")
)

// AdminGuard implements usecase.Guard by verifying Firebase ID tokens and
// requiring the custom "admin" claim. This replaces the storefront's old
// hardcoded credential check.
type AdminGuard struct {
	Auth *fbauth.Client
}

// NewAdminGuard initializes Firebase Auth for the project. An empty
// credentialsFile falls back to Application Default Credentials.
func NewAdminGuard(ctx context.Context, projectID, credentialsFile string) (*AdminGuard, error) {
	conf := &firebase.Config{ProjectID: projectID}

	var (
		app *firebase.App
		err error
	)
	if credentialsFile != "" {
		app, err = firebase.NewApp(ctx, conf, option.WithCredentialsFile(credentialsFile))
	} else {
		app, err = firebase.NewApp(ctx, conf)
	}
	if err != nil {
		return nil, fmt.Errorf("firebase: new app: %w", err)
	}

	auth, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: auth client: %w", err)
	}

	log.Printf("[firebase] auth initialized (project: %s)", projectID)
	return &AdminGuard{Auth: auth}, nil
}

func (g *AdminGuard) VerifyAdmin(ctx context.Context, idToken string) error {
	if g == nil || g.Auth == nil {
		return errors.New("firebase: guard not initialized")
	}
	token := strings.TrimSpace(idToken)
	if token == "" {
		return ErrEmptyIDToken
	}

	decoded, err := g.Auth.VerifyIDToken(ctx, token)
	if err != nil {
		return fmt.Errorf("firebase: verify id token: %w", err)
	}

	if isAdmin, ok := decoded.Claims["admin"].(bool); !ok || !isAdmin {
		return ErrNotAdmin
	}
	return nil
}
