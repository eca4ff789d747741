// internal/platform/di/secret_provider_sm.go
package di

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var errSecretProviderNotConfigured = errors.New("di: secret provider not configured")

// secretProviderSM resolves secrets from Google Secret Manager. It backs
// the SendGrid API key when SENDGRID_API_KEY is not set in the environment
// (Cloud Run deployments keep the key out of env vars).
type secretProviderSM struct {
	sm        *secretmanager.Client
	projectID string
}

func (p *secretProviderSM) Get(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.sm == nil {
		return "", errSecretProviderNotConfigured
	}
	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", errors.New("di: secret id is empty")
	}
	prj := strings.TrimSpace(p.projectID)
	if prj == "" {
		return "", errors.New("di: projectID is empty")
	}

	name := "projects/" + prj + "/secrets/" + sid + "/versions/latest"
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("di: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("di: empty secret payload (" + name + ")")
	}

	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
