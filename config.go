package fireusers

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"github.com/caarlos0/env/v10"
	"github.com/goliatone/go-errors"
	"google.golang.org/api/option"
)

// Config holds the knobs needed to reach the identity provider. The
// credentials file falls back to application-default credentials when empty,
// which is how deployments on Google infrastructure usually run.
type Config struct {
	ProjectID        string `env:"FIREBASE_PROJECT_ID"`
	CredentialsFile  string `env:"GOOGLE_APPLICATION_CREDENTIALS,expand"`
	EmulatorHost     string `env:"FIREBASE_AUTH_EMULATOR_HOST"`
	CheckRevoked     bool   `env:"FIREBASE_CHECK_REVOKED" envDefault:"true"`
	ServiceAccountID string `env:"FIREBASE_SERVICE_ACCOUNT_ID"`
}

// ConfigFromEnv loads provider configuration from the environment.
func ConfigFromEnv() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, errors.CategoryBadInput, "failed to parse firebase config from env")
	}
	return cfg, nil
}

// NewApp builds the Firebase app handle this adapter talks through.
func (c Config) NewApp(ctx context.Context) (*firebase.App, error) {
	var opts []option.ClientOption
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:        c.ProjectID,
		ServiceAccountID: c.ServiceAccountID,
	}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to initialize firebase app")
	}
	return app, nil
}
