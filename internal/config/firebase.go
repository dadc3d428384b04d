package config

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// NewMessagingClient returns nil without error when no credentials file is configured.
func NewMessagingClient(ctx context.Context, cfg *Config) (*messaging.Client, error) {
	if cfg.FirebaseCredentialsFile == "" {
		return nil, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	if err != nil {
		return nil, err
	}

	return app.Messaging(ctx)
}
