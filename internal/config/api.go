package config

import (
	"context"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type (
	DB struct {
		URL string `envconfig:"DB_URL" required:"true"`
	}

	CORS struct {
		AllowOrigins []string `envconfig:"ALLOW_ORIGINS" required:"true"`
	}

	JWT struct {
		Issuer string `envconfig:"ISSUER" required:"true"`
		Secret string `envconfig:"SECRET" required:"true"`
	}

	HTTP struct {
		ProcessTimeout time.Duration `envconfig:"PROCESS_TIMEOUT" default:"10s"`
		RateLimit      float64       `envconfig:"RATE_LIMIT" default:"25"`
		CORS           CORS
		JWT            JWT
	}

	Server struct {
		ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
		Addr              string        `envconfig:"ADDR" default:":8080"`
	}

	// Clerk holds the identity-provider webhook settings. The signing
	// secret is mandatory: without it webhook payloads cannot be trusted.
	Clerk struct {
		WebhookSecret string `envconfig:"WEBHOOK_SECRET" required:"true"`
	}

	Azure struct {
		TranslatorKey      string `envconfig:"TRANSLATOR_KEY"`
		TranslatorEndpoint string `envconfig:"TRANSLATOR_ENDPOINT"`
		TranslatorRegion   string `envconfig:"TRANSLATOR_REGION" default:"eastus"`
	}

	Data struct {
		ReferenceBiblePath string `envconfig:"REFERENCE_BIBLE_PATH" default:"data/esv_bible.json"`
		TargetBiblePath    string `envconfig:"TARGET_BIBLE_PATH" default:"data/tongan_bible.json"`
		DictionaryPath     string `envconfig:"DICTIONARY_PATH" default:"data/tongan_dictionary.tsv"`
	}

	Study struct {
		SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"1h"`
	}

	// SSM lists optional AWS SSM parameter names; when set, their decrypted
	// values override the matching secrets from the environment.
	SSM struct {
		DBURLParam         string `envconfig:"DB_URL_PARAM"`
		JWTSecretParam     string `envconfig:"JWT_SECRET_PARAM"`
		WebhookSecretParam string `envconfig:"WEBHOOK_SECRET_PARAM"`
		TranslatorKeyParam string `envconfig:"TRANSLATOR_KEY_PARAM"`
	}

	API struct {
		Dev    bool `envconfig:"DEV" default:"false"`
		DB     DB
		HTTP   HTTP
		Server Server
		Clerk  Clerk
		Azure  Azure
		Data   Data
		Study  Study
		SSM    SSM
	}
)

func NewAPI(ctx context.Context) (*API, error) {
	var res API
	if err := envconfig.Process("API", &res); err != nil {
		return nil, fmt.Errorf("parse api environment: %w", err)
	}

	if err := res.applySSMOverrides(ctx); err != nil {
		return nil, fmt.Errorf("apply ssm overrides: %w", err)
	}

	return &res, nil
}

func (c *API) applySSMOverrides(ctx context.Context) error {
	targets := map[string]*string{
		c.SSM.DBURLParam:         &c.DB.URL,
		c.SSM.JWTSecretParam:     &c.HTTP.JWT.Secret,
		c.SSM.WebhookSecretParam: &c.Clerk.WebhookSecret,
		c.SSM.TranslatorKeyParam: &c.Azure.TranslatorKey,
	}
	delete(targets, "")
	if len(targets) == 0 {
		return nil
	}

	keys := make([]string, 0, len(targets))
	for key := range targets {
		keys = append(keys, key)
	}

	params, err := FetchAWSParams(ctx, keys...)
	if err != nil {
		return err
	}

	for key, target := range targets {
		*target = params[key]
	}
	return nil
}
