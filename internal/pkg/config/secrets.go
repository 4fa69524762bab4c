// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsProvider resolves secret values by key
type SecretsProvider interface {
	GetSecrets(ctx context.Context, keys []string) (map[string]string, error)
}

// secretsClient is the subset of the Secrets Manager API used here
type secretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsManager reads a JSON secret from AWS Secrets Manager
type AWSSecretsManager struct {
	client     secretsClient
	secretName string
	cache      map[string]string
	cacheMu    sync.RWMutex
	lastFetch  time.Time
	ttl        time.Duration
	logger     *slog.Logger
}

// NewAWSSecretsManager creates a new AWS Secrets Manager client
func NewAWSSecretsManager(ctx context.Context, region, secretName string, logger *slog.Logger) (*AWSSecretsManager, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newAWSSecretsManager(secretsmanager.NewFromConfig(cfg), secretName, logger), nil
}

func newAWSSecretsManager(client secretsClient, secretName string, logger *slog.Logger) *AWSSecretsManager {
	return &AWSSecretsManager{
		client:     client,
		secretName: secretName,
		cache:      make(map[string]string),
		ttl:        5 * time.Minute,
		logger:     logger,
	}
}

// GetSecrets retrieves the requested keys, serving from cache while fresh
func (sm *AWSSecretsManager) GetSecrets(ctx context.Context, keys []string) (map[string]string, error) {
	sm.cacheMu.RLock()
	if time.Since(sm.lastFetch) < sm.ttl && len(sm.cache) > 0 {
		cached := pick(sm.cache, keys)
		sm.cacheMu.RUnlock()
		if len(cached) == len(keys) {
			return cached, nil
		}
	} else {
		sm.cacheMu.RUnlock()
	}

	sm.logger.Info("fetching secrets from AWS Secrets Manager",
		slog.String("secret_name", sm.secretName))

	result, err := sm.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(sm.secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret value: %w", err)
	}
	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", sm.secretName)
	}

	var secretData map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &secretData); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	sm.cacheMu.Lock()
	sm.cache = secretData
	sm.lastFetch = time.Now()
	sm.cacheMu.Unlock()

	filtered := pick(secretData, keys)
	for _, key := range keys {
		if _, ok := filtered[key]; !ok {
			sm.logger.Warn("secret key not found in AWS Secrets Manager", slog.String("key", key))
		}
	}
	return filtered, nil
}

// EnvSecretsManager resolves secrets from environment variables
type EnvSecretsManager struct{}

// GetSecrets retrieves multiple secrets from environment variables
func (EnvSecretsManager) GetSecrets(ctx context.Context, keys []string) (map[string]string, error) {
	secrets := make(map[string]string)
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			secrets[key] = val
		}
	}
	return secrets, nil
}

func pick(src map[string]string, keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if val, ok := src[key]; ok {
			out[key] = val
		}
	}
	return out
}

// secretKeys are the settings a secrets provider may override
var secretKeys = []string{"DB_PASSWORD", "REDIS_PASSWORD", "AWS_SECRET_ACCESS_KEY"}

// ApplySecrets overrides sensitive settings with values from provider
func ApplySecrets(ctx context.Context, cfg *Config, provider SecretsProvider) error {
	secrets, err := provider.GetSecrets(ctx, secretKeys)
	if err != nil {
		return fmt.Errorf("failed to resolve secrets: %w", err)
	}
	if v, ok := secrets["DB_PASSWORD"]; ok {
		cfg.Database.Password = v
	}
	if v, ok := secrets["REDIS_PASSWORD"]; ok {
		cfg.Redis.Password = v
		cfg.Asynq.RedisPassword = v
	}
	if v, ok := secrets["AWS_SECRET_ACCESS_KEY"]; ok {
		cfg.Archive.SecretAccessKey = v
	}
	return nil
}

func applySecrets(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sm, err := NewAWSSecretsManager(ctx, cfg.Archive.Region, cfg.App.SecretName, logger)
	if err != nil {
		return err
	}
	return ApplySecrets(ctx, cfg, sm)
}
