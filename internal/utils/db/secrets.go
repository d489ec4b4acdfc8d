package db

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// retrieveCredentials prefers DB_USERNAME/DB_PASSWORD from the environment
// and falls back to the Secrets Manager secret identified by secretID.
func retrieveCredentials(secretID string) (string, string, error) {
	username := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	if username != "" && password != "" {
		return username, password, nil
	}
	if secretID == "" {
		return "", "", errors.New("no DB credentials in environment and DB_SECRET_ID unset")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return "", "", err
	}
	client := secretsmanager.NewFromConfig(cfg)

	result, err := client.GetSecretValue(context.TODO(), &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return "", "", err
	}

	var secret credentials
	if err := json.Unmarshal([]byte(*result.SecretString), &secret); err != nil {
		return "", "", err
	}
	return secret.Username, secret.Password, nil
}
