package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

// GetOpenAIAPIKey reads the explanation service credential. Deployments
// without Vault fall back to the OPENAI_API_KEY environment variable instead.
func (sm *SecretManager) GetOpenAIAPIKey() (string, error) {
	secret, err := sm.client.Logical().Read("secret/data/openai")
	if err != nil {
		return "", err
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault: secret/data/openai not found")
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("vault: unexpected secret format at secret/data/openai")
	}
	key, ok := data["api_key"].(string)
	if !ok {
		return "", fmt.Errorf("vault: api_key missing at secret/data/openai")
	}
	return key, nil
}
