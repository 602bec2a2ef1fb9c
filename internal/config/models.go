package config

import (
	"fmt"
	"os"
	"strings"
)

// APIKeyEnv is the environment variable holding the AssemblyAI API key.
const APIKeyEnv = "AAI_API_KEY"

// Speech models accepted by the transcription request.
const (
	ModelUniversal = "universal"
	ModelSlam1     = "slam-1"
)

var allowedModels = []string{ModelUniversal, ModelSlam1}

// ValidateModel checks the speech model name before any network call.
func ValidateModel(model string) error {
	for _, m := range allowedModels {
		if model == m {
			return nil
		}
	}
	return fmt.Errorf("invalid model %q (allowed: %s)", model, strings.Join(allowedModels, ", "))
}

// APIKey reads the AssemblyAI API key from the environment.
func APIKey() (string, error) {
	key := os.Getenv(APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable is not set", APIKeyEnv)
	}
	return key, nil
}
