package push

import "time"

// Config selects and configures the push provider.
type Config struct {
	Provider string        `env:"PUSH_PROVIDER" envDefault:"expo"` // expo or sns
	Timeout  time.Duration `env:"PUSH_TIMEOUT" envDefault:"10s"`

	ExpoURL         string `env:"PUSH_EXPO_URL" envDefault:"https://exp.host/--/api/v2/push/send"`
	ExpoAccessToken string `env:"PUSH_EXPO_ACCESS_TOKEN"`

	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSEndpoint        string `env:"AWS_ENDPOINT"` // LocalStack and similar

	TokenKeyPrefix string `env:"PUSH_TOKEN_KEY_PREFIX" envDefault:"push_token:"`
}
