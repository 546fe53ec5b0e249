package config

import (
	"fmt"

	"github.com/integratewise/webhook-gateway/provider"
	"github.com/spf13/viper"
)

/* Config é um pacote auxiliar. Poderia ser uma lib externa*/

type Config struct {
	Port        string `mapstructure:"PORT"`
	PostgresDSN string `mapstructure:"POSTGRES_DSN"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	RazorpayWebhookSecret string `mapstructure:"RAZORPAY_WEBHOOK_SECRET"`
	GithubWebhookSecret   string `mapstructure:"GITHUB_WEBHOOK_SECRET"`
	VercelWebhookSecret   string `mapstructure:"VERCEL_WEBHOOK_SECRET"`
	HubspotWebhookSecret  string `mapstructure:"HUBSPOT_WEBHOOK_SECRET"`
	AsanaWebhookSecret    string `mapstructure:"ASANA_WEBHOOK_SECRET"`
	AIRelayWebhookSecret  string `mapstructure:"AI_RELAY_WEBHOOK_SECRET"`
	SlackSigningSecret    string `mapstructure:"SLACK_SIGNING_SECRET"`
	DiscordPublicKey      string `mapstructure:"DISCORD_PUBLIC_KEY"`

	SlackNotifyURL   string `mapstructure:"SLACK_WEBHOOK_URL"`
	DiscordNotifyURL string `mapstructure:"DISCORD_WEBHOOK_URL"`
}

func GetConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		// Missing .env is fine when everything comes from the environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	if config.Port == "" {
		config.Port = "8080"
	}
	return &config, nil
}

// Key returns the verification key for a provider: the shared HMAC
// secret, or the hex public key for Ed25519. Empty means verification
// is not configured and fails open for that provider.
func (c *Config) Key(p provider.Provider) string {
	switch p {
	case provider.Razorpay:
		return c.RazorpayWebhookSecret
	case provider.GitHub:
		return c.GithubWebhookSecret
	case provider.Vercel:
		return c.VercelWebhookSecret
	case provider.HubSpot:
		return c.HubspotWebhookSecret
	case provider.Asana:
		return c.AsanaWebhookSecret
	case provider.AIRelay:
		return c.AIRelayWebhookSecret
	case provider.Slack:
		return c.SlackSigningSecret
	case provider.Discord:
		return c.DiscordPublicKey
	default:
		return ""
	}
}

/* Warnings lists every signing-capable provider that has no key
 * configured. Those providers accept unverified deliveries (fail open),
 * a deliberate trade-off to avoid bricking unconfigured integrations;
 * callers should log each warning prominently at startup.
 */
func (c *Config) Warnings() []string {
	var warnings []string
	for _, p := range provider.All() {
		if p.Scheme() == provider.SchemeNone {
			continue
		}
		if c.Key(p) == "" {
			warnings = append(warnings,
				fmt.Sprintf("no verification key configured for %s: accepting unverified deliveries (fail open)", p))
		}
	}
	return warnings
}
