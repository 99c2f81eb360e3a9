package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	DBDriver     string        // CASESEED_DB_DRIVER, default "sqlite"
	DBDSN        string        // CASESEED_DB_DSN, default "caseseed.db"
	HTTPTimeout  time.Duration // CASESEED_HTTP_TIMEOUT, default 15s
	SeedPassword string        // CASESEED_SEED_PASSWORD, optional

	SendGrid  SendGrid
	Twilio    Twilio
	Slack     Slack
	Outlook   Outlook
	Google    Google
	Zoom      Zoom
	Analytics Analytics
}

// Each provider is configured only when its secret is set.

type SendGrid struct {
	APIKey string // SENDGRID_API_KEY
	From   string // SENDGRID_FROM_EMAIL
}

func (c SendGrid) Enabled() bool { return c.APIKey != "" && c.From != "" }

type Twilio struct {
	AccountSID string // TWILIO_ACCOUNT_SID
	AuthToken  string // TWILIO_AUTH_TOKEN
	From       string // TWILIO_PHONE_NUMBER
}

func (c Twilio) Enabled() bool { return c.AccountSID != "" && c.AuthToken != "" && c.From != "" }

type Slack struct {
	BotToken string // SLACK_BOT_TOKEN
}

func (c Slack) Enabled() bool { return c.BotToken != "" }

type Outlook struct {
	AccessToken string // MSGRAPH_ACCESS_TOKEN
}

func (c Outlook) Enabled() bool { return c.AccessToken != "" }

type Google struct {
	AccessToken string // GOOGLE_CALENDAR_TOKEN
	CalendarID  string // GOOGLE_CALENDAR_ID, default "primary"
}

func (c Google) Enabled() bool { return c.AccessToken != "" }

type Zoom struct {
	AccessToken string // ZOOM_ACCESS_TOKEN
}

func (c Zoom) Enabled() bool { return c.AccessToken != "" }

type Analytics struct {
	Endpoint string // AZURE_TEXT_ANALYTICS_ENDPOINT
	Key      string // AZURE_TEXT_ANALYTICS_KEY
}

func (c Analytics) Enabled() bool { return c.Endpoint != "" && c.Key != "" }

// LoadEnvFile loads variables from a dotenv file without overriding ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	timeout, err := time.ParseDuration(envOr("CASESEED_HTTP_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CASESEED_HTTP_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("CASESEED_HTTP_TIMEOUT must be positive, got %s", timeout)
	}

	return Config{
		DBDriver:     envOr("CASESEED_DB_DRIVER", "sqlite"),
		DBDSN:        envOr("CASESEED_DB_DSN", "caseseed.db"),
		HTTPTimeout:  timeout,
		SeedPassword: os.Getenv("CASESEED_SEED_PASSWORD"),
		SendGrid: SendGrid{
			APIKey: os.Getenv("SENDGRID_API_KEY"),
			From:   os.Getenv("SENDGRID_FROM_EMAIL"),
		},
		Twilio: Twilio{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			From:       os.Getenv("TWILIO_PHONE_NUMBER"),
		},
		Slack:   Slack{BotToken: os.Getenv("SLACK_BOT_TOKEN")},
		Outlook: Outlook{AccessToken: os.Getenv("MSGRAPH_ACCESS_TOKEN")},
		Google: Google{
			AccessToken: os.Getenv("GOOGLE_CALENDAR_TOKEN"),
			CalendarID:  envOr("GOOGLE_CALENDAR_ID", "primary"),
		},
		Zoom: Zoom{AccessToken: os.Getenv("ZOOM_ACCESS_TOKEN")},
		Analytics: Analytics{
			Endpoint: os.Getenv("AZURE_TEXT_ANALYTICS_ENDPOINT"),
			Key:      os.Getenv("AZURE_TEXT_ANALYTICS_KEY"),
		},
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
