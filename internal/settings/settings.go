// Package settings keeps the dashboard's account-level preferences in
// memory. Values reset to their defaults on restart.
package settings

import (
	"net/url"
	"slices"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/dennisdiepolder/monti/dashboard/internal/errs"
	"github.com/rs/zerolog"
)

var (
	Languages  = []string{"English", "Spanish", "French", "German"}
	Currencies = []string{"USD", "EUR", "GBP", "CAD"}
)

// Settings groups the general, notification, call and integration tabs
type Settings struct {
	// General
	CompanyName string `json:"companyName" yaml:"companyName"`
	Timezone    string `json:"timezone" yaml:"timezone"`
	Language    string `json:"language" yaml:"language"`
	Currency    string `json:"currency" yaml:"currency"`

	// Notifications
	EmailNotifications bool `json:"emailNotifications" yaml:"emailNotifications"`
	SMSNotifications   bool `json:"smsNotifications" yaml:"smsNotifications"`
	PushNotifications  bool `json:"pushNotifications" yaml:"pushNotifications"`

	// Calls
	AutoRecording      bool `json:"autoRecording" yaml:"autoRecording"`
	RecordingRetention int  `json:"recordingRetention" yaml:"recordingRetention"` // days
	QualityMonitoring  bool `json:"qualityMonitoring" yaml:"qualityMonitoring"`
	RealTimeReporting  bool `json:"realTimeReporting" yaml:"realTimeReporting"`
	MaxConcurrentCalls int  `json:"maxConcurrentCalls" yaml:"maxConcurrentCalls"`
	CallTimeout        int  `json:"callTimeout" yaml:"callTimeout"`   // seconds
	QueueTimeout       int  `json:"queueTimeout" yaml:"queueTimeout"` // seconds

	// Integrations
	APIKey     string `json:"apiKey" yaml:"apiKey"`
	WebhookURL string `json:"webhookUrl" yaml:"webhookUrl"`
}

// Defaults returns the settings a new account starts with
func Defaults() Settings {
	return Settings{
		CompanyName:        "Calldesk Solutions",
		Timezone:           "America/New_York",
		Language:           "English",
		Currency:           "USD",
		EmailNotifications: true,
		PushNotifications:  true,
		AutoRecording:      true,
		RecordingRetention: 90,
		QualityMonitoring:  true,
		RealTimeReporting:  true,
		MaxConcurrentCalls: 100,
		CallTimeout:        30,
		QueueTimeout:       300,
		APIKey:             "cd_live_********************************",
		WebhookURL:         "https://api.calldesk.com/webhooks",
	}
}

// Validate checks every field against its allowed values
func (s Settings) Validate() error {
	if s.CompanyName == "" {
		return errs.Invalid("companyName", s.CompanyName, "must not be empty")
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil || s.Timezone == "" {
		return errs.Invalid("timezone", s.Timezone, "unknown time zone")
	}
	if !slices.Contains(Languages, s.Language) {
		return errs.Invalid("language", s.Language, "")
	}
	if !slices.Contains(Currencies, s.Currency) {
		return errs.Invalid("currency", s.Currency, "")
	}

	positive := []struct {
		name  string
		value int
	}{
		{"recordingRetention", s.RecordingRetention},
		{"maxConcurrentCalls", s.MaxConcurrentCalls},
		{"callTimeout", s.CallTimeout},
		{"queueTimeout", s.QueueTimeout},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return errs.Invalid(p.name, p.value, "must be positive")
		}
	}

	if s.WebhookURL != "" {
		u, err := url.Parse(s.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errs.Invalid("webhookUrl", s.WebhookURL, "must be an http(s) URL")
		}
	}
	return nil
}

// Patch changes only its non-nil fields
type Patch struct {
	CompanyName        *string `json:"companyName,omitempty"`
	Timezone           *string `json:"timezone,omitempty"`
	Language           *string `json:"language,omitempty"`
	Currency           *string `json:"currency,omitempty"`
	EmailNotifications *bool   `json:"emailNotifications,omitempty"`
	SMSNotifications   *bool   `json:"smsNotifications,omitempty"`
	PushNotifications  *bool   `json:"pushNotifications,omitempty"`
	AutoRecording      *bool   `json:"autoRecording,omitempty"`
	RecordingRetention *int    `json:"recordingRetention,omitempty"`
	QualityMonitoring  *bool   `json:"qualityMonitoring,omitempty"`
	RealTimeReporting  *bool   `json:"realTimeReporting,omitempty"`
	MaxConcurrentCalls *int    `json:"maxConcurrentCalls,omitempty"`
	CallTimeout        *int    `json:"callTimeout,omitempty"`
	QueueTimeout       *int    `json:"queueTimeout,omitempty"`
	APIKey             *string `json:"apiKey,omitempty"`
	WebhookURL         *string `json:"webhookUrl,omitempty"`
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Apply returns s with p merged in
func (p Patch) Apply(s Settings) Settings {
	set(&s.CompanyName, p.CompanyName)
	set(&s.Timezone, p.Timezone)
	set(&s.Language, p.Language)
	set(&s.Currency, p.Currency)
	set(&s.EmailNotifications, p.EmailNotifications)
	set(&s.SMSNotifications, p.SMSNotifications)
	set(&s.PushNotifications, p.PushNotifications)
	set(&s.AutoRecording, p.AutoRecording)
	set(&s.RecordingRetention, p.RecordingRetention)
	set(&s.QualityMonitoring, p.QualityMonitoring)
	set(&s.RealTimeReporting, p.RealTimeReporting)
	set(&s.MaxConcurrentCalls, p.MaxConcurrentCalls)
	set(&s.CallTimeout, p.CallTimeout)
	set(&s.QueueTimeout, p.QueueTimeout)
	set(&s.APIKey, p.APIKey)
	set(&s.WebhookURL, p.WebhookURL)
	return s
}

// Store holds the current settings
type Store struct {
	mu      sync.RWMutex
	current Settings
	logger  zerolog.Logger
}

// NewStore creates a store holding Defaults
func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		current: Defaults(),
		logger:  logger.With().Str("component", "settings").Logger(),
	}
}

// Get returns the current settings
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update merges p into the current settings. Nothing changes when the
// result is invalid.
func (s *Store) Update(p Patch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := p.Apply(s.current)
	if err := next.Validate(); err != nil {
		return s.current, err
	}
	s.current = next
	s.logger.Info().Msg("settings saved")
	return next, nil
}

// Reset restores Defaults
func (s *Store) Reset() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Defaults()
	s.logger.Info().Msg("settings reset to defaults")
	return s.current
}
