package config

import (
	"fmt"
	"time"
)

// ClassifierConfig holds keyword tables and scoring constants
type ClassifierConfig struct {
	SpamThreshold         int
	DomainBonus           int
	InstitutionalSuffixes []string
	SpamKeywords          []string
	ProfessionalKeywords  []string
	PersonalKeywords      []string
	MeetingKeywords       []string
}

// ServerConfig represents the configuration of the SMTP content filter
type ServerConfig struct {
	FilterType     string
	ListenAddress  string
	BlockSpam      bool
	CategoryHeader string
	MeetingHeader  string
	PostfixEnabled bool
	PostfixAddress string
	PostfixPort    int
	ModifySubject  bool
	SubjectPrefix  string
}

// DrafterConfig selects the reply drafting provider
type DrafterConfig struct {
	Provider    string
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GoogleConfig locates OAuth material and mailbox query settings
type GoogleConfig struct {
	CredentialsFile string
	TokenFile       string
	Query           string
	MaxResults      int64
}

// CalendarConfig controls placeholder meeting slots
type CalendarConfig struct {
	CalendarID      string
	TimeZone        string
	MeetingHour     int
	Duration        time.Duration
	ReminderMinutes int64
}

// MailConfig selects and configures the mailbox used by the interactive flows
type MailConfig struct {
	// Source is "gmail" or "imap"
	Source string
	// GoogleCalendar books meetings through Google Calendar in IMAP mode
	GoogleCalendar bool
	IMAP           IMAPConfig
	SMTP           SMTPConfig
}

// IMAPConfig represents the IMAP mail source configuration
type IMAPConfig struct {
	Address  string
	Username string
	Password string
	Mailbox  string
	TLS      bool
}

// SMTPConfig represents the submission server used to send mail in IMAP mode
type SMTPConfig struct {
	Address  string
	Username string
	Password string
	From     string
}

// StoreConfig represents the verdict store configuration
type StoreConfig struct {
	Type             string
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	Redis            RedisConfig
}

// RedisConfig holds the connection settings of the redis verdict store
type RedisConfig struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		SpamThreshold:         c.GetInt("classifier.spam_threshold"),
		DomainBonus:           c.GetInt("classifier.domain_bonus"),
		InstitutionalSuffixes: c.GetStringList("classifier.institutional_suffixes"),
		SpamKeywords:          c.GetStringList("classifier.keywords.spam"),
		ProfessionalKeywords:  c.GetStringList("classifier.keywords.professional"),
		PersonalKeywords:      c.GetStringList("classifier.keywords.personal"),
		MeetingKeywords:       c.GetStringList("classifier.keywords.meeting"),
	}
}

// GetServer returns the content filter configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		FilterType:     c.GetString("server.filter_type"),
		ListenAddress:  c.GetString("server.listen_address"),
		BlockSpam:      c.GetBool("server.block_spam"),
		CategoryHeader: c.GetString("server.headers.category"),
		MeetingHeader:  c.GetString("server.headers.meeting"),
		PostfixEnabled: c.GetBool("server.postfix.enabled"),
		PostfixAddress: c.GetString("server.postfix.address"),
		PostfixPort:    c.GetInt("server.postfix.port"),
		ModifySubject:  c.GetBool("server.modify_subject"),
		SubjectPrefix:  c.GetString("server.subject_prefix"),
	}
}

// GetDrafter returns the drafter configuration
func (c *Config) GetDrafter() DrafterConfig {
	return DrafterConfig{
		Provider:    c.GetString("drafter.provider"),
		MaxBodySize: c.GetInt("drafter.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGoogle returns the Google API configuration
func (c *Config) GetGoogle() GoogleConfig {
	return GoogleConfig{
		CredentialsFile: c.GetString("google.credentials_file"),
		TokenFile:       c.GetString("google.token_file"),
		Query:           c.GetString("google.query"),
		MaxResults:      int64(c.GetInt("google.max_results")),
	}
}

// GetCalendar returns the calendar configuration. An unparsable duration
// falls back to 30 minutes.
func (c *Config) GetCalendar() CalendarConfig {
	duration, err := c.GetDuration("calendar.duration")
	if err != nil || duration <= 0 {
		duration = 30 * time.Minute
	}
	return CalendarConfig{
		CalendarID:      c.GetString("calendar.id"),
		TimeZone:        c.GetString("calendar.timezone"),
		MeetingHour:     c.GetInt("calendar.meeting_hour"),
		Duration:        duration,
		ReminderMinutes: int64(c.GetInt("calendar.reminder_minutes")),
	}
}

// GetStore returns the verdict store configuration
func (c *Config) GetStore() (StoreConfig, error) {
	ttl, err := c.GetDuration("store.ttl")
	if err != nil {
		return StoreConfig{}, fmt.Errorf("invalid store ttl: %w", err)
	}
	cleanup, err := c.GetDuration("store.cleanup_frequency")
	if err != nil {
		return StoreConfig{}, fmt.Errorf("invalid store cleanup frequency: %w", err)
	}
	return StoreConfig{
		Type:             c.GetString("store.type"),
		Enabled:          c.GetBool("store.enabled"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
		SQLitePath:       c.GetString("store.sqlite_path"),
		MySQLDSN:         c.GetString("store.mysql_dsn"),
		Redis: RedisConfig{
			Address:   c.GetString("store.redis.address"),
			Password:  c.GetString("store.redis.password"),
			DB:        c.GetInt("store.redis.db"),
			KeyPrefix: c.GetString("store.redis.key_prefix"),
		},
	}, nil
}

// GetMail returns the mailbox configuration
func (c *Config) GetMail() MailConfig {
	return MailConfig{
		Source:         c.GetString("mail.source"),
		GoogleCalendar: c.GetBool("mail.google_calendar"),
		IMAP: IMAPConfig{
			Address:  c.GetString("mail.imap.address"),
			Username: c.GetString("mail.imap.username"),
			Password: c.GetString("mail.imap.password"),
			Mailbox:  c.GetString("mail.imap.mailbox"),
			TLS:      c.GetBool("mail.imap.tls"),
		},
		SMTP: SMTPConfig{
			Address:  c.GetString("mail.smtp.address"),
			Username: c.GetString("mail.smtp.username"),
			Password: c.GetString("mail.smtp.password"),
			From:     c.GetString("mail.smtp.from"),
		},
	}
}
