// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values and validate

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go-jobpilot-automation/internal/filter"
	"go-jobpilot-automation/internal/site"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

const (
	StrategyManual     = "manual"
	StrategyTwoCaptcha = "2captcha"
)

type Credential struct {
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	SecurityAnswer string `yaml:"security_answer"`
}

type Captcha struct {
	Strategy     string        `yaml:"strategy"`
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	ManualWait   time.Duration `yaml:"manual_wait"`
	PollInterval time.Duration `yaml:"poll_interval"`
	PollAttempts int           `yaml:"poll_attempts"`
}

type Applicant struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

type AI struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

type Paths struct {
	Resume      string `yaml:"resume"`
	OutputDir   string `yaml:"output_dir"`
	LogDir      string `yaml:"log_dir"`
	CookiesDir  string `yaml:"cookies_dir"`
	Screenshots string `yaml:"screenshots_dir"`
	Template    string `yaml:"template"`
}

type Browser struct {
	Headless      bool          `yaml:"headless"`
	NavRatePerSec float64       `yaml:"nav_rate_per_sec"`
	NavBurst      int           `yaml:"nav_burst"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxCards      int           `yaml:"max_cards"`
	Humanize      bool          `yaml:"humanize"`
}

type Telegram struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type Config struct {
	//Search criteria
	MaxApplications int      `yaml:"max_applications_per_day"`
	Keywords        []string `yaml:"keywords"`
	Location        string   `yaml:"location"`
	RemoteOnly      bool     `yaml:"remote_only"`

	//Sites
	Sites         []string              `yaml:"sites"`
	LoginRequired []string              `yaml:"login_required"`
	Credentials   map[string]Credential `yaml:"credentials"`

	Captcha           Captcha   `yaml:"captcha"`
	Applicant         Applicant `yaml:"applicant"`
	AnswerPlaceholder string    `yaml:"answer_placeholder"`
	AI                AI        `yaml:"ai"`
	Paths             Paths     `yaml:"paths"`
	Browser           Browser   `yaml:"browser"`
	Telegram          Telegram  `yaml:"telegram"`
	Port              string    `yaml:"port"`

	// RunTimeout bounds one whole pipeline run.
	RunTimeout time.Duration `yaml:"run_timeout"`
}

// Default returns a config populated with the values used when a field is left unset.
func Default() *Config {
	return &Config{
		MaxApplications: 10,
		Keywords:        []string{"developer"},
		Location:        "Canada",
		Captcha: Captcha{
			Strategy:     StrategyManual,
			ManualWait:   30 * time.Second,
			PollInterval: 5 * time.Second,
			PollAttempts: 20,
		},
		AnswerPlaceholder: "See resume and cover letter for details.",
		AI:                AI{Provider: "none"},
		Paths: Paths{
			Resume:      filepath.Join("data", "resumes", "base_resume.txt"),
			OutputDir:   filepath.Join("data", "output"),
			LogDir:      filepath.Join("data", "logs"),
			CookiesDir:  ".cookies",
			Screenshots: filepath.Join("logs", "screenshots"),
		},
		Browser: Browser{
			Headless:      true,
			NavRatePerSec: 0.5,
			NavBurst:      2,
			Timeout:       30 * time.Second,
			MaxCards:      25,
			Humanize:      true,
		},
		Port:       "8080",
		RunTimeout: 30 * time.Minute,
	}
}

// Load reads path (if present), applies .env and environment overrides and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		log.Printf("⚠️ Config file %s not found, using defaults + env", path)
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JOB_KEYWORDS"); v != "" {
		c.Keywords = strings.Split(v, ",")
	}
	if v, ok := os.LookupEnv("JOB_LOCATION"); ok {
		c.Location = v
	}
	if v := os.Getenv("REMOTE_ONLY"); v != "" {
		c.RemoteOnly = v == "true" || v == "1"
	}
	if v := os.Getenv("MAX_APPLICATIONS_PER_DAY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxApplications = n
		} else {
			log.Printf("⚠️ Ignoring invalid MAX_APPLICATIONS_PER_DAY %q", v)
		}
	}

	if v := os.Getenv("CAPTCHA_STRATEGY"); v != "" {
		c.Captcha.Strategy = v
	}
	if v := os.Getenv("TWOCAPTCHA_API_KEY"); v != "" {
		c.Captcha.APIKey = v
	}

	for _, s := range site.All {
		prefix := s.EnvPrefix()
		user, pass, answer := os.Getenv(prefix+"_USER"), os.Getenv(prefix+"_PASS"), os.Getenv(prefix+"_SECURITY_ANSWER")
		if user == "" && pass == "" && answer == "" {
			continue
		}
		if c.Credentials == nil {
			c.Credentials = make(map[string]Credential)
		}
		cred := c.Credentials[string(s)]
		if user != "" {
			cred.Username = user
		}
		if pass != "" {
			cred.Password = pass
		}
		if answer != "" {
			cred.SecurityAnswer = answer
		}
		c.Credentials[string(s)] = cred
	}

	if v := os.Getenv("APPLICANT_NAME"); v != "" {
		c.Applicant.Name = v
	}
	if v := os.Getenv("APPLICANT_EMAIL"); v != "" {
		c.Applicant.Email = v
	}
	if v := os.Getenv("APPLICANT_PHONE"); v != "" {
		c.Applicant.Phone = v
	}

	if v := os.Getenv("AI_PROVIDER"); v != "" {
		c.AI.Provider = v
	}
	switch c.AI.Provider {
	case "groq":
		if v := os.Getenv("GROQ_API_KEY"); v != "" {
			c.AI.APIKey = v
		}
	case "gemini":
		if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			c.AI.APIKey = v
		}
	}

	if v := os.Getenv("RESUME_PATH"); v != "" {
		c.Paths.Resume = v
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.Telegram.Token = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
			c.Telegram.ChatID = id
		} else {
			log.Printf("⚠️ Ignoring invalid TELEGRAM_CHAT_ID: %v", err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		c.Port = port
	}
}

// normalize trims list entries and drops empties, keeping first occurrences.
func (c *Config) normalize() {
	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}
	c.Keywords = trimList(c.Keywords)
	c.Sites = trimList(c.Sites)
	c.LoginRequired = trimList(c.LoginRequired)
	c.Captcha.Strategy = strings.ToLower(strings.TrimSpace(c.Captcha.Strategy))
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	c.Location = strings.TrimSpace(c.Location)
}

// Validate reports every problem in one error.
func (c *Config) Validate() error {
	var errs []string

	if c.MaxApplications < 0 {
		errs = append(errs, "max_applications_per_day must be >= 0")
	}

	for _, name := range c.Sites {
		if _, ok := site.Parse(name); !ok {
			errs = append(errs, fmt.Sprintf("sites: unknown site %q", name))
		}
	}
	for _, name := range c.LoginRequired {
		if _, ok := site.Parse(name); !ok {
			errs = append(errs, fmt.Sprintf("login_required: unknown site %q", name))
		}
	}
	for name := range c.Credentials {
		if _, ok := site.Parse(name); !ok {
			errs = append(errs, fmt.Sprintf("credentials: unknown site %q", name))
		}
	}

	switch c.Captcha.Strategy {
	case StrategyManual:
	case StrategyTwoCaptcha:
		if c.Captcha.APIKey == "" {
			errs = append(errs, "captcha.api_key is required when captcha.strategy=2captcha")
		}
	default:
		errs = append(errs, fmt.Sprintf("captcha.strategy must be %q or %q", StrategyManual, StrategyTwoCaptcha))
	}
	if c.Captcha.ManualWait <= 0 {
		errs = append(errs, "captcha.manual_wait must be > 0")
	}
	if c.Captcha.PollInterval <= 0 {
		errs = append(errs, "captcha.poll_interval must be > 0")
	}
	if c.Captcha.PollAttempts <= 0 {
		errs = append(errs, "captcha.poll_attempts must be > 0")
	}

	switch c.AI.Provider {
	case "none", "":
	case "groq", "gemini":
		if c.AI.APIKey == "" {
			errs = append(errs, fmt.Sprintf("ai.api_key is required for provider %q", c.AI.Provider))
		}
	default:
		errs = append(errs, fmt.Sprintf("ai.provider %q is not supported (groq, gemini, none)", c.AI.Provider))
	}

	if c.Browser.NavRatePerSec <= 0 {
		errs = append(errs, "browser.nav_rate_per_sec must be > 0")
	}
	if c.RunTimeout <= 0 {
		errs = append(errs, "run_timeout must be > 0")
	}
	if c.Browser.Timeout <= 0 {
		errs = append(errs, "browser.timeout must be > 0")
	}

	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		errs = append(errs, "telegram.chat_id is required when telegram.token is set")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

// FilterPolicy is the read-only acquisition policy for one run.
func (c *Config) FilterPolicy() filter.Policy {
	return filter.Policy{
		Keywords:   append([]string(nil), c.Keywords...),
		Location:   c.Location,
		RemoteOnly: c.RemoteOnly,
	}
}

// EnabledSites returns configured sites in registry order; an empty list enables all.
func (c *Config) EnabledSites() []site.Site {
	if len(c.Sites) == 0 {
		return append([]site.Site(nil), site.All...)
	}
	enabled := map[site.Site]bool{}
	for _, name := range c.Sites {
		if s, ok := site.Parse(name); ok {
			enabled[s] = true
		}
	}
	var out []site.Site
	for _, s := range site.All {
		if enabled[s] {
			out = append(out, s)
		}
	}
	return out
}

// NeedsLogin reports whether postings on s must go through the authenticator.
func (c *Config) NeedsLogin(s site.Site) bool {
	for _, name := range c.LoginRequired {
		if parsed, ok := site.Parse(name); ok && parsed == s {
			return true
		}
	}
	return false
}
