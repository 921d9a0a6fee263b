package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultPageTitle   = "TV Channel Guide"
	defaultRefreshCron = "0 */6 * * *" // every 6 hours
)

type Config struct {
	BaseURL  string            `json:"baseURL" yaml:"baseURL"`   // required, Dispatcharr server address, e.g. http://127.0.0.1:9191
	Username string            `json:"username" yaml:"username"` // required
	Password string            `json:"password" yaml:"password"` // required
	Headers  map[string]string `json:"headers" yaml:"headers"`   // custom HTTP request headers

	PageTitle   string `json:"pageTitle" yaml:"pageTitle"`
	ProfileName string `json:"profileName" yaml:"profileName"` // optional channel profile filter

	OptionExcludeGroups string   `json:"excludeGroups" yaml:"excludeGroups"` // comma-separated group names
	ExcludeGroups       []string `json:"-" yaml:"-"`                         // filled by Validate()

	RefreshCron string        `json:"refreshCron" yaml:"refreshCron"` // 5-field cron expression
	Schedule    cron.Schedule `json:"-" yaml:"-"`                     // filled by Validate(); nil falls back to a fixed interval
}

func (c *Config) Validate() error {
	if c.BaseURL == "" ||
		c.Username == "" ||
		c.Password == "" {
		return errors.New("invalid guidearr config")
	}

	logger := zap.L()

	if c.PageTitle == "" {
		c.PageTitle = defaultPageTitle
	}

	// fill the excluded group names
	c.ExcludeGroups = c.ExcludeGroups[:0]
	for _, name := range strings.Split(c.OptionExcludeGroups, ",") {
		if name = strings.TrimSpace(name); name != "" {
			c.ExcludeGroups = append(c.ExcludeGroups, name)
		}
	}

	// fill the parsed refresh schedule
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	schedule, err := cron.ParseStandard(c.RefreshCron)
	if err != nil {
		logger.Warn("The refresh cron expression is incorrect, falling back to a fixed interval.",
			zap.String("refreshCron", c.RefreshCron), zap.Error(err))
	} else {
		c.Schedule = schedule
	}

	return nil
}

func Load(fPath string) (*Config, error) {
	data, err := os.ReadFile(fPath)
	if err != nil {
		return nil, err
	}
	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	config.applyEnv()
	return &config, nil
}

// applyEnv lets the Dispatcharr environment variables override the file, so
// container deployments need no config file edits. A .env file beside the
// process is honored when present.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	setIfPresent := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setIfPresent(&c.BaseURL, "DISPATCHARR_BASE_URL")
	setIfPresent(&c.Username, "DISPATCHARR_USERNAME")
	setIfPresent(&c.Password, "DISPATCHARR_PASSWORD")
	setIfPresent(&c.ProfileName, "CHANNEL_PROFILE_NAME")
	setIfPresent(&c.OptionExcludeGroups, "EXCLUDE_CHANNEL_GROUPS")
	setIfPresent(&c.PageTitle, "PAGE_TITLE")
	setIfPresent(&c.RefreshCron, "CACHE_REFRESH_CRON")
}

func CreateDefaultCfg(fPath string) error {
	f, err := os.Create(fPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)

	defaultCfg := Config{
		BaseURL: "http://127.0.0.1:9191",
		Headers: map[string]string{
			"User-Agent": "guidearr/1.0",
		},
		PageTitle:   defaultPageTitle,
		RefreshCron: defaultRefreshCron,
	}

	return encoder.Encode(&defaultCfg)
}
