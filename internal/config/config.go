package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Profiles []Profile    `yaml:"profiles"`
	Feeds    []Feed       `yaml:"feeds"`
	Filter   FilterConfig `yaml:"filter"`
	Repost   RepostConfig `yaml:"repost"`
	Search   SearchConfig `yaml:"search"`
	Fetch    FetchConfig  `yaml:"fetch"`
	Report   ReportConfig `yaml:"report"`
	Email    EmailConfig  `yaml:"email"`
	Daemon   DaemonConfig `yaml:"daemon"`
	Log      LogConfig    `yaml:"log"`
}

// Profile is a named topic whose keywords act as base keywords when selected.
type Profile struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Kind string `yaml:"kind,omitempty"`
}

type FilterConfig struct {
	MustHave     []string `yaml:"must_have,omitempty"`
	NiceToHave   []string `yaml:"nice_to_have,omitempty"`
	Exclude      []string `yaml:"exclude,omitempty"`
	Keywords     []string `yaml:"keywords,omitempty"`
	LookbackDays int      `yaml:"lookback_days"`
}

type RepostConfig struct {
	Threshold          float64  `yaml:"threshold"`
	TargetDiscount     float64  `yaml:"target_discount"`
	ThresholdFloor     float64  `yaml:"threshold_floor"`
	SnippetMargin      float64  `yaml:"snippet_margin"`
	MaxQueriesPerPost  int      `yaml:"max_queries_per_post"`
	ShortPostQueries   int      `yaml:"short_post_queries"`
	ShortPostWords     int      `yaml:"short_post_words"`
	MaxResultsPerQuery int      `yaml:"max_results_per_query"`
	MinCandidateWords  int      `yaml:"min_candidate_words"`
	Concurrency        int      `yaml:"concurrency"`
	KeywordWindow      int      `yaml:"keyword_window"`
	AttributionTag     string   `yaml:"attribution_tag,omitempty"`
	TargetDomains      []string `yaml:"target_domains"`
	ExcludedDomains    []string `yaml:"excluded_domains,omitempty"`
	Stopwords          []string `yaml:"stopwords,omitempty"`
}

type SearchConfig struct {
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"api_key,omitempty"`
	MinIntervalMS  int    `yaml:"min_interval_ms"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type FetchConfig struct {
	Concurrency    int    `yaml:"concurrency"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
}

type ReportConfig struct {
	BucketPolicy string `yaml:"bucket_policy"`
	SummaryWords int    `yaml:"summary_words"`
}

type EmailConfig struct {
	Sender    string `yaml:"sender,omitempty"`
	Recipient string `yaml:"recipient,omitempty"`
	Server    string `yaml:"server,omitempty"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username,omitempty"`
	Password  string `yaml:"password,omitempty"`
}

type DaemonConfig struct {
	IntervalHours int  `yaml:"interval_hours"`
	SendReport    bool `yaml:"send_report"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		Profiles: defaultProfiles(),
		Feeds:    defaultFeeds(),
		Filter: FilterConfig{
			NiceToHave:   []string{"hnb", "vlada", "sabor", "europska komisija"},
			Exclude:      []string{"sport", "nogomet", "rukomet"},
			LookbackDays: 2,
		},
		Repost: RepostConfig{
			Threshold:          0.6,
			TargetDiscount:     0.15,
			ThresholdFloor:     0.05,
			SnippetMargin:      0.05,
			MaxQueriesPerPost:  25,
			ShortPostQueries:   12,
			ShortPostWords:     200,
			MaxResultsPerQuery: 15,
			MinCandidateWords:  30,
			Concurrency:        2,
			KeywordWindow:      120,
			TargetDomains: []string{
				"lidermedia.hr",
				"lider.media",
				"tportal.hr",
				"index.hr",
				"n1info.hr",
				"jutarnji.hr",
				"vecernji.hr",
				"poslovni.hr",
			},
		},
		Search: SearchConfig{
			Endpoint:       "https://google.serper.dev/search",
			MinIntervalMS:  1000,
			TimeoutSeconds: 20,
		},
		Fetch: FetchConfig{
			Concurrency:    5,
			TimeoutSeconds: 30,
			UserAgent:      "presswatch/1.0",
		},
		Report: ReportConfig{
			BucketPolicy: "all",
			SummaryWords: 80,
		},
		Email: EmailConfig{
			Port: 587,
		},
		Daemon: DaemonConfig{
			IntervalHours: 24,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultProfiles() []Profile {
	return []Profile{
		{Name: "Porezi i proracun", Keywords: []string{
			"porezna reforma", "porez na dohodak", "porez na dobit", "pdv", "proracun",
			"fiskalna politika", "porezni prihodi", "porezne olaksice", "trosarine", "doprinosi",
			"proracunski deficit", "javne financije",
		}},
		{Name: "Mirovine i socijalna politika", Keywords: []string{
			"mirovinska reforma", "mirovinski sustav", "socijalna pomoc", "djecji doplatak",
			"minimalna placa", "zaposljavanje",
		}},
		{Name: "Klimatske politike i energija", Keywords: []string{
			"klimatska politika", "co2", "porez na ugljik", "obnovljivi izvori", "energija",
			"energetska tranzicija", "zelena tranzicija", "eu ets", "klimatska neutralnost",
		}},
		{Name: "Subvencije i drzavne potpore", Keywords: []string{
			"subvencije", "drzavne potpore", "potpore poduzecima", "nacionalni plan oporavka",
			"europski fondovi", "eu fondovi",
		}},
	}
}

func defaultFeeds() []Feed {
	return []Feed{
		{Name: "N1", URL: "https://n1info.hr/feed/"},
		{Name: "Index Vijesti", URL: "https://www.index.hr/rss/vijesti"},
		{Name: "Index Novac", URL: "https://www.index.hr/rss/vijesti-novac"},
		{Name: "Jutarnji", URL: "https://www.jutarnji.hr/rss"},
		{Name: "Vecernji", URL: "https://www.vecernji.hr/rss"},
		{Name: "Tportal", URL: "https://www.tportal.hr/rss"},
		{Name: "24sata", URL: "https://www.24sata.hr/feeds/news.xml"},
		{Name: "Poslovni", URL: "https://www.poslovni.hr/feed"},
		{Name: "Lider", URL: "https://lidermedia.hr/rss"},
		{Name: "HRT Vijesti", URL: "https://vijesti.hrt.hr/rss"},
	}
}

// ProfileKeywords returns the concatenated keywords of the named profiles,
// or of every profile when names is empty. Unknown names are ignored.
func (c *Config) ProfileKeywords(names []string) []string {
	var keywords []string
	for _, p := range c.SelectProfiles(names) {
		keywords = append(keywords, p.Keywords...)
	}
	return keywords
}

func (c *Config) SelectProfiles(names []string) []Profile {
	if len(names) == 0 {
		return c.Profiles
	}
	var selected []Profile
	for _, name := range names {
		for _, p := range c.Profiles {
			if p.Name == name {
				selected = append(selected, p)
			}
		}
	}
	return selected
}

func Dir() string {
	if dir := os.Getenv("PRESSWATCH_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".presswatch")
}

func DBPath() string {
	return filepath.Join(Dir(), "presswatch.db")
}

// Path is the location of config.yaml.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SERPER_API_KEY"); v != "" {
		c.Search.APIKey = v
	}
	if v := os.Getenv("EMAIL_SENDER"); v != "" {
		c.Email.Sender = v
	}
	if v := os.Getenv("EMAIL_RECIPIENT"); v != "" {
		c.Email.Recipient = v
	}
	if v := os.Getenv("SMTP_SERVER"); v != "" {
		c.Email.Server = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Email.Port = port
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		c.Email.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Email.Password = v
	}
}

func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(Path(), data, 0644)
}
