package config

// FeedConfig represents a complete feed configuration file.
type FeedConfig struct {
	Feed        FeedInfo      `yaml:"feed"`
	Settings    FeedSettings  `yaml:"settings"`
	Comparisons Comparisons   `yaml:"comparisons"`
	Filters     []Filter      `yaml:"filters"`
	Mediums     []MediumEntry `yaml:"mediums"`
}

// FeedInfo contains basic feed information. ID is the stable identifier used
// to scope fingerprints and delivery records.
type FeedInfo struct {
	ID   string `yaml:"id"`
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

// FeedSettings contains feed processing settings.
type FeedSettings struct {
	Enabled            bool `yaml:"enabled"`
	RefreshInterval    int  `yaml:"refresh_interval"` // seconds
	Timeout            int  `yaml:"timeout"`          // seconds
	MaxArticles        int  `yaml:"max_articles"`
	DeliveryRateLimit  int  `yaml:"delivery_rate_limit"`  // max sent+rejected per window, 0 disables
	DeliveryRateWindow int  `yaml:"delivery_rate_window"` // seconds
}

// Comparisons configures change detection beyond the article id.
type Comparisons struct {
	Fields   []string `yaml:"fields"`
	Strategy string   `yaml:"strategy"` // "any" or "all"
}

// Filter represents a content filter rule.
type Filter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// MediumEntry configures one delivery medium for the feed.
type MediumEntry struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"` // currently only "webhook"
	URL  string `yaml:"url"`
}
