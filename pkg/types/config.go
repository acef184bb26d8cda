// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "file-converter/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

const (
	DefaultBaseURL    = "http://localhost:5000"
	DefaultUserAgent  = "file-converter/0.1"
	DefaultTimeout    = 120 * time.Second
	DefaultMaxRetries = 3
)

// ServiceConfig locates the external conversion service.
type ServiceConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the service root; /convert and /download/ are resolved
	// against it.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// MaxRetries bounds 429 retries on download requests. Conversion
	// requests are never retried.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (c ServiceConfig) WithDefaults() ServiceConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	return c
}

// ProgressConfig tunes the decorative progress bar.
type ProgressConfig struct {
	// TickInterval is the delay between random increments (default 200ms).
	TickInterval time.Duration `json:"tick_interval" yaml:"tick_interval"`

	// MaxIncrement is the exclusive upper bound of each increment, in
	// percentage points (default 15).
	MaxIncrement float64 `json:"max_increment" yaml:"max_increment"`

	// Ceiling caps the value while the tick loop runs (default 90).
	Ceiling float64 `json:"ceiling" yaml:"ceiling"`

	// Deadline is when the bar is forced to 100 (default 2s).
	Deadline time.Duration `json:"deadline" yaml:"deadline"`
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (c ProgressConfig) WithDefaults() ProgressConfig {
	if c.TickInterval <= 0 {
		c.TickInterval = 200 * time.Millisecond
	}
	if c.MaxIncrement <= 0 {
		c.MaxIncrement = 15
	}
	if c.Ceiling <= 0 || c.Ceiling > 100 {
		c.Ceiling = 90
	}
	if c.Deadline <= 0 {
		c.Deadline = 2 * time.Second
	}
	return c
}

// NotificationConfig controls how long notifications stay on screen.
type NotificationConfig struct {
	// DisplayDuration is how long a notification is shown before its exit
	// transition starts (default 3s).
	DisplayDuration time.Duration `json:"display_duration" yaml:"display_duration"`

	// ExitDuration is the exit transition length (default 400ms).
	ExitDuration time.Duration `json:"exit_duration" yaml:"exit_duration"`
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (c NotificationConfig) WithDefaults() NotificationConfig {
	if c.DisplayDuration <= 0 {
		c.DisplayDuration = 3 * time.Second
	}
	if c.ExitDuration <= 0 {
		c.ExitDuration = 400 * time.Millisecond
	}
	return c
}

// ClientConfig groups everything the controller and CLI need.
type ClientConfig struct {
	Service       ServiceConfig      `json:"service" yaml:"service"`
	Progress      ProgressConfig     `json:"progress" yaml:"progress"`
	Notifications NotificationConfig `json:"notifications" yaml:"notifications"`

	// CatalogFile is an optional YAML file listing the supported formats.
	// The built-in catalog is used when empty.
	CatalogFile string `json:"catalog_file,omitempty" yaml:"catalog_file,omitempty"`

	// OutputDir is where downloaded artifacts are saved.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// WithDefaults returns a copy with every section defaulted.
func (c ClientConfig) WithDefaults() ClientConfig {
	c.Service = c.Service.WithDefaults()
	c.Progress = c.Progress.WithDefaults()
	c.Notifications = c.Notifications.WithDefaults()
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	return c
}

// StubServerConfig configures the local stand-in conversion service.
type StubServerConfig struct {
	// Addr is the listen address (default ":5000").
	Addr string `json:"addr" yaml:"addr"`

	// StorageDir holds uploaded files and generated artifacts.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// MaxUploadBytes limits the request body (default 50 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (c StubServerConfig) WithDefaults() StubServerConfig {
	if c.Addr == "" {
		c.Addr = ":5000"
	}
	if c.StorageDir == "" {
		c.StorageDir = "stub-data"
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 50 << 20
	}
	return c
}
