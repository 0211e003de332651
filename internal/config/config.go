package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/titanous/json5"
)

const DefaultPath = "config.json"

type Config struct {
	ExportTrophyInfo bool     `json:"exportTrophyInfo"`
	StoreOriginals   bool     `json:"storeOriginals"`
	ProcessOriginals bool     `json:"processOriginals"`
	AcceptedTypes    []string `json:"acceptedTypes"`
	FrameThickness   int      `json:"frameThickness"`
	ExportSizes      []int    `json:"exportSizes"`
	ExportTypes      []string `json:"exportTypes"`
	ImageNameRoot    string   `json:"imageNameRoot"`
	ImageNameEnd     string   `json:"imageNameEnd"`

	BaseURL               string `json:"baseURL"`
	UserAgent             string `json:"userAgent"`
	RequestTimeoutSeconds int    `json:"requestTimeoutSeconds"`
	CloudflareBypass      bool   `json:"cloudflareBypass"`

	FramePath    string `json:"framePath"`
	ConsumeDir   string `json:"consumeDir"`
	OriginalsDir string `json:"originalsDir"`
	ProcessedDir string `json:"processedDir"`
	CSVDir       string `json:"csvDir"`

	LogLevel   string `json:"logLevel"`
	LogFile    string `json:"logFile"`
	ServerAddr string `json:"serverAddr"`
}

// DefaultConfig mirrors the config.json written on first start.
func DefaultConfig() *Config {
	return &Config{
		ExportTrophyInfo: true,
		StoreOriginals:   false,
		ProcessOriginals: true,
		AcceptedTypes:    []string{".PNG", ".JPG", ".JPEG"},
		FrameThickness:   15,
		ExportSizes:      []int{240},
		ExportTypes:      []string{".PNG"},
		ImageNameRoot:    "",
		ImageNameEnd:     "",

		BaseURL:               "https://psnprofiles.com",
		UserAgent:             "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:76.0) Gecko/20100101 Firefox/76.0",
		RequestTimeoutSeconds: 30,
		CloudflareBypass:      false,

		FramePath:    "frame.png",
		ConsumeDir:   "consume",
		OriginalsDir: "originals",
		ProcessedDir: "processed",
		CSVDir:       ".",

		LogLevel:   "info",
		ServerAddr: ":8080",
	}
}

// Load reads path over the defaults. A missing file is created with the
// defaults. Values from the environment (and a .env file) win over both.
// created reports whether the file had to be written.
func Load(path string) (cfg *Config, created bool, err error) {
	_ = godotenv.Load()

	cfg = DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := cfg.Save(path); err != nil {
			return nil, false, fmt.Errorf("writing default config: %w", err)
		}
		created = true
	case err != nil:
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := json5.Unmarshal(data, cfg); err != nil {
			return nil, false, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := mergo.Merge(cfg, envOverrides(), mergo.WithOverride); err != nil {
		return nil, false, fmt.Errorf("applying env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, created, nil
}

// Save writes the config as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func (c *Config) Validate() error {
	if c.FrameThickness < 0 {
		return fmt.Errorf("frameThickness must be >= 0, got %d", c.FrameThickness)
	}
	if len(c.ExportSizes) == 0 {
		return fmt.Errorf("exportSizes must not be empty")
	}
	for _, size := range c.ExportSizes {
		if size <= 0 {
			return fmt.Errorf("exportSizes must be positive, got %d", size)
		}
	}
	if len(c.ExportTypes) == 0 {
		return fmt.Errorf("exportTypes must not be empty")
	}
	for _, t := range append(append([]string{}, c.ExportTypes...), c.AcceptedTypes...) {
		if !strings.HasPrefix(t, ".") || len(t) < 2 {
			return fmt.Errorf("file types must be dot-prefixed extensions, got %q", t)
		}
	}
	if c.BaseURL == "" {
		return fmt.Errorf("baseURL is required")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("requestTimeoutSeconds must be positive, got %d", c.RequestTimeoutSeconds)
	}
	return nil
}

// Warnings lists settings that are legal but probably not what the user wants.
func (c *Config) Warnings() []string {
	var out []string
	if len(c.ExportSizes) > 1 &&
		!strings.Contains(c.ImageNameRoot, "@s") &&
		!strings.Contains(c.ImageNameEnd, "@s") {
		out = append(out, "several exportSizes without an @s token in imageNameRoot/imageNameEnd: larger sizes overwrite smaller ones")
	}
	return out
}

func envOverrides() *Config {
	return &Config{
		BaseURL:    os.Getenv("BITHUNTER_BASE_URL"),
		FramePath:  os.Getenv("BITHUNTER_FRAME"),
		LogLevel:   os.Getenv("BITHUNTER_LOG_LEVEL"),
		LogFile:    os.Getenv("BITHUNTER_LOG_FILE"),
		ServerAddr: os.Getenv("BITHUNTER_SERVER_ADDR"),
	}
}
