package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/reportlens/internal/app"
	"github.com/atomicstack/reportlens/internal/document"
	"github.com/atomicstack/reportlens/internal/ui/scroll"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// File mirrors the optional YAML configuration file. Every value is a
// default that environment variables and flags override.
type File struct {
	Sections     string   `yaml:"sections"`
	Align        *float64 `yaml:"align"`
	GuardTimeout string   `yaml:"guard_timeout"`
	Animate      *bool    `yaml:"animate"`
	Watch        *bool    `yaml:"watch"`
	Width        int      `yaml:"width"`
	Height       int      `yaml:"height"`
	Footer       *bool    `yaml:"footer"`
	Style        string   `yaml:"style"`
	LogFile      string   `yaml:"log_file"`
	Trace        *bool    `yaml:"trace"`
	Documents    []string `yaml:"documents"`
}

const (
	envConfig       = "REPORTLENS_CONFIG"
	envSections     = "REPORTLENS_SECTIONS"
	envAlign        = "REPORTLENS_ALIGN"
	envGuardTimeout = "REPORTLENS_GUARD_TIMEOUT"
	envAnimate      = "REPORTLENS_ANIMATE"
	envWatch        = "REPORTLENS_WATCH"
	envWidth        = "REPORTLENS_WIDTH"
	envHeight       = "REPORTLENS_HEIGHT"
	envShowFooter   = "REPORTLENS_FOOTER"
	envStyle        = "REPORTLENS_STYLE"
	envTrace        = "REPORTLENS_TRACE"
	envLogFile      = "REPORTLENS_LOG_FILE"
)

var validStyles = []string{"auto", "dark", "light", "notty", "plain"}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	configPath := envOrDefault(env, envConfig, "")
	if p, ok := scanConfigFlag(args); ok {
		configPath = p
	}
	file, err := ReadFile(configPath)
	if err != nil {
		return Config{}, err
	}
	def := scroll.DefaultConfig()
	fileAlign := def.Align
	if file.Align != nil {
		fileAlign = *file.Align
	}
	fileTimeout := def.GuardTimeout
	if file.GuardTimeout != "" {
		fileTimeout, err = time.ParseDuration(file.GuardTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("%s: guard_timeout: %w", configPath, err)
		}
	}

	fs := flag.NewFlagSet("reportlens", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", configPath, "path to a YAML file with default settings")
	sections := fs.String("sections", envOrDefault(env, envSections, file.Sections), "section definitions markdown (path or URL; empty uses the built-in git-metrics set)")
	align := fs.Float64("align", envOrFloat(env, envAlign, fileAlign), "fraction of the content pane above the focused section's midpoint")
	guardTimeout := fs.Duration("guard-timeout", envOrDuration(env, envGuardTimeout, fileTimeout), "longest time manual scrolling is ignored after a programmatic scroll")
	animate := fs.Bool("animate", envOrBool(env, envAnimate, boolOr(file.Animate, true)), "animate programmatic scrolling")
	watch := fs.Bool("watch", envOrBool(env, envWatch, boolOr(file.Watch, false)), "reload documents and definitions when their files change")
	width := fs.Int("width", envOrInt(env, envWidth, file.Width), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, file.Height), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, boolOr(file.Footer, false)), "enable footer hint row (disabled by default)")
	style := fs.String("style", envOrDefault(env, envStyle, stringOr(file.Style, "auto")), "explanation style: auto, dark, light, notty or plain")
	list := fs.Bool("list", false, "print the sections of every document and exit")
	trace := fs.Bool("trace", envOrBool(env, envTrace, boolOr(file.Trace, false)), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, file.LogFile), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *align < 0 || *align > 1 {
		return Config{}, fmt.Errorf("align must be between 0 and 1 (got %g)", *align)
	}
	if *guardTimeout <= 0 {
		return Config{}, fmt.Errorf("guard-timeout must be positive (got %s)", *guardTimeout)
	}
	styleName := strings.ToLower(strings.TrimSpace(*style))
	if !validStyle(styleName) {
		return Config{}, fmt.Errorf("unknown style %q (want one of %s)", *style, strings.Join(validStyles, ", "))
	}

	documents := fs.Args()
	if len(documents) == 0 {
		documents = file.Documents
	}

	scrollCfg := def
	scrollCfg.Align = *align
	scrollCfg.GuardTimeout = *guardTimeout

	cfg := Config{
		App: app.Config{
			Documents:   append([]string(nil), documents...),
			Definitions: *sections,
			Scroll:      scrollCfg,
			Animate:     *animate,
			Watch:       *watch,
			Width:       *width,
			Height:      *height,
			ShowFooter:  *footer,
			Style:       styleName,
			List:        *list,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"config":       configPath,
			"sections":     *sections,
			"align":        strconv.FormatFloat(*align, 'g', -1, 64),
			"guardTimeout": guardTimeout.String(),
			"animate":      strconv.FormatBool(*animate),
			"watch":        strconv.FormatBool(*watch),
			"width":        strconv.Itoa(*width),
			"height":       strconv.Itoa(*height),
			"footer":       strconv.FormatBool(*footer),
			"style":        styleName,
			"list":         strconv.FormatBool(*list),
			"trace":        strconv.FormatBool(*trace),
			"logFile":      *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// ReadFile loads the YAML defaults at path. An empty path yields an empty
// File.
func ReadFile(path string) (File, error) {
	var file File
	if strings.TrimSpace(path) == "" {
		return file, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config %s: %w", path, err)
	}
	return file, nil
}

// scanConfigFlag finds -config ahead of the real parse so the file can
// supply the defaults of every other flag.
func scanConfigFlag(args []string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if value, ok := strings.CutPrefix(name, "config="); ok {
			return value, true
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

func validStyle(name string) bool {
	for _, s := range validStyles {
		if s == name {
			return true
		}
	}
	return false
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrFloat(env map[string]string, key string, fallback float64) float64 {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func stringOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if len(cfg.App.Documents) == 0 {
		return document.ErrNoDocuments
	}
	for _, doc := range cfg.App.Documents {
		if strings.TrimSpace(doc) == "" {
			return errors.New("empty document location")
		}
	}
	return nil
}
