package config

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// DefaultProfile is the port profile used for apps without their own entry.
const DefaultProfile = "default"

// Config represents an msdev.yaml configuration file.
// All values are optional; Defaults() fills anything left unset.
type Config struct {
	Paths  PathsConfig  `yaml:"paths"`
	Build  BuildConfig  `yaml:"build"`
	Bridge BridgeConfig `yaml:"bridge"`
	Serve  ServeConfig  `yaml:"serve"`
	Notify NotifyConfig `yaml:"notify"`
}

// PathsConfig holds workspace-relative directories.
type PathsConfig struct {
	// Bin is where final artifacts land: <bin>/<app>/<mode>/.
	Bin string `yaml:"bin"`
	// Build is the CMake build tree root: <build>/<app>/<mode>/.
	Build string `yaml:"build"`
	// Cache holds the dependency cache and build records.
	Cache string `yaml:"cache"`
	// Tools is the bundled-tools directory searched before PATH.
	Tools string `yaml:"tools"`
}

// BuildConfig holds build pipeline settings.
type BuildConfig struct {
	// Prerequisites are sibling source directories that must exist.
	Prerequisites []string `yaml:"prerequisites"`
	// DepsScript is the CMake script that populates the dependency cache.
	DepsScript       string   `yaml:"deps_script"`
	ConfigureTimeout Duration `yaml:"configure_timeout"`
	CompileTimeout   Duration `yaml:"compile_timeout"`
	DepsTimeout      Duration `yaml:"deps_timeout"`
	// BuildType is passed as CMAKE_BUILD_TYPE.
	BuildType string `yaml:"build_type"`
}

// BridgeConfig holds bridge supervision settings.
type BridgeConfig struct {
	// Executable overrides bridge lookup with an explicit path.
	Executable   string                 `yaml:"executable"`
	ReadyTimeout Duration               `yaml:"ready_timeout"`
	StopTimeout  Duration               `yaml:"stop_timeout"`
	Ports        map[string]PortProfile `yaml:"ports"`
}

// PortProfile is the set of bridge ports for one application.
type PortProfile struct {
	// Native is the controller UDP port used by native simulators.
	Native int `yaml:"native"`
	// Wasm is the controller WebSocket port used by wasm simulators.
	Wasm int `yaml:"wasm"`
	// Host is the UDP port the bridge uses toward host MIDI.
	Host int `yaml:"host"`
}

// ServeConfig holds wasm dev-server settings.
type ServeConfig struct {
	Port int `yaml:"port"`
}

// NotifyConfig holds build notification adapter settings.
type NotifyConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
	// Secret signs webhook bodies (webhook only).
	Secret string `yaml:"secret,omitempty"`
	// LastTTL expires the redis last-build keys (redis only).
	LastTTL Duration `yaml:"last_ttl,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "20m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Paths: PathsConfig{
			Bin:   "bin",
			Build: ".build",
			Cache: ".build-cache",
			Tools: "tools",
		},
		Build: BuildConfig{
			Prerequisites:    []string{"open-control/framework", "open-control/hal-sdl"},
			DepsScript:       "open-control/hal-sdl/cmake/fetch_deps.cmake",
			ConfigureTimeout: Duration{20 * time.Minute},
			CompileTimeout:   Duration{30 * time.Minute},
			DepsTimeout:      Duration{10 * time.Minute},
			BuildType:        "Release",
		},
		Bridge: BridgeConfig{
			ReadyTimeout: Duration{2 * time.Second},
			StopTimeout:  Duration{2 * time.Second},
			Ports: map[string]PortProfile{
				DefaultProfile: {Native: 8000, Wasm: 8100, Host: 9001},
				"core":         {Native: 8000, Wasm: 8100, Host: 9001},
				"bitwig":       {Native: 8001, Wasm: 8101, Host: 9002},
			},
		},
		Serve: ServeConfig{Port: 8080},
	}
}

// applyDefaults fills zero values from Defaults(). Port profiles merge
// per app: user entries win, built-in entries fill the rest.
func (c *Config) applyDefaults() {
	d := Defaults()

	setString(&c.Paths.Bin, d.Paths.Bin)
	setString(&c.Paths.Build, d.Paths.Build)
	setString(&c.Paths.Cache, d.Paths.Cache)
	setString(&c.Paths.Tools, d.Paths.Tools)

	if c.Build.Prerequisites == nil {
		c.Build.Prerequisites = d.Build.Prerequisites
	}
	setString(&c.Build.DepsScript, d.Build.DepsScript)
	setString(&c.Build.BuildType, d.Build.BuildType)
	setDuration(&c.Build.ConfigureTimeout, d.Build.ConfigureTimeout)
	setDuration(&c.Build.CompileTimeout, d.Build.CompileTimeout)
	setDuration(&c.Build.DepsTimeout, d.Build.DepsTimeout)

	setDuration(&c.Bridge.ReadyTimeout, d.Bridge.ReadyTimeout)
	setDuration(&c.Bridge.StopTimeout, d.Bridge.StopTimeout)
	if c.Bridge.Ports == nil {
		c.Bridge.Ports = make(map[string]PortProfile, len(d.Bridge.Ports))
	}
	for name, profile := range d.Bridge.Ports {
		if _, ok := c.Bridge.Ports[name]; !ok {
			c.Bridge.Ports[name] = profile
		}
	}

	if c.Serve.Port == 0 {
		c.Serve.Port = d.Serve.Port
	}
}

// Validate checks semantic constraints that YAML decoding cannot.
func (c *Config) Validate() error {
	var errs []error
	for _, name := range c.ProfileNames() {
		p := c.Bridge.Ports[name]
		for field, port := range map[string]int{"native": p.Native, "wasm": p.Wasm, "host": p.Host} {
			if port < 1 || port > 65535 {
				errs = append(errs, fmt.Errorf("bridge.ports.%s.%s: port %d out of range", name, field, port))
			}
		}
		if p.Native == p.Host {
			errs = append(errs, fmt.Errorf("bridge.ports.%s: native and host ports must differ (both %d)", name, p.Host))
		}
	}
	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		errs = append(errs, fmt.Errorf("serve.port: port %d out of range", c.Serve.Port))
	}
	switch c.Notify.Type {
	case "", "webhook", "redis":
	default:
		errs = append(errs, fmt.Errorf("notify.type: unknown adapter %q (must be webhook or redis)", c.Notify.Type))
	}
	if c.Notify.Type != "" && c.Notify.URL == "" {
		errs = append(errs, fmt.Errorf("notify.url: required for %s adapter", c.Notify.Type))
	}
	if c.Notify.Secret != "" && c.Notify.Type != "webhook" {
		errs = append(errs, errors.New("notify.secret: only the webhook adapter signs requests"))
	}
	return errors.Join(errs...)
}

// PortsFor returns the port profile for app, falling back to the default profile.
func (c *Config) PortsFor(app string) PortProfile {
	if p, ok := c.Bridge.Ports[app]; ok {
		return p
	}
	return c.Bridge.Ports[DefaultProfile]
}

// ProfileNames returns configured port profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Bridge.Ports))
	for name := range c.Bridge.Ports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func setDuration(dst *Duration, def Duration) {
	if dst.Duration == 0 {
		*dst = def
	}
}
