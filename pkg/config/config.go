/*
Package config manages the TOML config of the launcher.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/cmdfinder/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Search SearchConfig `toml:"search"`
	Paths  PathsConfig  `toml:"paths"`
	Launch LaunchConfig `toml:"launch"`
	Remote RemoteConfig `toml:"remote"`
}

// SearchConfig has candidate list options.
type SearchConfig struct {
	Pinned []string `toml:"pinned"`
	Limit  int      `toml:"limit"`
}

// PathsConfig holds file locations. Empty values use the data dir defaults.
type PathsConfig struct {
	ProjectsDir   string `toml:"projects_dir"`
	FrequencyFile string `toml:"frequency_file"`
}

// LaunchConfig controls how resolved commands are run.
type LaunchConfig struct {
	Shell       string `toml:"shell"`
	Wrapper     string `toml:"wrapper"`
	OpenProject string `toml:"open_project"`
	Notify      bool   `toml:"notify"`
}

// RemoteConfig is the ssh target of `!` commands.
type RemoteConfig struct {
	User         string `toml:"user"`
	Host         string `toml:"host"`
	FallbackHost string `toml:"fallback_host"`
	SSHFlags     string `toml:"ssh_flags"`
}

const (
	configFileName    = "config.toml"
	frequencyFileName = "frequency.map"
)

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath(configFileName)
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/cmdfinder/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Pinned: []string{
				"open-project",
				"gitkraken",
				"okular",
				"backup",
				"steam",
				"texstudio",
				"restart",
				"off",
			},
			Limit: 24,
		},
		Paths: PathsConfig{
			ProjectsDir: "~/Projects",
		},
		Launch: LaunchConfig{
			Shell:       "sh",
			Wrapper:     "i3-msg exec",
			OpenProject: "code {path}",
			Notify:      true,
		},
		Remote: RemoteConfig{
			User: os.Getenv("USER"),
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every section that still decodes and defaults the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(tempConfig, "paths"); ok {
		extractPathsConfig(section, &config.Paths)
	}
	if section, ok := utils.ExtractSection(tempConfig, "launch"); ok {
		extractLaunchConfig(section, &config.Launch)
	}
	if section, ok := utils.ExtractSection(tempConfig, "remote"); ok {
		extractRemoteConfig(section, &config.Remote)
	}
	return config, nil
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractStringSlice(data, "pinned"); ok {
		search.Pinned = val
	}
	if val, ok := utils.ExtractInt64(data, "limit"); ok {
		search.Limit = val
	}
}

func extractPathsConfig(data map[string]any, paths *PathsConfig) {
	if val, ok := utils.ExtractString(data, "projects_dir"); ok {
		paths.ProjectsDir = val
	}
	if val, ok := utils.ExtractString(data, "frequency_file"); ok {
		paths.FrequencyFile = val
	}
}

func extractLaunchConfig(data map[string]any, launch *LaunchConfig) {
	if val, ok := utils.ExtractString(data, "shell"); ok {
		launch.Shell = val
	}
	if val, ok := utils.ExtractString(data, "wrapper"); ok {
		launch.Wrapper = val
	}
	if val, ok := utils.ExtractString(data, "open_project"); ok {
		launch.OpenProject = val
	}
	if val, ok := utils.ExtractBool(data, "notify"); ok {
		launch.Notify = val
	}
}

func extractRemoteConfig(data map[string]any, remote *RemoteConfig) {
	if val, ok := utils.ExtractString(data, "user"); ok {
		remote.User = val
	}
	if val, ok := utils.ExtractString(data, "host"); ok {
		remote.Host = val
	}
	if val, ok := utils.ExtractString(data, "fallback_host"); ok {
		remote.FallbackHost = val
	}
	if val, ok := utils.ExtractString(data, "ssh_flags"); ok {
		remote.SSHFlags = val
	}
}

// ProjectsDir returns the projects directory with ~ expanded.
func (c *Config) ProjectsDir() string {
	return utils.ExpandHome(c.Paths.ProjectsDir)
}

// FrequencyPath returns the usage statistics file, defaulting to the data directory.
func (c *Config) FrequencyPath(pr *utils.PathResolver) (string, error) {
	if c.Paths.FrequencyFile != "" {
		return pr.ExpandHome(c.Paths.FrequencyFile), nil
	}
	return pr.GetDataPath(frequencyFileName)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
