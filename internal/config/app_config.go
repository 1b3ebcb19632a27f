// Package config discovers, loads, and merges the arc configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/arc/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the file-backed defaults for one run. Flag
// values override whatever the merged configuration carries.
type ApplicationConfiguration struct {
	Scan   ScanConfiguration   `mapstructure:"scan"`
	Output OutputConfiguration `mapstructure:"output"`
	Tokens TokenConfiguration  `mapstructure:"tokens"`
}

// ScanConfiguration defines traversal and filtering defaults.
type ScanConfiguration struct {
	FileTypes        []string `mapstructure:"file_types"`
	Exclude          []string `mapstructure:"exclude"`
	PathContains     []string `mapstructure:"path_contains"`
	ContentContains  []string `mapstructure:"content_contains"`
	MaxFileSizeBytes *int64   `mapstructure:"max_file_size"`
	ShowHidden       *bool    `mapstructure:"show_hidden"`
	UseGitignore     *bool    `mapstructure:"use_gitignore"`
	ScanBinary       *bool    `mapstructure:"scan_binary"`
	StripComments    *bool    `mapstructure:"strip_comments"`
	Compress         *bool    `mapstructure:"compress"`
	FailFast         *bool    `mapstructure:"fail_fast"`
	Workers          *int     `mapstructure:"workers"`
}

// OutputConfiguration defines rendering and sink defaults.
type OutputConfiguration struct {
	Format    string `mapstructure:"format"`
	Clipboard *bool  `mapstructure:"clipboard"`
	File      string `mapstructure:"file"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads configuration from the global file under
// the user configuration directory and the local file in the working
// directory, merging local values over global ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, "config.yaml")
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Scan.Exclude = utils.DeduplicatePatterns(merged.Scan.Exclude)
	merged.Scan.FileTypes = utils.DeduplicatePatterns(merged.Scan.FileTypes)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var loaded ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&loaded); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return loaded, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Scan = result.Scan.merge(override.Scan)
	result.Output = result.Output.merge(override.Output)
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (configuration ScanConfiguration) merge(override ScanConfiguration) ScanConfiguration {
	result := configuration
	if len(override.FileTypes) > 0 {
		result.FileTypes = append([]string{}, utils.DeduplicatePatterns(override.FileTypes)...)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.PathContains) > 0 {
		result.PathContains = append([]string{}, override.PathContains...)
	}
	if len(override.ContentContains) > 0 {
		result.ContentContains = append([]string{}, override.ContentContains...)
	}
	if override.MaxFileSizeBytes != nil {
		result.MaxFileSizeBytes = cloneInt64(override.MaxFileSizeBytes)
	}
	if override.ShowHidden != nil {
		result.ShowHidden = cloneBool(override.ShowHidden)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.ScanBinary != nil {
		result.ScanBinary = cloneBool(override.ScanBinary)
	}
	if override.StripComments != nil {
		result.StripComments = cloneBool(override.StripComments)
	}
	if override.Compress != nil {
		result.Compress = cloneBool(override.Compress)
	}
	if override.FailFast != nil {
		result.FailFast = cloneBool(override.FailFast)
	}
	if override.Workers != nil {
		result.Workers = cloneInt(override.Workers)
	}
	return result
}

func (configuration OutputConfiguration) merge(override OutputConfiguration) OutputConfiguration {
	result := configuration
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.File != "" {
		result.File = override.File
	}
	return result
}

func (configuration TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
