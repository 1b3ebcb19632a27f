package cli

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/temirov/arc/internal/config"
	"github.com/temirov/arc/internal/types"
)

func TestResolveSettings(t *testing.T) {
	enabledValue := true
	configuration := config.ApplicationConfiguration{}
	configuration.Scan.ShowHidden = &enabledValue
	configuration.Scan.Exclude = []string{"vendor"}
	configuration.Output.Format = types.FormatJSON
	configuration.Tokens.Model = "gpt-4o"

	command := &cobra.Command{}
	command.Flags().String(formatFlagName, "", "")
	command.Flags().StringSlice(excludeFlagName, nil, "")
	if setError := command.Flags().Set(formatFlagName, types.FormatRaw); setError != nil {
		t.Fatal(setError)
	}
	if setError := command.Flags().Set(excludeFlagName, "node_modules"); setError != nil {
		t.Fatal(setError)
	}

	flagValues := &scanFlags{format: types.FormatRaw, exclude: []string{"node_modules"}}
	settings := resolveSettings(command, flagValues, configuration)

	if settings.format != types.FormatRaw {
		t.Errorf("format = %q, changed flag must override configuration", settings.format)
	}
	if len(settings.exclude) != 1 || settings.exclude[0] != "node_modules" {
		t.Errorf("exclude = %v, changed flag must override configuration", settings.exclude)
	}
	if !settings.showHidden {
		t.Error("showHidden lost, untouched configuration value must survive")
	}
	if settings.model != "gpt-4o" {
		t.Errorf("model = %q, configuration value must survive", settings.model)
	}
}

func TestResolveSettingsDefaults(t *testing.T) {
	command := &cobra.Command{}
	settings := resolveSettings(command, &scanFlags{}, config.ApplicationConfiguration{})

	if settings.format != types.FormatRaw {
		t.Errorf("format = %q, expected raw default", settings.format)
	}
	if settings.showHidden || settings.noGitignore || settings.scanBinary || settings.countTokens {
		t.Errorf("boolean defaults wrong: %+v", settings)
	}
	if settings.maxFileSize != 0 {
		t.Errorf("maxFileSize = %d, expected 0 so the rule set picks its default", settings.maxFileSize)
	}
}
