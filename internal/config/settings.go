// Package config supplies the pipeline's runtime settings and the
// parameter-store configuration provider.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	defaultProjectName    = "media-processing-pipeline"
	defaultEnvironment    = "dev"
	defaultExpectedSource = "aws.macie2"
	defaultQuarantinePfx  = "quarantine/"
	defaultAlertSource    = "media-processing-pipeline.security"
	defaultAlertDetail    = "High Severity PII Detection"
)

// Settings are the process-level knobs, resolved once at startup from the
// environment with defaults. Per-invocation configuration comes from the
// parameter store instead (see Provider).
type Settings struct {
	ProjectName      string `mapstructure:"project_name"`
	Environment      string `mapstructure:"environment"`
	Region           string `mapstructure:"region"`
	ExpectedSource   string `mapstructure:"expected_source"`
	QuarantinePrefix string `mapstructure:"quarantine_prefix"`
	AlertSource      string `mapstructure:"alert_source"`
	AlertDetailType  string `mapstructure:"alert_detail_type"`
}

// Load resolves settings from environment variables, falling back to
// defaults for anything unset.
func Load() (Settings, error) {
	v := viper.New()

	v.SetDefault("project_name", defaultProjectName)
	v.SetDefault("environment", defaultEnvironment)
	v.SetDefault("region", "")
	v.SetDefault("expected_source", defaultExpectedSource)
	v.SetDefault("quarantine_prefix", defaultQuarantinePfx)
	v.SetDefault("alert_source", defaultAlertSource)
	v.SetDefault("alert_detail_type", defaultAlertDetail)

	v.BindEnv("project_name", "PROJECT_NAME")
	v.BindEnv("environment", "ENVIRONMENT")
	v.BindEnv("region", "AWS_REGION")
	v.BindEnv("expected_source", "EXPECTED_EVENT_SOURCE")
	v.BindEnv("quarantine_prefix", "QUARANTINE_PREFIX")
	v.BindEnv("alert_source", "ALERT_EVENT_SOURCE")
	v.BindEnv("alert_detail_type", "ALERT_DETAIL_TYPE")

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return settings, nil
}

// ParameterPrefix is the parameter-store namespace for this deployment.
func (s Settings) ParameterPrefix() string {
	return fmt.Sprintf("/%s/%s", s.ProjectName, s.Environment)
}
