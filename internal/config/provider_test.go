package config

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mediaops/piisentry/internal/awsc"
	apperrors "github.com/mediaops/piisentry/internal/errors"
	"github.com/mediaops/piisentry/internal/logger"
)

func testProvider(store awsc.ParameterStoreAPI) *Provider {
	settings := Settings{ProjectName: "media-processing-pipeline", Environment: "dev"}
	return NewProvider(store, settings, logger.Discard())
}

func param(name, value string) ssmtypes.Parameter {
	return ssmtypes.Parameter{Name: aws.String(name), Value: aws.String(value)}
}

func TestFetchStripsNamespacePrefix(t *testing.T) {
	store := &awsc.MockParameterStore{}
	store.On("GetParametersByPath", mock.Anything, mock.MatchedBy(func(input *ssm.GetParametersByPathInput) bool {
		return *input.Path == "/media-processing-pipeline/dev" &&
			*input.Recursive && *input.WithDecryption
	})).Return(&ssm.GetParametersByPathOutput{
		Parameters: []ssmtypes.Parameter{
			param("/media-processing-pipeline/dev/media_bucket", "media"),
			param("/media-processing-pipeline/dev/alerts/topic", "security-alerts"),
		},
	}, nil)

	snapshot, err := testProvider(store).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"media_bucket": "media",
		"alerts/topic": "security-alerts",
	}, snapshot)
}

func TestFetchPaginates(t *testing.T) {
	store := &awsc.MockParameterStore{}
	store.On("GetParametersByPath", mock.Anything, mock.MatchedBy(func(input *ssm.GetParametersByPathInput) bool {
		return input.NextToken == nil
	})).Return(&ssm.GetParametersByPathOutput{
		Parameters: []ssmtypes.Parameter{param("/media-processing-pipeline/dev/a", "1")},
		NextToken:  aws.String("page-2"),
	}, nil).Once()
	store.On("GetParametersByPath", mock.Anything, mock.MatchedBy(func(input *ssm.GetParametersByPathInput) bool {
		return input.NextToken != nil && *input.NextToken == "page-2"
	})).Return(&ssm.GetParametersByPathOutput{
		Parameters: []ssmtypes.Parameter{param("/media-processing-pipeline/dev/b", "2")},
	}, nil).Once()

	snapshot, err := testProvider(store).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, snapshot)
	store.AssertExpectations(t)
}

func TestFetchStoreFailure(t *testing.T) {
	store := &awsc.MockParameterStore{}
	store.On("GetParametersByPath", mock.Anything, mock.Anything).Return(nil, errors.New("endpoint unreachable"))

	snapshot, err := testProvider(store).Fetch(context.Background())

	require.Error(t, err)
	assert.Nil(t, snapshot)
	assert.True(t, apperrors.HasKind(err, apperrors.KindConfigUnavailable))
	assert.Contains(t, err.Error(), "endpoint unreachable")
}

func TestFetchSkipsPartialParameters(t *testing.T) {
	store := &awsc.MockParameterStore{}
	store.On("GetParametersByPath", mock.Anything, mock.Anything).Return(&ssm.GetParametersByPathOutput{
		Parameters: []ssmtypes.Parameter{
			{Name: aws.String("/media-processing-pipeline/dev/no_value")},
			param("/media-processing-pipeline/dev/ok", "yes"),
		},
	}, nil)

	snapshot, err := testProvider(store).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ok": "yes"}, snapshot)
}

func TestSettingsParameterPrefix(t *testing.T) {
	settings := Settings{ProjectName: "proj", Environment: "prod"}
	assert.Equal(t, "/proj/prod", settings.ParameterPrefix())
}

func TestLoadDefaults(t *testing.T) {
	settings, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "media-processing-pipeline", settings.ProjectName)
	assert.Equal(t, "dev", settings.Environment)
	assert.Equal(t, "aws.macie2", settings.ExpectedSource)
	assert.Equal(t, "quarantine/", settings.QuarantinePrefix)
	assert.Equal(t, "media-processing-pipeline.security", settings.AlertSource)
	assert.Equal(t, "High Severity PII Detection", settings.AlertDetailType)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("PROJECT_NAME", "other-project")
	t.Setenv("ENVIRONMENT", "prod")

	settings, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "other-project", settings.ProjectName)
	assert.Equal(t, "prod", settings.Environment)
	assert.Equal(t, "/other-project/prod", settings.ParameterPrefix())
}
