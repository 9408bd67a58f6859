package config

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/mediaops/piisentry/internal/awsc"
	apperrors "github.com/mediaops/piisentry/internal/errors"
	"github.com/mediaops/piisentry/internal/logger"
)

// Provider fetches the per-invocation configuration snapshot from the
// parameter store. Snapshots are not cached: every invocation re-fetches,
// trading a round trip for never acting on stale remediation settings.
type Provider struct {
	store  awsc.ParameterStoreAPI
	prefix string
	log    logger.Logger
}

// NewProvider creates a Provider reading under the settings' namespace.
func NewProvider(store awsc.ParameterStoreAPI, settings Settings, log logger.Logger) *Provider {
	return &Provider{
		store:  store,
		prefix: settings.ParameterPrefix(),
		log:    log,
	}
}

// Fetch reads every parameter under the namespace, strips the namespace
// prefix from the key names, and returns the flat snapshot. A store failure
// is classified KindConfigUnavailable and is fatal to the invocation.
func (p *Provider) Fetch(ctx context.Context) (map[string]string, error) {
	snapshot := make(map[string]string)

	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(p.prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}

	for {
		out, err := p.store.GetParametersByPath(ctx, input)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindConfigUnavailable, "failed to retrieve configuration", err)
		}

		for _, param := range out.Parameters {
			if param.Name == nil || param.Value == nil {
				continue
			}
			key := strings.TrimPrefix(*param.Name, p.prefix+"/")
			snapshot[key] = *param.Value
		}

		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	p.log.WithField("parameters", len(snapshot)).Info("retrieved configuration snapshot")

	return snapshot, nil
}
