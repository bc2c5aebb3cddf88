package drop

import (
	"github.com/code-payments/candy-drop/pkg/config"
	"github.com/code-payments/candy-drop/pkg/config/env"
	"github.com/code-payments/candy-drop/pkg/config/memory"
	"github.com/code-payments/candy-drop/pkg/config/wrapper"
)

const (
	envConfigPrefix = "DROP_READER_"

	CommitmentConfigEnvName = envConfigPrefix + "COMMITMENT"
	defaultCommitment       = "confirmed"
)

type conf struct {
	commitment config.String
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			commitment: env.NewStringConfig(CommitmentConfigEnvName, defaultCommitment),
		}
	}
}

type testOverrides struct {
	commitment string
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			commitment: wrapper.NewStringConfig(memory.NewConfig(overrides.commitment), defaultCommitment),
		}
	}
}
