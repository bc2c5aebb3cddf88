package offchain

import (
	"time"

	"github.com/code-payments/candy-drop/pkg/config"
	"github.com/code-payments/candy-drop/pkg/config/env"
	"github.com/code-payments/candy-drop/pkg/config/memory"
	"github.com/code-payments/candy-drop/pkg/config/wrapper"
)

const (
	envConfigPrefix = "OFFCHAIN_METADATA_"

	FetchTimeoutConfigEnvName = envConfigPrefix + "FETCH_TIMEOUT"
	defaultFetchTimeout       = 15 * time.Second

	MaxAttemptsConfigEnvName = envConfigPrefix + "MAX_ATTEMPTS"
	defaultMaxAttempts       = 3

	// Zero disables per-host limiting
	HostRequestsPerSecondConfigEnvName = envConfigPrefix + "HOST_REQUESTS_PER_SECOND"
	defaultHostRequestsPerSecond       = 10

	HostBurstConfigEnvName = envConfigPrefix + "HOST_BURST"
	defaultHostBurst       = 5
)

type conf struct {
	fetchTimeout config.Duration
	maxAttempts  config.Uint64

	hostRequestsPerSecond config.Uint64
	hostBurst             config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			fetchTimeout: env.NewDurationConfig(FetchTimeoutConfigEnvName, defaultFetchTimeout),
			maxAttempts:  env.NewUint64Config(MaxAttemptsConfigEnvName, defaultMaxAttempts),

			hostRequestsPerSecond: env.NewUint64Config(HostRequestsPerSecondConfigEnvName, defaultHostRequestsPerSecond),
			hostBurst:             env.NewUint64Config(HostBurstConfigEnvName, defaultHostBurst),
		}
	}
}

type testOverrides struct {
	fetchTimeout time.Duration
	maxAttempts  uint64

	hostRequestsPerSecond uint64
	hostBurst             uint64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			fetchTimeout: wrapper.NewDurationConfig(memory.NewConfig(overrides.fetchTimeout), defaultFetchTimeout),
			maxAttempts:  wrapper.NewUint64Config(memory.NewConfig(overrides.maxAttempts), defaultMaxAttempts),

			hostRequestsPerSecond: wrapper.NewUint64Config(memory.NewConfig(overrides.hostRequestsPerSecond), defaultHostRequestsPerSecond),
			hostBurst:             wrapper.NewUint64Config(memory.NewConfig(overrides.hostBurst), defaultHostBurst),
		}
	}
}
