package mint

import (
	"github.com/code-payments/candy-drop/pkg/config"
	"github.com/code-payments/candy-drop/pkg/config/env"
	"github.com/code-payments/candy-drop/pkg/config/memory"
	"github.com/code-payments/candy-drop/pkg/config/wrapper"
)

const (
	envConfigPrefix = "MINT_"

	CommitmentConfigEnvName = envConfigPrefix + "COMMITMENT"
	defaultCommitment       = "confirmed"

	PayerLockStripesConfigEnvName = envConfigPrefix + "PAYER_LOCK_STRIPES"
	defaultPayerLockStripes       = 64

	// ImageCacheBudgetConfigEnvName is the number of image references kept
	// between refreshes.
	ImageCacheBudgetConfigEnvName = envConfigPrefix + "IMAGE_CACHE_BUDGET"
	defaultImageCacheBudget       = 10_000
)

type conf struct {
	commitment       config.String
	payerLockStripes config.Uint64
	imageCacheBudget config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			commitment:       env.NewStringConfig(CommitmentConfigEnvName, defaultCommitment),
			payerLockStripes: env.NewUint64Config(PayerLockStripesConfigEnvName, defaultPayerLockStripes),
			imageCacheBudget: env.NewUint64Config(ImageCacheBudgetConfigEnvName, defaultImageCacheBudget),
		}
	}
}

type testOverrides struct {
	commitment       string
	payerLockStripes uint64
	imageCacheBudget uint64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			commitment:       wrapper.NewStringConfig(memory.NewConfig(overrides.commitment), defaultCommitment),
			payerLockStripes: wrapper.NewUint64Config(memory.NewConfig(overrides.payerLockStripes), defaultPayerLockStripes),
			imageCacheBudget: wrapper.NewUint64Config(memory.NewConfig(overrides.imageCacheBudget), defaultImageCacheBudget),
		}
	}
}
