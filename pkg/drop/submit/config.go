package submit

import (
	"time"

	"github.com/code-payments/candy-drop/pkg/config"
	"github.com/code-payments/candy-drop/pkg/config/env"
	"github.com/code-payments/candy-drop/pkg/config/memory"
	"github.com/code-payments/candy-drop/pkg/config/wrapper"
)

const (
	envConfigPrefix = "SUBMITTER_"

	CommitmentConfigEnvName = envConfigPrefix + "COMMITMENT"
	defaultCommitment       = "confirmed"

	// ConfirmAttemptsConfigEnvName bounds how many times the status poll is
	// restarted after the client gives up on a signature.
	ConfirmAttemptsConfigEnvName = envConfigPrefix + "CONFIRM_ATTEMPTS"
	defaultConfirmAttempts       = 3

	ConfirmBackoffConfigEnvName = envConfigPrefix + "CONFIRM_BACKOFF"
	defaultConfirmBackoff       = 2 * time.Second
)

type conf struct {
	commitment      config.String
	confirmAttempts config.Uint64
	confirmBackoff  config.Duration
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			commitment:      env.NewStringConfig(CommitmentConfigEnvName, defaultCommitment),
			confirmAttempts: env.NewUint64Config(ConfirmAttemptsConfigEnvName, defaultConfirmAttempts),
			confirmBackoff:  env.NewDurationConfig(ConfirmBackoffConfigEnvName, defaultConfirmBackoff),
		}
	}
}

type testOverrides struct {
	commitment      string
	confirmAttempts uint64
	confirmBackoff  time.Duration
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			commitment:      wrapper.NewStringConfig(memory.NewConfig(overrides.commitment), defaultCommitment),
			confirmAttempts: wrapper.NewUint64Config(memory.NewConfig(overrides.confirmAttempts), defaultConfirmAttempts),
			confirmBackoff:  wrapper.NewDurationConfig(memory.NewConfig(overrides.confirmBackoff), defaultConfirmBackoff),
		}
	}
}
