package app

import (
	"time"

	"github.com/spf13/viper"
)

// BaseConfig is the configuration shared by every command.
type BaseConfig struct {
	LogLevel string `mapstructure:"log_level"`

	AppName string `mapstructure:"app_name"`

	// SolanaRPCEndpoint is a cluster name (devnet, testnet, mainnet-beta) or
	// a custom RPC URL.
	SolanaRPCEndpoint string `mapstructure:"solana_rpc_endpoint"`

	// CandyMachineID is the drop operated on. CandyMachineProgramID only needs
	// to be set for drops owned by a fork of the candy machine program.
	CandyMachineID        string `mapstructure:"candy_machine_id"`
	CandyMachineProgramID string `mapstructure:"candy_machine_program_id"`

	// PayerKeypairPath is a URL to a solana-keygen keypair file. Without a
	// scheme it is read from the local filesystem.
	PayerKeypairPath string `mapstructure:"payer_keypair_path"`

	// RefreshSchedule is the cron schedule used by the watch command.
	RefreshSchedule string `mapstructure:"refresh_schedule"`

	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`

	// Ballast for improving Go GC performance of long running commands. Note
	// that capacity will be limited to 50% of the total memory.
	// https://blog.twitch.tv/en/2019/04/10/go-memory-ballast-how-i-learnt-to-stop-worrying-and-love-the-heap/
	EnableBallast   bool    `mapstructure:"enable_ballast"`
	BallastCapacity float32 `mapstructure:"ballast_capacity"`

	// Metrics configuration across many providers
	NewRelicLicenseKey string `mapstructure:"new_relic_license_key"`
}

var defaultConfig = BaseConfig{
	LogLevel: "info",

	AppName: "candy-drop",

	SolanaRPCEndpoint: "devnet",

	RefreshSchedule: "@every 30s",

	ShutdownGracePeriod: 30 * time.Second,

	EnableBallast:   false,
	BallastCapacity: 0.333,
}

func init() {
	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	_ = viper.BindEnv("app_name", "APP_NAME")

	_ = viper.BindEnv("solana_rpc_endpoint", "SOLANA_RPC_ENDPOINT")

	_ = viper.BindEnv("candy_machine_id", "CANDY_MACHINE_ID")
	_ = viper.BindEnv("candy_machine_program_id", "CANDY_MACHINE_PROGRAM_ID")

	_ = viper.BindEnv("payer_keypair_path", "PAYER_KEYPAIR_PATH")

	_ = viper.BindEnv("refresh_schedule", "REFRESH_SCHEDULE")

	_ = viper.BindEnv("shutdown_grace_period", "SHUTDOWN_GRACE_PERIOD")

	_ = viper.BindEnv("enable_ballast", "ENABLE_BALLAST")
	_ = viper.BindEnv("ballast_capacity", "BALLAST_CAPACITY")

	_ = viper.BindEnv("new_relic_license_key", "NEW_RELIC_LICENSE_KEY")
}
