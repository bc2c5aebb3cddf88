package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/code-payments/candy-drop/pkg/metrics"
	"github.com/code-payments/candy-drop/pkg/osutil"
)

// Command is a CLI subcommand. Long running commands are expected to return
// once ctx is done.
type Command func(ctx context.Context, config *BaseConfig, args []string) error

var (
	ErrUnknownCommand = errors.New("unknown command")

	configPath = flag.String("config", "config.yaml", "configuration file path")
)

// Run loads the configuration, sets up logging and metrics and then runs the
// subcommand named by the first positional argument. The command's context is
// cancelled on SIGINT, SIGTERM, SIGQUIT and SIGHUP.
func Run(commands map[string]Command) error {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <%s> [args]\n", os.Args[0], strings.Join(commandNames(commands), "|"))
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := logrus.StandardLogger().WithField("type", "app")

	if flag.NArg() == 0 {
		flag.Usage()
		return errors.Wrap(ErrUnknownCommand, "no command specified")
	}
	name := flag.Arg(0)
	command, ok := commands[name]
	if !ok {
		flag.Usage()
		return errors.Wrap(ErrUnknownCommand, name)
	}

	config, err := loadConfig()
	if err != nil {
		return err
	}

	if len(config.AppName) == 0 {
		return errors.New("must specify an application name")
	}

	var metricsProvider *newrelic.Application
	if len(config.NewRelicLicenseKey) > 0 {
		nr, err := newrelic.NewApplication(
			newrelic.ConfigFromEnvironment(),
			newrelic.ConfigAppName(config.AppName),
			newrelic.ConfigLicense(config.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			return errors.Wrap(err, "error connecting to new relic")
		}

		metricsProvider = nr
		defer nr.Shutdown(config.ShutdownGracePeriod)
	}

	configureLogger(config, metricsProvider)

	var ballast []byte
	if config.EnableBallast {
		totalMemory := osutil.GetTotalMemory()
		ballastCapacity := config.BallastCapacity
		if ballastCapacity > 0.5 {
			ballastCapacity = 0.5
		}
		ballastSize := uint64(ballastCapacity * float32(totalMemory))
		ballast = make([]byte, ballastSize)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	defer stop()
	if metricsProvider != nil {
		ctx = metrics.NewContext(ctx, metricsProvider)
	}

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- command(ctx, config, flag.Args()[1:])
	}()

	select {
	case err := <-resultCh:
		return err
	case <-ctx.Done():
		logger.WithField("command", name).Info("interrupt received, shutting down")
	}

	select {
	case err := <-resultCh:
		// Ensure the ballast is used to avoid any possible compiler optimizations
		// around unused variable.
		if len(ballast) > 0 {
			ballast[0] = 1
		}

		return err
	case <-time.After(config.ShutdownGracePeriod):
		return errors.Errorf("failed to stop %s within %v", name, config.ShutdownGracePeriod)
	}
}

func loadConfig() (*BaseConfig, error) {
	// viper.ReadInConfig only returns ConfigFileNotFoundError if it has to search
	// for a default config file because one hasn't been explicitly set. That is,
	// if we explicitly set a config file, and it does not exist, viper will not
	// return a ConfigFileNotFoundError, so we do it ourselves.
	if _, err := os.Stat(*configPath); err == nil {
		viper.SetConfigFile(*configPath)
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to check if config exists")
	}

	err := viper.ReadInConfig()
	_, isConfigNotFound := err.(viper.ConfigFileNotFoundError)
	if err != nil && !isConfigNotFound {
		return nil, errors.Wrap(err, "failed to load config")
	}

	config := defaultConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

func configureLogger(config *BaseConfig, metricsProvider *newrelic.Application) {
	if metricsProvider != nil {
		logrus.SetFormatter(metrics.NewNewRelicLogFormatter(metricsProvider, &logrus.JSONFormatter{}))
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	logrus.SetOutput(os.Stderr)
}

func commandNames(commands map[string]Command) []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
