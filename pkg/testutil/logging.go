package testutil

import (
	"io"
	"os"
	"slices"

	"github.com/sirupsen/logrus"
)

// Tests importing this package log at trace level, but output is only kept
// for verbose runs.
func init() {
	logrus.SetLevel(logrus.TraceLevel)

	if !slices.Contains(os.Args, "-test.v=true") {
		logrus.SetOutput(io.Discard)
	}
}
