package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"
)

// NewRelicLogFormatter wraps another logrus.Formatter. Every entry is also
// recorded in New Relic, against the entry's transaction when its context has
// one, and the local line is enriched with the linking metadata.
type NewRelicLogFormatter struct {
	app  *newrelic.Application
	next logrus.Formatter
}

func NewNewRelicLogFormatter(app *newrelic.Application, next logrus.Formatter) NewRelicLogFormatter {
	return NewRelicLogFormatter{app: app, next: next}
}

func (f NewRelicLogFormatter) Format(e *logrus.Entry) ([]byte, error) {
	line, err := f.next.Format(e)
	if err != nil {
		return nil, err
	}

	record := newrelic.LogData{
		Severity: e.Level.String(),
		Message:  flattenEntry(e),
	}

	var txn *newrelic.Transaction
	if e.Context != nil {
		txn = newrelic.FromContext(e.Context)
	}

	buf := bytes.NewBuffer(bytes.TrimRight(line, "\n"))
	if txn != nil {
		txn.RecordLog(record)
		err = newrelic.EnrichLog(buf, newrelic.FromTxn(txn))
	} else {
		f.app.RecordLog(record)
		err = newrelic.EnrichLog(buf, newrelic.FromApp(f.app))
	}
	if err != nil {
		return nil, err
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// flattenEntry renders the entry's fields into a single message, since New
// Relic log records carry only a message and a severity.
func flattenEntry(e *logrus.Entry) string {
	if len(e.Data) == 0 {
		return e.Message
	}

	errString := "<nil>"
	fields := make(map[string]interface{}, len(e.Data))
	for k, v := range e.Data {
		if k == logrus.ErrorKey {
			if typed, ok := v.(error); ok {
				errString = fmt.Sprintf("%q", typed.Error())
			}
			continue
		}
		fields[k] = v
	}

	encoded, err := json.Marshal(fields)
	if err != nil {
		return e.Message
	}
	return fmt.Sprintf("message=%q, error=%s, data=%s", e.Message, errString, encoded)
}
