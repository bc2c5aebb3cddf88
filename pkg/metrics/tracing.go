package metrics

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// StartBackgroundTransaction starts a New Relic transaction for work that
// isn't driven by a request, such as a watch refresh. Segments started with
// TraceMethodCall on the returned context attach to it.
func StartBackgroundTransaction(ctx context.Context, name string) (context.Context, func()) {
	app := ApplicationFromContext(ctx)
	if app == nil {
		return ctx, func() {}
	}

	txn := app.StartTransaction(name)
	return newrelic.NewContext(ctx, txn), txn.End
}

// MethodTracer is a segment covering a single method call. A nil tracer is
// valid, and all of its methods do nothing.
type MethodTracer struct {
	txn *newrelic.Transaction
	seg *newrelic.Segment
}

// TraceMethodCall opens a "<component> <method>" segment on the transaction
// carried by ctx. It returns nil if there is none.
func TraceMethodCall(ctx context.Context, component, method string) *MethodTracer {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return nil
	}

	return &MethodTracer{
		txn: txn,
		seg: txn.StartSegment(component + " " + method),
	}
}

func (t *MethodTracer) AddAttribute(key string, value interface{}) {
	if t != nil {
		t.seg.AddAttribute(key, value)
	}
}

func (t *MethodTracer) AddAttributes(attributes map[string]interface{}) {
	for key, value := range attributes {
		t.AddAttribute(key, value)
	}
}

// OnError reports err against the enclosing transaction.
func (t *MethodTracer) OnError(err error) {
	if t != nil && err != nil {
		t.txn.NoticeError(err)
	}
}

func (t *MethodTracer) End() {
	if t != nil {
		t.seg.End()
	}
}
