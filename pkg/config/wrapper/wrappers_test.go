package wrapper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/candy-drop/pkg/config"
	"github.com/code-payments/candy-drop/pkg/config/memory"
)

type lifecycleCase[T any] struct {
	defaultValue T
	override     T
	rawOverride  []byte
}

func testLifecycle[T any](t *testing.T, newConfig func(config.Config, T) config.Value[T], tc lifecycleCase[T]) {
	ctx := context.Background()
	mock := memory.NewConfig(nil)
	wrapper := newConfig(mock, tc.defaultValue)

	// Return the default value when no override is set
	val, err := wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, tc.defaultValue, val)

	// The overriden value is returned when set
	mock.SetValue(tc.override)
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, tc.override, val)

	// The last observed config value is returned on error
	mock.SetError(assert.AnError)
	val, err = wrapper.GetSafe(ctx)
	require.Error(t, err)
	assert.Equal(t, tc.override, val)
	assert.Equal(t, tc.override, wrapper.Get(ctx))

	// The default value is returned when the override no longer has a value
	mock.SetError(nil)
	mock.ClearValue()
	assert.Equal(t, tc.defaultValue, wrapper.Get(ctx))

	// Text sources are parsed
	mock.SetValue(tc.rawOverride)
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, tc.override, val)

	// Unsupported source types keep the last value
	mock.SetValue(struct{}{})
	val, err = wrapper.GetSafe(ctx)
	assert.Equal(t, ErrUnsuportedConversion, err)
	assert.Equal(t, tc.override, val)

	wrapper.Shutdown()
	_, err = wrapper.GetSafe(ctx)
	assert.Equal(t, config.ErrShutdown, err)
}

func TestBoolConfig(t *testing.T) {
	testLifecycle(t, NewBoolConfig, lifecycleCase[bool]{
		defaultValue: true,
		override:     false,
		rawOverride:  []byte("false"),
	})
}

func TestInt64Config(t *testing.T) {
	testLifecycle(t, NewInt64Config, lifecycleCase[int64]{
		defaultValue: 42,
		override:     -7,
		rawOverride:  []byte("-7"),
	})
}

func TestUint64Config(t *testing.T) {
	testLifecycle(t, NewUint64Config, lifecycleCase[uint64]{
		defaultValue: 42,
		override:     1 << 40,
		rawOverride:  []byte("1099511627776"),
	})
}

func TestStringConfig(t *testing.T) {
	testLifecycle(t, NewStringConfig, lifecycleCase[string]{
		defaultValue: "confirmed",
		override:     "finalized",
		rawOverride:  []byte("finalized"),
	})
}

func TestDurationConfig(t *testing.T) {
	testLifecycle(t, NewDurationConfig, lifecycleCase[time.Duration]{
		defaultValue: time.Second,
		override:     90 * time.Second,
		rawOverride:  []byte("1m30s"),
	})

	mock := memory.NewConfig([]byte("15"))
	assert.Equal(t, 15*time.Second, NewDurationConfig(mock, 0).Get(context.Background()))

	mock.SetValue([]byte("cannot convert"))
	_, err := NewDurationConfig(mock, 0).GetSafe(context.Background())
	assert.Error(t, err)
}

func TestInvalidText(t *testing.T) {
	mock := memory.NewConfig([]byte("not a number"))

	val, err := NewUint64Config(mock, 3).GetSafe(context.Background())
	assert.Error(t, err)
	assert.EqualValues(t, 3, val)
}
