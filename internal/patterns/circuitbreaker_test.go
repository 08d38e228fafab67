package patterns

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

var errRemote = errors.New("remote failure")

func failing() (interface{}, error) { return nil, errRemote }

func TestCircuitBreaker_OpensAfterFailureRatio(t *testing.T) {
	cfg := DefaultBreakerConfig()
	cfg.Timeout = time.Minute
	cb := NewCircuitBreaker("Test", "patterns-test", cfg)

	require.Equal(t, "Test", cb.Name())
	require.Equal(t, "closed", cb.GetState())
	require.Equal(t, 0, cb.GetStateValue())

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(failing)
		require.ErrorIs(t, err, errRemote)
	}

	require.Equal(t, "open", cb.GetState())
	require.Equal(t, 1, cb.GetStateValue())

	_, err := cb.Execute(func() (interface{}, error) {
		t.Fatal("must not run while the circuit is open")
		return nil, nil
	})
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestCircuitBreaker_StaysClosedBelowMinRequests(t *testing.T) {
	cb := NewCircuitBreaker("Test", "patterns-test", DefaultBreakerConfig())

	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(failing)
	}
	require.Equal(t, "closed", cb.GetState())
}

func TestCircuitBreaker_IsSuccessfulIgnoresErrors(t *testing.T) {
	cfg := DefaultBreakerConfig()
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, errRemote) }
	cb := NewCircuitBreaker("Test", "patterns-test", cfg)

	for i := 0; i < 10; i++ {
		_, err := cb.Execute(failing)
		require.ErrorIs(t, err, errRemote)
	}
	require.Equal(t, "closed", cb.GetState())
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	cfg := DefaultBreakerConfig()
	cfg.Timeout = 20 * time.Millisecond
	cb := NewCircuitBreaker("Test", "patterns-test", cfg)

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(failing)
	}
	require.Equal(t, "open", cb.GetState())

	require.Eventually(t, func() bool { return cb.GetStateValue() == 2 }, time.Second, 5*time.Millisecond)

	for i := 0; i < int(cfg.MaxRequests); i++ {
		_, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
		require.NoError(t, err)
	}
	require.Equal(t, "closed", cb.GetState())
}

func TestFormatError(t *testing.T) {
	require.NoError(t, FormatError("Payment", nil))
	require.Equal(t, errRemote, FormatError("Payment", errRemote))

	open := FormatError("Payment", gobreaker.ErrOpenState)
	require.ErrorIs(t, open, gobreaker.ErrOpenState)
	require.Contains(t, open.Error(), "circuit breaker Payment is open")

	half := FormatError("Payment", gobreaker.ErrTooManyRequests)
	require.ErrorIs(t, half, gobreaker.ErrTooManyRequests)
}
