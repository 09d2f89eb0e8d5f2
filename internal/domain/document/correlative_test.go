package document

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCorrelative(t *testing.T, initial, final int64, resolutionDate time.Time) *Correlative {
	t.Helper()
	c, err := NewCorrelative(uuid.New(), "A", "RES-2026-001", initial, final, resolutionDate)
	require.NoError(t, err)
	require.NoError(t, c.MarkCreated())
	return c
}

func TestNewCorrelative(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		c, err := NewCorrelative(uuid.New(), "A", "RES-2026-001", 100, 200, time.Now())
		require.NoError(t, err)
		assert.Equal(t, CorrelativeStatusInProgress, c.Status)
		assert.Equal(t, int64(99), c.CurrentNumber)
	})

	t.Run("initial must be below final", func(t *testing.T) {
		_, err := NewCorrelative(uuid.New(), "A", "RES-2026-001", 200, 100, time.Now())
		assert.Error(t, err)

		_, err = NewCorrelative(uuid.New(), "A", "RES-2026-001", 100, 100, time.Now())
		assert.Error(t, err)
	})

	t.Run("serial and resolution are required", func(t *testing.T) {
		_, err := NewCorrelative(uuid.New(), "", "RES-2026-001", 1, 10, time.Now())
		assert.Error(t, err)

		_, err = NewCorrelative(uuid.New(), "A", "", 1, 10, time.Now())
		assert.Error(t, err)
	})
}

func TestCorrelativeNextNumber(t *testing.T) {
	now := time.Now()

	t.Run("first call activates and issues the initial number", func(t *testing.T) {
		c := testCorrelative(t, 100, 200, now)

		number := c.NextNumber(now)

		assert.Equal(t, int64(100), number)
		assert.Equal(t, CorrelativeStatusCurrent, c.Status)
		assert.NotNil(t, c.ActivatedAt)
	})

	t.Run("numbers are strictly increasing with no gaps", func(t *testing.T) {
		c := testCorrelative(t, 100, 200, now)

		previous := c.NextNumber(now)
		for range 50 {
			number := c.NextNumber(now)
			assert.Equal(t, previous+1, number)
			previous = number
		}
	})

	t.Run("final number closes the range", func(t *testing.T) {
		c := testCorrelative(t, 1, 3, now)

		assert.Equal(t, int64(1), c.NextNumber(now))
		assert.Equal(t, int64(2), c.NextNumber(now))
		assert.Equal(t, int64(3), c.NextNumber(now))
		assert.Equal(t, CorrelativeStatusUsedUp, c.Status)

		assert.Equal(t, int64(0), c.NextNumber(now), "sentinel after exhaustion")
	})

	t.Run("expired correlative issues the sentinel", func(t *testing.T) {
		c := testCorrelative(t, 1, 10, now.AddDate(0, 0, -(CorrelativeValidDays+1)))

		assert.Equal(t, int64(0), c.NextNumber(now))
		assert.Equal(t, CorrelativeStatusExpired, c.Status)
	})
}

func TestCorrelativeRefresh(t *testing.T) {
	now := time.Now()

	t.Run("never-activated correlative expires past its window", func(t *testing.T) {
		c := testCorrelative(t, 1, 10, now.AddDate(0, 0, -11))

		c.Refresh(now)

		assert.Equal(t, CorrelativeStatusExpired, c.Status)
		assert.NotNil(t, c.ClosedAt)
	})

	t.Run("within the window stays created", func(t *testing.T) {
		c := testCorrelative(t, 1, 10, now.AddDate(0, 0, -(CorrelativeValidDays-1)))

		c.Refresh(now)

		assert.Equal(t, CorrelativeStatusCreated, c.Status)
	})

	t.Run("activated correlative never expires", func(t *testing.T) {
		c := testCorrelative(t, 1, 10, now)
		require.NotZero(t, c.NextNumber(now))

		c.Refresh(now.AddDate(0, 0, CorrelativeValidDays+5))

		assert.Equal(t, CorrelativeStatusCurrent, c.Status)
	})
}

func TestCorrelativeRemaining(t *testing.T) {
	now := time.Now()
	c := testCorrelative(t, 1, 5, now)

	assert.Equal(t, int64(5), c.Remaining())

	c.NextNumber(now)
	c.NextNumber(now)
	assert.Equal(t, int64(3), c.Remaining())

	for c.Status == CorrelativeStatusCurrent {
		c.NextNumber(now)
	}
	assert.Equal(t, int64(0), c.Remaining())
}
