package daterange

import (
	"testing"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExactDay(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)

	r, err := Resolve("2025-03-07", "", "", loc)
	require.NoError(t, err)

	require.NotNil(t, r.From)
	require.NotNil(t, r.To)
	assert.Equal(t, time.Date(2025, 3, 6, 23, 0, 0, 0, time.UTC), *r.From)
	assert.Equal(t, time.Date(2025, 3, 7, 23, 0, 0, 0, time.UTC), *r.To)
}

func TestResolveInclusiveRange(t *testing.T) {
	r, err := Resolve("", "2025-03-01", "2025-03-31", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *r.From)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), *r.To)
}

func TestResolveCombinesConstraints(t *testing.T) {
	r, err := Resolve("2025-03-10", "2025-03-01", "2025-03-31", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), *r.From)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), *r.To)
}

func TestResolveOpenBounds(t *testing.T) {
	r, err := Resolve("", "", "", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, r.From)
	assert.Nil(t, r.To)
}

func TestResolveRejectsBadDate(t *testing.T) {
	_, err := Resolve("07/03/2025", "", "", time.UTC)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDays(t *testing.T) {
	from := time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}, Days(from, to))
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	got := StartOfDay(time.Date(2025, 3, 6, 23, 30, 0, 0, time.UTC), loc)

	assert.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, loc), got)
}
