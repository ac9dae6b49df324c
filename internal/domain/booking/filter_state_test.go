package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharebay/service-sharing/internal/pkg/domain"
)

func TestParseFilterState_KnownTokens(t *testing.T) {
	for _, token := range []string{"ALL", "CURRENT", "PAST", "FUTURE", "WAITING", "REJECTED"} {
		state, err := ParseFilterState(token)
		require.NoError(t, err, token)
		assert.Equal(t, FilterState(token), state)
	}
}

func TestParseFilterState_CaseInsensitive(t *testing.T) {
	state, err := ParseFilterState("current")
	require.NoError(t, err)
	assert.Equal(t, FilterCurrent, state)

	state, err = ParseFilterState("Waiting")
	require.NoError(t, err)
	assert.Equal(t, FilterWaiting, state)
}

func TestParseFilterState_UnknownIsAnError(t *testing.T) {
	_, err := ParseFilterState("UNSUPPORTED_STATUS")
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidFilter, domain.KindOf(err))
	assert.Contains(t, err.Error(), "Unknown state: UNSUPPORTED_STATUS")
}
