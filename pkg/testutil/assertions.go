package testutil

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonerisk/phonerisk/internal/domain/model"
)

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	require.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}

// AssertSameAnalysis compares two analyses field by field through their
// snapshots. Timestamps are compared as instants, so a round trip through a
// store that changes the location still matches.
func AssertSameAnalysis(t *testing.T, want, got *model.PhoneAnalysis) {
	t.Helper()
	require.NotNil(t, got)

	opts := cmp.Options{
		cmpopts.EquateEmpty(),
		cmpopts.EquateApproxTime(time.Microsecond),
	}
	if diff := cmp.Diff(want.Snapshot(), got.Snapshot(), opts); diff != "" {
		t.Errorf("analysis mismatch (-want +got):\n%s", diff)
	}
}
