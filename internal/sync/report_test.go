package sync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_Ok(t *testing.T) {
	assert.True(t, Report{Created: 3, Skipped: 2}.Ok())
	assert.False(t, Report{Failed: 1}.Ok())
}

func TestReport_Summary(t *testing.T) {
	r := Report{Created: 1, Updated: 2, Skipped: 3, Failed: 4, Duplicates: 5}
	assert.Equal(t, "created=1 updated=2 skipped=3 failed=4 duplicates=5", r.Summary())
}

func TestReport_RecordFailure(t *testing.T) {
	var r Report
	cause := errors.New("quota exceeded")
	r.recordFailure("issue-1", "create", cause)
	r.recordFailure("issue-2", "map", errors.New("missing title"))

	assert.Equal(t, 2, r.Failed)
	require.Len(t, r.Failures, 2)
	assert.Equal(t, "issue-1", r.Failures[0].SourceID)
	assert.Equal(t, "create", r.Failures[0].Op)
	assert.ErrorIs(t, r.Failures[0].Err, cause)
}
