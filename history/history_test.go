/*
File    : go-flow/history/history_test.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordAndTranscript(t *testing.T) {
	recorder, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	require.NoError(t, recorder.Record("u1", "system", "Welcome!"))
	require.NoError(t, recorder.Record("u1", "user", "where is my order"))
	require.NoError(t, recorder.Record("u2", "user", "unrelated session"))
	require.NoError(t, recorder.Record("u1", "system", "Please enter your order number."))

	rows, err := recorder.Transcript("u1")
	require.NoError(t, err)
	require.Equal(t, 3, len(rows))

	// order of recording is preserved, other sessions are excluded
	assert.Equal(t, "system", rows[0].Role)
	assert.Equal(t, "Welcome!", rows[0].Text)
	assert.Equal(t, "user", rows[1].Role)
	assert.Equal(t, "where is my order", rows[1].Text)
	assert.Equal(t, "Please enter your order number.", rows[2].Text)

	for _, row := range rows {
		assert.Equal(t, "u1", row.UserID)
		assert.False(t, row.CreatedAt.IsZero())
	}
}

func TestRecorder_EmptyTranscript(t *testing.T) {
	recorder, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	rows, err := recorder.Transcript("nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, len(rows))
}
