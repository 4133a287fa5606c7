package run

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhd2015/partsearch/data/storage"
	"github.com/xhd2015/partsearch/models"
)

func TestModel_RunsPostedWork(t *testing.T) {
	m := &Model{}
	var ran bool
	_, cmd := m.Update(postMsg{fn: func() { ran = true }})
	assert.True(t, ran)
	assert.Nil(t, cmd)
}

func TestCreateHistoryService(t *testing.T) {
	t.Setenv("PARTSEARCH_CONFIG_DIR", t.TempDir())

	for _, kind := range []string{"sqlite", "file", "none"} {
		t.Run(kind, func(t *testing.T) {
			history, err := createHistoryService(kind)
			require.NoError(t, err)
			defer history.Close()

			_, err = history.Add(models.HistoryEntry{ProductID: "42", PartNumber: "ZZ-9", ViewTime: time.Now()})
			require.NoError(t, err)
			entries, err := history.List(storage.HistoryListOptions{})
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, models.PartID("42"), entries[0].ProductID)
		})
	}

	_, err := createHistoryService("redis")
	assert.Error(t, err)
}

func TestAcquireInstance(t *testing.T) {
	t.Setenv("PARTSEARCH_CONFIG_DIR", t.TempDir())

	release, err := acquireInstance()
	require.NoError(t, err)

	// a second acquire from the same process sees its own pid, which is
	// not treated as another instance
	release2, err := acquireInstance()
	require.NoError(t, err)
	release2()
	release()
}
