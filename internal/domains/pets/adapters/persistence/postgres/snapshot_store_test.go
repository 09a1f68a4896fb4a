package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPetIDs_SortedFromSlotKeys(t *testing.T) {
	ids, err := petIDs([]byte(`{"10":{"id":10},"2":{"id":2},"7":{}}`))
	require.NoError(t, err)
	require.Equal(t, []int64{2, 7, 10}, []int64(ids))
}

func TestPetIDs_RejectsNonNumericKeys(t *testing.T) {
	_, err := petIDs([]byte(`{"abc":{}}`))
	require.Error(t, err)

	_, err = petIDs([]byte(`[]`))
	require.Error(t, err)
}

func TestSnapshotStore_RequiresDB(t *testing.T) {
	var store *SnapshotStore
	_, _, err := store.Load(context.Background(), "pets")
	require.Error(t, err)
	require.Error(t, NewSnapshotStore(nil).Store(context.Background(), "pets", []byte(`{}`)))
}
