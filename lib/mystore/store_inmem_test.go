package mystore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sessionRecord struct {
	UID    string
	Status string
	Count  int
}

var (
	record = sessionRecord{UID: "123", Status: "started", Count: 1}
)

func TestStore(t *testing.T) {
	c := context.TODO()

	t.Run("Put and get", func(t *testing.T) {
		store, cleanup, err := NewInMemoryStore[sessionRecord](c)
		assert.NoError(t, err)
		defer cleanup()

		err = store.Put(c, record.UID, record)
		assert.NoError(t, err)

		got, exists, err := store.Get(c, record.UID)
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, record, got)
	})

	t.Run("Get non-existing", func(t *testing.T) {
		store, cleanup, err := NewInMemoryStore[sessionRecord](c)
		assert.NoError(t, err)
		defer cleanup()

		_, exists, err := store.Get(c, "unknown")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("List", func(t *testing.T) {
		store, cleanup, err := NewInMemoryStore[sessionRecord](c)
		assert.NoError(t, err)
		defer cleanup()

		for i := 0; i < 3; i++ {
			uid := fmt.Sprintf("uid-%d", i)
			err = store.Put(c, uid, sessionRecord{UID: uid, Status: "started", Count: i})
			assert.NoError(t, err)
		}

		all, err := store.List(c)
		assert.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("Modify within transaction", func(t *testing.T) {
		store, cleanup, err := NewInMemoryStore[sessionRecord](c)
		assert.NoError(t, err)
		defer cleanup()

		err = store.Put(c, record.UID, record)
		assert.NoError(t, err)

		err = store.RunInTransaction(c, func(c context.Context) error {
			current, exists, err := store.Get(c, record.UID)
			assert.NoError(t, err)
			assert.True(t, exists)

			current.Count++
			return store.Put(c, record.UID, current)
		})
		assert.NoError(t, err)

		got, _, err := store.Get(c, record.UID)
		assert.NoError(t, err)
		assert.Equal(t, 2, got.Count)
	})
}
