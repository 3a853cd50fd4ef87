package replay

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
)

func seedID(b byte) entity.SeedID {
	var id entity.SeedID
	id[0] = b
	return id
}

func nonce(i int) entity.Nonce {
	var n entity.Nonce
	n[0], n[1], n[15] = byte(i), byte(i>>8), byte(i*31)
	return n
}

func TestCheckAndInsert_OncePerPair(t *testing.T) {
	t.Parallel()

	c := New()
	s := seedID(1)
	c.OpenSeed(s)

	assert.Equal(t, Inserted, c.CheckAndInsert(s, nonce(1)))
	assert.Equal(t, AlreadyPresent, c.CheckAndInsert(s, nonce(1)))
	assert.Equal(t, Inserted, c.CheckAndInsert(s, nonce(2)))
	assert.Equal(t, 2, c.Len(s))
}

func TestCheckAndInsert_SeedsAreIndependent(t *testing.T) {
	t.Parallel()

	c := New()
	a, b := seedID(1), seedID(2)
	c.OpenSeed(a)
	c.OpenSeed(b)

	assert.Equal(t, Inserted, c.CheckAndInsert(a, nonce(7)))
	assert.Equal(t, Inserted, c.CheckAndInsert(b, nonce(7)))
}

func TestCheckAndInsert_NoPartition(t *testing.T) {
	t.Parallel()

	c := New()
	s := seedID(3)
	assert.Equal(t, NoPartition, c.CheckAndInsert(s, nonce(1)))
	assert.Equal(t, -1, c.Len(s))

	c.OpenSeed(s)
	require.Equal(t, Inserted, c.CheckAndInsert(s, nonce(1)))
	c.DropSeed(s)

	// a dropped partition is not resurrected by a late check
	assert.Equal(t, NoPartition, c.CheckAndInsert(s, nonce(1)))
	assert.Equal(t, 0, c.Seeds())
}

func TestOpenSeed_Idempotent(t *testing.T) {
	t.Parallel()

	c := New()
	s := seedID(4)
	c.OpenSeed(s)
	require.Equal(t, Inserted, c.CheckAndInsert(s, nonce(1)))
	c.OpenSeed(s)
	assert.Equal(t, AlreadyPresent, c.CheckAndInsert(s, nonce(1)))
}

func TestCheckAndInsert_ConcurrentSamePair(t *testing.T) {
	t.Parallel()

	c := New()
	s := seedID(5)
	c.OpenSeed(s)

	const workers = 64
	var inserted atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if c.CheckAndInsert(s, nonce(42)) == Inserted {
				inserted.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, inserted.Load())
}

func TestCheckAndInsert_ConcurrentDistinct(t *testing.T) {
	t.Parallel()

	c := New()
	s := seedID(6)
	c.OpenSeed(s)

	const n = 2000
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.Equal(t, Inserted, c.CheckAndInsert(s, nonce(i)))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, n, c.Len(s))
}
