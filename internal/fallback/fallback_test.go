package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPick_StaysInPool(t *testing.T) {
	for _, kind := range []Kind{KindError, KindTimeout, KindModeration} {
		pool := Pool(kind)
		for i := 0; i < 50; i++ {
			assert.Contains(t, pool, Pick(kind), "kind=%s", kind)
		}
	}
}

func TestPick_TimeoutNeverCrossesPools(t *testing.T) {
	errorPool := Pool(KindError)
	moderationPool := Pool(KindModeration)

	for i := 0; i < 100; i++ {
		got := Pick(KindTimeout)
		assert.NotContains(t, errorPool, got)
		assert.NotContains(t, moderationPool, got)
	}
}

func TestPick_UnknownKindUsesErrorPool(t *testing.T) {
	pool := Pool(KindError)
	for i := 0; i < 50; i++ {
		assert.Contains(t, pool, Pick(Kind("nonsense")))
	}
}

func TestPool_Copies(t *testing.T) {
	pool := Pool(KindError)
	pool[0] = "mutated"
	assert.NotEqual(t, "mutated", Pool(KindError)[0])
}
