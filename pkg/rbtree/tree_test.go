package rbtree

import (
	"cmp"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenarioKeys = []int{20, 15, 25, 10, 5, 1, 30, 22, 27}

func newTreeWithKeys(keys ...int) *Tree[int] {
	tree := New[int]()
	for _, k := range keys {
		tree.Insert(k)
	}
	return tree
}

func keysOf[K cmp.Ordered](tree *Tree[K]) []K {
	var keys []K
	tree.inorder(func(id nodeID) bool {
		keys = append(keys, tree.nodes[id].key)
		return true
	})
	return keys
}

func assertTreeSanity[K cmp.Ordered](t *testing.T, tree *Tree[K]) {
	t.Helper()
	require.NoError(t, tree.Verify())

	keys := keysOf(tree)
	assert.True(t, sort.SliceIsSorted(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	}), "in-order keys should be sorted")
	assert.Equal(t, tree.Len(), len(keys))
}

func TestTree_Empty(t *testing.T) {
	tree := New[int]()
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, 0, tree.Height())

	_, ok := tree.Root()
	assert.False(t, ok)

	_, err := tree.Search(1)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	err = tree.Delete(1)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.NoError(t, tree.Verify())
}

func TestTree_basic(t *testing.T) {
	tree := newTreeWithKeys(3000, 4000, 2000)

	// root is always black
	root, ok := tree.Root()
	require.True(t, ok)
	assert.Equal(t, 3000, root.Key())
	assert.Equal(t, Black, root.Color())

	rootNode := tree.nodes[tree.root]
	assert.Equal(t, 2000, tree.nodes[rootNode.left].key)
	assert.Equal(t, Red, tree.nodes[rootNode.left].color)
	assert.Equal(t, 4000, tree.nodes[rootNode.right].key)
	assert.Equal(t, Red, tree.nodes[rootNode.right].color)

	// should rotate
	tree.Insert(1500)
	tree.Insert(1000)
	assertTreeSanity(t, tree)

	assert.NoError(t, tree.Delete(1000))
	assert.NoError(t, tree.Delete(1500))
	assertTreeSanity(t, tree)
	assert.Equal(t, []int{2000, 3000, 4000}, keysOf(tree))
}

func TestTree_InsertScenario(t *testing.T) {
	tree := newTreeWithKeys(scenarioKeys...)

	assert.Equal(t, []int{1, 5, 10, 15, 20, 22, 25, 27, 30}, keysOf(tree))
	assert.Equal(t, 9, tree.Len())

	root, ok := tree.Root()
	require.True(t, ok)
	assert.Equal(t, 20, root.Key())
	assert.Equal(t, Black, root.Color())

	assertTreeSanity(t, tree)
}

func TestTree_DeleteScenario(t *testing.T) {
	tree := newTreeWithKeys(scenarioKeys...)

	for _, k := range []int{1, 5, 15} {
		require.NoError(t, tree.Delete(k), "delete %d", k)
		assertTreeSanity(t, tree)
	}

	assert.Equal(t, []int{10, 20, 22, 25, 27, 30}, keysOf(tree))
	for _, k := range []int{1, 5, 15} {
		assert.False(t, tree.Contains(k), "key %d should be gone", k)
	}
}

func TestTree_SearchScenario(t *testing.T) {
	tree := newTreeWithKeys(scenarioKeys...)

	h, err := tree.Search(22)
	require.NoError(t, err)
	assert.Equal(t, 22, h.Key())
	assert.Equal(t, Black, h.Color())

	before := append([]node[int](nil), tree.nodes...)
	beforeRoot := tree.root

	_, err = tree.Search(99)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	err = tree.Delete(99)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.Equal(t, before, tree.nodes, "a miss should not change the tree")
	assert.Equal(t, beforeRoot, tree.root)
	assert.Equal(t, 9, tree.Len())
}

func TestTree_Duplicates(t *testing.T) {
	tree := newTreeWithKeys(5, 5, 5, 3, 5, 7)
	assert.Equal(t, []int{3, 5, 5, 5, 5, 7}, keysOf(tree))
	assertTreeSanity(t, tree)

	for i := 0; i < 4; i++ {
		assert.True(t, tree.Contains(5))
		require.NoError(t, tree.Delete(5))
		assertTreeSanity(t, tree)
	}

	assert.False(t, tree.Contains(5))
	assert.ErrorIs(t, tree.Delete(5), ErrKeyNotFound)
	assert.Equal(t, []int{3, 7}, keysOf(tree))
}

func TestTree_DeleteRoot(t *testing.T) {
	tree := newTreeWithKeys(1)
	require.NoError(t, tree.Delete(1))
	assert.Equal(t, nilID, tree.root)
	assert.Equal(t, 0, tree.Len())
	assert.NoError(t, tree.Verify())

	tree = newTreeWithKeys(1, 2)
	require.NoError(t, tree.Delete(1))
	root, ok := tree.Root()
	require.True(t, ok)
	assert.Equal(t, 2, root.Key())
	assert.Equal(t, Black, root.Color())
	assertTreeSanity(t, tree)
}

func TestTree_RoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	const total = 2_000

	keys := make([]int, total)
	tree := New[int]()
	for i := range keys {
		keys[i] = rnd.Intn(500)
		tree.Insert(keys[i])
	}
	assertTreeSanity(t, tree)

	rnd.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for _, k := range keys {
		require.NoError(t, tree.Delete(k), "delete %d", k)
	}

	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, nilID, tree.root, "root should be the sentinel")
	assert.NoError(t, tree.Verify())

	stats := tree.Stats()
	assert.Equal(t, int64(total), stats.Alloc)
	assert.Equal(t, int64(total), stats.Free)
}

func TestTree_RandomOpsAgainstMultiset(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	tree := New[int]()
	counts := map[int]int{}

	for step := 0; step < 5_000; step++ {
		k := rnd.Intn(64)
		if rnd.Intn(100) < 55 {
			tree.Insert(k)
			counts[k]++
		} else {
			err := tree.Delete(k)
			if counts[k] > 0 {
				require.NoError(t, err, "step %d: delete %d", step, k)
				counts[k]--
			} else {
				require.ErrorIs(t, err, ErrKeyNotFound, "step %d: delete %d", step, k)
			}
		}

		if !assert.NoError(t, tree.Verify(), "step %d", step) {
			return
		}
	}

	for k := 0; k < 64; k++ {
		_, err := tree.Search(k)
		if counts[k] > 0 {
			assert.NoError(t, err, "key %d should be found", k)
		} else {
			assert.ErrorIs(t, err, ErrKeyNotFound, "key %d should not be found", k)
		}
	}
}

func TestTree_HeightBound(t *testing.T) {
	tree := New[int]()
	// ascending inserts are the worst case of a plain BST
	for i := 1; i <= 10_000; i++ {
		tree.Insert(i)

		if i%500 == 0 {
			bound := 2 * math.Log2(float64(tree.Len()+1))
			assert.LessOrEqual(t, float64(tree.Height()), bound, "height at %d nodes", tree.Len())
		}
	}

	for i := 1; i <= 10_000; i += 2 {
		require.NoError(t, tree.Delete(i))
	}

	bound := 2 * math.Log2(float64(tree.Len()+1))
	assert.LessOrEqual(t, float64(tree.Height()), bound)
	assertTreeSanity(t, tree)
}

func TestTree_ArenaReuse(t *testing.T) {
	tree := newTreeWithKeys(1, 2, 3)
	require.NoError(t, tree.Delete(2))
	arenaSize := len(tree.nodes)

	tree.Insert(4)
	assert.Equal(t, arenaSize, len(tree.nodes), "released slot should be reused")
	assert.Equal(t, int64(1), tree.Stats().Reuse)
	assertTreeSanity(t, tree)
}

func TestTree_StringKeys(t *testing.T) {
	tree := New[string]()
	for _, k := range []string{"m", "c", "x", "a", "e", "z"} {
		tree.Insert(k)
	}

	assert.Equal(t, []string{"a", "c", "e", "m", "x", "z"}, keysOf(tree))
	require.NoError(t, tree.Delete("m"))
	assertTreeSanity(t, tree)
}

func TestTree_RotateWithoutChildPanics(t *testing.T) {
	tree := newTreeWithKeys(1)
	assert.Panics(t, func() { tree.rotateLeft(tree.root) })
	assert.Panics(t, func() { tree.rotateRight(tree.root) })
}

func TestTree_StressInsertDeleteAndValidate(t *testing.T) {
	tree := New[int64]()
	const total = 20_000
	keyset := make(map[int64]struct{}, total)
	for len(keyset) < total {
		keyset[rand.Int63n(10*total)] = struct{}{}
	}
	keys := make([]int64, 0, total)
	for k := range keyset {
		keys = append(keys, k)
	}

	for _, k := range keys {
		tree.Insert(k)
	}
	assert.Equal(t, len(keys), tree.Len(), "tree size should match unique key count after insert")

	// delete half of the keys randomly
	rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for i := 0; i < total/2; i++ {
		require.NoError(t, tree.Delete(keys[i]))
	}

	assert.Equal(t, total/2, tree.Len())
	assertTreeSanity(t, tree)

	for i := total / 2; i < total; i++ {
		assert.True(t, tree.Contains(keys[i]))
	}
}

func BenchmarkTree_InsertDelete(b *testing.B) {
	b.ReportAllocs()

	tree := New[int64]()
	var inserted []int64
	for i := 0; i < b.N; i++ {
		if rand.Intn(3) == 0 && len(inserted) > 0 {
			idx := rand.Intn(len(inserted))
			_ = tree.Delete(inserted[idx])
			inserted[idx] = inserted[len(inserted)-1]
			inserted = inserted[:len(inserted)-1]
		} else {
			k := rand.Int63n(1_000_000)
			tree.Insert(k)
			inserted = append(inserted, k)
		}
	}
}

func TestHandle_Snapshot(t *testing.T) {
	tree := newTreeWithKeys(2, 1, 3)

	h, err := tree.Search(1)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Key())
	assert.Equal(t, Red, h.Color())

	text, err := h.Color().MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "RED", string(text))

	// the handle keeps the color it was read with
	require.NoError(t, tree.Delete(3))
	tree.Insert(0)
	assert.Equal(t, Red, h.Color())
	assertTreeSanity(t, tree)
}
