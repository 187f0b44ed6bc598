package envvar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	t.Setenv("RBTREE_TEST_ENV", "production")

	v, ok := String("RBTREE_TEST_ENV")
	assert.True(t, ok)
	assert.Equal(t, "production", v)

	v, ok = String("RBTREE_TEST_MISSING", "development")
	assert.False(t, ok)
	assert.Equal(t, "development", v)
}

func TestBool(t *testing.T) {
	t.Setenv("RBTREE_TEST_BOOL", "true")
	t.Setenv("RBTREE_TEST_BAD_BOOL", "maybe")

	v, ok := Bool("RBTREE_TEST_BOOL")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = Bool("RBTREE_TEST_BAD_BOOL", true)
	assert.False(t, ok)
	assert.True(t, v)

	var flag bool
	assert.True(t, SetBool("RBTREE_TEST_BOOL", &flag))
	assert.True(t, flag)
	assert.False(t, SetBool("RBTREE_TEST_MISSING", &flag))
}
