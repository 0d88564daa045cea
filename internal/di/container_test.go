package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct{ n int }

func TestContainerRegistration(t *testing.T) {
	c := NewContainer()
	assert.False(t, c.Has("counter"))
	assert.Nil(t, c.Get("counter"))

	c.Register("counter", &counter{n: 3})
	c.Register("name", "aether")
	assert.True(t, c.Has("counter"))
	assert.Equal(t, []string{"counter", "name"}, c.GetNames())

	got, err := Resolve[*counter](c, "counter")
	require.NoError(t, err)
	assert.Equal(t, 3, got.n)

	_, err = Resolve[*counter](c, "name")
	assert.EqualError(t, err, `service "name" has type string`)
	_, err = Resolve[*counter](c, "missing")
	assert.Error(t, err)

	c.Clear()
	assert.Empty(t, c.GetNames())
}

func TestGetContainerIsShared(t *testing.T) {
	assert.Same(t, GetContainer(), GetContainer())
}
