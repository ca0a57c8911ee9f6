package viewmodel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_ScreenReuse(t *testing.T) {
	r := NewRegistry(time.Hour)
	created := 0
	factory := func() *Container[string, int] {
		created++
		return New(func(context.Context, string) (int, error) { return 1, nil }, "")
	}

	a := Screen(r, "s1", "feed", factory)
	b := Screen(r, "s1", "feed", factory)
	c := Screen(r, "s2", "feed", factory)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, created)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_TypeMismatchReplaces(t *testing.T) {
	r := NewRegistry(time.Hour)
	Screen(r, "s1", "x", func() int { return 1 })
	got := Screen(r, "s1", "x", func() string { return "v" })
	assert.Equal(t, "v", got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_DropAndSweep(t *testing.T) {
	r := NewRegistry(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	Screen(r, "s1", "feed", func() int { return 1 })
	Screen(r, "s1", "jobs", func() int { return 1 })
	Screen(r, "s2", "feed", func() int { return 1 })

	r.Drop("s1")
	assert.Equal(t, 1, r.Len())

	now = now.Add(30 * time.Second)
	Screen(r, "s3", "feed", func() int { return 1 })
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
}
