package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/DoyleJ11/rps-arena/internal/engine"
	"github.com/DoyleJ11/rps-arena/internal/hub"
)

func next(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case m := <-ch:
		return m
	default:
		t.Fatalf("expected a message")
		return ""
	}
}

func newRegistry(t *testing.T) *Registry {
	log := zaptest.NewLogger(t)
	return New(hub.NewHub(log), engine.DefaultRules(), log)
}

func TestRegister_AnnouncesToOthers(t *testing.T) {
	r := newRegistry(t)
	a, b := make(chan string, 4), make(chan string, 4)

	p := r.Register(1, "", a)
	r.Register(2, "bob", b)

	assert.Equal(t, "Player1", p.Name)
	assert.Equal(t, 5, p.HP)
	assert.Equal(t, "bob joined the chat.\n", next(t, a))
	assert.Empty(t, b)
}

func TestUnregister_AnnouncesAndClosesOutbox(t *testing.T) {
	r := newRegistry(t)
	a, b := make(chan string, 4), make(chan string, 4)
	r.Register(1, "alice", a)
	r.Register(2, "bob", b)
	_ = next(t, a)

	r.Unregister(2)
	r.Unregister(2)

	assert.Equal(t, "bob left the chat.\n", next(t, a))
	_, open := <-b
	assert.False(t, open)
	assert.Equal(t, 1, r.Len())
}

func TestLookup_NotFound(t *testing.T) {
	r := newRegistry(t)
	r.Register(1, "", make(chan string, 1))

	p, err := r.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)

	_, err = r.Lookup(42)
	assert.True(t, errors.Is(err, engine.ErrPlayerNotFound))
}

func TestForEach_IDOrder(t *testing.T) {
	r := newRegistry(t)
	for _, id := range []int{3, 1, 2} {
		r.Register(id, "", make(chan string, 4))
	}

	var ids []int
	r.ForEach(func(p *engine.Player) { ids = append(ids, p.ID) })

	assert.Equal(t, []int{1, 2, 3}, ids)
}
