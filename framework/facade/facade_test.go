package facade_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-facade/framework/container"
	"github.com/km-arc/go-facade/framework/facade"
)

func TestFor_KeyedByType(t *testing.T) {
	reg := facade.NewRegistry(facade.ContainerOf(container.New()))
	f := facade.For[*Widget](reg)

	assert.Equal(t, facade.KeyOf[*Widget](), f.Key())
	assert.Equal(t, facade.ServiceKey(container.KeyFor[Widget]()), f.Key(), "pointer and value share a key")
	assert.True(t, reg.Registered(f.Key()))
}

func TestNamed_ExplicitKey(t *testing.T) {
	c := container.New()
	reg := facade.NewRegistry(facade.ContainerOf(c))
	f := facade.Named[*Widget](reg, "widget")
	c.Singleton("widget", widget(4))

	w, err := f.That()
	require.NoError(t, err)
	assert.Equal(t, int64(4), w.ID)
	assert.True(t, f.HasInstance())
}

func TestFacade_InterfaceType(t *testing.T) {
	c := container.New()
	reg := facade.NewRegistry(facade.ContainerOf(c))
	f := facade.For[Gadget](reg)
	c.Singleton(string(f.Key()), func(_ *container.Container, _ ...any) (any, error) {
		return namedGadget("sprocket"), nil
	})

	assert.Equal(t, "sprocket", f.MustThat().Name())
}

func TestFacade_MakeForwardsArgsOnMiss(t *testing.T) {
	c := container.New()
	reg := facade.NewRegistry(facade.ContainerOf(c))
	f := facade.For[*Widget](reg)
	c.Bind(string(f.Key()), func(_ *container.Container, args ...any) (any, error) {
		return &Widget{ID: args[0].(int64)}, nil
	})

	w, err := f.Make(int64(12))
	require.NoError(t, err)
	assert.Equal(t, int64(12), w.ID)
	assert.False(t, f.HasInstance())
}

func TestFacade_TypeMismatch(t *testing.T) {
	c := container.New()
	reg := facade.NewRegistry(facade.ContainerOf(c))
	f := facade.Named[*Widget](reg, "widget")
	c.Instance("widget", "not a widget")

	w, err := f.That()
	assert.Nil(t, w)
	assert.ErrorIs(t, err, facade.ErrTypeMismatch)
	assert.Contains(t, err.Error(), "string")
}

func TestFacade_MustThatPanics(t *testing.T) {
	reg := facade.NewRegistry(facade.ContainerOf(container.New()))
	f := facade.Named[*Widget](reg, "missing")

	assert.Panics(t, func() { f.MustThat() })
}

func TestFacade_SharesRegistryState(t *testing.T) {
	c := container.New()
	reg := facade.NewRegistry(facade.ContainerOf(c))
	a := facade.For[*Widget](reg)
	b := facade.For[*Widget](reg)
	c.Singleton(string(a.Key()), widget(1))

	_ = a.MustThat()
	assert.True(t, b.HasInstance(), "facades of one key share the cache")
}

func TestContainerOf_UnboundIsUntypedNil(t *testing.T) {
	fc := facade.ContainerOf(container.New())
	assert.Nil(t, fc.GetBinding("nothing"))
	assert.True(t, fc.GetBinding("nothing") == nil)
}

func TestConcurrentGetInstance_SingleResolve(t *testing.T) {
	f := newFixture(t)
	factory, built := widgets()
	f.c.Singleton(string(f.key), factory)

	const workers = 32
	results := make([]any, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			v, err := f.reg.GetInstance(f.key)
			if err == nil {
				results[idx] = v
			}
		}(i)
	}
	wg.Wait()

	for _, v := range results {
		assert.Same(t, results[0], v)
	}
	assert.Equal(t, int64(1), built.Load())
}

func TestConcurrentRebindAndGet_NoStaleAfterQuiesce(t *testing.T) {
	f := newFixture(t)
	factory, _ := widgets()
	f.c.Singleton(string(f.key), factory)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 200 {
			_, _ = f.reg.GetInstance(f.key)
		}
	}()
	go func() {
		defer wg.Done()
		for i := range 50 {
			if i%2 == 0 {
				f.c.Singleton(string(f.key), factory)
			} else {
				f.c.Release(string(f.key))
			}
		}
	}()
	wg.Wait()

	assert.Same(t, f.shared(t), f.get(t))
}

func TestReset_DuringNestedResolve(t *testing.T) {
	c := container.New()
	reg := facade.NewRegistry(facade.ContainerOf(c))
	reg.RegisterServiceType("outer")
	reg.RegisterServiceType("inner")

	started := make(chan struct{})
	proceed := make(chan struct{})
	c.Singleton("inner", widget(1))
	c.Singleton("outer", func(_ *container.Container, _ ...any) (any, error) {
		close(started)
		<-proceed
		v, err := reg.GetInstance("inner")
		if err != nil {
			return nil, err
		}
		return &Widget{ID: v.(*Widget).ID + 10}, nil
	})

	type result struct {
		v   any
		err error
	}
	resolved := make(chan result, 1)
	go func() {
		v, err := reg.GetInstance("outer")
		resolved <- result{v, err}
	}()
	<-started

	next := container.New()
	next.Singleton("inner", widget(1))
	resetDone := make(chan struct{})
	go func() {
		reg.Reset(facade.ContainerOf(next))
		close(resetDone)
	}()
	time.Sleep(20 * time.Millisecond)
	close(proceed)

	select {
	case res := <-resolved:
		require.NoError(t, res.err)
		assert.Equal(t, int64(11), res.v.(*Widget).ID)
	case <-time.After(2 * time.Second):
		t.Fatal("GetInstance(outer) did not return while Reset was pending")
	}
	select {
	case <-resetDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Reset did not return")
	}

	assert.False(t, reg.HasValidCache("outer"))
	st, ok := reg.State("outer")
	require.True(t, ok)
	assert.Equal(t, facade.PhaseUninitialized, st.Phase)
}

func TestSetLogger_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := facade.Logger
	t.Cleanup(func() { facade.Logger = prev })
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)
	facade.SetLogger(&l)

	reg := facade.NewRegistry(nil)
	reg.RegisterServiceType("svc")

	out := buf.String()
	assert.True(t, strings.Contains(out, `"component":"facade"`), out)
	assert.Contains(t, out, "facade registered")
}
