package descriptors

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestClassCache(t *testing.T) {
	graphType := reflect.TypeFor[*Graph]()

	t.Run("NewClassCache", func(t *testing.T) {
		cache := NewClassCache()
		assert.NotNil(t, cache)
		assert.Zero(t, cache.Len())
	})

	t.Run("LoadOrStore", func(t *testing.T) {
		cache := NewClassCache()
		first := NewClass("First")

		actual, loaded := cache.LoadOrStore(graphType, first)
		assert.False(t, loaded)
		assert.Same(t, first, actual)

		actual, loaded = cache.LoadOrStore(graphType, NewClass("Second"))
		assert.True(t, loaded)
		assert.Same(t, first, actual, "second store must return the first class")
	})

	t.Run("Get", func(t *testing.T) {
		cache := NewClassCache()

		c, ok := cache.Get(graphType)
		assert.Nil(t, c)
		assert.False(t, ok)

		cache.LoadOrStore(graphType, graphClass)
		c, ok = cache.Get(graphType)
		assert.True(t, ok)
		assert.Same(t, graphClass, c)
	})

	t.Run("Delete", func(t *testing.T) {
		cache := NewClassCache()
		cache.LoadOrStore(graphType, graphClass)
		cache.Delete(graphType)

		_, ok := cache.Get(graphType)
		assert.False(t, ok)
	})

	t.Run("ClearAndRange", func(t *testing.T) {
		cache := NewClassCache()
		cache.LoadOrStore(graphType, graphClass)
		cache.LoadOrStore(reflect.TypeFor[*Config](), configClass)

		seen := map[string]bool{}
		cache.Range(func(_ reflect.Type, c *Class) bool {
			seen[c.Name()] = true
			return true
		})
		assert.Equal(t, map[string]bool{"Graph": true, "Config": true}, seen)

		cache.Clear()
		assert.Zero(t, cache.Len())
	})

	t.Run("ConcurrentLoadOrStore", func(t *testing.T) {
		cache := NewClassCache()
		classes := make([]*Class, 50)
		var wg sync.WaitGroup
		for i := range classes {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				classes[i], _ = cache.LoadOrStore(graphType, NewClass("Racer"))
			}(i)
		}
		wg.Wait()

		for _, c := range classes {
			assert.Same(t, classes[0], c, "every goroutine must observe the same class")
		}
	})
}

func TestRegistry(t *testing.T) {
	t.Run("RegisterAndLookup", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, RegisterIn[*Graph](r, graphClass))
		require.NoError(t, RegisterIn[*Graph](r, graphClass), "re-registering the same class is a no-op")

		c, err := r.ClassOf(&Graph{})
		require.NoError(t, err)
		assert.Same(t, graphClass, c)
		assert.Len(t, r.Classes(), 1)
	})

	t.Run("Conflict", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, RegisterIn[*Graph](r, graphClass))
		err := RegisterIn[*Graph](r, NewClass("Imposter"))
		assert.ErrorIs(t, err, ErrClassAlreadyRegistered)
	})

	t.Run("NotRegistered", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.ClassOf(&Dog{})
		assert.ErrorIs(t, err, ErrClassNotRegistered)
		assert.ErrorIs(t, r.Init(&Dog{}, nil), ErrClassNotRegistered)

		_, err = r.ClassOf(nil)
		assert.ErrorIs(t, err, ErrNilInstance)
	})

	t.Run("UnregisterAndReset", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, RegisterIn[*Dog](r, dogClass))
		require.NoError(t, RegisterIn[*Animal](r, animalClass))

		r.Unregister(&Dog{})
		_, err := r.ClassOf(&Dog{})
		assert.ErrorIs(t, err, ErrClassNotRegistered)

		r.Reset()
		assert.Empty(t, r.Classes())
	})

	t.Run("InitDelegates", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, RegisterIn[*Dog](r, dogClass))

		dog := &Dog{}
		require.NoError(t, r.Init(dog, map[string]any{"name": "rex"}))
		require.NoError(t, r.InitJSON(dog, []byte(`{"legs": 4}`)))
		require.NoError(t, r.InitYAML(dog, []byte("breed: collie\n")))
		t.Setenv("DOG_BARKS", "true")
		require.NoError(t, r.InitEnv(dog, EnvOpts{Prefix: "DOG_"}))

		assert.Equal(t, map[string]any{
			"name":  "rex",
			"legs":  4,
			"breed": "collie",
			"barks": true,
		}, dogClass.Snapshot(dog))
	})

	t.Run("LogsRegistration", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		r := NewRegistry(RegistryOpts{Logger: zap.New(core)})
		require.NoError(t, RegisterIn[*Graph](r, graphClass))
		require.NoError(t, RegisterIn[*Graph](r, graphClass))

		entries := logs.FilterMessage("class registered").AllUntimed()
		require.Len(t, entries, 1)
		assert.Equal(t, "Graph", entries[0].ContextMap()["class"])
	})
}

func TestGlobalRegistry(t *testing.T) {
	c, err := ClassOf(&Graph{})
	require.NoError(t, err)
	assert.Same(t, graphClass, c)

	g := &Graph{}
	require.NoError(t, Init(g, map[string]any{"n": 2}))
	require.NoError(t, InitJSON(g, []byte(`{"labels": ["a", "b"]}`)))
	assert.Equal(t, []string{"a", "b"}, graphLabels.MustGet(g))

	cfg := &Config{}
	require.NoError(t, InitYAML(cfg, []byte("host: h\nport: 1\n")))
	t.Setenv("GLOBAL_DEBUG", "on")
	require.NoError(t, InitEnv(cfg, EnvOpts{Prefix: "GLOBAL_"}))
	assert.True(t, configDebug.MustGet(cfg))
	assert.Equal(t, "h:1", configAddress.MustGet(cfg))

	assert.Panics(t, func() { Register[*Graph](NewClass("Imposter")) })
	assert.NotPanics(t, func() { Register[*Graph](graphClass) })

	_, err = ClassOf(&Dog{})
	assert.ErrorIs(t, err, ErrClassNotRegistered)
}
