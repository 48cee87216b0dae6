package mson

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/mson/elem"
	"github.com/ardnew/mson/ident"
	"github.com/ardnew/mson/model"
)

// countingFetcher records how many times each file is fetched.
type countingFetcher struct {
	files files

	mu    sync.Mutex
	count map[string]int
}

func (c *countingFetcher) Fetch(ctx context.Context, id ident.Identifier) (elem.Value, error) {
	c.mu.Lock()
	if c.count == nil {
		c.count = map[string]int{}
	}
	c.count[id.String()]++
	c.mu.Unlock()

	return c.files.Fetch(ctx, id)
}

func TestFoundry_ParentCycle(t *testing.T) {
	fs := files{
		"test:a": `{"parent": "test:b"}`,
		"test:b": `{"parent": "test:a"}`,
	}

	_, err := NewFoundry(fs).Load(context.Background(), ident.MustParse("test:a"))
	assert.ErrorIs(t, err, ErrCyclicalParent)
}

func TestFoundry_MissingFile(t *testing.T) {
	fs := files{
		"test:a": `{"data": {"hat": "test:gone"}}`,
	}

	foundry := NewFoundry(fs)

	_, err := foundry.Build(context.Background(), ident.MustParse("test:a"))
	require.ErrorIs(t, err, errNoFile)

	_, ok := foundry.File(ident.MustParse("test:gone"))
	assert.False(t, ok)

	_, err = foundry.Load(context.Background(), ident.MustParse("test:gone"))
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestFoundry_WaitFetchesOnce(t *testing.T) {
	const n = 8

	fs := files{
		"test:leaf":  `{"data": {"leaf": {"pivot": [1, 1, 1]}}}`,
		"test:inner": `{"data": {"inner": {"children": {"x": "test:leaf", "y": "test:leaf"}}}}`,
	}

	src := `{"data": {`
	for i := range n {
		if i > 0 {
			src += ", "
		}

		src += fmt.Sprintf(`"p%d": {"children": {"a": "test:inner", "b": "test:leaf"}}`, i)
	}

	fs["test:root"] = src + `}}`

	fetcher := &countingFetcher{files: fs}

	root, err := NewFoundry(fetcher, WithLimit(2)).Build(context.Background(), ident.MustParse("test:root"))
	require.NoError(t, err)
	assert.Equal(t, n, root.Children.Len())

	for _, id := range []string{"test:root", "test:inner", "test:leaf"} {
		assert.Equal(t, 1, fetcher.count[id], "fetches of %s", id)
	}

	inner := child[*model.Part](t, child[*model.Part](t, root, "p3"), "a")
	assert.Equal(t, "a", inner.Name)
	assert.Equal(t, []string{"x", "y"}, inner.Children.Keys())
}

func TestFoundry_Register(t *testing.T) {
	foundry := NewFoundry(files{})

	doc, err := elem.Unmarshal([]byte(`{"data": {"body": {"pivot": [0, 1, 0]}}}`))
	require.NoError(t, err)

	id := ident.MustParse("test:memory")

	_, err = foundry.Register(context.Background(), id, doc)
	require.NoError(t, err)

	file, ok := foundry.File(id)
	require.True(t, ok)
	assert.Equal(t, []string{"body"}, file.ComponentNames())

	root, err := foundry.Build(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"body"}, root.Children.Keys())
	assert.Equal(t, []ident.Identifier{id}, foundry.Loaded())
}

func TestFoundry_CreateModel(t *testing.T) {
	fs := files{
		"test:steve": `{"data": {"head": {}, "body": {}}}`,
	}

	foundry := NewFoundry(fs)

	var seen *model.Model

	key, err := foundry.Registry().RegisterModel(ident.MustParse("test:steve"),
		func(c Context, m *model.Model) error {
			seen = c.Model()
			m.Value = m.Tree.Children.Len()

			return nil
		})
	require.NoError(t, err)

	m, err := foundry.CreateModel(context.Background(), key)
	require.NoError(t, err)

	assert.Same(t, m, seen)
	assert.Equal(t, "", m.Tree.Name)
	assert.Equal(t, []string{"head", "body"}, m.Tree.Children.Keys())
	assert.Equal(t, 2, m.Value)
}

func TestRegistry(t *testing.T) {
	noop := func(FileContext, Name, *elem.Object) (Component, error) { return nil, nil }

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"minecraft", "minecraft:thing", ErrReservedNamespace},
		{"mson", "mson:box", ErrReservedNamespace},
		{"dynamic", "dynamic:thing", ErrReservedNamespace},
		{"custom", "custom:thing", nil},
	}

	r := NewRegistry()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.RegisterComponent(ident.MustParse(tt.id), noop)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("duplicate", func(t *testing.T) {
		err := r.RegisterComponent(ident.MustParse("custom:thing"), noop)
		assert.ErrorIs(t, err, ErrDuplicateRegistration)
	})

	t.Run("builtin", func(t *testing.T) {
		for _, id := range []ident.Identifier{CompoundID, BoxID, PlaneID, PlanarID, SlotID, ConeID, QuadsID, ImportID} {
			_, err := r.Component(id)
			assert.NoError(t, err, id.String())
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := r.Component(ident.MustParse("custom:other"))
		assert.ErrorIs(t, err, ErrUnknownComponent)
	})

	t.Run("implementation", func(t *testing.T) {
		impl := r.Implementation("com.example.Foo$Bar")
		assert.Equal(t, "dynamic:com/example/foo/bar", impl.ID().String())
		assert.Same(t, impl, r.Implementation("com.example.Foo$Bar"))

		_, err := r.RegisterImplementation("com.example.Foo$Bar", nil)
		assert.ErrorIs(t, err, ErrDuplicateRegistration)
	})

	t.Run("model", func(t *testing.T) {
		id := ident.MustParse("custom:model")

		_, err := r.RegisterModel(id, nil)
		require.NoError(t, err)

		_, err = r.RegisterModel(id, nil)
		assert.ErrorIs(t, err, ErrDuplicateRegistration)

		key, ok := r.Model(id)
		require.True(t, ok)
		assert.Equal(t, id, key.ID)
	})
}

func TestFuture(t *testing.T) {
	fu := &Future{id: ident.MustParse("test:a")}
	assert.Equal(t, Pending, fu.State())

	_, err := fu.File()
	assert.ErrorIs(t, err, ErrUnresolvedData)

	fu.settle(nil, errNoFile)
	assert.Equal(t, Failed, fu.State())

	_, err = fu.File()
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, err, errNoFile)
}

// slowFetcher delays every fetch, so concurrent callers overlap.
type slowFetcher struct {
	files files
	delay time.Duration
}

func (s slowFetcher) Fetch(ctx context.Context, id ident.Identifier) (elem.Value, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return elem.Null(), ctx.Err()
	}

	return s.files.Fetch(ctx, id)
}

func TestFoundry_WaitBarrier(t *testing.T) {
	fs := files{
		"test:saddle": `{"data": {"seat": {"pivot": [0, 1, 0]}}}`,
		"test:horse": `{"data": {
			"body": {"children": {"saddle": {"type": "import", "data": "test:saddle"}}},
			"tack": {"type": "slot", "name": "tack", "implementation": "Tack", "data": "test:saddle"}
		}}`,
	}

	horse := ident.MustParse("test:horse")

	tests := []struct {
		name string
		run  func(t *testing.T, f *Foundry)
	}{
		{
			name: "cancelled_wait_is_retried",
			run: func(t *testing.T, f *Foundry) {
				_, err := f.Load(context.Background(), horse)
				require.NoError(t, err)

				ctx, cancel := context.WithCancel(context.Background())
				cancel()

				require.ErrorIs(t, f.Wait(ctx), context.Canceled)

				root, err := f.Build(context.Background(), horse)
				require.NoError(t, err)
				assert.Equal(t, []string{"body", "tack"}, root.Children.Keys())
			},
		},
		{
			name: "cancelled_load_is_retried",
			run: func(t *testing.T, f *Foundry) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()

				_, err := f.Build(ctx, horse)
				require.ErrorIs(t, err, context.Canceled)

				_, err = f.Build(context.Background(), horse)
				require.NoError(t, err)
			},
		},
		{
			name: "concurrent_builds",
			run: func(t *testing.T, f *Foundry) {
				const n = 8

				errs := make([]error, n)

				var wg sync.WaitGroup

				for i := range n {
					wg.Go(func() {
						_, errs[i] = f.Build(context.Background(), horse)
					})
				}

				wg.Wait()

				for i, err := range errs {
					assert.NoError(t, err, "build %d", i)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.run(t, NewFoundry(slowFetcher{files: fs, delay: 5 * time.Millisecond}))
		})
	}
}
