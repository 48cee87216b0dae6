package mson

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ardnew/mson/elem"
	"github.com/ardnew/mson/ident"
	"github.com/ardnew/mson/log"
	"github.com/ardnew/mson/model"
)

// Fetcher reads the description file of a model id.
type Fetcher interface {
	Fetch(ctx context.Context, id ident.Identifier) (elem.Value, error)
}

// FetcherFunc adapts a function to [Fetcher].
type FetcherFunc func(ctx context.Context, id ident.Identifier) (elem.Value, error)

func (fn FetcherFunc) Fetch(ctx context.Context, id ident.Identifier) (elem.Value, error) {
	return fn(ctx, id)
}

// FutureState is the progress of a requested file.
type FutureState int

const (
	Pending FutureState = iota
	Ready
	Failed
)

func (s FutureState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Future is a file requested by a slot or import. It settles when the
// foundry fetches and parses it.
type Future struct {
	id ident.Identifier

	mu    sync.RWMutex
	state FutureState
	file  *File
	err   error
}

func readyFuture(id ident.Identifier, file *File) *Future {
	return &Future{id: id, state: Ready, file: file}
}

func (fu *Future) ID() ident.Identifier { return fu.id }

func (fu *Future) State() FutureState {
	fu.mu.RLock()
	defer fu.mu.RUnlock()

	return fu.state
}

// File returns the parsed file once the future is ready.
func (fu *Future) File() (*File, error) {
	fu.mu.RLock()
	defer fu.mu.RUnlock()

	switch fu.state {
	case Ready:
		return fu.file, nil
	case Failed:
		return nil, ErrNotLoaded.With(slog.String("model", fu.id.String())).Wrap(fu.err)
	default:
		return nil, ErrUnresolvedData.
			With(slog.String("model", fu.id.String())).
			Errorf("data is not resolved yet. %s", fu.id)
	}
}

func (fu *Future) settle(file *File, err error) {
	fu.mu.Lock()
	defer fu.mu.Unlock()

	if err != nil {
		fu.state, fu.err = Failed, err
	} else {
		fu.state, fu.file = Ready, file
	}
}

// Foundry loads description files and builds them. Files are parsed one at
// a time; the files they refer to are fetched concurrently by [Foundry.Wait].
type Foundry struct {
	fetcher  Fetcher
	registry *Registry
	logger   log.Logger
	limit    int

	mu    sync.Mutex
	files map[ident.Identifier]*Future
	queue []*Future
	group singleflight.Group

	// waiting holds a token while a Wait runs.
	waiting chan struct{}
}

// Option configures a [Foundry].
type Option func(*Foundry)

// WithRegistry sets the registry of component types and implementations.
func WithRegistry(r *Registry) Option {
	return func(f *Foundry) { f.registry = r }
}

// WithLogger sets the logger of load events.
func WithLogger(l log.Logger) Option {
	return func(f *Foundry) { f.logger = l }
}

// WithLimit bounds the number of concurrent fetches. Zero or less is
// unbounded.
func WithLimit(n int) Option {
	return func(f *Foundry) { f.limit = n }
}

// NewFoundry returns a foundry reading files through fetcher.
func NewFoundry(fetcher Fetcher, opts ...Option) *Foundry {
	f := &Foundry{
		fetcher: fetcher,
		files:   map[ident.Identifier]*Future{},
		waiting: make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.registry == nil {
		f.registry = NewRegistry()
	}

	return f
}

func (f *Foundry) Registry() *Registry { return f.registry }

// File returns the file id if it is loaded.
func (f *Foundry) File(id ident.Identifier) (*File, bool) {
	f.mu.Lock()
	fu, ok := f.files[id]
	f.mu.Unlock()

	if !ok {
		return nil, false
	}

	file, err := fu.File()

	return file, err == nil
}

// Loaded returns the ids of the files parsed so far, sorted.
func (f *Foundry) Loaded() []ident.Identifier {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]ident.Identifier, 0, len(f.files))

	for id, fu := range f.files {
		if fu.State() == Ready {
			ids = append(ids, id)
		}
	}

	slices.SortFunc(ids, func(a, b ident.Identifier) int {
		return strings.Compare(a.String(), b.String())
	})

	return ids
}

// Load fetches and parses the file id and the files it inherits from. The
// files its slots and imports refer to are only requested; call
// [Foundry.Wait] to load them.
func (f *Foundry) Load(ctx context.Context, id ident.Identifier) (*File, error) {
	return f.load(ctx, id, nil)
}

// Register parses doc as the file id without fetching it.
func (f *Foundry) Register(ctx context.Context, id ident.Identifier, doc elem.Value) (*File, error) {
	return f.parse(ctx, id, doc, nil)
}

// settled returns the future of id unless it is missing or pending.
func (f *Foundry) settled(id ident.Identifier) (*Future, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fu, ok := f.files[id]

	return fu, ok && fu.State() != Pending
}

// load fetches and parses id. stack holds the files inheriting from id.
// A fetch cut short by ctx leaves the future pending, so a later call can
// retry it.
func (f *Foundry) load(ctx context.Context, id ident.Identifier, stack []ident.Identifier) (*File, error) {
	if slices.Contains(stack, id) {
		return nil, ErrCyclicalParent.
			With(slog.String("model", id.String())).
			Errorf("cyclical parent: %s inherits from itself", id)
	}

	if fu, ok := f.settled(id); ok {
		return fu.File()
	}

	v, err := f.fetch(ctx, id)
	if err != nil {
		if ctx.Err() == nil {
			f.settle(id, nil, err)
		}

		return nil, err
	}

	return f.parse(ctx, id, v, stack)
}

// parse builds the file id from v, loading its parent first. The first
// file settled for id wins; a concurrent parse of the same id returns it.
func (f *Foundry) parse(ctx context.Context, id ident.Identifier, v elem.Value, stack []ident.Identifier) (*File, error) {
	obj, ok := v.AsObject()
	if !ok {
		return f.settle(id, nil, ErrMalformedComponent.
			With(slog.String("model", id.String())).
			Errorf("model file must be an object, got %s", v.Kind()))
	}

	var parent *File

	if s, ok := stringMember(obj, "parent"); ok {
		pid, err := ident.Parse(s)
		if err != nil {
			return f.settle(id, nil, err)
		}

		if parent, err = f.load(ctx, pid, append(stack, id)); err != nil {
			if ctx.Err() != nil {
				return nil, err
			}

			return f.settle(id, nil, err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fu := f.future(id)
	if fu.State() != Pending {
		return fu.File()
	}

	// newFile requests the files of slots and imports, so it runs with f.mu
	// held.
	file, err := newFile(f, id, obj, parent)
	fu.settle(file, err)

	if err != nil {
		return nil, err
	}

	f.logger.DebugContext(ctx, "parsed model file", slog.Any("file", file))

	return file, nil
}

// settle settles the future of id unless it already is, and returns its
// outcome.
func (f *Foundry) settle(id ident.Identifier, file *File, err error) (*File, error) {
	f.mu.Lock()
	fu := f.future(id)
	f.mu.Unlock()

	if fu.State() == Pending {
		fu.settle(file, err)
	}

	return fu.File()
}

// fetch reads id once for all concurrent callers. A caller whose context is
// live fetches again if the shared call was cancelled by another caller's
// context.
func (f *Foundry) fetch(ctx context.Context, id ident.Identifier) (elem.Value, error) {
	if err := ctx.Err(); err != nil {
		return elem.Null(), err
	}

	v, err, shared := f.group.Do(id.String(), func() (any, error) {
		f.logger.TraceContext(ctx, "fetching model file", slog.String("id", id.String()))

		return f.fetcher.Fetch(ctx, id)
	})

	if shared && err != nil && ctx.Err() == nil &&
		(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		v, err = f.fetcher.Fetch(ctx, id)
	}

	if err != nil {
		f.logger.WarnContext(ctx, "failed to fetch model file",
			slog.String("id", id.String()), slog.Any("error", err))

		return elem.Null(), err
	}

	if shared {
		f.logger.TraceContext(ctx, "shared model file fetch", slog.String("id", id.String()))
	}

	return v.(elem.Value), nil
}

// future returns the future of id, creating it pending. Called with f.mu
// held.
func (f *Foundry) future(id ident.Identifier) *Future {
	fu, ok := f.files[id]
	if !ok {
		fu = &Future{id: id}
		f.files[id] = fu
	}

	return fu
}

// request returns the future of id, queueing it for [Foundry.Wait] if it is
// new. Called with f.mu held.
func (f *Foundry) request(id ident.Identifier) *Future {
	if fu, ok := f.files[id]; ok {
		return fu
	}

	fu := f.future(id)
	f.queue = append(f.queue, fu)

	return fu
}

// Wait loads every requested file, and the files those request in turn,
// until nothing is pending. It returns the errors of every file that
// failed.
//
// Calls are serialized: a Wait that starts while another runs returns only
// after the other settled its files. If ctx ends first, the files not yet
// settled are queued again and ctx.Err is returned.
func (f *Foundry) Wait(ctx context.Context) error {
	select {
	case f.waiting <- struct{}{}:
		defer func() { <-f.waiting }()
	case <-ctx.Done():
		return ctx.Err()
	}

	var errs []error

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		f.mu.Lock()
		batch := f.queue
		f.queue = nil
		f.mu.Unlock()

		if len(batch) == 0 {
			break
		}

		values := make([]elem.Value, len(batch))
		failures := make([]error, len(batch))

		var g errgroup.Group
		if f.limit > 0 {
			g.SetLimit(f.limit)
		}

		for i, fu := range batch {
			if fu.State() != Pending {
				continue
			}

			g.Go(func() error {
				values[i], failures[i] = f.fetch(ctx, fu.id)

				return nil
			})
		}

		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			f.requeue(batch)

			return err
		}

		for i, fu := range batch {
			if fu.State() != Pending {
				continue
			}

			var err error
			if failures[i] != nil {
				_, err = f.settle(fu.id, nil, failures[i])
			} else {
				_, err = f.parse(ctx, fu.id, values[i], nil)
			}

			if err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// requeue puts the pending futures of batch back in front of the queue.
func (f *Foundry) requeue(batch []*Future) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pending := slices.DeleteFunc(batch, func(fu *Future) bool { return fu.State() != Pending })
	f.queue = append(pending, f.queue...)
}

// Build loads the file id and everything it refers to, then exports its
// tree under a root part named "".
func (f *Foundry) Build(ctx context.Context, id ident.Identifier) (*model.Part, error) {
	root, _, err := f.build(ctx, id, nil)

	return root, err
}

// CreateModel builds the registered model key and hands it to the key's
// factory.
func (f *Foundry) CreateModel(ctx context.Context, key *ModelKey) (*model.Model, error) {
	m := model.NewModel(key.ID, model.NewPart(""))

	_, c, err := f.build(ctx, key.ID, m)
	if err != nil {
		return nil, err
	}

	if key.Factory != nil {
		if err := key.Factory(c, m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (f *Foundry) build(ctx context.Context, id ident.Identifier, m *model.Model) (*model.Part, Context, error) {
	file, err := f.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := f.Wait(ctx); err != nil {
		return nil, nil, err
	}

	root := model.NewPart("")
	if m != nil {
		root = m.Tree
	}

	c := file.CreateContext(m, NewModelLocals(id, file.Locals()))

	if err := c.Tree(root.Children, c); err != nil {
		return nil, nil, err
	}

	f.logger.DebugContext(ctx, "built model",
		slog.String("id", id.String()), slog.Int("roots", root.Children.Len()))

	return root, c, nil
}
