package transport

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrSimulated is the injected network failure.
var ErrSimulated = errors.New("simulated network error")

func IsSimulated(err error) bool {
	return errors.Is(err, ErrSimulated)
}

type Kind int

const (
	KindRead     Kind = iota // delay only
	KindMutation             // delay + Config.ErrorRate
	KindBatch                // delay + Config.BatchErrorRate, once per batch
)

type Operation struct {
	Name                  string
	Kind                  Kind
	DisableErrorInjection bool
}

func Read(name string) Operation {
	return Operation{Name: name, Kind: KindRead}
}

func Mutation(name string) Operation {
	return Operation{Name: name, Kind: KindMutation}
}

func Batch(name string) Operation {
	return Operation{Name: name, Kind: KindBatch}
}

func (o Operation) WithoutErrors() Operation {
	o.DisableErrorInjection = true
	return o
}

type Config struct {
	MinDelay       time.Duration
	MaxDelay       time.Duration
	ErrorRate      float64
	BatchErrorRate float64
	RandSeed       int64 // 0 - seeded from clock
}

type Provider interface {
	// Do waits the simulated latency, possibly fails with ErrSimulated, then runs fn.
	Do(ctx context.Context, op Operation, fn func(ctx context.Context) error) error
	// WithSeeding returns a transport sharing the same source but never delaying or failing.
	WithSeeding() Provider
	IsSeeding() bool
}

var Instance Provider

func NewHandler(cfg Config) {
	Instance = New(cfg)
}

func New(cfg Config) Provider {
	seed := cfg.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	return &impl{
		cfg: cfg,
		rnd: &lockedRand{rnd: rand.New(rand.NewSource(seed))},
	}
}

type impl struct {
	cfg     Config
	seeding bool
	rnd     *lockedRand
}

func (i *impl) Do(ctx context.Context, op Operation, fn func(ctx context.Context) error) error {
	if !i.seeding {
		if err := i.wait(ctx); err != nil {
			return err
		}
		if !op.DisableErrorInjection && i.shouldFail(op.Kind) {
			log.WithField("operation", op.Name).Warn("simulated network failure injected")
			return errors.Wrap(ErrSimulated, op.Name)
		}
	}
	return fn(ctx)
}

func (i *impl) WithSeeding() Provider {
	return &impl{
		cfg:     i.cfg,
		seeding: true,
		rnd:     i.rnd,
	}
}

func (i *impl) IsSeeding() bool {
	return i.seeding
}

func (i *impl) wait(ctx context.Context) error {
	delay := i.cfg.MinDelay
	if span := i.cfg.MaxDelay - i.cfg.MinDelay; span > 0 {
		delay += time.Duration(i.rnd.Int63n(int64(span)))
	}
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (i *impl) shouldFail(kind Kind) bool {
	var rate float64
	switch kind {
	case KindMutation:
		rate = i.cfg.ErrorRate
	case KindBatch:
		rate = i.cfg.BatchErrorRate
	default:
		return false
	}
	if rate <= 0 {
		return false
	}
	return i.rnd.Float64() < rate
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (r *lockedRand) Int63n(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Int63n(n)
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64()
}
