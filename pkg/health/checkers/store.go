package checkers

import (
	"context"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool and the in-memory store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type StoreChecker struct {
	name string
	p    Pinger
}

func NewStoreChecker(name string, p Pinger) *StoreChecker {
	return &StoreChecker{name: name, p: p}
}

func (c *StoreChecker) Name() string { return c.name }

func (c *StoreChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return c.p.Ping(ctx)
}
