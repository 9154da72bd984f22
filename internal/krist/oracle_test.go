package krist

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestNodeOracleReserveBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/addresses/kmasterwallet" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"ok":true,"address":{"address":"kmasterwallet","balance":12345}}`)
	}))
	defer srv.Close()

	oracle := NewNodeOracle(NewNodeClient(srv.URL), "kmasterwallet")

	balance, err := oracle.ReserveBalance(context.Background())
	if err != nil {
		t.Fatalf("reserve balance: %v", err)
	}
	if balance != 12345 {
		t.Fatalf("expected balance 12345, got %d", balance)
	}
}

func TestNodeOracleNodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error":"address_not_found"}`)
	}))
	defer srv.Close()

	oracle := NewNodeOracle(NewNodeClient(srv.URL), "kmissing")

	if _, err := oracle.ReserveBalance(context.Background()); err == nil {
		t.Fatal("expected error for node failure response")
	}
}

func TestCachedOracleHitsNodeOnce(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		fmt.Fprint(w, `{"ok":true,"address":{"address":"kmasterwallet","balance":777}}`)
	}))
	defer srv.Close()

	oracle := NewCachedOracle(NewNodeOracle(NewNodeClient(srv.URL), "kmasterwallet"), cache, time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		balance, err := oracle.ReserveBalance(ctx)
		if err != nil {
			t.Fatalf("reserve balance %d: %v", i, err)
		}
		if balance != 777 {
			t.Fatalf("expected 777, got %d", balance)
		}
	}

	if calls != 1 {
		t.Fatalf("expected a single node call, got %d", calls)
	}
}

func TestCachedOracleExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	next := &flippingOracle{balances: []int64{100, 200}}
	oracle := NewCachedOracle(next, cache, time.Minute)

	ctx := context.Background()
	if balance, _ := oracle.ReserveBalance(ctx); balance != 100 {
		t.Fatalf("expected first reading 100, got %d", balance)
	}

	mr.FastForward(2 * time.Minute)

	if balance, _ := oracle.ReserveBalance(ctx); balance != 200 {
		t.Fatalf("expected refreshed reading 200, got %d", balance)
	}
}

type flippingOracle struct {
	balances []int64
	calls    int
}

func (o *flippingOracle) ReserveBalance(_ context.Context) (int64, error) {
	balance := o.balances[o.calls%len(o.balances)]
	o.calls++
	return balance, nil
}
