package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLedger(t *testing.T) (*DeliveryLedger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewDeliveryLedger(rdb, time.Hour), mr
}

func TestDeliveryLedger(t *testing.T) {
	ledger, mr := newTestLedger(t)
	ctx := context.Background()

	done, err := ledger.Delivered(ctx, "webhook:e:1")
	if err != nil || done {
		t.Fatalf("fresh key: done=%v err=%v", done, err)
	}

	if err := ledger.MarkDelivered(ctx, "webhook:e:1"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	done, err = ledger.Delivered(ctx, "webhook:e:1")
	if err != nil || !done {
		t.Fatalf("marked key: done=%v err=%v", done, err)
	}

	if ttl := mr.TTL(ledgerKeyPrefix + "webhook:e:1"); ttl != time.Hour {
		t.Fatalf("ttl = %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if done, _ := ledger.Delivered(ctx, "webhook:e:1"); done {
		t.Fatal("expected key to expire")
	}
}
