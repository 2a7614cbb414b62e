package utils

import (
	"context"
	"testing"
	"time"
)

func TestDeduplicator(t *testing.T) {
	ctx := context.Background()
	d := NewDeduplicator(nil, time.Minute)

	if d.IsDuplicate(ctx, "") {
		t.Error("empty id must never be a duplicate")
	}
	if d.IsDuplicate(ctx, "scan-1") {
		t.Fatal("first submission flagged as duplicate")
	}
	if !d.IsDuplicate(ctx, "scan-1") {
		t.Fatal("retry not detected")
	}

	d.Forget(ctx, "scan-1")
	if d.IsDuplicate(ctx, "scan-1") {
		t.Error("forgotten id should be accepted again")
	}

	var nilDedup *Deduplicator
	if nilDedup.IsDuplicate(ctx, "x") {
		t.Error("nil deduplicator should accept everything")
	}
}

func TestDeduplicatorExpires(t *testing.T) {
	ctx := context.Background()
	d := NewDeduplicator(nil, 20*time.Millisecond)
	d.IsDuplicate(ctx, "scan-2")
	time.Sleep(40 * time.Millisecond)
	if d.IsDuplicate(ctx, "scan-2") {
		t.Error("entry should have expired")
	}
}
