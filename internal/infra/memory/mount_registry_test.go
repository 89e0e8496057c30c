package memory

import (
	"context"
	"testing"
)

func TestMountRegistryLifecycle(t *testing.T) {
	ctx := context.Background()
	reg := NewMountRegistry()

	_ = reg.Register(ctx, "a")
	_ = reg.Register(ctx, "b")
	_ = reg.Register(ctx, "a")
	if n, _ := reg.Active(ctx); n != 2 {
		t.Fatalf("expected 2 active mounts, got %d", n)
	}

	_ = reg.Unregister(ctx, "a")
	_ = reg.Unregister(ctx, "missing")
	if n, _ := reg.Active(ctx); n != 1 {
		t.Fatalf("expected 1 active mount, got %d", n)
	}
}
