package syspools_test

import (
	"testing"

	"github.com/anghd/uevloop/config"
	"github.com/anghd/uevloop/syspools"
)

func TestNewSizesPoolsFromConfig(t *testing.T) {
	cfg, err := config.Resolve(
		config.WithEventPoolSizeLog2(3),
		config.WithNodePoolSizeLog2(2),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := syspools.New(cfg)
	if p.Events.Capacity() != 8 {
		t.Fatalf("expected event pool capacity 8, got %d", p.Events.Capacity())
	}
	if p.Nodes.Capacity() != 4 {
		t.Fatalf("expected node pool capacity 4, got %d", p.Nodes.Capacity())
	}
}

func TestNewPoolsStartEmptyOfOutstanding(t *testing.T) {
	cfg, _ := config.Resolve()
	p := syspools.New(cfg)
	if p.Events.Outstanding() != 0 || p.Nodes.Outstanding() != 0 {
		t.Fatal("expected freshly allocated pools to have nothing acquired")
	}
}
