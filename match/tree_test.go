package match

import (
	"errors"
	"testing"
)

func TestTreeFollow(t *testing.T) {
	tr := newTree()
	a := TemplateKey("a")
	sa := a.WithSigma(1)
	ka := sa.WithShift(0.5)

	tr.point(sa, ka, 0.1)
	tr.point(a, sa, 0.1)
	tr.point(Key{}, a, 0.1)

	got, err := tr.follow()
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if got != ka {
		t.Fatalf("follow = %v, want %v", got, ka)
	}

	if res, ok := tr.searched(sa); !ok || res != 0.1 {
		t.Fatalf("searched = (%v, %v), want (0.1, true)", res, ok)
	}
	if child, ok := tr.bestChild(a); !ok || child != sa {
		t.Fatalf("bestChild = (%v, %v), want (%v, true)", child, ok, sa)
	}
}

func TestTreeRepointKeepsLatestWinner(t *testing.T) {
	tr := newTree()
	a, b := TemplateKey("a"), TemplateKey("b")
	tr.point(Key{}, a, 2)
	tr.point(Key{}, b, 1)

	got, err := tr.follow()
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if got != b {
		t.Fatalf("follow = %v, want %v", got, b)
	}
}

func TestTreeFollowWithoutPointers(t *testing.T) {
	if _, err := newTree().follow(); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
}

func TestTreeFollowDetectsCycle(t *testing.T) {
	tr := newTree()
	a := TemplateKey("a")
	sa := a.WithSigma(1)
	tr.point(Key{}, a, 1)
	tr.point(a, sa, 1)

	// Corrupt the chain so the sigma node points back at its parent.
	tr.nodes[tr.index[sa]].best = tr.index[a]

	if _, err := tr.follow(); !errors.Is(err, ErrCyclicChain) {
		t.Fatalf("err = %v, want ErrCyclicChain", err)
	}
}

func TestTreePointRejectsNonChild(t *testing.T) {
	tr := newTree()
	a := TemplateKey("a")
	mustPanic(t, "grandchild", func() { tr.point(a, a.WithSigma(1).WithShift(0), 1) })
	mustPanic(t, "foreign child", func() { tr.point(a, TemplateKey("b").WithSigma(1), 1) })
}
