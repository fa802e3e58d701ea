package match

import (
	"errors"
	"fmt"
)

// Errors reported when walking the search tree.
var (
	ErrNoMatch     = errors.New("match: best-pointer chain ends without a fit")
	ErrCyclicChain = errors.New("match: best-pointer chain is cyclic")
)

const noChild = -1

// node is one search result: the key searched and, once its level has been
// searched, the index of the child with the lowest residual.
type node struct {
	key      Key
	residual float64
	best     int
}

// tree records the winners of each search level. Node 0 is the observation
// root. Children are referenced by index, never through synthetic keys.
type tree struct {
	nodes []node
	index map[Key]int
}

func newTree() *tree {
	t := &tree{index: make(map[Key]int)}
	t.nodes = append(t.nodes, node{key: Key{}, best: noChild})
	t.index[Key{}] = 0
	return t
}

// lookup returns the node index for k, creating the node if needed.
func (t *tree) lookup(k Key) int {
	if i, ok := t.index[k]; ok {
		return i
	}
	t.nodes = append(t.nodes, node{key: k, best: noChild})
	i := len(t.nodes) - 1
	t.index[k] = i
	return i
}

// point records child as the best result found under parent.
func (t *tree) point(parent, child Key, residual float64) {
	if child.Level() != parent.Level()+1 || (parent.Level() > LevelRoot && child.Parent() != parent) {
		panic(fmt.Sprintf("match: %v is not a child of %v", child, parent))
	}
	p := t.lookup(parent)
	c := t.lookup(child)
	t.nodes[p].best = c
	t.nodes[p].residual = residual
	t.nodes[c].residual = residual
}

// searched reports whether k already has a best pointer, and its residual.
func (t *tree) searched(k Key) (float64, bool) {
	i, ok := t.index[k]
	if !ok || t.nodes[i].best == noChild {
		return 0, false
	}
	return t.nodes[i].residual, true
}

// bestChild returns the child key k points to.
func (t *tree) bestChild(k Key) (Key, bool) {
	i, ok := t.index[k]
	if !ok || t.nodes[i].best == noChild {
		return Key{}, false
	}
	return t.nodes[t.nodes[i].best].key, true
}

// follow walks best pointers from the root to the first node without one.
// The walk is bounded by the node count, so a cycle is reported instead of
// looping forever.
func (t *tree) follow() (Key, error) {
	i := 0
	visited := make([]bool, len(t.nodes))
	for t.nodes[i].best != noChild {
		if visited[i] {
			return Key{}, fmt.Errorf("%w at %v", ErrCyclicChain, t.nodes[i].key)
		}
		visited[i] = true
		i = t.nodes[i].best
	}
	if i == 0 {
		return Key{}, ErrNoMatch
	}
	return t.nodes[i].key, nil
}
