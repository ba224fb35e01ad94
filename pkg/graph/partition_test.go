package graph

import (
	"reflect"
	"testing"
)

func mustBuild(t *testing.T, n int) *Graph {
	t.Helper()
	g, err := Build(n)
	if err != nil {
		t.Fatalf("Build(%d): %v", n, err)
	}
	return g
}

func TestPartitionFixtures(t *testing.T) {
	tests := []struct {
		name    string
		modulus int
		want    [][]int
	}{
		{
			name:    "Eight",
			modulus: 8,
			want:    [][]int{{0, 2, 4, 6}, {1, 3, 5, 7}},
		},
		{
			name:    "FivePrime",
			modulus: 5,
			want:    [][]int{{0}, {1, 2, 3, 4}},
		},
		{
			name:    "Two",
			modulus: 2,
			want:    [][]int{{0}, {1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustBuild(t, tt.modulus)
			got, err := g.Partition()
			if err != nil {
				t.Fatalf("Partition: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("components = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPartitionIsTruePartition(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8, 13, 16, 30, 60, 101} {
		g := mustBuild(t, n)
		comps, err := g.Partition()
		if err != nil {
			t.Fatalf("N=%d: Partition: %v", n, err)
		}

		seen := make([]int, n)
		for id, comp := range comps {
			if len(comp) == 0 {
				t.Errorf("N=%d: component %d is empty", n, id)
			}
			for _, node := range comp {
				seen[node]++
				if g.Component(node) != id {
					t.Errorf("N=%d: node %d labeled %d, listed in component %d",
						n, node, g.Component(node), id)
				}
			}
		}
		for node, count := range seen {
			if count != 1 {
				t.Errorf("N=%d: node %d in %d components, want exactly 1", n, node, count)
			}
		}
	}
}

func TestPartitionConnectivity(t *testing.T) {
	// Nodes in the same component must be connected ignoring edge
	// direction; spot-check that each member touches another member.
	g := mustBuild(t, 30)
	comps, err := g.Partition()
	if err != nil {
		t.Fatal(err)
	}
	for _, comp := range comps {
		if len(comp) == 1 {
			continue
		}
		inComp := make(map[int]bool, len(comp))
		for _, node := range comp {
			inComp[node] = true
		}
		for _, node := range comp {
			linked := inComp[g.Next(node)]
			for _, p := range g.Prev(node) {
				linked = linked || inComp[p]
			}
			if !linked {
				t.Errorf("node %d has no neighbor inside its component %v", node, comp)
			}
		}
	}
}

func TestPartitionIdempotent(t *testing.T) {
	g := mustBuild(t, 24)

	first, err := g.Partition()
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.Partition()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repartition changed components:\nfirst  = %v\nsecond = %v", first, second)
	}
}
