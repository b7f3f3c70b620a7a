package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nathoo/chainspire/engine/mapgen"
	"github.com/nathoo/chainspire/engine/rng"
	"github.com/nathoo/chainspire/engine/state"
	"github.com/nathoo/chainspire/types"
)

func testMap(t *testing.T) types.GameMap {
	t.Helper()
	m, err := mapgen.Generate(mapgen.DefaultConfig(), rng.New(7))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return m
}

func TestMapPDF_EmptyMap(t *testing.T) {
	_, err := MapPDF(types.GameMap{}, nil, "Empty")
	if !errors.Is(err, ErrEmptyMap) {
		t.Fatalf("expected ErrEmptyMap, got %v", err)
	}
}

func TestMapPDF_ReturnsPDF(t *testing.T) {
	defs := &state.Defs{Enemies: map[string]types.Enemy{
		"minion": {ID: "minion", Name: "Crypto Minion"},
	}}
	b, err := MapPDF(testMap(t), defs, "Seed 7")
	if err != nil {
		t.Fatalf("MapPDF: %v", err)
	}
	if len(b) < 500 {
		t.Errorf("PDF too short: %d bytes", len(b))
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestMapPDF_WalkedPathAndNilDefs(t *testing.T) {
	m := testMap(t)
	// Walk two floors so visited and completed nodes are drawn.
	for range 2 {
		next := mapgen.AvailableNodes(m)[0]
		var err error
		m, err = mapgen.SelectNode(m, next.ID)
		if err != nil {
			t.Fatal(err)
		}
	}
	b, err := MapPDF(m, nil, "")
	if err != nil {
		t.Fatalf("MapPDF: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}

	// Writing to a file is the caller's job; make sure the bytes are usable.
	path := filepath.Join(t.TempDir(), "map.pdf")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNodeLabel(t *testing.T) {
	defs := &state.Defs{Enemies: map[string]types.Enemy{
		"boss": {ID: "boss", Name: "The Crypto Lord"},
		"long": {ID: "long", Name: "An Extremely Long Enemy Name"},
	}}
	tests := []struct {
		node types.MapNode
		defs *state.Defs
		want string
	}{
		{types.MapNode{Type: types.NodeRest}, defs, ""},
		{types.MapNode{Type: types.NodeBoss, EnemyID: "boss"}, defs, "The Crypto Lord"},
		{types.MapNode{Type: types.NodeBoss, EnemyID: "boss"}, nil, "boss"},
		{types.MapNode{Type: types.NodeEnemy, EnemyID: "unknown"}, defs, "unknown"},
		{types.MapNode{Type: types.NodeEnemy, EnemyID: "long"}, defs, "An Extremely Lo..."},
	}
	for _, tt := range tests {
		if got := nodeLabel(tt.node, tt.defs); got != tt.want {
			t.Errorf("nodeLabel(%+v) = %q, want %q", tt.node, got, tt.want)
		}
	}
}

func TestTypeLetter(t *testing.T) {
	tests := map[types.NodeType]string{
		types.NodeEnemy: "E", types.NodeElite: "L", types.NodeRest: "R", types.NodeBoss: "B",
	}
	for nt, want := range tests {
		if got := typeLetter(nt); got != want {
			t.Errorf("typeLetter(%s) = %q, want %q", nt, got, want)
		}
	}
}
