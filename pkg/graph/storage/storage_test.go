package storage

import (
	"sort"
	"testing"
)

func TestInsertWithGeneratorAssignsFreshKeys(t *testing.T) {
	s := NewGenerated[VertexKey, string]()
	a := s.InsertWithGenerator("a")
	b := s.InsertWithGenerator("b")

	if a.IsZero() || b.IsZero() {
		t.Fatalf("generated zero key: a=%v b=%v", a, b)
	}
	if a == b {
		t.Fatalf("generated duplicate key %v", a)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if got, ok := s.Get(b); !ok || got != "b" {
		t.Errorf("Get(%v) = %q, %v, want %q, true", b, got, ok, "b")
	}
}

func TestGeneratedKeysAreNotReused(t *testing.T) {
	s := NewGenerated[FaceKey, int]()
	a := s.InsertWithGenerator(1)
	s.Remove(a)
	b := s.InsertWithGenerator(2)
	if a == b {
		t.Errorf("key %v reused after removal", a)
	}
}

func TestInsertWithGeneratorPanicsWithoutGenerator(t *testing.T) {
	s := New[VertexKey, int]()
	defer func() {
		if r := recover(); r == nil {
			t.Error("InsertWithGenerator should panic on a caller-keyed storage")
		}
	}()
	s.InsertWithGenerator(1)
}

func TestInsertWithKey(t *testing.T) {
	s := New[EdgeKey, int]()
	k := NewEdgeKey(1, 2)
	s.InsertWithKey(k, 7)

	if !s.ContainsKey(k) {
		t.Fatal("ContainsKey should report inserted key")
	}
	if s.ContainsKey(k.Opposite()) {
		t.Error("ContainsKey should not report the opposite key")
	}

	s.InsertWithKey(k, 8)
	if got, _ := s.Get(k); got != 8 {
		t.Errorf("Get after replace = %d, want 8", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestGetMutWritesThrough(t *testing.T) {
	type rec struct{ n int }
	s := NewGenerated[VertexKey, rec]()
	k := s.InsertWithGenerator(rec{n: 1})

	p, ok := s.GetMut(k)
	if !ok {
		t.Fatal("GetMut missed existing key")
	}
	p.n = 42

	if got, _ := s.Get(k); got.n != 42 {
		t.Errorf("record after GetMut = %d, want 42", got.n)
	}
	if _, ok := s.GetMut(k + 100); ok {
		t.Error("GetMut should miss unknown key")
	}
}

func TestRemove(t *testing.T) {
	s := NewGenerated[VertexKey, string]()
	k := s.InsertWithGenerator("x")

	got, ok := s.Remove(k)
	if !ok || got != "x" {
		t.Fatalf("Remove = %q, %v, want %q, true", got, ok, "x")
	}
	if _, ok := s.Remove(k); ok {
		t.Error("second Remove should miss")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestMapValuesPreservesKeys(t *testing.T) {
	s := NewGenerated[VertexKey, int]()
	var keys []VertexKey
	for i := 1; i <= 5; i++ {
		keys = append(keys, s.InsertWithGenerator(i))
	}

	doubled := MapValues(s, func(n int) float64 { return float64(n) * 2 })
	if doubled.Len() != s.Len() {
		t.Fatalf("mapped Len() = %d, want %d", doubled.Len(), s.Len())
	}
	for i, k := range keys {
		got, ok := doubled.Get(k)
		if !ok {
			t.Fatalf("mapped storage missing key %v", k)
		}
		if want := float64(i+1) * 2; got != want {
			t.Errorf("mapped[%v] = %v, want %v", k, got, want)
		}
	}

	// Generation state carries over so new keys do not collide.
	fresh := doubled.InsertWithGenerator(0)
	for _, k := range keys {
		if fresh == k {
			t.Errorf("mapped storage generated existing key %v", k)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	type rec struct{ n int }
	s := NewGenerated[VertexKey, rec]()
	k := s.InsertWithGenerator(rec{n: 1})

	c := s.Clone()
	p, _ := c.GetMut(k)
	p.n = 99

	if got, _ := s.Get(k); got.n != 1 {
		t.Errorf("original mutated through clone: n = %d", got.n)
	}
}

func TestKeysAndAll(t *testing.T) {
	s := NewGenerated[VertexKey, int]()
	for i := 0; i < 4; i++ {
		s.InsertWithGenerator(i * 10)
	}

	var keys []int
	for k := range s.Keys() {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)
	if len(keys) != 4 || keys[0] != 1 || keys[3] != 4 {
		t.Errorf("Keys() = %v, want [1 2 3 4]", keys)
	}

	sum := 0
	for _, v := range s.All() {
		sum += v
	}
	if sum != 60 {
		t.Errorf("sum of All() values = %d, want 60", sum)
	}

	// Early exit must be honored.
	n := 0
	for range s.Keys() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("iterations after break = %d, want 1", n)
	}
}

func TestEphemeralBorrowsWithoutCopy(t *testing.T) {
	s := NewGenerated[VertexKey, int]()
	k := s.InsertWithGenerator(3)

	e := Borrow(s)
	r := e.AsStorage()
	if r.Len() != 1 {
		t.Fatalf("borrowed Len() = %d, want 1", r.Len())
	}

	s.InsertWithKey(k, 4)
	if got, _ := r.Get(k); got != 4 {
		t.Errorf("borrowed view did not observe write: got %d, want 4", got)
	}
}

func TestEdgeKey(t *testing.T) {
	tests := []struct {
		name string
		key  EdgeKey
		opp  EdgeKey
		str  string
	}{
		{"forward", NewEdgeKey(1, 2), EdgeKey{A: 2, B: 1}, "v1->v2"},
		{"reverse", NewEdgeKey(9, 3), EdgeKey{A: 3, B: 9}, "v9->v3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.Opposite(); got != tt.opp {
				t.Errorf("Opposite() = %v, want %v", got, tt.opp)
			}
			if got := tt.key.Opposite().Opposite(); got != tt.key {
				t.Errorf("Opposite().Opposite() = %v, want %v", got, tt.key)
			}
			if got := tt.key.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			a, b := tt.key.Vertices()
			if a != tt.key.A || b != tt.key.B {
				t.Errorf("Vertices() = %v, %v", a, b)
			}
		})
	}

	if !(EdgeKey{}).IsZero() {
		t.Error("zero EdgeKey should report IsZero")
	}
}

func TestInsertWithKeyAdvancesGenerator(t *testing.T) {
	s := NewGenerated[FaceKey, string]()
	s.InsertWithKey(5, "five")
	if !s.CanGenerate() {
		t.Fatal("CanGenerate() = false, want true")
	}
	if k := s.InsertWithGenerator("six"); k != 6 {
		t.Errorf("InsertWithGenerator() = %v, want f6", k)
	}
	if New[EdgeKey, int]().CanGenerate() {
		t.Error("caller-keyed storage reports CanGenerate")
	}
}
