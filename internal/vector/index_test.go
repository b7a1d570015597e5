package vector

import (
	"errors"
	"testing"
)

func TestBuildRequiresTwoRows(t *testing.T) {
	vocab := NewVocabulary([]string{"Drama"})

	_, err := Build(Encode([][]string{{"Drama"}}, vocab))
	var insufficient *InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Build() error = %v, want InsufficientDataError", err)
	}
	if insufficient.Have != 1 || insufficient.Need != 2 {
		t.Errorf("InsufficientDataError = %+v, want Have 1 Need 2", insufficient)
	}

	if _, err := Build(nil); !errors.As(err, &insufficient) {
		t.Errorf("Build(nil) error = %v, want InsufficientDataError", err)
	}
}

func TestQuery(t *testing.T) {
	vocab := NewVocabulary([]string{"Action", "Comedy", "Drama"})
	m := Encode([][]string{
		{"Drama"},                     // 0: anchor
		{"Action"},                    // 1: distance 1
		{"Drama", "Comedy"},           // 2: distance 1 - 1/sqrt2
		{"Drama"},                     // 3: distance 0
		{"Drama", "Comedy", "Action"}, // 4: distance 1 - 1/sqrt3
		{"Drama"},                     // 5: distance 0, after row 3
	}, vocab)

	idx, err := Build(m)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := idx.Query(0, 4)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	wantRows := []int{3, 5, 2, 4}
	if len(got) != len(wantRows) {
		t.Fatalf("Query() returned %d neighbors, want %d", len(got), len(wantRows))
	}
	for i, n := range got {
		if n.Row != wantRows[i] {
			t.Errorf("neighbor %d row = %d, want %d", i, n.Row, wantRows[i])
		}
		if i > 0 && got[i-1].Distance > n.Distance {
			t.Errorf("neighbors not sorted: %v before %v", got[i-1], n)
		}
	}
}

func TestQueryNeverReturnsAnchor(t *testing.T) {
	vocab := NewVocabulary([]string{"Drama"})
	// All identical vectors: every distance is 0.
	m := Encode([][]string{{"Drama"}, {"Drama"}, {"Drama"}, {"Drama"}}, vocab)
	idx, err := Build(m)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for anchor := 0; anchor < m.Rows(); anchor++ {
		got, err := idx.Query(anchor, 3)
		if err != nil {
			t.Fatalf("Query(%d) error = %v", anchor, err)
		}
		prev := -1
		for _, n := range got {
			if n.Row == anchor {
				t.Errorf("Query(%d) returned the anchor", anchor)
			}
			if n.Row < prev {
				t.Errorf("Query(%d) broke row order on ties: %v", anchor, got)
			}
			prev = n.Row
		}
	}
}

func TestQueryZeroVectors(t *testing.T) {
	vocab := NewVocabulary([]string{"Drama"})
	m := Encode([][]string{{}, {}, {"Drama"}}, vocab)
	idx, err := Build(m)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := idx.Query(0, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	for _, n := range got {
		if n.Distance != MaxDistance {
			t.Errorf("distance from zero vector = %v, want %v", n.Distance, MaxDistance)
		}
	}
	if got[0].Row != 1 || got[1].Row != 2 {
		t.Errorf("Query() rows = %d,%d, want 1,2", got[0].Row, got[1].Row)
	}
}

func TestQueryErrors(t *testing.T) {
	vocab := NewVocabulary([]string{"Drama"})
	idx, err := Build(Encode([][]string{{"Drama"}, {"Drama"}, {"Drama"}}, vocab))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var insufficient *InsufficientDataError
	if _, err := idx.Query(0, 3); !errors.As(err, &insufficient) {
		t.Errorf("Query(k=3) error = %v, want InsufficientDataError", err)
	} else if insufficient.Need != 4 || insufficient.Have != 3 {
		t.Errorf("InsufficientDataError = %+v, want Have 3 Need 4", insufficient)
	}

	if _, err := idx.Query(0, 2); err != nil {
		t.Errorf("Query(k=2) error = %v, want nil", err)
	}
	if _, err := idx.Query(5, 1); err == nil {
		t.Error("Expected error for out-of-range anchor")
	}
	if _, err := idx.Query(0, 0); err == nil {
		t.Error("Expected error for k=0")
	}
}
