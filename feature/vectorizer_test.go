package feature

import (
	"math"
	"testing"

	"github.com/glowrec/glowrec/core"
)

func TestDocument(t *testing.T) {
	tests := []struct {
		name    string
		product core.Product
		want    string
	}{
		{
			name: "all fields joined with price tier",
			product: core.Product{
				ID: "p1", Price: 24, Category: "serum",
				Ingredients: []string{"niacinamide", "zinc"},
				Benefits:    []string{"brightening"},
			},
			want: "serum niacinamide zinc brightening mid-range",
		},
		{
			name:    "empty category skipped, budget tier",
			product: core.Product{ID: "p2", Price: 10},
			want:    "budget",
		},
		{
			name:    "premium tier at 50",
			product: core.Product{ID: "p3", Price: 50, Category: "cream"},
			want:    "cream premium",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Document(tt.product); got != tt.want {
				t.Errorf("Document() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVectorizer_Tokenize(t *testing.T) {
	v := &Vectorizer{}
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lowercases and splits on punctuation", "Vitamin-C, Serum!", []string{"vitamin", "serum"}},
		{"drops single characters", "a b cc", []string{"cc"}},
		{"drops stop words", "the serum and the cream", []string{"serum", "cream"}},
		{"empty input", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.tokenize(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestVectorizer_Terms_Bigrams(t *testing.T) {
	v := &Vectorizer{}
	got := v.terms("vitamin serum brightening")
	want := []string{
		"vitamin", "serum", "brightening",
		"vitamin serum", "serum brightening",
	}
	if len(got) != len(want) {
		t.Fatalf("terms = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("term %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestVectorizer_Fit(t *testing.T) {
	v := &Vectorizer{}
	docs := []string{
		"serum niacinamide brightening",
		"serum vitamin brightening",
		"cleanser glycerin",
	}
	m := v.Fit(docs)
	if m == nil {
		t.Fatal("Fit returned nil for non-empty corpus")
	}

	// vocabulary is sorted alphabetically and dimensions match
	for i := 1; i < len(m.Terms); i++ {
		if m.Terms[i-1] >= m.Terms[i] {
			t.Fatalf("vocabulary not sorted: %q >= %q", m.Terms[i-1], m.Terms[i])
		}
	}
	if len(m.IDF) != len(m.Terms) {
		t.Fatalf("IDF has %d entries, vocabulary has %d", len(m.IDF), len(m.Terms))
	}

	rows := m.Rows()
	if len(rows) != len(docs) {
		t.Fatalf("got %d rows, want %d", len(rows), len(docs))
	}
	for i, row := range rows {
		if len(row) != len(m.Terms) {
			t.Fatalf("row %d has %d dims, want %d", i, len(row), len(m.Terms))
		}
		var norm float64
		for _, x := range row {
			norm += x * x
		}
		if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
			t.Errorf("row %d not l2-normalized: norm=%v", i, math.Sqrt(norm))
		}
	}

	// smoothed IDF: term present in all docs still gets weight >= 1
	for i, t2 := range m.Terms {
		if m.IDF[i] < 1 {
			t.Errorf("IDF[%q] = %v, smoothed IDF must be >= 1", t2, m.IDF[i])
		}
	}
}

func TestVectorizer_Fit_Deterministic(t *testing.T) {
	docs := []string{
		"serum niacinamide brightening pore refining",
		"serum vitamin brightening antioxidant",
		"moisturizer retinol squalane",
	}
	a := (&Vectorizer{}).Fit(docs)
	b := (&Vectorizer{}).Fit(docs)
	if len(a.Terms) != len(b.Terms) {
		t.Fatalf("vocab size differs: %d vs %d", len(a.Terms), len(b.Terms))
	}
	for i := range a.Terms {
		if a.Terms[i] != b.Terms[i] {
			t.Fatalf("vocab differs at %d: %q vs %q", i, a.Terms[i], b.Terms[i])
		}
	}
	for i := range a.Rows() {
		for j := range a.Rows()[i] {
			if a.Rows()[i][j] != b.Rows()[i][j] {
				t.Fatalf("row %d dim %d differs", i, j)
			}
		}
	}
}

func TestVectorizer_Fit_MaxFeatures(t *testing.T) {
	v := &Vectorizer{MaxFeatures: 2, NgramMax: 1}
	m := v.Fit([]string{
		"serum serum serum cream cream gel",
	})
	if len(m.Terms) != 2 {
		t.Fatalf("vocabulary size = %d, want 2", len(m.Terms))
	}
	// highest corpus frequency wins: serum(3), cream(2)
	if m.Terms[0] != "cream" || m.Terms[1] != "serum" {
		t.Errorf("vocabulary = %v, want [cream serum]", m.Terms)
	}
}

func TestVectorizer_Fit_EmptyCorpus(t *testing.T) {
	if m := (&Vectorizer{}).Fit(nil); m != nil {
		t.Error("Fit(nil) must return nil")
	}
}

func TestModel_Transform_ZeroVector(t *testing.T) {
	v := &Vectorizer{}
	m := v.Fit([]string{"serum brightening"})
	row := m.Transform(v, "completely unrelated words")
	for i, x := range row {
		if x != 0 {
			t.Fatalf("dim %d = %v, out-of-vocabulary doc must map to zero vector", i, x)
		}
	}
}
