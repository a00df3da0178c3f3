package core

import "testing"

func TestSplitSourceTags(t *testing.T) {
	tests := []struct {
		name   string
		merged string
		want   []SourceTag
	}{
		{"single tag", "content_based", []SourceTag{TagContentBased}},
		{"merged tags keep order", "social|trending", []SourceTag{TagSocial, TagTrending}},
		{"duplicates removed", "trending|trending|social", []SourceTag{TagTrending, TagSocial}},
		{"empty segments skipped", "|content_based|", []SourceTag{TagContentBased}},
		{"empty input", "", []SourceTag{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSourceTags(tt.merged)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitSourceTags(%q) = %v, want %v", tt.merged, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("tag %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestItem_TagSource_Accumulates(t *testing.T) {
	it := NewItem("p1")
	it.TagSource(TagContentBased, "recall")
	it.TagSource(TagSocial, "recall")
	it.TagSource(TagSocial, "recall") // duplicate

	tags := it.Sources()
	if len(tags) != 2 {
		t.Fatalf("Sources = %v, want content_based and social", tags)
	}
	if tags[0] != TagContentBased || tags[1] != TagSocial {
		t.Errorf("Sources = %v, wrong order", tags)
	}
}

func TestItem_Sources_Untagged(t *testing.T) {
	if tags := NewItem("p1").Sources(); len(tags) != 0 {
		t.Errorf("untagged item Sources = %v, want empty", tags)
	}
}
