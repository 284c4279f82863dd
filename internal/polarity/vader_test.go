package polarity

import "testing"

func TestPolarityDirection(t *testing.T) {
	s := NewScorer()
	if got := s.Polarity("This is wonderful and amazing, I love it"); got <= 0.2 {
		t.Fatalf("positive text polarity=%.4f, want > 0.2", got)
	}
	if got := s.Polarity("This is terrible and awful, I hate it"); got >= -0.2 {
		t.Fatalf("negative text polarity=%.4f, want < -0.2", got)
	}
}

func TestPolarityRange(t *testing.T) {
	s := NewScorer()
	for _, text := range []string{"great great great great great!!!", "bad", "The product arrived on time"} {
		if got := s.Polarity(text); got < -1 || got > 1 {
			t.Fatalf("Polarity(%q)=%.4f outside [-1,1]", text, got)
		}
	}
}
