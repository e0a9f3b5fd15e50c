package forms

import (
	"reflect"
	"testing"
)

func TestEvaluate_RashBody(t *testing.T) {
	cat := NewCatalog(rashBody())

	cases := []struct {
		name    string
		answers Answers
		want    []string
	}{
		{"purpuric", Answers{{"rash_color", "purpuric"}}, []string{"purpuric_rash"}},
		{"benign", Answers{{"rash_color", "red"}}, []string{}},
		{"unknown question", Answers{{"unknown_q", "x"}}, []string{}},
		{"unknown option", Answers{{"rash_color", "green"}}, []string{}},
		{"empty", nil, []string{}},
	}
	for _, c := range cases {
		got := slugs(cat.Evaluate(c.answers))
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestEvaluate_DeduplicatesAtFirstTrigger(t *testing.T) {
	cat := NewCatalog(withFever())

	got := slugs(cat.Evaluate(Answers{
		{"fever", "stiff_neck"},
		{"fever", "high"},
		{"rash_color", "purpuric"},
	}))
	want := []string{"purpuric_rash", "high_fever"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	cat := NewCatalog(withFever())
	m := map[string]string{"fever": "high", "rash_color": "purpuric", "zzz": "?"}

	first := slugs(cat.Evaluate(cat.OrderAnswers(m)))
	for i := 0; i < 50; i++ {
		got := slugs(cat.Evaluate(cat.OrderAnswers(m)))
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: got %v, want %v", i, got, first)
		}
	}
	if want := []string{"purpuric_rash", "high_fever"}; !reflect.DeepEqual(first, want) {
		t.Fatalf("got %v, want %v", first, want)
	}
}

func TestOrderAnswers(t *testing.T) {
	cat := NewCatalog(withFever())
	got := cat.OrderAnswers(map[string]string{
		"b_unknown":  "x",
		"fever":      "high",
		"a_unknown":  "y",
		"rash_color": "red",
	})
	want := Answers{
		{"rash_color", "red"},
		{"fever", "high"},
		{"a_unknown", "y"},
		{"b_unknown", "x"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestOrderMulti_MultiChoice(t *testing.T) {
	g := withFever()
	g.Questions[1].Kind = MultiChoice
	cat := NewCatalog(g)
	got := cat.OrderMulti(map[string][]string{
		"fever": {"stiff_neck", "high"},
	})
	want := Answers{{"fever", "high"}, {"fever", "stiff_neck"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if s := slugs(cat.Evaluate(got)); !reflect.DeepEqual(s, []string{"high_fever", "purpuric_rash"}) {
		t.Fatalf("evaluate: got %v", s)
	}
}

func TestOrderMulti_SingleChoiceKeepsFirst(t *testing.T) {
	cat := NewCatalog(withFever())
	got := cat.OrderMulti(map[string][]string{
		"rash_color": {"red", "purpuric"},
		"fever":      {"stiff_neck", "high"},
	})
	want := Answers{{"rash_color", "red"}, {"fever", "stiff_neck"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if s := slugs(cat.Evaluate(got)); !reflect.DeepEqual(s, []string{"purpuric_rash"}) {
		t.Fatalf("evaluate: got %v", s)
	}
}

func TestRuleIndex_OnlyRedFlags(t *testing.T) {
	g := withFever()
	// a condition slug on a non-red-flag option must never be indexed
	g.Questions[0].Options[0].ConditionSlug = "purpuric_rash"
	cat := NewCatalog(g)

	idx := cat.Rules()
	if idx.Len() != 3 {
		t.Fatalf("index size: got %d, want 3", idx.Len())
	}
	for _, q := range cat.Questions() {
		for _, oid := range q.Options {
			o := cat.Option(oid)
			_, ok := idx.Lookup(q.Key, o.Key)
			if ok != o.IsRedFlag {
				t.Errorf("%s/%s: indexed=%v, is_redflag=%v", q.Key, o.Key, ok, o.IsRedFlag)
			}
		}
	}
}

func TestRuleIndex_UnknownConditionSkipped(t *testing.T) {
	g := rashBody()
	g.Questions[0].Options[1].ConditionSlug = "missing"
	cat := NewCatalog(g)
	if got := cat.Evaluate(Answers{{"rash_color", "purpuric"}}); len(got) != 0 {
		t.Fatalf("expected no trigger, got %v", slugs(got))
	}
}

func TestEvaluate_NilIndex(t *testing.T) {
	if got := Evaluate(Answers{{"a", "b"}}, nil); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}
