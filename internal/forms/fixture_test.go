package forms

// rashBody mirrors the sample form: one question, one benign option and
// one purpuric option linked to a condition.
func rashBody() *Graph {
	return &Graph{
		Form: FormRecord{Slug: "rash_body", Version: "1", Active: true, Title: "Rash on Body"},
		Questions: []QuestionRecord{
			{
				Position: 1,
				Key:      "rash_color",
				Kind:     SingleChoice,
				Texts:    map[string]string{"EN": "What colour is the rash?", "HI": "दाने का रंग क्या है?"},
				Options: []OptionRecord{
					{Position: 1, Key: "red", Texts: map[string]string{"EN": "Red / pink"}},
					{Position: 2, Key: "purpuric", IsRedFlag: true, ConditionSlug: "purpuric_rash",
						Texts: map[string]string{"EN": "Purplish or bruised (purpura)"}},
				},
			},
		},
		Conditions: []ConditionRecord{
			{
				Slug:      "purpuric_rash",
				Name:      "Purpuric rash",
				Summary:   "Could indicate meningococcemia, needs urgent review.",
				MiniVideo: "https://vimeo.com/123456",
				References: []Reference{
					{Citation: "Nelson Textbook of Pediatrics, 22e"},
				},
				Texts: map[string]ConditionText{
					"HI": {Name: "बैंगनी दाने", PatientVideo: "https://youtu.be/abc"},
				},
			},
		},
	}
}

// withFever adds a second question whose "stiff_neck" option also links to
// purpuric_rash, plus a meningitis-style second condition.
func withFever() *Graph {
	g := rashBody()
	g.Questions = append(g.Questions, QuestionRecord{
		Position: 2,
		Key:      "fever",
		Options: []OptionRecord{
			{Position: 1, Key: "none"},
			{Position: 2, Key: "high", IsRedFlag: true, ConditionSlug: "high_fever"},
			{Position: 3, Key: "stiff_neck", IsRedFlag: true, ConditionSlug: "purpuric_rash"},
		},
	})
	g.Conditions = append(g.Conditions, ConditionRecord{Slug: "high_fever", Name: "High fever"})
	return g
}

func slugs(cs []Condition) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Slug)
	}
	return out
}
