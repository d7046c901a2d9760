package llm

import "github.com/heartmarshall/wortschatz/internal/domain"

// EntrySchema is the output schema for entry generation: the eleven entry
// fields including the generation-only pos.
func EntrySchema() Schema {
	return Schema{
		Name: "vocab_entry",
		Root: &Property{
			Type: TypeObject,
			Properties: []Field{
				{Name: domain.FieldWord, Property: str()},
				{Name: "pos", Property: &Property{Type: TypeString, Enum: domain.PartsOfSpeech()}},
				{Name: domain.FieldExplanationDE, Property: str()},
				{Name: domain.FieldTranslationEN, Property: str()},
				{Name: domain.FieldExampleSentence, Property: str()},
				{Name: domain.FieldOpposite, Property: nullableStr()},
				{Name: domain.FieldArticle, Property: &Property{Type: TypeString, Nullable: true, Enum: domain.Articles()}},
				{Name: domain.FieldLevel, Property: nullableStr()},
				{Name: domain.FieldPluralForm, Property: nullableStr()},
				{Name: domain.FieldNounForm, Property: nullableStr()},
				{Name: domain.FieldVerbForm, Property: nullableStr()},
			},
		},
	}
}

// CandidateSchema is the output schema shared by all validation prompts.
func CandidateSchema() Schema {
	return Schema{
		Name: "validator_result",
		Root: &Property{
			Type: TypeObject,
			Properties: []Field{
				{Name: "candidates", Property: &Property{Type: TypeArray, Items: str()}},
			},
		},
	}
}
