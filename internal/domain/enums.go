package domain

// PartOfSpeech represents the grammatical category of an Arabic lemma.
type PartOfSpeech string

const (
	PartOfSpeechNoun         PartOfSpeech = "NOUN"
	PartOfSpeechVerb         PartOfSpeech = "VERB"
	PartOfSpeechAdjective    PartOfSpeech = "ADJECTIVE"
	PartOfSpeechAdverb       PartOfSpeech = "ADVERB"
	PartOfSpeechPronoun      PartOfSpeech = "PRONOUN"
	PartOfSpeechPreposition  PartOfSpeech = "PREPOSITION"
	PartOfSpeechParticle     PartOfSpeech = "PARTICLE"
	PartOfSpeechInterjection PartOfSpeech = "INTERJECTION"
	PartOfSpeechProperNoun   PartOfSpeech = "PROPER_NOUN"
	PartOfSpeechUnknown      PartOfSpeech = "UNKNOWN"
)

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb,
		PartOfSpeechPronoun, PartOfSpeechPreposition, PartOfSpeechParticle,
		PartOfSpeechInterjection, PartOfSpeechProperNoun, PartOfSpeechUnknown:
		return true
	}
	return false
}

// RelationKind classifies a semantic relation edge between two canonical entries.
type RelationKind string

const (
	RelationSynonym   RelationKind = "SYNONYM"
	RelationAntonym   RelationKind = "ANTONYM"
	RelationHypernym  RelationKind = "HYPERNYM"
	RelationHyponym   RelationKind = "HYPONYM"
	RelationDialectOf RelationKind = "DIALECT_OF"
)

func (k RelationKind) String() string { return string(k) }

func (k RelationKind) IsValid() bool {
	switch k {
	case RelationSynonym, RelationAntonym, RelationHypernym, RelationHyponym, RelationDialectOf:
		return true
	}
	return false
}

// TranscriptionScheme identifies the notation of a pronunciation transcription.
type TranscriptionScheme string

const (
	SchemePhonemic  TranscriptionScheme = "PHONEMIC"
	SchemeRomanized TranscriptionScheme = "ROMANIZED"
	SchemeIPA       TranscriptionScheme = "IPA"
)

func (s TranscriptionScheme) String() string { return string(s) }

func (s TranscriptionScheme) IsValid() bool {
	switch s {
	case SchemePhonemic, SchemeRomanized, SchemeIPA:
		return true
	}
	return false
}

// PayloadKind discriminates the tagged union carried by a SourceRecord.
// The set is closed: the merge engine switches exhaustively over it.
type PayloadKind string

const (
	PayloadSense          PayloadKind = "SENSE"
	PayloadRelation       PayloadKind = "RELATION"
	PayloadPronunciation  PayloadKind = "PRONUNCIATION"
	PayloadDialectVariant PayloadKind = "DIALECT_VARIANT"
	PayloadInflection     PayloadKind = "INFLECTION"
)

func (k PayloadKind) String() string { return string(k) }

func (k PayloadKind) IsValid() bool {
	switch k {
	case PayloadSense, PayloadRelation, PayloadPronunciation, PayloadDialectVariant, PayloadInflection:
		return true
	}
	return false
}
