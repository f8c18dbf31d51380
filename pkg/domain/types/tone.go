package types

import "strings"

// Tone represents a canonical writing tone accepted by the post generator.
// User-facing settings store free-form personality strings; NormalizeTone maps
// them onto this closed set before a generation request is built.
type Tone string

const (
	ToneProfessional   Tone = "Professional"
	ToneCasualFriendly Tone = "Casual & Friendly"
	ToneThoughtLeader  Tone = "Thought Leader"
	ToneStorytelling   Tone = "Storytelling"
	ToneMotivational   Tone = "Motivational"
)

// AllTones returns all canonical tones
func AllTones() []Tone {
	return []Tone{
		ToneProfessional,
		ToneCasualFriendly,
		ToneThoughtLeader,
		ToneStorytelling,
		ToneMotivational,
	}
}

// IsValid checks if the tone is one of the canonical values
func (t Tone) IsValid() bool {
	switch t {
	case ToneProfessional,
		ToneCasualFriendly,
		ToneThoughtLeader,
		ToneStorytelling,
		ToneMotivational:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tone
func (t Tone) String() string {
	return string(t)
}

var toneAliases = map[string]Tone{
	"professional":   ToneProfessional,
	"casual":         ToneCasualFriendly,
	"friendly":       ToneCasualFriendly,
	"thought_leader": ToneThoughtLeader,
	"storytelling":   ToneStorytelling,
	"motivational":   ToneMotivational,
}

// NormalizeTone maps a free-form personality string onto a canonical tone.
// The mapping is total: empty or unrecognized input yields ToneProfessional.
func NormalizeTone(raw string) Tone {
	if raw == "" {
		return ToneProfessional
	}
	if t := Tone(raw); t.IsValid() {
		return t
	}
	if t, ok := toneAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t
	}
	return ToneProfessional
}
