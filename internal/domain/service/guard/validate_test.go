package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"verhandlungsbot/internal/domain/service/guard"
	"verhandlungsbot/internal/domain/value"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		sanctioned value.SanctionedSet
		violations int
	}{
		{
			name:       "clean reply with sanctioned numbers",
			text:       "Danke für dein Angebot von 700 €. Ich könnte dir bei 880 € entgegenkommen.",
			sanctioned: value.NewSanctionedSet(700, 880),
			violations: 0,
		},
		{
			name:       "unsanctioned currency amount",
			text:       "Ich könnte dir bei 850 € entgegenkommen.",
			sanctioned: value.NewSanctionedSet(700, 880),
			violations: 1,
		},
		{
			name:       "bare plausible number counts as money",
			text:       "Wie wäre es mit 850?",
			sanctioned: value.NewSanctionedSet(),
			violations: 1,
		},
		{
			name:       "spec value is not money",
			text:       "Das Gerät hat 256 GB Speicher und ein 11 Zoll Display.",
			sanctioned: value.NewSanctionedSet(),
			violations: 0,
		},
		{
			name:       "prohibited scarcity frame",
			text:       "Es gibt viele andere Interessenten, entscheide dich schnell.",
			sanctioned: value.NewSanctionedSet(),
			violations: 1,
		},
		{
			name:       "prohibited floor leak wording",
			text:       "Mein Mindestpreis liegt bei 800 €.",
			sanctioned: value.NewSanctionedSet(),
			violations: 2,
		},
		{
			name:       "english pressure frame",
			text:       "This is my final offer, take it or leave it.",
			sanctioned: value.NewSanctionedSet(),
			violations: 2,
		},
		{
			name:       "implausible bare number ignored",
			text:       "Das iPad ist erst 2 Monate alt.",
			sanctioned: value.NewSanctionedSet(),
			violations: 0,
		},
		{
			name:       "currency suffix forces violation even for spec value",
			text:       "Ich will 256 € dafür.",
			sanctioned: value.NewSanctionedSet(),
			violations: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := guard.Validate(tt.text, tt.sanctioned)
			assert.Len(t, got, tt.violations)
		})
	}
}
