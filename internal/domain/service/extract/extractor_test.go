package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"verhandlungsbot/internal/domain/service/extract"
	"verhandlungsbot/internal/domain/value"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  value.Price
		found bool
	}{
		{
			name:  "bare number",
			text:  "750",
			want:  750,
			found: true,
		},
		{
			name:  "bare number with currency marker",
			text:  "750 €",
			want:  750,
			found: true,
		},
		{
			name:  "bare number with eur suffix",
			text:  "820 EUR",
			want:  820,
			found: true,
		},
		{
			name:  "bare number out of plausible range",
			text:  "50",
			found: false,
		},
		{
			name:  "bare number too large",
			text:  "99999",
			found: false,
		},
		{
			name:  "offer with intent keyword",
			text:  "Ich biete dir 700 dafür",
			want:  700,
			found: true,
		},
		{
			name:  "offer with currency marker",
			text:  "Würde 750 € bieten.",
			want:  750,
			found: true,
		},
		{
			name:  "complaint framing suppresses the number",
			text:  "1000 € ist mir zu teuer",
			found: false,
		},
		{
			name:  "english complaint",
			text:  "900 is too much for me",
			found: false,
		},
		{
			name:  "number without intent or currency is chatter",
			text:  "hat das Gerät 256 Speicher?",
			found: false,
		},
		{
			name:  "unit word after number is filtered",
			text:  "ich biete 500, aber hat es wirklich 256 GB?",
			want:  500,
			found: true,
		},
		{
			name:  "known spec value filtered without unit word",
			text:  "ich zahle 600 für das 256er Modell",
			want:  600,
			found: true,
		},
		{
			name:  "thousand dot amount",
			text:  "Ich biete dir 1.000 €",
			want:  1000,
			found: true,
		},
		{
			name:  "bare thousand dot amount",
			text:  "1.000",
			want:  1000,
			found: true,
		},
		{
			name:  "k suffix",
			text:  "ich zahle 1k dafür",
			want:  1000,
			found: true,
		},
		{
			name:  "k suffix with comma fraction",
			text:  "mein Angebot: 1,2k",
			want:  1200,
			found: true,
		},
		{
			name:  "ten thousand stays implausible",
			text:  "ich biete 10.000 €",
			found: false,
		},
		{
			name:  "last surviving number wins",
			text:  "Statt 1000 € biete ich dir 650 €",
			want:  650,
			found: true,
		},
		{
			name:  "screen size filtered",
			text:  "ich biete 700 € für das 11 Zoll Gerät",
			want:  700,
			found: true,
		},
		{
			name:  "empty message",
			text:  "   ",
			found: false,
		},
		{
			name:  "no numbers at all",
			text:  "Ist der Apple Pencil dabei?",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := extract.Extract(tt.text)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
