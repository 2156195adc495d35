package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/trello-agent/internal/domain"
)

func TestDue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"day first slashes", "25/12/2024", "2024-12-25T12:00:00Z"},
		{"day first unpadded", "5/1/2025", "2025-01-05T12:00:00Z"},
		{"digits day first", "25122024", "2024-12-25T12:00:00Z"},
		{"digits year first", "20241225", "2024-12-25T12:00:00Z"},
		{"iso date", "2024-12-25", "2024-12-25T12:00:00Z"},
		{"iso date padded input", "  2024-12-25 ", "2024-12-25T12:00:00Z"},
		{"iso with time", "2024-12-25T09:30:00Z", "2024-12-25T09:30:00Z"},
		{"iso with space time", "2024-12-25 09:30", "2024-12-25 09:30"},
		{"iso shape not a calendar date", "2024-02-30", "2024-02-30T12:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Due(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDue_Invalid(t *testing.T) {
	for _, in := range []string{"not-a-date", "31/02/2024", "99999999", "2024/12/25", "12-25-2024", "1234567"} {
		t.Run(in, func(t *testing.T) {
			_, err := Due(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), AcceptedDueFormats)
		})
	}
}

func TestDue_DigitsMatchSlashedForm(t *testing.T) {
	for _, d := range []string{"25122024", "01012025", "29022024", "31122030", "15061999", "01011850", "20111225"} {
		t.Run(d, func(t *testing.T) {
			slashed := d[:2] + "/" + d[2:4] + "/" + d[4:]

			fromDigits, errDigits := Due(d)
			fromSlashed, errSlashed := Due(slashed)

			require.NoError(t, errDigits)
			require.NoError(t, errSlashed)
			assert.Equal(t, fromSlashed, fromDigits)
		})
	}
}
