package language

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllOrderIsStable(t *testing.T) {
	require.Equal(t, []Code{English, Arabic, Russian}, All())

	// Callers must not be able to reorder the canonical sequence.
	mutated := All()
	mutated[0] = Russian
	require.Equal(t, []Code{English, Arabic, Russian}, All())
}

func TestIsSupported(t *testing.T) {
	require.True(t, IsSupported(English))
	require.True(t, IsSupported(Arabic))
	require.True(t, IsSupported(Russian))
	require.False(t, IsSupported(Code("fr")))
	require.False(t, IsSupported(Code("")))
}

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		want    Code
		wantErr bool
	}{
		{in: "en", want: English},
		{in: "EN", want: English},
		{in: " ar ", want: Arabic},
		{in: "ar-EG", want: Arabic},
		{in: "ru", want: Russian},
		{in: "fr", wantErr: true},
		{in: "", wantErr: true},
		{in: "not a tag!", wantErr: true},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if tc.wantErr {
			require.ErrorIs(t, err, ErrInvalidLanguage, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		require.Equal(t, tc.want, got)
	}
}
