package sanitizer

import "testing"

func TestSanitizeFreeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  window   seat  please ", "window seat please"},
		{"birthday\ncake\twith candles", "birthday cake with candles"},
		{"\x00\x1bno control chars", "no control chars"},
		{"", ""},
		{"   \t\n  ", ""},
	}

	for _, tc := range cases {
		if got := SanitizeFreeText(tc.in); got != tc.want {
			t.Errorf("SanitizeFreeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+972501234567", "+972501234567"},
		{" +972 50-123-4567 ", "+972501234567"},
		{"00972501234567", "+972501234567"},
		{"not a phone", ""},
		{"+0123", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := SanitizePhone(tc.in); got != tc.want {
			t.Errorf("SanitizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
