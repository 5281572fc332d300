package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTokenPrefersBearerHeader(t *testing.T) {
	token := ExtractToken("Bearer abc.def.ghi", "mouli_auth_token=cookie-token")
	assert.Equal(t, "abc.def.ghi", token)
}

func TestExtractTokenFallsBackToCookie(t *testing.T) {
	cases := []struct {
		name   string
		cookie string
		want   string
	}{
		{"single cookie", "mouli_auth_token=tok123", "tok123"},
		{"among other cookies", "theme=dark; mouli_auth_token=tok456; lang=fr", "tok456"},
		{"no auth cookie", "theme=dark; lang=fr", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractToken("", tc.cookie))
		})
	}
}

func TestExtractTokenIgnoresNonBearerAuthorization(t *testing.T) {
	assert.Equal(t, "", ExtractToken("Basic dXNlcjpwYXNz", ""))
}
