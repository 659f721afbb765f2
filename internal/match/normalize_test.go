package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"name", []string{"name"}},
		{"firstName", []string{"first", "Name"}},
		{"MailingAddress", []string{"Mailing", "Address"}},
		{"HOME_PHONE", []string{"HOME", "PHONE"}},
		{"kebab-case-key", []string{"kebab", "case", "key"}},
		{"HTTPServer", []string{"HTTP", "Server"}},
		{"userID", []string{"user", "ID"}},
		{"page2Count", []string{"page2", "Count"}},
		{"__private__", []string{"private"}},
		{"pkg.Type", []string{"pkg", "Type"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestTokenizeIdent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"http", "server"}, TokenizeIdent("HTTPServer"))
	assert.Equal(t, []string{"first", "name"}, TokenizeIdent("First Name"))
	assert.Empty(t, TokenizeIdent(""))
}

func TestNormalizeIdent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"firstName", "first_name", "FIRST-NAME", "First Name", "FirstName"} {
		assert.Equal(t, "firstname", NormalizeIdent(in), in)
	}
}
