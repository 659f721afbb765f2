package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()

	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestCase(t *testing.T) {
	out, err := run(t, "", "case", "snake_case", "HTTPServer", "fooBarBaz")
	require.NoError(t, err)
	assert.Equal(t, "http_server\nfoo_bar_baz\n", out)

	_, err = run(t, "", "case", "snake_cse", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "snake_case"`)

	_, err = run(t, "", "case", "snake_case")
	require.Error(t, err)
}

func TestConventions(t *testing.T) {
	out, err := run(t, "", "conventions")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "snake_case")
	assert.Contains(t, lines, "kebab-case")
	assert.IsNonDecreasing(t, lines)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{
			name:  "json to yaml",
			args:  []string{"--from", "json", "--to", "yaml"},
			input: `{"name":"Ada","tags":["a","b"]}`,
			want:  "name: Ada\ntags:\n    - a\n    - b\n",
		},
		{
			name:  "yaml to json keeps order",
			args:  []string{"-f", "yaml", "-t", "json"},
			input: "b: 1\na: 2\n",
			want:  `{"b":1,"a":2}`,
		},
		{
			name:  "canonical json sorts keys",
			args:  []string{"-t", "canonical-json", "-"},
			input: `{"b":1,"a":2}`,
			want:  `{"a":2,"b":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.input, append([]string{"convert"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestConvert_File(t *testing.T) {
	path := writeFile(t, "doc.json", `{"id":7}`)

	out, err := run(t, "", "convert", "--verbose", path)
	require.NoError(t, err)
	assert.Equal(t, "id: 7\n", out)

	_, err = run(t, "", "convert", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestConvert_Errors(t *testing.T) {
	_, err := run(t, "{}", "convert", "--from", "jsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "json"`)

	_, err = run(t, "{", "convert")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json")
}

func TestPolicyCheck(t *testing.T) {
	good := writeFile(t, "good.yaml", "policies:\n  - type: store.Order\n    rename: camelCase\n")
	empty := writeFile(t, "empty.yaml", "policies:\n  - type: store.Order\n")
	bad := writeFile(t, "bad.yaml", "policies:\n  - type: store.Order\n    shape: grid\n")

	out, err := run(t, "", "policy", "check", good, empty)
	require.NoError(t, err)
	assert.Contains(t, out, "empty.yaml: warning: [store.Order] policies[0]: [empty_policy]")
	assert.NotContains(t, out, "good.yaml")

	out, err = run(t, "", "policy", "check", good, bad)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 policy files are invalid", err.Error())
	assert.Contains(t, out, "bad.yaml: error: [store.Order] policies[0].shape: [invalid_shape]")

	_, err = run(t, "", "policy", "check", writeFile(t, "typo.yaml", "polices: []\n"))
	require.Error(t, err)
}

func TestPolicyFmt(t *testing.T) {
	path := writeFile(t, "policies.yaml", "defaults:\n  rename: camelCase\npolicies:\n  - type: Order\n    omit: [notes]\n")

	out, err := run(t, "", "policy", "fmt", path)
	require.NoError(t, err)
	assert.Contains(t, out, "version: \"1\"\n")
	assert.Contains(t, out, "rename: camelCase\n")
	assert.Contains(t, out, "omit: notes\n")

	_, err = run(t, "", "policy", "fmt", "--write", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
}
