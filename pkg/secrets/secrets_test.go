package secrets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterMatches(t *testing.T) {
	tags := map[string]string{"team": "ops", "env": ""}

	tests := []struct {
		name   string
		filter Filter
		match  bool
	}{
		{name: "key present", filter: Filter{Key: "team"}, match: true},
		{name: "key present with empty value", filter: Filter{Key: "env"}, match: true},
		{name: "key missing", filter: Filter{Key: "owner"}, match: false},
		{name: "value listed", filter: Filter{Key: "team", Values: []string{"web", "ops"}}, match: true},
		{name: "value not listed", filter: Filter{Key: "team", Values: []string{"web"}}, match: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.match, test.filter.Matches(tags))
		})
	}
}

func TestMatchesAll(t *testing.T) {
	tags := map[string]string{"team": "ops", "env": "prod"}

	assert.True(t, MatchesAll(nil, tags))
	assert.True(t, MatchesAll([]Filter{{Key: "team"}, {Key: "env", Values: []string{"prod"}}}, tags))
	assert.False(t, MatchesAll([]Filter{{Key: "team"}, {Key: "env", Values: []string{"dev"}}}, tags))
}

func TestMaskValue(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{value: "", want: ""},
		{value: "abc", want: "***"},
		{value: "abcd", want: "a**d"},
		{value: "supersecretvalue", want: "su************ue"},
		{value: "pässwörd", want: "pä****rd"},
	}

	for _, test := range tests {
		t.Run(test.value, func(t *testing.T) {
			assert.Equal(t, test.want, MaskValue(test.value))
		})
	}
}

func TestNewBackendUnknownType(t *testing.T) {
	backend, err := NewBackend(context.Background(), "vault", nil)
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.Nil(t, backend)
}

func TestNewBackendInvalidConfig(t *testing.T) {
	backend, err := NewBackend(context.Background(), SecretManagerBackendName, map[string]interface{}{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, backend)
}
