package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationKeyRoundTrip(t *testing.T) {
	tests := []ConversationKey{
		{UserID: "user-1", Kind: ConversationAdmin},
		{UserID: "user-1", Kind: ConversationSupport},
		// User ids containing underscores still round-trip because the
		// kind is always the final segment.
		{UserID: "legacy_user_42", Kind: ConversationAdmin},
	}
	for _, key := range tests {
		t.Run(key.String(), func(t *testing.T) {
			parsed, err := ParseConversationKey(key.String())
			require.NoError(t, err)
			assert.Equal(t, key, parsed)
		})
	}
}

func TestParseConversationKeyInvalid(t *testing.T) {
	for _, s := range []string{
		"",
		"user-1",
		"user-1_",
		"_admin",
		"user-1_billing",
	} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseConversationKey(s)
			assert.Error(t, err)
		})
	}
}
