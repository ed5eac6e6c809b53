package models

import (
	"fmt"
	"strings"
)

// ConversationKind identifies which staff channel a customer conversation
// belongs to.
type ConversationKind string

const (
	ConversationAdmin   ConversationKind = "admin"
	ConversationSupport ConversationKind = "support"
)

// ConversationKey is the typed identity of a customer/staff chat channel,
// replacing delimited-string ids of the form "<userID>_admin".
type ConversationKey struct {
	UserID string           `bson:"userId" json:"userId"`
	Kind   ConversationKind `bson:"kind" json:"kind"`
}

// String renders the key in its canonical wire form.
func (k ConversationKey) String() string {
	return fmt.Sprintf("%s_%s", k.UserID, k.Kind)
}

// ParseConversationKey parses the canonical wire form back into a typed key.
func ParseConversationKey(s string) (ConversationKey, error) {
	idx := strings.LastIndex(s, "_")
	if idx <= 0 || idx == len(s)-1 {
		return ConversationKey{}, fmt.Errorf("invalid conversation key %q", s)
	}
	kind := ConversationKind(s[idx+1:])
	switch kind {
	case ConversationAdmin, ConversationSupport:
	default:
		return ConversationKey{}, fmt.Errorf("unknown conversation kind %q", s[idx+1:])
	}
	return ConversationKey{UserID: s[:idx], Kind: kind}, nil
}
