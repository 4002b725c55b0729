package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanRecipients(t *testing.T) {
	got := CleanRecipients([]string{" a@x.com", "", "b@x.com ", "a@x.com", "   "})
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, got)
	assert.Empty(t, CleanRecipients(nil))
}

func TestInvalidEmails(t *testing.T) {
	assert.Empty(t, InvalidEmails([]string{"alice@example.com"}))
	assert.Equal(t, []string{"nope"}, InvalidEmails([]string{"alice@example.com", "nope"}))
}

func TestSenderAddress(t *testing.T) {
	assert.Equal(t, "acmecorp@drayinsight.com", SenderAddress("Acme Corp", "drayinsight.com"))
	assert.Equal(t, "unknown@drayinsight.com", SenderAddress("Unknown", "drayinsight.com"))
}

func TestStringToSlice(t *testing.T) {
	assert.Equal(t, []string{}, StringToSlice(""))
	assert.Equal(t, []string{"INBOX", "SENT"}, StringToSlice(" INBOX, ,SENT,"))
	assert.Equal(t, "a,b", SliceToString([]string{"a", "b"}))
	assert.Equal(t, "", FirstOrEmpty(nil))
	assert.Equal(t, "a", FirstOrEmpty([]string{"a", "b"}))
}

func TestPointers(t *testing.T) {
	assert.Nil(t, StringPtrOrNil(""))
	assert.Equal(t, "x", *StringPtrOrNil("x"))
	assert.Equal(t, "fallback", GetOrDefault[string](nil, "fallback"))
	assert.Equal(t, 3, GetOrDefault(Ptr(3), 0))
}
