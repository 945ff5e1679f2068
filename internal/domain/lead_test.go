package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatContact(t *testing.T) {
	cases := map[string]string{
		"01012345678":     "010-1234-5678",
		"0101234567":      "010-123-4567",
		"010-1234-5678":   "010-1234-5678",
		"010 1234 5678":   "010-1234-5678",
		"010123456789012": "010-1234-5678",
		"010":             "010",
		"0101234":         "010-1234",
		"":                "",
	}
	for input, want := range cases {
		assert.Equal(t, want, FormatContact(input), "input %q", input)
	}
}

func TestValidateContact(t *testing.T) {
	assert.NoError(t, ValidateContact("01012345678"))
	assert.NoError(t, ValidateContact("011-123-4567"))
	assert.ErrorIs(t, ValidateContact("0212345678"), ErrInvalidContact)
	assert.ErrorIs(t, ValidateContact("010123456"), ErrInvalidContact)
	assert.ErrorIs(t, ValidateContact(""), ErrInvalidContact)
}

func TestReasonTagsRoundTrip(t *testing.T) {
	tags := []ReasonTag{ReasonImmediateJob, ReasonHobby}
	joined := JoinReasonTags(tags)
	assert.Equal(t, "즉시취업, 취미", joined)
	assert.Equal(t, tags, ParseReasonTags(joined))

	assert.Empty(t, ParseReasonTags(""))
	assert.Equal(t, []ReasonTag{ReasonFuture}, ParseReasonTags(" 미래 , "))
}

func TestConcernsRoundTrip(t *testing.T) {
	concerns := []Concern{
		{Kind: ConcernJob},
		{Kind: ConcernEtc, Detail: "야간반 여부"},
	}
	joined := JoinConcerns(concerns)
	assert.Equal(t, "직장, 기타:야간반 여부", joined)
	assert.Equal(t, concerns, ParseConcerns(joined))

	// A detail on a fixed kind is dropped when rendered.
	assert.Equal(t, "육아", Concern{Kind: ConcernChildcare, Detail: "ignored"}.String())
}

func TestLeadStatusValid(t *testing.T) {
	for _, status := range LeadStatuses {
		assert.True(t, status.Valid())
	}
	assert.False(t, LeadStatus("종료").Valid())
	assert.False(t, LeadStatus("").Valid())
}
