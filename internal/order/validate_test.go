package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCCExpirationPattern(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"01/26", true},
		{"09/99", true},
		{"12/10", true},
		{"00/26", false},
		{"13/26", false},
		{"12/09", false},
		{"1/26", false},
		{"12-26", false},
		{"12/2026", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ccExpirationPattern.MatchString(tt.value))
		})
	}
}

func TestMessageFor_CoversEveryValidatedField(t *testing.T) {
	fields := []string{
		"DeliveryName", "DeliveryStreet", "DeliveryCity",
		"DeliveryState", "DeliveryZip",
		"CCNumber", "CCExpiration", "CCCVV",
	}
	for _, field := range fields {
		_, ok := fieldMessages[field]
		assert.True(t, ok, field)
	}
}
