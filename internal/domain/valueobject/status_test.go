package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoanStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    LoanStatus
		wantErr bool
	}{
		{"ACTIVE", LoanStatusActive, false},
		{"CLOSED", LoanStatusClosed, false},
		{"active", LoanStatus{}, true},
		{"", LoanStatus{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NewLoanStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want))
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestNewActivityKind(t *testing.T) {
	k, err := NewActivityKind("EARNING")
	require.NoError(t, err)
	assert.True(t, k.Equal(ActivityKindEarning))
	assert.False(t, k.Equal(ActivityKindExpense))

	_, err = NewActivityKind("REFUND")
	assert.Error(t, err)
}
