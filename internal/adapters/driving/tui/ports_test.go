package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"nil ports", nil, ErrMissingAskService},
		{"missing ask", &Ports{Conversation: newMockConversationService()}, ErrMissingAskService},
		{"ask only", &Ports{Ask: &mockAskService{}}, nil},
		{"all", &Ports{Ask: &mockAskService{}, Conversation: newMockConversationService()}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
