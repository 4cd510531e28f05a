package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespond(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "greeting group",
			query: "Hi there",
			want:  "Hello! I'm Prodesk AI Assistant. How can I help you?",
		},
		{
			name:  "services group",
			query: "What services do you offer?",
			want:  "Prodesk provides IT staffing, software development, and engineering services.",
		},
		{
			name:  "contact group",
			query: "How do I contact you?",
			want:  "You can contact Prodesk through our website. We respond within 24 hours.",
		},
		{
			name:  "no match yields clarification",
			query: "asdkjasd",
			want:  "Thank you for your question! Could you provide more details?",
		},
		{
			name:  "services wins over contact by priority",
			query: "email me your services",
			want:  "Prodesk provides IT staffing, software development, and engineering services.",
		},
		{
			name:  "matching is case insensitive",
			query: "CONTACT",
			want:  "You can contact Prodesk through our website. We respond within 24 hours.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Respond(tt.query))
			// Pure function: repeated calls agree.
			assert.Equal(t, Respond(tt.query), Respond(tt.query))
		})
	}
}
