package validation_test

import (
	"strings"
	"testing"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() domain.ContactRequest {
	return domain.ContactRequest{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Subject: "Project inquiry",
		Message: "I would like to talk about a project.",
	}
}

func TestContactRequestRules(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name    string
		mutate  func(r *domain.ContactRequest)
		wantErr string
	}{
		{"valid", func(r *domain.ContactRequest) {}, ""},
		{"name too short", func(r *domain.ContactRequest) { r.Name = "J" }, "Name must be at least 2 characters"},
		{"name exactly 2", func(r *domain.ContactRequest) { r.Name = "Jo" }, ""},
		{"name exactly 100", func(r *domain.ContactRequest) { r.Name = strings.Repeat("a", 100) }, ""},
		{"name 101", func(r *domain.ContactRequest) { r.Name = strings.Repeat("a", 101) }, "Name must be at most 100 characters"},
		{"name blank", func(r *domain.ContactRequest) { r.Name = "   " }, "Name"},
		{"bad email", func(r *domain.ContactRequest) { r.Email = "not-an-email" }, "Email must be a valid email address"},
		{"subject too short", func(r *domain.ContactRequest) { r.Subject = "Hey" }, "Subject must be at least 5 characters"},
		{"message 9", func(r *domain.ContactRequest) { r.Message = strings.Repeat("m", 9) }, "Message must be at least 10 characters"},
		{"message exactly 10", func(r *domain.ContactRequest) { r.Message = strings.Repeat("m", 10) }, ""},
		{"message 2001", func(r *domain.ContactRequest) { r.Message = strings.Repeat("m", 2001) }, "Message must be at most 2000 characters"},
		{"phone too long", func(r *domain.ContactRequest) { r.Phone = strings.Repeat("1", 21) }, "Phone must be at most 20 characters"},
		{"company too long", func(r *domain.ContactRequest) { r.Company = strings.Repeat("c", 101) }, "Company must be at most 100 characters"},
		{"multibyte name counts characters", func(r *domain.ContactRequest) { r.Name = "Zoë" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			req.Normalize()

			err := v.Struct(req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, validation.Message(err), tt.wantErr)
		})
	}
}

func TestNormalizeTrimsBeforeLengthChecks(t *testing.T) {
	v := validation.New()
	req := validRequest()
	req.Name = "  J  "
	req.Normalize()

	assert.Equal(t, "J", req.Name)
	assert.Error(t, v.Struct(req))
}

func TestMessageAggregatesAllViolations(t *testing.T) {
	v := validation.New()
	req := domain.ContactRequest{Name: "J", Email: "nope", Subject: "Hi", Message: "short"}

	msg := validation.Message(v.Struct(req))
	assert.Contains(t, msg, "Name")
	assert.Contains(t, msg, "Email")
	assert.Contains(t, msg, "Subject")
	assert.Contains(t, msg, "Message")
}
