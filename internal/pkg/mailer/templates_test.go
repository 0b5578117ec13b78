package mailer

import (
	"strings"
	"testing"
)

func TestBuildVerificationEmail(t *testing.T) {
	email := BuildVerificationEmail("s1@college.edu", VerificationEmailData{
		SiteName:  "CampusLink",
		Code:      "483921",
		ExpiresIn: "10 minutes",
	})

	if email.To != "s1@college.edu" {
		t.Fatalf("unexpected to: %s", email.To)
	}
	if !strings.Contains(email.Subject, "CampusLink") {
		t.Fatalf("subject should contain site name: %s", email.Subject)
	}
	if !strings.Contains(email.Body, "483921") {
		t.Fatalf("body should contain code: %s", email.Body)
	}
	if !strings.Contains(email.Body, "10 minutes") {
		t.Fatalf("body should contain expiry: %s", email.Body)
	}
}

func TestBuildApplicationEmail(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		reason     string
		wantInBody string
	}{
		{"submitted", "submitted", "", "received your contributor application"},
		{"approved", "approved", "", "has been approved"},
		{"rejected with reason", "rejected", "Insufficient documentation", "Insufficient documentation"},
		{"unknown status falls back", "on_hold", "", "on_hold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := BuildApplicationEmail("s1@college.edu", ApplicationEmailData{
				SiteName:    "CampusLink",
				FullName:    "Asha Rao",
				CollegeName: "NIT Trichy",
				Status:      tt.status,
				Reason:      tt.reason,
			})
			if !strings.Contains(email.Body, tt.wantInBody) {
				t.Fatalf("body %q should contain %q", email.Body, tt.wantInBody)
			}
			if !strings.Contains(email.Body, "Asha Rao") {
				t.Fatalf("body should greet the applicant: %s", email.Body)
			}
		})
	}
}
