package registration

import (
	"acadeemia/entity"
	"acadeemia/internal/lib/validate"
	"strings"
)

const (
	MinPasswordLength = 8
	// bcrypt input limit
	MaxPasswordBytes = 72
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func ValidEmail(email string) bool {
	return validate.Email(email)
}

// ValidateAdmin checks the administrator step. Rules run in the order
// completeness, match, length, format and the last failure is reported,
// except that a password mismatch is always reported when present.
func ValidateAdmin(a entity.AdminDetails) *ValidationError {
	var failures []*ValidationError

	for _, f := range []struct{ name, value string }{
		{"adminFirstName", a.FirstName},
		{"adminLastName", a.LastName},
		{"adminEmail", a.Email},
		{"adminPassword", a.Password},
	} {
		if blank(f.value) {
			failures = append(failures, invalid(StepAdmin, RuleRequired, f.name, "Please fill in all required fields"))
			break
		}
	}

	if a.Password != a.ConfirmPassword {
		return invalid(StepAdmin, RuleMatch, "adminConfirmPassword", "Passwords do not match")
	}

	if len(a.Password) < MinPasswordLength {
		failures = append(failures, invalid(StepAdmin, RuleLength, "adminPassword", "Password must be at least 8 characters long"))
	} else if len(a.Password) > MaxPasswordBytes {
		failures = append(failures, invalid(StepAdmin, RuleLength, "adminPassword", "Password must be at most 72 characters long"))
	}

	if !ValidEmail(strings.TrimSpace(a.Email)) {
		failures = append(failures, invalid(StepAdmin, RuleFormat, "adminEmail", "Please enter a valid email address"))
	}

	if len(failures) > 0 {
		return failures[len(failures)-1]
	}
	return nil
}

// ValidateSchool checks the school step: name, address, type and student
// count are required, and a school email, when given, must be well formed.
func ValidateSchool(s entity.SchoolDetails) *ValidationError {
	for _, f := range []struct{ name, value string }{
		{"schoolName", s.Name},
		{"schoolAddress", s.Address},
		{"schoolType", s.Type},
		{"studentCount", s.StudentCount},
	} {
		if blank(f.value) {
			return invalid(StepSchool, RuleRequired, f.name, "Please fill in all required school fields")
		}
	}
	if !blank(s.Email) && !ValidEmail(strings.TrimSpace(s.Email)) {
		return invalid(StepSchool, RuleFormat, "schoolEmail", "Please enter a valid school email address")
	}
	return nil
}

// ValidateContact checks what the payment needs beyond the form steps: the
// gateway requires a phone number for the billing address.
func ValidateContact(p entity.RegistrationPayload, d entity.SubmitDetails) *ValidationError {
	if blank(d.Phone) && blank(p.AdminPhone) && blank(p.SchoolPhone) {
		return invalid(StepReview, RuleRequired, "phone", "Please provide a contact phone number")
	}
	return nil
}
