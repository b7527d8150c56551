package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.c", "john.doe@example.com"}
	invalid := []string{"test@", "@example.com", "test@com", "test@domain", "te st@domain.com", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{"5301234567", "0000000000"}
	invalid := []string{"555-0123", "530123456", "53012345678", "53012345a7", ""}
	for _, p := range valid {
		if !IsValidPhoneNumber(p) {
			t.Errorf("IsValidPhoneNumber(%q) = false, want true", p)
		}
	}
	for _, p := range invalid {
		if IsValidPhoneNumber(p) {
			t.Errorf("IsValidPhoneNumber(%q) = true, want false", p)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-02-30", "01-01-2023", ""}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsAdult(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		dob  string
		want bool
	}{
		{"2006-06-15", true},
		{"2006-06-16", false},
		{"1990-05-20", true},
		{"2010-01-01", false},
		{"not-a-date", false},
	}
	for _, c := range cases {
		if got := IsAdult(c.dob, 18, now); got != c.want {
			t.Errorf("IsAdult(%q) = %v, want %v", c.dob, got, c.want)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	if !IsInSlice("Tech", []string{"Analytics", "Tech"}) {
		t.Error("IsInSlice(Tech) = false, want true")
	}
	if IsInSlice("tech", []string{"Analytics", "Tech"}) {
		t.Error("IsInSlice(tech) = true, want false")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "email is invalid"},
		{Field: "phoneNumber", Message: "phoneNumber must be 10 digits"},
	}
	if got := errs.Error(); got != "email: email is invalid; phoneNumber: phoneNumber must be 10 digits" {
		t.Errorf("Error() = %q", got)
	}
	m := errs.ToMap()
	if len(m) != 2 || m["email"] != "email is invalid" {
		t.Errorf("ToMap() = %v", m)
	}
}
