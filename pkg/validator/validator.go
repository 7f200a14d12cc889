package validator

import (
	"net/mail"
	"strings"
	"unicode"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

const (
	maxNotesLen      = 2000
	maxDiscussionLen = 4000
)

func ValidateRegister(email, name, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, errs)
	validateName(name, errs)
	validatePassword(password, errs)

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, errs)
	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateName(name string) ValidationErrors {
	errs := make(ValidationErrors)
	validateName(name, errs)
	return errs
}

func ValidatePassword(password string) ValidationErrors {
	errs := make(ValidationErrors)
	validatePassword(password, errs)
	return errs
}

func ValidateNotes(notes string) ValidationErrors {
	errs := make(ValidationErrors)
	if len(notes) > maxNotesLen {
		errs.Add("notes", "Notes are too long")
	}
	return errs
}

func ValidateDiscussion(content string) ValidationErrors {
	errs := make(ValidationErrors)

	content = strings.TrimSpace(content)
	if content == "" {
		errs.Add("content", "Content is required")
	} else if len(content) > maxDiscussionLen {
		errs.Add("content", "Content is too long")
	}

	return errs
}

func ValidateDrug(ndc, name string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(ndc) == "" {
		errs.Add("ndc", "NDC is required")
	}
	if strings.TrimSpace(name) == "" {
		errs.Add("name", "Name is required")
	} else if len(name) > 200 {
		errs.Add("name", "Name is too long")
	}

	return errs
}

func validateEmail(email string, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}
}

func validateName(name string, errs ValidationErrors) {
	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Name is required")
	} else if len(name) < 2 {
		errs.Add("name", "Name must be at least 2 characters")
	} else if len(name) > 100 {
		errs.Add("name", "Name is too long")
	}
}

func validatePassword(password string, errs ValidationErrors) {
	if password == "" {
		errs.Add("password", "Password is required")
		return
	}
	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
		return
	}
	if len(password) > 72 {
		// bcrypt ignores everything past 72 bytes
		errs.Add("password", "Password is too long")
		return
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		errs.Add("password", "Password must contain letters and digits")
	}
}
