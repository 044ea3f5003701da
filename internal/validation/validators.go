package validation

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/riztech/portfolio-api/internal/models"
)

// submissionFields carries the fixed field rules. Lengths are measured in
// bytes, the same unit the policy maximum uses. The message upper bound is
// policy-driven and checked separately.
type submissionFields struct {
	Name    string `validate:"required,minbytes=2,maxbytes=100"`
	Email   string `validate:"required,email,maxbytes=255"`
	Message string `validate:"required,minbytes=10"`
}

// Validator validates sanitized contact submissions against field rules and
// spam heuristics. All failures are accumulated so the client sees every
// problem at once, in field order.
type Validator struct {
	validate         *validator.Validate
	maxMessageLength int
	spamPatterns     []*regexp.Regexp
}

// New compiles the spam pattern set and returns a Validator.
func New(maxMessageLength int, spamPatterns []string) (*Validator, error) {
	patterns := make([]*regexp.Regexp, 0, len(spamPatterns))
	for _, p := range spamPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid spam pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}

	validate := validator.New()
	if err := validate.RegisterValidation("minbytes", minBytes); err != nil {
		return nil, fmt.Errorf("failed to register minbytes rule: %w", err)
	}
	if err := validate.RegisterValidation("maxbytes", maxBytes); err != nil {
		return nil, fmt.Errorf("failed to register maxbytes rule: %w", err)
	}

	return &Validator{
		validate:         validate,
		maxMessageLength: maxMessageLength,
		spamPatterns:     patterns,
	}, nil
}

// minBytes and maxBytes bound string fields by byte length. The builtin
// min/max tags count runes, which would let multi-byte input slip past the
// byte budgets the policy and downstream systems work in.
func minBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) >= n
}

func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

// Validate returns all validation failures for the submission, in order: name,
// email, message, then content heuristics. An empty slice means the submission
// is acceptable.
func (v *Validator) Validate(sub *models.Submission) []string {
	var errs []string

	fields := submissionFields{
		Name:    sub.Name,
		Email:   sub.Email,
		Message: sub.Message,
	}

	if err := v.validate.Struct(fields); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				errs = append(errs, fieldMessage(fe))
			}
		} else {
			errs = append(errs, "Submission could not be validated.")
		}
	}

	// The upper bound comes from the relay policy, so it cannot live in the
	// struct tags. Only report it when the message passed its fixed rules.
	if !hasMessageError(errs) && len(sub.Message) > v.maxMessageLength {
		errs = append(errs, fmt.Sprintf("Message is too long. Maximum %d characters allowed.", v.maxMessageLength))
	}

	errs = append(errs, v.contentErrors(sub.Message)...)

	return errs
}

// contentErrors applies the spam heuristics to the message body. The first
// matching pattern short-circuits; the link-count check is independent.
func (v *Validator) contentErrors(message string) []string {
	var errs []string

	for _, re := range v.spamPatterns {
		if re.MatchString(message) {
			errs = append(errs, "Message appears to be spam and was rejected.")
			break
		}
	}

	if strings.Count(message, "http") > 2 {
		errs = append(errs, "Too many links in message.")
	}

	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Name":
		switch fe.Tag() {
		case "required":
			return "Name is required."
		case "minbytes":
			return "Name must be at least 2 characters long."
		case "maxbytes":
			return "Name must be less than 100 characters."
		}
	case "Email":
		switch fe.Tag() {
		case "required":
			return "Email is required."
		case "email":
			return "Please enter a valid email address."
		case "maxbytes":
			return "Email address is too long."
		}
	case "Message":
		switch fe.Tag() {
		case "required":
			return "Message is required."
		case "minbytes":
			return "Message must be at least 10 characters long."
		}
	}
	return fmt.Sprintf("%s is invalid.", fe.StructField())
}

func hasMessageError(errs []string) bool {
	for _, e := range errs {
		if strings.HasPrefix(e, "Message ") {
			return true
		}
	}
	return false
}

// Sanitize normalizes a form value: trims whitespace, drops control characters
// (keeping newlines and tabs), and HTML-escapes the result. Escaping happens
// here, once; the email template embeds these values without re-escaping.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}

	return html.EscapeString(b.String())
}
