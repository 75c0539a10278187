package verify

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Throwaway providers are treated as a validation failure outright.
var disposableDomains = map[string]bool{
	"tempmail.com":      true,
	"throwaway.email":   true,
	"10minutemail.com":  true,
	"guerrillamail.com": true,
	"mailinator.com":    true,
	"trashmail.com":     true,
}

// Free providers are fine, just not "professional".
var freeMailDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"hotmail.com": true,
	"outlook.com": true,
}

// verifyEmail validates the address grammar and scores its domain. A
// disposable domain keeps the base confidence of 50 but fails validation.
func verifyEmail(email string) EmailCheck {
	if email == "" {
		return EmailCheck{Reason: "No email provided"}
	}

	wellFormed := emailRe.MatchString(email)

	domain := ""
	if at := strings.LastIndex(email, "@"); at >= 0 {
		domain = strings.ToLower(email[at+1:])
	}

	disposable := disposableDomains[domain]
	professional := domain != "" && !freeMailDomains[domain]

	confidence := 0
	if wellFormed {
		confidence = 95
		if disposable {
			confidence = 50
		} else if professional {
			confidence = clampConfidence(confidence + 5)
		}
	}

	check := EmailCheck{
		Valid:        wellFormed && !disposable,
		Professional: professional,
		Confidence:   confidence,
		Domain:       domain,
	}

	switch {
	case !wellFormed:
		check.Reason = "Malformed email address"
	case disposable:
		check.Reason = "Disposable email domain"
	}

	return check
}
