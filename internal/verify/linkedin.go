package verify

import "regexp"

var linkedinRe = regexp.MustCompile(`^(https?://)?(www\.)?linkedin\.com/in/[\w-]+`)

// Fixed confidence for a well-formed profile URL. This check is a stand-in
// for a real profile lookup: the URL shape is all we can validate without
// scraping, so a match is scored below a verified GitHub profile.
const linkedinFoundConfidence = 85

func verifyLinkedIn(profileURL string) LinkedInCheck {
	if profileURL == "" {
		return LinkedInCheck{Reason: "No LinkedIn URL provided in resume"}
	}

	if !linkedinRe.MatchString(profileURL) {
		return LinkedInCheck{
			ProfileURL: profileURL,
			Reason:     "Invalid LinkedIn URL format",
		}
	}

	return LinkedInCheck{
		Found:      true,
		ProfileURL: profileURL,
		Confidence: linkedinFoundConfidence,
		Reason:     "LinkedIn profile URL validated",
	}
}
