package middleware

import (
	"fmt"
	"net"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxBrandLength  = 200
	MaxPromptLength = 2000
	MaxListItems    = 20
)

var domainPattern = regexp.MustCompile(`^(?i)[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)+$`)

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateBrand requires a non-empty brand of bounded length.
func ValidateBrand(brand string) error {
	if brand == "" {
		return fmt.Errorf("brand cannot be empty")
	}
	if utf8.RuneCountInString(brand) > MaxBrandLength {
		return fmt.Errorf("brand is longer than %d characters", MaxBrandLength)
	}
	return nil
}

// ValidatePrompts bounds the number and size of caller supplied prompts.
func ValidatePrompts(prompts []string, maxPrompts int) error {
	if len(prompts) > maxPrompts {
		return fmt.Errorf("too many prompts: %d (max %d)", len(prompts), maxPrompts)
	}
	for i, p := range prompts {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("prompt %d is empty", i)
		}
		if utf8.RuneCountInString(p) > MaxPromptLength {
			return fmt.Errorf("prompt %d is longer than %d characters", i, MaxPromptLength)
		}
	}
	return nil
}

// ValidateList bounds comma separated inputs such as competitors or topics.
func ValidateList(name string, items []string) error {
	if len(items) > MaxListItems {
		return fmt.Errorf("too many %s: %d (max %d)", name, len(items), MaxListItems)
	}
	return nil
}

// ValidateDomain accepts bare public host names.
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if len(domain) > 253 || !domainPattern.MatchString(domain) {
		return fmt.Errorf("invalid domain: %s", domain)
	}
	if net.ParseIP(domain) != nil {
		return fmt.Errorf("IP addresses are not allowed: %s", domain)
	}
	lower := strings.ToLower(domain)
	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") || strings.HasSuffix(lower, ".local") || strings.HasSuffix(lower, ".internal") {
		return fmt.Errorf("internal hosts are not allowed: %s", domain)
	}
	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
