package httpserver

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func (v *ValidationResult) add(field, code, msg string) {
	v.Valid = false
	v.Errors = append(v.Errors, ValidationError{Field: field, Code: code, Message: msg})
}

// rankRequest is the JSON body of POST /v1/rank.
type rankRequest struct {
	Description string   `json:"description" validate:"required,max=100000"`
	Threshold   *float64 `json:"threshold" validate:"omitempty,gte=0,lte=1"`
	TopN        *int     `json:"top_n" validate:"omitempty,gte=0,lte=50"`
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// validateStruct runs validator tags and flattens failures into
// field -> tag pairs for the error details.
func validateStruct(v any) (map[string]string, bool) {
	err := getValidator().Struct(v)
	if err == nil {
		return nil, true
	}
	verrs := map[string]string{}
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			verrs[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return verrs, false
}

// ParseRankParams parses the threshold and top_n form fields. Empty fields
// take the defaults: the policy threshold and DefaultTopN.
func ParseRankParams(threshold, topN string, defThreshold float64) (float64, int, ValidationResult) {
	res := ValidationResult{Valid: true}
	th := defThreshold
	if s := strings.TrimSpace(threshold); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || v < 0 || v > 1 {
			res.add("threshold", "INVALID_FORMAT", "Threshold must be a number between 0 and 1")
		} else {
			th = v
		}
	}
	n := DefaultTopN
	if s := strings.TrimSpace(topN); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > skills.MaxTopN {
			res.add("top_n", "INVALID_FORMAT", "top_n must be an integer between 0 and "+strconv.Itoa(skills.MaxTopN))
		} else {
			n = v
		}
	}
	return th, n, res
}

var validQuery = regexp.MustCompile(`^[\p{L}\p{N}\s_.,/&+#()-]+$`)

// ValidateSearchQuery validates a role search query
func ValidateSearchQuery(query string) ValidationResult {
	if query == "" {
		return ValidationResult{Valid: true}
	}

	if utf8.RuneCountInString(query) > 200 {
		return ValidationResult{
			Valid: false,
			Errors: []ValidationError{
				{
					Field:   "q",
					Code:    "TOO_LONG",
					Message: "Search query is too long (max 200 characters)",
				},
			},
		}
	}

	if !validQuery.MatchString(query) {
		return ValidationResult{
			Valid: false,
			Errors: []ValidationError{
				{
					Field:   "q",
					Code:    "INVALID_FORMAT",
					Message: "Search query contains invalid characters",
				},
			},
		}
	}

	return ValidationResult{Valid: true}
}

// SanitizeString sanitizes a form field
func SanitizeString(input string) string {
	// Remove null bytes and control characters
	input = strings.ReplaceAll(input, "\x00", "")

	input = strings.TrimSpace(input)

	// Limit length to prevent DoS
	if len(input) > 1000 {
		input = input[:1000]
	}

	// Ensure valid UTF-8
	if !utf8.ValidString(input) {
		input = strings.ToValidUTF8(input, "")
	}

	return input
}
