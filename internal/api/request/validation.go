package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// ValidDate reports whether s is a YYYY-MM-DD report date.
func ValidDate(s string) bool {
	return dateRegex.MatchString(s)
}
