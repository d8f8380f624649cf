package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ErrorCode is a machine-readable validation failure reason.
type ErrorCode string

const (
	CodeRequired      ErrorCode = "required"
	CodeInvalidPhone  ErrorCode = "invalid_phone"
	CodeInvalidEmail  ErrorCode = "invalid_email"
	CodeMaxLength     ErrorCode = "max_length"
	CodeOutOfRange    ErrorCode = "out_of_range"
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeInvalidChoice ErrorCode = "invalid_choice"

	// CodeOneOfIdentityDocuments is raised when none of the identity document
	// numbers is provided.
	CodeOneOfIdentityDocuments ErrorCode = "ONE_OF_THE_NEEDED_FIELD_BEFORE_SUBMISSION"
)

var validate = validator.New()

// phoneSeparators are stripped before a phone number is checked.
var phoneSeparators = regexp.MustCompile(`[\s.\-/()]`)

// phonePattern: + or 00 followed by a country code, or a single 0 followed by
// a national number. The prefix is not counted in the 7 to 15 digits.
var phonePattern = regexp.MustCompile(`^(?:\+|00)[1-9][0-9]{6,14}$|^0[1-9][0-9]{6,14}$`)

// Rule is a single check applied to a non-empty field value.
type Rule struct {
	Name      string
	Code      ErrorCode
	Validator func(value any) bool
}

// Check runs the rule and returns the failure code when it does not pass.
func (r Rule) Check(value any) (bool, ErrorCode) {
	if r.Validator(value) {
		return true, ""
	}
	return false, r.Code
}

// IsEmpty reports whether a snapshot value counts as "not provided".
// Booleans and numbers are provided as soon as they are set, even to false or 0.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

// Required fails on empty values.
var Required = Rule{
	Name:      "required",
	Code:      CodeRequired,
	Validator: func(value any) bool { return !IsEmpty(value) },
}

// Phone accepts numbers starting with 0, 00 or + followed by 7 to 15 digits,
// once spaces and separators are removed. The digits after the prefix may
// not start with another 0.
var Phone = Rule{
	Name: "phone",
	Code: CodeInvalidPhone,
	Validator: func(value any) bool {
		str, ok := value.(string)
		if !ok {
			return false
		}
		return IsValidPhone(str)
	},
}

// Email delegates to the validator package's email tag.
var Email = Rule{
	Name: "email",
	Code: CodeInvalidEmail,
	Validator: func(value any) bool {
		str, ok := value.(string)
		if !ok {
			return false
		}
		return validate.Var(strings.TrimSpace(str), "email") == nil
	},
}

// IsValidPhone is the phone check without the Rule wrapper.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phoneSeparators.ReplaceAllString(phone, ""))
}

// MaxLength limits a string to n characters.
func MaxLength(n int) Rule {
	return Rule{
		Name: fmt.Sprintf("max_length_%d", n),
		Code: CodeMaxLength,
		Validator: func(value any) bool {
			str, ok := value.(string)
			if !ok {
				return false
			}
			return utf8.RuneCountInString(str) <= n
		},
	}
}

// NumericRange accepts integers, floats and numeric strings within [min, max].
func NumericRange(min, max float64) Rule {
	return Rule{
		Name: fmt.Sprintf("range_%g_%g", min, max),
		Code: CodeOutOfRange,
		Validator: func(value any) bool {
			var num float64
			switch v := value.(type) {
			case int:
				num = float64(v)
			case int64:
				num = float64(v)
			case float64:
				num = v
			case string:
				parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				if err != nil {
					return false
				}
				num = parsed
			default:
				return false
			}
			return num >= min && num <= max
		},
	}
}

// Regex fails with code when the string does not match pattern.
func Regex(pattern string, code ErrorCode) Rule {
	re := regexp.MustCompile(pattern)
	return Rule{
		Name: "regex_" + pattern,
		Code: code,
		Validator: func(value any) bool {
			str, ok := value.(string)
			if !ok {
				return false
			}
			return re.MatchString(str)
		},
	}
}

// Choice accepts one of the listed values.
func Choice(allowed ...string) Rule {
	return Rule{
		Name: "choice_" + strings.Join(allowed, "_"),
		Code: CodeInvalidChoice,
		Validator: func(value any) bool {
			str, ok := value.(string)
			if !ok {
				return false
			}
			for _, a := range allowed {
				if str == a {
					return true
				}
			}
			return false
		},
	}
}
