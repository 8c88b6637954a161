package validator

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	hhmmPattern    = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	trPhonePattern = regexp.MustCompile(`^(\+90|0)?5\d{9}$`)
	namePattern    = regexp.MustCompile(`^[a-zA-ZçğıöşüÇĞIİÖŞÜ\s]+$`)
	digitsPattern  = regexp.MustCompile(`^\d{11}$`)
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("hhmm", validateHHMM)
	_ = v.RegisterValidation("date", validateDate)
	_ = v.RegisterValidation("tckn", validateTCKN)
	_ = v.RegisterValidation("trphone", validateTRPhone)
	_ = v.RegisterValidation("password", validatePassword)
	_ = v.RegisterValidation("personname", validatePersonName)
	_ = v.RegisterValidation("birthdate", validateBirthDate)
	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "hhmm":
				errors[field] = field + " must be a time in HH:MM format"
			case "date":
				errors[field] = field + " must be a date in YYYY-MM-DD format"
			case "tckn":
				errors[field] = field + " must be a valid 11 digit national id"
			case "trphone":
				errors[field] = field + " must be a valid mobile number (05XXXXXXXXX)"
			case "password":
				errors[field] = field + " must be at least 6 characters with a lowercase letter and a digit"
			case "personname":
				errors[field] = field + " may only contain letters and spaces"
			case "birthdate":
				errors[field] = field + " must be a valid birth date"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

func validateHHMM(fl validator.FieldLevel) bool {
	return hhmmPattern.MatchString(fl.Field().String())
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// validateTCKN checks the length, leading digit and both check digits of a Turkish national id.
func validateTCKN(fl validator.FieldLevel) bool {
	return IsValidTCKN(fl.Field().String())
}

func IsValidTCKN(s string) bool {
	if !digitsPattern.MatchString(s) || s[0] == '0' {
		return false
	}
	d := make([]int, 11)
	for i := range s {
		d[i] = int(s[i] - '0')
	}
	odd := d[0] + d[2] + d[4] + d[6] + d[8]
	even := d[1] + d[3] + d[5] + d[7]
	check1 := ((odd*7-even)%10 + 10) % 10
	check2 := (odd + even + d[9]) % 10
	return check1 == d[9] && check2 == d[10]
}

func validateTRPhone(fl validator.FieldLevel) bool {
	phone := strings.Join(strings.Fields(fl.Field().String()), "")
	return trPhonePattern.MatchString(phone)
}

func validatePassword(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if len(p) < 6 {
		return false
	}
	var lower, digit bool
	for _, r := range p {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && digit
}

func validatePersonName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return len([]rune(strings.TrimSpace(name))) >= 2 && namePattern.MatchString(name)
}

// validateBirthDate accepts YYYY-MM-DD dates that are not in the future and at most 120 years back.
func validateBirthDate(fl validator.FieldLevel) bool {
	dob, err := time.Parse("2006-01-02", fl.Field().String())
	if err != nil {
		return false
	}
	now := time.Now()
	if dob.After(now) {
		return false
	}
	return now.Year()-dob.Year() <= 120
}
