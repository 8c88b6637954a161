package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registration struct {
	Name        string `validate:"required,personname"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,password"`
	Phone       string `validate:"required,trphone"`
	NationalID  string `validate:"required,tckn"`
	DateOfBirth string `validate:"required,birthdate"`
}

type slotInput struct {
	Date string `validate:"required,date"`
	Time string `validate:"required,hhmm"`
}

func validRegistration() registration {
	return registration{
		Name:        "Ayşe Yılmaz",
		Email:       "ayse@example.com",
		Password:    "secret1",
		Phone:       "0532 123 45 67",
		NationalID:  "10000000146",
		DateOfBirth: "1990-05-01",
	}
}

func TestValidate_Registration(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Validate(validRegistration()))
}

func TestValidate_RegistrationFailures(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		edit  func(r *registration)
		field string
	}{
		{"short name", func(r *registration) { r.Name = "A" }, "Name"},
		{"digits in name", func(r *registration) { r.Name = "R2D2" }, "Name"},
		{"password without digit", func(r *registration) { r.Password = "secretpass" }, "Password"},
		{"password without lowercase", func(r *registration) { r.Password = "SECRET1" }, "Password"},
		{"short password", func(r *registration) { r.Password = "ab1" }, "Password"},
		{"landline", func(r *registration) { r.Phone = "02121234567" }, "Phone"},
		{"national id checksum", func(r *registration) { r.NationalID = "10000000147" }, "NationalID"},
		{"national id leading zero", func(r *registration) { r.NationalID = "01234567890" }, "NationalID"},
		{"future birth date", func(r *registration) { r.DateOfBirth = time.Now().AddDate(1, 0, 0).Format("2006-01-02") }, "DateOfBirth"},
		{"too old", func(r *registration) { r.DateOfBirth = "1850-01-01" }, "DateOfBirth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRegistration()
			tt.edit(&r)

			err := v.Validate(r)
			require.Error(t, err)
			errs := v.FormatValidationErrors(err)
			assert.Contains(t, errs, tt.field)
			assert.Len(t, errs, 1)
		})
	}
}

func TestValidate_SlotInput(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(slotInput{Date: "2024-06-17", Time: "09:30"}))

	err := v.Validate(slotInput{Date: "17/06/2024", Time: "9:30"})
	require.Error(t, err)
	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "Date must be a date in YYYY-MM-DD format", errs["Date"])
	assert.Equal(t, "Time must be a time in HH:MM format", errs["Time"])
}

func TestIsValidTCKN(t *testing.T) {
	assert.True(t, IsValidTCKN("10000000146"))
	assert.False(t, IsValidTCKN("1000000014"))
	assert.False(t, IsValidTCKN("1000000014a"))
	assert.False(t, IsValidTCKN(""))
}
