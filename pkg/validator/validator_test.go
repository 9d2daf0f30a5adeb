package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username        string  `json:"username" validate:"required,min=3,max=30,username"`
	Password        string  `json:"password" trim:"-" validate:"required,min=6,password"`
	ConfirmPassword *string `json:"confirmPassword" trim:"-" validate:"omitempty,eqfield=Password"`
	Phone           *string `json:"phone" validate:"omitempty,phone"`
	Role            string  `json:"role" validate:"omitempty,oneof=admin user"`
}

type order struct {
	Supplier string      `json:"supplier" validate:"required,uuid"`
	Items    []orderItem `json:"items" validate:"required,min=1,dive"`
}

type orderItem struct {
	Name     string `json:"name" validate:"notblank"`
	Quantity *int   `json:"quantity" validate:"required,min=1"`
}

func TestValidateStructAcceptsValidInput(t *testing.T) {
	phone := "0771234567"
	errs := ValidateStruct(&signup{Username: "john_doe", Password: "Secret1", Phone: &phone, Role: "admin"})
	assert.Empty(t, errs)
}

func TestValidateStructReportsEveryField(t *testing.T) {
	phone := "12345"
	mismatch := "Other1"
	errs := ValidateStruct(&signup{
		Username:        "a!",
		Password:        "weak",
		ConfirmPassword: &mismatch,
		Phone:           &phone,
		Role:            "root",
	})

	got := map[string]string{}
	for _, e := range errs {
		got[e.Field] = e.Message
	}
	assert.Equal(t, "Username must be at least 3 characters", got["username"])
	assert.Equal(t, "Password must be at least 6 characters", got["password"])
	assert.Equal(t, "Passwords do not match", got["confirmPassword"])
	assert.Equal(t, "Phone must be exactly 10 digits", got["phone"])
	assert.Equal(t, "Role must be one of: admin, user", got["role"])
}

func TestValidateStructNestedPaths(t *testing.T) {
	zero := 0
	errs := ValidateStruct(&order{
		Supplier: "not-a-uuid",
		Items:    []orderItem{{Name: "  ", Quantity: &zero}},
	})
	require.Len(t, errs, 3)

	got := map[string]string{}
	for _, e := range errs {
		got[e.Field] = e.Message
	}
	assert.Equal(t, "Invalid supplier ID", got["supplier"])
	assert.Equal(t, "Name is required", got["items[0].name"])
	assert.Equal(t, "Quantity must be at least 1", got["items[0].quantity"])
}

func TestValidateStructEmptyItems(t *testing.T) {
	errs := ValidateStruct(&order{Supplier: "1b4e28ba-2fa1-11d2-883f-0016d3cca427", Items: []orderItem{}})
	require.Len(t, errs, 1)
	assert.Equal(t, "items", errs[0].Field)
	assert.Equal(t, "At least one item is required", errs[0].Message)
}

func TestValidateFieldsChecksOnlyNamedFields(t *testing.T) {
	s := &signup{Password: "weak", Role: "root"}

	errs := ValidateFields(s, "Password")
	require.Len(t, errs, 1)
	assert.Equal(t, "password", errs[0].Field)
	assert.Equal(t, "Password must be at least 6 characters", errs[0].Message)

	assert.Empty(t, ValidateFields(&signup{Password: "Secret1"}, "Password"))
}

func TestIsStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Secret1": true,
		"secret1": false,
		"SECRET1": false,
		"Secretx": false,
		"":        false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsStrongPassword(in), in)
	}
}

func TestTrimStrings(t *testing.T) {
	pw := "  Secret1  "
	phone := " 0771234567 "
	s := &signup{Username: "  john  ", Password: pw, ConfirmPassword: &pw, Phone: &phone}
	TrimStrings(s)

	assert.Equal(t, "john", s.Username)
	assert.Equal(t, pw, s.Password)
	assert.Equal(t, "0771234567", *s.Phone)

	o := &order{Items: []orderItem{{Name: "  bolt "}}}
	TrimStrings(o)
	assert.Equal(t, "bolt", o.Items[0].Name)
}
