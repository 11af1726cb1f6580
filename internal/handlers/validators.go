package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validAadhar checks the 12-digit Aadhaar format. A zero or one leading
// digit is not issued, so those are rejected along with non-digits.
func validAadhar(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if len(v) != 12 {
		return false
	}
	if v[0] == '0' || v[0] == '1' {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("aadhar", validAadhar)
	}
}
