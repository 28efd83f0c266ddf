package utils

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsValidCedula reports whether a Venezuelan cedula is plausible: digits
// only, 7 to 10 of them, no leading zero.
func IsValidCedula(cedula string) bool {
	if len(cedula) < 7 || len(cedula) > 10 {
		return false
	}
	if cedula[0] == '0' {
		return false
	}
	for _, r := range cedula {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
