package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHashCost is the bcrypt cost used for the admin password hash.
const PasswordHashCost = 14

// HashPassword returns the bcrypt hash to put into LOADTRACK_ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
