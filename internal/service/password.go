package service

import "golang.org/x/crypto/bcrypt"

// HashPassword genera un hash bcrypt con salt propio por llamada.
func HashPassword(plaintext string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// VerifyPassword compara un password en claro contra su hash. Un hash
// malformado cuenta como no coincidente, nunca como error.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
