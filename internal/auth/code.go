package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strconv"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// GenerateVerificationCode returns a 6-digit decimal code drawn uniformly from [100000, 999999].
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}

// CodesEqual compares a presented code with the stored one in constant time.
func CodesEqual(stored, presented string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
