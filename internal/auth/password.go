package auth

import (
	"crypto/rand"
	"math/big"
)

// tempPasswordAlphabet matches the legacy generator: mixed-case letters and
// digits, nothing else.
const tempPasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	MinTempPasswordLength     = 8
	DefaultTempPasswordLength = 12
)

// GenerateTempPassword returns a uniform-random temporary password of the
// given length, clamped to the minimum.
func GenerateTempPassword(length int) (string, error) {
	if length < MinTempPasswordLength {
		length = MinTempPasswordLength
	}

	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
