// Package token produces single-use subscription confirmation tokens.
package token

import "crypto/rand"

// Length is the number of characters in a confirmation token. 25 characters
// over a 62-symbol alphabet is far beyond short brute force.
const Length = 25

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a fresh token drawn uniformly from [A-Za-z0-9].
func Generate() string {
	out := make([]byte, 0, Length)
	buf := make([]byte, 2*Length)
	for len(out) < Length {
		if _, err := rand.Read(buf); err != nil {
			panic(err)
		}
		for _, b := range buf {
			// reject bytes above the largest multiple of len(alphabet)
			// to keep the distribution uniform
			if int(b) >= 248 {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == Length {
				break
			}
		}
	}
	return string(out)
}
