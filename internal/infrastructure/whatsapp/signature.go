package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// signaturePrefix is the scheme tag on the X-Hub-Signature-256 header
const signaturePrefix = "sha256="

// VerifySignature checks a webhook payload against the X-Hub-Signature-256
// header using the app secret. An empty secret disables verification, which
// is only acceptable in development.
func VerifySignature(appSecret string, payload []byte, header string) bool {
	if appSecret == "" {
		return true
	}
	if !strings.HasPrefix(header, signaturePrefix) {
		return false
	}

	expected, err := hex.DecodeString(strings.TrimPrefix(header, signaturePrefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), expected)
}
