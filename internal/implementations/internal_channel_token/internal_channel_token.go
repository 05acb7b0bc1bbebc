package internalchanneltoken

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"ponger/internal/core/domain/reminder"
	"strings"
)

const SALT_LEN = 8

// HMAC issues stream tokens bound to a recipient. A token is the base64 of
// "<salt>-<mac>", the mac covers both the recipient and the salt.
type HMAC struct {
	secretKey []byte
}

func NewHMAC(secretKey string) *HMAC {
	if secretKey == "" {
		panic("secret key must not be empty")
	}
	return &HMAC{
		secretKey: []byte(secretKey),
	}
}

func (h *HMAC) GenerateStreamToken(recipientID reminder.RecipientID) reminder.StreamToken {
	salt := h.getRandomSalt()
	mac := h.getMac(recipientID, salt)
	b64 := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf("%s-%s", salt, mac)))
	return reminder.StreamToken(b64)
}

func (h *HMAC) ValidateStreamToken(recipientID reminder.RecipientID, token reminder.StreamToken) bool {
	decodedToken, err := base64.RawURLEncoding.DecodeString(string(token))
	if err != nil {
		return false
	}
	parts := strings.SplitN(string(decodedToken), "-", 2)
	if len(parts) != 2 {
		return false
	}
	salt := parts[0]
	mac := parts[1]
	expectedMac := h.getMac(recipientID, salt)
	return hmac.Equal([]byte(expectedMac), []byte(mac))
}

func (h *HMAC) getMac(recipientID reminder.RecipientID, salt string) string {
	hasher := hmac.New(sha256.New, h.secretKey)
	io.WriteString(hasher, fmt.Sprintf("%d:%s", recipientID, salt))
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

func (h *HMAC) getRandomSalt() string {
	b := make([]byte, SALT_LEN/2)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("could not read random salt: %v", err))
	}
	return hex.EncodeToString(b)
}
