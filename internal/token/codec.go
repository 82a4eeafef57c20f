package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// PayloadType is the discriminator embedded in every minted token.
const PayloadType = "document_submission"

// ErrInvalidToken is the single failure reported for any decode problem:
// bad encoding, failed decryption, malformed JSON or a wrong discriminator.
// Callers must not learn which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Payload is the plaintext content of a QR access token.
type Payload struct {
	SubmissionID string `json:"submissionId"`
	UserID       string `json:"userId"`
	Timestamp    int64  `json:"timestamp"`
	Type         string `json:"type"`
}

// Codec encrypts and decrypts QR access tokens with AES-256-GCM under a
// pre-shared key. The wire format is base64url(nonce || ciphertext).
type Codec struct {
	gcm cipher.AEAD
}

// NewCodec builds a codec from a 32-byte symmetric key.
func NewCodec(key string) (*Codec, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("token codec: key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	return &Codec{gcm: gcm}, nil
}

// Encode mints an opaque token binding a submission to its owner.
func (c *Codec) Encode(submissionID, userID string) (string, error) {
	payload := Payload{
		SubmissionID: submissionID,
		UserID:       userID,
		Timestamp:    time.Now().UnixMilli(),
		Type:         PayloadType,
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal token payload: %w", err)
	}

	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := c.gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// Decode validates a token and returns its payload. Every failure mode maps
// to ErrInvalidToken.
func (c *Codec) Decode(tok string) (*Payload, error) {
	data, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		return nil, ErrInvalidToken
	}

	nonceSize := c.gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, ErrInvalidToken
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var payload Payload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, ErrInvalidToken
	}

	if payload.Type != PayloadType || payload.SubmissionID == "" || payload.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &payload, nil
}
