package webhooks

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	SignatureHeader = "X-MagnetLab-Signature"
	TimestampHeader = "X-MagnetLab-Timestamp"
	EventHeader     = "X-MagnetLab-Event"

	signaturePrefix    = "sha256="
	secretPrefix       = "whsec_"
	timestampTolerance = 5 * time.Minute
	maxInboundBody     = 1 << 20
)

var (
	ErrMissingSignature  = errors.New("missing signature")
	ErrInvalidTimestamp  = errors.New("invalid timestamp")
	ErrTimestampExpired  = errors.New("timestamp outside tolerance")
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// GenerateSecret creates a new random signing secret for an endpoint.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return secretPrefix + hex.EncodeToString(b), nil
}

// Sign returns "sha256=<hex>" over "{timestamp}.{body}".
func Sign(secret string, timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks signature against body. The timestamp must be within five
// minutes of now in either direction.
func Verify(secret, signature, timestamp string, body []byte, now time.Time) error {
	if signature == "" || timestamp == "" {
		return ErrMissingSignature
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(timestamp), 10, 64)
	if err != nil {
		return ErrInvalidTimestamp
	}
	delta := now.Sub(time.Unix(ts, 0))
	if delta > timestampTolerance || delta < -timestampTolerance {
		return ErrTimestampExpired
	}

	expected := Sign(secret, ts, body)
	if !hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature))) {
		return ErrSignatureMismatch
	}
	return nil
}

// InboundSignatureMiddleware verifies the signature headers against the raw
// body and restores the body for the downstream handler.
func InboundSignatureMiddleware(secret string, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "inbound webhooks are not configured"})
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxInboundBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}

		if err := Verify(secret, c.GetHeader(SignatureHeader), c.GetHeader(TimestampHeader), body, now()); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}
