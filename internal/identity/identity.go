package identity

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	PublicKeySize  = ed25519.PublicKeySize
	PrivateKeySize = ed25519.PrivateKeySize
	SignatureSize  = ed25519.SignatureSize

	TimestampHeader = "X-Request-Timestamp"
)

type (
	PublicKey  = ed25519.PublicKey
	PrivateKey = ed25519.PrivateKey
)

var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthorization = errors.New("invalid authorization")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrStaleRequest         = errors.New("request timestamp outside allowed skew")
)

func Generate() (PublicKey, PrivateKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}

	return publicKey, privateKey, nil
}

// UserID is the identifier a public key is known by in the store.
func UserID(publicKey PublicKey) string {
	return hex.EncodeToString(publicKey)
}

func UserIDFromPrivateKey(privateKey PrivateKey) string {
	return UserID(privateKey.Public().(PublicKey))
}

func PrivateKeyFromBytes(b []byte) (PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, errors.New("invalid private key size")
	}
	return PrivateKey(b), nil
}

func signedPayload(method string, requestURI string, timestamp string, body []byte) []byte {
	payload := bytes.Buffer{}
	payload.WriteString(method)
	payload.WriteByte('\n')
	payload.WriteString(requestURI)
	payload.WriteByte('\n')
	payload.WriteString(timestamp)
	payload.WriteByte('\n')
	payload.Write(body)
	return payload.Bytes()
}

// SignRequest sets the authorization headers of req for body, which must be
// the exact bytes sent.
func SignRequest(req *http.Request, privateKey PrivateKey, body []byte, now time.Time) {
	timestamp := strconv.FormatInt(now.Unix(), 10)
	publicKey := privateKey.Public().(PublicKey)
	signature := ed25519.Sign(privateKey, signedPayload(req.Method, req.URL.RequestURI(), timestamp, body))

	authorization := make([]byte, 0, len(publicKey)+len(signature))
	authorization = append(authorization, publicKey...)
	authorization = append(authorization, signature...)

	req.Header.Set("Authorization", base64.StdEncoding.EncodeToString(authorization))
	req.Header.Set(TimestampHeader, timestamp)
}

// VerifyRequest checks the headers produced by SignRequest and returns the
// signer's public key.
func VerifyRequest(authorization string, timestamp string, method string, requestURI string, body []byte, now time.Time, skew time.Duration) (PublicKey, error) {
	if authorization == "" {
		return nil, ErrMissingAuthorization
	}

	decoded, err := base64.StdEncoding.DecodeString(authorization)
	if err != nil || len(decoded) != PublicKeySize+SignatureSize {
		return nil, ErrInvalidAuthorization
	}

	seconds, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return nil, ErrInvalidAuthorization
	}
	signedAt := time.Unix(seconds, 0)
	if signedAt.Before(now.Add(-skew)) || signedAt.After(now.Add(skew)) {
		return nil, ErrStaleRequest
	}

	publicKey := PublicKey(decoded[:PublicKeySize])
	signature := decoded[PublicKeySize:]
	if !ed25519.Verify(publicKey, signedPayload(method, requestURI, timestamp, body), signature) {
		return nil, ErrInvalidSignature
	}

	return publicKey, nil
}
