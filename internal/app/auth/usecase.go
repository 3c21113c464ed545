package auth

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	SignatureHeader = "X-Signature-Ed25519"
	TimestampHeader = "X-Signature-Timestamp"
)

var (
	ErrInvalidRequest   = errors.New("invalid verify request")
	ErrInvalidSignature = errors.New("invalid request signature")
	ErrStaleTimestamp   = errors.New("request timestamp outside allowed window")
)

type VerifyRequest struct {
	Signature string
	Timestamp string
	Body      []byte
}

// VerifyUseCase checks the Ed25519 signature the platform attaches to
// every interaction webhook.
type VerifyUseCase struct {
	PublicKey ed25519.PublicKey
	// MaxSkew bounds how far the timestamp may drift from Now. Zero disables the check.
	MaxSkew time.Duration
	Now     func() time.Time
}

func NewVerifyUseCase(publicKeyHex string) (VerifyUseCase, error) {
	key, err := ParsePublicKey(publicKeyHex)
	if err != nil {
		return VerifyUseCase{}, err
	}
	return VerifyUseCase{PublicKey: key}, nil
}

func ParsePublicKey(publicKeyHex string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(publicKeyHex))
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// Execute verifies a request whose headers and body were already read.
func (u VerifyUseCase) Execute(ctx context.Context, req VerifyRequest) error {
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, "/", bytes.NewReader(req.Body))
	if err != nil {
		return ErrInvalidRequest
	}
	r.Header.Set(SignatureHeader, req.Signature)
	r.Header.Set(TimestampHeader, req.Timestamp)
	return u.VerifyHTTP(r)
}

// VerifyHTTP checks the signature with discordgo and then bounds the
// timestamp by MaxSkew. r.Body stays readable afterwards.
func (u VerifyUseCase) VerifyHTTP(r *http.Request) error {
	ts := strings.TrimSpace(r.Header.Get(TimestampHeader))
	if strings.TrimSpace(r.Header.Get(SignatureHeader)) == "" || ts == "" || len(u.PublicKey) != ed25519.PublicKeySize {
		return ErrInvalidRequest
	}
	if r.Body == nil {
		r.Body = http.NoBody
	}
	if !discordgo.VerifyInteraction(r, u.PublicKey) {
		return ErrInvalidSignature
	}
	return u.checkSkew(ts)
}

func (u VerifyUseCase) checkSkew(ts string) error {
	if u.MaxSkew <= 0 {
		return nil
	}
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrStaleTimestamp
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	drift := nowFn().Sub(time.Unix(sec, 0))
	if drift < 0 {
		drift = -drift
	}
	if drift > u.MaxSkew {
		return ErrStaleTimestamp
	}
	return nil
}
