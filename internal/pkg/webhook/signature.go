package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance is the maximum accepted skew between the timestamp carried
// in the signature header and the local clock. Past and future skew both
// count: a replayed delivery with a stale timestamp fails even when the HMAC
// itself is correct.
const DefaultTolerance = 5 * time.Minute

const signingVersion = "v1"

var (
	ErrMissingHeader    = errors.New("webhook: missing signature header")
	ErrInvalidHeader    = errors.New("webhook: unparsable signature header")
	ErrTimestampExpired = errors.New("webhook: timestamp outside tolerance")
	ErrNoValidSignature = errors.New("webhook: no matching v1 signature")
)

// signedHeader is the parsed form of a Stripe-Signature header value,
// e.g. "t=1712000000,v1=5257a86...".
type signedHeader struct {
	timestamp  time.Time
	signatures [][]byte
}

// VerifySignature checks that payload was signed with secret using the Stripe
// v1 scheme (HMAC-SHA256 over "<timestamp>.<payload>") and that the timestamp
// is within DefaultTolerance. payload must be the exact bytes received on the
// wire; any re-encoding breaks the match. A nil return means verified.
func VerifySignature(payload []byte, header, secret string) error {
	return VerifySignatureWithTolerance(payload, header, secret, DefaultTolerance)
}

// VerifySignatureWithTolerance is VerifySignature with an explicit skew bound.
func VerifySignatureWithTolerance(payload []byte, header, secret string, tolerance time.Duration) error {
	sh, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	if skew := time.Since(sh.timestamp); skew > tolerance || skew < -tolerance {
		return ErrTimestampExpired
	}

	expected := computeSignature(sh.timestamp, payload, secret)
	for _, sig := range sh.signatures {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return ErrNoValidSignature
}

// ComputeSignature returns the hex encoded v1 signature for payload at ts.
// Exported for tests and local delivery tooling.
func ComputeSignature(ts time.Time, payload []byte, secret string) string {
	return hex.EncodeToString(computeSignature(ts, payload, secret))
}

// SignatureHeader builds a complete Stripe-Signature header value for payload.
func SignatureHeader(ts time.Time, payload []byte, secret string) string {
	return fmt.Sprintf("t=%d,%s=%s", ts.Unix(), signingVersion, ComputeSignature(ts, payload, secret))
}

func computeSignature(ts time.Time, payload []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts.Unix(), 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

func parseSignatureHeader(header string) (*signedHeader, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, ErrMissingHeader
	}

	sh := &signedHeader{}
	for _, pair := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, ErrInvalidHeader
		}

		switch parts[0] {
		case "t":
			ts, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return nil, ErrInvalidHeader
			}
			sh.timestamp = time.Unix(ts, 0)
		case signingVersion:
			sig, err := hex.DecodeString(parts[1])
			if err != nil {
				// Stripe sends multiple v1 candidates while a secret is
				// being rolled; an unparsable one does not fail the rest.
				continue
			}
			sh.signatures = append(sh.signatures, sig)
		default:
			// v0 and unknown future schemes are ignored.
		}
	}

	if sh.timestamp.IsZero() {
		return nil, ErrInvalidHeader
	}
	if len(sh.signatures) == 0 {
		return nil, ErrNoValidSignature
	}
	return sh, nil
}
