package signature

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/integratewise/webhook-gateway/provider"
)

/* Per-provider webhook signature verification
 * Verification is a pure function of the raw request body: signature
 * schemes are sensitive to re-serialization, so callers must pass the
 * untouched body bytes, never a re-marshaled parsed object
 */

const (
	// SHA256Prefix is stripped from hex HMAC-SHA256 signatures when present
	SHA256Prefix = "sha256="

	// SHA1Prefix is stripped from hex HMAC-SHA1 signatures when present
	SHA1Prefix = "sha1="

	// SlackVersion is the Slack signing version prefixed to the signed message
	SlackVersion = "v0"
)

// Header carries the signature material taken from the request headers
type Header struct {
	Signature string
	Timestamp string
}

/* Verify reports whether the signature proves the body was sent by the
 * partner holding the provider's key. The key is the shared HMAC secret,
 * or the hex-encoded public key for the Ed25519 scheme.
 *
 * An empty key means verification is not configured for that provider and
 * always passes. This fail-open behavior keeps unconfigured integrations
 * working and is surfaced as a startup warning; see config.Warnings.
 *
 * Verify never returns an error: malformed hex, malformed keys and any
 * other internal failure degrade to false.
 */
func Verify(p provider.Provider, body []byte, hdr Header, key string) bool {
	scheme := p.Scheme()

	if scheme == provider.SchemeNone || key == "" {
		return true
	}
	if hdr.Signature == "" {
		return false
	}

	switch scheme {
	case provider.SchemeHMACSHA256:
		return verifyHexHMAC(sha256.New, key, body, strings.TrimPrefix(hdr.Signature, SHA256Prefix))
	case provider.SchemeHMACSHA1:
		return verifyHexHMAC(sha1.New, key, body, strings.TrimPrefix(hdr.Signature, SHA1Prefix))
	case provider.SchemeSlack:
		return verifySlack(key, hdr.Timestamp, body, hdr.Signature)
	case provider.SchemeEd25519:
		return verifyEd25519(key, hdr.Timestamp, body, hdr.Signature)
	}

	return false
}

// SignHMAC computes the hex HMAC digest of body, as sent by the hex HMAC
// providers. Used by tests and the signing CLI to produce valid requests.
func SignHMAC(h func() hash.Hash, secret string, body []byte) string {
	mac := hmac.New(h, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignSlack computes a Slack-style signature over "v0:{timestamp}:{body}",
// returned with the "v0=" prefix as Slack sends it
func SignSlack(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(SlackVersion + ":" + timestamp + ":"))
	mac.Write(body)
	return SlackVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}

// SignEd25519 signs "timestamp + body" with the given private key,
// returning the hex signature as Discord sends it
func SignEd25519(priv ed25519.PrivateKey, timestamp string, body []byte) string {
	return hex.EncodeToString(ed25519.Sign(priv, append([]byte(timestamp), body...)))
}

func verifyHexHMAC(h func() hash.Hash, secret string, body []byte, received string) bool {
	got, err := hex.DecodeString(received)
	if err != nil {
		return false
	}

	mac := hmac.New(h, []byte(secret))
	mac.Write(body)

	// Constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare(mac.Sum(nil), got) == 1
}

func verifySlack(secret, timestamp string, body []byte, received string) bool {
	expected := SignSlack(secret, timestamp, body)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(received)) == 1
}

func verifyEd25519(publicKey, timestamp string, body []byte, received string) bool {
	pub, err := hex.DecodeString(publicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}

	sig, err := hex.DecodeString(received)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(pub), append([]byte(timestamp), body...), sig)
}
