package signature

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/integratewise/webhook-gateway/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyHMACSHA256(t *testing.T) {
	secret := "test-webhook-secret"
	body := []byte(`{"action":"opened","delivery":"abc123"}`)

	t.Run("success - valid signature with sha256= prefix", func(t *testing.T) {
		sig := SHA256Prefix + SignHMAC(sha256.New, secret, body)
		valid := Verify(provider.GitHub, body, Header{Signature: sig}, secret)
		assert.True(t, valid)
	})

	t.Run("success - valid signature without prefix", func(t *testing.T) {
		sig := SignHMAC(sha256.New, secret, body)
		valid := Verify(provider.Razorpay, body, Header{Signature: sig}, secret)
		assert.True(t, valid)
	})

	t.Run("invalid - flipped body byte", func(t *testing.T) {
		sig := SHA256Prefix + SignHMAC(sha256.New, secret, body)
		tampered := append([]byte{}, body...)
		tampered[0] ^= 0x01
		valid := Verify(provider.GitHub, tampered, Header{Signature: sig}, secret)
		assert.False(t, valid)
	})

	t.Run("invalid - flipped signature byte", func(t *testing.T) {
		sig := SignHMAC(sha256.New, secret, body)
		tampered := flipHexDigit(sig)
		valid := Verify(provider.GitHub, body, Header{Signature: SHA256Prefix + tampered}, secret)
		assert.False(t, valid)
	})

	t.Run("invalid - wrong secret", func(t *testing.T) {
		sig := SignHMAC(sha256.New, "other-secret", body)
		valid := Verify(provider.GitHub, body, Header{Signature: sig}, secret)
		assert.False(t, valid)
	})

	t.Run("invalid - malformed hex never propagates", func(t *testing.T) {
		valid := Verify(provider.GitHub, body, Header{Signature: "sha256=not-hex-at-all"}, secret)
		assert.False(t, valid)
	})

	t.Run("invalid - missing signature with secret configured", func(t *testing.T) {
		valid := Verify(provider.GitHub, body, Header{}, secret)
		assert.False(t, valid)
	})
}

func TestVerifyHMACSHA1(t *testing.T) {
	secret := "vercel-secret"
	body := []byte(`{"type":"deployment.created","id":"dpl_1"}`)

	t.Run("success - valid signature with sha1= prefix", func(t *testing.T) {
		sig := SHA1Prefix + SignHMAC(sha1.New, secret, body)
		valid := Verify(provider.Vercel, body, Header{Signature: sig}, secret)
		assert.True(t, valid)
	})

	t.Run("invalid - tampered body", func(t *testing.T) {
		sig := SHA1Prefix + SignHMAC(sha1.New, secret, body)
		valid := Verify(provider.Vercel, []byte(`{"type":"deployment.created","id":"dpl_2"}`), Header{Signature: sig}, secret)
		assert.False(t, valid)
	})
}

func TestVerifySlack(t *testing.T) {
	secret := "slack-signing-secret"
	timestamp := "1531420618"
	body := []byte(`{"type":"event_callback","event":{"type":"message"}}`)

	t.Run("success - valid signature over v0:timestamp:body", func(t *testing.T) {
		sig := SignSlack(secret, timestamp, body)
		valid := Verify(provider.Slack, body, Header{Signature: sig, Timestamp: timestamp}, secret)
		assert.True(t, valid)
	})

	t.Run("invalid - different timestamp changes the message", func(t *testing.T) {
		sig := SignSlack(secret, timestamp, body)
		valid := Verify(provider.Slack, body, Header{Signature: sig, Timestamp: "1531420619"}, secret)
		assert.False(t, valid)
	})

	t.Run("invalid - tampered body", func(t *testing.T) {
		sig := SignSlack(secret, timestamp, body)
		tampered := append([]byte{}, body...)
		tampered[len(tampered)-1] ^= 0x01
		valid := Verify(provider.Slack, tampered, Header{Signature: sig, Timestamp: timestamp}, secret)
		assert.False(t, valid)
	})
}

func TestVerifyEd25519(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	publicKey := hex.EncodeToString(pub)
	timestamp := "1700000000"
	body := []byte(`{"type":2,"t":"INTERACTION_CREATE"}`)

	t.Run("success - valid signature over timestamp + body", func(t *testing.T) {
		sig := SignEd25519(priv, timestamp, body)
		valid := Verify(provider.Discord, body, Header{Signature: sig, Timestamp: timestamp}, publicKey)
		assert.True(t, valid)
	})

	t.Run("invalid - tampered body", func(t *testing.T) {
		sig := SignEd25519(priv, timestamp, body)
		valid := Verify(provider.Discord, []byte(`{"type":3}`), Header{Signature: sig, Timestamp: timestamp}, publicKey)
		assert.False(t, valid)
	})

	t.Run("invalid - wrong timestamp", func(t *testing.T) {
		sig := SignEd25519(priv, timestamp, body)
		valid := Verify(provider.Discord, body, Header{Signature: sig, Timestamp: "1700000001"}, publicKey)
		assert.False(t, valid)
	})

	t.Run("invalid - malformed public key degrades to false", func(t *testing.T) {
		sig := SignEd25519(priv, timestamp, body)
		valid := Verify(provider.Discord, body, Header{Signature: sig, Timestamp: timestamp}, "zz-not-hex")
		assert.False(t, valid)
	})

	t.Run("invalid - truncated public key", func(t *testing.T) {
		sig := SignEd25519(priv, timestamp, body)
		valid := Verify(provider.Discord, body, Header{Signature: sig, Timestamp: timestamp}, publicKey[:16])
		assert.False(t, valid)
	})

	t.Run("invalid - malformed signature hex", func(t *testing.T) {
		valid := Verify(provider.Discord, body, Header{Signature: "nothex!", Timestamp: timestamp}, publicKey)
		assert.False(t, valid)
	})
}

func TestVerifyFailOpen(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)

	t.Run("no key configured - always valid, even unsigned", func(t *testing.T) {
		for _, p := range provider.All() {
			valid := Verify(p, body, Header{}, "")
			assert.True(t, valid, "provider %s should fail open without a key", p)
		}
	})

	t.Run("scheme none - always valid regardless of headers", func(t *testing.T) {
		valid := Verify(provider.Todoist, body, Header{Signature: "whatever"}, "ignored")
		assert.True(t, valid)

		valid = Verify(provider.Notion, body, Header{}, "")
		assert.True(t, valid)
	})
}

// flipHexDigit changes one hex digit so the string stays valid hex but
// decodes to different bytes
func flipHexDigit(s string) string {
	b := []byte(s)
	if b[0] == '0' {
		b[0] = '1'
	} else {
		b[0] = '0'
	}
	return string(b)
}
