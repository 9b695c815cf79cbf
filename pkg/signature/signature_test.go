package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(key, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	fmt.Fprintf(mac, "%s.%s", timestamp, body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerify_ValidSignature(t *testing.T) {
	key := "whsec_test"
	body := []byte(`{"event":"invitee.created","payload":{}}`)
	ts := "1706000000"

	header := fmt.Sprintf("t=%s,v1=%s", ts, sign(key, ts, body))

	v := NewVerifier(key)
	assert.True(t, v.Verify(body, header))
}

func TestVerify_TamperedBody(t *testing.T) {
	key := "whsec_test"
	body := []byte(`{"event":"invitee.created"}`)
	ts := "1706000000"
	header := fmt.Sprintf("t=%s,v1=%s", ts, sign(key, ts, body))

	v := NewVerifier(key)

	// Flipping any single byte must invalidate the signature
	for i := range body {
		tampered := append([]byte(nil), body...)
		tampered[i] ^= 0x01
		assert.False(t, v.Verify(tampered, header), "byte %d", i)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	body := []byte(`{}`)
	ts := "1706000000"
	header := fmt.Sprintf("t=%s,v1=%s", ts, sign("key-a", ts, body))

	assert.False(t, NewVerifier("key-b").Verify(body, header))
}

func TestVerify_MalformedHeader(t *testing.T) {
	key := "whsec_test"
	body := []byte(`{}`)
	v := NewVerifier(key)

	cases := map[string]string{
		"empty":            "",
		"missing v1":       "t=1706000000",
		"missing t":        "v1=" + sign(key, "1706000000", body),
		"garbage":          "not-a-signature",
		"non-hex v1":       "t=1706000000,v1=zzzz",
		"swapped prefixes": "ts=1706000000,sig=abcd",
	}

	for name, header := range cases {
		assert.False(t, v.Verify(body, header), name)
	}
}

func TestVerify_UnsetKey(t *testing.T) {
	body := []byte(`{}`)
	header := fmt.Sprintf("t=1706000000,v1=%s", sign("", "1706000000", body))

	assert.False(t, NewVerifier("").Verify(body, header))
}

func TestVerify_HeaderComponentOrder(t *testing.T) {
	key := "whsec_test"
	body := []byte(`{"a":1}`)
	ts := "1706000000"
	sig := sign(key, ts, body)

	v := NewVerifier(key)
	assert.True(t, v.Verify(body, fmt.Sprintf("v1=%s,t=%s", sig, ts)))
	assert.True(t, v.Verify(body, fmt.Sprintf("t=%s, v1=%s", ts, sig)))
}
