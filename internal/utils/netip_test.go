package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", "192.168.1.7", " ", "garbage"})

	assert.False(t, m.IsEmpty())
	assert.True(t, m.Allow("10.20.30.40"))
	assert.True(t, m.Allow("192.168.1.7"))
	assert.True(t, m.Allow("::ffff:192.168.1.7"))
	assert.False(t, m.Allow("192.168.1.8"))
	assert.False(t, m.Allow("not-an-ip"))

	assert.True(t, NewIPMatcher(nil).IsEmpty())
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "127.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	assert.Equal(t, "127.0.0.1", ClientIP(r, false))
	assert.Equal(t, "203.0.113.9", ClientIP(r, true))

	r.Header.Set("CF-Connecting-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", ClientIP(r, true))
}

func TestFirstForwardedFor(t *testing.T) {
	assert.Equal(t, "", FirstForwardedFor("  "))
	assert.Equal(t, "1.2.3.4", FirstForwardedFor(" 1.2.3.4 ,5.6.7.8"))
}
