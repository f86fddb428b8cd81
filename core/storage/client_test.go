package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOSSClient(t *testing.T, cfg Config) *ossClient {
	t.Helper()
	c, err := NewClient(cfg)
	require.NoError(t, err)
	oss, ok := c.(*ossClient)
	require.True(t, ok)
	return oss
}

func TestNewClient_StripsScheme(t *testing.T) {
	for _, endpoint := range []string{
		"oss.example.com",
		"http://oss.example.com",
		"https://oss.example.com",
	} {
		c := newTestOSSClient(t, Config{Endpoint: endpoint, Bucket: "assets"})
		assert.Equal(t, "oss.example.com", c.mc.EndpointURL().Host, endpoint)
	}
}

func TestPublicURL_DefaultBase(t *testing.T) {
	c := newTestOSSClient(t, Config{Endpoint: "oss.example.com", Bucket: "assets", UseSSL: true})
	assert.Equal(t, "https://oss.example.com/assets/a/b.png", c.PublicURL("a/b.png"))
}

func TestPublicURL_CustomHost(t *testing.T) {
	c := newTestOSSClient(t, Config{
		Endpoint: "oss.example.com",
		Bucket:   "assets",
		Host:     "https://cdn.example.com/",
	})
	assert.Equal(t, "https://cdn.example.com/b.png", c.PublicURL("/b.png"))
}

func TestObjectPath_RootPrefix(t *testing.T) {
	c := newTestOSSClient(t, Config{
		Endpoint: "oss.example.com",
		Bucket:   "assets",
		RootPath: "/uploads/",
	})
	assert.Equal(t, "uploads/a/b.png", c.objectPath("a/b.png"))
	assert.Equal(t, "uploads/b.png", c.objectPath("/b.png"))

	noRoot := newTestOSSClient(t, Config{Endpoint: "oss.example.com", Bucket: "assets"})
	assert.Equal(t, "b.png", noRoot.objectPath("/b.png"))
}
