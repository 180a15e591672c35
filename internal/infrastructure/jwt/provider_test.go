package jwtinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestSignVerify(t *testing.T) {
	key := newKey(t)
	p := NewProviderFromKeys(key, &key.PublicKey, time.Hour)

	tok, err := p.Sign("dialler-1", "dispatcher")
	require.NoError(t, err)

	claims, err := p.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "dialler-1", claims.Subject)
	assert.Equal(t, "dispatcher", claims.Role)
}

func TestVerify_Expired(t *testing.T) {
	key := newKey(t)
	p := NewProviderFromKeys(key, &key.PublicKey, -time.Minute)

	tok, err := p.Sign("dialler-1", "dispatcher")
	require.NoError(t, err)
	_, err = p.Verify(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_WrongKey(t *testing.T) {
	signer := newKey(t)
	tok, err := NewProviderFromKeys(signer, &signer.PublicKey, time.Hour).Sign("x", "operator")
	require.NoError(t, err)

	other := newKey(t)
	_, err = NewProviderFromKeys(nil, &other.PublicKey, time.Hour).Verify(tok)
	assert.Error(t, err)
}

func TestSign_VerifyOnly(t *testing.T) {
	key := newKey(t)
	_, err := NewProviderFromKeys(nil, &key.PublicKey, time.Hour).Sign("x", "operator")
	assert.ErrorIs(t, err, ErrSigningDisabled)
}

func TestNewProvider_FromPEMFiles(t *testing.T) {
	key := newKey(t)
	dir := t.TempDir()
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPath := filepath.Join(dir, "public_key.pem")
	require.NoError(t, os.WriteFile(pubPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}), 0o600))
	privPath := filepath.Join(dir, "private_key.pem")
	require.NoError(t, os.WriteFile(privPath, pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}), 0o600))

	p, err := NewProvider(privPath, pubPath, time.Hour)
	require.NoError(t, err)
	tok, err := p.Sign("op-1", "operator")
	require.NoError(t, err)
	_, err = p.Verify(tok)
	assert.NoError(t, err)

	_, err = NewProvider("", filepath.Join(dir, "missing.pem"), time.Hour)
	assert.ErrorContains(t, err, "read public key")
}
