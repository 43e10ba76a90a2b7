package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	redis.Cmdable
	m       sync.Mutex
	strings map[string]string
	hashes  map[string]map[string]string
	hsetErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		strings: make(map[string]string),
		hashes:  make(map[string]map[string]string),
	}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	f.m.Lock()
	defer f.m.Unlock()
	if _, ok := f.strings[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.strings[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.m.Lock()
	defer f.m.Unlock()
	value, ok := f.strings[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) HSet(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.m.Lock()
	defer f.m.Unlock()
	if f.hsetErr != nil {
		return redis.NewIntResult(0, f.hsetErr)
	}
	hash := f.hashes[key]
	if hash == nil {
		hash = make(map[string]string)
		f.hashes[key] = hash
	}
	for i := 0; i+1 < len(values); i += 2 {
		hash[fmt.Sprint(values[i])] = fmt.Sprint(values[i+1])
	}
	return redis.NewIntResult(int64(len(values)/2), nil)
}

func (f *fakeRedis) HGet(_ context.Context, key string, field string) *redis.StringCmd {
	f.m.Lock()
	defer f.m.Unlock()
	hash, ok := f.hashes[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	value, ok := hash[field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.m.Lock()
	defer f.m.Unlock()
	deleted := int64(0)
	for _, key := range keys {
		if _, ok := f.strings[key]; ok {
			delete(f.strings, key)
			deleted++
		}
		if _, ok := f.hashes[key]; ok {
			delete(f.hashes, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

func TestSignUpAndSignIn(t *testing.T) {
	provider := NewProvider(newFakeRedis())

	identity, err := provider.SignUp(context.Background(), "user@example.com", "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", identity.Email)
	assert.NotEmpty(t, identity.UID)

	signedIn, err := provider.SignIn(context.Background(), "user@example.com", "Abcdef1!")
	require.NoError(t, err)
	//同一帳號每次登入拿到相同的UID
	assert.Equal(t, identity.UID, signedIn.UID)
}

func TestSignInWrongPassword(t *testing.T) {
	provider := NewProvider(newFakeRedis())

	_, err := provider.SignUp(context.Background(), "user@example.com", "Abcdef1!")
	require.NoError(t, err)

	_, err = provider.SignIn(context.Background(), "user@example.com", "Wrong999!")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestSignInUnknownEmail(t *testing.T) {
	provider := NewProvider(newFakeRedis())

	_, err := provider.SignIn(context.Background(), "nobody@example.com", "Abcdef1!")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	provider := NewProvider(newFakeRedis())

	_, err := provider.SignUp(context.Background(), "user@example.com", "Abcdef1!")
	require.NoError(t, err)

	_, err = provider.SignUp(context.Background(), "user@example.com", "Another99!")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUpReleasesEmailOnCredentialWriteFailure(t *testing.T) {
	rdb := newFakeRedis()
	rdb.hsetErr = errors.New("connection reset")
	provider := NewProvider(rdb)

	_, err := provider.SignUp(context.Background(), "user@example.com", "Abcdef1!")
	require.Error(t, err)

	//信箱佔用已釋放，恢復後同一信箱可重新註冊
	rdb.hsetErr = nil
	identity, err := provider.SignUp(context.Background(), "user@example.com", "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", identity.Email)

	signedIn, err := provider.SignIn(context.Background(), "user@example.com", "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, identity.UID, signedIn.UID)
}
