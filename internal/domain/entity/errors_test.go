package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteError(t *testing.T) {
	cause := errors.New("503 Service Unavailable")
	err := fmt.Errorf("search: %w", NewRemoteError(StageSearch, cause))

	assert.ErrorIs(t, err, ErrRemote)
	assert.ErrorIs(t, err, cause)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, StageSearch, remote.Stage)
	assert.Contains(t, err.Error(), "503")
}

func TestConfigError(t *testing.T) {
	err := ConfigError("qdrant collection %q does not exist", "bhagavad-gita")
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), `"bhagavad-gita"`)
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, LanguageHindi, ParseLanguage("hindi"))
	assert.Equal(t, LanguageEnglish, ParseLanguage("english"))
	assert.Equal(t, LanguageEnglish, ParseLanguage("sanskrit"))
}

func TestUserProfile(t *testing.T) {
	u := &User{ID: "u1", Username: "Arjuna", Email: "a@b.com", PasswordHash: "secret-hash"}
	p := u.Profile()
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "Arjuna", p.Username)
}
