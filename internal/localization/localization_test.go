package localization

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/auth-ui/pkg/errors"
)

func TestGet(t *testing.T) {
	loc := Default()
	assert.Equal(t, "Email", loc.Get(KeyEmail))
	assert.Equal(t, "missingKey", loc.Get("missingKey"), "unknown keys fall back to the key")
	assert.Equal(t, "Email updated successfully", loc.Join(KeyEmail, KeyUpdatedSuccessfully))
	assert.Equal(t, "Company", loc.Label("Company"))
}

func TestMerge_DoesNotMutate(t *testing.T) {
	base := Default()
	merged := base.Merge(map[string]string{KeyEmail: "E-Mail", KeyPassword: ""})

	assert.Equal(t, "E-Mail", merged.Get(KeyEmail))
	assert.Equal(t, base.Get(KeyPassword), merged.Get(KeyPassword), "empty overrides are ignored")
	assert.Equal(t, "Email", base.Get(KeyEmail))
}

type codedError struct{ code, msg string }

func (e codedError) Error() string        { return e.msg }
func (e codedError) ErrorCode() string    { return e.code }
func (e codedError) ErrorMessage() string { return e.msg }

func TestErrorMessage(t *testing.T) {
	loc := Default()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"known code", codedError{"USER_ALREADY_EXISTS", "user exists"}, "User already exists"},
		{"unknown code uses message", codedError{"SOMETHING_NEW", "Backend said no"}, "Backend said no"},
		{"wrapped app error", apperrors.DelegatedFailure("USER_ALREADY_EXISTS", "dup", nil), "User already exists"},
		{"plain error", apperrors.New("boom"), "Request failed"},
		{"nil", nil, "Request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loc.ErrorMessage(tt.err))
		})
	}
}

func TestLoad(t *testing.T) {
	loc, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), loc)

	path := filepath.Join(t.TempDir(), "de.yaml")
	require.NoError(t, os.WriteFile(path, []byte("signIn: Anmelden\nUSER_ALREADY_EXISTS: Benutzer existiert bereits\n"), 0o600))

	loc, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Anmelden", loc.Get(KeySignIn))
	assert.Equal(t, "Benutzer existiert bereits", loc.ErrorMessage(codedError{"USER_ALREADY_EXISTS", ""}))
	assert.Equal(t, "Email", loc.Get(KeyEmail))

	_, err = Parse(Default(), []byte("- not a map"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
