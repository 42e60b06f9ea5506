package session

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/auth-ui/internal/authclient"
	"github.com/jwalitptl/auth-ui/internal/authclient/authclienttest"
	"github.com/jwalitptl/auth-ui/internal/model"
)

func TestProvider_CurrentCaches(t *testing.T) {
	fake := authclienttest.New()
	fake.Session = &model.SessionData{
		User:    model.User{ID: "u1", Email: "a@b.co"},
		Session: model.Session{ID: "s1", Token: "t1"},
	}
	p := NewProvider(fake, DefaultConfig(), zerolog.Nop(), nil)

	for i := 0; i < 3; i++ {
		data, err := p.Current(context.Background(), "session_token=t1")
		require.NoError(t, err)
		require.NotNil(t, data)
		assert.Equal(t, "s1", data.Session.ID)
	}
	assert.Equal(t, 1, fake.CallCount("GetSession"))

	p.Invalidate("session_token=t1")
	_, err := p.Current(context.Background(), "session_token=t1")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.CallCount("GetSession"))
}

func TestProvider_AnonymousSkipsBackend(t *testing.T) {
	fake := authclienttest.New()
	p := NewProvider(fake, DefaultConfig(), zerolog.Nop(), nil)

	data, err := p.Current(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Zero(t, fake.CallCount("GetSession"))
}

func TestProvider_ErrorsAreNotCached(t *testing.T) {
	fake := authclienttest.New()
	fake.Errors["GetSession"] = &authclient.Error{Code: authclient.CodeUnavailable, Message: "down"}
	p := NewProvider(fake, DefaultConfig(), zerolog.Nop(), nil)

	_, err := p.Current(context.Background(), "session_token=t1")
	require.Error(t, err)

	delete(fake.Errors, "GetSession")
	_, err = p.Current(context.Background(), "session_token=t1")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.CallCount("GetSession"))
}

func TestProvider_ListForwardsCookies(t *testing.T) {
	var seen string
	client := &cookieRecorder{Fake: authclienttest.New(), seen: &seen}
	client.Sessions = []model.Session{{ID: "s1"}, {ID: "s2"}}
	p := NewProvider(client, DefaultConfig(), zerolog.Nop(), nil)

	sessions, err := p.List(context.Background(), "session_token=t1")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	assert.Equal(t, "session_token=t1", seen)

	_, _ = p.List(context.Background(), "session_token=t1")
	assert.Equal(t, 1, client.CallCount("ListSessions"))
}

type cookieRecorder struct {
	*authclienttest.Fake
	seen *string
}

func (c *cookieRecorder) ListSessions(ctx context.Context) ([]model.Session, error) {
	*c.seen = authclient.CookiesFrom(ctx)
	if *c.seen == "" {
		return nil, errors.New("missing cookies")
	}
	return c.Fake.ListSessions(ctx)
}
