package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

func TestSessionLifecycle(t *testing.T) {
	s := Establish("token-1", models.UserModel{ID: "user_1", Name: "Sam", Email: "sam@example.com", Subscribed: true})

	require.True(t, s.Active())
	id, err := s.OwnerID()
	require.NoError(t, err)
	assert.Equal(t, "user_1", id)
	assert.Equal(t, "token-1", s.Token)

	s.Clear()
	assert.False(t, s.Active())
	_, err = s.OwnerID()
	assert.True(t, domain.IsUnauthenticated(err))
}

func TestNilSession(t *testing.T) {
	var s *Session
	assert.False(t, s.Active())
	assert.NotPanics(t, s.Clear)

	_, err := s.OwnerID()
	assert.True(t, domain.IsUnauthenticated(err))
}
