package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/tasklane/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfile(t *testing.T) {
	tests := []struct {
		name    string
		inName  string
		inEmail string
		wantErr error
	}{
		{name: "valid", inName: "Ann", inEmail: "ann@x.com"},
		{name: "missing name", inName: "", inEmail: "ann@x.com", wantErr: domain.ErrNameAndEmailRequired},
		{name: "blank email", inName: "Ann", inEmail: "   ", wantErr: domain.ErrNameAndEmailRequired},
		{name: "name too long", inName: strings.Repeat("a", 256), inEmail: "ann@x.com", wantErr: domain.ErrNameTooLong},
		{name: "email too long", inName: "Ann", inEmail: strings.Repeat("e", 256), wantErr: domain.ErrEmailTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, email, err := domain.ParseProfile(tt.inName, tt.inEmail)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, sharedDomain.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.inName, name.String())
			assert.Equal(t, tt.inEmail, email.String())
		})
	}
}

func TestNewEmail_PreservesCase(t *testing.T) {
	email, err := domain.NewEmail("  Ann@X.com ")
	require.NoError(t, err)

	assert.Equal(t, "Ann@X.com", email.String())

	lower, _ := domain.NewEmail("ann@x.com")
	assert.False(t, email.Equals(lower))
}

func TestUser_ChangeProfile(t *testing.T) {
	created := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	user := domain.RehydrateUser(4, "Ann", "ann@x.com", created, created)

	newName, newEmail, _ := domain.ParseProfile("Annie", "annie@x.com")
	user.ChangeProfile(newName, newEmail)

	assert.Equal(t, int64(4), user.ID())
	assert.Equal(t, "Annie", user.Name().String())
	assert.Equal(t, "annie@x.com", user.Email().String())
	assert.Equal(t, created, user.CreatedAt())
	assert.True(t, user.UpdatedAt().After(created))
}

func TestUserEvents(t *testing.T) {
	name, email, _ := domain.ParseProfile("Ann", "ann@x.com")
	user := domain.NewUser(name, email)
	user.AssignID(1)

	created := domain.NewUserCreated(user)
	assert.Equal(t, int64(1), created.AggregateID())
	assert.Equal(t, domain.RoutingKeyUserCreated, created.RoutingKey())
	assert.Equal(t, "ann@x.com", created.Email)

	deleted := domain.NewUserDeleted(user)
	assert.Equal(t, domain.AggregateType, deleted.AggregateType())
	assert.Equal(t, domain.RoutingKeyUserDeleted, deleted.RoutingKey())
}
