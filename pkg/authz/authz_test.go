package authz

import (
	"testing"

	"Nutrition-Tracker/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequireOwner(t *testing.T) {
	owner := uuid.New()

	assert.NoError(t, RequireOwner(owner, owner.String(), domain.ErrMealNotOwned))
	assert.ErrorIs(t, RequireOwner(owner, uuid.NewString(), domain.ErrMealNotOwned), domain.ErrForbidden)
	assert.ErrorIs(t, RequireOwner(owner, "not-a-uuid", domain.ErrMealNotOwned), domain.ErrMealNotOwned)
	assert.False(t, IsOwner(uuid.Nil, uuid.Nil.String()))
}
