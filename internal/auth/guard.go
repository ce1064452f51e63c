package auth

import (
	"errors"

	"github.com/libretto/libretto/internal/model"
)

// ErrNotOwner indicates a valid identity attempted to mutate a resource it
// does not own. Handlers map it to 403 with a resource-specific message.
var ErrNotOwner = errors.New("principal is not the resource owner")

// Authorize decides whether the principal may mutate a resource recorded as
// owned by ownerID. Allow iff the principal is the creator. Callers must
// confirm resource existence first: 404 always precedes 403, so a non-owner
// never learns more than that ordering permits.
func Authorize(p *model.Principal, ownerID int64) error {
	if p == nil || p.ID != ownerID {
		return ErrNotOwner
	}
	return nil
}
