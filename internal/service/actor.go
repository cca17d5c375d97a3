// Package service implements the business rules on top of the repositories.
package service

import "github.com/1willcobb/myfilmfriends-server/internal/models"

// Actor is the authenticated caller a mutation acts as.
type Actor struct {
	ID    uint
	Admin bool
}

// owns reports whether the actor owns a resource held by ownerID.
func (a Actor) owns(ownerID uint) bool {
	return a.ID != 0 && a.ID == ownerID
}

// requireOwner allows only the owner.
func (a Actor) requireOwner(ownerID uint, resource string) error {
	if a.owns(ownerID) {
		return nil
	}
	return models.NewForbiddenError("You can only modify your own " + resource)
}

// requireOwnerOrAdmin allows the owner or an admin.
func (a Actor) requireOwnerOrAdmin(ownerID uint, resource string) error {
	if a.Admin || a.owns(ownerID) {
		return nil
	}
	return models.NewForbiddenError("You can only delete your own " + resource)
}
