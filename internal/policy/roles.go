package policy

import (
	"github.com/UTurtleDev/gcl/gate"
	"github.com/UTurtleDev/gcl/internal/models"
)

// ResourceCompany is the resource type of companies and their questionnaires.
const ResourceCompany = "company"

// Profile names.
const (
	ProfileAdmin         = "admin"
	ProfileCollaborateur = "collaborateur"
)

var (
	adminProfile         = gate.NewStaticProfile(ProfileAdmin, gate.PermissionSuperAdmin)
	collaborateurProfile = gate.NewStaticProfile(ProfileCollaborateur, gate.NewPermission(ResourceCompany, gate.WildcardAll))
)

// ProfileFor derives the role of a staff account from its flags. Inactive
// accounts and accounts without a back-office flag get no profile.
func ProfileFor(u models.User) gate.Profile {
	switch {
	case !u.IsActive:
		return nil
	case u.IsSuperuser:
		return adminProfile
	case u.IsCollaborateur || u.IsStaff:
		return collaborateurProfile
	default:
		return nil
	}
}
