package service

import (
	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

type SeedService interface {
	SeedAccessControl() error
	EnsureAdmin(email, password, fullName string) (*model.User, error)
}

type seedService struct {
	privileges repository.PrivilegeRepository
	roles      repository.RoleRepository
	users      repository.UserRepository
}

func NewSeedService(privileges repository.PrivilegeRepository, roles repository.RoleRepository, users repository.UserRepository) SeedService {
	return &seedService{privileges: privileges, roles: roles, users: users}
}

// SeedAccessControl creates the default privileges and roles and links each role to its privileges.
// Running it again brings an existing database back to the defaults.
func (s *seedService) SeedAccessControl() error {
	if err := s.privileges.SeedDefaults(); err != nil {
		return err
	}
	if err := s.roles.SeedDefaults(); err != nil {
		return err
	}

	all, err := s.privileges.FindAll()
	if err != nil {
		return err
	}
	for code, privCodes := range model.RolePrivileges {
		role, err := s.roles.FindByCode(code)
		if err != nil {
			return errors.Wrapf(err, "seed role %s", code)
		}
		privileges := all
		if privCodes != nil {
			if privileges, err = s.privileges.FindByCodes(privCodes); err != nil {
				return err
			}
		}
		if err := s.roles.ReplacePrivileges(role, privileges); err != nil {
			return err
		}
	}
	log.WithField("roles", len(model.RolePrivileges)).Info("access control seeded")
	return nil
}

// EnsureAdmin creates a master admin with email unless a user with that email already exists.
func (s *seedService) EnsureAdmin(email, password, fullName string) (*model.User, error) {
	if existing, err := s.users.FindByEmail(email); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	role, err := s.roles.FindByCode(model.RoleMasterAdmin)
	if err != nil {
		return nil, errors.Wrap(err, "master admin role missing, seed access control first")
	}

	roleID := role.ID
	user := &model.User{
		Email:      email,
		FullName:   fullName,
		RoleID:     &roleID,
		IsActive:   true,
		Privileges: role.Privileges,
	}
	user.CreatedBy = "system"
	user.UpdatedBy = "system"
	if err := user.SetPassword(password); err != nil {
		return nil, errors.Wrap(err, "hash admin password")
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	log.WithField("user", email).Info("master admin created")
	return user, nil
}
