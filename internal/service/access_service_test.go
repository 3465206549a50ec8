package service

import (
	"testing"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"
	"go-fleet-ws/internal/testutil"
	"go-fleet-ws/pkg/jwt"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type accessFixture struct {
	users repository.UserRepository
	roles repository.RoleRepository
	seed  SeedService
	auth  AuthService
	user  UserService
}

func newAccessFixture(t *testing.T) (*accessFixture, *gorm.DB) {
	t.Helper()
	jwt.SetSecret("test-secret")
	db := testutil.NewTestDB(t)
	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	f := &accessFixture{
		users: users,
		roles: roles,
		seed:  NewSeedService(repository.NewPrivilegeRepo(db), roles, users),
		auth:  NewAuthService(users),
		user:  NewUserService(users, roles),
	}
	require.NoError(t, f.seed.SeedAccessControl())
	return f, db
}

func TestSeedService_SeedAccessControl(t *testing.T) {
	f, _ := newAccessFixture(t)
	require.NoError(t, f.seed.SeedAccessControl())

	roles, err := f.roles.FindAll()
	require.NoError(t, err)
	require.Len(t, roles, len(model.DefaultRoles))

	master, err := f.roles.FindByCode(model.RoleMasterAdmin)
	require.NoError(t, err)
	require.Len(t, master.Privileges, len(model.DefaultPrivileges))

	requester, err := f.roles.FindByCode(model.RoleRequester)
	require.NoError(t, err)
	require.Len(t, requester.Privileges, len(model.RolePrivileges[model.RoleRequester]))

	admin, err := f.seed.EnsureAdmin("admin@fleet.local", "secret123", "Fleet Admin")
	require.NoError(t, err)
	again, err := f.seed.EnsureAdmin("admin@fleet.local", "other-pass", "Someone")
	require.NoError(t, err)
	require.Equal(t, admin.ID, again.ID)
	require.True(t, again.HasPrivilege(model.PrivUserCreate))
}

func TestAuthService_LoginAndSingleSession(t *testing.T) {
	f, _ := newAccessFixture(t)
	_, err := f.seed.EnsureAdmin("admin@fleet.local", "secret123", "Fleet Admin")
	require.NoError(t, err)

	_, err = f.auth.Login("admin@fleet.local", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login("nobody@fleet.local", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	first, err := f.auth.Login("admin@fleet.local", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, first.Token)
	require.Equal(t, model.RoleMasterAdmin, first.Role.Code)
	require.Contains(t, first.Privileges, model.PrivTransferApprove)

	valid, err := f.auth.ValidateToken(first.Token)
	require.NoError(t, err)
	require.Equal(t, "admin@fleet.local", valid.User.Email)

	second, err := f.auth.Login("admin@fleet.local", "secret123")
	require.NoError(t, err)
	_, err = f.auth.ValidateToken(first.Token)
	require.ErrorIs(t, err, ErrSessionReplaced)
	_, err = f.auth.ValidateToken(second.Token)
	require.NoError(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f, _ := newAccessFixture(t)
	_, err := f.seed.EnsureAdmin("admin@fleet.local", "secret123", "Fleet Admin")
	require.NoError(t, err)
	session, err := f.auth.Login("admin@fleet.local", "secret123")
	require.NoError(t, err)

	require.ErrorIs(t, f.auth.ChangePassword("admin@fleet.local", "nope", "newsecret"), ErrWrongPassword)
	requireValidation(t, f.auth.ChangePassword("admin@fleet.local", "secret123", "123"), CodeInvalidValue, "new_password")
	require.NoError(t, f.auth.ChangePassword("admin@fleet.local", "secret123", "newsecret"))

	_, err = f.auth.ValidateToken(session.Token)
	require.ErrorIs(t, err, ErrSessionReplaced)
	_, err = f.auth.Login("admin@fleet.local", "newsecret")
	require.NoError(t, err)
}

func TestUserService_CreateUser(t *testing.T) {
	f, db := newAccessFixture(t)
	site := testutil.CreateSite(t, db, "S35")
	role, err := f.roles.FindByCode(model.RoleSiteManager)
	require.NoError(t, err)

	user, err := f.user.CreateUser(&CreateUserRequest{
		Email:    "Manager@Fleet.local",
		Password: "secret123",
		FullName: "Site Manager 35",
		RoleID:   role.ID,
		SiteID:   &site.ID,
	}, "U1")
	require.NoError(t, err)
	require.Equal(t, "manager@fleet.local", user.Email)
	require.True(t, user.HasPrivilege(model.PrivTransferDispatch))
	require.False(t, user.HasPrivilege(model.PrivTransferApprove))
	require.Equal(t, site.ID, *user.SiteID)

	_, err = f.user.CreateUser(&CreateUserRequest{
		Email: "manager@fleet.local", Password: "secret123", FullName: "Dup", RoleID: role.ID,
	}, "U1")
	require.ErrorIs(t, err, ErrEmailExists)

	_, err = f.user.CreateUser(&CreateUserRequest{
		Email: "x@fleet.local", Password: "secret123", FullName: "X", RoleID: 999,
	}, "U1")
	require.ErrorIs(t, err, ErrRoleNotFound)

	_, err = f.user.CreateUser(&CreateUserRequest{Email: "not-an-email", Password: "secret123", FullName: "X", RoleID: role.ID}, "U1")
	requireValidation(t, err, CodeInvalidValue, "email")

	require.NoError(t, f.user.SetPassword("manager@fleet.local", "rotated1"))
	_, err = f.auth.Login("manager@fleet.local", "rotated1")
	require.NoError(t, err)

	all, err := f.user.GetAllUsers()
	require.NoError(t, err)
	require.Len(t, all, 1)
}
