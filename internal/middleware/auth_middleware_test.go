package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"
	"go-fleet-ws/internal/testutil"
	"go-fleet-ws/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRequireAuthAndPrivilege(t *testing.T) {
	jwt.SetSecret("middleware-test")
	db := testutil.NewTestDB(t)
	users := repository.NewUserRepo(db)

	user := &model.User{Email: "approver@fleet.local", FullName: "Approver", IsActive: true, TokenVersion: "v1"}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, users.Create(user))

	app := fiber.New()
	app.Get("/approve", RequireAuth(users), RequirePrivilege(model.PrivTransferApprove), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	app.Get("/any", RequireAuth(users), RequireAnyPrivilege(model.PrivTransferDispatch, model.PrivTransferReceive), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	call := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	approver, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, model.RoleAdmin, []string{model.PrivTransferApprove}, "v1")
	require.NoError(t, err)
	receiver, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, model.RoleSiteManager, []string{model.PrivTransferReceive}, "v1")
	require.NoError(t, err)
	oldSession, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, model.RoleAdmin, []string{model.PrivTransferApprove}, "v0")
	require.NoError(t, err)
	stranger, err := jwt.GenerateToken(uuid.New(), "x@fleet.local", "X", model.RoleAdmin, []string{model.PrivTransferApprove}, "v1")
	require.NoError(t, err)

	require.Equal(t, http.StatusUnauthorized, call("/approve", ""))
	require.Equal(t, http.StatusUnauthorized, call("/approve", approver))
	require.Equal(t, http.StatusUnauthorized, call("/approve", "Bearer garbage"))
	require.Equal(t, http.StatusUnauthorized, call("/approve", "Bearer "+oldSession))
	require.Equal(t, http.StatusUnauthorized, call("/approve", "Bearer "+stranger))
	require.Equal(t, http.StatusForbidden, call("/approve", "Bearer "+receiver))
	require.Equal(t, http.StatusOK, call("/approve", "Bearer "+approver))
	require.Equal(t, http.StatusNoContent, call("/any", "Bearer "+receiver))
	require.Equal(t, http.StatusForbidden, call("/any", "Bearer "+approver))
}

func TestRequireAuthSetsUserSite(t *testing.T) {
	jwt.SetSecret("middleware-test")
	db := testutil.NewTestDB(t)
	users := repository.NewUserRepo(db)
	site := testutil.CreateSite(t, db, "S33")

	manager := &model.User{Email: "s33@fleet.local", FullName: "S33 Manager", IsActive: true, TokenVersion: "v1", SiteID: &site.ID}
	require.NoError(t, manager.SetPassword("secret123"))
	require.NoError(t, users.Create(manager))
	admin := &model.User{Email: "admin@fleet.local", FullName: "Admin", IsActive: true, TokenVersion: "v1"}
	require.NoError(t, admin.SetPassword("secret123"))
	require.NoError(t, users.Create(admin))

	app := fiber.New()
	app.Get("/site", RequireAuth(users), func(c *fiber.Ctx) error {
		siteID, ok := c.Locals("user_site_id").(uuid.UUID)
		if !ok {
			return c.SendStatus(http.StatusNoContent)
		}
		return c.SendString(siteID.String())
	})

	call := func(u *model.User) (int, string) {
		token, err := jwt.GenerateToken(u.ID, u.Email, u.FullName, model.RoleSiteManager, nil, "v1")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/site", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	status, body := call(manager)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, site.ID.String(), body)

	status, _ = call(admin)
	require.Equal(t, http.StatusNoContent, status)
}
