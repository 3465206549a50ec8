package cmd

import (
	"context"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"
	"go-fleet-ws/internal/service"

	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email> <new-password>",
	Short: "Overwrite a user's password and end their sessions",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		_, db := connect()
		users := service.NewUserService(repository.NewUserRepo(db), repository.NewRoleRepo(db))
		if err := users.SetPassword(args[0], args[1]); err != nil {
			log.Fatalf("Unable to reset password for %s: %s", args[0], err)
		}
		log.WithField("user", args[0]).Info("password reset")
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create default privileges, roles and the master admin",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, db := connect()
		seed := service.NewSeedService(repository.NewPrivilegeRepo(db), repository.NewRoleRepo(db), repository.NewUserRepo(db))
		if err := seed.SeedAccessControl(); err != nil {
			log.Fatalf("Unable to seed access control: %s", err)
		}
		if _, err := seed.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword, "Master Administrator"); err != nil {
			log.Fatalf("Unable to create admin: %s", err)
		}
	},
}

var (
	userRole     string
	userFullName string
	userSite     string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user <email> <password>",
	Short: "Create a user with one of the default roles",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		_, db := connect()
		roles := repository.NewRoleRepo(db)
		role, err := roles.FindByCode(userRole)
		if err != nil {
			log.Fatalf("Unknown role %s: %s", userRole, err)
		}

		req := &service.CreateUserRequest{
			Email:    args[0],
			Password: args[1],
			FullName: userFullName,
			RoleID:   role.ID,
		}
		if userSite != "" {
			site, err := repository.NewSiteRepo(db).FindByCode(context.Background(), userSite)
			if err != nil {
				log.Fatalf("Unknown site %s: %s", userSite, err)
			}
			req.SiteID = &site.ID
		}

		user, err := service.NewUserService(repository.NewUserRepo(db), roles).CreateUser(req, "fleetctl")
		if err != nil {
			log.Fatalf("Unable to create user: %s", err)
		}
		log.WithFields(log.Fields{"id": user.ID, "role": role.Code}).Info("user ready")
	},
}

func init() {
	createUserCmd.Flags().StringVar(&userRole, "role", model.RoleRequester, "role code")
	createUserCmd.Flags().StringVar(&userFullName, "name", "", "full name")
	createUserCmd.Flags().StringVar(&userSite, "site", "", "home site code")
	_ = createUserCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(resetPasswordCmd, seedCmd, createUserCmd)
}
