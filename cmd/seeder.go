package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/auth"
	departmentDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/department"
	userDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/user"
	departmentPostgres "github.com/frahmantamala/attendance-report/internal/department/postgres"
	userPostgres "github.com/frahmantamala/attendance-report/internal/user/postgres"
	"github.com/frahmantamala/attendance-report/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type seedOptions struct {
	Username    string
	Password    string
	FullName    string
	Departments []string
	BCryptCost  int
}

var seedOpts seedOptions

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the superadmin account and departments",
	Long:  `Create the superadmin account and the given departments. Existing rows are left alone, so seeding can be repeated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(".")
		if err != nil {
			return err
		}
		lg := logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

		if seedOpts.Password == "" {
			seedOpts.Password = os.Getenv("SUPERADMIN_PASSWORD")
		}
		seedOpts.BCryptCost = cfg.Security.BCryptCost

		db, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			return err
		}

		return seed(cmd.Context(), gormDB, seedOpts, lg)
	},
}

func seed(ctx context.Context, db *gorm.DB, opts seedOptions, lg *slog.Logger) error {
	opts.Username = strings.ToLower(strings.TrimSpace(opts.Username))
	if opts.Username == "" || len(opts.Password) < 6 || len(opts.Password) > auth.MaxPasswordBytes {
		return errors.New("superadmin username and a password of 6 characters to 72 bytes are required")
	}

	departments := departmentPostgres.NewDepartmentRepository(db)
	for _, name := range opts.Departments {
		err := departments.Create(ctx, &departmentDatamodel.Department{Name: name})
		switch {
		case err == nil:
			lg.Info("seeded department", "name", name)
		case errors.Is(err, internal.ErrDepartmentNameTaken):
			lg.Info("department already exists", "name", name)
		default:
			return fmt.Errorf("seed department %s: %w", name, err)
		}
	}

	users := userPostgres.NewUserRepository(db)
	existing, err := users.GetByUsername(ctx, opts.Username)
	if err != nil {
		return fmt.Errorf("lookup superadmin: %w", err)
	}
	if existing != nil {
		lg.Info("superadmin already exists", "username", opts.Username, "user_id", existing.ID)
		return nil
	}

	hash, err := auth.HashPassword(opts.Password, opts.BCryptCost)
	if err != nil {
		return fmt.Errorf("hash superadmin password: %w", err)
	}
	u := &userDatamodel.User{
		Username:     opts.Username,
		FullName:     opts.FullName,
		PasswordHash: hash,
		Role:         string(auth.RoleSuperAdmin),
	}
	if err := users.Create(ctx, u); err != nil {
		return fmt.Errorf("seed superadmin: %w", err)
	}
	lg.Info("seeded superadmin", "username", u.Username, "user_id", u.ID)
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&seedOpts.Username, "superadmin-username", "superadmin", "Superadmin username")
	seedCmd.Flags().StringVar(&seedOpts.Password, "superadmin-password", "", "Superadmin password (or SUPERADMIN_PASSWORD)")
	seedCmd.Flags().StringVar(&seedOpts.FullName, "superadmin-name", "Super Admin", "Superadmin full name")
	seedCmd.Flags().StringSliceVar(&seedOpts.Departments, "departments", []string{"Finance", "HR", "Operations"}, "Departments to create")
}
