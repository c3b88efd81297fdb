package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artem13815/blog/pkg/auth"
	pgrepo "github.com/artem13815/blog/pkg/repository/postgres"
	"github.com/artem13815/blog/pkg/security/jwt"
)

var (
	// Account flags
	userEmail    string
	userPassword string
	userName     string
	userRole     string
	bcryptCost   int
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an account",
	Long: `Create an account with a bcrypt-hashed password.

Examples:
  blogctl create-user --email reader@example.com --password s3cret! --name Reader
  blogctl create-user --email editor@example.com --password s3cret! --role ADMIN`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateUser(cmd, auth.Role(userRole))
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateUser(cmd, auth.RoleAdmin)
	},
}

func init() {
	for _, c := range []*cobra.Command{createUserCmd, createAdminCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVar(&userEmail, "email", "", "Account email (required)")
		c.Flags().StringVar(&userPassword, "password", "", "Account password, 6 to 128 characters (required)")
		c.Flags().StringVar(&userName, "name", "", "Display name")
		c.Flags().IntVar(&bcryptCost, "bcrypt-cost", auth.DefaultPasswordCost, "bcrypt work factor")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	createUserCmd.Flags().StringVar(&userRole, "role", string(auth.RoleUser), "ADMIN or USER")
}

func runCreateUser(cmd *cobra.Command, role auth.Role) error {
	if _, err := auth.ParseRole(string(role)); err != nil {
		return err
	}
	pool, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	log := newLogger(cmd.ErrOrStderr())
	// Tokens are never issued here; the generator only satisfies the use case.
	uc := auth.NewAuthService(pgrepo.NewUserRepository(pool), jwt.NewGenerator("unused", "blogctl", 0),
		auth.NewPasswordHasher(bcryptCost, false), log)

	u, err := uc.CreateUser(cmd.Context(), auth.NewUser{Email: userEmail, Password: userPassword, Name: userName, Role: role})
	if errors.Is(err, auth.ErrUserAlreadyExists) {
		return fmt.Errorf("an account with email %s already exists", userEmail)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s account %d <%s>\n", u.Role, u.ID, u.Email)
	return nil
}
