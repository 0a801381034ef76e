package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/redmonkez12/storefront-api/internal/user"
	"github.com/redmonkez12/storefront-api/internal/validate"
)

// RunAdminForm asks for the administrator details missing from req.
func RunAdminForm(req user.NewAccountRequest) (user.NewAccountRequest, error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Jane Doe").
				Value(&req.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Email").
				Description("Used to sign in").
				Placeholder("admin@example.com").
				Value(&req.Email).
				Validate(func(s string) error {
					if !validate.Email(s) {
						return fmt.Errorf("email is not valid")
					}
					return nil
				}),

			huh.NewInput().
				Title("Password").
				Description(fmt.Sprintf("At least %d characters", user.MinPasswordLength)).
				EchoMode(huh.EchoModePassword).
				Value(&req.Password).
				Validate(func(s string) error {
					if len(s) < user.MinPasswordLength {
						return fmt.Errorf("password too short")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		return req, err
	}

	return req, nil
}

// PrintAccount prints the stored account.
func PrintAccount(u *user.User) {
	fmt.Println(titleStyle.Render("Account"))
	fmt.Printf("  ID:     %s\n", u.ID)
	fmt.Printf("  Name:   %s\n", u.Name)
	fmt.Printf("  Email:  %s\n", u.Email)
	fmt.Printf("  Roles:  %s\n", strings.Join(u.Roles, ", "))
	fmt.Printf("  Status: %s\n", u.ApprovalStatus)
	fmt.Println()
}

// PrintSkipped reports an item that was left untouched.
func PrintSkipped(name, reason string) {
	fmt.Println(subtleStyle.Render(fmt.Sprintf("  skipped %q: %s", name, reason)))
}

// PrintSuccess prints a success message.
func PrintSuccess(msg string) {
	fmt.Println(successStyle.Render(msg))
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Println(errorStyle.Render("Error: " + msg))
}
