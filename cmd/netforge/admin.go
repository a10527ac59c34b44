package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/Strob0t/NetForge/internal/adapter/postgres"
	"github.com/Strob0t/NetForge/internal/config"
	"github.com/Strob0t/NetForge/internal/domain/account"
	"github.com/Strob0t/NetForge/internal/service"
)

// runAdmin dispatches admin subcommands (list-accounts, create-account, remove-account).
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "list-accounts":
		return runAdminListAccounts(args[1:])
	case "create-account":
		return runAdminCreateAccount(args[1:])
	case "remove-account":
		return runAdminRemoveAccount(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprintf(os.Stderr, `Usage: netforge admin <command> [options]

Commands:
  list-accounts    List all accounts
  create-account   Create a new account
  remove-account   Remove an account and every tenant it owns
  help             Show this help message

Examples:
  netforge admin list-accounts
  netforge admin create-account --username carol --name Carol --admin
  netforge admin remove-account --username carol
`)
}

// loadAdminRuntime connects to the store and bootstraps a runtime for
// offline administration.
func loadAdminRuntime(ctx context.Context) (*service.Runtime, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	rt := service.NewRuntime(postgres.NewStore(pool), nil)
	if err := rt.Bootstrap(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("bootstrap: %w", err)
	}

	return rt, pool.Close, nil
}

func runAdminListAccounts(args []string) error {
	fs := flag.NewFlagSet("list-accounts", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	rt, cleanup, err := loadAdminRuntime(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	accounts := rt.Accounts()
	if len(accounts) == 0 {
		fmt.Println("No accounts found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "USERNAME\tROLE\tNAME\tSURNAME\tEMAIL")
	for i := range accounts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			accounts[i].Username, accounts[i].Role, accounts[i].Name, accounts[i].Surname, accounts[i].Email)
	}
	return w.Flush()
}

func runAdminCreateAccount(args []string) error {
	fs := flag.NewFlagSet("create-account", flag.ContinueOnError)
	username := fs.String("username", "", "account username (required)")
	name := fs.String("name", "", "display name")
	surname := fs.String("surname", "", "surname")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	admin := fs.Bool("admin", false, "grant admin role")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		return fmt.Errorf("--username is required")
	}

	pass := *password
	if pass == "" {
		var err error
		pass, err = promptPassword("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if pass != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	role := account.RoleUser
	if *admin {
		role = account.RoleAdmin
	}

	ctx := context.Background()
	rt, cleanup, err := loadAdminRuntime(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	err = rt.CreateAccount(ctx, account.CreateRequest{
		Username: *username,
		Password: pass,
		Role:     role,
		Name:     *name,
		Surname:  *surname,
		Email:    *email,
	})
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Account created: %s (role=%s)\n", *username, role)
	return nil
}

func runAdminRemoveAccount(args []string) error {
	fs := flag.NewFlagSet("remove-account", flag.ContinueOnError)
	username := fs.String("username", "", "account username (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		return fmt.Errorf("--username is required")
	}

	ctx := context.Background()
	rt, cleanup, err := loadAdminRuntime(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := rt.RemoveAccount(ctx, *username); err != nil {
		return fmt.Errorf("remove account: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Account removed: %s\n", *username)
	return nil
}

// promptPassword reads a password from the terminal without echoing.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // int conversion needed on some platforms
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
