package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/purpleschool/purpleschool/internal/auth"
	"github.com/purpleschool/purpleschool/internal/daemon"
	"github.com/purpleschool/purpleschool/internal/infra/store"
)

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().BoolVar(&loginRegister, "register", false, "Create a new account instead of signing in")
	loginCmd.Flags().StringVar(&loginName, "name", "", "Your name (register only)")
	loginCmd.Flags().StringVar(&loginSchool, "school", "", "School name (register only)")
	loginCmd.Flags().StringVar(&loginClass, "class", "", "Class, e.g. SSS2 (register only)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

var (
	loginEmail    string
	loginRegister bool
	loginName     string
	loginSchool   string
	loginClass    string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your PurpleSchool account",
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(rootCmd.Version)
	if err != nil {
		return err
	}
	defer d.Close()

	if d.Accounts == nil {
		return fmt.Errorf("account service disabled in config")
	}

	scanner := newLineScanner(os.Stdin)

	email := loginEmail
	if email == "" {
		fmt.Print("Email: ")
		if !scanner.Scan() {
			return fmt.Errorf("no email provided")
		}
		email = strings.TrimSpace(scanner.Text())
	}

	fmt.Print("Password: ")
	if !scanner.Scan() {
		return fmt.Errorf("no password provided")
	}
	password := scanner.Text()

	var sess *auth.Session
	if loginRegister {
		name := loginName
		if name == "" {
			fmt.Print("Name: ")
			if scanner.Scan() {
				name = strings.TrimSpace(scanner.Text())
			}
		}
		sess, err = d.Accounts.Register(cmd.Context(), auth.RegisterInfo{
			Name:     name,
			Email:    email,
			Password: password,
			School:   loginSchool,
			Class:    loginClass,
		})
	} else {
		sess, err = d.Accounts.Login(cmd.Context(), auth.Credentials{
			Email:    email,
			Password: password,
		})
	}
	if err != nil {
		return err
	}

	fmt.Printf("Hello %s, let's continue your learning journey.\n", sess.User.Name)
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of your PurpleSchool account",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New(rootCmd.Version)
		if err != nil {
			return err
		}
		defer d.Close()

		if d.Accounts == nil {
			return fmt.Errorf("account service disabled in config")
		}
		if err := d.Accounts.Logout(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := daemon.LoadConfig()
		if err != nil {
			return err
		}

		db, err := store.OpenSQLite(cfg.Storage.Dir)
		if err != nil {
			return err
		}
		defer db.Close()

		client := auth.NewClient(cfg.Auth.BaseURL, db)
		sess, ok := client.CurrentSession()
		if !ok {
			fmt.Println("Not signed in. Run 'purpleschool login' first.")
			return nil
		}
		fmt.Printf("%s <%s>\n", sess.User.Name, sess.User.Email)
		if sess.User.School != "" {
			fmt.Printf("%s, %s\n", sess.User.School, sess.User.Class)
		}
		return nil
	},
}
