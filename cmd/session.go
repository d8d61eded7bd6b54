package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fxbeat/fxbeat/myfxbook"
)

// sessionCmd groups session maintenance commands
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the upstream session",
}

var sessionCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify credentials and proxy by performing a fresh login",
	RunE:  runSessionCheck,
}

var sessionLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log in and immediately revoke the session upstream",
	Long: `Obtain a fresh session and revoke it with the upstream. Session
tokens are bound to your outbound IP and live for weeks; revoking is the
only way to retire one early.`,
	RunE: runSessionLogout,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionCheckCmd)
	sessionCmd.AddCommand(sessionLogoutCmd)
}

func runSessionCheck(cmd *cobra.Command, args []string) error {
	err := client.Login(cmd.Context())
	if err == nil {
		fmt.Println("Login OK.")
		return nil
	}

	switch {
	case errors.Is(err, myfxbook.ErrBlockedByUpstream):
		logger.Error().Err(err).Msg("Upstream served a bot challenge; consider configuring or changing the proxy")
	case errors.Is(err, myfxbook.ErrAuthenticationFailed):
		logger.Error().Err(err).Msg("Credentials rejected")
	case errors.Is(err, myfxbook.ErrConfiguration):
		logger.Error().Err(err).Msg("Configuration incomplete")
	default:
		logger.Error().Err(err).Msg("Upstream unreachable")
	}
	return err
}

func runSessionLogout(cmd *cobra.Command, args []string) error {
	if err := client.Login(cmd.Context()); err != nil {
		return err
	}
	if err := client.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Session revoked.")
	return nil
}
