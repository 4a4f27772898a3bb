package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"homevox/internal/config"
	"homevox/internal/ipc"
)

var (
	envFile string
	socket  string

	rootCmd = &cobra.Command{
		Use:           "homevox-ctl",
		Short:         "Send commands and questions to a running homevox-daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if socket != "" {
				return nil
			}
			cfg, err := config.LoadClient(envFile)
			if err != nil {
				return err
			}
			socket = cfg.SocketPath
			return nil
		},
	}

	execCmd = &cobra.Command{
		Use:   "exec <command name>",
		Short: "Execute a configured command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmd, ipc.ControlMessage{Cmd: ipc.CmdExec, Arg: strings.Join(args, " ")})
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the configured commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return send(cmd, ipc.ControlMessage{Cmd: ipc.CmdList})
		},
	}

	askCmd = &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmd, ipc.ControlMessage{Cmd: ipc.CmdAsk, Arg: strings.Join(args, " ")})
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", ".env", "Env file path")
	rootCmd.PersistentFlags().StringVarP(&socket, "socket", "s", "", "Control socket path (overrides HOMEVOX_SOCKET)")
	rootCmd.AddCommand(execCmd, listCmd, askCmd)
}

func send(cmd *cobra.Command, msg ipc.ControlMessage) error {
	reply, err := ipc.SendCommand(socket, msg)
	if err != nil {
		return fmt.Errorf("homevox-daemon not running: %w", err)
	}
	if !reply.OK {
		return errors.New(reply.Text)
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
