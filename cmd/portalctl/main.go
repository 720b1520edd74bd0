package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sunrise-classroom/content-portal/internal/client"
	"github.com/sunrise-classroom/content-portal/internal/notify"
	"github.com/sunrise-classroom/content-portal/internal/utils"
)

// app bundles the wiring the commands share.
type app struct {
	api   *client.API
	store *client.Store
	gate  *client.Gate
	queue *notify.Queue
	log   *zap.SugaredLogger
}

func main() {
	v := viper.New()
	v.SetEnvPrefix("PORTAL")
	v.AutomaticEnv()
	v.SetDefault("server", "http://localhost:3000")

	var (
		serverURL   string
		sessionPath string
		a           app
	)

	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Manage the classroom content portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				serverURL = v.GetString("server")
			}
			if sessionPath == "" {
				p, err := client.DefaultSessionPath()
				if err != nil {
					return fmt.Errorf("resolve session path: %w", err)
				}
				sessionPath = p
			}

			logger, err := utils.NewLogger(false)
			if err != nil {
				return err
			}
			a.log = logger
			a.api = client.NewAPI(serverURL)
			a.queue = notify.NewQueue()
			a.queue.Subscribe(func(n notify.Notification) {
				fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Kind, n.Message)
			})
			a.store = client.NewStore(a.api, a.queue, logger)
			a.gate = client.NewGate(sessionPath, a.api)
			if tok := a.gate.Token(); tok != "" {
				a.api.SetToken(tok)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "", "portal backend URL (default $PORTAL_SERVER or http://localhost:3000)")
	root.PersistentFlags().StringVar(&sessionPath, "session-file", "", "path to the session file")

	root.AddCommand(
		newLoginCmd(&a),
		newLogoutCmd(&a),
		newHealthCmd(&a),
		newListCmd(&a),
		newUploadCmd(&a),
		newEditCmd(&a),
		newDeleteCmd(&a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// requireAuth guards mutating commands behind the sign-in gate.
func requireAuth(a *app) error {
	if !a.gate.IsAuthenticated() {
		return fmt.Errorf("not signed in, run `portalctl login` first")
	}
	return nil
}
