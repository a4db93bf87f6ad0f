package commands

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"walletclient/app/server"
	"walletclient/pkg/log"
	"walletclient/pkg/web"
)

func devserverCmd() *cobra.Command {
	var (
		addr    string
		network string
		seed    bool
	)
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Serve an in-memory backend and chain node for development",
		Args:  cobra.NoArgs,
		// the server does not need a client config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.ConfigureLogger(log.Config{Level: "info"})
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, node := server.NewStore(), server.NewNode(network)
			if seed {
				server.Seed(store, node)
				log.Infow("seeded demo data", "email", server.DemoEmail, "password", server.DemoPassword)
			}

			rest := server.Rest{
				Router: server.NewRouter(),
				Store:  store,
				Node:   node,
			}
			rest.Route() // handle http requests

			srv := &http.Server{
				Addr:    addr,
				Handler: rest.Router,
			}
			go web.Start(srv)
			defer web.Shutdown(srv, serverShutdownTimeout)

			// wait for the program exit
			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
			<-exit
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().StringVar(&network, "network", "thasa-dev-1", "chain id reported by the node")
	cmd.Flags().BoolVar(&seed, "seed", true, "load demo data")
	return cmd
}
