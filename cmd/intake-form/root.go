package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/client-intake/internal/interfaces/tui"
	"github.com/jhoicas/client-intake/internal/wizard"
)

const defaultServer = "http://localhost:8080"

// runForm se reemplaza en tests para no abrir la terminal.
var runForm = tui.Run

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "intake-form",
		Short: "Formulario de cadastro de clientes en la terminal",
		Long: `Formulario de cadastro en tres pasos (dados básicos, endereço, contato).

El envío se hace contra la API de cadastro (POST /api/clients). La URL del
servidor se toma de --server o de INTAKE_SERVER_URL.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := strings.TrimSpace(v.GetString("server_url"))
			if server == "" {
				return fmt.Errorf("intake-form: URL del servidor vacía")
			}
			client := wizard.NewHTTPClient(server, nil)

			var opts []wizard.Option
			lookup := !v.GetBool("no_cep_lookup")
			if lookup {
				opts = append(opts, wizard.WithAddressLookup(client))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runForm(ctx, wizard.New(client, opts...), lookup)
		},
	}

	cmd.Flags().String("server", defaultServer, "URL base de la API de cadastro")
	cmd.Flags().Bool("no-cep-lookup", false, "deshabilita el autocompletado de dirección por CEP")
	_ = v.BindPFlag("server_url", cmd.Flags().Lookup("server"))
	_ = v.BindPFlag("no_cep_lookup", cmd.Flags().Lookup("no-cep-lookup"))

	v.SetEnvPrefix("INTAKE")
	v.AutomaticEnv()
	cmd.SetContext(context.Background())
	return cmd
}
