package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"storerating/internal/dashboard"
	"storerating/internal/domain"
	"storerating/internal/output"
)

func (a *app) dashboardCmd() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Mostra o painel do seu papel",
		Long: `Mostra o painel correspondente ao papel da sessão:

  admin        totais de usuários, lojas e avaliações
  store_owner  suas lojas com nota média e total de avaliações
  user         lojas disponíveis e as avaliações que você fez`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			role, err := a.role(cmd)
			if err != nil {
				return err
			}

			switch role {
			case domain.RoleAdmin:
				stats, err := dashboard.AdminSummary(cmd.Context(), a.api)
				if err != nil {
					return err
				}
				return a.render(stats, func(w io.Writer) { output.AdminStats(w, stats) })
			case domain.RoleStoreOwner:
				stats, err := dashboard.OwnerSummary(cmd.Context(), a.api, q.query())
				if err != nil {
					return err
				}
				return a.render(stats, func(w io.Writer) { output.OwnerStats(w, stats) })
			case domain.RoleUser:
				_, stats, err := dashboard.StoreBrowser(cmd.Context(), a.api, q.query())
				if err != nil {
					return err
				}
				return a.render(stats, func(w io.Writer) { output.UserStats(w, stats) })
			default:
				return fmt.Errorf("papel desconhecido: %q", role)
			}
		},
	}
	q.bind(cmd, storeSortFields)
	return cmd
}
