package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"storerating/internal/dashboard"
	"storerating/internal/domain"
	"storerating/internal/output"
)

const storeSortFields = "name, address, average_rating, total_ratings, created_at"

func (a *app) storesCmd() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "stores",
		Short: "Lista as lojas (com a sua nota, quando autenticado como user)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.HasToken() {
				role, err := a.role(cmd)
				if err != nil {
					return err
				}
				if role == domain.RoleUser {
					rows, _, err := dashboard.StoreBrowser(cmd.Context(), a.api, q.query())
					if err != nil {
						return err
					}
					return a.render(rows, func(w io.Writer) { output.StoreRows(w, rows) })
				}
			}

			stores, err := a.api.ListStores(cmd.Context(), q.query())
			if err != nil {
				return err
			}
			return a.render(stores, func(w io.Writer) { output.StoreTable(w, stores) })
		},
	}
	q.bind(cmd, storeSortFields)

	cmd.AddCommand(a.storeShowCmd(), a.storeCreateCmd(), a.storeUpdateCmd(), a.storeDeleteCmd())
	return cmd
}

func (a *app) storeShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <store-id>",
		Short: "Mostra uma loja",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.api.GetStore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(s, func(w io.Writer) { output.StoreDetail(w, s) })
		},
	}
}

func (a *app) storeCreateCmd() *cobra.Command {
	var input domain.StoreInput
	var owner string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Cria uma loja (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			if owner != "" {
				input.OwnerID = &owner
			}
			s, err := a.api.CreateStore(cmd.Context(), input)
			if err != nil {
				return err
			}
			return a.render(s, func(w io.Writer) { fmt.Fprintf(w, "Loja criada: %s (%s)\n", s.Name, s.ID) })
		},
	}
	cmd.Flags().StringVar(&input.Name, "name", "", "Nome da loja")
	cmd.Flags().StringVar(&input.Email, "email", "", "Email da loja")
	cmd.Flags().StringVar(&input.Address, "address", "", "Endereço")
	cmd.Flags().StringVar(&owner, "owner", "", "ID do store_owner")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) storeUpdateCmd() *cobra.Command {
	var name, address, owner string
	cmd := &cobra.Command{
		Use:   "update <store-id>",
		Short: "Altera uma loja (admin ou proprietário)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			var update domain.StoreUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("address") {
				update.Address = &address
			}
			if cmd.Flags().Changed("owner") {
				update.OwnerID = &owner
			}
			s, err := a.api.UpdateStore(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			return a.render(s, func(w io.Writer) { fmt.Fprintf(w, "Loja atualizada: %s (%s)\n", s.Name, s.ID) })
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Novo nome")
	cmd.Flags().StringVar(&address, "address", "", "Novo endereço")
	cmd.Flags().StringVar(&owner, "owner", "", "Novo store_owner")
	return cmd
}

func (a *app) storeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <store-id>",
		Short: "Remove uma loja e suas avaliações",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			if err := a.api.DeleteStore(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Loja removida.")
			return nil
		},
	}
}
