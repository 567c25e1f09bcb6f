package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"storerating/internal/domain"
	"storerating/internal/output"
)

const userSortFields = "name, email, role, created_at"

func (a *app) usersCmd() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administra usuários (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			users, err := a.api.ListUsers(cmd.Context(), q.query())
			if err != nil {
				return err
			}
			return a.render(users, func(w io.Writer) { output.UserTable(w, users) })
		},
	}
	q.bind(cmd, userSortFields)

	cmd.AddCommand(a.userCreateCmd(), a.userUpdateCmd(), a.userDeleteCmd())
	return cmd
}

func (a *app) userCreateCmd() *cobra.Command {
	var reg domain.UserRegistration
	var role string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Cria um usuário com qualquer papel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			reg.Role = domain.UserRole(role)
			u, err := a.api.CreateUser(cmd.Context(), reg)
			if err != nil {
				return err
			}
			return a.render(u, func(w io.Writer) { output.UserInfo(w, u) })
		},
	}
	cmd.Flags().StringVar(&reg.Name, "name", "", "Nome")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Senha")
	cmd.Flags().StringVar(&reg.Address, "address", "", "Endereço")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "admin, user ou store_owner")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) userUpdateCmd() *cobra.Command {
	var name, email, address, role string
	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Altera um usuário; trocar o papel de store_owner desvincula suas lojas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			var update domain.UserUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("email") {
				update.Email = &email
			}
			if cmd.Flags().Changed("address") {
				update.Address = &address
			}
			if cmd.Flags().Changed("role") {
				r := domain.UserRole(role)
				update.Role = &r
			}
			u, err := a.api.UpdateUser(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			return a.render(u, func(w io.Writer) { output.UserInfo(w, u) })
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Novo nome")
	cmd.Flags().StringVar(&email, "email", "", "Novo email")
	cmd.Flags().StringVar(&address, "address", "", "Novo endereço")
	cmd.Flags().StringVar(&role, "role", "", "Novo papel")
	return cmd
}

func (a *app) userDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Remove um usuário e, em cascata, suas lojas e avaliações",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			if err := a.api.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Usuário removido.")
			return nil
		},
	}
}
