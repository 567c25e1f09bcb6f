package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"storerating/internal/cliconfig"
	"storerating/internal/dashboard"
	"storerating/internal/domain"
	"storerating/internal/output"
)

func (a *app) loginCmd() *cobra.Command {
	var email, pass string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Autentica no servidor e salva o token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = a.prompt("Email", email); err != nil {
				return err
			}
			if pass, err = a.prompt("Senha", pass); err != nil {
				return err
			}

			res, err := a.api.Login(cmd.Context(), email, pass)
			if err != nil {
				return err
			}

			a.cfg.Token, a.cfg.Email, a.cfg.Role = res.Token, res.User.Email, res.User.Role
			if err := cliconfig.Save(a.cfgPath, a.cfg); err != nil {
				return fmt.Errorf("salvando configuração: %w", err)
			}

			fmt.Fprintf(a.out, "Autenticado como %s (%s, %s)\n", res.User.Name, res.User.Email, res.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email da conta")
	cmd.Flags().StringVar(&pass, "password", "", "Senha (lida da entrada se omitida)")
	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	var reg domain.UserRegistration
	var role string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Cria uma conta pública (user ou store_owner)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if reg.Name, err = a.prompt("Nome", reg.Name); err != nil {
				return err
			}
			if reg.Email, err = a.prompt("Email", reg.Email); err != nil {
				return err
			}
			if reg.Password, err = a.prompt("Senha", reg.Password); err != nil {
				return err
			}
			reg.Role = domain.UserRole(role)

			u, err := a.api.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			return a.render(u, func(w io.Writer) {
				fmt.Fprintln(w, "Conta criada. Execute \"ratecli login\" para entrar.")
				output.UserInfo(w, u)
			})
		},
	}
	cmd.Flags().StringVar(&reg.Name, "name", "", "Nome")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Senha")
	cmd.Flags().StringVar(&reg.Address, "address", "", "Endereço")
	cmd.Flags().StringVar(&role, "role", "", "user (padrão) ou store_owner")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove o token salvo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.Logout()
			if err := cliconfig.Save(a.cfgPath, a.cfg); err != nil {
				return fmt.Errorf("salvando configuração: %w", err)
			}
			fmt.Fprintln(a.out, "Sessão encerrada.")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Mostra o usuário autenticado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			u, err := a.api.Profile(cmd.Context())
			if err != nil {
				return fmt.Errorf("buscando perfil: %w", err)
			}
			return a.render(u, func(w io.Writer) { output.UserInfo(w, u) })
		},
	}
}

func (a *app) passwordCmd() *cobra.Command {
	var current, next, confirm string
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Troca a senha do usuário autenticado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			var err error
			if current, err = a.prompt("Senha atual", current); err != nil {
				return err
			}
			if next, err = a.prompt("Nova senha", next); err != nil {
				return err
			}
			if confirm, err = a.prompt("Confirme a nova senha", confirm); err != nil {
				return err
			}
			if err := dashboard.ChangePassword(cmd.Context(), a.api, current, next, confirm); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Senha atualizada com sucesso.")
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "Senha atual")
	cmd.Flags().StringVar(&next, "new", "", "Nova senha")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Confirmação da nova senha")
	return cmd
}
