package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"storerating/internal/cliconfig"
	"storerating/internal/client"
	"storerating/internal/domain"
	"storerating/internal/output"
)

// app guarda o estado compartilhado pelos subcomandos.
type app struct {
	in  *bufio.Reader
	out io.Writer

	flagJSON   bool
	flagServer string
	cfgPath    string

	cfg *cliconfig.Config
	api *client.Client
}

func execute(args []string, in io.Reader, out, errOut io.Writer) error {
	a := &app{in: bufio.NewReader(in), out: out}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(errOut, "Erro:", describe(err))
		return err
	}
	return nil
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ratecli",
		Short: "Cliente de terminal da API StoreRating",
		Long: `ratecli consulta e avalia lojas no servidor StoreRating.

Primeiros passos:
  ratecli login --email bob@example.com   Autentica e salva o token
  ratecli stores                          Lista as lojas
  ratecli rate <store-id> 5               Avalia uma loja
  ratecli dashboard                       Painel do seu papel`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.cfgPath == "" {
				p, err := cliconfig.Path()
				if err != nil {
					return fmt.Errorf("localizando configuração: %w", err)
				}
				a.cfgPath = p
			}
			cfg, err := cliconfig.Load(a.cfgPath)
			if err != nil {
				return fmt.Errorf("carregando configuração: %w", err)
			}
			if a.flagServer != "" {
				cfg.ServerURL = a.flagServer
			}
			a.cfg = cfg
			a.api = client.NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&a.flagJSON, "json", false, "Saída em JSON")
	root.PersistentFlags().StringVar(&a.flagServer, "server", "", "URL do servidor (padrão: configuração salva ou "+cliconfig.DefaultURL+")")
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Arquivo de configuração (padrão: diretório de configuração do usuário)")

	root.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.passwordCmd(),
		a.storesCmd(),
		a.rateCmd(),
		a.ratingsCmd(),
		a.dashboardCmd(),
		a.usersCmd(),
	)
	return root
}

// requireAuth falha quando não há token salvo.
func (a *app) requireAuth() error {
	if a.cfg == nil || !a.cfg.HasToken() {
		return errors.New("não autenticado; execute \"ratecli login\" primeiro")
	}
	return nil
}

// role devolve o papel da sessão, consultando o perfil se ele não foi salvo.
func (a *app) role(cmd *cobra.Command) (domain.UserRole, error) {
	if a.cfg.Role != "" {
		return a.cfg.Role, nil
	}
	u, err := a.api.Profile(cmd.Context())
	if err != nil {
		return "", err
	}
	a.cfg.Role, a.cfg.Email = u.Role, u.Email
	_ = cliconfig.Save(a.cfgPath, a.cfg)
	return u.Role, nil
}

// render escolhe entre JSON e a saída em tabela.
func (a *app) render(v interface{}, table func(io.Writer)) error {
	if a.flagJSON {
		return output.JSON(a.out, v)
	}
	table(a.out)
	return nil
}

// prompt lê uma linha da entrada quando o valor não veio por flag.
func (a *app) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("lendo %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

type queryFlags struct {
	search string
	sortBy string
	order  string
}

func (q *queryFlags) bind(cmd *cobra.Command, sortHelp string) {
	cmd.Flags().StringVar(&q.search, "search", "", "Filtro de busca")
	cmd.Flags().StringVar(&q.sortBy, "sort", "", "Campo de ordenação ("+sortHelp+")")
	cmd.Flags().StringVar(&q.order, "order", "", "ASC ou DESC")
}

func (q queryFlags) query() client.Query {
	return client.Query{Search: q.search, SortBy: q.sortBy, SortOrder: strings.ToUpper(q.order)}
}

// describe traduz erros da API para uma linha legível, incluindo os campos inválidos.
func describe(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	msg := apiErr.Message
	for _, d := range apiErr.Details {
		msg += fmt.Sprintf("\n  %s: %s", d.Field, d.Message)
	}
	return msg
}
