package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"storerating/internal/client"
	"storerating/internal/domain"
	"storerating/internal/output"
)

const ratingSortFields = "rating, created_at, updated_at, user_name, store_name"

func (a *app) rateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <store-id> <1-5>",
		Short: "Avalia uma loja ou altera a sua avaliação existente",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			storeID := args[0]
			value, err := strconv.Atoi(args[1])
			if err != nil || value < domain.MinRating || value > domain.MaxRating {
				return fmt.Errorf("a nota deve ser um inteiro entre %d e %d", domain.MinRating, domain.MaxRating)
			}

			r, err := a.api.CreateRating(cmd.Context(), storeID, value)
			if err == nil {
				return a.render(r, func(w io.Writer) { fmt.Fprintf(w, "Avaliação enviada: %d para a loja %s\n", r.Rating, storeID) })
			}

			var apiErr *client.APIError
			if !errors.As(err, &apiErr) || apiErr.Category != "CONFLICT" {
				return err
			}

			// Já existe avaliação deste usuário para a loja: altera a nota.
			mine, err := a.api.ListRatings(cmd.Context(), client.RatingQuery{StoreID: storeID})
			if err != nil {
				return err
			}
			if len(mine) == 0 {
				return apiErr
			}
			r, err = a.api.UpdateRating(cmd.Context(), mine[0].ID, value)
			if err != nil {
				return err
			}
			return a.render(r, func(w io.Writer) { fmt.Fprintf(w, "Avaliação atualizada: %d para a loja %s\n", r.Rating, storeID) })
		},
	}
}

func (a *app) ratingsCmd() *cobra.Command {
	var (
		q       queryFlags
		storeID string
		userID  string
	)
	cmd := &cobra.Command{
		Use:   "ratings",
		Short: "Lista as avaliações visíveis ao seu papel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ratings, err := a.api.ListRatings(cmd.Context(), client.RatingQuery{Query: q.query(), StoreID: storeID, UserID: userID})
			if err != nil {
				return err
			}
			return a.render(ratings, func(w io.Writer) { output.RatingTable(w, ratings) })
		},
	}
	q.bind(cmd, ratingSortFields)
	cmd.Flags().StringVar(&storeID, "store", "", "Filtra por loja")
	cmd.Flags().StringVar(&userID, "user", "", "Filtra por usuário")

	cmd.AddCommand(a.storeRatingsCmd(), a.ratingDeleteCmd())
	return cmd
}

func (a *app) storeRatingsCmd() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "store <store-id>",
		Short: "Lista as avaliações de uma loja (admin ou proprietário)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ratings, err := a.api.StoreRatings(cmd.Context(), args[0], q.query())
			if err != nil {
				return err
			}
			return a.render(ratings, func(w io.Writer) { output.RatingTable(w, ratings) })
		},
	}
	q.bind(cmd, "rating, created_at, updated_at, user_name")
	return cmd
}

func (a *app) ratingDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <rating-id>",
		Short: "Remove uma avaliação",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			if err := a.api.DeleteRating(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Avaliação removida.")
			return nil
		},
	}
}
