// Package output formata as respostas da API para o terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"storerating/internal/dashboard"
	"storerating/internal/domain"
)

// JSON imprime v como JSON indentado.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// StoreTable imprime a listagem de lojas com seus agregados.
func StoreTable(w io.Writer, stores []domain.StoreSummary) {
	if len(stores) == 0 {
		fmt.Fprintln(w, "Nenhuma loja encontrada.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNOME\tEMAIL\tENDEREÇO\tNOTA\tAVALIAÇÕES\tPROPRIETÁRIO")
	for _, s := range stores {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			s.ID, s.Name, dash(s.Email), dash(Truncate(s.Address, 40)),
			Stars(s.AverageRating), s.TotalRatings, dash(deref(s.OwnerName)))
	}
	tw.Flush()
}

// StoreRows imprime a visão do user: cada loja com a nota que ele deu.
func StoreRows(w io.Writer, rows []dashboard.StoreRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "Nenhuma loja encontrada.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNOME\tENDEREÇO\tNOTA GERAL\tMINHA NOTA")
	for _, r := range rows {
		mine := "-"
		if r.MyRating != nil {
			mine = fmt.Sprintf("%d", r.MyRating.Rating.Rating)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, dash(Truncate(r.Address, 40)), Stars(r.AverageRating), mine)
	}
	tw.Flush()
}

// StoreDetail imprime uma loja.
func StoreDetail(w io.Writer, s domain.StoreSummary) {
	tw := table(w)
	fmt.Fprintf(tw, "Nome:\t%s\n", s.Name)
	fmt.Fprintf(tw, "ID:\t%s\n", s.ID)
	fmt.Fprintf(tw, "Email:\t%s\n", dash(s.Email))
	fmt.Fprintf(tw, "Endereço:\t%s\n", dash(s.Address))
	fmt.Fprintf(tw, "Nota:\t%s\n", Stars(s.AverageRating))
	fmt.Fprintf(tw, "Avaliações:\t%d\n", s.TotalRatings)
	if s.OwnerID != nil {
		fmt.Fprintf(tw, "Proprietário:\t%s <%s>\n", deref(s.OwnerName), deref(s.OwnerEmail))
	}
	fmt.Fprintf(tw, "Criada:\t%s\n", s.CreatedAt.Format(time.RFC3339))
	tw.Flush()
}

// RatingTable imprime a listagem de avaliações.
func RatingTable(w io.Writer, ratings []domain.RatingView) {
	if len(ratings) == 0 {
		fmt.Fprintln(w, "Nenhuma avaliação encontrada.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tLOJA\tUSUÁRIO\tEMAIL\tNOTA\tDATA")
	for _, r := range ratings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.StoreName, r.UserName, r.UserEmail, r.Rating.Rating, r.CreatedAt.Format("2006-01-02"))
	}
	tw.Flush()
}

// UserTable imprime a listagem de usuários.
func UserTable(w io.Writer, users []domain.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "Nenhum usuário encontrado.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNOME\tEMAIL\tPAPEL\tENDEREÇO")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, dash(Truncate(u.Address, 40)))
	}
	tw.Flush()
}

// UserInfo imprime os dados de um usuário.
func UserInfo(w io.Writer, u domain.User) {
	tw := table(w)
	fmt.Fprintf(tw, "Nome:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Papel:\t%s\n", u.Role)
	fmt.Fprintf(tw, "Endereço:\t%s\n", dash(u.Address))
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	tw.Flush()
}

// AdminStats imprime os totais do painel do admin.
func AdminStats(w io.Writer, s dashboard.AdminStats) {
	tw := table(w)
	fmt.Fprintf(tw, "Usuários:\t%d\n", s.TotalUsers)
	fmt.Fprintf(tw, "Lojas:\t%d\n", s.TotalStores)
	fmt.Fprintf(tw, "Avaliações:\t%d\n", s.TotalRatings)
	fmt.Fprintf(tw, "Nota média:\t%.1f\n", s.AverageRating)
	tw.Flush()
	if len(s.Latest) > 0 {
		fmt.Fprintln(w, "\nAvaliações recentes:")
		RatingTable(w, s.Latest)
	}
}

// OwnerStats imprime o painel do store_owner seguido de suas lojas.
func OwnerStats(w io.Writer, s dashboard.OwnerStats) {
	tw := table(w)
	fmt.Fprintf(tw, "Lojas:\t%d\n", s.TotalStores)
	fmt.Fprintf(tw, "Avaliações:\t%d\n", s.TotalRatings)
	fmt.Fprintf(tw, "Nota média:\t%.1f\n", s.AverageRating)
	tw.Flush()
	fmt.Fprintln(w)
	StoreTable(w, s.Stores)
}

// UserStats imprime o resumo das avaliações de um user.
func UserStats(w io.Writer, s dashboard.UserStats) {
	tw := table(w)
	fmt.Fprintf(tw, "Lojas disponíveis:\t%d\n", s.StoresVisible)
	fmt.Fprintf(tw, "Avaliações feitas:\t%d\n", s.TotalRatings)
	fmt.Fprintf(tw, "Nota média dada:\t%.1f\n", s.AverageGiven)
	tw.Flush()
}

// Stars desenha a média em cinco estrelas, arredondada para o inteiro mais
// próximo, seguida do valor com uma casa decimal.
func Stars(avg float64) string {
	n := int(math.Round(avg))
	if n < 0 {
		n = 0
	}
	if n > domain.MaxRating {
		n = domain.MaxRating
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", domain.MaxRating-n) + fmt.Sprintf(" %.1f", avg)
}

// Truncate corta s em n runas, acrescentando reticências.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
