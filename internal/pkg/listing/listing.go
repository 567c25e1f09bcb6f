// Package listing resolve os parâmetros sortBy/sortOrder das listagens para
// uma cláusula ORDER BY segura.
package listing

import (
	"fmt"
	"strings"
)

// Direções de ordenação aceitas.
const (
	Asc  = "ASC"
	Desc = "DESC"
)

// Sort descreve a lista de campos ordenáveis de uma entidade e a ordem padrão.
// Columns mapeia o nome público (query string) para a expressão SQL.
type Sort struct {
	Columns      map[string]string
	DefaultField string
	DefaultOrder string
}

// Resolve devolve a cláusula ORDER BY para o pedido do cliente.
// Direção em branco usa a direção padrão e mantém o campo pedido. Campo ou
// direção não reconhecidos usam a ordem padrão inteira, sem erro: o pedido
// nunca chega ao SQL sem passar pela lista permitida.
func (s Sort) Resolve(sortBy, sortOrder string) string {
	order := strings.ToUpper(strings.TrimSpace(sortOrder))
	if order == "" {
		order = s.DefaultOrder
	}
	column, ok := s.Columns[strings.TrimSpace(sortBy)]

	if !ok || (order != Asc && order != Desc) {
		column = s.Columns[s.DefaultField]
		order = s.DefaultOrder
	}

	return fmt.Sprintf(" ORDER BY %s %s", column, order)
}

// SearchPattern devolve o padrão ILIKE para uma busca por substring.
// Os curingas do próprio termo são escapados.
func SearchPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(term)) + "%"
}
