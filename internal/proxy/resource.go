package proxy

// Messages are the user-facing texts surfaced by a resource's operations.
type Messages struct {
	LoadList     string
	LoadOne      string
	Create       string
	Update       string
	Delete       string
	MissingID    string
	MissingOwner string
}

// Resource describes one remote collection proxied by a Service.
type Resource struct {
	Name      string   // singular, used in logs
	Path      string   // remote path, e.g. "/despesas"
	IDAliases []string // id key spellings, in priority order
	WrapKeys  []string // list wrapper keys, in priority order
	Msg       Messages
}

// Despesas is the expense resource descriptor. The id aliases cover every
// spelling the remote API has been seen using.
func Despesas() Resource {
	return Resource{
		Name:      "despesa",
		Path:      "/despesas",
		IDAliases: []string{"id", "idDespesa", "despesaId", "id_despesa", "despesa_id"},
		WrapKeys:  []string{"despesas", "data", "items", "content"},
		Msg: Messages{
			LoadList:     "Não foi possível carregar as despesas.",
			LoadOne:      "Não foi possível carregar a despesa.",
			Create:       "Não foi possível criar a despesa.",
			Update:       "Não foi possível atualizar a despesa.",
			Delete:       "Não foi possível excluir a despesa.",
			MissingID:    "Identificador da despesa não informado.",
			MissingOwner: "Informe o usuário vinculado à despesa.",
		},
	}
}

// Receitas is the income resource descriptor.
func Receitas() Resource {
	return Resource{
		Name:      "receita",
		Path:      "/receitas",
		IDAliases: []string{"id", "idReceita", "receitaId", "id_receita", "receita_id"},
		WrapKeys:  []string{"receitas", "data", "items", "content"},
		Msg: Messages{
			LoadList:     "Não foi possível carregar as receitas.",
			LoadOne:      "Não foi possível carregar a receita.",
			Create:       "Não foi possível criar a receita.",
			Update:       "Não foi possível atualizar a receita.",
			Delete:       "Não foi possível excluir a receita.",
			MissingID:    "Identificador da receita não informado.",
			MissingOwner: "Informe o usuário vinculado à receita.",
		},
	}
}
