package projects

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProjectNotFound = errors.New("project not found")

// Project is a grant-funded project. Read-only from the workflow's
// perspective: assignment and editing happen in the program's back office.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"nome"`
	Description string    `json:"descricao"`
	Region      string    `json:"estado"`
	CreatedAt   time.Time `json:"criado_em"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const projectColumns = `id, nome, descricao, estado, criado_em`

func (r *Repo) Get(ctx context.Context, id string) (*Project, error) {
	q := `select ` + projectColumns + ` from projects where id = $1;`
	var p Project
	err := r.db.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Description, &p.Region, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns every project, for admin views.
func (r *Repo) List(ctx context.Context) ([]Project, error) {
	q := `select ` + projectColumns + ` from projects order by nome;`
	return r.collect(ctx, q)
}

// ListForBeneficiary returns the projects the beneficiary is assigned to.
func (r *Repo) ListForBeneficiary(ctx context.Context, beneficiaryID string) ([]Project, error) {
	q := `
select ` + projectColumns + `
from projects p
join beneficiary_projects bp on bp.project_id = p.id
where bp.beneficiary_id = $1
order by p.nome;
`
	return r.collect(ctx, q, beneficiaryID)
}

func (r *Repo) collect(ctx context.Context, q string, args ...any) ([]Project, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Region, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
