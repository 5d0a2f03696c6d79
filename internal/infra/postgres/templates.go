package postgres

import (
	"context"
	"strconv"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"

	"github.com/jackc/pgx/v5"
)

// ============================================================
// Report templates
// ============================================================

const (
	templateColumns  = `r.id, r.nom, r.description, r.contenu IS NOT NULL, r.created_at`
	parameterColumns = `p.id, p.template_id, p.nom, p.type, p.obligatoire, p.valeur_defaut`
)

func scanTemplate(row pgx.Row) (domain.ReportTemplate, error) {
	var t domain.ReportTemplate
	err := row.Scan(&t.ID, &t.Nom, &t.Description, &t.HasContent, &t.CreatedAt)
	return t, err
}

func scanParameter(row pgx.Row) (domain.ReportParameter, error) {
	var p domain.ReportParameter
	err := row.Scan(&p.ID, &p.TemplateID, &p.Nom, &p.Type, &p.Obligatoire, &p.ValeurDefaut)
	return p, err
}

func (s *Store) ListTemplates(ctx context.Context) ([]domain.ReportTemplate, error) {
	return run(ctx, s, "ListTemplates", func(ctx context.Context) ([]domain.ReportTemplate, error) {
		templates, err := queryAll(ctx, s.pool,
			`SELECT `+templateColumns+` FROM report_template r ORDER BY r.id`, nil, scanTemplate)
		if err != nil {
			return nil, err
		}
		params, err := queryAll(ctx, s.pool,
			`SELECT `+parameterColumns+` FROM report_parameter p ORDER BY p.template_id, p.id`, nil, scanParameter)
		if err != nil {
			return nil, err
		}

		byTemplate := make(map[int64][]domain.ReportParameter)
		for _, p := range params {
			byTemplate[p.TemplateID] = append(byTemplate[p.TemplateID], p)
		}
		for i := range templates {
			templates[i].Parameters = byTemplate[templates[i].ID]
		}
		return templates, nil
	})
}

func (s *Store) GetTemplate(ctx context.Context, id int64) (*domain.ReportTemplate, error) {
	return run(ctx, s, "GetTemplate", func(ctx context.Context) (*domain.ReportTemplate, error) {
		t, err := queryOne(ctx, s.pool,
			`SELECT `+templateColumns+` FROM report_template r WHERE r.id = $1`,
			[]any{id}, scanTemplate,
			&domain.ErrNotFound{Resource: "modele de rapport", ID: strconv.FormatInt(id, 10)})
		if err != nil {
			return nil, err
		}
		t.Parameters, err = queryAll(ctx, s.pool,
			`SELECT `+parameterColumns+` FROM report_parameter p WHERE p.template_id = $1 ORDER BY p.id`,
			[]any{id}, scanParameter)
		if err != nil {
			return nil, err
		}
		return &t, nil
	})
}

func (s *Store) GetTemplateContent(ctx context.Context, id int64) ([]byte, error) {
	return run(ctx, s, "GetTemplateContent", func(ctx context.Context) ([]byte, error) {
		key := strconv.FormatInt(id, 10)
		content, err := queryOne(ctx, s.pool,
			`SELECT r.contenu FROM report_template r WHERE r.id = $1`,
			[]any{id}, func(row pgx.Row) ([]byte, error) {
				var b []byte
				err := row.Scan(&b)
				return b, err
			},
			&domain.ErrNotFound{Resource: "modele de rapport", ID: key})
		if err != nil {
			return nil, err
		}
		if content == nil {
			return nil, &domain.ErrNotFound{Resource: "contenu du modele", ID: key}
		}
		return content, nil
	})
}
