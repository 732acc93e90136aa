// Package report renders a printable footprint report for one submission.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/eltrackr/internal/submission/domain"
	"go.uber.org/fx"
)

const dateLayout = "2006-01-02 15:04 MST"

var Module = fx.Module("report",
	fx.Provide(New),
)

type Renderer interface {
	Render(ctx context.Context, submission domain.Submission) ([]byte, error)
}

type PDFRenderer struct {
	title string
}

func New() Renderer {
	return &PDFRenderer{title: "Carbon Footprint Report"}
}

// Render lays out the usage figures, the derived total and every recommendation.
func (r *PDFRenderer) Render(ctx context.Context, s domain.Submission) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()
	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(12, r.title, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(22,
		col.New(6).Add(
			text.New(s.Name, props.Text{Style: fontstyle.Bold}),
			text.New(s.Email, props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New("Record: "+s.ID.String(), props.Text{Align: align.Right}),
			text.New("Created: "+s.CreatedAt.Format(dateLayout), props.Text{Top: 5, Align: align.Right}),
			text.New("Updated: "+s.UpdatedAt.Format(dateLayout), props.Text{Top: 10, Align: align.Right}),
		),
	)

	m.AddRow(10,
		text.NewCol(8, "Usage", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(4, "Amount", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)
	for _, line := range usageLines(s) {
		m.AddRow(8,
			text.NewCol(8, line[0], props.Text{Size: 9}),
			text.NewCol(4, line[1], props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(14,
		col.New(6),
		text.NewCol(3, "Estimated CO2", props.Text{Style: fontstyle.Bold, Top: 4}),
		text.NewCol(3, fmt.Sprintf("%.2f kg", s.CO2Total), props.Text{Style: fontstyle.Bold, Top: 4, Align: align.Right}),
	)

	m.AddRow(12,
		text.NewCol(12, "Recommendations", props.Text{Style: fontstyle.Bold, Size: 12, Top: 4}),
	)
	for _, rec := range s.Recommendations {
		m.AddRow(8, text.NewCol(12, "- "+rec, props.Text{Size: 9}))
	}

	if policy := strings.TrimSpace(s.Policy); policy != "" {
		m.AddRow(10, text.NewCol(12, "Footprint policy: "+policy, props.Text{Size: 8, Top: 4}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}
	return doc.GetBytes(), nil
}

// Filename names the downloaded report after the submitter and the record id.
func Filename(s domain.Submission) string {
	if name := slug.Make(s.Name); name != "" {
		return fmt.Sprintf("footprint-%s-%s.pdf", name, s.ID.String())
	}
	return fmt.Sprintf("footprint-%s.pdf", s.ID.String())
}

func usageLines(s domain.Submission) [][2]string {
	return [][2]string{
		{"Energy usage (kWh)", formatFigure(s.EnergyUsage)},
		{"Water usage (litres)", formatFigure(s.WaterUsage)},
		{"Transport distance (km)", formatFigure(s.TransportDistance)},
	}
}

func formatFigure(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
