package pipelineservice

import (
	"bytes"
	"context"
	"fmt"

	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	funnelBackground = drawing.ColorFromHex("ffffff")
	funnelBar        = drawing.ColorFromHex("2f6f4f")
	funnelText       = drawing.ColorFromHex("333333")
)

const noApplicationsMessage = "No applications yet"

// FunnelChart renders a PNG bar chart of a job's applications per stage.
// Unknown jobs are NotFound.
func (s *PipelineService) FunnelChart(ctx context.Context, jobID uuid.UUID) ([]byte, error) {
	return call(s, ctx, "FunnelChart", jobID.String(), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		if _, err := s.rounds.GetJob(ctx, jobID); err != nil {
			if apperrors.IsDomain(err) {
				return results.FailureResult[[]byte, error](err), nil
			}
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("failed to load job: %w", err)
		}
		counts, err := s.repo.CountByStage(ctx, nil, jobID)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		png, err := renderFunnel(counts)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("failed to render funnel: %w", err)
		}
		return results.SuccessResult[[]byte, error](png), nil
	})
}

func renderFunnel(counts map[roundtypes.Stage]int) ([]byte, error) {
	bars := make([]chart.Value, 0, len(roundtypes.Stages))
	maxCount := 0
	for _, stage := range roundtypes.Stages {
		n := counts[stage]
		maxCount = max(maxCount, n)
		bars = append(bars, chart.Value{
			Label: string(stage),
			Value: float64(n),
			Style: chart.Style{FillColor: funnelBar, StrokeColor: funnelBar},
		})
	}

	graph := chart.BarChart{
		Width:      960,
		Height:     400,
		BarWidth:   100,
		BarSpacing: 40,
		Background: chart.Style{FillColor: funnelBackground},
		Canvas:     chart.Style{FillColor: funnelBackground},
		XAxis:      chart.Style{FontColor: funnelText, FontSize: 8},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: funnelText},
			// A zero-height range makes the renderer fail on an empty job.
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max(1, maxCount))},
		},
		Bars: bars,
	}
	if maxCount == 0 {
		graph.Elements = []chart.Renderable{noDataMessage}
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func noDataMessage(r chart.Renderer, cb chart.Box, _ chart.Style) {
	r.SetFontColor(funnelText)
	r.SetFontSize(14.0)
	tb := r.MeasureText(noApplicationsMessage)
	x := cb.Left + (cb.Width()-tb.Width())/2
	y := cb.Top + (cb.Height()+tb.Height())/2
	r.Text(noApplicationsMessage, x, y)
}
