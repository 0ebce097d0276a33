package pipelineservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const boardSheet = "Board"

// ExportBoard renders a job's applications against its rounds as an XLSX
// workbook. Each round column holds the date the application entered it.
func (s *PipelineService) ExportBoard(ctx context.Context, jobID uuid.UUID) ([]byte, error) {
	return call(s, ctx, "ExportBoard", jobID.String(), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		rounds, err := s.rounds.ListRounds(ctx, jobID)
		if err != nil {
			if apperrors.IsDomain(err) {
				return results.FailureResult[[]byte, error](err), nil
			}
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("failed to list rounds: %w", err)
		}
		apps, err := s.repo.ListApplicationsByJob(ctx, nil, jobID)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		progress, err := s.repo.ListProgressByJob(ctx, nil, jobID)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}

		type pair struct{ app, round uuid.UUID }
		entered := make(map[pair]time.Time, len(progress))
		for _, p := range progress {
			entered[pair{p.ApplicationID, p.RoundID}] = p.EnteredAt
		}

		f := excelize.NewFile()
		defer f.Close()
		if _, err := f.NewSheet(boardSheet); err != nil {
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("xlsx sheet: %w", err)
		}
		index, _ := f.GetSheetIndex(boardSheet)
		f.SetActiveSheet(index)
		_ = f.DeleteSheet("Sheet1")

		headers := []string{"Candidate", "Email", "Stage", "Status"}
		for _, r := range rounds {
			headers = append(headers, r.Name)
		}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(boardSheet, cell, h)
		}

		for i, app := range apps {
			row := i + 2
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(boardSheet, cell, v)
			}
			write(1, app.CandidateName)
			write(2, app.CandidateEmail)
			write(3, string(app.Stage))
			write(4, string(app.Status))
			for j, r := range rounds {
				if at, ok := entered[pair{app.ID, r.ID}]; ok {
					write(5+j, at.UTC().Format("2006-01-02"))
				}
			}
		}

		_ = f.SetColWidth(boardSheet, "A", "A", 24)
		_ = f.SetColWidth(boardSheet, "B", "B", 32)
		_ = f.SetColWidth(boardSheet, "C", "D", 20)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("xlsx write: %w", err)
		}
		s.logger.InfoContext(ctx, "Board exported",
			slog.String("job_id", jobID.String()),
			slog.Int("rows", len(apps)),
			slog.Int("rounds", len(rounds)),
		)
		return results.SuccessResult[[]byte, error](buf.Bytes()), nil
	})
}
