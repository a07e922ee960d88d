// internal/history/store.go
package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bartek5186/ean13gen/internal/pipeline"
)

// Begin zapisuje nowy przebieg ze statusem pending i zwraca jego id.
func (h *Handle) Begin(source, sha string, size int64) (string, error) {
	rec := Run{
		RunID:      uuid.NewString(),
		SourceFile: source,
		SHA256:     sha,
		SizeBytes:  size,
		Status:     StatusPending,
	}
	if err := h.DB.Create(&rec).Error; err != nil {
		return "", err
	}
	return rec.RunID, nil
}

// Finish zapisuje wynik udanego przebiegu razem z kodami wierszy (jedna transakcja).
func (h *Handle) Finish(runID string, rep *pipeline.Report) error {
	return h.DB.Transaction(func(tx *gorm.DB) error {
		const batchSize = 500
		codes := make([]Code, 0, len(rep.Outcomes))
		for _, o := range rep.Outcomes {
			c := Code{
				RunID:     runID,
				RowNo:     o.Row,
				Product:   o.Product,
				Code:      o.Code,
				Generated: o.Generated,
				Status:    o.Status.String(),
				Image:     o.Image,
			}
			if o.Err != nil {
				c.Error = o.Err.Error()
			}
			codes = append(codes, c)
		}
		if len(codes) > 0 {
			if err := tx.CreateInBatches(&codes, batchSize).Error; err != nil {
				return fmt.Errorf("insert codes: %w", err)
			}
		}

		now := time.Now()
		return tx.Model(&Run{}).Where("run_id = ?", runID).Updates(map[string]any{
			"status":       StatusDone,
			"output_table": rep.OutputTable,
			"row_count":    len(rep.Outcomes),
			"generated":    rep.Generated,
			"preserved":    rep.Preserved,
			"errors":       rep.Errors,
			"finished_at":  now,
		}).Error
	})
}

// Fail oznacza przebieg jako nieudany.
func (h *Handle) Fail(runID string, runErr error) error {
	now := time.Now()
	return h.DB.Model(&Run{}).Where("run_id = ?", runID).Updates(map[string]any{
		"status":      StatusError,
		"error_kind":  pipeline.KindOf(runErr).String(),
		"last_error":  runErr.Error(),
		"finished_at": now,
	}).Error
}

// Processed mówi, czy plik o tym SHA ma już udany przebieg.
func (h *Handle) Processed(sha string) (bool, error) {
	var n int64
	err := h.DB.Model(&Run{}).
		Where("sha256 = ? AND status = ?", sha, StatusDone).
		Count(&n).Error
	return n > 0, err
}

// Recent zwraca ostatnie przebiegi (najnowsze pierwsze).
func (h *Handle) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Run
	err := h.DB.Order("started_at desc").Limit(limit).Find(&out).Error
	return out, err
}

func (h *Handle) Get(runID string) (*Run, error) {
	var r Run
	if err := h.DB.Where("run_id = ?", runID).Take(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// Codes zwraca kody przebiegu w kolejności wierszy.
func (h *Handle) Codes(runID string) ([]Code, error) {
	var out []Code
	err := h.DB.Where("run_id = ?", runID).Order("row_no asc").Find(&out).Error
	return out, err
}

// Seen zwraca przebiegi, w których dany kod już się pojawił.
func (h *Handle) Seen(code string) ([]Code, error) {
	var out []Code
	err := h.DB.Where("code = ?", code).Order("id asc").Find(&out).Error
	return out, err
}
