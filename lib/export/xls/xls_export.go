package xlsexport

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	candidateapimodels "talentflow-backend/models/api/candidate"
)

type Provider interface {
	ExportCandidateList(list []candidateapimodels.CandidateView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

func NewInstance() Provider {
	return impl{}
}

type impl struct{}

var candidateHeaders = []string{"ID", "Name", "Email", "Job", "Stage", "Applied at"}

func (i impl) ExportCandidateList(list []candidateapimodels.CandidateView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close xlsx file")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, candidateHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write xlsx header")
	}
	if len(list) != 0 {
		_, err = writeCandidateData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "failed to write xlsx rows")
		}
	}
	if err = f.SetSheetName(sheet, "Candidates"); err != nil {
		return nil, errors.Wrap(err, "failed to rename xlsx sheet")
	}
	return f.WriteToBuffer()
}

func writeCandidateData(f *excelize.File, sheet string, list []candidateapimodels.CandidateView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(candidateHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		values := []interface{}{
			item.ID,
			item.Name,
			item.Email,
			item.JobTitle,
			item.Stage.Label(),
			item.CreatedAt.Format("2006-01-02"),
		}
		for idx, value := range values {
			if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
