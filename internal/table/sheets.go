package table

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/api/sheets/v4"
)

// Sheets is a Table backed by one worksheet of a Google spreadsheet.
// Row i of Rows is sheet row i+1.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	title         string
	lastColumn    string

	mu      sync.Mutex
	sheetID *int64 // resolved on first delete
}

// NewSheets creates a table over the worksheet named title, reading columns A through lastColumn.
func NewSheets(svc *sheets.Service, spreadsheetID, title, lastColumn string) *Sheets {
	return &Sheets{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		title:         title,
		lastColumn:    lastColumn,
	}
}

// a1 returns an A1 range covering the table's columns, e.g. 'Log'!A:D.
func (s *Sheets) a1() string {
	return "'" + strings.ReplaceAll(s.title, "'", "''") + "'!A:" + s.lastColumn
}

func (s *Sheets) Rows(ctx context.Context) ([][]string, error) {
	vr, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.a1()).
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get values %s: %w", s.title, err)
	}

	out := make([][]string, len(vr.Values))
	for i, r := range vr.Values {
		cells := make([]string, len(r))
		for j, v := range r {
			cells[j] = fmt.Sprint(v)
		}
		out[i] = cells
	}
	return out, nil
}

func (s *Sheets) Append(ctx context.Context, row []string) error {
	values := make([]any, len(row))
	for i, c := range row {
		values[i] = c
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.a1(), &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]any{values},
	}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append values %s: %w", s.title, err)
	}
	return nil
}

func (s *Sheets) DeleteRow(ctx context.Context, index int) error {
	sheetID, err := s.resolveSheetID(ctx)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:         sheetID,
					Dimension:       "ROWS",
					StartIndex:      int64(index),
					EndIndex:        int64(index) + 1,
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}

	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d of %s: %w", index, s.title, err)
	}
	return nil
}

// resolveSheetID looks up the numeric id of the worksheet, which row deletion requires.
func (s *Sheets) resolveSheetID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sheetID != nil {
		return *s.sheetID, nil
	}

	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet %s: %w", s.spreadsheetID, err)
	}

	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.title {
			id := sh.Properties.SheetId
			s.sheetID = &id
			return id, nil
		}
	}
	return 0, fmt.Errorf("worksheet %q not found in spreadsheet %s", s.title, s.spreadsheetID)
}
