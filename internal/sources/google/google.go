// Package google loads purchase records from a Google Sheets range.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"purchases/internal/core"
	"purchases/internal/log"
	"purchases/internal/sources"
)

// DefaultRange is read when no range is configured.
const DefaultRange = "Purchases!A:G"

var _ sources.Loader = (*Loader)(nil)

// valuesGetter is the part of the Sheets API the loader uses.
type valuesGetter interface {
	Get(ctx context.Context, spreadsheetID, rng string) ([][]any, error)
}

type Loader struct {
	values        valuesGetter
	spreadsheetID string
	rng           string
	logger        *log.Logger
}

// New creates a loader reading rng from the given spreadsheet, authenticated
// with service account credentials from the environment. A nil logger logs
// through the slog default.
func New(ctx context.Context, spreadsheetID, rng string, logger *log.Logger) (*Loader, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newLoader(serviceValues{svc: svc}, spreadsheetID, rng, logger), nil
}

func newLoader(values valuesGetter, spreadsheetID, rng string, logger *log.Logger) *Loader {
	if strings.TrimSpace(rng) == "" {
		rng = DefaultRange
	}
	return &Loader{
		values:        values,
		spreadsheetID: spreadsheetID,
		rng:           rng,
		logger:        log.OrDefault(logger, log.ComponentSheets),
	}
}

func (l *Loader) Name() string {
	return fmt.Sprintf("sheets:%s/%s", l.spreadsheetID, l.rng)
}

func (l *Loader) Load(ctx context.Context) ([]core.PurchaseRecord, error) {
	values, err := l.values.Get(ctx, l.spreadsheetID, l.rng)
	if err != nil {
		return nil, &core.SourceError{Source: l.Name(), Err: fmt.Errorf("read %s: %w", l.rng, err)}
	}
	records, err := parseRows(values)
	if err != nil {
		return nil, &core.SourceError{Source: l.Name(), Err: err}
	}
	l.logger.InfoContext(ctx, "Loaded purchases from sheet",
		log.FieldOperation, log.OpLoad,
		log.FieldSource, l.Name(),
		"rows", len(values),
		log.FieldRecords, len(records))
	return records, nil
}

type serviceValues struct {
	svc *gsheet.Service
}

func (s serviceValues) Get(ctx context.Context, spreadsheetID, rng string) ([][]any, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// newSheetsService initializes a read-only Sheets Service using Service
// Account credentials from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		var err error
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}
