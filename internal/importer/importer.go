// Package importer turns CSV uploads of companies and persons into a single
// batch ledger invocation. A file is accepted or rejected as a whole: no
// ledger call is made unless every row converts.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/R3E-Network/korechain_gateway/internal/dispatch"
	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
	"github.com/R3E-Network/korechain_gateway/internal/ledger"
	"github.com/R3E-Network/korechain_gateway/internal/logging"
	"github.com/R3E-Network/korechain_gateway/internal/metrics"
	"github.com/R3E-Network/korechain_gateway/internal/normalize"
	"github.com/R3E-Network/korechain_gateway/internal/operations"
)

// Kind selects the record type of an import.
type Kind string

const (
	KindCompany Kind = "company"
	KindPerson  Kind = "person"
)

// Ledger functions receiving import batches.
const (
	FunctionImportCompanies = "ImportCompanies"
	FunctionImportPerson    = "ImportPerson"
)

// Submitter sends a prepared body to a ledger function.
type Submitter interface {
	Submit(ctx context.Context, mode ledger.Mode, function string, body interface{}) ledger.Result
}

// Config configures an Importer. NewRowID names each batch entry and
// defaults to random UUIDs.
type Config struct {
	Submitter Submitter
	Env       normalize.Env
	NewRowID  func() string
	Logger    *logging.Logger
}

// Importer converts CSV files to import batches.
type Importer struct {
	submitter Submitter
	env       normalize.Env
	newRowID  func() string
	log       *logging.Logger
}

// New creates an importer.
func New(cfg Config) (*Importer, error) {
	if cfg.Submitter == nil {
		return nil, errors.New("submitter required")
	}
	if cfg.Env.Now == nil {
		cfg.Env = normalize.DefaultEnv()
	}
	if cfg.NewRowID == nil {
		cfg.NewRowID = uuid.NewString
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewDiscard("importer")
	}
	return &Importer{submitter: cfg.Submitter, env: cfg.Env, newRowID: cfg.NewRowID, log: cfg.Logger}, nil
}

// Entry is one record of an import batch.
type Entry struct {
	Data map[string]interface{} `json:"data"`
	ID   string                 `json:"id"`
}

// Batch is the body sent to the import ledger functions.
type Batch struct {
	Data []Entry `json:"data"`
}

// Import reads a CSV file of the given kind and submits it as one batch.
func (i *Importer) Import(ctx context.Context, kind Kind, file io.Reader) ledger.Result {
	function, _, err := i.plan(kind)
	if err != nil {
		return dispatch.ErrorResult(err)
	}

	batch, err := i.Build(kind, file)
	if err != nil {
		metrics.RecordImportRows(string(kind), 0, false)
		i.log.WithContext(ctx).WithError(err).WithField("kind", kind).Info("import rejected")
		return dispatch.ErrorResult(err)
	}

	res := i.submitter.Submit(ctx, ledger.ModeInvoke, function, batch)
	metrics.RecordImportRows(string(kind), len(batch.Data), res.OK())
	i.log.WithContext(ctx).WithFields(map[string]interface{}{
		"kind":   kind,
		"rows":   len(batch.Data),
		"status": res.Status,
	}).Info("import submitted")
	return res
}

type rowBuilder func(row map[string]string, line int) (map[string]interface{}, error)

func (i *Importer) plan(kind Kind) (string, rowBuilder, error) {
	switch kind {
	case KindCompany:
		return FunctionImportCompanies, i.companyRow, nil
	case KindPerson:
		return FunctionImportPerson, i.personRow, nil
	default:
		return "", nil, svcerrors.Import(fmt.Sprintf("unsupported import kind %q", kind), nil)
	}
}

// Build parses file and converts every row, without submitting anything.
func (i *Importer) Build(kind Kind, file io.Reader) (*Batch, error) {
	_, build, err := i.plan(kind)
	if err != nil {
		return nil, err
	}

	rows, err := readRows(file)
	if err != nil {
		return nil, err
	}

	batch := &Batch{Data: make([]Entry, 0, len(rows))}
	for n, row := range rows {
		rec, err := build(row, n+2)
		if err != nil {
			return nil, err
		}
		batch.Data = append(batch.Data, Entry{Data: rec, ID: i.newRowID()})
	}
	return batch, nil
}

func (i *Importer) companyRow(row map[string]string, line int) (map[string]interface{}, error) {
	rec := normalize.Record{
		"cd": row["cd"],
		"source": map[string]interface{}{
			"source_system_id":   row["source_system_id"],
			"source_platform_id": row["source_platform_id"],
		},
		"status": row["status"],
	}
	for _, column := range []string{"company_id", "verifications", "other_references"} {
		v, err := jsonCell(row[column], column, line)
		if err != nil {
			return nil, err
		}
		rec[column] = v
	}
	return operations.NormalizeCompany(i.env, rec), nil
}

func (i *Importer) personRow(row map[string]string, _ int) (map[string]interface{}, error) {
	kyc := map[string]interface{}{
		"profile_id":        row["profile_id"],
		"provider_id":       row["provider_id"],
		"verification_date": row["verification_date"],
		"tid":               row["tid"],
		"kyc_report_hash":   row["kyc_report_hash"],
		"overall_status":    row["overall_status"],
	}
	if expiry := row["verification_expiry_date"]; expiry != "" {
		kyc["verification_expiry_date"] = expiry
	}

	rec := normalize.Record{
		"source_id":     row["source_id"],
		"pd":            row["pd"],
		"verifications": map[string]interface{}{"kyc_verification": kyc},
		"status":        row["status"],
	}
	return operations.NormalizePerson(i.env, rec), nil
}

// jsonCell decodes a cell holding JSON. Empty cells and null become [].
func jsonCell(cell, column string, line int) (interface{}, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return []interface{}{}, nil
	}
	if !gjson.Valid(cell) {
		return nil, svcerrors.Import(fmt.Sprintf("line %d: column %s is not valid JSON", line, column), nil).
			WithDetail("line", line).
			WithDetail("column", column)
	}
	v := gjson.Parse(cell).Value()
	if v == nil {
		return []interface{}{}, nil
	}
	return v, nil
}

// readRows reads a CSV file with a header line into header-keyed rows.
// Missing trailing cells read as "".
func readRows(file io.Reader) ([]map[string]string, error) {
	if file == nil {
		return nil, svcerrors.Import("Please upload a CSV file.", nil)
	}

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, svcerrors.Import("CSV file is empty", nil)
	}
	if err != nil {
		return nil, svcerrors.Import("CSV file could not be read: "+err.Error(), err)
	}
	for n := range header {
		header[n] = strings.TrimSpace(strings.TrimPrefix(header[n], "\ufeff"))
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, svcerrors.Import("CSV file could not be read: "+err.Error(), err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		row := make(map[string]string, len(header))
		for n, name := range header {
			if n < len(record) {
				row[name] = record[n]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, svcerrors.Import("CSV file has no data rows", nil)
	}
	return rows, nil
}
