// Package transform runs the parse, aggregate and report pipeline for one
// source workbook and reports the outcome as a Result.
package transform

import (
	"io"
	"log/slog"

	"traininghours/importer"
	"traininghours/output"
	"traininghours/summary"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Result is the boundary contract handed back to callers.
type Result struct {
	Status   Status   `json:"status"`
	RowCount int      `json:"num_rows"`
	Errors   []string `json:"error"`
	Warnings []string `json:"warning"`

	// Populated on success only.
	Output     string              `json:"output,omitempty"`
	Rejections []importer.RowError `json:"-"`
	Table      summary.Table       `json:"-"`
}

func Success(rowCount int, warnings []string) Result {
	if warnings == nil {
		warnings = []string{}
	}
	return Result{Status: StatusSuccess, RowCount: rowCount, Errors: []string{}, Warnings: warnings}
}

// Failure carries exactly one error and drops any row warnings.
func Failure(err error) Result {
	return Result{Status: StatusFailure, RowCount: 0, Errors: []string{err.Error()}, Warnings: []string{}}
}

func (r Result) Succeeded() bool {
	return r.Status == StatusSuccess
}

type Options struct {
	StrictHours   bool
	MissingName   string
	MissingSchool string
	Logger        *slog.Logger
}

// Run transforms src into a monthly report written at dest (extension forced
// to .xlsx). It never panics on expected failures; they come back as a
// failure Result.
func Run(src, dest string, options Options) Result {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	logger.Info("parse excel file started", slog.String("source", src))
	outcome, err := importer.Parse(src, importer.Options{
		StrictHours: options.StrictHours,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("could not process excel file", slog.String("source", src), slog.Any("error", err))
		return Failure(err)
	}
	logger.Info("rows processed",
		slog.Int("records", len(outcome.Records)),
		slog.Int("warnings", len(outcome.Warnings)),
	)

	table := summary.Build(outcome.Records, summary.Options{
		MissingName:   options.MissingName,
		MissingSchool: options.MissingSchool,
	})

	logger.Info("creating result file", slog.String("destination", dest))
	written, err := output.WriteMonthlyReport(dest, table)
	if err != nil {
		logger.Error("could not create result file", slog.String("destination", dest), slog.Any("error", err))
		return Failure(err)
	}
	logger.Info("result file created", slog.String("path", written), slog.Int("months", len(table.Months())))

	result := Success(len(outcome.Records), outcome.Warnings)
	result.Output = written
	result.Rejections = outcome.Rejections
	result.Table = table
	return result
}
