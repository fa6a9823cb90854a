package io

import (
	"io"

	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"tilepart/query"
)

// WriteResultsAsJson writes the results as an indented JSON array.
func WriteResultsAsJson(results []query.Result, writer io.Writer) error {
	if results == nil {
		results = []query.Result{}
	}

	jsonBytes, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return errors.Wrap(err, "Unable to marshal query results")
	}

	_, err = writer.Write(append(jsonBytes, '\n'))
	if err != nil {
		return errors.Wrap(err, "Unable to write query results")
	}

	sigolo.Debugf("Wrote %d query results", len(results))
	return nil
}
