// Package query contains the statements that can be run against a partition and the results they produce.
package query

import (
	"strings"
	"time"

	"github.com/hauke96/sigolo/v2"
	"tilepart/box"
	"tilepart/tiles"
)

type Query struct {
	statements []Statement
}

func NewQuery(statements []Statement) *Query {
	return &Query{statements: statements}
}

func (q *Query) Statements() []Statement {
	return q.statements
}

// Execute runs all statements in order and stops at the first failing one.
func (q *Query) Execute(view tiles.View[box.Box]) ([]Result, error) {
	sigolo.Info("Start query")
	queryStartTime := time.Now()

	results := make([]Result, 0, len(q.statements))
	for _, statement := range q.statements {
		sigolo.Debugf("Execute statement '%s'", statement)

		result, err := statement.Execute(view)
		if err != nil {
			return nil, err
		}

		sigolo.Debugf("Statement '%s' matched %d tiles", statement, len(result.Matches))
		results = append(results, *result)
	}

	queryDuration := time.Since(queryStartTime)
	sigolo.Infof("Executed query in %s", queryDuration)

	return results, nil
}

func (q *Query) String() string {
	lines := make([]string, len(q.statements))
	for i, statement := range q.statements {
		lines[i] = statement.String()
	}
	return strings.Join(lines, "\n")
}
